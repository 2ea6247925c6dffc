package cache

import (
	"testing"
	"time"
)

func TestLRUSetGet(t *testing.T) {
	c := NewLRUCache[int](10, time.Minute)

	c.Set("a", 1)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("get = %d, %v", v, ok)
	}
	if _, ok := c.Get("missing"); ok {
		t.Fatal("missing key should not hit")
	}
}

func TestLRUEviction(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a") // refresh a, b becomes the oldest
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Fatal("least recently used entry should be evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatal("recently used entry should survive")
	}
	if c.Size() != 2 {
		t.Fatalf("size = %d, want 2", c.Size())
	}
}

func TestLRUTTLExpiry(t *testing.T) {
	c := NewLRUCache[int](10, 10*time.Millisecond)

	c.Set("a", 1)
	time.Sleep(20 * time.Millisecond)
	if _, ok := c.Get("a"); ok {
		t.Fatal("expired entry should miss")
	}

	c.Set("b", 2)
	time.Sleep(20 * time.Millisecond)
	if removed := c.CleanExpired(); removed != 1 {
		t.Fatalf("CleanExpired = %d, want 1", removed)
	}
}

func TestLRUInvalidatePrefix(t *testing.T) {
	c := NewLRUCache[string](10, time.Minute)

	c.Set("analytics:2024-3", "a")
	c.Set("analytics:2024-4", "b")
	c.Set("other:1", "c")

	if removed := c.InvalidatePrefix("analytics:"); removed != 2 {
		t.Fatalf("InvalidatePrefix = %d, want 2", removed)
	}
	if _, ok := c.Get("analytics:2024-3"); ok {
		t.Fatal("prefixed entry should be gone")
	}
	if _, ok := c.Get("other:1"); !ok {
		t.Fatal("unrelated entry should survive")
	}
}
