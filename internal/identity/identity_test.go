package identity

import (
	"errors"
	"path/filepath"
	"regexp"
	"testing"

	"roomledger/internal/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "user.json"))
}

func TestCurrentUserBeforeRegistration(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.CurrentUser(); !errors.Is(err, ErrNoUser) {
		t.Fatalf("got %v, want ErrNoUser", err)
	}
}

func TestCreateUser(t *testing.T) {
	store := newTestStore(t)

	user, err := store.CreateUser("Alice")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if user.Name != "Alice" {
		t.Fatalf("name = %s", user.Name)
	}
	if user.CreatedAt == "" {
		t.Fatal("createdAt must be set")
	}

	// Registration happens once, a second call returns the same user.
	again, err := store.CreateUser("Bob")
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if again.ID != user.ID || again.Name != "Alice" {
		t.Fatalf("second registration must be a no-op, got %+v", again)
	}
}

func TestCreateUserEmptyName(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.CreateUser("   "); !errors.Is(err, core.ErrEmptyName) {
		t.Fatalf("got %v, want ErrEmptyName", err)
	}
}

func TestUpdateUserName(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.UpdateUserName("Bob"); !errors.Is(err, ErrNoUser) {
		t.Fatalf("rename without registration should fail, got %v", err)
	}

	created, _ := store.CreateUser("Alice")
	updated, err := store.UpdateUserName("Alicia")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != created.ID {
		t.Fatal("rename must keep the id")
	}
	if updated.Name != "Alicia" || updated.UpdatedAt == "" {
		t.Fatalf("rename not persisted: %+v", updated)
	}

	reloaded, err := store.CurrentUser()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Name != "Alicia" {
		t.Fatalf("reloaded name = %s", reloaded.Name)
	}
}

func TestGenerateID(t *testing.T) {
	pattern := regexp.MustCompile(`^user_[0-9a-z]{9}_\d+$`)
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		id := GenerateID()
		if !pattern.MatchString(id) {
			t.Fatalf("id %q does not match expected shape", id)
		}
		seen[id] = true
	}
	if len(seen) < 2 {
		t.Fatal("ids should not collide constantly")
	}
}
