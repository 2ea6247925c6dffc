package docstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestInsertAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.Insert(ctx, CollectionExpenses, "2024-03-01", []byte(`{"title":"Rice"}`))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if id == "" {
		t.Fatal("insert should assign an id")
	}

	body, err := store.Get(ctx, CollectionExpenses, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(body) != `{"title":"Rice"}` {
		t.Fatalf("body = %s", body)
	}
}

func TestReopenExistingDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	first, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	id, err := first.Insert(ctx, CollectionExpenses, "2024-03-01", []byte(`{"title":"Rice"}`))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Reopening reruns migrations against a schema that is already
	// current and must leave the store fully usable.
	second, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer second.Close()

	if _, err := second.Get(ctx, CollectionExpenses, id); err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if _, err := second.Insert(ctx, CollectionExpenses, "2024-03-02", []byte(`{"title":"Beans"}`)); err != nil {
		t.Fatalf("insert after reopen: %v", err)
	}
}

func TestGetMissing(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Get(context.Background(), CollectionExpenses, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestPutOverwritesSingleton(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, CollectionBudget, SingletonID, "", []byte(`{"amount":100}`)); err != nil {
		t.Fatalf("first put: %v", err)
	}
	if err := store.Put(ctx, CollectionBudget, SingletonID, "", []byte(`{"amount":200}`)); err != nil {
		t.Fatalf("second put: %v", err)
	}

	body, err := store.Get(ctx, CollectionBudget, SingletonID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(body) != `{"amount":200}` {
		t.Fatalf("singleton should be overwritten wholesale, got %s", body)
	}

	docs, err := store.List(ctx, CollectionBudget, Ascending)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("singleton collection should hold one document, got %d", len(docs))
	}
}

func TestUpdateMissing(t *testing.T) {
	store := newTestStore(t)
	err := store.Update(context.Background(), CollectionExpenses, "nope", "", []byte(`{}`))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, _ := store.Insert(ctx, CollectionExpenses, "2024-03-01", []byte(`{}`))
	if err := store.Delete(ctx, CollectionExpenses, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, CollectionExpenses, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound after delete", err)
	}
	if err := store.Delete(ctx, CollectionExpenses, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("double delete should be ErrNotFound, got %v", err)
	}
}

func TestListOrdering(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Inserted out of order on purpose.
	store.Insert(ctx, CollectionExpenses, "2024-03-10", []byte(`{"n":2}`))
	store.Insert(ctx, CollectionExpenses, "2024-03-20", []byte(`{"n":3}`))
	store.Insert(ctx, CollectionExpenses, "2024-03-01", []byte(`{"n":1}`))

	docs, err := store.List(ctx, CollectionExpenses, Descending)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("len = %d, want 3", len(docs))
	}
	want := []string{`{"n":3}`, `{"n":2}`, `{"n":1}`}
	for i, doc := range docs {
		if string(doc.Body) != want[i] {
			t.Fatalf("position %d: got %s, want %s", i, doc.Body, want[i])
		}
	}

	asc, _ := store.List(ctx, CollectionExpenses, Ascending)
	if string(asc[0].Body) != `{"n":1}` {
		t.Fatalf("ascending order broken: %s", asc[0].Body)
	}
}

func TestClear(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	store.Insert(ctx, CollectionExpenses, "a", []byte(`{}`))
	store.Insert(ctx, CollectionExpenses, "b", []byte(`{}`))
	store.Insert(ctx, CollectionRoommates, "c", []byte(`{}`))

	if err := store.Clear(ctx, CollectionExpenses); err != nil {
		t.Fatalf("clear: %v", err)
	}
	docs, _ := store.List(ctx, CollectionExpenses, Ascending)
	if len(docs) != 0 {
		t.Fatalf("expenses should be empty after clear, got %d", len(docs))
	}
	others, _ := store.List(ctx, CollectionRoommates, Ascending)
	if len(others) != 1 {
		t.Fatalf("clear must not touch other collections, got %d", len(others))
	}
}
