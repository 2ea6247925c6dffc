package services

import (
	"path/filepath"
	"testing"
	"time"

	"roomledger/internal/docstore"
)

func newTestBackend(t *testing.T) (docstore.Store, *docstore.Hub) {
	t.Helper()
	store, err := docstore.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store, docstore.NewHub(nil)
}

func fixedNow() time.Time {
	return time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
}
