package docstore

import (
	"fmt"
	"log/slog"
)

// BackendType selects the persistence backend.
type BackendType string

const (
	SQLiteBackend   BackendType = "sqlite"
	PostgresBackend BackendType = "postgres"
)

func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, PostgresBackend:
		return true
	default:
		return false
	}
}

// Config holds backend selection and connection settings.
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// PostgreSQL specific
	PostgresDSN string
}

// Open creates the configured store.
func Open(cfg Config, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch cfg.Type {
	case SQLiteBackend:
		store, err := NewSQLiteStore(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite store: %w", err)
		}
		logger.Info("Initialized SQLite document store", "db_path", cfg.SQLiteDBPath)
		return store, nil
	case PostgresBackend:
		store, err := NewPostgresStore(cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("initialize postgres store: %w", err)
		}
		logger.Info("Initialized PostgreSQL document store")
		return store, nil
	default:
		return nil, fmt.Errorf("invalid document store backend: %s", cfg.Type)
	}
}
