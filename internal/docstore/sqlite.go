package docstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // pure Go SQLite driver, no CGO
)

var _ Store = (*SQLiteStore)(nil)

// SQLiteStore is the default backend: a single documents table in a local
// SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at dbPath and runs
// migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	if err := runSQLiteMigrations(dbPath); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) Insert(ctx context.Context, collection, sortKey string, body []byte) (string, error) {
	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO documents (collection, id, sort_key, body) VALUES (?, ?, ?, ?)",
		collection, id, sortKey, string(body),
	)
	if err != nil {
		return "", fmt.Errorf("insert document: %w", err)
	}
	return id, nil
}

func (s *SQLiteStore) Put(ctx context.Context, collection, id, sortKey string, body []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, sort_key, body) VALUES (?, ?, ?, ?)
		 ON CONFLICT(collection, id) DO UPDATE SET sort_key = excluded.sort_key, body = excluded.body`,
		collection, id, sortKey, string(body),
	)
	if err != nil {
		return fmt.Errorf("put document: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Update(ctx context.Context, collection, id, sortKey string, body []byte) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE documents SET sort_key = ?, body = ? WHERE collection = ? AND id = ?",
		sortKey, string(body), collection, id,
	)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, collection, id string) ([]byte, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		"SELECT body FROM documents WHERE collection = ? AND id = ?",
		collection, id,
	).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return []byte(body), nil
}

func (s *SQLiteStore) Delete(ctx context.Context, collection, id string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM documents WHERE collection = ? AND id = ?",
		collection, id,
	)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) Clear(ctx context.Context, collection string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE collection = ?", collection)
	if err != nil {
		return fmt.Errorf("clear collection: %w", err)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context, collection string, order Order) ([]Document, error) {
	dir := "ASC"
	if order == Descending {
		dir = "DESC"
	}
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("SELECT id, body FROM documents WHERE collection = ? ORDER BY sort_key %s, id %s", dir, dir),
		collection,
	)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var id, body string
		if err := rows.Scan(&id, &body); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, Document{ID: id, Body: []byte(body)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return docs, nil
}
