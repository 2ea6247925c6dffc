package docstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver
)

var _ Store = (*PostgresStore)(nil)

// PostgresStore backs the document store with PostgreSQL for deployments
// where several roomledger instances share one database.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects with a pgx DSN and runs migrations.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	if err := runPostgresMigrations(dsn); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres database: %w", err)
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *PostgresStore) Insert(ctx context.Context, collection, sortKey string, body []byte) (string, error) {
	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO documents (collection, id, sort_key, body) VALUES ($1, $2, $3, $4)",
		collection, id, sortKey, string(body),
	)
	if err != nil {
		return "", fmt.Errorf("insert document: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) Put(ctx context.Context, collection, id, sortKey string, body []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, sort_key, body) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (collection, id) DO UPDATE SET sort_key = EXCLUDED.sort_key, body = EXCLUDED.body`,
		collection, id, sortKey, string(body),
	)
	if err != nil {
		return fmt.Errorf("put document: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, collection, id, sortKey string, body []byte) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE documents SET sort_key = $1, body = $2 WHERE collection = $3 AND id = $4",
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

func (s *PostgresStore) Get(ctx context.Context, collection, id string) ([]byte, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		"SELECT body FROM documents WHERE collection = $1 AND id = $2",
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

func (s *PostgresStore) Delete(ctx context.Context, collection, id string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM documents WHERE collection = $1 AND id = $2",
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

func (s *PostgresStore) Clear(ctx context.Context, collection string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE collection = $1", collection)
	if err != nil {
		return fmt.Errorf("clear collection: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, collection string, order Order) ([]Document, error) {
	dir := "ASC"
	if order == Descending {
		dir = "DESC"
	}
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("SELECT id, body FROM documents WHERE collection = $1 ORDER BY sort_key %s, id %s", dir, dir),
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
