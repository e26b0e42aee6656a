package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type sqlDialect struct {
	createTable string
	selectBlob  string
	upsertBlob  string
}

var postgresDialect = sqlDialect{
	createTable: `
		CREATE TABLE IF NOT EXISTS kv_store (
			blob_key   TEXT PRIMARY KEY,
			blob_value BYTEA NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	selectBlob: `SELECT blob_value FROM kv_store WHERE blob_key = $1`,
	upsertBlob: `
		INSERT INTO kv_store (blob_key, blob_value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (blob_key)
		DO UPDATE SET blob_value = EXCLUDED.blob_value, updated_at = NOW()`,
}

var sqliteDialect = sqlDialect{
	createTable: `
		CREATE TABLE IF NOT EXISTS kv_store (
			blob_key   TEXT PRIMARY KEY,
			blob_value BLOB NOT NULL,
			updated_at TEXT NOT NULL DEFAULT (datetime('now'))
		)`,
	selectBlob: `SELECT blob_value FROM kv_store WHERE blob_key = ?`,
	upsertBlob: `
		INSERT INTO kv_store (blob_key, blob_value, updated_at)
		VALUES (?, ?, datetime('now'))
		ON CONFLICT (blob_key)
		DO UPDATE SET blob_value = excluded.blob_value, updated_at = datetime('now')`,
}

// SQLBlobStore guarda os blobs numa tabela chave-valor.
type SQLBlobStore struct {
	DB      *sql.DB
	dialect sqlDialect
}

func NewPostgresBlobStore(ctx context.Context, db *sql.DB) (*SQLBlobStore, error) {
	return newSQLBlobStore(ctx, db, postgresDialect)
}

func NewSQLiteBlobStore(ctx context.Context, db *sql.DB) (*SQLBlobStore, error) {
	return newSQLBlobStore(ctx, db, sqliteDialect)
}

func newSQLBlobStore(ctx context.Context, db *sql.DB, d sqlDialect) (*SQLBlobStore, error) {
	if _, err := db.ExecContext(ctx, d.createTable); err != nil {
		return nil, fmt.Errorf("erro ao criar kv_store: %w", err)
	}
	return &SQLBlobStore{DB: db, dialect: d}, nil
}

func (s *SQLBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.DB.QueryRowContext(ctx, s.dialect.selectBlob, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBlobNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (s *SQLBlobStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.DB.ExecContext(ctx, s.dialect.upsertBlob, key, value)
	return err
}

func (s *SQLBlobStore) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

func (s *SQLBlobStore) Close() error {
	return s.DB.Close()
}
