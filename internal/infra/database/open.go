package database

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"
)

const (
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

type StoreConfig struct {
	Driver      string
	DataDir     string
	SQLitePath  string
	DatabaseURL string
	Redis       RedisConfig
}

// OpenBlobStore escolhe o backend pelo driver configurado. O closer
// devolvido nunca é nil.
func OpenBlobStore(ctx context.Context, cfg StoreConfig, logger *zap.Logger) (BlobStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Driver {
	case "", DriverFile:
		store, err := NewFileBlobStore(cfg.DataDir)
		if err != nil {
			return nil, noop, err
		}
		logger.Info("📂 usando store em arquivo", zap.String("dir", cfg.DataDir))
		return store, noop, nil

	case DriverSQLite:
		path := cfg.SQLitePath
		if path == "" {
			path = filepath.Join(cfg.DataDir, "ecocrm.db")
		}
		db, err := NewSQLiteConnection(path)
		if err != nil {
			return nil, noop, fmt.Errorf("erro ao abrir sqlite: %w", err)
		}
		store, err := NewSQLiteBlobStore(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, noop, err
		}
		logger.Info("🗄️ usando store sqlite", zap.String("path", path))
		return store, store.Close, nil

	case DriverPostgres:
		db, err := NewDBConnection(cfg.DatabaseURL)
		if err != nil {
			return nil, noop, fmt.Errorf("erro ao conectar no postgres: %w", err)
		}
		store, err := NewPostgresBlobStore(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, noop, err
		}
		logger.Info("🐘 usando store postgres")
		return store, store.Close, nil

	case DriverRedis:
		store := NewRedisBlobStore(cfg.Redis, logger)
		return store, store.Close, nil

	case DriverMemory:
		logger.Warn("⚠️ store em memória: os leads somem ao reiniciar")
		return NewMemoryBlobStore(), noop, nil
	}

	return nil, noop, fmt.Errorf("STORE_DRIVER desconhecido: %q", cfg.Driver)
}
