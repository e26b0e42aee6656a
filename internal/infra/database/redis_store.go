package database

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RedisBlobStore guarda cada chave como uma string no Redis.
type RedisBlobStore struct {
	Client *redis.Client
}

func NewRedisBlobStore(cfg RedisConfig, logger *zap.Logger) *RedisBlobStore {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("⚠️ redis inacessível", zap.String("addr", cfg.Addr), zap.Error(err))
	} else {
		logger.Info("✅ conectado ao redis", zap.String("addr", cfg.Addr))
	}

	return &RedisBlobStore{Client: client}
}

func (s *RedisBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrBlobNotFound
	}
	return value, err
}

func (s *RedisBlobStore) Set(ctx context.Context, key string, value []byte) error {
	return s.Client.Set(ctx, key, value, 0).Err()
}

func (s *RedisBlobStore) Ping(ctx context.Context) error {
	if s == nil || s.Client == nil {
		return errors.New("redis client not configured")
	}
	return s.Client.Ping(ctx).Err()
}

func (s *RedisBlobStore) Close() error {
	return s.Client.Close()
}
