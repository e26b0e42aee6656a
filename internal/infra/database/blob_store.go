package database

import (
	"context"
	"errors"
	"sync"
)

// StorageKey é a chave única onde fica a coleção inteira de leads.
const StorageKey = "ecocrm_leads"

var ErrBlobNotFound = errors.New("blob not found")

// BlobStore é o armazenamento chave-valor por trás da coleção.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Pinger é implementado pelos stores que têm conexão para checar no /health.
type Pinger interface {
	Ping(ctx context.Context) error
}

type MemoryBlobStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{data: make(map[string][]byte)}
}

func (s *MemoryBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return nil, ErrBlobNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *MemoryBlobStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = append([]byte(nil), value...)
	return nil
}
