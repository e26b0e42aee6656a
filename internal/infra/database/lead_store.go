package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/xavierca1/ecocrm/internal/entity"
)

// PersistenceReadError marca um blob que existe mas não pôde ser decodificado.
type PersistenceReadError struct {
	Key string
	Err error
}

func (e *PersistenceReadError) Error() string {
	return fmt.Sprintf("falha ao ler %q: %v", e.Key, e.Err)
}

func (e *PersistenceReadError) Unwrap() error {
	return e.Err
}

// LeadStore serializa a coleção inteira como um documento JSON numa chave só.
type LeadStore struct {
	blobs  BlobStore
	key    string
	logger *zap.Logger
}

func NewLeadStore(blobs BlobStore, logger *zap.Logger) *LeadStore {
	return &LeadStore{blobs: blobs, key: StorageKey, logger: logger}
}

// Load devolve a coleção salva. Sem dados ou com blob corrompido a coleção
// começa vazia; se o store não responde, o erro sobe para o chamador não
// gravar uma coleção vazia por cima dos dados reais.
func (s *LeadStore) Load(ctx context.Context) ([]entity.Lead, error) {
	leads, err := s.read(ctx)
	var pe *PersistenceReadError
	if errors.As(err, &pe) {
		s.logger.Error("❌ coleção de leads ilegível, começando vazia", zap.Error(err))
		return []entity.Lead{}, nil
	}
	if err != nil {
		s.logger.Error("❌ store indisponível ao carregar leads", zap.Error(err))
		return nil, err
	}
	return leads, nil
}

func (s *LeadStore) read(ctx context.Context) ([]entity.Lead, error) {
	raw, err := s.blobs.Get(ctx, s.key)
	if errors.Is(err, ErrBlobNotFound) {
		return []entity.Lead{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao ler %q: %w", s.key, err)
	}

	var leads []entity.Lead
	if err := json.Unmarshal(raw, &leads); err != nil {
		return nil, &PersistenceReadError{Key: s.key, Err: err}
	}
	if leads == nil {
		leads = []entity.Lead{}
	}
	return leads, nil
}

// Save sobrescreve o blob com a coleção inteira.
func (s *LeadStore) Save(ctx context.Context, leads []entity.Lead) error {
	if leads == nil {
		leads = []entity.Lead{}
	}
	body, err := json.Marshal(leads)
	if err != nil {
		return fmt.Errorf("erro ao serializar leads: %w", err)
	}
	if err := s.blobs.Set(ctx, s.key, body); err != nil {
		return fmt.Errorf("erro ao gravar leads: %w", err)
	}
	return nil
}

// Ping delega para o store quando ele tem conexão.
func (s *LeadStore) Ping(ctx context.Context) error {
	if p, ok := s.blobs.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
