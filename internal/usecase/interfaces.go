package usecase

import (
	"context"

	"github.com/xavierca1/ecocrm/internal/entity"
)

// LeadStore persiste a coleção inteira de uma vez (um único blob).
// Blob ausente ou corrompido vira coleção vazia; erro só quando o store
// não pôde ser lido.
type LeadStore interface {
	Load(ctx context.Context) ([]entity.Lead, error)
	Save(ctx context.Context, leads []entity.Lead) error
}

// AdviceProvider é o serviço externo de IA que sugere a abordagem de venda.
type AdviceProvider interface {
	GetAdvice(ctx context.Context, lead entity.Lead) (entity.Advice, error)
}
