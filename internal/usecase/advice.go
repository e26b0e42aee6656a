package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/xavierca1/ecocrm/internal/entity"
)

// AdviceService envolve o provedor de IA: uma chamada em voo por lead,
// limite de taxa e timeout. Falha vira ErrNoAdvice, sem retentativa.
type AdviceService struct {
	provider AdviceProvider
	limiter  *rate.Limiter
	timeout  time.Duration
	logger   *zap.Logger
	group    singleflight.Group

	// OnResult é chamado com "ok" ou "error" a cada chamada real ao provedor.
	OnResult func(result string)
}

func NewAdviceService(provider AdviceProvider, perMinute int, timeout time.Duration, logger *zap.Logger) *AdviceService {
	limit := rate.Inf
	if perMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(perMinute))
	}
	return &AdviceService{
		provider: provider,
		limiter:  rate.NewLimiter(limit, 1),
		timeout:  timeout,
		logger:   logger,
	}
}

func (s *AdviceService) Enabled() bool {
	return s != nil && s.provider != nil
}

func (s *AdviceService) Advise(ctx context.Context, lead entity.Lead) (entity.Advice, error) {
	if !s.Enabled() {
		return entity.Advice{}, &AdviceProviderError{LeadID: lead.ID, Err: errProviderDisabled}
	}

	// A chamada ao provedor não herda o cancelamento de quem pediu: se o
	// chamador desistir, o pedido segue e o resultado fica para quem estiver
	// esperando pelo mesmo lead.
	ch := s.group.DoChan(lead.ID, func() (interface{}, error) {
		return s.call(context.WithoutCancel(ctx), lead)
	})

	select {
	case <-ctx.Done():
		return entity.Advice{}, &AdviceProviderError{LeadID: lead.ID, Err: ctx.Err()}
	case res := <-ch:
		if res.Shared {
			s.logger.Debug("pedido de sugestão compartilhado", zap.String("lead_id", lead.ID))
		}
		if res.Err != nil {
			return entity.Advice{}, res.Err
		}
		return res.Val.(entity.Advice), nil
	}
}

func (s *AdviceService) call(ctx context.Context, lead entity.Lead) (entity.Advice, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return s.fail(lead, err)
	}

	advice, err := s.provider.GetAdvice(ctx, lead)
	if err != nil {
		return s.fail(lead, err)
	}
	if !advice.Complete() {
		return s.fail(lead, errIncompleteAdvice)
	}

	s.record("ok")
	s.logger.Info("✨ sugestão de abordagem gerada", zap.String("lead_id", lead.ID))
	return advice, nil
}

func (s *AdviceService) fail(lead entity.Lead, err error) (entity.Advice, error) {
	s.record("error")
	s.logger.Warn("⚠️ erro ao obter sugestão da IA", zap.String("lead_id", lead.ID), zap.Error(err))
	return entity.Advice{}, &AdviceProviderError{LeadID: lead.ID, Err: err}
}

func (s *AdviceService) record(result string) {
	if s.OnResult != nil {
		s.OnResult(result)
	}
}
