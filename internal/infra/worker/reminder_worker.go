package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/ecocrm/internal/entity"
	"github.com/xavierca1/ecocrm/internal/usecase"
)

const maxRecentReminders = 50

// LeadSource é a parte do repositório que o worker usa: lê snapshots e só
// escreve pelo MarkNotified.
type LeadSource interface {
	Snapshot(ctx context.Context) []entity.Lead
	MarkNotified(ctx context.Context, id string) (entity.Lead, error)
}

// Notifier recebe cada lembrete disparado (SSE, fila, envio direto).
type Notifier interface {
	NotifyReminder(ctx context.Context, notice entity.ReminderNotice) error
}

type ReminderWorker struct {
	leads        LeadSource
	notifiers    []Notifier
	tickInterval time.Duration
	now          func() time.Time
	logger       *zap.Logger

	// OnFired é chamado com a quantidade disparada em cada varredura.
	OnFired func(n int)

	scanMu  sync.Mutex
	mu      sync.RWMutex
	current []entity.Lead
	recent  []entity.ReminderNotice
}

func NewReminderWorker(leads LeadSource, tickInterval time.Duration, logger *zap.Logger, notifiers ...Notifier) *ReminderWorker {
	if tickInterval <= 0 {
		tickInterval = 30 * time.Second
	}
	return &ReminderWorker{
		leads:        leads,
		notifiers:    notifiers,
		tickInterval: tickInterval,
		now:          time.Now,
		logger:       logger,
		current:      []entity.Lead{},
		recent:       []entity.ReminderNotice{},
	}
}

// Start roda uma varredura imediata e depois uma a cada tick, até o ctx
// ser cancelado.
func (w *ReminderWorker) Start(ctx context.Context) {
	w.logger.Info("🕒 Reminder Worker iniciado", zap.Duration("interval", w.tickInterval))

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.ScanOnce(ctx, w.now())

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("⚠️ Reminder Worker encerrado")
			return
		case <-ticker.C:
			w.ScanOnce(ctx, w.now())
		}
	}
}

// ScanOnce marca como notificados os leads com retorno vencido e devolve
// os que dispararam nesta varredura.
func (w *ReminderWorker) ScanOnce(ctx context.Context, now time.Time) []entity.Lead {
	w.scanMu.Lock()
	defer w.scanMu.Unlock()

	due := usecase.DueReminders(w.leads.Snapshot(ctx), now)

	fired := make([]entity.Lead, 0, len(due))
	notices := make([]entity.ReminderNotice, 0, len(due))
	for _, lead := range due {
		marked, err := w.leads.MarkNotified(ctx, lead.ID)
		if errors.Is(err, entity.ErrLeadNotFound) {
			// removido entre o snapshot e a marcação
			continue
		}
		if err != nil {
			w.logger.Error("❌ erro ao marcar lembrete como notificado",
				zap.String("lead_id", lead.ID), zap.Error(err))
			continue
		}

		notice := entity.NewReminderNotice(marked, now)
		w.logger.Info("🔔 retorno agendado chegou",
			zap.String("lead_id", marked.ID),
			zap.String("name", marked.Name),
			zap.Time("return_at", *marked.ReturnDateTime))

		w.notify(ctx, notice)
		fired = append(fired, marked)
		notices = append(notices, notice)
	}

	w.remember(fired, notices)

	if len(fired) > 0 {
		w.logger.Info("✅ lembretes disparados", zap.Int("count", len(fired)))
		if w.OnFired != nil {
			w.OnFired(len(fired))
		}
	}
	return fired
}

func (w *ReminderWorker) notify(ctx context.Context, notice entity.ReminderNotice) {
	for _, n := range w.notifiers {
		if err := n.NotifyReminder(ctx, notice); err != nil {
			w.logger.Warn("⚠️ falha ao publicar lembrete",
				zap.String("lead_id", notice.LeadID), zap.Error(err))
		}
	}
}

func (w *ReminderWorker) remember(fired []entity.Lead, notices []entity.ReminderNotice) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.current = fired

	// mais recentes primeiro
	recent := make([]entity.ReminderNotice, 0, len(notices)+len(w.recent))
	for i := len(notices) - 1; i >= 0; i-- {
		recent = append(recent, notices[i])
	}
	recent = append(recent, w.recent...)
	if len(recent) > maxRecentReminders {
		recent = recent[:maxRecentReminders]
	}
	w.recent = recent
}

// Current devolve o conjunto disparado na última varredura.
func (w *ReminderWorker) Current() []entity.Lead {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]entity.Lead{}, w.current...)
}

// Recent devolve os últimos lembretes disparados, do mais novo ao mais velho.
func (w *ReminderWorker) Recent() []entity.ReminderNotice {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]entity.ReminderNotice{}, w.recent...)
}
