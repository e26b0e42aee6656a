package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/xavierca1/ecocrm/internal/entity"
)

// ReminderDispatcher entrega o lembrete ao vendedor por algum canal
// (e-mail, WhatsApp).
type ReminderDispatcher interface {
	Name() string
	SendReminder(ctx context.Context, notice entity.ReminderNotice) error
}

// Fanout manda o lembrete para todos os canais configurados. Sem RabbitMQ
// ele é usado direto como notificador.
type Fanout struct {
	Dispatchers []ReminderDispatcher
	Logger      *zap.Logger

	// OnError recebe o nome do canal que falhou.
	OnError func(service string)
}

func (f *Fanout) Dispatch(ctx context.Context, notice entity.ReminderNotice) error {
	var errs []error
	for _, d := range f.Dispatchers {
		if err := d.SendReminder(ctx, notice); err != nil {
			f.Logger.Error("❌ falha ao entregar lembrete",
				zap.String("channel", d.Name()), zap.String("lead_id", notice.LeadID), zap.Error(err))
			if f.OnError != nil {
				f.OnError(d.Name())
			}
			errs = append(errs, fmt.Errorf("%s: %w", d.Name(), err))
			continue
		}
		f.Logger.Info("📨 lembrete entregue",
			zap.String("channel", d.Name()), zap.String("lead_id", notice.LeadID))
	}
	return errors.Join(errs...)
}

func (f *Fanout) NotifyReminder(ctx context.Context, notice entity.ReminderNotice) error {
	return f.Dispatch(ctx, notice)
}

// Consumer é o pedaço do *amqp.Channel que o worker usa.
type Consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type Worker struct {
	Channel Consumer
	Fanout  *Fanout
	Logger  *zap.Logger
}

func NewWorker(ch Consumer, fanout *Fanout, logger *zap.Logger) *Worker {
	return &Worker{Channel: ch, Fanout: fanout, Logger: logger}
}

// Start consome a fila até o ctx ser cancelado ou o canal fechar.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName, // fila
		"",        // consumer
		false,     // auto-ack (manual é mais seguro)
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		return fmt.Errorf("falha ao registrar consumidor RabbitMQ: %w", err)
	}

	w.Logger.Info("[*] Worker aguardando na fila", zap.String("queue", queueName))

	for {
		select {
		case <-ctx.Done():
			w.Logger.Info("⚠️ Worker da fila encerrado")
			return nil
		case d, ok := <-msgs:
			if !ok {
				w.Logger.Warn("⚠️ canal do RabbitMQ fechado")
				return nil
			}
			w.handle(ctx, d)
		}
	}
}

func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	w.Logger.Debug("📥 [WORKER] mensagem recebida", zap.String("message_id", d.MessageId))

	var notice entity.ReminderNotice
	if err := json.Unmarshal(d.Body, &notice); err != nil {
		w.Logger.Error("❌ [WORKER] JSON inválido", zap.Error(err))
		// mensagem podre vai direto pra DLQ
		_ = d.Nack(false, false)
		return
	}

	if err := w.Fanout.Dispatch(ctx, notice); err != nil {
		// sem redelivery: o que falhou fica na DLQ para inspeção
		_ = d.Nack(false, false)
		return
	}

	w.Logger.Info("✅ [WORKER] lembrete processado", zap.String("lead_id", notice.LeadID))
	_ = d.Ack(false)
}
