package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/ecocrm/internal/entity"
)

// Publisher é o pedaço do *amqp.Channel que o producer usa.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type ReminderProducerInterface interface {
	PublishReminder(ctx context.Context, notice entity.ReminderNotice) error
}

type RabbitMQProducer struct {
	Ch Publisher
}

func NewProducer(ch Publisher) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch}
}

func (p *RabbitMQProducer) PublishReminder(ctx context.Context, notice entity.ReminderNotice) error {
	body, err := json.Marshal(notice)
	if err != nil {
		return fmt.Errorf("erro ao converter payload: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName, // ex.reminders
		RoutingKey,   // k.reminder
		false,        // Mandatory
		false,        // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			MessageId:    notice.LeadID + "@" + notice.FiredAt.UTC().Format("20060102T150405"),
		},
	)
	if err != nil {
		return fmt.Errorf("falha ao publicar no RabbitMQ: %w", err)
	}
	return nil
}

// NotifyReminder deixa o producer ser usado direto como notificador do worker.
func (p *RabbitMQProducer) NotifyReminder(ctx context.Context, notice entity.ReminderNotice) error {
	return p.PublishReminder(ctx, notice)
}
