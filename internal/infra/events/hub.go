package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/xavierca1/ecocrm/internal/entity"
)

const (
	TypePing        = "ping"
	TypeReminderDue = "reminder_due"
	TypeLeadChanged = "lead_changed"
)

type Event struct {
	Type string          `json:"type"`
	At   time.Time       `json:"at"`
	Data json.RawMessage `json:"data,omitempty"`
}

func MakeEvent(typ string, data any) (string, error) {
	e := Event{Type: typ, At: time.Now().UTC()}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return "", err
		}
		e.Data = raw
	}
	b, err := json.Marshal(e)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Hub distribui eventos para os clientes SSE conectados.
type Hub struct {
	mu      sync.Mutex
	clients map[chan string]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[chan string]struct{})}
}

func (h *Hub) Subscribe() chan string {
	ch := make(chan string, 10)
	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *Hub) Unsubscribe(ch chan string) {
	h.mu.Lock()
	delete(h.clients, ch)
	h.mu.Unlock()
	close(ch)
}

func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) Publish(evt string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.clients {
		select {
		case ch <- evt:
		default:
			// cliente lento perde o evento
		}
	}
}

// NotifyReminder publica o lembrete como evento reminder_due.
func (h *Hub) NotifyReminder(ctx context.Context, notice entity.ReminderNotice) error {
	evt, err := MakeEvent(TypeReminderDue, notice)
	if err != nil {
		return err
	}
	h.Publish(evt)
	return nil
}

// LeadChanged avisa a tela que a lista mudou.
func (h *Hub) LeadChanged(action, id string) {
	evt, err := MakeEvent(TypeLeadChanged, map[string]string{"action": action, "id": id})
	if err != nil {
		return
	}
	h.Publish(evt)
}
