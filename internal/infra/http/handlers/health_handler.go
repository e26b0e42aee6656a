package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	Store           Pinger
	StoreDriver     string
	LeadsLoaded     func() bool // coleção lida do store
	RabbitMQ        func() bool // nil quando não configurado
	AdviceEnabled   bool
	MailEnabled     bool
	WhatsAppEnabled bool
	StartTime       time.Time
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Uptime       string            `json:"uptime"`
	Dependencies map[string]string `json:"dependencies"`
}

func NewHealthHandler(store Pinger, storeDriver string) *HealthHandler {
	return &HealthHandler{
		Store:       store,
		StoreDriver: storeDriver,
		StartTime:   time.Now(),
	}
}

func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	deps := make(map[string]string)

	// Store
	if h.Store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.Store.Ping(ctx); err != nil {
			deps["store"] = fmt.Sprintf("unhealthy: %v", err)
		} else {
			deps["store"] = "healthy"
		}
	} else {
		deps["store"] = "not configured"
	}
	if h.LeadsLoaded != nil {
		if h.LeadsLoaded() {
			deps["leads"] = "healthy"
		} else {
			deps["leads"] = "unhealthy: coleção não carregada"
		}
	}
	if h.StoreDriver != "" {
		deps["store_driver"] = h.StoreDriver
	}

	// RabbitMQ
	if h.RabbitMQ != nil {
		if h.RabbitMQ() {
			deps["rabbitmq"] = "healthy"
		} else {
			deps["rabbitmq"] = "unhealthy: connection closed"
		}
	} else {
		deps["rabbitmq"] = "not configured"
	}

	deps["gemini"] = configured(h.AdviceEnabled)
	deps["mail"] = configured(h.MailEnabled)
	deps["whatsapp"] = configured(h.WhatsAppEnabled)

	status := "healthy"
	for k, v := range deps {
		if k == "store_driver" {
			continue
		}
		if v != "healthy" && v != "configured" && v != "not configured" {
			status = "degraded"
			break
		}
	}

	response := HealthResponse{
		Status:       status,
		Version:      "1.0.0",
		Uptime:       time.Since(h.StartTime).Round(time.Second).String(),
		Dependencies: deps,
	}

	code := http.StatusOK
	if status == "degraded" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, response)
}

func configured(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}
