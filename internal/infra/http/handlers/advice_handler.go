package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xavierca1/ecocrm/internal/entity"
	"github.com/xavierca1/ecocrm/internal/usecase"
)

type LeadGetter interface {
	Get(ctx context.Context, id string) (entity.Lead, error)
}

type Advisor interface {
	Advise(ctx context.Context, lead entity.Lead) (entity.Advice, error)
}

type AdviceResponse struct {
	Advice  entity.Advice        `json:"advice"`
	Contact usecase.ContactLinks `json:"contact"`
}

type AdviceHandler struct {
	Leads   LeadGetter
	Advisor Advisor
	Logger  *zap.Logger
}

func NewAdviceHandler(leads LeadGetter, advisor Advisor, logger *zap.Logger) *AdviceHandler {
	return &AdviceHandler{Leads: leads, Advisor: advisor, Logger: logger}
}

// Advise pede a sugestão da IA e já devolve os links com o pitch gerado.
func (h *AdviceHandler) Advise(w http.ResponseWriter, r *http.Request) {
	lead, err := h.Leads.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, h.Logger, err)
		return
	}

	advice, err := h.Advisor.Advise(r.Context(), lead)
	if err != nil {
		handleError(w, h.Logger, err)
		return
	}

	writeJSON(w, http.StatusOK, AdviceResponse{
		Advice:  advice,
		Contact: usecase.Contact(lead, &advice),
	})
}

// Contact devolve os links de ligação e WhatsApp com a mensagem padrão.
func (h *AdviceHandler) Contact(w http.ResponseWriter, r *http.Request) {
	lead, err := h.Leads.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, usecase.Contact(lead, nil))
}
