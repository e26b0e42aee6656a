package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xavierca1/ecocrm/internal/entity"
	"github.com/xavierca1/ecocrm/internal/usecase"
)

// LeadService é o que os handlers precisam do repositório.
type LeadService interface {
	Create(ctx context.Context, input usecase.LeadInput) (entity.Lead, error)
	Edit(ctx context.Context, id string, input usecase.LeadInput) (entity.Lead, error)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
	Advance(ctx context.Context, id string) (entity.Lead, error)
	Get(ctx context.Context, id string) (entity.Lead, error)
	Search(ctx context.Context, term string) []entity.Lead
	Snapshot(ctx context.Context) []entity.Lead
}

// LeadEvents recebe avisos de mudança na lista (SSE).
type LeadEvents interface {
	LeadChanged(action, id string)
}

type LeadHandler struct {
	Leads  LeadService
	Events LeadEvents
	Logger *zap.Logger

	// OnCreated é chamado a cada lead cadastrado (métrica).
	OnCreated func()
}

func NewLeadHandler(leads LeadService, events LeadEvents, logger *zap.Logger) *LeadHandler {
	return &LeadHandler{Leads: leads, Events: events, Logger: logger}
}

func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Leads.Search(r.Context(), r.URL.Query().Get("q")))
}

func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.LeadInput
	if !decodeBody(w, r, &input) {
		return
	}

	lead, err := h.Leads.Create(r.Context(), input)
	if err != nil {
		handleError(w, h.Logger, err)
		return
	}

	if h.OnCreated != nil {
		h.OnCreated()
	}
	h.changed("created", lead.ID)
	writeJSON(w, http.StatusCreated, lead)
}

func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	lead, err := h.Leads.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input usecase.LeadInput
	if !decodeBody(w, r, &input) {
		return
	}

	lead, err := h.Leads.Edit(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		handleError(w, h.Logger, err)
		return
	}

	h.changed("updated", lead.ID)
	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Leads.Delete(r.Context(), id); err != nil {
		handleError(w, h.Logger, err)
		return
	}

	h.changed("deleted", id)
	w.WriteHeader(http.StatusNoContent)
}

// Clear apaga todos os leads. Exige ?confirm=true.
func (h *LeadHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("confirm") != "true" {
		writeErrorResponse(w, http.StatusBadRequest, CodeConfirmationRequired,
			"Para apagar todos os leads envie ?confirm=true")
		return
	}

	if err := h.Leads.Clear(r.Context()); err != nil {
		handleError(w, h.Logger, err)
		return
	}

	h.changed("cleared", "")
	w.WriteHeader(http.StatusNoContent)
}

func (h *LeadHandler) Advance(w http.ResponseWriter, r *http.Request) {
	lead, err := h.Leads.Advance(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, h.Logger, err)
		return
	}

	h.changed("status", lead.ID)
	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) changed(action, id string) {
	if h.Events != nil {
		h.Events.LeadChanged(action, id)
	}
}
