package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/xavierca1/ecocrm/internal/entity"
	"github.com/xavierca1/ecocrm/internal/usecase"
)

type Snapshotter interface {
	Snapshot(ctx context.Context) []entity.Lead
}

type DashboardHandler struct {
	Leads Snapshotter
	Now   func() time.Time
}

func NewDashboardHandler(leads Snapshotter) *DashboardHandler {
	return &DashboardHandler{Leads: leads, Now: time.Now}
}

func (h *DashboardHandler) Handle(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, usecase.Summarize(h.Leads.Snapshot(r.Context()), h.Now()))
}
