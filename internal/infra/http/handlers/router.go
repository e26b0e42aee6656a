package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/xavierca1/ecocrm/internal/infra/http/middleware"
	"github.com/xavierca1/ecocrm/internal/observability"
)

type RouterDeps struct {
	Leads          *LeadHandler
	Dashboard      *DashboardHandler
	Reminders      *ReminderHandler
	Events         *EventsHandler
	Advice         *AdviceHandler
	Health         *HealthHandler
	AllowedOrigins []string
	Logger         *zap.Logger
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(observability.RequestLogger(d.Logger))
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Route("/leads", func(r chi.Router) {
		r.Get("/", d.Leads.List)
		r.Post("/", d.Leads.Create)
		r.Delete("/", d.Leads.Clear)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", d.Leads.Get)
			r.Put("/", d.Leads.Update)
			r.Delete("/", d.Leads.Delete)
			r.Post("/advance", d.Leads.Advance)
			r.Post("/advice", d.Advice.Advise)
			r.Get("/contact", d.Advice.Contact)
		})
	})

	r.Get("/dashboard", d.Dashboard.Handle)
	r.Get("/reminders", d.Reminders.List)
	r.Post("/reminders/scan", d.Reminders.Scan)
	r.Get("/events", d.Events.ServeSSE)
	r.Get("/health", d.Health.Handle)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
