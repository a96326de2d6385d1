package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	domainevent "qmsevents/internal/domain/event"
	"qmsevents/internal/usecase/assist"
	eventuc "qmsevents/internal/usecase/event"
)

// EventService is the event usecase surface used by the HTTP layer.
type EventService interface {
	Create(ctx context.Context, input eventuc.CreateEventInput) (domainevent.Event, error)
	Get(ctx context.Context, id int64) (domainevent.Event, error)
	List(ctx context.Context) ([]domainevent.Event, error)
	Update(ctx context.Context, id int64, patch domainevent.Patch) (domainevent.Event, error)
}

type AssistService interface {
	Assist(ctx context.Context, input assist.AssistInput) (string, error)
}

type RouterConfig struct {
	Prefix         string
	MetricsEnabled bool
	Logger         *slog.Logger
}

type Handler struct {
	events  EventService
	assist  AssistService
	metrics *Metrics
}

func NewHandler(events EventService, assist AssistService, metrics *Metrics) *Handler {
	return &Handler{
		events:  events,
		assist:  assist,
		metrics: metrics,
	}
}

// Register mounts the API routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Post("/events", h.handleCreateEvent)
	r.Get("/events", h.handleListEvents)
	r.Get("/events/{id}", h.handleGetEvent)
	r.Put("/events/{id}", h.handleUpdateEvent)
	r.Post("/ai/assist", h.handleAssist)
}

// NewRouter builds the full HTTP surface: API routes under cfg.Prefix, the
// root status endpoint and, when enabled, /metrics.
func NewRouter(cfg RouterConfig, h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(cfg.Logger))
	r.Use(middleware.Recoverer)
	if h.metrics != nil {
		r.Use(h.metrics.Middleware)
	}

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "QMS API is running"})
	})
	if cfg.MetricsEnabled && h.metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.metrics.Handler())
	}

	if cfg.Prefix == "" {
		h.Register(r)
	} else {
		r.Route(cfg.Prefix, h.Register)
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeErrorResponse(w, http.StatusNotFound, codeNotFound, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeErrorResponse(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "Method Not Allowed")
	})
	return r
}
