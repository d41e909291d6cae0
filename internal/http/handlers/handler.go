package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/AlexandrGonin/eatprayit-backend/internal/config"
	authmw "github.com/AlexandrGonin/eatprayit-backend/internal/http/middleware"
	"github.com/AlexandrGonin/eatprayit-backend/internal/rate"
	"github.com/AlexandrGonin/eatprayit-backend/internal/store"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	users       store.UserStore
	events      store.EventStore
	cfg         *config.Config
	logger      *slog.Logger
	validator   *validator.Validate
	authLimiter *rate.KeyLimiter
}

// New wires the HTTP surface. cfg must be non-nil; every handler reads it.
func New(users store.UserStore, events store.EventStore, cfg *config.Config, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		users:       users,
		events:      events,
		cfg:         cfg,
		logger:      logger,
		validator:   validator.New(),
		authLimiter: rate.NewKeyLimiter(cfg.AuthRateRPS, cfg.AuthRateBurst),
	}
}

func (h *Handler) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, 5*time.Second)
}

func (h *Handler) loggerForRequest(r *http.Request) *slog.Logger {
	logger := h.logger
	if logger == nil {
		return slog.Default()
	}
	if reqID := chimw.GetReqID(r.Context()); reqID != "" {
		logger = logger.With("request_id", reqID)
	}
	if tgID, ok := authmw.TelegramIDFromContext(r.Context()); ok {
		logger = logger.With("telegram_id", tgID)
	}
	return logger
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

// NotFound answers unmatched routes, naming the path.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "route not found: "+r.URL.Path)
}
