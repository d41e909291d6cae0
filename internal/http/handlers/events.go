package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/AlexandrGonin/eatprayit-backend/internal/models"
	"github.com/AlexandrGonin/eatprayit-backend/internal/store"

	"github.com/go-chi/chi/v5"
)

const (
	defaultEventsLimit = 20
	maxEventsLimit     = 100
)

// ListEvents serves the access-gated listing of future events for the user
// identified by the path id.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)

	user, done := h.gateEvents(w, r, "list_events")
	if done {
		return
	}

	page := parseQueryInt(r, "page", 0)
	if page < 0 {
		page = 0
	}
	limit := parseQueryInt(r, "limit", defaultEventsLimit)
	if limit <= 0 {
		limit = defaultEventsLimit
	}
	if limit > maxEventsLimit {
		limit = maxEventsLimit
	}
	tags := r.URL.Query()["tags"]

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	events, err := h.events.ListUpcoming(ctx, store.EventQuery{
		From:   today(),
		Tags:   tags,
		Limit:  limit,
		Offset: page * limit,
	})
	if err != nil {
		logger.Error("action", "action", "list_events", "status", "db_error", "error", err)
		writeError(w, http.StatusInternalServerError, "db error")
		return
	}

	logger.Info("action", "action", "list_events", "status", "success", "telegram_id", user.TelegramID, "count", len(events))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"events":  events,
		"page":    page,
		"limit":   limit,
	})
}

// EventTags serves the distinct sorted tags across future events, behind
// the same access gate as the listing.
func (h *Handler) EventTags(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)

	if _, done := h.gateEvents(w, r, "event_tags"); done {
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	tags, err := h.events.UpcomingTags(ctx, today())
	if err != nil {
		logger.Error("action", "action", "event_tags", "status", "db_error", "error", err)
		writeError(w, http.StatusInternalServerError, "db error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "tags": tags})
}

// EventDetail serves one event by its own id; it is not access-gated.
func (h *Handler) EventDetail(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)

	eventID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		logger.Warn("action", "action", "event_detail", "status", "invalid_id")
		writeError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	event, err := h.events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			logger.Warn("action", "action", "event_detail", "status", "not_found", "event_id", eventID)
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		logger.Error("action", "action", "event_detail", "status", "db_error", "error", err)
		writeError(w, http.StatusInternalServerError, "db error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "event": event})
}

// gateEvents resolves the path id to a user and enforces the active flag.
// It reports done=true when a response has already been written.
func (h *Handler) gateEvents(w http.ResponseWriter, r *http.Request, action string) (models.User, bool) {
	logger := h.loggerForRequest(r)

	telegramID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		logger.Warn("action", "action", action, "status", "invalid_id")
		writeError(w, http.StatusBadRequest, "invalid user id")
		return models.User{}, true
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	user, err := h.users.FindByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			logger.Warn("action", "action", action, "status", "user_not_found", "telegram_id", telegramID)
			writeError(w, http.StatusNotFound, "user not found")
			return models.User{}, true
		}
		logger.Error("action", "action", action, "status", "db_error", "error", err)
		writeError(w, http.StatusInternalServerError, "db error")
		return models.User{}, true
	}
	if !user.IsActive {
		logger.Warn("action", "action", action, "status", "access_denied", "telegram_id", telegramID)
		writeJSON(w, http.StatusForbidden, map[string]interface{}{
			"error":     "access denied",
			"hasAccess": false,
		})
		return models.User{}, true
	}
	return user, false
}

func parseQueryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return val
}

// today is the deployment's local calendar day, the lower bound for
// "future" events.
func today() string {
	return time.Now().Format("2006-01-02")
}
