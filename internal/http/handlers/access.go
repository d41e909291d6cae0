package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/AlexandrGonin/eatprayit-backend/internal/store"
)

type checkAccessRequest struct {
	TelegramID *int64 `json:"telegram_id" validate:"required"`
}

// CheckAccess tells the client whether a user may see the events listing.
// Absence is not an error here: an unknown user simply has no access.
func (h *Handler) CheckAccess(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)

	var req checkAccessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("action", "action", "check_access", "status", "invalid_json")
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		logger.Warn("action", "action", "check_access", "status", "missing_id")
		writeError(w, http.StatusBadRequest, "telegram_id required")
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	user, err := h.users.FindByTelegramID(ctx, *req.TelegramID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"hasAccess": false,
				"isActive":  false,
				"user":      nil,
			})
			return
		}
		logger.Error("action", "action", "check_access", "status", "db_error", "error", err)
		writeError(w, http.StatusInternalServerError, "db error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"hasAccess": user.IsActive,
		"isActive":  user.IsActive,
		"user":      user,
	})
}
