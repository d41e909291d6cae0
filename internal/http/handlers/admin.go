package handlers

import "net/http"

// ListUsers dumps every stored profile. Debug/administrative surface only.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	users, err := h.users.ListAll(ctx)
	if err != nil {
		logger.Error("action", "action", "list_users", "status", "db_error", "error", err)
		writeError(w, http.StatusInternalServerError, "db error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"users":   users,
		"count":   len(users),
	})
}
