package handlers

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"

	"github.com/AlexandrGonin/eatprayit-backend/internal/auth"
	"github.com/AlexandrGonin/eatprayit-backend/internal/models"
	"github.com/AlexandrGonin/eatprayit-backend/internal/store"
)

// authTelegramRequest carries either a raw Telegram identity or a signed
// init-data payload; init_data wins when both are present.
type authTelegramRequest struct {
	InitData  string `json:"init_data"`
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	PhotoURL  string `json:"photo_url"`
}

func (h *Handler) AuthTelegram(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)

	if !h.authLimiter.Allow(clientIP(r)) {
		logger.Warn("action", "action", "auth_telegram", "status", "rate_limited")
		writeError(w, http.StatusTooManyRequests, "too many requests")
		return
	}

	var req authTelegramRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("action", "action", "auth_telegram", "status", "invalid_json")
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	identity, status, msg := h.resolveIdentity(req)
	if status != 0 {
		logger.Warn("action", "action", "auth_telegram", "status", "identity_rejected", "reason", msg)
		writeError(w, status, msg)
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	if h.cfg.RequireRegistration {
		if _, err := h.users.FindByTelegramID(ctx, identity.ID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				logger.Warn("action", "action", "auth_telegram", "status", "not_registered", "telegram_id", identity.ID)
				writeJSON(w, http.StatusForbidden, map[string]interface{}{
					"error":     "registration required",
					"hasAccess": false,
				})
				return
			}
			logger.Error("action", "action", "auth_telegram", "status", "db_error", "error", err)
			writeError(w, http.StatusInternalServerError, "db error")
			return
		}
	}

	user, err := h.users.Upsert(ctx, models.User{
		TelegramID: identity.ID,
		FirstName:  identity.FirstName,
		LastName:   identity.LastName,
		Username:   identity.Username,
		PhotoURL:   identity.PhotoURL,
	})
	if err != nil {
		logger.Error("action", "action", "auth_telegram", "status", "db_error", "error", err)
		writeError(w, http.StatusInternalServerError, "db error")
		return
	}

	token, err := auth.SignAccessToken(h.cfg.JWTSecret, user.TelegramID)
	if err != nil {
		logger.Error("action", "action", "auth_telegram", "status", "token_error", "error", err)
		writeError(w, http.StatusInternalServerError, "token error")
		return
	}

	logger.Info("action", "action", "auth_telegram", "status", "success", "telegram_id", user.TelegramID)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"user":         user,
		"access_token": token,
	})
}

// resolveIdentity picks the identity source for an auth call. A non-zero
// status means rejection.
func (h *Handler) resolveIdentity(req authTelegramRequest) (models.TelegramUser, int, string) {
	if req.InitData != "" {
		if h.cfg.TelegramToken == "" {
			return models.TelegramUser{}, http.StatusUnauthorized, "init data verification not configured"
		}
		identity, err := auth.ValidateInitData(req.InitData, h.cfg.TelegramToken)
		if err != nil {
			return models.TelegramUser{}, http.StatusUnauthorized, "invalid init data"
		}
		return identity, 0, ""
	}

	if h.cfg.RequireInitData {
		return models.TelegramUser{}, http.StatusUnauthorized, "init_data required"
	}
	if req.ID == 0 || req.FirstName == "" {
		return models.TelegramUser{}, http.StatusBadRequest, "invalid telegram payload"
	}
	return models.TelegramUser{
		ID:        req.ID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		PhotoURL:  req.PhotoURL,
	}, 0, ""
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
