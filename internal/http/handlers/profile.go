package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	authmw "github.com/AlexandrGonin/eatprayit-backend/internal/http/middleware"
	"github.com/AlexandrGonin/eatprayit-backend/internal/links"
	"github.com/AlexandrGonin/eatprayit-backend/internal/models"
	"github.com/AlexandrGonin/eatprayit-backend/internal/store"

	"github.com/go-chi/chi/v5"
)

// updateProfileRequest is the declarative allow-list for PATCH /profile:
// only the fields below can ever reach the store, anything else in the body
// is dropped by decoding.
type updateProfileRequest struct {
	Bio      *string     `json:"bio"`
	Position *string     `json:"position"`
	Links    *linksPatch `json:"links"`
}

type linksPatch struct {
	Telegram  *string `json:"telegram"`
	LinkedIn  *string `json:"linkedin"`
	VK        *string `json:"vk"`
	Instagram *string `json:"instagram"`
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)

	telegramID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		logger.Warn("action", "action", "get_profile", "status", "invalid_id")
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	user, err := h.users.FindByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			logger.Warn("action", "action", "get_profile", "status", "not_found", "telegram_id", telegramID)
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		logger.Error("action", "action", "get_profile", "status", "db_error", "error", err)
		writeError(w, http.StatusInternalServerError, "db error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "user": user})
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)

	telegramID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		logger.Warn("action", "action", "update_profile", "status", "invalid_id")
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if h.cfg.EnforceToken {
		tokenID, ok := authmw.TelegramIDFromContext(r.Context())
		if !ok {
			logger.Warn("action", "action", "update_profile", "status", "unauthorized")
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if tokenID != telegramID {
			logger.Warn("action", "action", "update_profile", "status", "owner_mismatch", "token_id", tokenID)
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("action", "action", "update_profile", "status", "invalid_json")
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	patch := store.UserPatch{Bio: req.Bio, Position: req.Position}
	if req.Links != nil {
		// Links are validated as a batch before anything is written; one
		// bad link aborts the whole update.
		raw := make(map[links.Platform]string)
		if req.Links.Telegram != nil {
			raw[links.PlatformTelegram] = *req.Links.Telegram
		}
		if req.Links.LinkedIn != nil {
			raw[links.PlatformLinkedIn] = *req.Links.LinkedIn
		}
		if req.Links.VK != nil {
			raw[links.PlatformVK] = *req.Links.VK
		}
		if req.Links.Instagram != nil {
			raw[links.PlatformInstagram] = *req.Links.Instagram
		}
		validated, err := links.ValidateAll(raw)
		if err != nil {
			var verr *links.ValidationError
			if errors.As(err, &verr) {
				// Link validation messages are user-facing on purpose.
				logger.Warn("action", "action", "update_profile", "status", "invalid_link", "platform", string(verr.Platform))
				writeError(w, http.StatusBadRequest, verr.Error())
				return
			}
			logger.Warn("action", "action", "update_profile", "status", "invalid_link")
			writeError(w, http.StatusBadRequest, "invalid link")
			return
		}
		for platform, value := range validated {
			value := value
			switch platform {
			case links.PlatformTelegram:
				patch.Telegram = &value
			case links.PlatformLinkedIn:
				patch.LinkedIn = &value
			case links.PlatformVK:
				patch.VK = &value
			case links.PlatformInstagram:
				patch.Instagram = &value
			}
		}
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	var user models.User
	if patch.IsEmpty() {
		// Nothing to change; answer with the current record without touching
		// the store's updated_at.
		user, err = h.users.FindByTelegramID(ctx, telegramID)
	} else {
		user, err = h.users.Update(ctx, telegramID, patch)
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			logger.Warn("action", "action", "update_profile", "status", "not_found", "telegram_id", telegramID)
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		logger.Error("action", "action", "update_profile", "status", "db_error", "error", err)
		writeError(w, http.StatusInternalServerError, "db error")
		return
	}

	logger.Info("action", "action", "update_profile", "status", "success", "telegram_id", telegramID)
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "user": user})
}
