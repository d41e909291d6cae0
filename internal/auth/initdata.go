package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/AlexandrGonin/eatprayit-backend/internal/models"

	initdata "github.com/telegram-mini-apps/init-data-golang"
)

// initDataMaxAge bounds how old an init-data payload may be before it is
// rejected as a replay.
const initDataMaxAge = 24 * time.Hour

// ValidateInitData checks the Telegram Mini App init-data signature against
// the bot token and extracts the identity it carries.
func ValidateInitData(raw, botToken string) (models.TelegramUser, error) {
	if err := initdata.Validate(raw, botToken, initDataMaxAge); err != nil {
		return models.TelegramUser{}, fmt.Errorf("validate init data: %w", err)
	}
	parsed, err := initdata.Parse(raw)
	if err != nil {
		return models.TelegramUser{}, fmt.Errorf("parse init data: %w", err)
	}
	if parsed.User.ID == 0 {
		return models.TelegramUser{}, errors.New("init data has no user")
	}
	return models.TelegramUser{
		ID:        parsed.User.ID,
		FirstName: parsed.User.FirstName,
		LastName:  parsed.User.LastName,
		Username:  parsed.User.Username,
		PhotoURL:  parsed.User.PhotoURL,
	}, nil
}
