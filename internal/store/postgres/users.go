package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/AlexandrGonin/eatprayit-backend/internal/models"
	"github.com/AlexandrGonin/eatprayit-backend/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const referralCodeMaxRetries = 5

const userColumns = `telegram_id, first_name, last_name, username, photo_url,
	bio, position, link_telegram, link_linkedin, link_vk, link_instagram,
	is_active, referral_code, referral_count, updated_at`

// UserStore persists profiles in a users table keyed by telegram_id.
// Single-row update semantics come from the database; no transactions are
// needed for one-record operations.
type UserStore struct {
	pool *pgxpool.Pool
}

func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

func (s *UserStore) FindByTelegramID(ctx context.Context, telegramID int64) (models.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE telegram_id = $1`, telegramID)
	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.User{}, store.ErrNotFound
	}
	return user, err
}

func (s *UserStore) Upsert(ctx context.Context, user models.User) (models.User, error) {
	bio := user.Bio
	if bio == "" {
		bio = models.DefaultBio
	}

	query := `
INSERT INTO users (telegram_id, first_name, last_name, username, photo_url, bio, referral_code)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (telegram_id) DO UPDATE SET
	first_name = EXCLUDED.first_name,
	last_name  = COALESCE(NULLIF(EXCLUDED.last_name, ''), users.last_name),
	username   = COALESCE(NULLIF(EXCLUDED.username, ''), users.username),
	photo_url  = COALESCE(NULLIF(EXCLUDED.photo_url, ''), users.photo_url),
	updated_at = now()
RETURNING ` + userColumns + `;`

	// The fresh referral code can collide with another row; retry with a
	// new code on a unique violation.
	var lastErr error
	for i := 0; i < referralCodeMaxRetries; i++ {
		code, err := store.NewReferralCode()
		if err != nil {
			return models.User{}, err
		}
		row := s.pool.QueryRow(ctx, query,
			user.TelegramID,
			user.FirstName,
			nullString(user.LastName),
			nullString(user.Username),
			nullString(user.PhotoURL),
			bio,
			code,
		)
		stored, err := scanUser(row)
		if err == nil {
			return stored, nil
		}
		if !isUniqueViolation(err) {
			return models.User{}, err
		}
		lastErr = err
	}
	return models.User{}, lastErr
}

func (s *UserStore) Update(ctx context.Context, telegramID int64, patch store.UserPatch) (models.User, error) {
	query := `
UPDATE users SET
	bio            = COALESCE($2, bio),
	position       = COALESCE($3, position),
	link_telegram  = COALESCE($4, link_telegram),
	link_linkedin  = COALESCE($5, link_linkedin),
	link_vk        = COALESCE($6, link_vk),
	link_instagram = COALESCE($7, link_instagram),
	updated_at     = now()
WHERE telegram_id = $1
RETURNING ` + userColumns + `;`

	row := s.pool.QueryRow(ctx, query, telegramID,
		patch.Bio, patch.Position,
		patch.Telegram, patch.LinkedIn, patch.VK, patch.Instagram)
	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.User{}, store.ErrNotFound
	}
	return user, err
}

func (s *UserStore) ListAll(ctx context.Context) ([]models.User, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY telegram_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, user)
	}
	return out, rows.Err()
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	var lastName, username, photoURL sql.NullString
	var position sql.NullString
	var linkTelegram, linkLinkedIn, linkVK, linkInstagram sql.NullString
	var referralCode sql.NullString
	err := row.Scan(
		&user.TelegramID,
		&user.FirstName,
		&lastName,
		&username,
		&photoURL,
		&user.Bio,
		&position,
		&linkTelegram,
		&linkLinkedIn,
		&linkVK,
		&linkInstagram,
		&user.IsActive,
		&referralCode,
		&user.ReferralCount,
		&user.UpdatedAt,
	)
	if err != nil {
		return models.User{}, err
	}
	user.LastName = lastName.String
	user.Username = username.String
	user.PhotoURL = photoURL.String
	user.Position = position.String
	user.Links.Telegram = linkTelegram.String
	user.Links.LinkedIn = linkLinkedIn.String
	user.Links.VK = linkVK.String
	user.Links.Instagram = linkInstagram.String
	user.ReferralCode = referralCode.String
	return user, nil
}

func nullString(val string) interface{} {
	if val == "" {
		return nil
	}
	return val
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
