package store

import (
	"context"
	"errors"

	"github.com/AlexandrGonin/eatprayit-backend/internal/models"
)

// ErrNotFound signals an absent user or event. Absence is a normal outcome,
// not a failure; callers map it to 404.
var ErrNotFound = errors.New("not found")

// UserPatch carries the allow-listed fields a PATCH /profile call may
// change. A nil field leaves the stored value untouched; this is the only
// merge routine, so nothing outside this struct can ever be patched.
type UserPatch struct {
	Bio       *string
	Position  *string
	Telegram  *string
	LinkedIn  *string
	VK        *string
	Instagram *string
}

// IsEmpty reports whether the patch changes nothing.
func (p UserPatch) IsEmpty() bool {
	return p.Bio == nil && p.Position == nil &&
		p.Telegram == nil && p.LinkedIn == nil && p.VK == nil && p.Instagram == nil
}

// UserStore is the persistence contract for profiles. Implementations are
// selected once at process start and treat single-record operations as
// atomic.
type UserStore interface {
	// FindByTelegramID returns ErrNotFound for an absent profile.
	FindByTelegramID(ctx context.Context, telegramID int64) (models.User, error)
	// Upsert shallow-merges the incoming record over an existing one
	// (non-empty incoming identity fields win, application fields are
	// preserved) and refreshes updated_at. A new record gets the default
	// bio and a referral code.
	Upsert(ctx context.Context, user models.User) (models.User, error)
	// Update applies an allow-listed patch and returns the merged record,
	// or ErrNotFound.
	Update(ctx context.Context, telegramID int64, patch UserPatch) (models.User, error)
	// ListAll is a debug/administrative surface.
	ListAll(ctx context.Context) ([]models.User, error)
}

// EventQuery filters the upcoming-events listing. From is an ISO calendar
// date; events on or after it qualify. Tags must all be present on an event
// for it to match. A non-positive Limit means no cap; both backends honor
// that the same way.
type EventQuery struct {
	From   string
	Tags   []string
	Limit  int
	Offset int
}

// EventStore is the read-only contract over the external event collection.
type EventStore interface {
	// ListUpcoming returns matching events ordered ascending by (date, time).
	ListUpcoming(ctx context.Context, q EventQuery) ([]models.Event, error)
	// UpcomingTags returns the distinct, sorted, non-empty tags across
	// events on or after the given date.
	UpcomingTags(ctx context.Context, from string) ([]string, error)
	// GetByID returns ErrNotFound for an unknown event.
	GetByID(ctx context.Context, id int64) (models.Event, error)
}
