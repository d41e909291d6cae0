package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/AlexandrGonin/eatprayit-backend/internal/models"
	"github.com/AlexandrGonin/eatprayit-backend/internal/store"
)

// UserStore keeps profiles in a map guarded by a mutex. Data does not
// survive a restart; it backs dev deployments and tests.
type UserStore struct {
	mu    sync.RWMutex
	users map[int64]models.User
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[int64]models.User)}
}

func (s *UserStore) FindByTelegramID(_ context.Context, telegramID int64) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[telegramID]
	if !ok {
		return models.User{}, store.ErrNotFound
	}
	return user, nil
}

func (s *UserStore) Upsert(_ context.Context, incoming models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.users[incoming.TelegramID]
	if !ok {
		code, err := store.NewReferralCode()
		if err != nil {
			return models.User{}, err
		}
		if incoming.Bio == "" {
			incoming.Bio = models.DefaultBio
		}
		incoming.ReferralCode = code
		incoming.UpdatedAt = time.Now()
		s.users[incoming.TelegramID] = incoming
		return incoming, nil
	}

	merged := existing
	merged.FirstName = incoming.FirstName
	if incoming.LastName != "" {
		merged.LastName = incoming.LastName
	}
	if incoming.Username != "" {
		merged.Username = incoming.Username
	}
	if incoming.PhotoURL != "" {
		merged.PhotoURL = incoming.PhotoURL
	}
	merged.UpdatedAt = time.Now()
	s.users[merged.TelegramID] = merged
	return merged, nil
}

func (s *UserStore) Update(_ context.Context, telegramID int64, patch store.UserPatch) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[telegramID]
	if !ok {
		return models.User{}, store.ErrNotFound
	}

	if patch.Bio != nil {
		user.Bio = *patch.Bio
	}
	if patch.Position != nil {
		user.Position = *patch.Position
	}
	if patch.Telegram != nil {
		user.Links.Telegram = *patch.Telegram
	}
	if patch.LinkedIn != nil {
		user.Links.LinkedIn = *patch.LinkedIn
	}
	if patch.VK != nil {
		user.Links.VK = *patch.VK
	}
	if patch.Instagram != nil {
		user.Links.Instagram = *patch.Instagram
	}
	user.UpdatedAt = time.Now()
	s.users[telegramID] = user
	return user, nil
}

func (s *UserStore) ListAll(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.User, 0, len(s.users))
	for _, user := range s.users {
		out = append(out, user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TelegramID < out[j].TelegramID })
	return out, nil
}

// SetActive flips the access gate for a profile. The flag is normally set
// by an out-of-band bot flow; tests and dev tooling use this directly.
func (s *UserStore) SetActive(telegramID int64, active bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[telegramID]
	if !ok {
		return false
	}
	user.IsActive = active
	s.users[telegramID] = user
	return true
}
