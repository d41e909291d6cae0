package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/AlexandrGonin/eatprayit-backend/internal/models"
	"github.com/AlexandrGonin/eatprayit-backend/internal/store"
)

// EventStore serves a fixed event collection from memory. ISO dates and
// HH:MM times sort correctly as strings, so ordering is a plain compare.
type EventStore struct {
	mu     sync.RWMutex
	events []models.Event
}

func NewEventStore(events ...models.Event) *EventStore {
	return &EventStore{events: events}
}

// Seed replaces the event collection.
func (s *EventStore) Seed(events []models.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = events
}

func (s *EventStore) ListUpcoming(_ context.Context, q store.EventQuery) ([]models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]models.Event, 0)
	for _, event := range s.events {
		if event.Date < q.From {
			continue
		}
		if !containsAll(event.Tags, q.Tags) {
			continue
		}
		matched = append(matched, event)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Date != matched[j].Date {
			return matched[i].Date < matched[j].Date
		}
		return matched[i].Time < matched[j].Time
	})

	if q.Offset >= len(matched) {
		return []models.Event{}, nil
	}
	matched = matched[q.Offset:]
	if q.Limit > 0 && q.Limit < len(matched) {
		matched = matched[:q.Limit]
	}
	return matched, nil
}

func (s *EventStore) UpcomingTags(_ context.Context, from string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, event := range s.events {
		if event.Date < from {
			continue
		}
		for _, tag := range event.Tags {
			if tag == "" {
				continue
			}
			seen[tag] = struct{}{}
		}
	}
	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags, nil
}

func (s *EventStore) GetByID(_ context.Context, id int64) (models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, event := range s.events {
		if event.ID == id {
			return event, nil
		}
	}
	return models.Event{}, store.ErrNotFound
}

// containsAll reports whether the event tag set is a superset of want.
func containsAll(tags, want []string) bool {
	if len(want) == 0 {
		return true
	}
	set := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		set[tag] = struct{}{}
	}
	for _, tag := range want {
		if _, ok := set[tag]; !ok {
			return false
		}
	}
	return true
}
