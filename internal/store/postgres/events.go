package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/AlexandrGonin/eatprayit-backend/internal/models"
	"github.com/AlexandrGonin/eatprayit-backend/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const eventColumns = `e.id, e.title, e.short_description, e.description,
	to_char(e.date, 'YYYY-MM-DD'), to_char(e.time, 'HH24:MI'),
	e.location, e.lat, e.lng, e.event_type, e.tags, e.created_at`

// EventStore reads the externally-owned events table.
type EventStore struct {
	pool *pgxpool.Pool
}

func NewEventStore(pool *pgxpool.Pool) *EventStore {
	return &EventStore{pool: pool}
}

func (s *EventStore) ListUpcoming(ctx context.Context, q store.EventQuery) ([]models.Event, error) {
	query := `
SELECT ` + eventColumns + `
FROM events e
WHERE e.date >= $1`
	args := []interface{}{q.From}
	if len(q.Tags) > 0 {
		// Tag filter is set containment: the event tags must include
		// every requested tag.
		query += fmt.Sprintf(`
	AND e.tags @> $%d`, len(args)+1)
		args = append(args, q.Tags)
	}
	query += `
ORDER BY e.date ASC, e.time ASC`
	if q.Limit > 0 {
		query += fmt.Sprintf(`
LIMIT $%d`, len(args)+1)
		args = append(args, q.Limit)
	}
	query += fmt.Sprintf(`
OFFSET $%d;`, len(args)+1)
	args = append(args, q.Offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, event)
	}
	return out, rows.Err()
}

func (s *EventStore) UpcomingTags(ctx context.Context, from string) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
SELECT DISTINCT tag
FROM events e, unnest(e.tags) AS tag
WHERE e.date >= $1 AND tag <> ''
ORDER BY tag;`, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := make([]string, 0)
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

func (s *EventStore) GetByID(ctx context.Context, id int64) (models.Event, error) {
	row := s.pool.QueryRow(ctx, `
SELECT `+eventColumns+`
FROM events e
WHERE e.id = $1;`, id)
	event, err := scanEvent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Event{}, store.ErrNotFound
	}
	return event, err
}

func scanEvent(row pgx.Row) (models.Event, error) {
	var event models.Event
	var description, location, eventType sql.NullString
	if err := row.Scan(
		&event.ID,
		&event.Title,
		&event.ShortDescription,
		&description,
		&event.Date,
		&event.Time,
		&location,
		&event.Lat,
		&event.Lng,
		&eventType,
		&event.Tags,
		&event.CreatedAt,
	); err != nil {
		return models.Event{}, err
	}
	event.Description = description.String
	event.Location = location.String
	event.EventType = eventType.String
	if event.Tags == nil {
		event.Tags = []string{}
	}
	return event, nil
}
