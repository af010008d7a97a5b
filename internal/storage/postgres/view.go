package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"vidshort/internal/domain"
)

type ViewStore struct {
	db *sqlx.DB
}

func NewViewStore(db *sqlx.DB) *ViewStore {
	return &ViewStore{db: db}
}

// Insert writes one immutable ViewEvent row. Inside a transaction it joins
// the counter increments so both commit or roll back together.
func (s *ViewStore) Insert(ctx context.Context, event *domain.ViewEvent) error {
	query := `
		INSERT INTO view_events (
			link_id, ip, country, device, browser, referrer, counted, earning, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	return GetExecutor(ctx, s.db).QueryRowxContext(ctx, query,
		event.LinkID,
		event.IP,
		event.Country,
		event.Device,
		event.Browser,
		event.Referrer,
		event.Counted,
		event.Earning,
		event.CreatedAt,
	).Scan(&event.ID)
}

// HasCountedView reports whether the IP already produced a counted view for
// the link since the given instant.
func (s *ViewStore) HasCountedView(ctx context.Context, linkID int64, ip string, since time.Time) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM view_events
			WHERE link_id = $1 AND ip = $2 AND counted AND created_at >= $3
		)`

	err := GetExecutor(ctx, s.db).QueryRowxContext(ctx, query, linkID, ip, since).Scan(&exists)
	return exists, err
}
