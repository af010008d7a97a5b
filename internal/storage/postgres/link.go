package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"vidshort/internal/domain"
)

// ErrNotFound is returned when a link does not exist or is inactive.
var ErrNotFound = errors.New("not found")

type LinkStore struct {
	db *sqlx.DB
}

func NewLinkStore(db *sqlx.DB) *LinkStore {
	return &LinkStore{db: db}
}

// NextID reserves the next link id so the short code can be derived from it
// before the insert.
func (s *LinkStore) NextID(ctx context.Context) (int64, error) {
	var id int64
	err := s.db.GetContext(ctx, &id, "SELECT nextval('short_links_id_seq')")
	return id, err
}

func (s *LinkStore) Create(ctx context.Context, link *domain.ShortLink) error {
	query := `
		INSERT INTO short_links (
			id, short_code, owner_id, original_url, video_platform, active
		) VALUES ($1, $2, $3, $4, $5, TRUE)
		RETURNING created_at, updated_at`

	return s.db.QueryRowContext(ctx, query,
		link.ID,
		link.ShortCode,
		link.OwnerID,
		link.OriginalURL,
		link.VideoPlatform,
	).Scan(&link.CreatedAt, &link.UpdatedAt)
}

func (s *LinkStore) GetByShortCode(ctx context.Context, shortCode string) (*domain.ShortLink, error) {
	var link domain.ShortLink
	query := `
		SELECT id, short_code, owner_id, original_url, direct_video_url,
		       video_expires_at, video_platform, video_quality, video_title,
		       active, views, earnings, created_at, updated_at
		FROM short_links
		WHERE short_code = $1 AND active`

	err := s.db.GetContext(ctx, &link, query, shortCode)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// UpdateResolution overwrites the direct URL and expiry in one statement so
// no reader ever observes a half-updated pair. The expiry written is the
// one the extraction itself observed, which keeps racing refreshes from
// writing back a stale result with a fabricated lifetime.
func (s *LinkStore) UpdateResolution(ctx context.Context, linkID int64, res *domain.ExtractionResult, expiresAt *time.Time) error {
	query := `
		UPDATE short_links
		SET direct_video_url = $2,
		    video_expires_at = $3,
		    video_platform = $4,
		    video_quality = NULLIF($5, ''),
		    video_title = NULLIF($6, ''),
		    updated_at = NOW()
		WHERE id = $1`

	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, query,
		linkID,
		res.DirectLink,
		expiresAt,
		res.Platform,
		res.Quality,
		res.Title,
	)
	return err
}

// IncrementViewStats bumps the cumulative counters in a single atomic
// statement; concurrent counted views never lose updates.
func (s *LinkStore) IncrementViewStats(ctx context.Context, linkID int64, earning float64) error {
	query := `
		UPDATE short_links
		SET views = views + 1,
		    earnings = earnings + $2,
		    updated_at = NOW()
		WHERE id = $1`

	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, query, linkID, earning)
	return err
}

// ListDueForRefresh selects active links whose resolution is already
// invalid or expires within the ahead window, oldest expiry first, bounded
// by limit.
func (s *LinkStore) ListDueForRefresh(ctx context.Context, now time.Time, ahead time.Duration, limit int) ([]domain.ShortLink, error) {
	query := `
		SELECT id, short_code, owner_id, original_url, direct_video_url,
		       video_expires_at, video_platform, video_quality, video_title,
		       active, views, earnings, created_at, updated_at
		FROM short_links
		WHERE active
		  AND (
		        direct_video_url IS NULL
		        OR (video_expires_at IS NOT NULL AND video_expires_at <= $1)
		      )
		ORDER BY video_expires_at ASC NULLS FIRST
		LIMIT $2`

	var links []domain.ShortLink
	err := s.db.SelectContext(ctx, &links, query, now.Add(ahead), limit)
	return links, err
}

// Deactivate soft-deletes a link. Rows are never hard-deleted here.
func (s *LinkStore) Deactivate(ctx context.Context, linkID int64) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE short_links SET active = FALSE, updated_at = NOW() WHERE id = $1",
		linkID,
	)
	return err
}
