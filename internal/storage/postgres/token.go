package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
)

// TokenStore persists platform-scoped session tokens and cookies so
// extractor jars survive restarts.
type TokenStore struct {
	db *sqlx.DB
}

func NewTokenStore(db *sqlx.DB) *TokenStore {
	return &TokenStore{db: db}
}

func (s *TokenStore) Get(ctx context.Context, platform, name string) (string, time.Time, error) {
	var row struct {
		Value       string    `db:"value"`
		RefreshedAt time.Time `db:"refreshed_at"`
	}
	query := `
		SELECT value, refreshed_at FROM platform_tokens
		WHERE platform = $1 AND name = $2`

	err := s.db.GetContext(ctx, &row, query, platform, name)
	if err == sql.ErrNoRows {
		return "", time.Time{}, nil
	}
	if err != nil {
		return "", time.Time{}, err
	}
	return row.Value, row.RefreshedAt, nil
}

func (s *TokenStore) Set(ctx context.Context, platform, name, value string) error {
	query := `
		INSERT INTO platform_tokens (platform, name, value, refreshed_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (platform, name) DO UPDATE SET
			value = EXCLUDED.value,
			refreshed_at = EXCLUDED.refreshed_at`

	_, err := s.db.ExecContext(ctx, query, platform, name, value)
	return err
}
