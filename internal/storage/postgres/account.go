package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type AccountStore struct {
	db *sqlx.DB
}

func NewAccountStore(db *sqlx.DB) *AccountStore {
	return &AccountStore{db: db}
}

// ApplyEarning bumps the owner's aggregates for one counted view in a
// single atomic statement.
func (s *AccountStore) ApplyEarning(ctx context.Context, ownerID int64, earning float64) error {
	query := `
		UPDATE accounts
		SET total_views = total_views + 1,
		    balance = balance + $2,
		    total_earnings = total_earnings + $2,
		    updated_at = NOW()
		WHERE id = $1`

	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, query, ownerID, earning)
	return err
}

// Ensure creates the account row if it does not exist yet. Account
// management proper lives outside this service.
func (s *AccountStore) Ensure(ctx context.Context, ownerID int64) error {
	query := `
		INSERT INTO accounts (id) VALUES ($1)
		ON CONFLICT (id) DO NOTHING`

	_, err := s.db.ExecContext(ctx, query, ownerID)
	return err
}
