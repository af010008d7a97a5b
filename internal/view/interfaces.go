package view

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"vidshort/internal/domain"
)

type ViewStore interface {
	Insert(ctx context.Context, event *domain.ViewEvent) error
	HasCountedView(ctx context.Context, linkID int64, ip string, since time.Time) (bool, error)
}

type LinkCounterStore interface {
	// IncrementViewStats must be a single atomic increment, never
	// read-modify-write in application code.
	IncrementViewStats(ctx context.Context, linkID int64, earning float64) error
}

type AccountStore interface {
	ApplyEarning(ctx context.Context, ownerID int64, earning float64) error
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Publisher interface {
	PublishView(ctx context.Context, link *domain.ShortLink, event *domain.ViewEvent) error
}
