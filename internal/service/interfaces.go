package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"vidshort/internal/domain"
	"vidshort/internal/registry"
)

type LinkStore interface {
	NextID(ctx context.Context) (int64, error)
	Create(ctx context.Context, link *domain.ShortLink) error
	GetByShortCode(ctx context.Context, shortCode string) (*domain.ShortLink, error)
}

type AccountStore interface {
	Ensure(ctx context.Context, ownerID int64) error
}

type Dispatcher interface {
	Dispatch(rawURL string) (registry.Entry, error)
}

type Resolver interface {
	ResolveForRedirect(ctx context.Context, link *domain.ShortLink) (string, error)
}

type ViewPipeline interface {
	Record(ctx context.Context, link *domain.ShortLink, visitor domain.Visitor) (*domain.ViewOutcome, error)
}

type CodeGenerator interface {
	Generate(id int64) (string, error)
}
