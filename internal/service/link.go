package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"vidshort/internal/domain"
	"vidshort/internal/storage/postgres"
)

// ErrLinkNotFound is returned for unknown or deactivated short codes.
var ErrLinkNotFound = errors.New("link not found")

// resolveBudget bounds how long a redirect waits for a synchronous
// re-extraction before the caller would rather serve what it has.
const resolveBudget = 20 * time.Second

// RedirectResult is what the redirect handler serves from.
type RedirectResult struct {
	TargetURL string
	Counted   bool
	Views     int64
	Earnings  float64
}

type LinkService struct {
	links      LinkStore
	accounts   AccountStore
	dispatcher Dispatcher
	resolver   Resolver
	pipeline   ViewPipeline
	codes      CodeGenerator
	logger     *slog.Logger
}

func NewLinkService(
	links LinkStore,
	accounts AccountStore,
	dispatcher Dispatcher,
	resolver Resolver,
	pipeline ViewPipeline,
	codes CodeGenerator,
	logger *slog.Logger,
) *LinkService {
	return &LinkService{
		links:      links,
		accounts:   accounts,
		dispatcher: dispatcher,
		resolver:   resolver,
		pipeline:   pipeline,
		codes:      codes,
		logger:     logger.With("component", "link_service"),
	}
}

// CreateLink shortens a source URL. The platform is detected up front so
// unsupported URLs fail at creation, not at first redirect.
func (s *LinkService) CreateLink(ctx context.Context, ownerID int64, originalURL string) (*domain.ShortLink, error) {
	entry, err := s.dispatcher.Dispatch(originalURL)
	if err != nil {
		return nil, err
	}

	if err := s.accounts.Ensure(ctx, ownerID); err != nil {
		return nil, fmt.Errorf("ensure account: %w", err)
	}

	id, err := s.links.NextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("reserve link id: %w", err)
	}

	code, err := s.codes.Generate(id)
	if err != nil {
		return nil, fmt.Errorf("generate short code: %w", err)
	}

	link := &domain.ShortLink{
		ID:            id,
		ShortCode:     code,
		OwnerID:       ownerID,
		OriginalURL:   originalURL,
		VideoPlatform: entry.Descriptor.Name,
		Active:        true,
	}

	if err := s.links.Create(ctx, link); err != nil {
		return nil, fmt.Errorf("create link: %w", err)
	}

	s.logger.Info("created link",
		"short_code", code,
		"platform", entry.Descriptor.Name,
		"owner_id", ownerID,
	)

	return link, nil
}

// GetLink loads a link by short code for the stats surface.
func (s *LinkService) GetLink(ctx context.Context, shortCode string) (*domain.ShortLink, error) {
	link, err := s.links.GetByShortCode(ctx, shortCode)
	if errors.Is(err, postgres.ErrNotFound) {
		return nil, ErrLinkNotFound
	}
	return link, err
}

// Redirect handles one visit: it resolves the best currently-known direct
// link (refreshing synchronously when the cached one expired) and runs the
// view pipeline. Fraud rejection and view-write failures withhold earnings
// but never block the visitor from reaching content.
func (s *LinkService) Redirect(ctx context.Context, shortCode string, visitor domain.Visitor) (*RedirectResult, error) {
	link, err := s.links.GetByShortCode(ctx, shortCode)
	if errors.Is(err, postgres.ErrNotFound) {
		return nil, ErrLinkNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load link: %w", err)
	}

	// A resolution in flight should finish and persist its cache update
	// even if the visitor aborts; the next visitor benefits from it.
	resolveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), resolveBudget)
	defer cancel()

	target, resolveErr := s.resolver.ResolveForRedirect(resolveCtx, link)
	if resolveErr != nil {
		// Degraded to the original URL inside the resolver; just record
		// the condition.
		s.logger.Warn("serving degraded redirect",
			"short_code", shortCode,
			"error_type", string(domain.KindOf(resolveErr)),
		)
	}

	result := &RedirectResult{TargetURL: target}

	// The view write is best-effort for this request: its failure is
	// fatal only for this single view, never for the redirect.
	outcome, err := s.pipeline.Record(ctx, link, visitor)
	if err != nil {
		s.logger.Error("view pipeline failed",
			"short_code", shortCode,
			"error", err,
		)
	} else if outcome.Counted {
		result.Counted = true
		link.Views++
		link.Earnings += outcome.Earning
	}

	result.Views = link.Views
	result.Earnings = link.Earnings

	return result, nil
}
