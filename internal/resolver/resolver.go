// Package resolver applies the caching/expiry/refresh discipline that keeps
// direct video links usable despite platforms issuing short-lived URLs.
package resolver

import (
	"context"
	"log/slog"
	"time"

	"vidshort/internal/domain"
	"vidshort/internal/extractor"
)

//go:generate mockgen -source=resolver.go -destination=mocks/mocks.go -package=mocks

// Dispatcher resolves a source URL through the platform registry.
type Dispatcher interface {
	Resolve(ctx context.Context, rawURL string, opts extractor.Options) (*domain.ExtractionResult, error)
}

// LinkStore is the slice of link storage the resolver writes through. The
// URL/expiry pair is updated in a single statement so no reader observes a
// half-updated resolution.
type LinkStore interface {
	UpdateResolution(ctx context.Context, linkID int64, res *domain.ExtractionResult, expiresAt *time.Time) error
}

// Config holds the two expiry windows. They serve different callers and
// are configured separately: RefreshAhead drives the proactive scheduler,
// NearExpiry marks links other components should treat as about to die.
type Config struct {
	RefreshAhead time.Duration
	NearExpiry   time.Duration
	CacheSize    int64
}

type Resolver struct {
	dispatcher Dispatcher
	links      LinkStore
	cache      *resultCache
	cfg        Config
	now        func() time.Time
	logger     *slog.Logger
}

func New(dispatcher Dispatcher, links LinkStore, cfg Config, logger *slog.Logger) (*Resolver, error) {
	if cfg.RefreshAhead == 0 {
		cfg.RefreshAhead = 10 * time.Minute
	}
	if cfg.NearExpiry == 0 {
		cfg.NearExpiry = 5 * time.Minute
	}
	if cfg.CacheSize == 0 {
		cfg.CacheSize = 1 << 24
	}

	cache, err := newResultCache(cfg.CacheSize)
	if err != nil {
		return nil, err
	}

	return &Resolver{
		dispatcher: dispatcher,
		links:      links,
		cache:      cache,
		cfg:        cfg,
		now:        time.Now,
		logger:     logger.With("component", "resolver"),
	}, nil
}

func (r *Resolver) Close() {
	r.cache.Close()
}

// NearExpiry reports whether a valid resolution is inside the near-expiry
// window.
func (r *Resolver) NearExpiry(link *domain.ShortLink) bool {
	now := r.now()
	return link.HasValidResolution(now) && link.DueForRefresh(now, r.cfg.NearExpiry)
}

// ResolveForRedirect returns the URL a redirect should serve. A valid
// cached resolution is served as-is; a stale one triggers a synchronous
// fresh extraction. Extraction failure degrades to the original source URL
// so the visitor still reaches content.
func (r *Resolver) ResolveForRedirect(ctx context.Context, link *domain.ShortLink) (string, error) {
	now := r.now()
	if link.HasValidResolution(now) {
		return *link.DirectVideoURL, nil
	}

	result, err := r.refresh(ctx, link, extractor.Options{Refresh: true})
	if err != nil {
		r.logger.Warn("resolution failed, serving original url",
			"link_id", link.ID,
			"short_code", link.ShortCode,
			"error_type", string(domain.KindOf(err)),
			"error", err,
		)
		return link.OriginalURL, err
	}

	return result.DirectLink, nil
}

// Refresh re-resolves a link unconditionally and persists the result. On
// failure the previously stored value is left untouched: a stale direct
// link is still more useful than none.
func (r *Resolver) Refresh(ctx context.Context, link *domain.ShortLink) error {
	_, err := r.refresh(ctx, link, extractor.Options{Refresh: true, SkipCache: true})
	return err
}

func (r *Resolver) refresh(ctx context.Context, link *domain.ShortLink, opts extractor.Options) (*domain.ExtractionResult, error) {
	now := r.now()

	if !opts.SkipCache {
		if cached, ok := r.cache.Get(link.OriginalURL); ok {
			if expiry := cached.ExpiryAt(now); expiry == nil || expiry.After(now.Add(r.cfg.NearExpiry)) {
				r.persist(ctx, link, cached, now)
				return cached, nil
			}
			r.cache.Del(link.OriginalURL)
		}
	}

	result, err := r.dispatcher.Resolve(ctx, link.OriginalURL, opts)
	if err != nil {
		return nil, err
	}

	r.cache.Set(link.OriginalURL, result, now)
	r.persist(ctx, link, result, now)

	return result, nil
}

// persist writes the resolved URL and expiry back onto the link, stamped
// with the extraction's own observed expiry. Two racing refreshes both
// write a self-consistent pair; the last writer wins.
func (r *Resolver) persist(ctx context.Context, link *domain.ShortLink, result *domain.ExtractionResult, now time.Time) {
	expiresAt := result.ExpiryAt(now)

	if err := r.links.UpdateResolution(ctx, link.ID, result, expiresAt); err != nil {
		r.logger.Error("failed to persist resolution",
			"link_id", link.ID,
			"error", err,
		)
		return
	}

	link.DirectVideoURL = &result.DirectLink
	link.VideoExpiresAt = expiresAt
	if result.Platform != "" {
		link.VideoPlatform = result.Platform
	}
}
