// Package scheduler proactively re-resolves stored links nearing expiry,
// decoupled from visitor traffic.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"vidshort/internal/domain"
)

// LinkSource lists links whose resolution is invalid or about to expire.
type LinkSource interface {
	ListDueForRefresh(ctx context.Context, now time.Time, ahead time.Duration, limit int) ([]domain.ShortLink, error)
}

// Refresher re-resolves one link and persists the result on success.
type Refresher interface {
	Refresh(ctx context.Context, link *domain.ShortLink) error
}

// Config bounds the batch job. BatchSize limits memory and request-rate
// impact per pass.
type Config struct {
	Interval     time.Duration
	RefreshAhead time.Duration
	BatchSize    int
	Workers      int
}

type Scheduler struct {
	links     LinkSource
	refresher Refresher
	cfg       Config
	logger    *slog.Logger
}

func New(links LinkSource, refresher Refresher, cfg Config, logger *slog.Logger) *Scheduler {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 5
	}
	return &Scheduler{
		links:     links,
		refresher: refresher,
		cfg:       cfg,
		logger:    logger.With("component", "refresh_scheduler"),
	}
}

// Start runs one pass immediately, then one per interval until the context
// is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started",
		"interval", s.cfg.Interval,
		"batch_size", s.cfg.BatchSize,
	)

	s.runPass(ctx)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runPass(ctx)
		}
	}
}

func (s *Scheduler) runPass(ctx context.Context) {
	passCtx, cancel := context.WithTimeout(ctx, 15*time.Minute)
	defer cancel()

	if _, err := s.RunOnce(passCtx); err != nil {
		s.logger.Error("refresh pass failed", "error", err)
	}
}

// RunOnce executes one batch pass. Per-link extraction failures are
// isolated and never abort the batch; only a failure to read the batch
// itself is fatal.
func (s *Scheduler) RunOnce(ctx context.Context) (*domain.RefreshStats, error) {
	start := time.Now()

	links, err := s.links.ListDueForRefresh(ctx, start, s.cfg.RefreshAhead, s.cfg.BatchSize)
	if err != nil {
		return nil, fmt.Errorf("list due links: %w", err)
	}

	stats := &domain.RefreshStats{Scanned: len(links)}
	if len(links) == 0 {
		stats.Duration = time.Since(start)
		return stats, nil
	}

	queue := make(chan *domain.ShortLink)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < s.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for link := range queue {
				refreshed, deferred := s.refreshOne(ctx, link)
				mu.Lock()
				switch {
				case refreshed:
					stats.Refreshed++
				case deferred:
					stats.Deferred++
				default:
					stats.Failed++
				}
				mu.Unlock()
			}
		}()
	}

	for i := range links {
		select {
		case queue <- &links[i]:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}
	}
	close(queue)
	wg.Wait()

	stats.Duration = time.Since(start)
	s.logger.Info("refresh pass completed",
		"scanned", stats.Scanned,
		"refreshed", stats.Refreshed,
		"deferred", stats.Deferred,
		"failed", stats.Failed,
		"duration", stats.Duration,
	)

	return stats, nil
}

// refreshOne re-resolves a single link. On any failure the previously
// stored direct link is left untouched: an expired link is still better
// than a cleared one.
func (s *Scheduler) refreshOne(ctx context.Context, link *domain.ShortLink) (refreshed, deferred bool) {
	linkCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	err := s.refresher.Refresh(linkCtx, link)
	if err == nil {
		return true, false
	}

	if domain.IsKind(err, domain.ErrRateLimited) {
		// Defer to the next pass rather than hammering a throttling
		// origin.
		s.logger.Warn("refresh deferred",
			"short_code", link.ShortCode,
			"error", err,
		)
		return false, true
	}

	s.logger.Warn("refresh failed",
		"short_code", link.ShortCode,
		"error_type", string(domain.KindOf(err)),
		"error", err,
	)
	return false, false
}
