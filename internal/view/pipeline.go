// Package view decides whether a redirect counts as a monetized view and
// persists the outcome atomically.
package view

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"vidshort/internal/domain"
	"vidshort/internal/geo"
)

// Config tunes fraud detection and earnings computation.
type Config struct {
	// DedupWindow is the rolling period within which one IP produces at
	// most one counted view per link.
	DedupWindow time.Duration
	// CPMRate is the base earning per 1000 counted views.
	CPMRate float64
	// GeoMultipliers modulates the rate per country code. Missing
	// countries (including the Unknown sentinel) default to 1.0.
	GeoMultipliers map[string]float64
	// SourceMultipliers modulates the rate per referrer domain.
	SourceMultipliers map[string]float64
	BlockedIPs        []string
	BotSignatures     []string
}

type Pipeline struct {
	views     ViewStore
	links     LinkCounterStore
	accounts  AccountStore
	txManager TransactionManager
	publisher Publisher // optional
	geo       geo.Resolver
	cfg       Config
	blocked   map[string]bool
	now       func() time.Time
	logger    *slog.Logger
}

func NewPipeline(
	views ViewStore,
	links LinkCounterStore,
	accounts AccountStore,
	txManager TransactionManager,
	publisher Publisher,
	geoResolver geo.Resolver,
	cfg Config,
	logger *slog.Logger,
) *Pipeline {
	if cfg.DedupWindow == 0 {
		cfg.DedupWindow = 24 * time.Hour
	}
	if geoResolver == nil {
		geoResolver = geo.Static{}
	}

	blocked := make(map[string]bool, len(cfg.BlockedIPs))
	for _, ip := range cfg.BlockedIPs {
		blocked[ip] = true
	}

	return &Pipeline{
		views:     views,
		links:     links,
		accounts:  accounts,
		txManager: txManager,
		publisher: publisher,
		geo:       geoResolver,
		cfg:       cfg,
		blocked:   blocked,
		now:       time.Now,
		logger:    logger.With("component", "view_pipeline"),
	}
}

// Record evaluates one redirect and persists its ViewEvent. For counted
// views the event insert and the link/account increments commit in one
// transaction; a failure rolls back both. The redirect proceeds regardless
// of the outcome, so errors here never block the visitor.
func (p *Pipeline) Record(ctx context.Context, link *domain.ShortLink, visitor domain.Visitor) (*domain.ViewOutcome, error) {
	now := p.now()
	country := p.geo.Resolve(ctx, visitor.IP)

	event := &domain.ViewEvent{
		LinkID:    link.ID,
		IP:        visitor.IP,
		Country:   country.Code,
		Device:    ClassifyDevice(visitor.UserAgent),
		Browser:   ClassifyBrowser(visitor.UserAgent),
		Referrer:  visitor.Referrer,
		CreatedAt: now,
	}

	outcome := &domain.ViewOutcome{Reason: p.rejectVisitor(visitor)}

	err := p.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		// The dedup lookup shares the write transaction so two racing
		// first views from one IP cannot both count.
		if outcome.Reason == "" {
			counted, err := p.views.HasCountedView(ctx, link.ID, visitor.IP, now.Add(-p.cfg.DedupWindow))
			if err != nil {
				return fmt.Errorf("dedup check: %w", err)
			}
			if counted {
				outcome.Reason = "duplicate within dedup window"
			}
		}

		if outcome.Reason == "" {
			outcome.Counted = true
			outcome.Earning = p.computeEarning(visitor.Referrer, country.Code)
			event.Counted = true
			event.Earning = outcome.Earning
		}

		if err := p.views.Insert(ctx, event); err != nil {
			return fmt.Errorf("insert view event: %w", err)
		}
		if !event.Counted {
			return nil
		}
		if err := p.links.IncrementViewStats(ctx, link.ID, event.Earning); err != nil {
			return fmt.Errorf("increment link stats: %w", err)
		}
		if err := p.accounts.ApplyEarning(ctx, link.OwnerID, event.Earning); err != nil {
			return fmt.Errorf("apply account earning: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if event.Counted && p.publisher != nil {
		// Best-effort: analytics consumers tolerate gaps, the visitor
		// never waits on the broker.
		if err := p.publisher.PublishView(ctx, link, event); err != nil {
			p.logger.Warn("failed to publish view event",
				"link_id", link.ID,
				"error", err,
			)
		}
	}

	return outcome, nil
}

// rejectVisitor applies the checks that need no datastore access, returning
// an empty string for acceptable visitors and a short rejection reason
// otherwise. Dedup is handled inside the persist transaction.
func (p *Pipeline) rejectVisitor(visitor domain.Visitor) string {
	if p.blocked[visitor.IP] {
		return "blocked ip"
	}
	if p.isBot(visitor.UserAgent) {
		return "bot user agent"
	}
	return ""
}

func (p *Pipeline) isBot(userAgent string) bool {
	if userAgent == "" {
		return true
	}
	ua := strings.ToLower(userAgent)
	for _, sig := range p.cfg.BotSignatures {
		if strings.Contains(ua, strings.ToLower(sig)) {
			return true
		}
	}
	return false
}

// computeEarning applies the CPM model: (rate * multipliers) / 1000.
// Unresolved geography or referrer default to 1.0, never zero.
func (p *Pipeline) computeEarning(referrer, countryCode string) float64 {
	rate := p.cfg.CPMRate

	if mult, ok := p.cfg.GeoMultipliers[countryCode]; ok {
		rate *= mult
	}
	if mult, ok := p.cfg.SourceMultipliers[referrerDomain(referrer)]; ok {
		rate *= mult
	}

	return rate / 1000
}

func referrerDomain(referrer string) string {
	if referrer == "" {
		return "direct"
	}
	parsed, err := url.Parse(referrer)
	if err != nil || parsed.Host == "" {
		return "unknown"
	}
	return strings.TrimPrefix(parsed.Host, "www.")
}
