// Package registry owns the ordered platform configuration and picks the
// extractor for an incoming URL.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/time/rate"

	"vidshort/internal/domain"
	"vidshort/internal/extractor"
)

// Entry binds a platform descriptor to its extractor implementation.
type Entry struct {
	Descriptor domain.PlatformDescriptor
	Extractor  extractor.Extractor
}

// BudgetConfig caps outbound extraction requests per platform.
type BudgetConfig struct {
	RequestsPerHour int
	Burst           int
	AllowlistIPs    []string
}

type Registry struct {
	entries   []Entry
	limiters  map[string]*rate.Limiter
	allowlist map[string]bool
	logger    *slog.Logger
}

// New builds a registry from descriptors. Entries are sorted ascending by
// priority; exactly one enabled entry must carry the wildcard domain and it
// must sort last.
func New(entries []Entry, budget BudgetConfig, logger *slog.Logger) (*Registry, error) {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Descriptor.Priority < sorted[j].Descriptor.Priority
	})

	wildcards := 0
	for i, e := range sorted {
		for _, d := range e.Descriptor.Domains {
			if d == domain.WildcardDomain {
				wildcards++
				if i != len(sorted)-1 {
					return nil, fmt.Errorf("wildcard platform %q must have the lowest dispatch priority", e.Descriptor.Name)
				}
			}
		}
	}
	if wildcards != 1 {
		return nil, fmt.Errorf("exactly one wildcard platform required, found %d", wildcards)
	}

	limiters := make(map[string]*rate.Limiter, len(sorted))
	if budget.RequestsPerHour > 0 {
		burst := budget.Burst
		if burst <= 0 {
			burst = 1
		}
		for _, e := range sorted {
			limiters[e.Descriptor.Name] = rate.NewLimiter(
				rate.Limit(float64(budget.RequestsPerHour)/3600.0), burst)
		}
	}

	allowlist := make(map[string]bool, len(budget.AllowlistIPs))
	for _, ip := range budget.AllowlistIPs {
		allowlist[ip] = true
	}

	return &Registry{
		entries:   sorted,
		limiters:  limiters,
		allowlist: allowlist,
		logger:    logger.With("component", "registry"),
	}, nil
}

// Platforms returns the descriptors in dispatch order.
func (r *Registry) Platforms() []domain.PlatformDescriptor {
	descriptors := make([]domain.PlatformDescriptor, len(r.entries))
	for i, e := range r.entries {
		descriptors[i] = e.Descriptor
	}
	return descriptors
}

// Dispatch returns the first enabled entry, in priority order, whose
// extractor validates the URL.
func (r *Registry) Dispatch(rawURL string) (Entry, error) {
	for _, e := range r.entries {
		if !e.Descriptor.Enabled {
			continue
		}
		if e.Extractor.ValidateURL(rawURL) {
			return e, nil
		}
	}
	return Entry{}, domain.NewExtractError(domain.ErrUnsupportedURL, "no platform matches this url")
}

// Resolve dispatches and extracts, enforcing the per-platform request
// budget and folding unknown failures into the common error taxonomy.
// The single auth-refresh retry happens inside the extractor; Resolve
// never retries.
func (r *Registry) Resolve(ctx context.Context, rawURL string, opts extractor.Options) (*domain.ExtractionResult, error) {
	entry, err := r.Dispatch(rawURL)
	if err != nil {
		return nil, err
	}

	if err := r.consumeBudget(entry.Descriptor.Name, opts.ClientIP); err != nil {
		return nil, err
	}

	result, err := entry.Extractor.Extract(ctx, rawURL, opts)
	if err != nil {
		var ee *domain.ExtractError
		if !errors.As(err, &ee) && !errors.Is(err, context.Canceled) {
			err = domain.WrapExtractError(domain.ErrConnection, "extraction failed", err)
		}
		r.logger.Warn("extraction failed",
			"platform", entry.Descriptor.Name,
			"error_type", string(domain.KindOf(err)),
			"error", err,
		)
		return nil, err
	}

	if result.Platform == "" {
		result.Platform = entry.Descriptor.Name
	}
	// Platforms whose responses omit an explicit expiry inherit the
	// declared link lifetime from their descriptor.
	if result.ExpiresAt == nil && result.ExpiresIn == 0 && entry.Descriptor.LinkLifetime > 0 {
		result.ExpiresIn = entry.Descriptor.LinkLifetime
	}

	return result, nil
}

// consumeBudget takes one token from the platform's sliding budget.
// Requests beyond budget fail fast instead of queuing.
func (r *Registry) consumeBudget(platform, clientIP string) error {
	if clientIP != "" && r.allowlist[clientIP] {
		return nil
	}
	limiter, ok := r.limiters[platform]
	if !ok {
		return nil
	}
	if !limiter.Allow() {
		res := limiter.Reserve()
		wait := res.Delay()
		res.Cancel()
		return &domain.ExtractError{
			Kind:       domain.ErrRateLimited,
			Message:    fmt.Sprintf("request budget for %s exhausted", platform),
			RetryAfter: wait,
		}
	}
	return nil
}
