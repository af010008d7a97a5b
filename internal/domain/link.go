package domain

import "time"

// ShortLink is a shortened, monetized link to a video hosted on a
// third-party file-sharing platform.
type ShortLink struct {
	ID             int64      `db:"id"`
	ShortCode      string     `db:"short_code"`
	OwnerID        int64      `db:"owner_id"`
	OriginalURL    string     `db:"original_url"`
	DirectVideoURL *string    `db:"direct_video_url"`
	VideoExpiresAt *time.Time `db:"video_expires_at"` // nil = never expires
	VideoPlatform  string     `db:"video_platform"`
	VideoQuality   *string    `db:"video_quality"`
	VideoTitle     *string    `db:"video_title"`
	Active         bool       `db:"active"`
	Views          int64      `db:"views"`
	Earnings       float64    `db:"earnings"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

// HasValidResolution reports whether the cached direct link may still be
// served: the URL is present and either never expires or expires after now.
func (l *ShortLink) HasValidResolution(now time.Time) bool {
	if l.DirectVideoURL == nil || *l.DirectVideoURL == "" {
		return false
	}
	return l.VideoExpiresAt == nil || l.VideoExpiresAt.After(now)
}

// DueForRefresh reports whether a still-valid resolution is close enough to
// expiry that it should be proactively re-resolved. Links that never expire
// are never due.
func (l *ShortLink) DueForRefresh(now time.Time, ahead time.Duration) bool {
	if !l.HasValidResolution(now) {
		return false
	}
	if l.VideoExpiresAt == nil {
		return false
	}
	return l.VideoExpiresAt.Before(now.Add(ahead))
}

// ExtractionResult is the normalized output of a platform extractor. It is
// never persisted as its own entity; successful results are projected onto
// the owning ShortLink.
type ExtractionResult struct {
	Success    bool
	DirectLink string
	Title      string
	Thumbnail  string
	Size       int64
	Quality    string
	Format     string
	Platform   string

	// Exactly one of ExpiresAt / ExpiresIn is set for expiring links;
	// both zero means the link does not expire.
	ExpiresAt *time.Time
	ExpiresIn time.Duration
}

// ExpiryAt resolves the absolute expiry instant of the result, using now as
// the base for relative lifetimes. Returns nil for non-expiring links.
func (r *ExtractionResult) ExpiryAt(now time.Time) *time.Time {
	if r.ExpiresAt != nil {
		return r.ExpiresAt
	}
	if r.ExpiresIn > 0 {
		t := now.Add(r.ExpiresIn)
		return &t
	}
	return nil
}

// WildcardDomain matches any host. Only the fallback descriptor uses it.
const WildcardDomain = "*"

// PlatformDescriptor is the static configuration binding a platform to its
// extractor. Descriptors are evaluated in ascending priority order.
type PlatformDescriptor struct {
	Name           string
	Domains        []string
	Enabled        bool
	Priority       int // lower evaluates first
	LinkLifetime   time.Duration
	RequiresCookie bool
}

// Matches reports whether host belongs to one of the descriptor's domains,
// including subdomains. The wildcard sentinel matches every host.
func (d *PlatformDescriptor) Matches(host string) bool {
	for _, domain := range d.Domains {
		if domain == WildcardDomain {
			return true
		}
		if host == domain || hasDomainSuffix(host, domain) {
			return true
		}
	}
	return false
}

func hasDomainSuffix(host, domain string) bool {
	n := len(host) - len(domain)
	return n > 0 && host[n-1] == '.' && host[n:] == domain
}
