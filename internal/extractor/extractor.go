// Package extractor defines the contract platform extractors implement to
// turn a shared-file URL into a direct, time-limited media URL.
package extractor

import (
	"context"
	"net"
	"net/http"
	"time"

	"vidshort/internal/domain"
)

// Options tune a single extraction.
type Options struct {
	// Refresh instructs the extractor to bypass any internal micro-cache
	// and hit the origin fresh.
	Refresh bool
	// SkipCache skips the resolver-level cache lookup; the extractor
	// itself treats it like Refresh.
	SkipCache bool
	// ClientIP identifies the caller for the per-platform budget
	// allow-list. Empty for internal callers (scheduler).
	ClientIP string
}

// Extractor is implemented once per supported platform.
//
// ValidateURL is a pure pattern match and must not perform network I/O.
// Extract performs the network calls needed to obtain a direct link and
// classifies failures into the domain error taxonomy. Extractors may
// refresh their own auth tokens but never write to ShortLink records.
type Extractor interface {
	ValidateURL(rawURL string) bool
	Extract(ctx context.Context, rawURL string, opts Options) (*domain.ExtractionResult, error)
}

// ClientConfig carries the HTTP settings shared by all extractors.
type ClientConfig struct {
	ConnectTimeout time.Duration
	Timeout        time.Duration
	UserAgent      string
}

// NewHTTPClient builds the outbound client extractors use. Both a connect
// timeout and an overall timeout are enforced so a slow origin cannot stall
// a redirect indefinitely.
func NewHTTPClient(cfg ClientConfig) *http.Client {
	dialer := &net.Dialer{Timeout: cfg.ConnectTimeout}
	return &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			DialContext:         dialer.DialContext,
			TLSHandshakeTimeout: cfg.ConnectTimeout,
			MaxIdleConnsPerHost: 8,
		},
	}
}
