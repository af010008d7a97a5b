package registry

import (
	"log/slog"
	"net/http"
	"time"

	"vidshort/internal/config"
	"vidshort/internal/domain"
	"vidshort/internal/extractor/direct"
	"vidshort/internal/extractor/terabox"
)

// DefaultEntries builds the supported platform set. The wildcard direct
// extractor always sorts last so it only catches URLs no specific platform
// claims.
func DefaultEntries(cfg config.ExtractConfig, client *http.Client, tokens terabox.TokenStore, logger *slog.Logger) []Entry {
	disabled := make(map[string]bool, len(cfg.DisabledPlatforms))
	for _, name := range cfg.DisabledPlatforms {
		disabled[name] = true
	}

	return []Entry{
		{
			Descriptor: domain.PlatformDescriptor{
				Name:           "TeraBox",
				Domains:        terabox.Domains(),
				Enabled:        !disabled["TeraBox"],
				Priority:       10,
				LinkLifetime:   8 * time.Hour,
				RequiresCookie: true,
			},
			Extractor: terabox.New(terabox.Config{
				Cookie:       cfg.TeraboxCookie,
				LinkLifetime: 8 * time.Hour,
				JSTokenTTL:   30 * time.Minute,
			}, client, cfg.UserAgent, tokens, logger),
		},
		{
			Descriptor: domain.PlatformDescriptor{
				Name:     "Direct",
				Domains:  []string{domain.WildcardDomain},
				Enabled:  !disabled["Direct"],
				Priority: 1000,
				// Direct media files have no platform-issued expiry.
				LinkLifetime: 0,
			},
			Extractor: direct.New(client, logger),
		},
	}
}
