// Package direct is the universal fallback extractor: it accepts any URL
// whose path ends in a known video file extension and passes it through as
// a non-expiring direct link.
package direct

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"

	"vidshort/internal/domain"
	"vidshort/internal/extractor"
)

const platformName = "Direct"

var videoExtensions = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".webm": true,
	".avi":  true,
	".mov":  true,
	".m4v":  true,
	".ts":   true,
	".m3u8": true,
	".flv":  true,
	".wmv":  true,
	".3gp":  true,
}

type Extractor struct {
	httpClient *http.Client
	logger     *slog.Logger
}

func New(client *http.Client, logger *slog.Logger) *Extractor {
	return &Extractor{
		httpClient: client,
		logger:     logger.With("extractor", platformName),
	}
}

func (e *Extractor) ValidateURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	return videoExtensions[strings.ToLower(path.Ext(u.Path))]
}

// Extract returns the URL as-is. A HEAD probe fills in size and confirms
// the resource exists; probe failures other than a definite 404 are
// tolerated because many file hosts reject HEAD.
func (e *Extractor) Extract(ctx context.Context, rawURL string, opts extractor.Options) (*domain.ExtractionResult, error) {
	if !e.ValidateURL(rawURL) {
		return nil, domain.NewExtractError(domain.ErrInvalidLink, "not a direct media url")
	}

	u, _ := url.Parse(rawURL)
	ext := strings.ToLower(path.Ext(u.Path))

	result := &domain.ExtractionResult{
		Success:    true,
		DirectLink: rawURL,
		Title:      path.Base(u.Path),
		Quality:    "original",
		Format:     strings.TrimPrefix(ext, "."),
		Platform:   platformName,
		// No expiry: the caller stores a nil video_expires_at.
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return result, nil
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		e.logger.Debug("head probe failed", "url", rawURL, "error", err)
		return result, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
		return nil, domain.NewExtractError(domain.ErrInvalidLink, "media responds "+strconv.Itoa(resp.StatusCode))
	}

	if cl := resp.Header.Get("Content-Length"); cl != "" {
		if size, err := strconv.ParseInt(cl, 10, 64); err == nil {
			result.Size = size
		}
	}

	return result, nil
}
