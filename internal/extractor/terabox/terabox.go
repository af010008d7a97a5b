// Package terabox extracts direct media links from TeraBox shares. TeraBox
// exposes the same backend under several public domains; the extractor
// derives the API host and request headers from the input URL's own domain.
package terabox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"
	"time"

	"vidshort/internal/domain"
	"vidshort/internal/extractor"
)

const (
	platformName = "TeraBox"

	// fallbackHost handles aliases of the platform that are not in the
	// host map yet.
	fallbackHost = "www.terabox.com"

	appID   = "250528"
	channel = "dubox"
)

// hostMap binds each known public alias to its canonical API host.
var hostMap = map[string]string{
	"terabox.com":     "www.terabox.com",
	"teraboxapp.com":  "www.teraboxapp.com",
	"teraboxurl.com":  "www.teraboxurl.com",
	"1024terabox.com": "www.1024terabox.com",
}

// Domains lists the aliases the platform descriptor matches on.
func Domains() []string {
	domains := make([]string, 0, len(hostMap))
	for d := range hostMap {
		domains = append(domains, d)
	}
	return domains
}

var jsTokenRe = regexp.MustCompile(`fn%28%22([0-9A-Fa-f]+)%22%29`)

// Config holds TeraBox extractor configuration.
type Config struct {
	// Cookie is the ndus session cookie value.
	Cookie string
	// LinkLifetime is applied when the share API response carries no
	// explicit expiry, which is the normal case for dlinks.
	LinkLifetime time.Duration
	// JSTokenTTL bounds how long a scraped jsToken is reused before the
	// share page is fetched again. Zero means reuse until an auth error.
	JSTokenTTL time.Duration
}

type Extractor struct {
	httpClient *http.Client
	jar        *tokenJar
	lifetime   time.Duration
	tokenTTL   time.Duration
	userAgent  string
	logger     *slog.Logger
}

// New creates a TeraBox extractor. store may be nil.
func New(cfg Config, client *http.Client, userAgent string, store TokenStore, logger *slog.Logger) *Extractor {
	lifetime := cfg.LinkLifetime
	if lifetime == 0 {
		lifetime = 8 * time.Hour
	}
	e := &Extractor{
		httpClient: client,
		jar:        newTokenJar(cfg.Cookie, store),
		lifetime:   lifetime,
		tokenTTL:   cfg.JSTokenTTL,
		userAgent:  userAgent,
		logger:     logger.With("extractor", platformName),
	}
	e.jar.Load(context.Background())
	return e
}

// ValidateURL reports whether rawURL points at a TeraBox share. Pure string
// matching, no network I/O.
func (e *Extractor) ValidateURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return false
	}
	if _, ok := hostMap[registrableDomain(u.Host)]; !ok {
		return false
	}
	_, err = shortURLFrom(u)
	return err == nil
}

// Extract resolves a share URL into a direct dlink. The internal id must be
// harvested from the share page before the share/list call; there is no
// parallelism within one extraction.
func (e *Extractor) Extract(ctx context.Context, rawURL string, opts extractor.Options) (*domain.ExtractionResult, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, domain.WrapExtractError(domain.ErrInvalidLink, "malformed share url", err)
	}

	surl, err := shortURLFrom(u)
	if err != nil {
		return nil, err
	}

	apiHost := apiHostFor(u.Host)

	token, err := e.jsToken(ctx, apiHost, surl, opts.Refresh || opts.SkipCache)
	if err != nil {
		return nil, err
	}

	result, err := e.fetchShareList(ctx, apiHost, surl, token)
	if err == nil {
		return result, nil
	}

	// Exactly one token-refresh-and-retry on an auth failure; a second
	// auth failure is surfaced as connection-class so callers do not loop.
	if domain.IsKind(err, domain.ErrAuthExpired) {
		e.logger.Warn("auth token rejected, refreshing once", "host", apiHost)
		token, rerr := e.refreshJSToken(ctx, apiHost, surl)
		if rerr != nil {
			return nil, rerr
		}
		result, err = e.fetchShareList(ctx, apiHost, surl, token)
		if err != nil && domain.IsKind(err, domain.ErrAuthExpired) {
			return nil, domain.WrapExtractError(domain.ErrConnection, "auth retry failed", err)
		}
		return result, err
	}

	return nil, err
}

// jsToken returns a usable page token, scraping the share page when the
// cached one is missing, expired, or a fresh extraction was requested.
func (e *Extractor) jsToken(ctx context.Context, apiHost, surl string, refresh bool) (string, error) {
	token, refreshedAt := e.jar.JSToken()
	stale := token == "" ||
		(e.tokenTTL > 0 && time.Since(refreshedAt) > e.tokenTTL)
	if !refresh && !stale {
		return token, nil
	}
	return e.refreshJSToken(ctx, apiHost, surl)
}

func (e *Extractor) refreshJSToken(ctx context.Context, apiHost, surl string) (string, error) {
	pageURL := fmt.Sprintf("https://%s/sharing/link?surl=%s", apiHost, url.QueryEscape(surl))

	body, err := e.get(ctx, apiHost, pageURL)
	if err != nil {
		return "", err
	}

	m := jsTokenRe.FindSubmatch(body)
	if m == nil {
		// The page renders a human-verification interstitial instead of
		// the player when the origin wants a CAPTCHA.
		if strings.Contains(string(body), "verify") {
			return "", domain.NewExtractError(domain.ErrVerificationRequired, "share page demands human verification")
		}
		return "", domain.NewExtractError(domain.ErrInvalidLink, "share page carries no token, link is dead or private")
	}

	token := string(m[1])
	e.jar.SetJSToken(ctx, token)
	e.logger.Debug("refreshed js token", "host", apiHost)
	return token, nil
}

func (e *Extractor) fetchShareList(ctx context.Context, apiHost, surl, token string) (*domain.ExtractionResult, error) {
	q := url.Values{}
	q.Set("app_id", appID)
	q.Set("web", "1")
	q.Set("channel", channel)
	q.Set("clienttype", "0")
	q.Set("jsToken", token)
	q.Set("shorturl", "1"+surl)
	q.Set("root", "1")

	apiURL := fmt.Sprintf("https://%s/share/list?%s", apiHost, q.Encode())

	body, err := e.get(ctx, apiHost, apiURL)
	if err != nil {
		return nil, err
	}

	var resp shareListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, domain.WrapExtractError(domain.ErrConnection, "undecodable share response", err)
	}

	if err := classifyErrno(resp.Errno, resp.Errmsg); err != nil {
		return nil, err
	}

	file, ok := firstVideo(resp.List)
	if !ok {
		return nil, domain.NewExtractError(domain.ErrInvalidLink, "share contains no video file")
	}

	return &domain.ExtractionResult{
		Success:    true,
		DirectLink: file.Dlink,
		Title:      file.ServerFilename,
		Thumbnail:  file.bestThumb(),
		Size:       file.Size,
		Quality:    "HD",
		Format:     strings.TrimPrefix(path.Ext(file.ServerFilename), "."),
		Platform:   platformName,
		ExpiresIn:  e.lifetime,
	}, nil
}

// get issues a GET with the platform headers derived from the API host;
// both Host and Referer must track the input URL's alias, never a
// hardcoded constant.
func (e *Extractor) get(ctx context.Context, apiHost, rawURL string) ([]byte, error) {
	body, err := e.getOnce(ctx, apiHost, rawURL)
	if err == nil {
		return body, nil
	}

	// One immediate retry for transient network failures.
	if domain.IsKind(err, domain.ErrConnection) && ctx.Err() == nil {
		e.logger.Debug("transient failure, retrying once", "url", rawURL, "error", err)
		return e.getOnce(ctx, apiHost, rawURL)
	}
	return nil, err
}

func (e *Extractor) getOnce(ctx context.Context, apiHost, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, domain.WrapExtractError(domain.ErrConnection, "create request", err)
	}

	req.Host = apiHost
	req.Header.Set("User-Agent", e.userAgent)
	req.Header.Set("Referer", "https://"+apiHost+"/")
	req.Header.Set("Accept", "application/json, text/html;q=0.9, */*;q=0.8")
	if cookie := e.jar.Cookie(); cookie != "" {
		req.Header.Set("Cookie", "ndus="+cookie)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, domain.WrapExtractError(domain.ErrConnection, "origin unreachable", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &domain.ExtractError{
			Kind:       domain.ErrRateLimited,
			Message:    "origin is throttling",
			RetryAfter: retryAfter(resp),
		}
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, domain.NewExtractError(domain.ErrAuthExpired, "origin rejected session")
	case resp.StatusCode == http.StatusNotFound:
		return nil, domain.NewExtractError(domain.ErrInvalidLink, "share not found")
	case resp.StatusCode >= 400:
		return nil, domain.NewExtractError(domain.ErrConnection, fmt.Sprintf("unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, domain.WrapExtractError(domain.ErrConnection, "read response", err)
	}
	return body, nil
}

// retryAfter reads the origin's Retry-After header. Only the delta-seconds
// form is expected from the API; anything else yields zero.
func retryAfter(resp *http.Response) time.Duration {
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func classifyErrno(errno int, errmsg string) error {
	if errmsg == "" {
		errmsg = fmt.Sprintf("errno %d", errno)
	}
	switch errno {
	case errnoOK:
		return nil
	case errnoInvalidLink, errnoFileNotFound:
		return domain.NewExtractError(domain.ErrInvalidLink, errmsg)
	case errnoAuthFailed, errnoAuthExpired:
		return domain.NewExtractError(domain.ErrAuthExpired, errmsg)
	case errnoHitLimit:
		return &domain.ExtractError{Kind: domain.ErrRateLimited, Message: errmsg, RetryAfter: time.Hour}
	case errnoCaptcha:
		return domain.NewExtractError(domain.ErrVerificationRequired, errmsg)
	default:
		return domain.NewExtractError(domain.ErrConnection, errmsg)
	}
}

func firstVideo(files []shareFile) (shareFile, bool) {
	for _, f := range files {
		if f.Category == 1 && f.Dlink != "" {
			return f, true
		}
	}
	// Single-file shares sometimes omit the category.
	if len(files) == 1 && files[0].Dlink != "" {
		return files[0], true
	}
	return shareFile{}, false
}

// apiHostFor maps an input host to its canonical API host, falling back to
// the documented default for unrecognized aliases.
func apiHostFor(host string) string {
	if apiHost, ok := hostMap[registrableDomain(host)]; ok {
		return apiHost
	}
	return fallbackHost
}

func registrableDomain(host string) string {
	host = strings.ToLower(host)
	if i := strings.LastIndex(host, ":"); i != -1 && !strings.Contains(host[i:], "]") {
		host = host[:i]
	}
	parts := strings.Split(host, ".")
	if len(parts) <= 2 {
		return host
	}
	return strings.Join(parts[len(parts)-2:], ".")
}

// shortURLFrom pulls the share id out of /s/<id> paths or surl query
// parameters, dropping the legacy "1" prefix.
func shortURLFrom(u *url.URL) (string, error) {
	if surl := u.Query().Get("surl"); surl != "" {
		return surl, nil
	}
	if rest, ok := strings.CutPrefix(u.Path, "/s/"); ok && rest != "" {
		return strings.TrimPrefix(strings.Trim(rest, "/"), "1"), nil
	}
	return "", domain.NewExtractError(domain.ErrInvalidLink, "url carries no share id")
}
