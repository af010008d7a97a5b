package terabox

import (
	"context"
	"sync"
	"time"
)

// TokenStore persists platform-scoped session tokens so they survive
// restarts. Implemented by storage/postgres.
type TokenStore interface {
	Get(ctx context.Context, platform, name string) (string, time.Time, error)
	Set(ctx context.Context, platform, name, value string) error
}

// tokenJar caches the page-scraped jsToken and the ndus session cookie.
// Extractors own their jar; it is refreshed lazily when a request fails
// with an auth-related error.
type tokenJar struct {
	mu          sync.RWMutex
	jsToken     string
	cookie      string
	refreshedAt time.Time

	store TokenStore // optional
}

func newTokenJar(cookie string, store TokenStore) *tokenJar {
	return &tokenJar{cookie: cookie, store: store}
}

func (j *tokenJar) Cookie() string {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.cookie
}

func (j *tokenJar) JSToken() (string, time.Time) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.jsToken, j.refreshedAt
}

func (j *tokenJar) SetJSToken(ctx context.Context, token string) {
	j.mu.Lock()
	j.jsToken = token
	j.refreshedAt = time.Now()
	j.mu.Unlock()

	if j.store != nil {
		// Persistence is best-effort; the in-memory token is authoritative.
		_ = j.store.Set(ctx, platformName, "js_token", token)
	}
}

// Load pulls a previously persisted token, preferring it only when the jar
// is empty.
func (j *tokenJar) Load(ctx context.Context) {
	if j.store == nil {
		return
	}
	token, refreshedAt, err := j.store.Get(ctx, platformName, "js_token")
	if err != nil || token == "" {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.jsToken == "" {
		j.jsToken = token
		j.refreshedAt = refreshedAt
	}
}
