package registry

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidshort/internal/domain"
	"vidshort/internal/extractor"
)

// stubExtractor validates URLs by substring and returns a canned result.
type stubExtractor struct {
	match  string
	result *domain.ExtractionResult
	err    error
	calls  int
}

func (s *stubExtractor) ValidateURL(rawURL string) bool {
	return s.match == "" || strings.Contains(rawURL, s.match)
}

func (s *stubExtractor) Extract(_ context.Context, _ string, _ extractor.Options) (*domain.ExtractionResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	r := *s.result
	return &r, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testEntries(primary, fallback extractor.Extractor) []Entry {
	return []Entry{
		{
			Descriptor: domain.PlatformDescriptor{
				Name:     "fallthrough",
				Domains:  []string{domain.WildcardDomain},
				Enabled:  true,
				Priority: 1000,
			},
			Extractor: fallback,
		},
		{
			Descriptor: domain.PlatformDescriptor{
				Name:         "terabox",
				Domains:      []string{"terabox.com"},
				Enabled:      true,
				Priority:     10,
				LinkLifetime: 8 * time.Hour,
			},
			Extractor: primary,
		},
	}
}

func TestNew_RequiresExactlyOneWildcard(t *testing.T) {
	fallback := &stubExtractor{result: &domain.ExtractionResult{Success: true}}

	t.Run("no wildcard", func(t *testing.T) {
		entries := []Entry{{
			Descriptor: domain.PlatformDescriptor{Name: "terabox", Domains: []string{"terabox.com"}, Enabled: true},
			Extractor:  fallback,
		}}
		_, err := New(entries, BudgetConfig{}, testLogger())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exactly one wildcard")
	})

	t.Run("wildcard not last", func(t *testing.T) {
		entries := []Entry{
			{
				Descriptor: domain.PlatformDescriptor{Name: "catchall", Domains: []string{domain.WildcardDomain}, Enabled: true, Priority: 1},
				Extractor:  fallback,
			},
			{
				Descriptor: domain.PlatformDescriptor{Name: "terabox", Domains: []string{"terabox.com"}, Enabled: true, Priority: 10},
				Extractor:  fallback,
			},
		}
		_, err := New(entries, BudgetConfig{}, testLogger())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "lowest dispatch priority")
	})
}

func TestDispatch_PriorityOrder(t *testing.T) {
	primary := &stubExtractor{match: "terabox.com"}
	fallback := &stubExtractor{}

	reg, err := New(testEntries(primary, fallback), BudgetConfig{}, testLogger())
	require.NoError(t, err)

	entry, err := reg.Dispatch("https://terabox.com/s/1abcDEF")
	require.NoError(t, err)
	assert.Equal(t, "terabox", entry.Descriptor.Name)

	entry, err = reg.Dispatch("https://cdn.example.com/video.mp4")
	require.NoError(t, err)
	assert.Equal(t, "fallthrough", entry.Descriptor.Name)
}

func TestDispatch_SkipsDisabledPlatforms(t *testing.T) {
	primary := &stubExtractor{match: "terabox.com"}
	fallback := &stubExtractor{match: ".mp4"}

	entries := testEntries(primary, fallback)
	entries[1].Descriptor.Enabled = false

	reg, err := New(entries, BudgetConfig{}, testLogger())
	require.NoError(t, err)

	_, err = reg.Dispatch("https://terabox.com/s/1abcDEF")
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.ErrUnsupportedURL))
}

func TestResolve_InheritsDescriptorLifetime(t *testing.T) {
	primary := &stubExtractor{
		match:  "terabox.com",
		result: &domain.ExtractionResult{Success: true, DirectLink: "https://d.terabox.com/file.mp4"},
	}
	fallback := &stubExtractor{}

	reg, err := New(testEntries(primary, fallback), BudgetConfig{}, testLogger())
	require.NoError(t, err)

	result, err := reg.Resolve(context.Background(), "https://terabox.com/s/1abcDEF", extractor.Options{})
	require.NoError(t, err)
	assert.Equal(t, 8*time.Hour, result.ExpiresIn)
	assert.Equal(t, "terabox", result.Platform)
}

func TestResolve_KeepsExplicitExpiry(t *testing.T) {
	at := time.Now().Add(30 * time.Minute)
	primary := &stubExtractor{
		match:  "terabox.com",
		result: &domain.ExtractionResult{Success: true, DirectLink: "u", Platform: "TeraBox", ExpiresAt: &at},
	}
	fallback := &stubExtractor{}

	reg, err := New(testEntries(primary, fallback), BudgetConfig{}, testLogger())
	require.NoError(t, err)

	result, err := reg.Resolve(context.Background(), "https://terabox.com/s/1abcDEF", extractor.Options{})
	require.NoError(t, err)
	assert.Equal(t, at, *result.ExpiresAt)
	assert.Zero(t, result.ExpiresIn)
	assert.Equal(t, "TeraBox", result.Platform)
}

func TestResolve_WrapsUnknownErrors(t *testing.T) {
	primary := &stubExtractor{match: "terabox.com", err: errors.New("tls handshake failed")}
	fallback := &stubExtractor{}

	reg, err := New(testEntries(primary, fallback), BudgetConfig{}, testLogger())
	require.NoError(t, err)

	_, err = reg.Resolve(context.Background(), "https://terabox.com/s/1abcDEF", extractor.Options{})
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.ErrConnection))
}

func TestResolve_PreservesClassifiedErrors(t *testing.T) {
	primary := &stubExtractor{
		match: "terabox.com",
		err:   domain.NewExtractError(domain.ErrVerificationRequired, "captcha required"),
	}
	fallback := &stubExtractor{}

	reg, err := New(testEntries(primary, fallback), BudgetConfig{}, testLogger())
	require.NoError(t, err)

	_, err = reg.Resolve(context.Background(), "https://terabox.com/s/1abcDEF", extractor.Options{})
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.ErrVerificationRequired))
}

func TestResolve_BudgetExhaustionFailsFast(t *testing.T) {
	primary := &stubExtractor{
		match:  "terabox.com",
		result: &domain.ExtractionResult{Success: true, DirectLink: "u"},
	}
	fallback := &stubExtractor{}

	budget := BudgetConfig{RequestsPerHour: 1, Burst: 1}
	reg, err := New(testEntries(primary, fallback), budget, testLogger())
	require.NoError(t, err)

	_, err = reg.Resolve(context.Background(), "https://terabox.com/s/1abcDEF", extractor.Options{})
	require.NoError(t, err)

	_, err = reg.Resolve(context.Background(), "https://terabox.com/s/1abcDEF", extractor.Options{})
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.ErrRateLimited))

	var ee *domain.ExtractError
	require.ErrorAs(t, err, &ee)
	assert.Greater(t, ee.RetryAfter, time.Duration(0))

	// the denied request never reached the extractor
	assert.Equal(t, 1, primary.calls)
}

func TestResolve_AllowlistBypassesBudget(t *testing.T) {
	primary := &stubExtractor{
		match:  "terabox.com",
		result: &domain.ExtractionResult{Success: true, DirectLink: "u"},
	}
	fallback := &stubExtractor{}

	budget := BudgetConfig{RequestsPerHour: 1, Burst: 1, AllowlistIPs: []string{"127.0.0.1"}}
	reg, err := New(testEntries(primary, fallback), budget, testLogger())
	require.NoError(t, err)

	opts := extractor.Options{ClientIP: "127.0.0.1"}
	for range 3 {
		_, err := reg.Resolve(context.Background(), "https://terabox.com/s/1abcDEF", opts)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, primary.calls)
}

func TestPlatforms_DispatchOrder(t *testing.T) {
	primary := &stubExtractor{}
	fallback := &stubExtractor{}

	reg, err := New(testEntries(primary, fallback), BudgetConfig{}, testLogger())
	require.NoError(t, err)

	descriptors := reg.Platforms()
	require.Len(t, descriptors, 2)
	assert.Equal(t, "terabox", descriptors[0].Name)
	assert.Equal(t, "fallthrough", descriptors[1].Name)
}
