package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestShortLink_HasValidResolution(t *testing.T) {
	now := time.Now()
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	tests := []struct {
		name string
		link ShortLink
		want bool
	}{
		{
			name: "no direct url",
			link: ShortLink{},
			want: false,
		},
		{
			name: "empty direct url",
			link: ShortLink{DirectVideoURL: strPtr("")},
			want: false,
		},
		{
			name: "valid with future expiry",
			link: ShortLink{DirectVideoURL: strPtr("https://cdn.example.com/v.mp4"), VideoExpiresAt: &future},
			want: true,
		},
		{
			name: "expired",
			link: ShortLink{DirectVideoURL: strPtr("https://cdn.example.com/v.mp4"), VideoExpiresAt: &past},
			want: false,
		},
		{
			name: "never expires",
			link: ShortLink{DirectVideoURL: strPtr("https://cdn.example.com/v.mp4")},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.link.HasValidResolution(now))
		})
	}
}

func TestShortLink_DueForRefresh(t *testing.T) {
	now := time.Now()
	ahead := 10 * time.Minute

	soon := now.Add(5 * time.Minute)
	far := now.Add(time.Hour)
	past := now.Add(-time.Minute)

	tests := []struct {
		name string
		link ShortLink
		want bool
	}{
		{
			name: "expires inside window",
			link: ShortLink{DirectVideoURL: strPtr("u"), VideoExpiresAt: &soon},
			want: true,
		},
		{
			name: "expires well after window",
			link: ShortLink{DirectVideoURL: strPtr("u"), VideoExpiresAt: &far},
			want: false,
		},
		{
			name: "already expired is not due, needs full resolve",
			link: ShortLink{DirectVideoURL: strPtr("u"), VideoExpiresAt: &past},
			want: false,
		},
		{
			name: "never expires is never due",
			link: ShortLink{DirectVideoURL: strPtr("u")},
			want: false,
		},
		{
			name: "unresolved is not due",
			link: ShortLink{},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.link.DueForRefresh(now, ahead))
		})
	}
}

func TestExtractionResult_ExpiryAt(t *testing.T) {
	now := time.Now()
	at := now.Add(2 * time.Hour)

	t.Run("absolute wins", func(t *testing.T) {
		r := ExtractionResult{ExpiresAt: &at, ExpiresIn: time.Minute}
		got := r.ExpiryAt(now)
		assert.Equal(t, at, *got)
	})

	t.Run("relative from now", func(t *testing.T) {
		r := ExtractionResult{ExpiresIn: 8 * time.Hour}
		got := r.ExpiryAt(now)
		assert.Equal(t, now.Add(8*time.Hour), *got)
	})

	t.Run("non-expiring", func(t *testing.T) {
		r := ExtractionResult{}
		assert.Nil(t, r.ExpiryAt(now))
	})
}

func TestPlatformDescriptor_Matches(t *testing.T) {
	d := PlatformDescriptor{Domains: []string{"terabox.com", "teraboxapp.com"}}

	assert.True(t, d.Matches("terabox.com"))
	assert.True(t, d.Matches("www.terabox.com"))
	assert.True(t, d.Matches("dl.teraboxapp.com"))
	assert.False(t, d.Matches("terabox.com.evil.net"))
	assert.False(t, d.Matches("notterabox.com"))
	assert.False(t, d.Matches("example.com"))

	wild := PlatformDescriptor{Domains: []string{WildcardDomain}}
	assert.True(t, wild.Matches("anything.example"))
}
