package controllers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsBotUserAgent(t *testing.T) {
	assert.True(t, IsBotUserAgent("Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"))
	assert.True(t, IsBotUserAgent("Screaming Frog SEO Spider"))
	assert.True(t, IsBotUserAgent("HeadlessChrome/120.0"))
	assert.True(t, IsBotUserAgent("Chrome-Lighthouse"))
	assert.False(t, IsBotUserAgent("Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)"))
	assert.False(t, IsBotUserAgent(""))
}

func TestAnonymizeIP(t *testing.T) {
	// Addresses in the same /24 hash identically, across it they differ.
	assert.Equal(t, AnonymizeIP("203.0.113.7"), AnonymizeIP("203.0.113.200"))
	assert.NotEqual(t, AnonymizeIP("203.0.113.7"), AnonymizeIP("203.0.114.7"))

	// Same for the IPv6 /48.
	assert.Equal(t, AnonymizeIP("2001:db8:1::1"), AnonymizeIP("2001:db8:1::ffff"))
	assert.NotEqual(t, AnonymizeIP("2001:db8:1::1"), AnonymizeIP("2001:db8:2::1"))

	// Hex-encoded sha256, never the raw address.
	h := AnonymizeIP("203.0.113.7")
	assert.Len(t, h, 64)
	assert.NotContains(t, h, "203.0.113")
}

func TestMaskIP(t *testing.T) {
	assert.Equal(t, "203.0.113.0", maskIP("203.0.113.77"))
	assert.Equal(t, "", maskIP("not-an-ip"))
	assert.Equal(t, "", maskIP(""))
}

func TestParseTimePtr(t *testing.T) {
	got := parseTimePtr("2026-03-01T12:00:00Z")
	if assert.NotNil(t, got) {
		assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), got.UTC())
	}

	assert.Nil(t, parseTimePtr(""))
	assert.Nil(t, parseTimePtr("   "))
	assert.Nil(t, parseTimePtr("tomorrow"))
	assert.Nil(t, parseTimePtr("2026-03-01"))
}

func TestFormatTimePtr(t *testing.T) {
	assert.Nil(t, formatTimePtr(nil))

	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	assert.Equal(t, "2026-03-01T11:00:00Z", formatTimePtr(&ts))
}
