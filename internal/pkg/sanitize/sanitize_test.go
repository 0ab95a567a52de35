package sanitize

import "testing"

func TestClampText(t *testing.T) {
	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{in: "hello", maxLen: 10, want: "hello"},
		{in: "  padded  ", maxLen: 10, want: "padded"},
		{in: "<script>alert(1)</script>", maxLen: 100, want: "scriptalert(1)/script"},
		{in: "a\x00b\x1fc\x7fd", maxLen: 10, want: "abcd"},
		{in: "truncate me", maxLen: 8, want: "truncate"},
		{in: "", maxLen: 5, want: ""},
	}

	for _, tt := range tests {
		if got := ClampText(tt.in, tt.maxLen); got != tt.want {
			t.Fatalf("ClampText(%q, %d) = %q, want %q", tt.in, tt.maxLen, got, tt.want)
		}
	}
}

func TestImageSrc(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "https://cdn.example.com/a.png", want: "https://cdn.example.com/a.png"},
		{in: "http://example.com/a.jpg", want: "http://example.com/a.jpg"},
		{in: "/uploads/a.webp", want: "/uploads/a.webp"},
		{in: "//evil.example.com/a.png", want: ""},
		{in: "data:image/png;base64,iVBORw0KGgo=", want: "data:image/png;base64,iVBORw0KGgo="},
		{in: "data:image/webp;base64,UklGR=", want: "data:image/webp;base64,UklGR="},
		{in: "data:image/svg+xml;base64,PHN2Zz4=", want: ""},
		{in: "data:text/html;base64,PGI+", want: ""},
		{in: "javascript:alert(1)", want: ""},
		{in: "ftp://example.com/a.png", want: ""},
		{in: "not a url", want: ""},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		got := ImageSrc(tt.in)
		if got != tt.want {
			t.Fatalf("ImageSrc(%q) = %q, want %q", tt.in, got, tt.want)
		}
		// Applying the sanitizer twice must equal applying it once.
		if again := ImageSrc(got); again != got {
			t.Fatalf("ImageSrc not idempotent for %q: %q != %q", tt.in, again, got)
		}
	}
}

func TestLinkHref(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "example.com", want: "https://example.com"},
		{in: "example.com/page?x=1", want: "https://example.com/page?x=1"},
		{in: "example.com:8080/shop", want: "https://example.com:8080/shop"},
		{in: "https://example.com", want: "https://example.com"},
		{in: "http://example.com", want: "http://example.com"},
		{in: "mailto:hi@example.com", want: "mailto:hi@example.com"},
		{in: "tel:+15550100", want: "tel:+15550100"},
		{in: "javascript:alert(1)", want: ""},
		{in: "ftp://example.com", want: ""},
		{in: "has space.com", want: ""},
		{in: "nodots", want: ""},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		if got := LinkHref(tt.in); got != tt.want {
			t.Fatalf("LinkHref(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPriceHref(t *testing.T) {
	if got := PriceHref("buy.stripe.com/abc"); got != "https://buy.stripe.com/abc" {
		t.Fatalf("PriceHref bare domain = %q", got)
	}
	if got := PriceHref("javascript:alert(1)"); got != "" {
		t.Fatalf("PriceHref should reject javascript scheme, got %q", got)
	}
}

func TestTheme(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{name: "known theme", in: "midnight", want: "midnight"},
		{name: "case insensitive", in: "SUNSET", want: "sunset"},
		{name: "legacy dark literal", in: "dark", want: ThemeBaseline},
		{name: "unknown string", in: "bogus", want: ThemeBaseline},
		{name: "legacy object with theme key", in: map[string]any{"theme": "dark"}, want: ThemeBaseline},
		{name: "legacy object with preset", in: map[string]any{"preset": "forest"}, want: "forest"},
		{name: "legacy object with key", in: map[string]any{"key": "neon"}, want: "neon"},
		{name: "object without known keys", in: map[string]any{"color": "#000"}, want: ThemeBaseline},
		{name: "nil", in: nil, want: ThemeBaseline},
		{name: "number", in: 42, want: ThemeBaseline},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Theme(tt.in); got != tt.want {
				t.Fatalf("Theme(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSocial(t *testing.T) {
	in := map[string]any{
		"instagram": "instagram.com/someone",
		"TikTok":    "https://tiktok.com/@someone",
		"myspace":   "https://myspace.com/someone",
		"youtube":   "",
		"twitch":    42,
	}

	got := Social(in)
	if len(got) != 2 {
		t.Fatalf("Social kept %d keys, want 2: %v", len(got), got)
	}
	if got["instagram"] != "https://instagram.com/someone" {
		t.Fatalf("instagram = %q", got["instagram"])
	}
	if got["tiktok"] != "https://tiktok.com/@someone" {
		t.Fatalf("tiktok = %q", got["tiktok"])
	}
}
