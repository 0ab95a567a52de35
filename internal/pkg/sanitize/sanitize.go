// Package sanitize cleans every value that crosses the public boundary:
// text served to anonymous visitors and input accepted from low-trust
// callers. All functions are pure and never return an error; unacceptable
// input collapses to the empty string or the baseline default.
package sanitize

import (
	"regexp"
	"strings"
	"unicode"
)

// ThemeBaseline is the fallback for any unrecognized or legacy theme value.
const ThemeBaseline = "classic"

// knownThemes is the closed set of accepted theme identifiers.
var knownThemes = map[string]bool{
	"classic":  true,
	"midnight": true,
	"sunset":   true,
	"forest":   true,
	"neon":     true,
}

// socialPlatforms is the fixed allow-list of social keys served publicly.
var socialPlatforms = map[string]bool{
	"instagram": true,
	"tiktok":    true,
	"youtube":   true,
	"twitter":   true,
	"x":         true,
	"facebook":  true,
	"linkedin":  true,
	"twitch":    true,
	"spotify":   true,
	"pinterest": true,
	"threads":   true,
	"snapchat":  true,
	"website":   true,
}

var dataImageRe = regexp.MustCompile(`^data:image/(jpeg|jpg|png|webp|gif)[;,]`)

// ClampText strips ASCII control characters and angle brackets, trims
// surrounding whitespace and truncates to maxLen runes. Applied to every
// free-text field rendered publicly.
func ClampText(value string, maxLen int) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		if r < 0x20 || r == 0x7F || r == '<' || r == '>' {
			continue
		}
		b.WriteRune(r)
	}
	out := strings.TrimSpace(b.String())
	if maxLen >= 0 {
		runes := []rune(out)
		if len(runes) > maxLen {
			out = strings.TrimSpace(string(runes[:maxLen]))
		}
	}
	return out
}

// ImageSrc accepts an absolute http(s) URL, a root-relative path or a
// data:image URI with an allow-listed subtype. Everything else, including
// javascript: and malformed data URIs, is rejected to the empty string.
// Idempotent: accepted values pass unchanged.
func ImageSrc(value string) string {
	v := strings.TrimSpace(value)
	if v == "" || containsSpace(v) {
		return ""
	}
	lower := strings.ToLower(v)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return v
	}
	if strings.HasPrefix(v, "/") && !strings.HasPrefix(v, "//") {
		return v
	}
	if dataImageRe.MatchString(lower) {
		return v
	}
	return ""
}

// LinkHref normalizes an outbound link. Bare domains get an https:// prefix,
// mailto:/tel:/http(s) pass through, anything else is rejected. A colon only
// reads as a scheme separator when the prefix before it has no dot; a dotted
// prefix is part of a domain (e.g. a host:port value).
func LinkHref(value string) string {
	v := strings.TrimSpace(value)
	if v == "" || containsSpace(v) {
		return ""
	}
	lower := strings.ToLower(v)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return v
	case strings.HasPrefix(lower, "mailto:"), strings.HasPrefix(lower, "tel:"):
		return v
	}
	if i := strings.Index(v, ":"); i >= 0 && !strings.Contains(v[:i], ".") {
		return ""
	}
	if strings.Contains(v, ".") {
		return "https://" + v
	}
	return ""
}

// PriceHref sanitizes a hosted-checkout URL with the same policy as links.
func PriceHref(value string) string {
	return LinkHref(value)
}

// Theme coerces any stored theme value into the closed identifier set.
// Legacy documents carry either an object with a key/preset/theme field or
// the literal "dark"; both map to the baseline. Never errors.
func Theme(value any) string {
	switch v := value.(type) {
	case string:
		t := strings.ToLower(strings.TrimSpace(v))
		if t == "dark" {
			return ThemeBaseline
		}
		if knownThemes[t] {
			return t
		}
		return ThemeBaseline
	case map[string]any:
		for _, key := range []string{"key", "preset", "theme"} {
			if inner, ok := v[key]; ok {
				return Theme(inner)
			}
		}
		return ThemeBaseline
	default:
		return ThemeBaseline
	}
}

// Social keeps only allow-listed platform keys with usable URL values.
func Social(value map[string]any) map[string]string {
	out := map[string]string{}
	for key, raw := range value {
		k := strings.ToLower(strings.TrimSpace(key))
		if !socialPlatforms[k] {
			continue
		}
		s, ok := raw.(string)
		if !ok {
			continue
		}
		href := LinkHref(s)
		if href == "" {
			continue
		}
		out[k] = href
	}
	return out
}

func containsSpace(s string) bool {
	return strings.IndexFunc(s, unicode.IsSpace) >= 0
}
