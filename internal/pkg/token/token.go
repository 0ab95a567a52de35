// Package token mints the two external identifiers a profile carries: the
// opaque edit token (write credential) and the public slug.
package token

import (
	"crypto/rand"
	"fmt"
	"strings"
)

// Alphabet for Base62 output (62 characters: 0-9, a-z, A-Z)
const alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// EditTokenLength is long enough that guessing a token is not meaningfully
// easier than guessing a 128-bit key.
const EditTokenLength = 40

// SlugSuffixLength pads generated slugs on collision.
const SlugSuffixLength = 4

// randomBase62 creates a cryptographically secure random Base62 string.
func randomBase62(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("invalid token length: %d", length)
	}

	// Rejection sampling to avoid modulo bias.
	// 248 is the largest multiple of 62 below 256.
	const maxRandomByte = 248

	out := make([]byte, length)
	buf := make([]byte, length*2)
	written := 0

	for written < length {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to read secure random bytes: %w", err)
		}

		for _, b := range buf {
			if b >= maxRandomByte {
				continue
			}
			out[written] = alphabet[int(b)%len(alphabet)]
			written++
			if written == length {
				break
			}
		}
	}

	return string(out), nil
}

// NewEditToken mints a fresh write credential.
func NewEditToken() (string, error) {
	return randomBase62(EditTokenLength)
}

// RandomSlug mints a short random public slug.
func RandomSlug(length int) (string, error) {
	s, err := randomBase62(length)
	return strings.ToLower(s), err
}

// Slugify turns a display name into a public slug candidate: lowercase,
// non-alphanumerics collapsed to single dashes, trimmed. Empty input falls
// back to a random slug.
func Slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	slug := strings.Trim(b.String(), "-")
	if len(slug) > 60 {
		slug = strings.Trim(slug[:60], "-")
	}
	if slug == "" {
		s, err := RandomSlug(8)
		if err != nil {
			return "creator"
		}
		return s
	}
	// Slugs shorter than the minimum get padded so they stay valid.
	if len(slug) < 3 {
		suffix, err := RandomSlug(SlugSuffixLength)
		if err != nil {
			return slug + "-page"
		}
		return slug + "-" + suffix
	}
	return slug
}

// WithSuffix appends a short random suffix for collision retries.
func WithSuffix(slug string) (string, error) {
	suffix, err := RandomSlug(SlugSuffixLength)
	if err != nil {
		return "", err
	}
	return slug + "-" + suffix, nil
}
