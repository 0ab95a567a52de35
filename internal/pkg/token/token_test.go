package token

import (
	"strings"
	"testing"
)

func TestNewEditToken(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		tok, err := NewEditToken()
		if err != nil {
			t.Fatalf("NewEditToken failed: %v", err)
		}
		if len(tok) != EditTokenLength {
			t.Fatalf("token length = %d, want %d", len(tok), EditTokenLength)
		}
		for _, r := range tok {
			if !strings.ContainsRune(alphabet, r) {
				t.Fatalf("token %q contains non-alphabet rune %q", tok, r)
			}
		}
		if seen[tok] {
			t.Fatalf("duplicate token generated: %q", tok)
		}
		seen[tok] = true
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Jane Doe", want: "jane-doe"},
		{in: "  JANE!! doe  ", want: "jane-doe"},
		{in: "café & crème", want: "caf-cr-me"},
		{in: "already-fine-123", want: "already-fine-123"},
	}

	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Fatalf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	// Unusable input falls back to a random slug rather than an empty one.
	if got := Slugify("!!!"); got == "" {
		t.Fatalf("Slugify of symbols should not be empty")
	}
}

func TestWithSuffix(t *testing.T) {
	got, err := WithSuffix("jane-doe")
	if err != nil {
		t.Fatalf("WithSuffix failed: %v", err)
	}
	if !strings.HasPrefix(got, "jane-doe-") {
		t.Fatalf("suffixed slug %q should keep its base", got)
	}
	if len(got) != len("jane-doe-")+SlugSuffixLength {
		t.Fatalf("unexpected suffixed length: %q", got)
	}
}
