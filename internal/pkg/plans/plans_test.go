package plans

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want Plan
	}{
		{in: "free", want: PlanFree},
		{in: "starter", want: PlanStarter},
		{in: "pro", want: PlanPro},
		{in: "PRO", want: PlanPro},
		{in: "premium", want: PlanFree},
		{in: "", want: PlanFree},
	}

	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRank(t *testing.T) {
	if Rank(PlanFree) >= Rank(PlanStarter) {
		t.Fatalf("expected starter to outrank free")
	}
	if Rank(PlanStarter) >= Rank(PlanPro) {
		t.Fatalf("expected pro to outrank starter")
	}
}

func TestStepDown(t *testing.T) {
	if got := StepDown(PlanPro); got != PlanStarter {
		t.Fatalf("StepDown(pro) = %q, want starter", got)
	}
	if got := StepDown(PlanStarter); got != PlanFree {
		t.Fatalf("StepDown(starter) = %q, want free", got)
	}
	if got := StepDown(PlanFree); got != PlanFree {
		t.Fatalf("StepDown(free) = %q, want free", got)
	}
}

func TestValidateLinks(t *testing.T) {
	// Six links exceed the free quota of five but fit on starter.
	if err := ValidateLinks(PlanFree, 6); err == nil {
		t.Fatalf("expected free plan to reject 6 links")
	} else if !strings.Contains(err.Error(), "at most 5 links") {
		t.Fatalf("expected a quota-specific reason, got %q", err.Error())
	}
	if err := ValidateLinks(PlanStarter, 6); err != nil {
		t.Fatalf("expected starter plan to accept 6 links, got %v", err)
	}
	if err := ValidateLinks(PlanFree, 5); err != nil {
		t.Fatalf("expected free plan to accept 5 links, got %v", err)
	}
}

func TestValidateEmailCapture(t *testing.T) {
	if err := ValidateEmailCapture(PlanFree, true); err == nil {
		t.Fatalf("expected free plan to reject email capture")
	}
	if err := ValidateEmailCapture(PlanFree, false); err != nil {
		t.Fatalf("capture left off should always pass, got %v", err)
	}
	if err := ValidateEmailCapture(PlanStarter, true); err != nil {
		t.Fatalf("expected starter plan to allow email capture, got %v", err)
	}
}

func TestValidateProducts(t *testing.T) {
	tooMany := make([]ProductImages, 4)
	if err := ValidateProducts(PlanFree, tooMany); err == nil {
		t.Fatalf("expected free plan to reject 4 products")
	}

	tests := []struct {
		name     string
		plan     Plan
		products []ProductImages
		wantPart string
	}{
		{
			name:     "too many images for plan",
			plan:     PlanFree,
			products: []ProductImages{{ProductTitle: "Tee", Images: []string{"https://x.com/a.png", "https://x.com/b.png"}}},
			wantPart: "allows 1 per product",
		},
		{
			name:     "image without url",
			plan:     PlanStarter,
			products: []ProductImages{{ProductTitle: "Tee", Images: []string{"  "}}},
			wantPart: "without a URL",
		},
		{
			name:     "bad extension",
			plan:     PlanStarter,
			products: []ProductImages{{ProductTitle: "Tee", Images: []string{"https://x.com/a.exe"}}},
			wantPart: "unsupported extension",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProducts(tt.plan, tt.products)
			if err == nil {
				t.Fatalf("expected rejection")
			}
			if !strings.Contains(err.Error(), tt.wantPart) {
				t.Fatalf("error %q does not mention %q", err.Error(), tt.wantPart)
			}
		})
	}

	ok := []ProductImages{
		{ProductTitle: "Tee", Images: []string{"https://x.com/a.png", "https://x.com/b.jpg"}},
		{ProductTitle: "Hat", Images: []string{"data:image/png;base64,iVBORw0KGgo="}},
	}
	if err := ValidateProducts(PlanStarter, ok); err != nil {
		t.Fatalf("expected valid payload to pass, got %v", err)
	}
}

func TestImageExtensionAllowed(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{in: "https://x.com/a.png", want: true},
		{in: "https://x.com/a.JPG", want: true},
		{in: "https://x.com/a.webp?v=2", want: true},
		{in: "data:image/gif;base64,R0lGOD=", want: true},
		{in: "https://x.com/a.exe", want: false},
		{in: "https://x.com/a", want: false},
	}

	for _, tt := range tests {
		if got := ImageExtensionAllowed(tt.in); got != tt.want {
			t.Fatalf("ImageExtensionAllowed(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
