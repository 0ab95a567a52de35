package drops

import (
	"strings"
	"testing"
	"time"

	"github.com/launch6/linkinbio-sub000/app/models"
)

func intPtr(v int) *int { return &v }

func timePtr(t time.Time) *time.Time { return &t }

func TestStatusSoldOutPrecedence(t *testing.T) {
	now := time.Now()

	// Sold out always wins, even when the drop window has also passed.
	tests := []struct {
		name    string
		product models.Product
	}{
		{name: "no window", product: models.Product{UnitsLeft: intPtr(0)}},
		{name: "window in future", product: models.Product{UnitsLeft: intPtr(0), DropEndsAt: timePtr(now.Add(time.Hour))}},
		{name: "window in past", product: models.Product{UnitsLeft: intPtr(0), DropEndsAt: timePtr(now.Add(-time.Hour))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			av := Status(&tt.product, now)
			if av.State != StateSoldOut {
				t.Fatalf("state = %q, want sold_out", av.State)
			}
			if av.Purchasable {
				t.Fatalf("sold out product must not be purchasable")
			}
		})
	}
}

func TestStatusEnded(t *testing.T) {
	now := time.Now()
	p := models.Product{DropEndsAt: timePtr(now.Add(-time.Minute)), PriceURL: "https://buy.example.com/p"}

	av := Status(&p, now)
	if av.State != StateEnded {
		t.Fatalf("state = %q, want ended", av.State)
	}
	if av.Purchasable {
		t.Fatalf("ended product must not be purchasable")
	}
	if av.RemainingMs == nil || *av.RemainingMs != 0 {
		t.Fatalf("remaining ms should be exactly 0, got %v", av.RemainingMs)
	}
}

func TestStatusEndedAtExactBoundary(t *testing.T) {
	now := time.Now()
	p := models.Product{DropEndsAt: timePtr(now)}

	if av := Status(&p, now); av.State != StateEnded {
		t.Fatalf("state at exact boundary = %q, want ended", av.State)
	}
}

func TestStatusActiveWithStockAndCountdown(t *testing.T) {
	now := time.Now()
	p := models.Product{
		UnitsLeft:  intPtr(1),
		UnitsTotal: intPtr(5),
		DropEndsAt: timePtr(now.Add(26*time.Hour + 3*time.Minute)),
		PriceURL:   "https://buy.example.com/p",
	}

	av := Status(&p, now)
	if av.State != StateActive {
		t.Fatalf("state = %q, want active", av.State)
	}
	if !av.Purchasable {
		t.Fatalf("active product with checkout url should be purchasable")
	}
	if !strings.Contains(av.Label, "1/5 left") {
		t.Fatalf("label %q should contain the stock fraction", av.Label)
	}
	if !strings.Contains(av.Label, "Ends in") {
		t.Fatalf("label %q should contain a countdown", av.Label)
	}
}

func TestStatusActiveWithoutCheckoutURL(t *testing.T) {
	p := models.Product{UnitsLeft: intPtr(3), UnitsTotal: intPtr(5)}

	av := Status(&p, time.Now())
	if av.State != StateActive {
		t.Fatalf("state = %q, want active", av.State)
	}
	if av.Purchasable {
		t.Fatalf("active product without a checkout url must not offer purchase")
	}
}

func TestStatusBeforeDropStart(t *testing.T) {
	now := time.Now()
	p := models.Product{
		DropStartsAt: timePtr(now.Add(time.Hour)),
		DropEndsAt:   timePtr(now.Add(2 * time.Hour)),
		PriceURL:     "https://buy.example.com/p",
	}

	av := Status(&p, now)
	if av.State != StateActive {
		t.Fatalf("state = %q, want active", av.State)
	}
	if av.Purchasable {
		t.Fatalf("purchase must not open before the drop starts")
	}
}

func TestStatusNullStockUnlimited(t *testing.T) {
	// Null units_left means unlimited stock: never sold out.
	p := models.Product{PriceURL: "https://buy.example.com/p"}

	av := Status(&p, time.Now())
	if av.State != StateActive || !av.Purchasable {
		t.Fatalf("unlimited-stock product should be active and purchasable, got %+v", av)
	}
}

func TestCountdown(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{in: 26*time.Hour + 3*time.Minute + 4*time.Second, want: "1d 2h 3m 4s"},
		{in: 24 * time.Hour, want: "1d 0h 0m 0s"},
		{in: 2*time.Hour + 30*time.Second, want: "2h 0m 30s"},
		{in: 90 * time.Second, want: "1m 30s"},
		{in: 42 * time.Second, want: "42s"},
		{in: 0, want: "ended"},
		{in: -time.Second, want: "ended"},
	}

	for _, tt := range tests {
		if got := Countdown(tt.in); got != tt.want {
			t.Fatalf("Countdown(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
