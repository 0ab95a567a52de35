// Package drops computes the visitor-facing availability of a product. The
// state is derived from stock and the drop window on every read; no stored
// status field is ever trusted.
package drops

import (
	"fmt"
	"strings"
	"time"

	"github.com/launch6/linkinbio-sub000/app/models"
)

type State string

const (
	StateActive  State = "active"
	StateSoldOut State = "sold_out"
	StateEnded   State = "ended"
)

// Availability is the derived, per-read snapshot of one product.
type Availability struct {
	State       State  `json:"state"`
	Purchasable bool   `json:"purchasable"`
	Label       string `json:"label,omitempty"`
	RemainingMs *int64 `json:"remaining_ms,omitempty"`
}

// Status evaluates the availability policy in precedence order: sold-out
// wins over ended, ended wins over active. A purchase link is only offered
// on an active product with a checkout URL whose drop has started. Pure;
// re-evaluated on every poll.
func Status(p *models.Product, now time.Time) Availability {
	var remainingMs *int64
	if p.DropEndsAt != nil {
		ms := p.DropEndsAt.Sub(now).Milliseconds()
		if ms < 0 {
			ms = 0
		}
		remainingMs = &ms
	}

	if p.UnitsLeft != nil && *p.UnitsLeft <= 0 {
		return Availability{
			State:       StateSoldOut,
			Purchasable: false,
			Label:       composeLabel(p, remainingMs, false),
			RemainingMs: remainingMs,
		}
	}

	if remainingMs != nil && *remainingMs == 0 {
		return Availability{
			State:       StateEnded,
			Purchasable: false,
			Label:       composeLabel(p, remainingMs, false),
			RemainingMs: remainingMs,
		}
	}

	started := p.DropStartsAt == nil || !now.Before(*p.DropStartsAt)
	return Availability{
		State:       StateActive,
		Purchasable: started && strings.TrimSpace(p.PriceURL) != "",
		Label:       composeLabel(p, remainingMs, true),
		RemainingMs: remainingMs,
	}
}

// composeLabel builds the human line: "L/T left" when both counts are known,
// with the countdown appended while the drop is still running.
func composeLabel(p *models.Product, remainingMs *int64, running bool) string {
	var parts []string
	if p.UnitsLeft != nil && p.UnitsTotal != nil {
		parts = append(parts, fmt.Sprintf("%d/%d left", *p.UnitsLeft, *p.UnitsTotal))
	}
	if remainingMs != nil && running && *remainingMs > 0 {
		parts = append(parts, "Ends in "+Countdown(time.Duration(*remainingMs)*time.Millisecond))
	}
	return strings.Join(parts, " — ")
}

// Countdown renders a remaining duration as "Xd Yh Zm Ws", starting at the
// largest non-zero unit with seconds always shown. Zero or negative renders
// the literal "ended".
func Countdown(remaining time.Duration) string {
	if remaining <= 0 {
		return "ended"
	}

	total := int64(remaining.Seconds())
	days := total / 86400
	hours := (total % 86400) / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}
