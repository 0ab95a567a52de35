package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func TestClampStock(t *testing.T) {
	tests := []struct {
		name      string
		total     *int
		left      *int
		wantTotal *int
		wantLeft  *int
	}{
		{name: "nil stock stays nil", total: nil, left: nil, wantTotal: nil, wantLeft: nil},
		{name: "left above total clamps down", total: intPtr(5), left: intPtr(9), wantTotal: intPtr(5), wantLeft: intPtr(5)},
		{name: "negative left clamps to zero", total: intPtr(5), left: intPtr(-3), wantTotal: intPtr(5), wantLeft: intPtr(0)},
		{name: "negative total clamps to zero", total: intPtr(-1), left: intPtr(2), wantTotal: intPtr(0), wantLeft: intPtr(0)},
		{name: "left without total untouched", total: nil, left: intPtr(4), wantTotal: nil, wantLeft: intPtr(4)},
		{name: "valid range untouched", total: intPtr(10), left: intPtr(3), wantTotal: intPtr(10), wantLeft: intPtr(3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Product{UnitsTotal: tt.total, UnitsLeft: tt.left}
			p.ClampStock()
			assert.Equal(t, tt.wantTotal, p.UnitsTotal)
			assert.Equal(t, tt.wantLeft, p.UnitsLeft)
		})
	}
}

func TestIsPublished(t *testing.T) {
	assert.True(t, (&Product{}).IsPublished(), "missing flag defaults to visible")
	assert.True(t, (&Product{Published: boolPtr(true)}).IsPublished())
	assert.False(t, (&Product{Published: boolPtr(false)}).IsPublished())
}

func TestEmailCaptureActive(t *testing.T) {
	p := Profile{CollectEmail: true, KlaviyoEnabled: true, KlaviyoListID: "abc123"}
	assert.True(t, p.EmailCaptureActive())

	p.KlaviyoListID = ""
	assert.False(t, p.EmailCaptureActive())

	p.KlaviyoListID = "abc123"
	p.KlaviyoEnabled = false
	assert.False(t, p.EmailCaptureActive())
}
