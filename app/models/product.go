package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Product is one drop entry of a profile. Products live in their own table
// keyed by (profile_id, public_id) so stock mutations are plain single-row
// conditional updates instead of positional array element matches.
type Product struct {
	ID           uint           `gorm:"primaryKey" json:"-"`
	ProfileID    uint           `gorm:"not null;index:ux_products_profile_public,unique,priority:1" json:"-"`
	PublicID     string         `gorm:"type:varchar(64);not null;index:ux_products_profile_public,unique,priority:2" json:"id"`
	Title        string         `gorm:"type:varchar(200)" json:"title"`
	PriceURL     string         `gorm:"type:varchar(2048)" json:"price_url"`
	ImageURL     string         `gorm:"type:varchar(2048)" json:"image_url"`
	Images       datatypes.JSON `gorm:"type:json" json:"images"`
	DropStartsAt *time.Time     `gorm:"type:timestamp;default:null" json:"drop_starts_at,omitempty"`
	DropEndsAt   *time.Time     `gorm:"type:timestamp;default:null" json:"drop_ends_at,omitempty"`
	UnitsTotal   *int           `json:"units_total,omitempty"`
	UnitsLeft    *int           `json:"units_left,omitempty"`
	Published    *bool          `json:"published,omitempty"`
	Position     int            `gorm:"default:0" json:"position"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsPublished treats a missing flag as visible; legacy documents predate the
// published field.
func (p *Product) IsPublished() bool {
	return p.Published == nil || *p.Published
}

// ClampStock enforces 0 <= units_left <= units_total on write. Values are
// clamped, never rejected, so stale documents converge instead of erroring.
func (p *Product) ClampStock() {
	if p.UnitsTotal != nil && *p.UnitsTotal < 0 {
		zero := 0
		p.UnitsTotal = &zero
	}
	if p.UnitsLeft == nil {
		return
	}
	left := *p.UnitsLeft
	if left < 0 {
		left = 0
	}
	if p.UnitsTotal != nil && left > *p.UnitsTotal {
		left = *p.UnitsTotal
	}
	p.UnitsLeft = &left
}

// DecodeImages unpacks the JSON images column; malformed values decode empty.
func (p *Product) DecodeImages() []string {
	if len(p.Images) == 0 {
		return nil
	}
	var images []string
	if err := json.Unmarshal(p.Images, &images); err != nil {
		return nil
	}
	return images
}

// EncodeImages serializes an image URL list into the JSON column.
func EncodeImages(images []string) datatypes.JSON {
	b, err := json.Marshal(images)
	if err != nil {
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(b)
}
