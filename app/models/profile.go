package models

import (
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/datatypes"
)

const (
	STATUS_ACTIVE   = "active"
	STATUS_INACTIVE = "inactive"
)

// Profile is the root entity for a creator page. The edit token is the sole
// write credential and is never rotated; the slug is the public lookup key.
type Profile struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	EditToken       string         `gorm:"uniqueIndex;type:varchar(64) CHARACTER SET utf8 COLLATE utf8_bin;not null" json:"-" validate:"required,min=16,max=64"`
	Slug            string         `gorm:"uniqueIndex;type:varchar(80) CHARACTER SET utf8 COLLATE utf8_bin;not null" json:"slug" validate:"required,min=3,max=80"`
	Plan            string         `gorm:"type:varchar(20);default:'free'" json:"plan"`
	PlanExpiresAt   *time.Time     `gorm:"type:timestamp;default:null" json:"plan_expires_at,omitempty"`
	DisplayName     string         `gorm:"type:varchar(150)" json:"display_name" validate:"max=150"`
	Bio             string         `gorm:"type:text" json:"bio" validate:"max=1000"`
	AvatarURL       string         `gorm:"type:varchar(2048)" json:"avatar_url"`
	Theme           string         `gorm:"type:varchar(40);default:'classic'" json:"theme"`
	Social          datatypes.JSON `gorm:"type:json" json:"social"`
	Links           datatypes.JSON `gorm:"type:json" json:"links"`
	CollectEmail    bool           `gorm:"default:false" json:"collect_email"`
	KlaviyoListID   string         `gorm:"type:varchar(100)" json:"-"`
	KlaviyoEnabled  bool           `gorm:"default:false" json:"klaviyo_enabled"`
	Status          string         `gorm:"type:varchar(50);default:'active'" json:"status"`
	StripeAccountID string         `gorm:"type:varchar(100)" json:"-"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`

	Products []Product `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE" json:"products,omitempty"`
}

// Link is one entry of the ordered links list stored in Profile.Links.
type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

func (p *Profile) Validate() error {
	v := validator.New()

	return v.Struct(p)
}

// DecodeLinks unpacks the JSON links column. Legacy documents may carry null
// or a malformed value; both decode to an empty list rather than an error.
func (p *Profile) DecodeLinks() []Link {
	if len(p.Links) == 0 {
		return nil
	}
	var links []Link
	if err := json.Unmarshal(p.Links, &links); err != nil {
		return nil
	}
	return links
}

// DecodeSocial unpacks the JSON social column into a platform -> URL map.
func (p *Profile) DecodeSocial() map[string]string {
	if len(p.Social) == 0 {
		return nil
	}
	var social map[string]string
	if err := json.Unmarshal(p.Social, &social); err != nil {
		return nil
	}
	return social
}

// EncodeLinks serializes a links list into the JSON column.
func EncodeLinks(links []Link) datatypes.JSON {
	b, err := json.Marshal(links)
	if err != nil {
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(b)
}

// EncodeSocial serializes a social map into the JSON column.
func EncodeSocial(social map[string]string) datatypes.JSON {
	b, err := json.Marshal(social)
	if err != nil {
		return datatypes.JSON("{}")
	}
	return datatypes.JSON(b)
}

// EmailCaptureActive reports whether the profile is configured to collect
// signups. The plan gate is enforced separately by the caller.
func (p *Profile) EmailCaptureActive() bool {
	return p.CollectEmail && p.KlaviyoEnabled && p.KlaviyoListID != ""
}
