package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Subscriber records one captured email per profile. Repeat submissions for
// the same (profile, email) pair update the existing row instead of creating
// a duplicate.
type Subscriber struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProfileID uint      `gorm:"not null;index:ux_subscribers_profile_email,unique,priority:1" json:"profile_id"`
	Email     string    `gorm:"type:varchar(200) CHARACTER SET utf8 COLLATE utf8_bin;not null;index:ux_subscribers_profile_email,unique,priority:2" json:"email" validate:"required,email,min=5,max=200"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (s *Subscriber) Validate() error {
	v := validator.New()

	return v.Struct(s)
}
