package models

import "time"

const (
	EVENT_PAGE_VIEW      = "page_view"
	EVENT_BUY_CLICK      = "buy_click"
	EVENT_BEGIN_CHECKOUT = "begin_checkout"
)

// Event is an append-only analytics record. There is no update or delete
// path; reads are aggregate-only.
type Event struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Type      string    `gorm:"type:varchar(40);not null;index" json:"type"`
	ProfileID uint      `gorm:"not null;index" json:"profile_id"`
	Slug      string    `gorm:"type:varchar(80)" json:"slug"`
	ProductID string    `gorm:"type:varchar(64);index" json:"product_id"`
	Ref       string    `gorm:"type:varchar(255)" json:"ref"`
	UserAgent string    `gorm:"type:varchar(255)" json:"ua"`
	IPHash    string    `gorm:"type:varchar(64)" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

// IsValidEventType reports whether t is one of the accepted event types.
func IsValidEventType(t string) bool {
	switch t {
	case EVENT_PAGE_VIEW, EVENT_BUY_CLICK, EVENT_BEGIN_CHECKOUT:
		return true
	default:
		return false
	}
}
