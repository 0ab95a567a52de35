package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/launch6/linkinbio-sub000/app/models"
)

// ProfileRepository defines the interface for profile-related database operations
type ProfileRepository interface {
	Create(profile *models.Profile) error
	GetByID(id uint) (*models.Profile, error)
	GetByEditToken(token string) (*models.Profile, error)
	GetBySlug(slug string) (*models.Profile, error)
	Update(profile *models.Profile) error
	UpdateColumns(id uint, columns map[string]any) error
	SlugExists(slug string) (bool, error)
	Count() (int64, error)
}

// ReserveResult reports the outcome of a conditional stock update. Matched
// and Modified can legitimately differ: an idempotent restore to the current
// value matches a row without changing it.
type ReserveResult struct {
	Matched  int64 `json:"matched"`
	Modified int64 `json:"modified"`
}

// ProductRepository defines the interface for product-related database
// operations, including the atomic reservation path.
type ProductRepository interface {
	ListByProfileID(profileID uint) ([]models.Product, error)
	GetByPublicID(profileID uint, publicID string) (*models.Product, error)
	ReplaceAll(profileID uint, products []models.Product) error
	CountByProfileID(profileID uint) (int64, error)

	// ReserveUnit decrements units_left by one for the product owned by the
	// profile with the given edit token, as a single conditional update.
	// Wrong token, wrong product id, null stock or exhausted stock all
	// surface as a zero-match no-op, never as an error.
	ReserveUnit(editToken, publicID string) (ReserveResult, error)

	// RestoreUnit sets units_left to an explicit non-negative value, clamped
	// to units_total when one is set.
	RestoreUnit(editToken, publicID string, unitsLeft int) (ReserveResult, error)
}

// SubscriberRepository defines the interface for captured email signups.
type SubscriberRepository interface {
	Upsert(profileID uint, email string) error
	CountByProfileID(profileID uint) (int64, error)
}

// EventStat is one aggregated row of the analytics rollup.
type EventStat struct {
	ProductID string    `json:"product_id"`
	Type      string    `json:"type"`
	Count     int64     `json:"count"`
	LastSeen  time.Time `json:"last_seen"`
}

// EventRepository defines the interface for the append-only event sink.
type EventRepository interface {
	Create(event *models.Event) error
	AggregateByProfileID(profileID uint) ([]EventStat, error)
}

// WebhookEventRepository defines the interface for idempotent webhook intake.
type WebhookEventRepository interface {
	// RecordOnce inserts the event and reports whether this delivery was the
	// first with its (provider, provider_event_id) pair.
	RecordOnce(event *models.WebhookEvent) (bool, error)
	MarkProcessed(id uint, processingError string) error
}

// Repositories holds all repository instances
type Repositories struct {
	Profile      ProfileRepository
	Product      ProductRepository
	Subscriber   SubscriberRepository
	Event        EventRepository
	WebhookEvent WebhookEventRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Profile:      NewProfileRepository(db),
		Product:      NewProductRepository(db),
		Subscriber:   NewSubscriberRepository(db),
		Event:        NewEventRepository(db),
		WebhookEvent: NewWebhookEventRepository(db),
	}
}
