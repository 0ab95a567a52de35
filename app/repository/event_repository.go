package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/launch6/linkinbio-sub000/app/models"
)

// eventRepository implements the EventRepository interface
type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new event repository instance
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

// Create appends one event. Callers treat failures as best-effort: an event
// that cannot be stored is logged and dropped, never surfaced to visitors.
func (r *eventRepository) Create(event *models.Event) error {
	return r.db.Create(event).Error
}

// AggregateByProfileID rolls up events per (product, type): count and most
// recent timestamp, busiest rows first, recency as tie-breaker.
func (r *eventRepository) AggregateByProfileID(profileID uint) ([]EventStat, error) {
	// parseTime=True in the DSN makes MAX(created_at) scan directly into
	// time.Time.
	var results []struct {
		ProductID string    `json:"product_id"`
		Type      string    `json:"type"`
		Count     int64     `json:"count"`
		LastSeen  time.Time `json:"last_seen"`
	}

	err := r.db.Model(&models.Event{}).
		Select("product_id, type, COUNT(*) as count, MAX(created_at) as last_seen").
		Where("profile_id = ?", profileID).
		Group("product_id, type").
		Order("count DESC, last_seen DESC").
		Find(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate events for profile %d: %w", profileID, err)
	}

	stats := make([]EventStat, len(results))
	for i, result := range results {
		stats[i] = EventStat{
			ProductID: result.ProductID,
			Type:      result.Type,
			Count:     result.Count,
			LastSeen:  result.LastSeen,
		}
	}
	return stats, nil
}
