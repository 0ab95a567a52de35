package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/launch6/linkinbio-sub000/app/models"
)

// webhookEventRepository implements the WebhookEventRepository interface
type webhookEventRepository struct {
	db *gorm.DB
}

// NewWebhookEventRepository creates a new webhook event repository instance
func NewWebhookEventRepository(db *gorm.DB) WebhookEventRepository {
	return &webhookEventRepository{db: db}
}

// RecordOnce inserts the delivery and reports whether it was the first with
// its (provider, provider_event_id) pair. The unique index is the actual
// idempotency guard; a duplicate key is an expected outcome, not an error.
func (r *webhookEventRepository) RecordOnce(event *models.WebhookEvent) (bool, error) {
	err := r.db.Create(event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// MarkProcessed records the processing outcome of a delivery
func (r *webhookEventRepository) MarkProcessed(id uint, processingError string) error {
	now := time.Now()
	return r.db.Model(&models.WebhookEvent{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"processed_at":     &now,
			"processing_error": processingError,
		}).Error
}
