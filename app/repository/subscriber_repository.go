package repository

import (
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/launch6/linkinbio-sub000/app/models"
)

// subscriberRepository implements the SubscriberRepository interface
type subscriberRepository struct {
	db *gorm.DB
}

// NewSubscriberRepository creates a new subscriber repository instance
func NewSubscriberRepository(db *gorm.DB) SubscriberRepository {
	return &subscriberRepository{db: db}
}

// Upsert creates the (profile, email) pair on first submission and bumps
// updated_at on repeats instead of duplicating the row.
func (r *subscriberRepository) Upsert(profileID uint, email string) error {
	sub := models.Subscriber{
		ProfileID: profileID,
		Email:     strings.ToLower(strings.TrimSpace(email)),
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "profile_id"}, {Name: "email"}},
		DoUpdates: clause.Assignments(map[string]any{"updated_at": time.Now()}),
	}).Create(&sub).Error
}

// CountByProfileID returns the number of captured signups for a profile
func (r *subscriberRepository) CountByProfileID(profileID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Subscriber{}).Where("profile_id = ?", profileID).Count(&count).Error
	return count, err
}
