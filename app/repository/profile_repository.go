package repository

import (
	"strings"

	"gorm.io/gorm"

	"github.com/launch6/linkinbio-sub000/app/models"
)

// profileRepository implements the ProfileRepository interface
type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository instance
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// Create creates a new profile in the database
func (r *profileRepository) Create(profile *models.Profile) error {
	return r.db.Create(profile).Error
}

// GetByID retrieves a profile by its internal ID
func (r *profileRepository) GetByID(id uint) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.First(&profile, id).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetByEditToken retrieves a profile by its edit token. The token is the
// sole write credential; an empty token short-circuits to not-found so it
// can never match a legacy row with an empty column.
func (r *profileRepository) GetByEditToken(token string) (*models.Profile, error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var profile models.Profile
	err := r.db.Where("edit_token = ?", trimmed).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetBySlug retrieves a profile by its public slug
func (r *profileRepository) GetBySlug(slug string) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.Where("slug = ?", strings.TrimSpace(slug)).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Update updates an existing profile in the database
func (r *profileRepository) Update(profile *models.Profile) error {
	return r.db.Save(profile).Error
}

// UpdateColumns applies a partial column update to a profile by ID
func (r *profileRepository) UpdateColumns(id uint, columns map[string]any) error {
	return r.db.Model(&models.Profile{}).Where("id = ?", id).Updates(columns).Error
}

// SlugExists checks if a slug is already taken
func (r *profileRepository) SlugExists(slug string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Profile{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

// Count returns the total number of profiles
func (r *profileRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Profile{}).Count(&count).Error
	return count, err
}
