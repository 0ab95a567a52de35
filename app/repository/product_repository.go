package repository

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/launch6/linkinbio-sub000/app/models"
)

// productRepository implements the ProductRepository interface
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository instance
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

// ListByProfileID returns all products of a profile in display order
func (r *productRepository) ListByProfileID(profileID uint) ([]models.Product, error) {
	var products []models.Product
	err := r.db.Where("profile_id = ?", profileID).Order("position ASC, id ASC").Find(&products).Error
	return products, err
}

// GetByPublicID retrieves one product of a profile by its stable public id
func (r *productRepository) GetByPublicID(profileID uint, publicID string) (*models.Product, error) {
	var product models.Product
	err := r.db.Where("profile_id = ? AND public_id = ?", profileID, publicID).First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ReplaceAll substitutes the entire product list of a profile in one
// transaction. The write API replaces the catalog wholesale; in-place
// mutation is reserved for the reservation path.
func (r *productRepository) ReplaceAll(profileID uint, products []models.Product) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("profile_id = ?", profileID).Delete(&models.Product{}).Error; err != nil {
			return fmt.Errorf("failed to clear products for profile %d: %w", profileID, err)
		}
		for i := range products {
			products[i].ID = 0
			products[i].ProfileID = profileID
			products[i].Position = i
		}
		if len(products) == 0 {
			return nil
		}
		if err := tx.Create(&products).Error; err != nil {
			return fmt.Errorf("failed to insert products for profile %d: %w", profileID, err)
		}
		return nil
	})
}

// CountByProfileID returns the number of products owned by a profile
func (r *productRepository) CountByProfileID(profileID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Product{}).Where("profile_id = ?", profileID).Count(&count).Error
	return count, err
}

// ReserveUnit commits one sale by decrementing units_left. Ownership check
// and stock guard live in the same conditional statement, so concurrent
// reservations serialize in the database and units_left can never go
// negative: once it reaches zero the predicate stops matching. A null
// units_left means unlimited stock and never matches either.
func (r *productRepository) ReserveUnit(editToken, publicID string) (ReserveResult, error) {
	token := strings.TrimSpace(editToken)
	id := strings.TrimSpace(publicID)
	if token == "" || id == "" {
		return ReserveResult{}, nil
	}

	res := r.db.Exec(
		`UPDATE products p
		 INNER JOIN profiles pr ON pr.id = p.profile_id
		 SET p.units_left = p.units_left - 1
		 WHERE pr.edit_token = ?
		   AND p.public_id = ?
		   AND p.units_left IS NOT NULL
		   AND p.units_left >= 1`,
		token, id,
	)
	if res.Error != nil {
		return ReserveResult{}, res.Error
	}
	// The >= 1 guard makes every matched row a modified row.
	return ReserveResult{Matched: res.RowsAffected, Modified: res.RowsAffected}, nil
}

// RestoreUnit sets units_left to an explicit value for manual stock entry or
// failed-fulfillment compensation. The value is clamped to units_total in
// the same statement. Negative input is rejected by the caller before it
// reaches this method; the guard here is a backstop.
func (r *productRepository) RestoreUnit(editToken, publicID string, unitsLeft int) (ReserveResult, error) {
	token := strings.TrimSpace(editToken)
	id := strings.TrimSpace(publicID)
	if token == "" || id == "" || unitsLeft < 0 {
		return ReserveResult{}, nil
	}

	res := r.db.Exec(
		`UPDATE products p
		 INNER JOIN profiles pr ON pr.id = p.profile_id
		 SET p.units_left = LEAST(?, COALESCE(p.units_total, ?))
		 WHERE pr.edit_token = ? AND p.public_id = ?`,
		unitsLeft, unitsLeft, token, id,
	)
	if res.Error != nil {
		return ReserveResult{}, res.Error
	}

	// MySQL reports changed rows, not matched rows. Setting units_left to
	// its current value is a legitimate idempotent retry, so a zero count
	// needs a follow-up existence check to tell matched-unchanged apart
	// from not-found.
	matched := res.RowsAffected
	if matched == 0 {
		var count int64
		err := r.db.Model(&models.Product{}).
			Joins("INNER JOIN profiles pr ON pr.id = products.profile_id").
			Where("pr.edit_token = ? AND products.public_id = ?", token, id).
			Count(&count).Error
		if err != nil {
			return ReserveResult{}, err
		}
		matched = count
		if matched > 1 {
			matched = 1
		}
	}
	return ReserveResult{Matched: matched, Modified: res.RowsAffected}, nil
}
