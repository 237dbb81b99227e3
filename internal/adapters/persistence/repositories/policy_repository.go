package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"insurehub/internal/adapters/persistence/models"
	"insurehub/internal/core/domain"
)

// PolicyRepository handles policy data access
type PolicyRepository struct {
	db *gorm.DB
}

// NewPolicyRepository creates a new policy repository
func NewPolicyRepository(db *gorm.DB) *PolicyRepository {
	return &PolicyRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *PolicyRepository) WithTx(tx *gorm.DB) *PolicyRepository {
	return &PolicyRepository{db: tx}
}

// Create creates a new policy
func (r *PolicyRepository) Create(ctx context.Context, policy *models.Policy) error {
	return r.db.WithContext(ctx).Create(policy).Error
}

// GetByID gets a policy by ID with its category
func (r *PolicyRepository) GetByID(ctx context.Context, id uint) (*models.Policy, error) {
	var policy models.Policy
	err := r.db.WithContext(ctx).
		Preload("Category").
		First(&policy, id).Error
	if err != nil {
		return nil, err
	}
	return &policy, nil
}

// GetByIDForUpdate gets a policy by ID with a row-level write lock
func (r *PolicyRepository) GetByIDForUpdate(ctx context.Context, id uint) (*models.Policy, error) {
	var policy models.Policy
	err := forUpdate(r.db.WithContext(ctx)).
		First(&policy, id).Error
	if err != nil {
		return nil, err
	}
	return &policy, nil
}

// GetByApplication looks up the policy issued for an application, if any
func (r *PolicyRepository) GetByApplication(ctx context.Context, ref domain.PolicyRef) (*models.Policy, error) {
	var policy models.Policy
	err := r.db.WithContext(ctx).
		Where("application_id = ? AND application_product = ?", ref.ApplicationID, string(ref.ProductCode)).
		First(&policy).Error
	if err != nil {
		return nil, err
	}
	return &policy, nil
}

// Update updates a policy
func (r *PolicyRepository) Update(ctx context.Context, policy *models.Policy) error {
	return r.db.WithContext(ctx).Save(policy).Error
}

// ListByUser lists a user's policies with pagination
func (r *PolicyRepository) ListByUser(ctx context.Context, userID uint, offset, limit int) ([]*models.Policy, int64, error) {
	var policies []*models.Policy
	var total int64

	r.db.WithContext(ctx).Model(&models.Policy{}).
		Where("user_id = ?", userID).
		Count(&total)

	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&policies).Error

	return policies, total, err
}

// ExpireBefore marks active policies past their end date as expired.
// Returns the number of policies swept.
func (r *PolicyRepository) ExpireBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Policy{}).
		Where("status = ? AND end_date < ?", string(domain.PolicyStatusActive), cutoff).
		Updates(map[string]interface{}{
			"status":    string(domain.PolicyStatusExpired),
			"is_active": false,
		})
	return result.RowsAffected, result.Error
}

// CountActive counts in-force policies
func (r *PolicyRepository) CountActive(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Policy{}).
		Where("status = ?", string(domain.PolicyStatusActive)).
		Count(&total).Error
	return total, err
}
