package repositories

import (
	"context"

	"gorm.io/gorm"

	"insurehub/internal/adapters/persistence/models"
)

// GormCategoryRepository handles product category data access
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *GormCategoryRepository) WithTx(tx *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: tx}
}

// GetOrCreate returns the category with the given code, creating it if
// it does not exist yet
func (r *GormCategoryRepository) GetOrCreate(ctx context.Context, code, name string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).
		Where(models.Category{Code: code}).
		Attrs(models.Category{Name: name, IsActive: true}).
		FirstOrCreate(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// List lists all active categories
func (r *GormCategoryRepository) List(ctx context.Context) ([]*models.Category, error) {
	var categories []*models.Category
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("code").
		Find(&categories).Error
	return categories, err
}
