package repositories

import (
	"context"

	"gorm.io/gorm"

	"insurehub/internal/adapters/persistence/models"
)

// ApplicationRepository handles application data access
type ApplicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *ApplicationRepository) WithTx(tx *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: tx}
}

// Create creates a new application
func (r *ApplicationRepository) Create(ctx context.Context, app *models.Application) error {
	return r.db.WithContext(ctx).Create(app).Error
}

// GetByID gets an application by ID
func (r *ApplicationRepository) GetByID(ctx context.Context, id uint) (*models.Application, error) {
	var app models.Application
	err := r.db.WithContext(ctx).First(&app, id).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// GetByIDForUpdate gets an application by ID with a row-level write
// lock. Prevents the same application from being paid twice.
func (r *ApplicationRepository) GetByIDForUpdate(ctx context.Context, id uint) (*models.Application, error) {
	var app models.Application
	err := forUpdate(r.db.WithContext(ctx)).
		First(&app, id).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// Update updates an application
func (r *ApplicationRepository) Update(ctx context.Context, app *models.Application) error {
	return r.db.WithContext(ctx).Save(app).Error
}

// ListByUser lists a user's applications with pagination
func (r *ApplicationRepository) ListByUser(ctx context.Context, userID uint, offset, limit int) ([]*models.Application, int64, error) {
	var apps []*models.Application
	var total int64

	r.db.WithContext(ctx).Model(&models.Application{}).
		Where("user_id = ?", userID).
		Count(&total)

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&apps).Error

	return apps, total, err
}

// CountByStatus counts applications grouped by status
func (r *ApplicationRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string
		Total  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&models.Application{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, rw := range rows {
		counts[rw.Status] = rw.Total
	}
	return counts, nil
}
