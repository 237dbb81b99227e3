package repositories

import (
	"context"

	"gorm.io/gorm"

	"insurehub/internal/adapters/persistence/models"
)

// PackageRepository handles package and link data access
type PackageRepository struct {
	db *gorm.DB
}

// NewPackageRepository creates a new package repository
func NewPackageRepository(db *gorm.DB) *PackageRepository {
	return &PackageRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *PackageRepository) WithTx(tx *gorm.DB) *PackageRepository {
	return &PackageRepository{db: tx}
}

// Create creates a new package
func (r *PackageRepository) Create(ctx context.Context, pkg *models.InsurancePackage) error {
	return r.db.WithContext(ctx).Create(pkg).Error
}

// GetByID gets a package by ID with its links
func (r *PackageRepository) GetByID(ctx context.Context, id uint) (*models.InsurancePackage, error) {
	var pkg models.InsurancePackage
	err := r.db.WithContext(ctx).
		Preload("Links").
		First(&pkg, id).Error
	if err != nil {
		return nil, err
	}
	return &pkg, nil
}

// GetByIDForUpdate gets a package by ID with a row-level write lock.
// Serializes concurrent pay and cancel attempts on the same package.
func (r *PackageRepository) GetByIDForUpdate(ctx context.Context, id uint) (*models.InsurancePackage, error) {
	var pkg models.InsurancePackage
	err := forUpdate(r.db.WithContext(ctx)).
		First(&pkg, id).Error
	if err != nil {
		return nil, err
	}
	return &pkg, nil
}

// Update updates a package
func (r *PackageRepository) Update(ctx context.Context, pkg *models.InsurancePackage) error {
	return r.db.WithContext(ctx).Save(pkg).Error
}

// UpdateStatus updates only the status column of a package
func (r *PackageRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.InsurancePackage{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// ListByUser lists a user's packages with pagination
func (r *PackageRepository) ListByUser(ctx context.Context, userID uint, offset, limit int) ([]*models.InsurancePackage, int64, error) {
	var pkgs []*models.InsurancePackage
	var total int64

	r.db.WithContext(ctx).Model(&models.InsurancePackage{}).
		Where("user_id = ?", userID).
		Count(&total)

	err := r.db.WithContext(ctx).
		Preload("Links").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&pkgs).Error

	return pkgs, total, err
}

// CreateLink creates a package-application association
func (r *PackageRepository) CreateLink(ctx context.Context, link *models.PackageApplicationLink) error {
	return r.db.WithContext(ctx).Create(link).Error
}

// GetLinks lists the association edges of a package
func (r *PackageRepository) GetLinks(ctx context.Context, packageID uint) ([]*models.PackageApplicationLink, error) {
	var links []*models.PackageApplicationLink
	err := r.db.WithContext(ctx).
		Where("package_id = ?", packageID).
		Order("id").
		Find(&links).Error
	return links, err
}
