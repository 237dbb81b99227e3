package config

import (
	"log"

	"gorm.io/gorm"

	"insurehub/internal/adapters/persistence/models"
	"insurehub/internal/core/domain"
	"insurehub/internal/pkg/password"
)

// SeedMasterData seeds product categories and the initial admin account
func SeedMasterData(db *gorm.DB) error {
	if err := seedCategories(db); err != nil {
		return err
	}
	if err := seedAdminUser(db); err != nil {
		return err
	}

	log.Println("✅ Master data seeded successfully")
	return nil
}

func seedCategories(db *gorm.DB) error {
	categories := []models.Category{
		{
			Code:        string(domain.ProductAutoComprehensive),
			Name:        "Auto Comprehensive",
			Description: "Full-coverage motor insurance (CASCO)",
			IsActive:    true,
		},
		{
			Code:        string(domain.ProductAutoLiability),
			Name:        "Auto Liability",
			Description: "Mandatory third-party motor liability",
			IsActive:    true,
		},
		{
			Code:        string(domain.ProductProperty),
			Name:        "Property",
			Description: "Home and property insurance",
			IsActive:    true,
		},
		{
			Code:        string(domain.ProductHealth),
			Name:        "Health",
			Description: "Personal health insurance plans",
			IsActive:    true,
		},
		{
			Code:        string(domain.ProductTravel),
			Name:        "Travel",
			Description: "Per-trip travel insurance",
			IsActive:    true,
		},
	}

	for _, category := range categories {
		var existing models.Category
		err := db.Where("code = ?", category.Code).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			if err := db.Create(&category).Error; err != nil {
				return err
			}
			log.Printf("  + Category seeded: %s", category.Code)
		} else if err != nil {
			return err
		}
	}
	return nil
}

func seedAdminUser(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", string(domain.RoleAdmin)).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := password.Hash(getEnv("ADMIN_PASSWORD", "ChangeMe!2024"))
	if err != nil {
		return err
	}

	admin := models.User{
		Email:    getEnv("ADMIN_EMAIL", "admin@insurehub.io"),
		Username: "admin",
		Password: hashed,
		Role:     string(domain.RoleAdmin),
		Tier:     string(domain.TierWooden),
		IsActive: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("  + Admin user seeded: %s", admin.Email)
	return nil
}
