package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"insurehub/internal/core/domain"
)

// ============================================================
// Identity
// ============================================================

// User represents users table
type User struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	Email             string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Username          string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Password          string         `gorm:"size:255;not null" json:"-"`
	Role              string         `gorm:"size:20;default:'USER'" json:"role"`
	ActivePolicyCount int            `gorm:"not null;default:0" json:"active_policy_count"`
	Tier              string         `gorm:"size:20;not null;default:'WOODEN'" json:"tier"`
	IsActive          bool           `gorm:"default:true" json:"is_active"`
	CreatedAt         time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID                uint      `json:"id"`
	Email             string    `json:"email"`
	Username          string    `json:"username"`
	Role              string    `json:"role"`
	ActivePolicyCount int       `json:"active_policy_count"`
	Tier              string    `json:"tier"`
	CashbackPercent   float64   `json:"cashback_percent"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	tier := domain.Tier(u.Tier)
	return &UserResponse{
		ID:                u.ID,
		Email:             u.Email,
		Username:          u.Username,
		Role:              u.Role,
		ActivePolicyCount: u.ActivePolicyCount,
		Tier:              u.Tier,
		CashbackPercent:   tier.CashbackPercent(),
		IsActive:          u.IsActive,
		CreatedAt:         u.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Product catalog
// ============================================================

// Category tags issued policies with their product category
type Category struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Code        string         `gorm:"size:20;uniqueIndex;not null" json:"code"`
	Name        string         `gorm:"size:100;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Category) TableName() string {
	return "categories"
}

// ============================================================
// Applications
// ============================================================

// Application represents one submitted, not-yet-paid request for an
// insurance product. Product-specific fields are nullable columns;
// the product_code column selects the variant.
type Application struct {
	ID               uint                `gorm:"primaryKey" json:"id"`
	UserID           uint                `gorm:"not null;index" json:"user_id"`
	ProductCode      string              `gorm:"size:20;not null;index" json:"product_code"`
	Status           string              `gorm:"size:20;not null;default:'PENDING'" json:"status"`
	CalculatedAmount decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"calculated_amount"`
	StartDate        *time.Time          `gorm:"type:date" json:"start_date"`
	EndDate          *time.Time          `gorm:"type:date" json:"end_date"`
	DurationMonths   int                 `gorm:"not null;default:0" json:"duration_months"`

	// Auto fields
	VIN                   *string          `gorm:"size:17" json:"vin,omitempty"`
	CarValue              *decimal.Decimal `gorm:"type:decimal(12,2)" json:"car_value,omitempty"`
	CarAgeYears           *int             `json:"car_age_years,omitempty"`
	EnginePowerKW         *int             `json:"engine_power_kw,omitempty"`
	DriverExperienceYears *int             `json:"driver_experience_years,omitempty"`
	UnlimitedDrivers      *bool            `json:"unlimited_drivers,omitempty"`
	AntiTheftSystem       *bool            `json:"anti_theft_system,omitempty"`
	GarageParked          *bool            `json:"garage_parked,omitempty"`

	// Property fields
	PropertyAddress *string          `gorm:"size:200" json:"property_address,omitempty"`
	PropertyValue   *decimal.Decimal `gorm:"type:decimal(12,2)" json:"property_value,omitempty"`

	// Health / travel fields
	PlanName           *string          `gorm:"size:100" json:"plan_name,omitempty"`
	Amount             *decimal.Decimal `gorm:"type:decimal(12,2)" json:"amount,omitempty"`
	DestinationCountry *string          `gorm:"size:100" json:"destination_country,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Application) TableName() string {
	return "applications"
}

// ApplicationResponse DTO
type ApplicationResponse struct {
	ID               uint                `json:"id"`
	ProductCode      string              `json:"product_code"`
	Status           string              `json:"status"`
	CalculatedAmount decimal.NullDecimal `json:"calculated_amount"`
	StartDate        *time.Time          `json:"start_date,omitempty"`
	EndDate          *time.Time          `json:"end_date,omitempty"`
	DurationMonths   int                 `json:"duration_months,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
}

func (a *Application) ToResponse() *ApplicationResponse {
	return &ApplicationResponse{
		ID:               a.ID,
		ProductCode:      a.ProductCode,
		Status:           a.Status,
		CalculatedAmount: a.CalculatedAmount,
		StartDate:        a.StartDate,
		EndDate:          a.EndDate,
		DurationMonths:   a.DurationMonths,
		CreatedAt:        a.CreatedAt,
	}
}

// ============================================================
// Policies
// ============================================================

// Policy represents a paid, in-force insurance contract. The link back
// to the originating application is a weak (id, product code) pair.
type Policy struct {
	ID                 uint             `gorm:"primaryKey" json:"id"`
	UserID             uint             `gorm:"not null;index" json:"user_id"`
	CategoryID         uint             `gorm:"not null" json:"category_id"`
	ApplicationID      uint             `gorm:"not null;index" json:"application_id"`
	ApplicationProduct string           `gorm:"size:20;not null" json:"application_product"`
	Price              decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"price"`
	StartDate          time.Time        `gorm:"type:date;not null" json:"start_date"`
	EndDate            time.Time        `gorm:"type:date;not null" json:"end_date"`
	Status             string           `gorm:"size:20;not null;default:'ACTIVE'" json:"status"`
	IsActive           bool             `gorm:"default:true;index" json:"is_active"`
	CancellationReason *string          `gorm:"size:255" json:"cancellation_reason,omitempty"`
	RefundAmount       *decimal.Decimal `gorm:"type:decimal(12,2)" json:"refund_amount,omitempty"`
	CancelledAt        *time.Time       `json:"cancelled_at,omitempty"`
	CreatedAt          time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time        `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	User     *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

func (Policy) TableName() string {
	return "policies"
}

// ApplicationRef returns the weak reference to the originating application
func (p *Policy) ApplicationRef() domain.PolicyRef {
	return domain.PolicyRef{
		ApplicationID: p.ApplicationID,
		ProductCode:   domain.ProductCode(p.ApplicationProduct),
	}
}

// PolicyResponse DTO
type PolicyResponse struct {
	ID                 uint             `json:"id"`
	Application        domain.PolicyRef `json:"application"`
	Category           string           `json:"category,omitempty"`
	Price              decimal.Decimal  `json:"price"`
	StartDate          time.Time        `json:"start_date"`
	EndDate            time.Time        `json:"end_date"`
	Status             string           `json:"status"`
	CancellationReason *string          `json:"cancellation_reason,omitempty"`
	RefundAmount       *decimal.Decimal `json:"refund_amount,omitempty"`
	CancelledAt        *time.Time       `json:"cancelled_at,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
}

func (p *Policy) ToResponse() *PolicyResponse {
	resp := &PolicyResponse{
		ID:                 p.ID,
		Application:        p.ApplicationRef(),
		Price:              p.Price,
		StartDate:          p.StartDate,
		EndDate:            p.EndDate,
		Status:             p.Status,
		CancellationReason: p.CancellationReason,
		RefundAmount:       p.RefundAmount,
		CancelledAt:        p.CancelledAt,
		CreatedAt:          p.CreatedAt,
	}
	if p.Category != nil {
		resp.Category = p.Category.Code
	}
	return resp
}

// ============================================================
// Packages
// ============================================================

// InsurancePackage bundles multiple applications under one discount
// and one payment action
type InsurancePackage struct {
	ID                  uint            `gorm:"primaryKey" json:"id"`
	RefNo               string          `gorm:"size:36;uniqueIndex;not null" json:"ref_no"`
	UserID              uint            `gorm:"not null;index" json:"user_id"`
	Name                string          `gorm:"size:100;not null" json:"name"`
	DiscountPercent     decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"discount_percent"`
	OriginalTotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"original_total_amount"`
	FinalAmount         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"final_amount"`
	Status              string          `gorm:"size:25;not null;default:'PENDING'" json:"status"`
	CreatedAt           time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	User  *User                    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Links []PackageApplicationLink `gorm:"foreignKey:PackageID" json:"links,omitempty"`
}

func (InsurancePackage) TableName() string {
	return "insurance_packages"
}

// PackageResponse DTO
type PackageResponse struct {
	ID                  uint            `json:"id"`
	RefNo               string          `json:"ref_no"`
	Name                string          `json:"name"`
	DiscountPercent     decimal.Decimal `json:"discount_percent"`
	OriginalTotalAmount decimal.Decimal `json:"original_total_amount"`
	FinalAmount         decimal.Decimal `json:"final_amount"`
	Status              string          `json:"status"`
	Items               int             `json:"items"`
	CreatedAt           time.Time       `json:"created_at"`
}

func (p *InsurancePackage) ToResponse() *PackageResponse {
	return &PackageResponse{
		ID:                  p.ID,
		RefNo:               p.RefNo,
		Name:                p.Name,
		DiscountPercent:     p.DiscountPercent,
		OriginalTotalAmount: p.OriginalTotalAmount,
		FinalAmount:         p.FinalAmount,
		Status:              p.Status,
		Items:               len(p.Links),
		CreatedAt:           p.CreatedAt,
	}
}

// PackageApplicationLink is a pure association edge between a package
// and an application. Deleting a package must never delete the
// application it links to.
type PackageApplicationLink struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	PackageID     uint      `gorm:"not null;index" json:"package_id"`
	ApplicationID uint      `gorm:"not null;index" json:"application_id"`
	ProductCode   string    `gorm:"size:20;not null" json:"product_code"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (PackageApplicationLink) TableName() string {
	return "package_application_links"
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Category{},
		&Application{},
		&Policy{},
		&InsurancePackage{},
		&PackageApplicationLink{},
	)
}
