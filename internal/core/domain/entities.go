package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role represents user role in the system
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ProductCode identifies an insurance product line
type ProductCode string

const (
	ProductAutoComprehensive ProductCode = "AUTO_COMP"
	ProductAutoLiability     ProductCode = "AUTO_LIAB"
	ProductProperty          ProductCode = "PROPERTY"
	ProductHealth            ProductCode = "HEALTH"
	ProductTravel            ProductCode = "TRAVEL"
)

// AllProductCodes is the allow-list of sellable products
var AllProductCodes = []ProductCode{
	ProductAutoComprehensive,
	ProductAutoLiability,
	ProductProperty,
	ProductHealth,
	ProductTravel,
}

// IsValid reports whether the code is on the product allow-list
func (p ProductCode) IsValid() bool {
	for _, code := range AllProductCodes {
		if p == code {
			return true
		}
	}
	return false
}

// PolicyRef is a weak back-reference from a policy to its originating
// application: an (id, product code) pair, never an embedded object
type PolicyRef struct {
	ApplicationID uint        `json:"application_id"`
	ProductCode   ProductCode `json:"product_code"`
}

// RefundResult is the outcome of a policy cancellation
type RefundResult struct {
	PolicyID           uint            `json:"policy_id"`
	RefundAmount       decimal.Decimal `json:"refund_amount"`
	FullRefund         bool            `json:"full_refund"`
	CancellationReason string          `json:"cancellation_reason"`
	CancelledAt        time.Time       `json:"cancelled_at"`
}
