package pricing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"insurehub/internal/core/domain"
)

// Flat fallback premiums for products priced without a risk model
var (
	propertyRate        = decimal.NewFromFloat(0.005)
	propertyFlatPremium = decimal.NewFromFloat(3000.00)
	healthFlatPremium   = decimal.NewFromFloat(5000.00)
	travelFlatPremium   = decimal.NewFromFloat(2500.00)
)

// Default travel window when no trip dates are supplied: departure in
// 7 days, 14-day trip
const (
	travelDefaultLeadDays = 7
	travelDefaultTripDays = 14
)

// Property is a home/property insurance application
type Property struct {
	PropertyAddress string
	PropertyValue   decimal.Decimal
	StartDate       *time.Time
	EndDate         *time.Time
}

func (p Property) ProductCode() domain.ProductCode {
	return domain.ProductProperty
}

func (p Property) Validate() error {
	if p.PropertyAddress == "" {
		return fmt.Errorf("%w: property address is required", domain.ErrInvalidInput)
	}
	if p.PropertyValue.IsNegative() {
		return fmt.Errorf("%w: property value cannot be negative", domain.ErrInvalidInput)
	}
	return nil
}

// Premium is 0.5% of the declared property value, or the flat fallback
// when no value is declared
func (p Property) Premium() decimal.Decimal {
	if p.PropertyValue.IsPositive() {
		return finalize(p.PropertyValue.Mul(propertyRate))
	}
	return propertyFlatPremium
}

func (p Property) PolicyWindow(now time.Time) (time.Time, time.Time) {
	return window(now, p.StartDate, p.EndDate, 0)
}

// Health is a health insurance application
type Health struct {
	PlanName  string
	Amount    decimal.Decimal // explicit premium; flat fallback when zero
	StartDate *time.Time
	EndDate   *time.Time
}

func (h Health) ProductCode() domain.ProductCode {
	return domain.ProductHealth
}

func (h Health) Validate() error {
	if h.Amount.IsNegative() {
		return fmt.Errorf("%w: amount cannot be negative", domain.ErrInvalidInput)
	}
	return nil
}

func (h Health) Premium() decimal.Decimal {
	if h.Amount.IsPositive() {
		return finalize(h.Amount)
	}
	return healthFlatPremium
}

func (h Health) PolicyWindow(now time.Time) (time.Time, time.Time) {
	return window(now, h.StartDate, h.EndDate, 0)
}

// Travel is a travel insurance application. The policy window is the
// trip itself, so explicit trip dates win over any term fallback.
type Travel struct {
	DestinationCountry string
	Amount             decimal.Decimal // explicit premium; flat fallback when zero
	StartDate          *time.Time
	EndDate            *time.Time
}

func (t Travel) ProductCode() domain.ProductCode {
	return domain.ProductTravel
}

func (t Travel) Validate() error {
	if t.DestinationCountry == "" {
		return fmt.Errorf("%w: destination country is required", domain.ErrInvalidInput)
	}
	if t.Amount.IsNegative() {
		return fmt.Errorf("%w: amount cannot be negative", domain.ErrInvalidInput)
	}
	if t.StartDate != nil && t.EndDate != nil && !t.EndDate.After(*t.StartDate) {
		return fmt.Errorf("%w: trip end date must be after start date", domain.ErrInvalidInput)
	}
	return nil
}

func (t Travel) Premium() decimal.Decimal {
	if t.Amount.IsPositive() {
		return finalize(t.Amount)
	}
	return travelFlatPremium
}

func (t Travel) PolicyWindow(now time.Time) (time.Time, time.Time) {
	start := now.AddDate(0, 0, travelDefaultLeadDays)
	if t.StartDate != nil {
		start = *t.StartDate
	}
	end := start.AddDate(0, 0, travelDefaultTripDays)
	if t.EndDate != nil {
		end = *t.EndDate
	}
	return start, end
}
