package pricing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"insurehub/internal/core/domain"
)

// comprehensiveBaseRate is the fraction of the car value forming the
// comprehensive base premium (5%)
var comprehensiveBaseRate = decimal.NewFromFloat(0.05)

// liabilityBaseRate is the tariff base for third-party liability
var liabilityBaseRate = decimal.NewFromFloat(4118.00)

// unlimitedDriversCoefficient applies when the policy covers any driver
var unlimitedDriversCoefficient = decimal.NewFromFloat(2.32)

// AutoComprehensive is a full-coverage (CASCO) application
type AutoComprehensive struct {
	VIN                   string
	CarValue              decimal.Decimal
	CarAgeYears           int
	DriverExperienceYears int
	AntiTheftSystem       bool
	GarageParked          bool
	DurationMonths        int
	StartDate             *time.Time
	EndDate               *time.Time
}

func (a AutoComprehensive) ProductCode() domain.ProductCode {
	return domain.ProductAutoComprehensive
}

func (a AutoComprehensive) Validate() error {
	if a.VIN == "" {
		return fmt.Errorf("%w: VIN is required", domain.ErrInvalidInput)
	}
	if !a.CarValue.IsPositive() {
		return fmt.Errorf("%w: car value must be greater than 0", domain.ErrInvalidInput)
	}
	if a.CarAgeYears < 0 || a.DriverExperienceYears < 0 {
		return fmt.Errorf("%w: car age and driver experience cannot be negative", domain.ErrInvalidInput)
	}
	return nil
}

// Premium prices the comprehensive cover: 5% of the car value plus
// additive percentage adjustments of that base (adjustments do not
// compound with each other), scaled to the requested term.
func (a AutoComprehensive) Premium() decimal.Decimal {
	base := a.CarValue.Mul(comprehensiveBaseRate)

	adjustment := decimal.Zero
	switch {
	case a.CarAgeYears > 10:
		adjustment = adjustment.Add(decimal.NewFromInt(10))
	case a.CarAgeYears > 5:
		adjustment = adjustment.Add(decimal.NewFromInt(5))
	}
	switch {
	case a.DriverExperienceYears < 3:
		adjustment = adjustment.Add(decimal.NewFromInt(15))
	case a.DriverExperienceYears < 5:
		adjustment = adjustment.Add(decimal.NewFromInt(7))
	}
	if a.AntiTheftSystem {
		adjustment = adjustment.Sub(decimal.NewFromInt(5))
	}
	if a.GarageParked {
		adjustment = adjustment.Sub(decimal.NewFromInt(3))
	}

	premium := base.Add(base.Mul(adjustment).Div(hundred))
	return finalize(scaleByTerm(premium, a.DurationMonths))
}

func (a AutoComprehensive) PolicyWindow(now time.Time) (time.Time, time.Time) {
	return window(now, a.StartDate, a.EndDate, a.termMonths())
}

func (a AutoComprehensive) termMonths() int {
	if a.DurationMonths > 0 {
		return a.DurationMonths
	}
	return defaultTermMonths
}

// AutoLiability is a mandatory third-party liability application
type AutoLiability struct {
	VIN                   string
	EnginePowerKW         int
	DriverExperienceYears int
	UnlimitedDrivers      bool
	DurationMonths        int
	StartDate             *time.Time
	EndDate               *time.Time
}

func (a AutoLiability) ProductCode() domain.ProductCode {
	return domain.ProductAutoLiability
}

func (a AutoLiability) Validate() error {
	if a.VIN == "" {
		return fmt.Errorf("%w: VIN is required", domain.ErrInvalidInput)
	}
	if a.EnginePowerKW <= 0 {
		return fmt.Errorf("%w: engine power must be greater than 0", domain.ErrInvalidInput)
	}
	if a.DriverExperienceYears < 0 {
		return fmt.Errorf("%w: driver experience cannot be negative", domain.ErrInvalidInput)
	}
	return nil
}

// Premium is the multiplicative tariff model:
// baseRate x powerCoefficient x experienceCoefficient x driversCoefficient,
// scaled to the requested term.
func (a AutoLiability) Premium() decimal.Decimal {
	premium := liabilityBaseRate.
		Mul(powerCoefficient(a.EnginePowerKW)).
		Mul(experienceCoefficient(a.DriverExperienceYears))
	if a.UnlimitedDrivers {
		premium = premium.Mul(unlimitedDriversCoefficient)
	}
	return finalize(scaleByTerm(premium, a.DurationMonths))
}

func (a AutoLiability) PolicyWindow(now time.Time) (time.Time, time.Time) {
	return window(now, a.StartDate, a.EndDate, a.termMonths())
}

func (a AutoLiability) termMonths() int {
	if a.DurationMonths > 0 {
		return a.DurationMonths
	}
	return defaultTermMonths
}

// powerCoefficient is the tariff step table over engine power (kW)
func powerCoefficient(powerKW int) decimal.Decimal {
	switch {
	case powerKW <= 50:
		return decimal.NewFromFloat(0.6)
	case powerKW <= 70:
		return decimal.NewFromFloat(1.0)
	case powerKW <= 100:
		return decimal.NewFromFloat(1.1)
	case powerKW <= 120:
		return decimal.NewFromFloat(1.2)
	case powerKW <= 150:
		return decimal.NewFromFloat(1.4)
	default:
		return decimal.NewFromFloat(1.6)
	}
}

// experienceCoefficient is the tariff step table over driver experience
func experienceCoefficient(years int) decimal.Decimal {
	switch {
	case years < 1:
		return decimal.NewFromFloat(1.93)
	case years < 2:
		return decimal.NewFromFloat(1.88)
	case years < 3:
		return decimal.NewFromFloat(1.72)
	case years < 5:
		return decimal.NewFromFloat(1.65)
	case years < 10:
		return decimal.NewFromFloat(1.62)
	default:
		return decimal.NewFromFloat(1.60)
	}
}
