package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"insurehub/internal/core/domain"
)

// Product is the shared capability set of every insurance application
// variant. Premium is deterministic and side-effect-free; PolicyWindow
// derives the coverage dates the policy issuer stamps on issuance.
type Product interface {
	ProductCode() domain.ProductCode
	Validate() error
	Premium() decimal.Decimal
	PolicyWindow(now time.Time) (start, end time.Time)
}

// Standard policy term used when an application carries no explicit
// duration or end date
const defaultTermMonths = 12

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
)

// scaleByTerm scales an annual premium to the requested term in months.
// A zero or 12-month term leaves the premium unchanged.
func scaleByTerm(premium decimal.Decimal, months int) decimal.Decimal {
	if months <= 0 || months == defaultTermMonths {
		return premium
	}
	return premium.Mul(decimal.NewFromInt(int64(months))).Div(twelve)
}

// finalize floors a premium at zero and rounds half-up to 2 decimals
func finalize(premium decimal.Decimal) decimal.Decimal {
	if premium.IsNegative() {
		return decimal.Zero.Round(2)
	}
	return premium.Round(2)
}

// window resolves the coverage window from optional explicit dates and
// a term in months, falling back to a one-year term.
func window(now time.Time, startDate, endDate *time.Time, termMonths int) (time.Time, time.Time) {
	start := now
	if startDate != nil {
		start = *startDate
	}
	if endDate != nil {
		return start, *endDate
	}
	if termMonths > 0 {
		return start, start.AddDate(0, termMonths, 0)
	}
	return start, start.AddDate(1, 0, 0)
}
