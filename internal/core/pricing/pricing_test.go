package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insurehub/internal/core/domain"
)

func TestAutoComprehensivePremium(t *testing.T) {
	tests := []struct {
		name    string
		product AutoComprehensive
		want    string
	}{
		{
			name: "base rate with no adjustments",
			product: AutoComprehensive{
				VIN:                   "WVWZZZ1JZXW000001",
				CarValue:              decimal.NewFromInt(10000),
				CarAgeYears:           4,
				DriverExperienceYears: 6,
			},
			want: "500.00",
		},
		{
			name: "old car surcharge above ten years",
			product: AutoComprehensive{
				VIN:                   "WVWZZZ1JZXW000002",
				CarValue:              decimal.NewFromInt(10000),
				CarAgeYears:           11,
				DriverExperienceYears: 6,
			},
			want: "550.00",
		},
		{
			name: "mid-age car surcharge above five years",
			product: AutoComprehensive{
				VIN:                   "WVWZZZ1JZXW000003",
				CarValue:              decimal.NewFromInt(10000),
				CarAgeYears:           6,
				DriverExperienceYears: 6,
			},
			want: "525.00",
		},
		{
			name: "novice driver surcharge under three years",
			product: AutoComprehensive{
				VIN:                   "WVWZZZ1JZXW000004",
				CarValue:              decimal.NewFromInt(10000),
				CarAgeYears:           4,
				DriverExperienceYears: 2,
			},
			want: "575.00",
		},
		{
			name: "junior driver surcharge under five years",
			product: AutoComprehensive{
				VIN:                   "WVWZZZ1JZXW000005",
				CarValue:              decimal.NewFromInt(10000),
				CarAgeYears:           4,
				DriverExperienceYears: 4,
			},
			want: "535.00",
		},
		{
			name: "anti-theft discount",
			product: AutoComprehensive{
				VIN:                   "WVWZZZ1JZXW000006",
				CarValue:              decimal.NewFromInt(10000),
				CarAgeYears:           4,
				DriverExperienceYears: 6,
				AntiTheftSystem:       true,
			},
			want: "475.00",
		},
		{
			name: "garage discount",
			product: AutoComprehensive{
				VIN:                   "WVWZZZ1JZXW000007",
				CarValue:              decimal.NewFromInt(10000),
				CarAgeYears:           4,
				DriverExperienceYears: 6,
				GarageParked:          true,
			},
			want: "485.00",
		},
		{
			name: "adjustments are additive not compounding",
			product: AutoComprehensive{
				VIN:                   "WVWZZZ1JZXW000008",
				CarValue:              decimal.NewFromInt(20000),
				CarAgeYears:           12,
				DriverExperienceYears: 1,
				AntiTheftSystem:       true,
				GarageParked:          true,
			},
			// base 1000, adjustment 10 + 15 - 5 - 3 = 17
			want: "1170.00",
		},
		{
			name: "six month term halves the annual premium",
			product: AutoComprehensive{
				VIN:                   "WVWZZZ1JZXW000009",
				CarValue:              decimal.NewFromInt(10000),
				CarAgeYears:           4,
				DriverExperienceYears: 6,
				DurationMonths:        6,
			},
			want: "250.00",
		},
		{
			name: "twelve month term equals annual premium",
			product: AutoComprehensive{
				VIN:                   "WVWZZZ1JZXW000010",
				CarValue:              decimal.NewFromInt(10000),
				CarAgeYears:           4,
				DriverExperienceYears: 6,
				DurationMonths:        12,
			},
			want: "500.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.product.Premium().StringFixed(2))
		})
	}
}

func TestAutoComprehensiveValidate(t *testing.T) {
	valid := AutoComprehensive{
		VIN:      "WVWZZZ1JZXW000001",
		CarValue: decimal.NewFromInt(10000),
	}
	require.NoError(t, valid.Validate())

	noVIN := valid
	noVIN.VIN = ""
	assert.ErrorIs(t, noVIN.Validate(), domain.ErrInvalidInput)

	zeroValue := valid
	zeroValue.CarValue = decimal.Zero
	assert.ErrorIs(t, zeroValue.Validate(), domain.ErrInvalidInput)

	negativeAge := valid
	negativeAge.CarAgeYears = -1
	assert.ErrorIs(t, negativeAge.Validate(), domain.ErrInvalidInput)
}

func TestAutoLiabilityPowerSteps(t *testing.T) {
	// Experienced driver (coefficient 1.60) isolates the power steps
	tests := []struct {
		powerKW int
		want    string
	}{
		{50, "3953.28"},
		{51, "6588.80"},
		{70, "6588.80"},
		{71, "7247.68"},
		{100, "7247.68"},
		{101, "7906.56"},
		{120, "7906.56"},
		{121, "9224.32"},
		{150, "9224.32"},
		{151, "10542.08"},
	}

	for _, tt := range tests {
		product := AutoLiability{
			VIN:                   "WVWZZZ1JZXW000100",
			EnginePowerKW:         tt.powerKW,
			DriverExperienceYears: 10,
		}
		assert.Equal(t, tt.want, product.Premium().StringFixed(2), "powerKW=%d", tt.powerKW)
	}
}

func TestAutoLiabilityExperienceSteps(t *testing.T) {
	// 90 kW engine (coefficient 1.1) isolates the experience steps
	tests := []struct {
		years int
		want  string
	}{
		{0, "8742.51"},
		{1, "8516.02"},
		{2, "7791.26"},
		{3, "7474.17"},
		{4, "7474.17"},
		{5, "7338.28"},
		{9, "7338.28"},
		{10, "7247.68"},
	}

	for _, tt := range tests {
		product := AutoLiability{
			VIN:                   "WVWZZZ1JZXW000101",
			EnginePowerKW:         90,
			DriverExperienceYears: tt.years,
		}
		assert.Equal(t, tt.want, product.Premium().StringFixed(2), "years=%d", tt.years)
	}
}

func TestAutoLiabilityUnlimitedDrivers(t *testing.T) {
	product := AutoLiability{
		VIN:                   "WVWZZZ1JZXW000102",
		EnginePowerKW:         90,
		DriverExperienceYears: 3,
		UnlimitedDrivers:      true,
	}
	// 4118 x 1.1 x 1.65 x 2.32
	assert.Equal(t, "17340.07", product.Premium().StringFixed(2))
}

func TestAutoLiabilityTermScaling(t *testing.T) {
	product := AutoLiability{
		VIN:                   "WVWZZZ1JZXW000103",
		EnginePowerKW:         90,
		DriverExperienceYears: 3,
		DurationMonths:        6,
	}
	assert.Equal(t, "3737.09", product.Premium().StringFixed(2))
}

func TestAutoLiabilityValidate(t *testing.T) {
	valid := AutoLiability{VIN: "WVWZZZ1JZXW000100", EnginePowerKW: 90}
	require.NoError(t, valid.Validate())

	noPower := valid
	noPower.EnginePowerKW = 0
	assert.ErrorIs(t, noPower.Validate(), domain.ErrInvalidInput)

	negativeExperience := valid
	negativeExperience.DriverExperienceYears = -1
	assert.ErrorIs(t, negativeExperience.Validate(), domain.ErrInvalidInput)
}

func TestPropertyPremium(t *testing.T) {
	declared := Property{
		PropertyAddress: "12 Riverside Ave",
		PropertyValue:   decimal.NewFromInt(500000),
	}
	assert.Equal(t, "2500.00", declared.Premium().StringFixed(2))

	undeclared := Property{PropertyAddress: "12 Riverside Ave"}
	assert.Equal(t, "3000.00", undeclared.Premium().StringFixed(2))

	negative := Property{
		PropertyAddress: "12 Riverside Ave",
		PropertyValue:   decimal.NewFromInt(-1),
	}
	assert.ErrorIs(t, negative.Validate(), domain.ErrInvalidInput)
}

func TestHealthPremium(t *testing.T) {
	flat := Health{PlanName: "Standard"}
	assert.Equal(t, "5000.00", flat.Premium().StringFixed(2))

	explicit := Health{
		PlanName: "Premium",
		Amount:   decimal.NewFromFloat(1234.567),
	}
	assert.Equal(t, "1234.57", explicit.Premium().StringFixed(2))
}

func TestTravelPremium(t *testing.T) {
	flat := Travel{DestinationCountry: "Japan"}
	assert.Equal(t, "2500.00", flat.Premium().StringFixed(2))

	explicit := Travel{
		DestinationCountry: "Japan",
		Amount:             decimal.NewFromInt(900),
	}
	assert.Equal(t, "900.00", explicit.Premium().StringFixed(2))
}

func TestTravelPolicyWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("defaults to a seven day lead and fourteen day trip", func(t *testing.T) {
		start, end := Travel{DestinationCountry: "Japan"}.PolicyWindow(now)
		assert.Equal(t, now.AddDate(0, 0, 7), start)
		assert.Equal(t, start.AddDate(0, 0, 14), end)
	})

	t.Run("explicit trip dates win", func(t *testing.T) {
		tripStart := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
		tripEnd := time.Date(2026, 6, 24, 0, 0, 0, 0, time.UTC)
		start, end := Travel{
			DestinationCountry: "Japan",
			StartDate:          &tripStart,
			EndDate:            &tripEnd,
		}.PolicyWindow(now)
		assert.Equal(t, tripStart, start)
		assert.Equal(t, tripEnd, end)
	})

	t.Run("rejects a trip ending before it starts", func(t *testing.T) {
		tripStart := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
		tripEnd := tripStart.AddDate(0, 0, -1)
		product := Travel{
			DestinationCountry: "Japan",
			StartDate:          &tripStart,
			EndDate:            &tripEnd,
		}
		assert.ErrorIs(t, product.Validate(), domain.ErrInvalidInput)
	})
}

func TestPolicyWindowFallbacks(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("annual term by default", func(t *testing.T) {
		product := AutoComprehensive{
			VIN:      "WVWZZZ1JZXW000001",
			CarValue: decimal.NewFromInt(10000),
		}
		start, end := product.PolicyWindow(now)
		assert.Equal(t, now, start)
		assert.Equal(t, now.AddDate(1, 0, 0), end)
	})

	t.Run("duration in months drives the end date", func(t *testing.T) {
		product := AutoLiability{
			VIN:            "WVWZZZ1JZXW000100",
			EnginePowerKW:  90,
			DurationMonths: 6,
		}
		start, end := product.PolicyWindow(now)
		assert.Equal(t, now, start)
		assert.Equal(t, now.AddDate(0, 6, 0), end)
	})

	t.Run("explicit dates override the term", func(t *testing.T) {
		explicitStart := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
		explicitEnd := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
		product := Property{
			PropertyAddress: "12 Riverside Ave",
			PropertyValue:   decimal.NewFromInt(500000),
			StartDate:       &explicitStart,
			EndDate:         &explicitEnd,
		}
		start, end := product.PolicyWindow(now)
		assert.Equal(t, explicitStart, start)
		assert.Equal(t, explicitEnd, end)
	})
}
