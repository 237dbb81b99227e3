package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeRefundGracePeriod(t *testing.T) {
	price := decimal.NewFromInt(1200)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)

	tests := []struct {
		name string
		now  time.Time
	}{
		{"cancellation on the start day", start},
		{"cancellation on day fourteen", start.AddDate(0, 0, 14)},
		{"cancellation before the start date", start.AddDate(0, 0, -5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			refund, full, err := ComputeRefund(price, start, end, tt.now)
			require.NoError(t, err)
			assert.True(t, full)
			assert.Equal(t, "1200.00", refund.StringFixed(2))
		})
	}
}

func TestComputeRefundProRata(t *testing.T) {
	price := decimal.NewFromInt(1200)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0) // 365 days

	// Day 15: past the grace period, 350 days remain.
	// 1200/365 x 350 x 0.80
	refund, full, err := ComputeRefund(price, start, end, start.AddDate(0, 0, 15))
	require.NoError(t, err)
	assert.False(t, full)
	assert.Equal(t, "920.55", refund.StringFixed(2))
}

func TestComputeRefundExhaustedPolicy(t *testing.T) {
	price := decimal.NewFromInt(1200)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)

	t.Run("cancellation on the end date", func(t *testing.T) {
		refund, full, err := ComputeRefund(price, start, end, end)
		require.NoError(t, err)
		assert.False(t, full)
		assert.True(t, refund.IsZero())
	})

	t.Run("cancellation after the end date", func(t *testing.T) {
		refund, full, err := ComputeRefund(price, start, end, end.AddDate(0, 1, 0))
		require.NoError(t, err)
		assert.False(t, full)
		assert.True(t, refund.IsZero())
	})
}

func TestComputeRefundInvalidDuration(t *testing.T) {
	price := decimal.NewFromInt(1200)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	_, _, err := ComputeRefund(price, start, start, start)
	assert.ErrorIs(t, err, ErrInvalidPolicyDuration)

	_, _, err = ComputeRefund(price, start, start.AddDate(0, 0, -30), start)
	assert.ErrorIs(t, err, ErrInvalidPolicyDuration)
}

func TestComputeRefundNeverNegative(t *testing.T) {
	// One remaining day on a tiny premium still floors at zero or above
	price := decimal.NewFromFloat(0.01)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 30)

	refund, full, err := ComputeRefund(price, start, end, start.AddDate(0, 0, 29))
	require.NoError(t, err)
	assert.False(t, full)
	assert.True(t, refund.GreaterThanOrEqual(decimal.Zero))
}
