package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTierFor(t *testing.T) {
	tests := []struct {
		count int
		want  Tier
	}{
		{0, TierWooden},
		{1, TierBronze},
		{2, TierSilver},
		{3, TierGold},
		{4, TierGold},
		{100, TierGold},
		{-1, TierWooden},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TierFor(tt.count), "count=%d", tt.count)
	}
}

func TestCashbackPercent(t *testing.T) {
	assert.Equal(t, float64(2), TierWooden.CashbackPercent())
	assert.Equal(t, float64(5), TierBronze.CashbackPercent())
	assert.Equal(t, float64(10), TierSilver.CashbackPercent())
	assert.Equal(t, float64(15), TierGold.CashbackPercent())
	assert.Equal(t, float64(2), Tier("UNKNOWN").CashbackPercent())
}
