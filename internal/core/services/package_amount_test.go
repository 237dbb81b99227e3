package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPackageFinalAmount(t *testing.T) {
	tests := []struct {
		name     string
		total    decimal.Decimal
		discount decimal.Decimal
		want     string
	}{
		{"no discount", decimal.NewFromInt(10000), decimal.Zero, "10000.00"},
		{"ten percent", decimal.NewFromInt(10000), decimal.NewFromInt(10), "9000.00"},
		{"full discount", decimal.NewFromInt(10000), decimal.NewFromInt(100), "0.00"},
		{"fractional rounding", decimal.NewFromFloat(999.99), decimal.NewFromInt(15), "849.99"},
		{"empty package total", decimal.Zero, decimal.NewFromInt(25), "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PackageFinalAmount(tt.total, tt.discount).StringFixed(2))
		})
	}
}

func TestBuildProductRejectsUnknownCode(t *testing.T) {
	_, err := buildProduct(PackageItemInput{ProductCode: "PET"})
	assert.Error(t, err)

	product, err := buildProduct(PackageItemInput{
		ProductCode:        "TRAVEL",
		DestinationCountry: "Japan",
	})
	assert.NoError(t, err)
	assert.Equal(t, "TRAVEL", string(product.ProductCode()))
}

func TestPackageReportHasFailures(t *testing.T) {
	clean := &PackageReport{Items: []PackageItemResult{
		{ProductCode: "TRAVEL", Status: ItemPriced},
		{ProductCode: "HEALTH", Status: ItemSkipped},
	}}
	assert.False(t, clean.HasFailures())

	dirty := &PackageReport{Items: []PackageItemResult{
		{ProductCode: "TRAVEL", Status: ItemPaid},
		{ProductCode: "AUTO_COMP", Status: ItemFailed},
	}}
	assert.True(t, dirty.HasFailures())
}
