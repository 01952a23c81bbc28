package tariff

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cargomail/internal/errors"
	"cargomail/internal/models"
)

func float64Ptr(v float64) *float64 { return &v }

func TestCalculate_ConfiguredRate(t *testing.T) {
	defaults := Defaults{DefaultTariffRate: 0.8, Currency: "USD"}

	tests := []struct {
		name       string
		req        Request
		rate       *models.TariffRate
		wantAmount float64
		wantMethod string
	}{
		{
			name: "base rate with surcharge",
			req:  Request{Origin: "CN", Destination: "US", DeclaredValue: 200},
			rate: &models.TariffRate{
				TariffRate:        0.50,
				CategorySurcharge: 0.30,
				Currency:          "USD",
			},
			wantAmount: 160.00,
			wantMethod: models.MethodConfigured,
		},
		{
			name: "maximum tariff clamps the amount",
			req:  Request{Origin: "CN", Destination: "US", DeclaredValue: 1000},
			rate: &models.TariffRate{
				TariffRate:    0.8,
				MinimumTariff: 50,
				MaximumTariff: float64Ptr(600),
			},
			wantAmount: 600.00,
			wantMethod: models.MethodConfigured,
		},
		{
			name: "minimum tariff lifts a small amount",
			req:  Request{Origin: "CN", Destination: "US", DeclaredValue: 10},
			rate: &models.TariffRate{
				TariffRate:    0.5,
				MinimumTariff: 50,
			},
			wantAmount: 50.00,
			wantMethod: models.MethodConfigured,
		},
		{
			name:       "no rate falls back to defaults",
			req:        Request{Origin: "CN", Destination: "US", DeclaredValue: 100},
			rate:       nil,
			wantAmount: 80.00,
			wantMethod: models.MethodFallback,
		},
		{
			name: "half-up rounding to two decimals",
			req:  Request{Origin: "CN", Destination: "US", DeclaredValue: 33.33},
			rate: &models.TariffRate{TariffRate: 0.333},
			wantAmount: 11.10, // 33.33 * 0.333 = 11.09889
			wantMethod: models.MethodConfigured,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Calculate(tt.req, tt.rate, defaults)
			assert.NoError(t, err)
			assert.Equal(t, tt.wantAmount, result.CalculatedTariff)
			assert.Equal(t, tt.wantMethod, result.CalculationMethod)
		})
	}
}

func TestCalculate_Deterministic(t *testing.T) {
	req := Request{Origin: "CN", Destination: "US", DeclaredValue: 123.456}
	rate := &models.TariffRate{TariffRate: 0.37, CategorySurcharge: 0.05}
	defaults := Defaults{DefaultTariffRate: 0.8, Currency: "USD"}

	first, err := Calculate(req, rate, defaults)
	assert.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := Calculate(req, rate, defaults)
		assert.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestCalculate_Breakdown(t *testing.T) {
	req := Request{Origin: "CN", Destination: "US", DeclaredValue: 200}
	rate := &models.TariffRate{TariffRate: 0.50, CategorySurcharge: 0.30}

	result, err := Calculate(req, rate, Defaults{})
	assert.NoError(t, err)
	assert.Equal(t, 100.00, result.Breakdown.BaseAmount)
	assert.Equal(t, 60.00, result.Breakdown.SurchargeAmount)
	assert.Equal(t, 160.00, result.Breakdown.TotalAmount)
	assert.True(t, result.HasSurcharge)
	assert.Equal(t, 0.8, result.CombinedRate)
}

func TestCalculate_ValidationErrors(t *testing.T) {
	tests := []struct {
		name      string
		req       Request
		wantField string
	}{
		{"missing origin", Request{Destination: "US", DeclaredValue: 10}, "origin_country"},
		{"missing destination", Request{Origin: "CN", DeclaredValue: 10}, "destination_country"},
		{"negative declared value", Request{Origin: "CN", Destination: "US", DeclaredValue: -1}, "declared_value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Calculate(tt.req, nil, Defaults{})
			assert.Error(t, err)
			var ve *errors.ValidationError
			assert.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.wantField, ve.Field)
		})
	}
}

func TestCalculate_ZeroDeclaredValue(t *testing.T) {
	req := Request{Origin: "CN", Destination: "US", DeclaredValue: 0}
	rate := &models.TariffRate{TariffRate: 0.5, MinimumTariff: 25}

	result, err := Calculate(req, rate, Defaults{})
	assert.NoError(t, err)
	assert.Equal(t, 25.00, result.CalculatedTariff)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.23, Round2(1.234))
	assert.Equal(t, 1.24, Round2(1.236))
	assert.Equal(t, 11.10, Round2(11.09889))
	assert.Equal(t, 160.00, Round2(160.0))
	assert.Equal(t, 0.00, Round2(0))
}
