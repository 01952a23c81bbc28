package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAppliesOn(t *testing.T) {
	rate := TariffRate{
		StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
	}

	assert.True(t, rate.AppliesOn(time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)))
	assert.True(t, rate.AppliesOn(rate.StartDate), "start date is inclusive")
	assert.True(t, rate.AppliesOn(rate.EndDate), "end date is inclusive")
	assert.True(t, rate.AppliesOn(time.Date(2025, 12, 31, 23, 59, 0, 0, time.UTC)),
		"time of day is ignored")
	assert.False(t, rate.AppliesOn(time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)))
	assert.False(t, rate.AppliesOn(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestCoversWeight(t *testing.T) {
	rate := TariffRate{MinWeight: 10, MaxWeight: 100}

	assert.True(t, rate.CoversWeight(10), "lower bound is inclusive")
	assert.True(t, rate.CoversWeight(100), "upper bound is inclusive")
	assert.True(t, rate.CoversWeight(55.5))
	assert.False(t, rate.CoversWeight(9.999))
	assert.False(t, rate.CoversWeight(100.001))
}
