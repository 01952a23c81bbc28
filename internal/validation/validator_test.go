package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidator_Check(t *testing.T) {
	v := New()
	assert.True(t, v.Valid())

	v.Check(false, "field", "is wrong")
	assert.False(t, v.Valid())
	assert.Equal(t, "field", v.Errors[0].Field)
	assert.EqualError(t, v.First(), "field: is wrong")
}

func TestValidator_CheckFraction(t *testing.T) {
	v := New()
	v.CheckFraction(0, "a")
	v.CheckFraction(1, "b")
	v.CheckFraction(0.35, "c")
	assert.True(t, v.Valid())

	v.CheckFraction(-0.1, "d")
	v.CheckFraction(1.01, "e")
	assert.Len(t, v.Errors, 2)
}

func TestValidator_CheckDateOrder(t *testing.T) {
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	v := New()
	v.CheckDateOrder(day, day, "same day")
	v.CheckDateOrder(day, day.AddDate(0, 1, 0), "ordered")
	assert.True(t, v.Valid())

	v.CheckDateOrder(day.AddDate(0, 1, 0), day, "inverted")
	assert.False(t, v.Valid())
}

func TestValidator_CheckWeightBand(t *testing.T) {
	v := New()
	v.CheckWeightBand(0, 100, "ok")
	v.CheckWeightBand(5, 5, "point band")
	assert.True(t, v.Valid())

	v.CheckWeightBand(10, 5, "inverted")
	v.CheckWeightBand(-1, 5, "negative")
	assert.False(t, v.Valid())
	assert.Len(t, v.Errors, 2)
}

func TestValidator_FirstNil(t *testing.T) {
	assert.NoError(t, New().First())
}
