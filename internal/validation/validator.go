package validation

import (
	"fmt"
	"time"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type Validator struct {
	Errors []ValidationError
}

func New() *Validator {
	return &Validator{
		Errors: make([]ValidationError, 0),
	}
}

func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

func (v *Validator) AddError(field, message string) {
	v.Errors = append(v.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

func (v *Validator) Check(ok bool, field, message string) {
	if !ok {
		v.AddError(field, message)
	}
}

// CheckFraction validates a fractional rate such as tariff_rate or
// category_surcharge, which the UI displays as a percentage.
func (v *Validator) CheckFraction(value float64, field string) {
	v.Check(value >= 0 && value <= 1, field, "must be between 0 and 1")
}

// CheckDateOrder validates a start/end validity window.
func (v *Validator) CheckDateOrder(start, end time.Time, field string) {
	v.Check(!start.After(end), field, "start date must not be after end date")
}

// CheckWeightBand validates a min/max weight band.
func (v *Validator) CheckWeightBand(min, max float64, field string) {
	v.Check(min >= 0 && max >= 0, field, "weights cannot be negative")
	v.Check(min <= max, field, "minimum weight cannot exceed maximum weight")
}

// First returns the first accumulated error, or nil.
func (v *Validator) First() error {
	if len(v.Errors) == 0 {
		return nil
	}
	return v.Errors[0]
}
