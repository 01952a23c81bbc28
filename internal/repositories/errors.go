package repositories

import (
	"context"
	goerrors "errors"

	"cargomail/internal/errors"

	"gorm.io/gorm"
)

// mapStorageErr converts driver-level failures into the engine's taxonomy so
// callers can distinguish transient storage problems from domain outcomes.
func mapStorageErr(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.Is(err, context.DeadlineExceeded) {
		return errors.ErrStorageTimeout
	}
	if goerrors.Is(err, context.Canceled) {
		return err
	}
	if goerrors.Is(err, gorm.ErrInvalidDB) {
		return errors.ErrStorageUnavailable
	}
	return err
}
