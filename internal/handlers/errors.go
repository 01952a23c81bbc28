package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"cargomail/internal/errors"
	"cargomail/internal/utils"
)

// respondError maps the service error taxonomy onto HTTP statuses.
func respondError(c *fiber.Ctx, err error) error {
	switch e := err.(type) {
	case *errors.ValidationError:
		return utils.BadRequest(c, e.Error())
	case *errors.ConflictError:
		return utils.Conflict(c, e.Message, fiber.Map{"blocking_rate_ids": e.BlockingIDs})
	case *errors.DomainError:
		switch e {
		case errors.ErrRateNotFound, errors.ErrCountryNotFound:
			return utils.NotFound(c, e.Message)
		case errors.ErrStorageTimeout:
			return utils.GatewayTimeout(c, e.Message)
		default:
			return utils.InternalError(c, e.Message)
		}
	default:
		return utils.InternalError(c, "internal server error")
	}
}

// parseDate parses an optional YYYY-MM-DD field.
func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
