package routes

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/travigo/paratransit/pkg/ctdf"
)

const SessionHeader = "X-Session-Token"

var errSessionMissing = errors.New("no session token in request")

func failureStatus(category ctdf.FailureCategory) int {
	switch category {
	case ctdf.FailureCategoryValidation:
		return fiber.StatusBadRequest
	case ctdf.FailureCategoryBusinessRule:
		return fiber.StatusUnprocessableEntity
	case ctdf.FailureCategoryBookingConflict:
		return fiber.StatusConflict
	case ctdf.FailureCategoryAuth:
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusBadGateway
	}
}

func sendFailure(c *fiber.Ctx, err error) error {
	failure := ctdf.AsFailure(err)

	c.Status(failureStatus(failure.Category))
	return c.JSON(fiber.Map{
		"error":       failure.Message,
		"category":    failure.Category,
		"recoverable": failure.Recoverable,
	})
}

func getSession(c *fiber.Ctx) (string, error) {
	session := strings.TrimSpace(c.Get(SessionHeader))
	if session == "" {
		return "", ctdf.NewAuthFailure("A session token is required", errSessionMissing)
	}

	return session, nil
}

// getDateQuery reads an optional date query parameter. Both 2006-01-02 and
// the compact backend form are accepted.
func getDateQuery(c *fiber.Ctx, name string, location *time.Location) (*time.Time, error) {
	value := strings.TrimSpace(c.Query(name))
	if value == "" {
		return nil, nil
	}

	for _, layout := range []string{"2006-01-02", "20060102"} {
		if date, err := time.ParseInLocation(layout, value, location); err == nil {
			return &date, nil
		}
	}

	return nil, ctdf.NewValidationFailure("The "+name+" date could not be read", nil)
}
