package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/travigo/paratransit/pkg/booking"
	"github.com/travigo/paratransit/pkg/ctdf"
)

type CancellationRequest struct {
	TripDate    string `json:"trip_date"`
	PickupStart string `json:"pickup_start"`
}

func CancellationsRouter(router fiber.Router, service *booking.Service) {
	router.Post("/validate", func(c *fiber.Ctx) error {
		var request CancellationRequest
		if err := c.BodyParser(&request); err != nil {
			return sendFailure(c, ctdf.NewValidationFailure("The cancellation request could not be read", err))
		}

		return c.JSON(service.ValidateCancellation(request.TripDate, request.PickupStart, service.CurrentTime()))
	})
}
