package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
	"github.com/travigo/paratransit/pkg/booking"
	"github.com/travigo/paratransit/pkg/ctdf"
)

type tripsRouter struct {
	service *booking.Service
}

func ClientTripsRouter(router fiber.Router, service *booking.Service) {
	trips := tripsRouter{service: service}

	router.Get("/", trips.listTrips)
	router.Delete("/:booking", trips.cancelTrip)
}

func (t tripsRouter) listTrips(c *fiber.Ctx) error {
	session, err := getSession(c)
	if err != nil {
		return sendFailure(c, err)
	}

	from, err := getDateQuery(c, "from", t.service.Location)
	if err != nil {
		return sendFailure(c, err)
	}
	to, err := getDateQuery(c, "to", t.service.Location)
	if err != nil {
		return sendFailure(c, err)
	}

	trips, err := t.service.GetTrips(c.Context(), session, c.Params("client"), from, to)
	if err != nil {
		return sendFailure(c, err)
	}

	if c.QueryBool("upcoming", false) {
		trips = ctdf.FilterUpcoming(trips)
	}

	groups := []string{"basic"}
	if c.QueryBool("detailed", false) {
		groups = append(groups, "detailed")
	}

	tripsReduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: groups,
	}, trips)

	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Sherrif could not reduce TripRecords",
		})
	}

	return c.JSON(tripsReduced)
}

// cancelTrip checks the notice rules first when the caller passes the trip
// date and pickup window, and only then contacts the backend
func (t tripsRouter) cancelTrip(c *fiber.Ctx) error {
	session, err := getSession(c)
	if err != nil {
		return sendFailure(c, err)
	}

	tripDate := c.Query("date")
	pickupStart := c.Query("pickup")

	var warning string
	if tripDate != "" || pickupStart != "" {
		result := t.service.ValidateCancellation(tripDate, pickupStart, t.service.CurrentTime())
		if !result.Valid {
			c.Status(failureStatus(result.Category))
			return c.JSON(result)
		}
		warning = result.Warning
	}

	result, err := t.service.CancelTrip(c.Context(), session, c.Params("client"), c.Params("booking"))
	if err != nil {
		return sendFailure(c, err)
	}

	if !result.Success {
		c.Status(fiber.StatusConflict)
	}

	return c.JSON(fiber.Map{
		"Success": result.Success,
		"RefCode": result.RefCode,
		"Message": result.Message,
		"Warning": warning,
	})
}
