package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
	"github.com/travigo/paratransit/pkg/ctdf"
)

func TripStatusesRouter(router fiber.Router) {
	router.Get("/", listTripStatuses)
}

func listTripStatuses(c *fiber.Ctx) error {
	statusesReduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: []string{"basic", "detailed"},
	}, ctdf.TripStatuses)

	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Sherrif could not reduce TripStatuses",
		})
	}

	return c.JSON(statusesReduced)
}
