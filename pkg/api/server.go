package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/travigo/paratransit/pkg/api/routes"
	"github.com/travigo/paratransit/pkg/booking"
	"github.com/travigo/paratransit/pkg/http_server"
)

func NewApp(service *booking.Service, bookingCache *routes.BookingCache) *fiber.App {
	webApp := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	webApp.Use(http_server.NewLogger(routes.SessionHeader))

	group := webApp.Group("/core")

	group.Get("version", routes.APIVersion)

	routes.TripStatusesRouter(group.Group("/trip_statuses"))

	routes.BookingValidationRouter(group.Group("/bookings"), service)
	routes.CancellationsRouter(group.Group("/cancellations"), service)

	clientGroup := group.Group("/clients/:client")
	routes.ClientBookingsRouter(clientGroup.Group("/bookings"), service, bookingCache)
	routes.ClientTripsRouter(clientGroup.Group("/trips"), service)

	return webApp
}

func SetupServer(listen string, service *booking.Service, bookingCache *routes.BookingCache) error {
	return NewApp(service, bookingCache).Listen(listen)
}
