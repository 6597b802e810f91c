package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"
	"github.com/liip/sheriff"
	"github.com/rs/zerolog/log"
	"github.com/travigo/paratransit/pkg/booking"
	"github.com/travigo/paratransit/pkg/ctdf"
)

const MessageBookingInProgress = "A booking with this idempotency key is already in progress"

type BookingRequest struct {
	PickupDate string `json:"pickup_date"`
	PickupTime string `json:"pickup_time"`

	PickupAddress      string `json:"pickup_address"`
	DestinationAddress string `json:"destination_address"`

	MobilityDevice       ctdf.MobilityDevice        `json:"mobility_device"`
	AdditionalPassengers *ctdf.AdditionalPassengers `json:"additional_passengers"`

	CallbackPhone      string `json:"callback_phone"`
	AlternateCallback  string `json:"alternate_callback"`
	PickupComments     string `json:"pickup_comments"`
	DestinationComment string `json:"destination_comment"`

	Purpose string `json:"purpose"`
}

func (r *BookingRequest) Intent() (ctdf.BookingIntent, error) {
	var intent ctdf.BookingIntent
	err := copier.Copy(&intent, r)

	return intent, err
}

func parseBookingRequest(c *fiber.Ctx) (ctdf.BookingIntent, error) {
	var request BookingRequest
	if err := c.BodyParser(&request); err != nil {
		return ctdf.BookingIntent{}, ctdf.NewValidationFailure("The booking request could not be read", err)
	}

	intent, err := request.Intent()
	if err != nil {
		return ctdf.BookingIntent{}, ctdf.NewValidationFailure("The booking request could not be read", err)
	}

	return intent, nil
}

type bookingsRouter struct {
	service *booking.Service
	cache   *BookingCache
}

func BookingValidationRouter(router fiber.Router, service *booking.Service) {
	bookings := bookingsRouter{service: service}

	router.Post("/validate", bookings.validateBooking)
}

func ClientBookingsRouter(router fiber.Router, service *booking.Service, cache *BookingCache) {
	bookings := bookingsRouter{service: service, cache: cache}

	router.Post("/", bookings.createBooking)
}

func (b bookingsRouter) validateBooking(c *fiber.Ctx) error {
	intent, err := parseBookingRequest(c)
	if err != nil {
		return sendFailure(c, err)
	}

	return c.JSON(b.service.ValidateBooking(intent, b.service.CurrentTime()))
}

func (b bookingsRouter) createBooking(c *fiber.Ctx) error {
	session, err := getSession(c)
	if err != nil {
		return sendFailure(c, err)
	}

	clientID := c.Params("client")
	idempotencyKey := c.Get(IdempotencyHeader)

	if confirmed := b.cache.Get(c.Context(), clientID, idempotencyKey); confirmed != nil {
		log.Info().Str("client", clientID).Str("key", idempotencyKey).Msg("Returning booking for repeated request")
		return sendBooking(c, fiber.StatusOK, confirmed)
	}

	intent, err := parseBookingRequest(c)
	if err != nil {
		return sendFailure(c, err)
	}

	if !b.cache.Reserve(c.Context(), clientID, idempotencyKey) {
		// The other request may have finished between the two lookups
		if confirmed := b.cache.Get(c.Context(), clientID, idempotencyKey); confirmed != nil {
			return sendBooking(c, fiber.StatusOK, confirmed)
		}

		return sendFailure(c, ctdf.NewBookingConflict(MessageBookingInProgress, nil))
	}
	defer b.cache.Release(c.Context(), clientID, idempotencyKey)

	confirmed, err := b.service.BookTrip(c.Context(), session, clientID, intent)
	if err != nil {
		return sendFailure(c, err)
	}

	b.cache.Set(c.Context(), clientID, idempotencyKey, confirmed)

	return sendBooking(c, fiber.StatusCreated, confirmed)
}

func sendBooking(c *fiber.Ctx, status int, confirmed *ctdf.ConfirmedBooking) error {
	bookingReduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: []string{"basic"},
	}, confirmed)

	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Sherrif could not reduce ConfirmedBooking",
		})
	}

	c.Status(status)
	return c.JSON(bookingReduced)
}
