package booking

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/paratransit/pkg/ctdf"
	"github.com/travigo/paratransit/pkg/rules"
	"github.com/travigo/paratransit/pkg/soap"
)

// BookTrip runs the full booking: validate, geocode both addresses, then
// create, schedule and confirm in order. Each step only runs when the one
// before it succeeded and nothing is undone when a later step fails.
func (s *Service) BookTrip(ctx context.Context, session string, clientID string, intent ctdf.BookingIntent) (*ctdf.ConfirmedBooking, error) {
	confirmed, draftID, err := s.bookTrip(ctx, session, clientID, intent)

	if err != nil {
		failure := ctdf.AsFailure(err)

		log.Info().Str("category", string(failure.Category)).Str("bookingid", draftID).Msg("Trip booking failed")

		// A draft left behind after a failed schedule or save keeps its id on
		// the event
		s.publish(&ctdf.Event{
			Type: ctdf.EventTypeBookingFailed,
			Body: ctdf.EventBody{
				ClientID:        clientID,
				BookingID:       draftID,
				FailureCategory: failure.Category,
				Message:         failure.Message,
			},
		})

		return nil, failure
	}

	s.publish(&ctdf.Event{
		Type: ctdf.EventTypeBookingCreated,
		Body: ctdf.EventBody{
			ClientID:           clientID,
			BookingID:          confirmed.BookingID,
			ConfirmationNumber: confirmed.ConfirmationNumber,
			PickupDate:         soap.FormatDate(confirmed.PickupDate),
			PickupWindowStart:  confirmed.PickupWindowStart,
		},
	})

	return confirmed, nil
}

func (s *Service) bookTrip(ctx context.Context, session string, clientID string, intent ctdf.BookingIntent) (*ctdf.ConfirmedBooking, string, error) {
	if strings.TrimSpace(clientID) == "" {
		return nil, "", ctdf.NewValidationFailure("A client ID is required", nil)
	}

	if result := s.ValidateBooking(intent, s.CurrentTime()); !result.Valid {
		return nil, "", result.Failure()
	}

	pickupInstant, err := rules.ParsePickup(intent.PickupDate, intent.PickupTime, s.Location)
	if err != nil {
		return nil, "", ctdf.NewValidationFailure(rules.MessageUnparseablePickup, err)
	}
	pickupDate := time.Date(pickupInstant.Year(), pickupInstant.Month(), pickupInstant.Day(), 0, 0, 0, 0, s.Location)

	pickupAddress, err := s.Addresses.Resolve(ctx, intent.PickupAddress)
	if err != nil {
		return nil, "", err
	}

	destinationAddress, err := s.Addresses.Resolve(ctx, intent.DestinationAddress)
	if err != nil {
		return nil, "", err
	}

	draft, err := s.CreateDraft(ctx, session, clientID, intent, pickupAddress, destinationAddress)
	if err != nil {
		return nil, "", err
	}

	// Once a draft exists the attempt runs to the end, a caller going away
	// must not leave it half scheduled
	ctx = context.WithoutCancel(ctx)

	solutions, err := s.Schedule(ctx, session, draft)
	if err != nil {
		return nil, draft.BookingID, err
	}

	if len(solutions) == 0 {
		return nil, draft.BookingID, ctdf.NewBookingConflict(MessageNoAvailableSlots, nil)
	}

	confirmed, err := s.Confirm(ctx, session, draft, solutions[0], pickupDate)
	if err != nil {
		return nil, draft.BookingID, err
	}

	return confirmed, draft.BookingID, nil
}
