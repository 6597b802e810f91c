package booking

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/travigo/paratransit/pkg/ctdf"
	"github.com/travigo/paratransit/pkg/soap"
)

// CancelTrip asks the backend to cancel a booking. A rejection from the
// backend is a normal unsuccessful result, only transport problems are
// returned as errors.
func (s *Service) CancelTrip(ctx context.Context, session string, clientID string, bookingID string) (*ctdf.CancelResult, error) {
	if strings.TrimSpace(bookingID) == "" {
		return nil, ctdf.NewValidationFailure("A booking ID is required", nil)
	}

	response, err := s.call(ctx, session, OperationCancelTrip, soap.Params{
		{Key: "ClientId", Value: soap.Optional(clientID)},
		{Key: "BookingId", Value: bookingID},
	})
	if err != nil {
		return nil, err
	}

	if message, isError := soap.BackendError(response); isError {
		log.Info().Str("bookingid", bookingID).Msg("Cancellation rejected")

		return &ctdf.CancelResult{
			Success: false,
			Message: message,
		}, nil
	}

	result := &ctdf.CancelResult{
		Success: true,
		RefCode: soap.ExtractFieldFirst(response, "RefCode", "CancellationNumber"),
		Message: soap.ExtractField(response, "Message"),
	}
	if result.Message == "" {
		result.Message = "The trip has been cancelled"
	}

	log.Info().Str("bookingid", bookingID).Str("refcode", result.RefCode).Msg("Cancelled trip")

	s.publish(&ctdf.Event{
		Type: ctdf.EventTypeBookingCancelled,
		Body: ctdf.EventBody{
			ClientID:  clientID,
			BookingID: bookingID,
			Message:   result.Message,
		},
	})

	return result, nil
}
