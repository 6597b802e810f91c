package booking

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/paratransit/pkg/ctdf"
	"github.com/travigo/paratransit/pkg/soap"
)

// Confirm is the final step, saving one solution against the draft
func (s *Service) Confirm(ctx context.Context, session string, draft *ctdf.TripDraft, solution ctdf.ScheduleSolution, pickupDate time.Time) (*ctdf.ConfirmedBooking, error) {
	response, err := s.call(ctx, session, OperationSaveSolution, soap.Params{
		{Key: "BookingId", Value: draft.BookingID},
		{Key: "ScheduleId", Value: solution.ScheduleID},
		{Key: "SolutionSetNumber", Value: solution.SolutionSetNumber},
		{Key: "SolutionNumber", Value: solution.SolutionNumber},
	})
	if err != nil {
		return nil, err
	}

	if message, isError := soap.BackendError(response); isError {
		return nil, ctdf.NewBookingConflict(message, nil)
	}

	windowStart := solution.PickupWindowStart
	windowEnd := solution.PickupWindowEnd
	if seconds, ok := soap.ParseSeconds(soap.ExtractField(response, "PickupWindowStart")); ok {
		windowStart = seconds
	}
	if seconds, ok := soap.ParseSeconds(soap.ExtractField(response, "PickupWindowEnd")); ok {
		windowEnd = seconds
	}

	confirmation := soap.ExtractFieldFirst(response, "ConfirmationNumber", "CreationConfirmationNumber")
	if confirmation == "" {
		confirmation = draft.BookingID
	}

	log.Info().Str("bookingid", draft.BookingID).Str("confirmation", confirmation).Msg("Confirmed trip")

	return &ctdf.ConfirmedBooking{
		BookingID:          draft.BookingID,
		ConfirmationNumber: confirmation,
		PickupDate:         pickupDate,
		PickupWindowStart:  soap.SecondsToClock(windowStart),
		PickupWindowEnd:    soap.SecondsToClock(windowEnd),
	}, nil
}
