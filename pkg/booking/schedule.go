package booking

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/travigo/paratransit/pkg/ctdf"
	"github.com/travigo/paratransit/pkg/soap"
)

const MessageNoAvailableSlots = "No available trip slots were found for the requested time, please try a different time"

func parseSolutions(response string) []ctdf.ScheduleSolution {
	solutions := []ctdf.ScheduleSolution{}

	for _, fragment := range soap.ExtractAll(response, "Solution") {
		solution := ctdf.ScheduleSolution{
			ScheduleID:        soap.ExtractFieldFirst(fragment, "ScheduleId", "SchedulingId"),
			SolutionSetNumber: soap.ExtractField(fragment, "SolutionSetNumber"),
			SolutionNumber:    soap.ExtractField(fragment, "SolutionNumber"),
			PickupWindowStart: -1,
			PickupWindowEnd:   -1,
		}

		if seconds, ok := soap.ParseSeconds(soap.ExtractField(fragment, "PickupWindowStart")); ok {
			solution.PickupWindowStart = seconds
		}
		if seconds, ok := soap.ParseSeconds(soap.ExtractField(fragment, "PickupWindowEnd")); ok {
			solution.PickupWindowEnd = seconds
		}

		// A solution the save step can not address is no solution at all
		if solution.ScheduleID == "" || solution.SolutionNumber == "" {
			continue
		}

		solutions = append(solutions, solution)
	}

	return solutions
}

// Schedule is step two, asking the backend for pickup windows for a draft.
// Every offered solution is returned in the order the backend gave them.
func (s *Service) Schedule(ctx context.Context, session string, draft *ctdf.TripDraft) ([]ctdf.ScheduleSolution, error) {
	response, err := s.call(ctx, session, OperationScheduleTrip, soap.Params{
		{Key: "BookingId", Value: draft.BookingID},
	})
	if err != nil {
		return nil, err
	}

	if message, isError := soap.BackendError(response); isError {
		return nil, ctdf.NewBookingConflict(message, nil)
	}

	solutions := parseSolutions(response)

	log.Info().Str("bookingid", draft.BookingID).Int("solutions", len(solutions)).Msg("Scheduled trip draft")

	return solutions, nil
}
