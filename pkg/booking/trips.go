package booking

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/iter"
	"github.com/travigo/paratransit/pkg/ctdf"
	"github.com/travigo/paratransit/pkg/soap"
	"github.com/travigo/paratransit/pkg/transforms"
)

// GetTrips fetches a client's trips between the optional from and to dates.
// Nothing is cached, every call goes to the backend.
func (s *Service) GetTrips(ctx context.Context, session string, clientID string, from *time.Time, to *time.Time) ([]*ctdf.TripRecord, error) {
	if strings.TrimSpace(clientID) == "" {
		return nil, ctdf.NewValidationFailure("A client ID is required", nil)
	}

	if from != nil && to != nil && to.Before(*from) {
		return nil, ctdf.NewValidationFailure("The end date is before the start date", nil)
	}

	params := soap.Params{
		{Key: "ClientId", Value: clientID},
	}
	if from != nil {
		params = append(params, soap.Param{Key: "FromDate", Value: soap.FormatDate(from.In(s.Location))})
	}
	if to != nil {
		params = append(params, soap.Param{Key: "ToDate", Value: soap.FormatDate(to.In(s.Location))})
	}

	response, err := s.call(ctx, session, OperationGetClientTrips, params)
	if err != nil {
		return nil, err
	}

	if message, isError := soap.BackendError(response); isError {
		return nil, ctdf.NewBookingConflict(message, nil)
	}

	bookings := soap.ExtractAll(response, "PassBooking")

	trips := iter.Map(bookings, func(booking *string) *ctdf.TripRecord {
		record := ParseTripRecord(*booking, s.Location)
		transforms.Transform(record)

		return record
	})

	log.Debug().Int("trips", len(trips)).Msg("Fetched client trips")

	return trips, nil
}
