package booking

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/paratransit/pkg/config"
	"github.com/travigo/paratransit/pkg/ctdf"
	"github.com/travigo/paratransit/pkg/geocoding"
	"github.com/travigo/paratransit/pkg/rules"
	"github.com/travigo/paratransit/pkg/soap"
)

const (
	OperationCreateTrip     = "PassCreateTrip"
	OperationScheduleTrip   = "PassScheduleTrip"
	OperationSaveSolution   = "PassSaveSolution"
	OperationGetClientTrips = "PassGetClientTrips"
	OperationCancelTrip     = "PassCancelTrip"
)

// Scheduling is slow on the backend so it goes to the async endpoint
var operationEndpoints = map[string]soap.Endpoint{
	OperationCreateTrip:     soap.EndpointSync,
	OperationScheduleTrip:   soap.EndpointAsync,
	OperationSaveSolution:   soap.EndpointSync,
	OperationGetClientTrips: soap.EndpointSync,
	OperationCancelTrip:     soap.EndpointSync,
}

type AddressResolver interface {
	Resolve(ctx context.Context, address string) (ctdf.GeocodedAddress, error)
}

type EventPublisher interface {
	Publish(event *ctdf.Event) error
}

// Service is the booking client. It holds no per-rider state, the session
// is passed into every call, so one Service can be shared between callers.
type Service struct {
	Codec     soap.Codec
	Transport soap.Transport
	Addresses AddressResolver

	Location *time.Location
	Now      func() time.Time

	Publisher EventPublisher
}

func NewService(cfg *config.Config, publisher EventPublisher) *Service {
	codec := soap.NewCodec(cfg.Backend.Namespace)

	return &Service{
		Codec:     codec,
		Transport: soap.NewHTTPTransport(cfg.Backend.SyncURL, cfg.Backend.AsyncURL, codec, cfg.BackendTimeout()),
		Addresses: geocoding.Geocoder{
			Provider: geocoding.NewNominatimProvider(cfg.Geocoder.Endpoint, cfg.Geocoder.UserAgent, cfg.Geocoder.Email),
		},
		Location:  cfg.Location(),
		Publisher: publisher,
	}
}

func (s *Service) CurrentTime() time.Time {
	if s.Now == nil {
		return time.Now().In(s.Location)
	}

	return s.Now().In(s.Location)
}

func (s *Service) call(ctx context.Context, session string, operation string, params soap.Params) (string, error) {
	body := s.Codec.Envelope(operation, params)

	return s.Transport.Post(ctx, operationEndpoints[operation], session, operation, body)
}

func (s *Service) publish(event *ctdf.Event) {
	if s.Publisher == nil {
		return
	}

	event.Timestamp = time.Now()

	if err := s.Publisher.Publish(event); err != nil {
		log.Error().Err(err).Str("type", string(event.Type)).Msg("Failed to publish booking event")
	}
}

func (s *Service) ValidateBooking(intent ctdf.BookingIntent, now time.Time) ctdf.ValidationResult {
	return rules.ValidateBooking(intent, now, s.Location)
}

func (s *Service) ValidateCancellation(tripDate string, pickupStart string, now time.Time) ctdf.ValidationResult {
	return rules.ValidateCancellation(tripDate, pickupStart, now, s.Location)
}
