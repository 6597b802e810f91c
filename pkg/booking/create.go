package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/paratransit/pkg/ctdf"
	"github.com/travigo/paratransit/pkg/rules"
	"github.com/travigo/paratransit/pkg/soap"
)

var errMissingBookingID = errors.New("create response has no BookingId")

func addressParams(address ctdf.GeocodedAddress) soap.Params {
	return soap.Params{
		{Key: "AddrNo", Value: address.StreetNumber},
		{Key: "OnStreet", Value: address.StreetName},
		{Key: "City", Value: address.City},
		{Key: "State", Value: address.State},
		{Key: "Zip", Value: address.PostalCode},
		{Key: "Lat", Value: address.Latitude},
		{Key: "Lon", Value: address.Longitude},
	}
}

// passengerFragment repeats a Passenger element once per rider, the create
// operation does not accept a count
func passengerFragment(passengers *ctdf.AdditionalPassengers, device ctdf.MobilityDevice) soap.Raw {
	if passengers == nil || passengers.Count < 1 {
		return ""
	}

	spaceType := ctdf.MobilityDeviceAmbulatory
	if device == ctdf.MobilityDeviceServiceAnimal {
		spaceType = device
	}

	var builder strings.Builder
	for i := 0; i < passengers.Count; i++ {
		builder.WriteString("<Passenger>")
		builder.WriteString(string(soap.Fragment(soap.Params{
			{Key: "PassengerType", Value: string(passengers.Type)},
			{Key: "SpaceType", Value: string(spaceType)},
		})))
		builder.WriteString("</Passenger>")
	}

	return soap.Raw(builder.String())
}

func createTripParams(clientID string, intent ctdf.BookingIntent, pickupInstant time.Time, pickup ctdf.GeocodedAddress, destination ctdf.GeocodedAddress) soap.Params {
	var passengerInfo any
	if fragment := passengerFragment(intent.AdditionalPassengers, intent.MobilityDevice); fragment != "" {
		passengerInfo = fragment
	}

	var spaceType any
	if intent.MobilityDevice != ctdf.MobilityDeviceNone {
		spaceType = string(intent.MobilityDevice)
	}

	return soap.Params{
		{Key: "ClientId", Value: clientID},
		{Key: "BookingRequest", Value: soap.Params{
			{Key: "RawDate", Value: soap.FormatDate(pickupInstant)},
			{Key: "SpaceType", Value: spaceType},
			{Key: "PurposeId", Value: soap.Optional(intent.Purpose)},
			{Key: "PickUpLeg", Value: soap.Params{
				{Key: "ReqTime", Value: soap.SecondsSinceMidnight(pickupInstant)},
				{Key: "Address", Value: addressParams(pickup)},
				{Key: "Phone", Value: soap.Optional(rules.DigitsOnly(intent.CallbackPhone))},
				{Key: "AlternatePhone", Value: soap.Optional(rules.DigitsOnly(intent.AlternateCallback))},
				{Key: "Comments", Value: soap.Optional(intent.PickupComments)},
			}},
			{Key: "DropOffLeg", Value: soap.Params{
				{Key: "Address", Value: addressParams(destination)},
				{Key: "Comments", Value: soap.Optional(intent.DestinationComment)},
			}},
			{Key: "PassengerInfo", Value: passengerInfo},
		}},
	}
}

// CreateDraft is step one of a booking. The backend holds the returned
// draft until a solution is saved for it; nothing here ever removes it.
func (s *Service) CreateDraft(ctx context.Context, session string, clientID string, intent ctdf.BookingIntent, pickup ctdf.GeocodedAddress, destination ctdf.GeocodedAddress) (*ctdf.TripDraft, error) {
	pickupInstant, err := rules.ParsePickup(intent.PickupDate, intent.PickupTime, s.Location)
	if err != nil {
		return nil, ctdf.NewValidationFailure(rules.MessageUnparseablePickup, err)
	}

	response, err := s.call(ctx, session, OperationCreateTrip, createTripParams(clientID, intent, pickupInstant, pickup, destination))
	if err != nil {
		return nil, err
	}

	if message, isError := soap.BackendError(response); isError {
		return nil, ctdf.NewBookingConflict(message, nil)
	}

	bookingID := soap.ExtractField(response, "BookingId")
	if bookingID == "" || bookingID == "0" {
		return nil, ctdf.NewBookingConflict("The trip request was not accepted", errMissingBookingID)
	}

	log.Info().Str("bookingid", bookingID).Msg("Created trip draft")

	return &ctdf.TripDraft{BookingID: bookingID}, nil
}
