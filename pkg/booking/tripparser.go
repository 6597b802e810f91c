package booking

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/travigo/paratransit/pkg/ctdf"
	"github.com/travigo/paratransit/pkg/soap"
)

type tripLeg struct {
	fragment string

	eventsInfo   string
	providerInfo string
}

func newTripLeg(fragment string) tripLeg {
	return tripLeg{
		fragment:     fragment,
		eventsInfo:   soap.ExtractInner(fragment, "EventsInfo"),
		providerInfo: soap.ExtractInner(fragment, "ProviderInfo"),
	}
}

func (l tripLeg) status() string {
	return soap.ExtractFieldFirst(l.eventsInfo, "Status", "EventStatus")
}

func (l tripLeg) estimatedTime() string {
	return soap.SecondsFieldToClock(soap.ExtractFieldFirst(l.eventsInfo, "ETA", "EstTime"))
}

func (l tripLeg) address() string {
	address := soap.ExtractInner(l.fragment, "Address")
	if address == "" {
		address = l.fragment
	}

	street := strings.TrimSpace(fmt.Sprintf("%s %s", soap.ExtractField(address, "AddrNo"), soap.ExtractField(address, "OnStreet")))
	stateZip := strings.TrimSpace(fmt.Sprintf("%s %s", soap.ExtractField(address, "State"), soap.ExtractField(address, "Zip")))

	parts := []string{}
	for _, part := range []string{soap.ExtractField(address, "AddrName"), street, soap.ExtractField(address, "City"), stateZip} {
		if part != "" {
			parts = append(parts, part)
		}
	}

	return strings.Join(parts, ", ")
}

// parsePassengers totals passengers by type. Some responses repeat the
// Passenger element per rider, others give one element with a count.
func parsePassengers(booking string) []*ctdf.AdditionalPassengers {
	passengers := []*ctdf.AdditionalPassengers{}
	byType := map[ctdf.PassengerType]*ctdf.AdditionalPassengers{}

	for _, fragment := range soap.ExtractAll(soap.ExtractInner(booking, "PassengerInfo"), "Passenger") {
		passengerType := ctdf.PassengerType(soap.ExtractFieldFirst(fragment, "PassengerType", "PassType"))
		if passengerType == "" {
			continue
		}

		count := 1
		if parsed, err := strconv.Atoi(soap.ExtractField(fragment, "Count")); err == nil && parsed > 0 {
			count = parsed
		}

		if existing, ok := byType[passengerType]; ok {
			existing.Count += count
			continue
		}

		record := &ctdf.AdditionalPassengers{Type: passengerType, Count: count}
		byType[passengerType] = record
		passengers = append(passengers, record)
	}

	return passengers
}

func parseFare(text string) float64 {
	text = strings.TrimPrefix(strings.TrimSpace(text), "$")
	if text == "" {
		return 0
	}

	fare, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0
	}

	return fare
}

// ParseTripRecord builds a trip from one booking fragment of a trip list
// response.
func ParseTripRecord(booking string, location *time.Location) *ctdf.TripRecord {
	pickupLeg := newTripLeg(soap.ExtractInner(booking, "PickUpLeg"))
	dropoffLeg := newTripLeg(soap.ExtractInner(booking, "DropOffLeg"))

	// Fields sitting directly on the booking, so leg values of the same
	// name are never picked up by mistake
	bookingLevel := soap.RemoveElements(soap.RemoveElements(booking, "PickUpLeg"), "DropOffLeg")
	bookingProviderInfo := soap.ExtractInner(bookingLevel, "ProviderInfo")

	// Each companion in PassengerInfo carries its own SpaceType, only the
	// booking's own one describes the rider
	riderLevel := soap.RemoveElements(bookingLevel, "PassengerInfo")

	// The booking level status has been seen reporting Scheduled for trips
	// the legs show as Performed, legs always win
	statusText := pickupLeg.status()
	if statusText == "" {
		statusText = dropoffLeg.status()
	}
	if statusText == "" {
		statusText = soap.ExtractFieldFirst(bookingLevel, "SchedStatus", "Status")
	}
	status := ctdf.ParseTripStatus(statusText)

	providerInfo := pickupLeg.providerInfo
	if soap.ExtractField(providerInfo, "ProviderName") == "" {
		providerInfo = dropoffLeg.providerInfo
	}
	if soap.ExtractField(providerInfo, "ProviderName") == "" {
		providerInfo = bookingProviderInfo
	}

	windowStartSeconds, hasWindowStart := soap.ParseSeconds(soap.ExtractFieldFirst(pickupLeg.fragment, "PickupWindowStart", "NegTime"))
	windowEndSeconds, hasWindowEnd := soap.ParseSeconds(soap.ExtractField(pickupLeg.fragment, "PickupWindowEnd"))

	record := &ctdf.TripRecord{
		BookingID:          soap.ExtractField(bookingLevel, "BookingId"),
		ConfirmationNumber: soap.ExtractFieldFirst(bookingLevel, "CreationConfirmationNumber", "ConfirmationNumber"),

		PickupAddress:      pickupLeg.address(),
		DestinationAddress: dropoffLeg.address(),

		Status:     status,
		StatusInfo: status.Info(),

		EstimatedPickupTime:  pickupLeg.estimatedTime(),
		EstimatedDropoffTime: dropoffLeg.estimatedTime(),

		MobilityDevice:       ctdf.MobilityDevice(soap.ExtractField(riderLevel, "SpaceType")),
		AdditionalPassengers: parsePassengers(bookingLevel),

		CallbackPhone:      soap.ExtractField(pickupLeg.fragment, "Phone"),
		PickupComments:     soap.ExtractField(pickupLeg.fragment, "Comments"),
		DestinationComment: soap.ExtractField(dropoffLeg.fragment, "Comments"),

		Fare: parseFare(soap.ExtractFieldFirst(bookingLevel, "FareAmount", "Fare")),

		ProviderName:        soap.ExtractField(providerInfo, "ProviderName"),
		ProviderDescription: soap.ExtractField(providerInfo, "ProviderDescription"),
	}

	if hasWindowStart {
		record.PickupWindowStart = soap.SecondsToClock(windowStartSeconds)
	}
	if hasWindowEnd {
		record.PickupWindowEnd = soap.SecondsToClock(windowEndSeconds)
	}

	if date, err := soap.ParseDate(soap.ExtractField(bookingLevel, "RawDate"), location); err == nil {
		if hasWindowStart {
			date = time.Date(date.Year(), date.Month(), date.Day(), windowStartSeconds/3600, (windowStartSeconds%3600)/60, windowStartSeconds%60, 0, location)
		}
		record.Date = date
	}

	return record
}
