package ctdf

import (
	"sort"
	"time"
)

// TripRecord is a trip as returned by the booking backend. Records are built
// fresh from every query and never written back.
type TripRecord struct {
	BookingID          string `groups:"basic"`
	ConfirmationNumber string `groups:"basic"`

	// Date carries the pickup window start when the backend supplied one
	Date time.Time `groups:"basic"`

	PickupWindowStart string `groups:"basic"`
	PickupWindowEnd   string `groups:"basic"`

	PickupAddress      string `groups:"basic"`
	DestinationAddress string `groups:"basic"`

	Status     TripStatusCode `groups:"basic"`
	StatusInfo TripStatus     `groups:"detailed"`

	EstimatedPickupTime  string `groups:"basic"`
	EstimatedDropoffTime string `groups:"basic"`

	MobilityDevice       MobilityDevice          `groups:"detailed"`
	AdditionalPassengers []*AdditionalPassengers `groups:"detailed"`

	CallbackPhone      string `groups:"detailed"`
	PickupComments     string `groups:"detailed"`
	DestinationComment string `groups:"detailed"`

	Fare float64 `groups:"basic"`

	ProviderName        string `groups:"basic"`
	ProviderDescription string `groups:"basic"`
}

// FilterUpcoming keeps trips in an active status ordered by date. Records
// sharing a date keep their original relative order.
func FilterUpcoming(trips []*TripRecord) []*TripRecord {
	upcoming := []*TripRecord{}

	for _, trip := range trips {
		if trip.Status.IsActive() {
			upcoming = append(upcoming, trip)
		}
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].Date.Before(upcoming[j].Date)
	})

	return upcoming
}
