package ctdf

import "time"

type MobilityDevice string

const (
	MobilityDeviceNone              MobilityDevice = ""
	MobilityDeviceAmbulatory        MobilityDevice = "AM"
	MobilityDeviceWheelchair        MobilityDevice = "WC"
	MobilityDeviceWheelchairLarge   MobilityDevice = "WCXL"
	MobilityDeviceScooter           MobilityDevice = "SC"
	MobilityDeviceWalker            MobilityDevice = "WK"
	MobilityDeviceServiceAnimal     MobilityDevice = "SA"
	MobilityDevicePowerWheelchair   MobilityDevice = "PWC"
	MobilityDeviceStretcherOrGurney MobilityDevice = "ST"
)

var MobilityDevices = []MobilityDevice{
	MobilityDeviceAmbulatory,
	MobilityDeviceWheelchair,
	MobilityDeviceWheelchairLarge,
	MobilityDeviceScooter,
	MobilityDeviceWalker,
	MobilityDeviceServiceAnimal,
	MobilityDevicePowerWheelchair,
	MobilityDeviceStretcherOrGurney,
}

type PassengerType string

const (
	PassengerTypeCompanion       PassengerType = "CMP"
	PassengerTypePersonalCareAid PassengerType = "PCA"
	PassengerTypeGuest           PassengerType = "GUE"
	PassengerTypeChild           PassengerType = "CHD"
)

var PassengerTypes = []PassengerType{
	PassengerTypeCompanion,
	PassengerTypePersonalCareAid,
	PassengerTypeGuest,
	PassengerTypeChild,
}

const MaxAdditionalPassengers = 3

type AdditionalPassengers struct {
	Type  PassengerType `groups:"basic"`
	Count int           `groups:"basic"`
}

// BookingIntent is everything a rider asks for when requesting a trip.
// Addresses are free text and get geocoded before the backend sees them.
type BookingIntent struct {
	PickupDate string
	PickupTime string

	PickupAddress      string
	DestinationAddress string

	MobilityDevice       MobilityDevice
	AdditionalPassengers *AdditionalPassengers

	CallbackPhone      string
	AlternateCallback  string
	PickupComments     string
	DestinationComment string

	Purpose string
}

// TripDraft is the booking the backend holds after the create step. It is
// only meaningful until the solution for it is saved.
type TripDraft struct {
	BookingID string
}

type ScheduleSolution struct {
	ScheduleID        string
	SolutionSetNumber string
	SolutionNumber    string

	PickupWindowStart int
	PickupWindowEnd   int
}

type ConfirmedBooking struct {
	BookingID          string `groups:"basic"`
	ConfirmationNumber string `groups:"basic"`

	PickupDate        time.Time `groups:"basic"`
	PickupWindowStart string    `groups:"basic"`
	PickupWindowEnd   string    `groups:"basic"`
}

type CancelResult struct {
	Success bool   `groups:"basic"`
	RefCode string `groups:"basic"`
	Message string `groups:"basic"`
}
