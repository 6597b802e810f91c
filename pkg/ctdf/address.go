package ctdf

import "fmt"

// GeocodedAddress is a resolved address in the form the booking backend
// expects. Coordinates are integer microdegrees.
type GeocodedAddress struct {
	Latitude  int
	Longitude int

	StreetNumber string
	StreetName   string
	City         string
	State        string
	PostalCode   string
}

func (a GeocodedAddress) String() string {
	return fmt.Sprintf("%s %s, %s, %s %s", a.StreetNumber, a.StreetName, a.City, a.State, a.PostalCode)
}
