package geocoding

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/travigo/paratransit/pkg/ctdf"
	"github.com/travigo/paratransit/pkg/soap"
)

// Candidate is a single geocoder match in decimal degrees
type Candidate struct {
	Latitude  float64
	Longitude float64

	HouseNumber string
	Road        string
	City        string
	State       string
	PostalCode  string
}

// Provider resolves free text to at most one candidate. No match is a nil
// candidate with a nil error.
type Provider interface {
	GetName() string
	Geocode(ctx context.Context, address string) (*Candidate, error)
}

type Geocoder struct {
	Provider Provider
}

var leadingStreetNumber = regexp.MustCompile(`^\s*(\d+[A-Za-z]?(?:-\d+)?)\s+\S`)

// StreetNumberFromText returns the house number an address starts with
func StreetNumberFromText(address string) string {
	match := leadingStreetNumber.FindStringSubmatch(address)
	if match == nil {
		return ""
	}

	return match[1]
}

// Resolve geocodes address into the form the booking backend accepts.
// Results are not cached.
func (g Geocoder) Resolve(ctx context.Context, address string) (ctdf.GeocodedAddress, error) {
	if strings.TrimSpace(address) == "" {
		return ctdf.GeocodedAddress{}, ctdf.NewValidationFailure("An address is required", nil)
	}

	candidate, err := g.Provider.Geocode(ctx, address)
	if err != nil {
		return ctdf.GeocodedAddress{}, ctdf.NewNetworkError("The address lookup service could not be reached", err)
	}

	if candidate == nil {
		log.Debug().Str("provider", g.Provider.GetName()).Msg("Geocoder returned no match")

		return ctdf.GeocodedAddress{}, ctdf.NewValidationFailure(
			fmt.Sprintf("The address %q could not be found, please check it and try again", address),
			nil,
		)
	}

	streetNumber := strings.TrimSpace(candidate.HouseNumber)
	if streetNumber == "" {
		streetNumber = StreetNumberFromText(address)
	}

	return ctdf.GeocodedAddress{
		Latitude:     soap.DegreesToMicrodegrees(candidate.Latitude),
		Longitude:    soap.DegreesToMicrodegrees(candidate.Longitude),
		StreetNumber: streetNumber,
		StreetName:   strings.TrimSpace(candidate.Road),
		City:         strings.TrimSpace(candidate.City),
		State:        strings.TrimSpace(candidate.State),
		PostalCode:   strings.TrimSpace(candidate.PostalCode),
	}, nil
}
