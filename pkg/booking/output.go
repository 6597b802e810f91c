package booking

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/gocarina/gocsv"
	"github.com/kr/pretty"
	"github.com/travigo/paratransit/pkg/ctdf"
)

const (
	OutputPretty = "pretty"
	OutputCSV    = "csv"
	OutputJSON   = "json"
)

type tripRow struct {
	BookingID          string  `csv:"booking_id"`
	ConfirmationNumber string  `csv:"confirmation_number"`
	Date               string  `csv:"date"`
	PickupWindowStart  string  `csv:"pickup_window_start"`
	PickupWindowEnd    string  `csv:"pickup_window_end"`
	Status             string  `csv:"status"`
	PickupAddress      string  `csv:"pickup_address"`
	DestinationAddress string  `csv:"destination_address"`
	EstimatedPickup    string  `csv:"estimated_pickup"`
	EstimatedDropoff   string  `csv:"estimated_dropoff"`
	Fare               float64 `csv:"fare"`
	Provider           string  `csv:"provider"`
}

func newTripRow(trip *ctdf.TripRecord) *tripRow {
	row := &tripRow{
		BookingID:          trip.BookingID,
		ConfirmationNumber: trip.ConfirmationNumber,
		PickupWindowStart:  trip.PickupWindowStart,
		PickupWindowEnd:    trip.PickupWindowEnd,
		Status:             trip.StatusInfo.Label,
		PickupAddress:      trip.PickupAddress,
		DestinationAddress: trip.DestinationAddress,
		EstimatedPickup:    trip.EstimatedPickupTime,
		EstimatedDropoff:   trip.EstimatedDropoffTime,
		Fare:               trip.Fare,
		Provider:           trip.ProviderName,
	}
	if !trip.Date.IsZero() {
		row.Date = trip.Date.Format("2006-01-02")
	}

	return row
}

// FilterTrips keeps the trips an expr expression evaluates true for. The
// expression sees the fields of a TripRecord, eg `Fare > 2 && ProviderName == "Metro"`.
func FilterTrips(trips []*ctdf.TripRecord, expression string) ([]*ctdf.TripRecord, error) {
	if strings.TrimSpace(expression) == "" {
		return trips, nil
	}

	program, err := expr.Compile(expression, expr.Env(ctdf.TripRecord{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("filter %q: %w", expression, err)
	}

	filtered := []*ctdf.TripRecord{}
	for _, trip := range trips {
		output, err := expr.Run(program, *trip)
		if err != nil {
			return nil, fmt.Errorf("filter %q on %s: %w", expression, trip.BookingID, err)
		}

		if output.(bool) {
			filtered = append(filtered, trip)
		}
	}

	return filtered, nil
}

func WriteTrips(w io.Writer, trips []*ctdf.TripRecord, format string) error {
	switch format {
	case OutputCSV:
		rows := make([]*tripRow, 0, len(trips))
		for _, trip := range trips {
			rows = append(rows, newTripRow(trip))
		}

		return gocsv.Marshal(rows, w)
	case OutputJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")

		return encoder.Encode(trips)
	case OutputPretty, "":
		_, err := pretty.Fprintf(w, "%# v\n", trips)
		return err
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// WriteResult prints any single result of a booking command
func WriteResult(w io.Writer, result any, format string) error {
	if format == OutputJSON {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")

		return encoder.Encode(result)
	}

	_, err := pretty.Fprintf(w, "%# v\n", result)
	return err
}
