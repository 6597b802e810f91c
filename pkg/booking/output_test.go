package booking

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/travigo/paratransit/pkg/ctdf"
)

func outputTrips() []*ctdf.TripRecord {
	return []*ctdf.TripRecord{
		{
			BookingID:         "1",
			Date:              time.Date(2024, 3, 14, 9, 30, 0, 0, time.UTC),
			PickupWindowStart: "9:30 AM",
			Status:            ctdf.TripStatusScheduled,
			StatusInfo:        ctdf.TripStatusScheduled.Info(),
			PickupAddress:     "100 Main Street, Springfield",
			Fare:              3.5,
			ProviderName:      "Metro",
		},
		{
			BookingID:    "2",
			Status:       ctdf.TripStatusPerformed,
			StatusInfo:   ctdf.TripStatusPerformed.Info(),
			Fare:         1,
			ProviderName: "County",
		},
	}
}

func TestFilterTrips(t *testing.T) {
	assert := assert.New(t)

	trips, err := FilterTrips(outputTrips(), `Fare > 2 && ProviderName == "Metro"`)
	assert.NoError(err)
	assert.Len(trips, 1)
	assert.Equal("1", trips[0].BookingID)

	trips, err = FilterTrips(outputTrips(), "")
	assert.NoError(err)
	assert.Len(trips, 2)

	_, err = FilterTrips(outputTrips(), `NotAField > 1`)
	assert.Error(err)

	_, err = FilterTrips(outputTrips(), `Fare + 1`)
	assert.Error(err)
}

func TestWriteTripsCSV(t *testing.T) {
	assert := assert.New(t)

	var buffer bytes.Buffer
	assert.NoError(WriteTrips(&buffer, outputTrips(), OutputCSV))

	lines := strings.Split(strings.TrimSpace(buffer.String()), "\n")
	assert.Len(lines, 3)
	assert.True(strings.HasPrefix(lines[0], "booking_id,confirmation_number,date,"))
	assert.Contains(lines[1], "2024-03-14")
	assert.Contains(lines[1], `"100 Main Street, Springfield"`)
	assert.Contains(lines[2], "Completed")
}

func TestWriteTripsFormats(t *testing.T) {
	assert := assert.New(t)

	var buffer bytes.Buffer
	assert.NoError(WriteTrips(&buffer, outputTrips(), OutputJSON))
	assert.Contains(buffer.String(), `"BookingID": "1"`)

	buffer.Reset()
	assert.NoError(WriteTrips(&buffer, outputTrips(), OutputPretty))
	assert.Contains(buffer.String(), "Metro")

	assert.Error(WriteTrips(&buffer, outputTrips(), "xml"))
}
