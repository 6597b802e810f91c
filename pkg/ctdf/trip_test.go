package ctdf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFilterUpcoming(t *testing.T) {
	assert := assert.New(t)

	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	trips := []*TripRecord{
		{BookingID: "late", Status: TripStatusScheduled, Date: day.Add(30 * time.Hour)},
		{BookingID: "done", Status: TripStatusPerformed, Date: day.Add(1 * time.Hour)},
		{BookingID: "first", Status: TripStatusPending, Date: day.Add(2 * time.Hour)},
		{BookingID: "tie-a", Status: TripStatusUnscheduled, Date: day.Add(5 * time.Hour)},
		{BookingID: "cancelled", Status: TripStatusCancelled, Date: day.Add(3 * time.Hour)},
		{BookingID: "tie-b", Status: TripStatusArrived, Date: day.Add(5 * time.Hour)},
	}

	upcoming := FilterUpcoming(trips)

	ids := []string{}
	for _, trip := range upcoming {
		ids = append(ids, trip.BookingID)
	}

	assert.Equal([]string{"first", "tie-a", "tie-b", "late"}, ids)
	assert.Len(trips, 6)
	assert.Empty(FilterUpcoming(nil))
}
