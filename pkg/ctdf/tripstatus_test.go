package ctdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTripStatus(t *testing.T) {
	assert := assert.New(t)

	tests := []struct {
		input    string
		expected TripStatusCode
	}{
		{"Scheduled", TripStatusScheduled},
		{"SCHEDULED", TripStatusScheduled},
		{"Unscheduled", TripStatusUnscheduled},
		{"UNSCHEDULED", TripStatusUnscheduled},
		{"Trip unscheduled by dispatcher", TripStatusUnscheduled},
		{"Performed", TripStatusPerformed},
		{"Completed", TripStatusPerformed},
		{"Cancelled", TripStatusCancelled},
		{"Canceled - late", TripStatusCancelled},
		{"NoShow", TripStatusNoShow},
		{"No Show", TripStatusNoShow},
		{"no-show", TripStatusNoShow},
		{"Vehicle Arrived", TripStatusArrived},
		{"Pending", TripStatusPending},
		{"Missed Trip", TripStatusMissed},
		{"Refused", TripStatusRefused},
		{"Cancelled (was Scheduled)", TripStatusCancelled},
		{"Rescheduled then Cancelled", TripStatusCancelled},
		{"No Show - Performed", TripStatusNoShow},
		{"Arrived, then no-show", TripStatusNoShow},
		{"Performed after being unscheduled", TripStatusUnscheduled},
		{"Pending - Scheduled", TripStatusPending},
		{"Arrived - refused by rider", TripStatusArrived},
		{"Cancelled - missed", TripStatusCancelled},
		{"", TripStatusUnscheduled},
		{"Waitlisted", TripStatusUnscheduled},
	}

	for _, test := range tests {
		assert.Equal(test.expected, ParseTripStatus(test.input), test.input)
	}
}

func TestTripStatusInfo(t *testing.T) {
	assert := assert.New(t)

	assert.True(TripStatusScheduled.IsActive())
	assert.True(TripStatusUnscheduled.IsActive())
	assert.True(TripStatusArrived.IsActive())
	assert.True(TripStatusPending.IsActive())
	assert.False(TripStatusPerformed.IsActive())
	assert.False(TripStatusCancelled.IsActive())
	assert.False(TripStatusNoShow.IsActive())

	assert.Equal("Completed", TripStatusPerformed.Info().Label)
	assert.Equal(TripStatusMissed, TripStatusMissed.Info().Code)

	unknown := TripStatusCode("Teleported")
	assert.False(unknown.IsActive())
	assert.Equal("Teleported", unknown.Info().Label)

	for _, status := range TripStatuses {
		assert.Equal(status.Code, ParseTripStatus(string(status.Code)), status.Code)
	}
}
