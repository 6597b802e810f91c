package ctdf

import (
	"strings"

	"golang.org/x/exp/slices"
)

type TripStatusCode string

const (
	TripStatusScheduled   TripStatusCode = "Scheduled"
	TripStatusUnscheduled TripStatusCode = "Unscheduled"
	TripStatusArrived     TripStatusCode = "Arrived"
	TripStatusPending     TripStatusCode = "Pending"
	TripStatusPerformed   TripStatusCode = "Performed"
	TripStatusCancelled   TripStatusCode = "Cancelled"
	TripStatusNoShow      TripStatusCode = "No-Show"
	TripStatusMissed      TripStatusCode = "Missed"
	TripStatusRefused     TripStatusCode = "Refused"
)

type TripStatus struct {
	Code        TripStatusCode `groups:"basic"`
	Label       string         `groups:"basic"`
	Description string         `groups:"detailed"`
	IsActive    bool           `groups:"basic"`
}

// TripStatuses is the full taxonomy in display order
var TripStatuses = []TripStatus{
	{
		Code:        TripStatusScheduled,
		Label:       "Scheduled",
		Description: "Trip is booked and has been assigned a pickup window",
		IsActive:    true,
	},
	{
		Code:        TripStatusUnscheduled,
		Label:       "Unscheduled",
		Description: "Trip request was received but has not been placed on a schedule yet",
		IsActive:    true,
	},
	{
		Code:        TripStatusArrived,
		Label:       "Vehicle Arrived",
		Description: "Vehicle has arrived at the pickup location",
		IsActive:    true,
	},
	{
		Code:        TripStatusPending,
		Label:       "Pending",
		Description: "Trip is awaiting confirmation from the provider",
		IsActive:    true,
	},
	{
		Code:        TripStatusPerformed,
		Label:       "Completed",
		Description: "Trip was completed",
		IsActive:    false,
	},
	{
		Code:        TripStatusCancelled,
		Label:       "Cancelled",
		Description: "Trip was cancelled",
		IsActive:    false,
	},
	{
		Code:        TripStatusNoShow,
		Label:       "No Show",
		Description: "Rider was not present at the pickup location within the pickup window",
		IsActive:    false,
	},
	{
		Code:        TripStatusMissed,
		Label:       "Missed",
		Description: "Vehicle did not make the pickup within the pickup window",
		IsActive:    false,
	},
	{
		Code:        TripStatusRefused,
		Label:       "Refused",
		Description: "Rider refused the trip when the vehicle arrived",
		IsActive:    false,
	},
}

type tripStatusKeyword struct {
	Keyword string
	Code    TripStatusCode
}

// Order matters. "unscheduled" has to be tried before "scheduled" and the
// no-show spellings before anything that could appear in a longer phrase.
var tripStatusKeywords = []tripStatusKeyword{
	{"unscheduled", TripStatusUnscheduled},
	{"no-show", TripStatusNoShow},
	{"no show", TripStatusNoShow},
	{"noshow", TripStatusNoShow},
	{"cancel", TripStatusCancelled},
	{"perform", TripStatusPerformed},
	{"complete", TripStatusPerformed},
	{"arrive", TripStatusArrived},
	{"pending", TripStatusPending},
	{"missed", TripStatusMissed},
	{"refuse", TripStatusRefused},
	{"scheduled", TripStatusScheduled},
}

func ParseTripStatus(text string) TripStatusCode {
	lowered := strings.ToLower(strings.TrimSpace(text))

	for _, keyword := range tripStatusKeywords {
		if strings.Contains(lowered, keyword.Keyword) {
			return keyword.Code
		}
	}

	return TripStatusUnscheduled
}

func (c TripStatusCode) Info() TripStatus {
	index := slices.IndexFunc(TripStatuses, func(s TripStatus) bool {
		return s.Code == c
	})

	if index < 0 {
		return TripStatus{Code: c, Label: string(c)}
	}

	return TripStatuses[index]
}

func (c TripStatusCode) IsActive() bool {
	return c.Info().IsActive
}
