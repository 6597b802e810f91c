package rules

import (
	"strings"
	"time"

	"github.com/travigo/paratransit/pkg/ctdf"
	"github.com/travigo/paratransit/pkg/soap"
)

const (
	MinimumCancellationNotice = 120 * time.Minute
	LateCancellationWarning   = 180 * time.Minute
)

const (
	WarningCancellationUnchecked = "The trip time could not be checked against the cancellation notice period"
	MessageTripAlreadyStarted    = "This trip's pickup time has already passed and it can no longer be cancelled online. Please call your transit provider."
	MessageCancellationTooLate   = "Trips must be cancelled at least 2 hours before the pickup window. Please call your transit provider directly to cancel this trip."
	WarningLateCancellation      = "This trip is less than 3 hours away. Late cancellations may count against your record."
)

var tripDateFormats = append([]string{
	"Monday, January 2, 2006",
	"Monday, Jan 2, 2006",
	"Mon, January 2, 2006",
	"Mon, Jan 2, 2006",
	"January 2, 2006",
}, calendarDateFormats...)

// ParseTripStart reads a trip date and pickup window start as produced by
// the backend or by the trip parser
func ParseTripStart(tripDate string, pickupStart string, location *time.Location) (time.Time, error) {
	date, err := parseDateFormats(strings.TrimSpace(tripDate), tripDateFormats, location)
	if err != nil {
		return time.Time{}, err
	}

	// Accept a whole window like "9:00 AM - 9:30 AM"
	if start, _, found := strings.Cut(pickupStart, " - "); found {
		pickupStart = start
	}

	seconds, err := soap.ClockToSeconds(pickupStart)
	if err != nil {
		return time.Time{}, err
	}

	return time.Date(date.Year(), date.Month(), date.Day(), seconds/3600, (seconds%3600)/60, seconds%60, 0, location), nil
}

// ValidateCancellation checks the minimum cancellation notice. Anything it
// can not parse is allowed through with a warning, a rider must never be
// stopped from cancelling by a formatting problem.
func ValidateCancellation(tripDate string, pickupStart string, now time.Time, location *time.Location) ctdf.ValidationResult {
	pickup, err := ParseTripStart(tripDate, pickupStart, location)
	if err != nil {
		return ctdf.ValidResult(WarningCancellationUnchecked)
	}

	remaining := pickup.Sub(now)

	switch {
	case remaining <= 0:
		return ctdf.InvalidResult(ctdf.FailureCategoryBusinessRule, MessageTripAlreadyStarted, false)
	case remaining < MinimumCancellationNotice:
		return ctdf.InvalidResult(ctdf.FailureCategoryBusinessRule, MessageCancellationTooLate, false)
	case remaining < LateCancellationWarning:
		return ctdf.ValidResult(WarningLateCancellation)
	default:
		return ctdf.ValidResult("")
	}
}
