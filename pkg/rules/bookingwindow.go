package rules

import (
	"fmt"
	"strings"
	"time"

	"github.com/travigo/paratransit/pkg/ctdf"
	"github.com/travigo/paratransit/pkg/soap"
)

const (
	MaxAdvanceDays       = 3
	MinimumBookingNotice = 2 * time.Hour
	DayBeforeCutoffHour  = 12
)

const (
	MessageUnparseablePickup  = "The pickup date or time could not be understood"
	MessagePickupInPast       = "The pickup time is in the past"
	MessageAdvanceLimit       = "Trips can only be booked up to 3 days in advance, this pickup is past the advance limit"
	MessageSameDayNotice      = "Same-day trips need at least 2 hours notice"
	MessageLateRequestNotice  = "Requests made after noon the day before pickup need at least 2 hours notice"
	WarningSameDayUnavailable = "Same-day trips are not guaranteed and depend on vehicle availability"
	WarningCutoffPassed       = "The noon cutoff the day before pickup has passed so this trip is handled like a same-day request and is not guaranteed"
)

// Numeric calendar dates accepted for both booking and cancellation,
// padded or not
var calendarDateFormats = []string{
	"2006-01-02",
	"2006-1-2",
	soap.DateFormat,
	"01/02/2006",
	"1/2/2006",
}

// ParsePickup combines a calendar date and a clock time into an instant in
// location
func ParsePickup(pickupDate string, pickupTime string, location *time.Location) (time.Time, error) {
	date, err := parseDateFormats(strings.TrimSpace(pickupDate), calendarDateFormats, location)
	if err != nil {
		return time.Time{}, err
	}

	seconds, err := soap.ClockToSeconds(pickupTime)
	if err != nil {
		return time.Time{}, err
	}

	return time.Date(date.Year(), date.Month(), date.Day(), seconds/3600, (seconds%3600)/60, seconds%60, 0, location), nil
}

func parseDateFormats(text string, formats []string, location *time.Location) (time.Time, error) {
	for _, format := range formats {
		if parsed, err := time.ParseInLocation(format, text, location); err == nil {
			return parsed, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognised date %q", text)
}

func sameDay(a time.Time, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// ValidateBookingWindow checks a requested pickup against the advance
// booking and same-day notice rules. All calendar maths happens in location,
// never the process's local zone.
func ValidateBookingWindow(pickupDate string, pickupTime string, now time.Time, location *time.Location) ctdf.ValidationResult {
	now = now.In(location)

	pickup, err := ParsePickup(pickupDate, pickupTime, location)
	if err != nil {
		return ctdf.InvalidResult(ctdf.FailureCategoryValidation, MessageUnparseablePickup, true)
	}

	if !pickup.After(now) {
		return ctdf.InvalidResult(ctdf.FailureCategoryBusinessRule, MessagePickupInPast, true)
	}

	if pickup.After(now.AddDate(0, 0, MaxAdvanceDays)) {
		return ctdf.InvalidResult(ctdf.FailureCategoryBusinessRule, MessageAdvanceLimit, true)
	}

	notice := pickup.Sub(now)

	if sameDay(pickup, now) {
		if notice < MinimumBookingNotice {
			return ctdf.InvalidResult(ctdf.FailureCategoryBusinessRule, MessageSameDayNotice, true)
		}

		return ctdf.ValidResult(WarningSameDayUnavailable)
	}

	dayBefore := pickup.AddDate(0, 0, -1)
	cutoff := time.Date(dayBefore.Year(), dayBefore.Month(), dayBefore.Day(), DayBeforeCutoffHour, 0, 0, 0, location)

	if !now.Before(cutoff) {
		if notice < MinimumBookingNotice {
			return ctdf.InvalidResult(ctdf.FailureCategoryBusinessRule, MessageLateRequestNotice, true)
		}

		return ctdf.ValidResult(WarningCutoffPassed)
	}

	return ctdf.ValidResult("")
}
