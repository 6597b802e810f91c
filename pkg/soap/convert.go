package soap

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const SecondsPerDay = 24 * 60 * 60

// DateFormat is the backend's 8 digit date
const DateFormat = "20060102"

func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}

func ParseDate(text string, location *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateFormat, strings.TrimSpace(text), location)
}

// SecondsToClock formats seconds since midnight as a 12 hour clock time.
// Seconds are only included when non-zero so the result always parses back
// to the same value.
func SecondsToClock(seconds int) string {
	if seconds < 0 {
		return ""
	}
	seconds = seconds % SecondsPerDay

	hour := seconds / 3600
	minute := (seconds % 3600) / 60
	second := seconds % 60

	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}

	displayHour := hour % 12
	if displayHour == 0 {
		displayHour = 12
	}

	if second != 0 {
		return fmt.Sprintf("%d:%02d:%02d %s", displayHour, minute, second, suffix)
	}

	return fmt.Sprintf("%d:%02d %s", displayHour, minute, suffix)
}

var clockPattern = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?(?::(\d{2}))?\s*(?:([AaPp])\.?\s*[Mm]\.?)?$`)

// ClockToSeconds parses a 12 hour ("9:30 AM", "9 pm") or 24 hour ("21:30",
// "07:05:10") clock time into seconds since midnight.
func ClockToSeconds(text string) (int, error) {
	match := clockPattern.FindStringSubmatch(strings.TrimSpace(text))
	if match == nil {
		return 0, fmt.Errorf("unrecognised time %q", text)
	}

	hour, _ := strconv.Atoi(match[1])
	minute := 0
	second := 0

	if match[2] != "" {
		minute, _ = strconv.Atoi(match[2])
	}
	if match[3] != "" {
		second, _ = strconv.Atoi(match[3])
	}

	meridiem := strings.ToUpper(match[4])

	switch meridiem {
	case "A", "P":
		if hour < 1 || hour > 12 {
			return 0, fmt.Errorf("hour out of range in %q", text)
		}
		hour = hour % 12
		if meridiem == "P" {
			hour += 12
		}
	default:
		if match[2] == "" {
			return 0, fmt.Errorf("24 hour time %q is missing minutes", text)
		}
		if hour > 23 {
			return 0, fmt.Errorf("hour out of range in %q", text)
		}
	}

	if minute > 59 || second > 59 {
		return 0, fmt.Errorf("minute or second out of range in %q", text)
	}

	return hour*3600 + minute*60 + second, nil
}

// ParseSeconds reads a seconds-since-midnight field, reporting false when
// the field is empty or not a number.
func ParseSeconds(text string) (int, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, false
	}

	seconds, err := strconv.Atoi(text)
	if err != nil || seconds < 0 {
		return 0, false
	}

	return seconds, true
}

// SecondsFieldToClock reads a seconds field and formats it, returning an
// empty string for a missing field
func SecondsFieldToClock(text string) string {
	seconds, ok := ParseSeconds(text)
	if !ok {
		return ""
	}

	return SecondsToClock(seconds)
}

func SecondsSinceMidnight(t time.Time) int {
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}

func MicrodegreesToDegrees(microdegrees int) float64 {
	return float64(microdegrees) / 1e6
}

func DegreesToMicrodegrees(degrees float64) int {
	return int(math.Round(degrees * 1e6))
}
