package rules

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/travigo/paratransit/pkg/ctdf"
	"golang.org/x/exp/slices"
)

func ValidateIntentShape(intent ctdf.BookingIntent) ctdf.ValidationResult {
	if strings.TrimSpace(intent.PickupAddress) == "" {
		return ctdf.InvalidResult(ctdf.FailureCategoryValidation, "A pickup address is required", true)
	}

	if strings.TrimSpace(intent.DestinationAddress) == "" {
		return ctdf.InvalidResult(ctdf.FailureCategoryValidation, "A destination address is required", true)
	}

	if intent.MobilityDevice != ctdf.MobilityDeviceNone && !slices.Contains(ctdf.MobilityDevices, intent.MobilityDevice) {
		return ctdf.InvalidResult(ctdf.FailureCategoryValidation, fmt.Sprintf("Unknown mobility device %q", intent.MobilityDevice), true)
	}

	if passengers := intent.AdditionalPassengers; passengers != nil {
		if !slices.Contains(ctdf.PassengerTypes, passengers.Type) {
			return ctdf.InvalidResult(ctdf.FailureCategoryValidation, fmt.Sprintf("Unknown passenger type %q", passengers.Type), true)
		}

		if passengers.Count < 1 || passengers.Count > ctdf.MaxAdditionalPassengers {
			return ctdf.InvalidResult(ctdf.FailureCategoryValidation, "Between 1 and 3 additional passengers can travel on a trip", true)
		}
	}

	for _, phone := range []string{intent.CallbackPhone, intent.AlternateCallback} {
		if phone != "" && !validPhone(phone) {
			return ctdf.InvalidResult(ctdf.FailureCategoryValidation, fmt.Sprintf("Callback phone %q is not a valid phone number", phone), true)
		}
	}

	return ctdf.ValidResult("")
}

// validPhone wants 10 or 11 digits once punctuation is removed
func validPhone(phone string) bool {
	digits := 0

	for _, r := range phone {
		switch {
		case unicode.IsDigit(r):
			digits++
		case strings.ContainsRune(" -().+", r):
		default:
			return false
		}
	}

	return digits == 10 || digits == 11
}

// ValidateBooking is the full gate a booking intent has to pass before any
// request is sent
func ValidateBooking(intent ctdf.BookingIntent, now time.Time, location *time.Location) ctdf.ValidationResult {
	if result := ValidateIntentShape(intent); !result.Valid {
		return result
	}

	return ValidateBookingWindow(intent.PickupDate, intent.PickupTime, now, location)
}

// DigitsOnly strips everything but digits, the backend stores bare numbers
func DigitsOnly(text string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, text)
}
