package soap

import (
	"errors"
	"strings"
)

var ErrNoResponse = errors.New("no response from booking service")

// BackendError looks for any of the ways the backend reports a rejected
// request and returns its message.
func BackendError(body string) (string, bool) {
	if fault := ExtractField(body, "faultstring"); fault != "" {
		return fault, true
	}

	if message := ExtractField(body, "ErrorMessage"); message != "" {
		return message, true
	}

	if errorsBlock := ExtractInner(body, "Errors"); strings.TrimSpace(errorsBlock) != "" {
		for _, errorFragment := range ExtractAll(errorsBlock, "Error") {
			if message := ExtractFieldFirst(errorFragment, "Message", "Description"); message != "" {
				return message, true
			}
			if message := Text(errorFragment); message != "" {
				return message, true
			}
		}
	}

	success := strings.ToLower(ExtractField(body, "Success"))
	if success == "false" || success == "0" {
		if message := ExtractFieldFirst(body, "Message", "Description"); message != "" {
			return message, true
		}

		return "The booking service rejected the request", true
	}

	return "", false
}

func isSessionFault(fault string) bool {
	lowered := strings.ToLower(fault)

	for _, marker := range []string{"session", "not logged in", "authenticat", "unauthori"} {
		if strings.Contains(lowered, marker) {
			return true
		}
	}

	return false
}
