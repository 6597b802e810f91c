package ctdf

import (
	"errors"
	"fmt"
)

type FailureCategory string

const (
	FailureCategoryValidation      FailureCategory = "ValidationFailure"
	FailureCategoryBusinessRule    FailureCategory = "BusinessRuleViolation"
	FailureCategoryBookingConflict FailureCategory = "BookingConflict"
	FailureCategoryAuth            FailureCategory = "AuthFailure"
	FailureCategoryNetwork         FailureCategory = "NetworkError"
)

// Failure is the error type returned across the public boundary of the
// booking client. Every failure has a category and a message fit for a rider.
type Failure struct {
	Category    FailureCategory `groups:"basic"`
	Message     string          `groups:"basic"`
	Recoverable bool            `groups:"basic"`

	Err error `json:"-"`
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %s: %s", f.Category, f.Message, f.Err)
	}

	return fmt.Sprintf("%s: %s", f.Category, f.Message)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

func NewValidationFailure(message string, err error) *Failure {
	return &Failure{Category: FailureCategoryValidation, Message: message, Recoverable: true, Err: err}
}

func NewBusinessRuleFailure(message string, recoverable bool) *Failure {
	return &Failure{Category: FailureCategoryBusinessRule, Message: message, Recoverable: recoverable}
}

func NewBookingConflict(message string, err error) *Failure {
	return &Failure{Category: FailureCategoryBookingConflict, Message: message, Recoverable: true, Err: err}
}

func NewAuthFailure(message string, err error) *Failure {
	return &Failure{Category: FailureCategoryAuth, Message: message, Recoverable: true, Err: err}
}

func NewNetworkError(message string, err error) *Failure {
	return &Failure{Category: FailureCategoryNetwork, Message: message, Recoverable: true, Err: err}
}

// AsFailure returns the Failure in err's chain, wrapping anything else as a
// network error since that is the only way an untyped error reaches here.
func AsFailure(err error) *Failure {
	if err == nil {
		return nil
	}

	var failure *Failure
	if errors.As(err, &failure) {
		return failure
	}

	return NewNetworkError("The booking service could not be reached", err)
}

func IsCategory(err error, category FailureCategory) bool {
	var failure *Failure
	if errors.As(err, &failure) {
		return failure.Category == category
	}

	return false
}
