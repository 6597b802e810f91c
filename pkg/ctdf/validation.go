package ctdf

type ValidationResult struct {
	Valid   bool   `groups:"basic"`
	Warning string `groups:"basic"`
	Error   string `groups:"basic"`

	Category    FailureCategory `groups:"basic"`
	Recoverable bool            `groups:"basic"`
}

func ValidResult(warning string) ValidationResult {
	return ValidationResult{
		Valid:       true,
		Warning:     warning,
		Recoverable: true,
	}
}

func InvalidResult(category FailureCategory, message string, recoverable bool) ValidationResult {
	return ValidationResult{
		Valid:       false,
		Error:       message,
		Category:    category,
		Recoverable: recoverable,
	}
}

// Failure converts an invalid result into the matching error. Valid results
// return nil.
func (v ValidationResult) Failure() *Failure {
	if v.Valid {
		return nil
	}

	if v.Category == FailureCategoryBusinessRule {
		return NewBusinessRuleFailure(v.Error, v.Recoverable)
	}

	return &Failure{
		Category:    v.Category,
		Message:     v.Error,
		Recoverable: v.Recoverable,
	}
}
