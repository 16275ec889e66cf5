package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Structure recovery errors
	ErrEmptyTable    = errors.New("table contains no data rows")
	ErrNoHeaderFound = errors.New("no header row could be detected")

	// Plan validation errors
	ErrInvalidPlan            = errors.New("invalid analysis plan")
	ErrUnsupportedAggregation = errors.New("unsupported aggregation")
	ErrUnsupportedChartType   = errors.New("unsupported chart type")
	ErrScatterAxesUnresolved  = errors.New("scatter axes could not be resolved")

	// Analysis errors
	ErrInsufficientData = errors.New("insufficient data for analysis")
	ErrNoNumericColumns = errors.New("no numeric columns available")
)

// NewValidationError reports a plan field that failed validation.
func NewValidationError(field string, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidPlan, field, reason)
}

// NewMissingFieldError reports a required plan field that was not supplied.
func NewMissingFieldError(field string) error {
	return fmt.Errorf("%w: missing required field %q", ErrInvalidPlan, field)
}

// IsPlanError reports whether err is a plan validation error.
func IsPlanError(err error) bool {
	return errors.Is(err, ErrInvalidPlan) ||
		errors.Is(err, ErrUnsupportedAggregation) ||
		errors.Is(err, ErrUnsupportedChartType)
}
