package parser

import (
	"errors"
	"fmt"
)

var ErrMalformedChart = errors.New("malformed chart")

// MalformedChartError rejects a chart at load time, no session may start
// with it.
type MalformedChartError struct {
	Field  string
	Reason string
}

func (e *MalformedChartError) Error() string {
	return fmt.Sprintf("malformed chart: %s: %s", e.Field, e.Reason)
}

func (e *MalformedChartError) Is(target error) bool {
	return target == ErrMalformedChart
}

func malformed(field, format string, args ...interface{}) error {
	return &MalformedChartError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
