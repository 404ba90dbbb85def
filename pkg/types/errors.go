package types

import (
	"fmt"
	"strconv"
)

// ConfigurationError is returned when a home configuration or parameter table
// holds a value the model cannot use. It is never defaulted away.
type ConfigurationError struct {
	Field  string `json:"field"`
	Value  string `json:"value,omitempty"`
	Reason string `json:"reason"`
}

func (e *ConfigurationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// WarningCode identifies a degenerate but valid result.
type WarningCode string

const (
	// WarningNonPositiveSavings means the configuration costs at least as much
	// to run as the baseline home, so it never pays back.
	WarningNonPositiveSavings WarningCode = "nonPositiveSavings"
	// WarningNegativeNetCost means the system is cheaper than the HVAC it
	// replaces, so payback is immediate.
	WarningNegativeNetCost WarningCode = "negativeNetCost"
)

// Warning is a non-fatal note attached to an evaluation.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
