package errors

import "fmt"

// WarningCode identifies a kind of recoverable condition.
type WarningCode string

const (
	// WarnDegenerateInput marks input that was dropped, e.g. a zero-length line.
	WarnDegenerateInput WarningCode = "DEGENERATE_INPUT"

	// WarnFallbackUnchanged marks a stage that returned its input unchanged
	// because the transformed geometry was empty or invalid.
	WarnFallbackUnchanged WarningCode = "FALLBACK_UNCHANGED"

	// WarnClipped marks a geometry clipped back against a neighbouring feature.
	WarnClipped WarningCode = "CLIPPED"
)

// Warning is a non-fatal condition. Warnings are values returned next to
// results; they are never returned as errors.
type Warning struct {
	Code      WarningCode
	FeatureID string
	Stage     string
	Message   string
}

// String formats the warning for logs and CLI output.
func (w Warning) String() string {
	if w.FeatureID == "" {
		return fmt.Sprintf("%s: %s", w.Code, w.Message)
	}
	return fmt.Sprintf("%s: feature %s: %s", w.Code, w.FeatureID, w.Message)
}

// Warnf builds a Warning with a formatted message.
func Warnf(code WarningCode, featureID, format string, args ...any) Warning {
	return Warning{Code: code, FeatureID: featureID, Message: fmt.Sprintf(format, args...)}
}
