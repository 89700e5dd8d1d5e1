package errors

import (
	"math"
	"regexp"
)

// featureClassRegex matches feature class tags: lowercase words joined by
// underscores, e.g. "lakes" or "land_cover".
var featureClassRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// ValidateFeatureClass validates the syntax of a feature class tag.
// Whether a pipeline is registered for it is checked by the pipeline runner.
func ValidateFeatureClass(class string) error {
	if class == "" {
		return New(ErrCodeInvalidInput, "feature class cannot be empty")
	}
	if len(class) > 64 {
		return New(ErrCodeInvalidInput, "feature class too long (max 64 characters)")
	}
	if !featureClassRegex.MatchString(class) {
		return New(ErrCodeInvalidInput, "invalid feature class: %q", class)
	}
	return nil
}

// ValidateScale validates a target scale denominator, e.g. 50000 for 1:50 000.
func ValidateScale(scale float64) error {
	if math.IsNaN(scale) || math.IsInf(scale, 0) {
		return New(ErrCodeInvalidInput, "scale must be a finite number")
	}
	if scale < 1 {
		return New(ErrCodeInvalidInput, "scale denominator must be >= 1, got %g", scale)
	}
	return nil
}

// ValidateNonNegative validates a named distance, area or length parameter.
func ValidateNonNegative(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidConfig, "%s must be a finite number", name)
	}
	if v < 0 {
		return New(ErrCodeInvalidConfig, "%s must be >= 0, got %g", name, v)
	}
	return nil
}

// ValidatePositive validates a named parameter that must be strictly positive.
func ValidatePositive(name string, v float64) error {
	if err := ValidateNonNegative(name, v); err != nil {
		return err
	}
	if v == 0 {
		return New(ErrCodeInvalidConfig, "%s must be > 0", name)
	}
	return nil
}
