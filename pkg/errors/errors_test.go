package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidInput, "test message: %s", "value")

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "INVALID_INPUT: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeGeometry, cause, "failed to buffer")

	if err.Code != ErrCodeGeometry {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeGeometry)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	// Test Unwrap
	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	// Test errors.Is with wrapped error
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeInvalidInput,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeGeometry,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeGeometry, New(ErrCodeInvalidInput, "inner"), "outer"),
			code:     ErrCodeGeometry,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidConfig, "test"),
			expected: ErrCodeInvalidConfig,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			expected: "",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidInput, "friendly message"),
			expected: "friendly message",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUnsupportedFeatureClassError(t *testing.T) {
	err := &UnsupportedFeatureClassError{Class: "glaciers", Supported: []string{"lakes", "roads"}}
	expected := `UNSUPPORTED_FEATURE_CLASS: unsupported feature class "glaciers" (supported: [lakes roads])`
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
	if got := CodeOf(err); got != ErrCodeUnsupportedClass {
		t.Errorf("CodeOf() = %v, want %v", got, ErrCodeUnsupportedClass)
	}
}

func TestItemError(t *testing.T) {
	cause := &AmbiguousStructureError{Component: 2, Reason: "cycle"}
	err := &ItemError{FeatureID: "17", Stage: "classify", Err: cause}

	expected := "feature 17 (classify): AMBIGUOUS_STRUCTURE: component 2: cycle"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}

	var ase *AmbiguousStructureError
	if !errors.As(err, &ase) {
		t.Fatal("errors.As(ItemError, *AmbiguousStructureError) = false, want true")
	}
	if ase.Component != 2 {
		t.Errorf("Component = %d, want 2", ase.Component)
	}
	if got := CodeOf(err); got != ErrCodeAmbiguousStructure {
		t.Errorf("CodeOf() = %v, want %v", got, ErrCodeAmbiguousStructure)
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"structured", New(ErrCodeGeometry, "x"), ErrCodeGeometry},
		{"wrapped structured", &ItemError{FeatureID: "a", Err: New(ErrCodeGeometry, "x")}, ErrCodeGeometry},
		{"plain", errors.New("plain"), ""},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.expected {
				t.Errorf("CodeOf() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestWarningString(t *testing.T) {
	w := Warnf(WarnFallbackUnchanged, "lake-3", "round-trip buffer produced %s", "empty geometry")
	expected := "FALLBACK_UNCHANGED: feature lake-3: round-trip buffer produced empty geometry"
	if w.String() != expected {
		t.Errorf("String() = %v, want %v", w.String(), expected)
	}

	w = Warning{Code: WarnDegenerateInput, Message: "zero-length line dropped"}
	if got := w.String(); got != "DEGENERATE_INPUT: zero-length line dropped" {
		t.Errorf("String() = %v", got)
	}
}
