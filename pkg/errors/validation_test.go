package errors

import (
	"math"
	"testing"
)

func TestValidateFeatureClass(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "lakes", false},
		{"underscore", "land_cover", false},
		{"digits", "roads2", false},

		{"empty", "", true},
		{"uppercase", "Lakes", true},
		{"leading digit", "1lakes", true},
		{"space", "water courses", true},
		{"too long", string(make([]byte, 100)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFeatureClass(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFeatureClass(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateScale(t *testing.T) {
	tests := []struct {
		name    string
		input   float64
		wantErr bool
	}{
		{"1:50k", 50000, false},
		{"1:1", 1, false},
		{"zero", 0, true},
		{"negative", -10000, true},
		{"nan", math.NaN(), true},
		{"inf", math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateScale(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateScale(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateScale(%v) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidateNonNegativeAndPositive(t *testing.T) {
	if err := ValidateNonNegative("min_length", 0); err != nil {
		t.Errorf("ValidateNonNegative(0) = %v, want nil", err)
	}
	if err := ValidateNonNegative("min_length", -1); !Is(err, ErrCodeInvalidConfig) {
		t.Errorf("ValidateNonNegative(-1) = %v, want %v", err, ErrCodeInvalidConfig)
	}
	if err := ValidatePositive("density_radius", 0); !Is(err, ErrCodeInvalidConfig) {
		t.Errorf("ValidatePositive(0) = %v, want %v", err, ErrCodeInvalidConfig)
	}
	if err := ValidatePositive("density_radius", 15); err != nil {
		t.Errorf("ValidatePositive(15) = %v, want nil", err)
	}
}
