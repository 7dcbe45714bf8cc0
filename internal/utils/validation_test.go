package utils

import (
	"errors"
	"testing"
)

func TestValidationError(t *testing.T) {
	tests := []struct {
		name     string
		err      ValidationError
		expected string
	}{
		{
			name:     "error with field",
			err:      ValidationError{Field: "output", Value: "", Message: "cannot be empty"},
			expected: "validation error for field 'output': cannot be empty",
		},
		{
			name:     "error without field",
			err:      ValidationError{Message: "invalid format"},
			expected: "validation error: invalid format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("ValidationError.Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestStringValidators(t *testing.T) {
	tests := []struct {
		name      string
		validator Validator[string]
		value     string
		wantErr   bool
	}{
		{"not empty ok", NotEmpty("f"), "x", false},
		{"not empty fails", NotEmpty("f"), "", true},
		{"whitespace is not empty", NotEmpty("f"), "   ", false},
		{"suffix ok", HasSuffix("f", ".go"), "beangen_impl.go", false},
		{"suffix fails", HasSuffix("f", ".go"), "beangen_impl.txt", true},
		{"identifier ok", IsValidGoIdentifier("f"), "Impl", false},
		{"identifier empty", IsValidGoIdentifier("f"), "", true},
		{"identifier digit", IsValidGoIdentifier("f"), "1Impl", true},
		{"identifier keyword", IsValidGoIdentifier("f"), "type", true},
		{"file name ok", IsFileName("f"), "impl.go", false},
		{"file name with dir", IsFileName("f"), "gen/impl.go", true},
		{"file name with backslash", IsFileName("f"), `gen\impl.go`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.validator(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("validator(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestValidatorChain(t *testing.T) {
	chain := NewValidatorChain(NotEmpty("output")).
		Add(HasSuffix("output", ".go")).
		Add(IsFileName("output"))

	if err := chain.Validate("beangen_impl.go"); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}

	err := chain.Validate("")
	var vErr ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("Expected ValidationError, got %T", err)
	}
	if vErr.Message != "cannot be empty" {
		t.Errorf("Expected the first failing validator to win, got %q", vErr.Message)
	}
}

func TestCustomValidator(t *testing.T) {
	positive := Custom("count", "must be positive", func(v int) bool { return v > 0 })
	if err := positive(3); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if err := positive(0); err == nil {
		t.Error("Expected error for zero")
	}
}
