package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidDPI, "dpi out of range: %d", 42)

	if err.Code != ErrCodeInvalidDPI {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidDPI)
	}

	if err.Message != "dpi out of range: 42" {
		t.Errorf("Message = %v, want %v", err.Message, "dpi out of range: 42")
	}

	expected := "INVALID_DPI: dpi out of range: 42"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(ErrCodeWriterFailed, cause, "write artifact")

	if err.Code != ErrCodeWriterFailed {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeWriterFailed)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}

	expected := "WRITER_FAILED: write artifact: disk full"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
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
			err:      New(ErrCodeInvalidLayout, "test"),
			code:     ErrCodeInvalidLayout,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidLayout, "test"),
			code:     ErrCodeJobNotFound,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeWriterFailed, New(ErrCodeInvalidInput, "inner"), "outer"),
			code:     ErrCodeWriterFailed,
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
		{"Error type", New(ErrCodeJobNotCompleted, "test"), ErrCodeJobNotCompleted},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
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
		{"Error type", New(ErrCodeInvalidInput, "friendly message"), "friendly message"},
		{"plain error", errors.New("plain error"), "plain error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCategories(t *testing.T) {
	if !IsValidation(New(ErrCodeInvalidColorMode, "x")) {
		t.Error("IsValidation(INVALID_COLOR_MODE) = false, want true")
	}
	if IsValidation(New(ErrCodeJobNotFound, "x")) {
		t.Error("IsValidation(JOB_NOT_FOUND) = true, want false")
	}
	if !IsNotFound(Wrap(ErrCodeFileNotFound, errors.New("gone"), "artifact")) {
		t.Error("IsNotFound(FILE_NOT_FOUND) = false, want true")
	}
	if IsNotFound(errors.New("plain")) {
		t.Error("IsNotFound(plain) = true, want false")
	}
}
