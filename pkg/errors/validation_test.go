package errors

import (
	"strings"
	"testing"
)

func TestValidateFilename(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple pdf", "aanbieding.pdf", false},
		{"with spaces", "Q4 Offering.pdf", false},
		{"underscore", "Q4_Offering.pdf", false},
		{"empty", "", true},
		{"path separator", "../etc/passwd", true},
		{"backslash", `dir\file.pdf`, true},
		{"traversal", "a..b.pdf", true},
		{"hidden", ".secret.pdf", true},
		{"quote", `bad"name.pdf`, true},
		{"control char", "bad\nname.pdf", true},
		{"too long", strings.Repeat("a", 256), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFilename(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFilename(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidFilename) {
				t.Errorf("ValidateFilename(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidFilename)
			}
		})
	}
}

func TestValidateJobID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"uuid", "3f0c9b7e-2a51-4d3a-9d0f-6a1b2c3d4e5f", false},
		{"empty", "", true},
		{"not a uuid", "nonexistent-job-id", true},
		{"traversal", "../../etc", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJobID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateJobID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
