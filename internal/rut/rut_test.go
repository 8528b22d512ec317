package rut

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"formatted valid", "12.345.678-5", true},
		{"bare valid", "123456785", true},
		{"lowercase k check digit", "6-k", true},
		{"uppercase K check digit", "6-K", true},
		{"repeated digits", "11.111.111-1", true},
		{"seven digit body", "9.999.999-3", true},
		{"wrong check digit", "12.345.678-4", false},
		{"check digit K where digit expected", "12.345.678-K", false},
		{"zero check digit wrong", "12.345.678-0", false},
		{"empty", "", false},
		{"single char", "5", false},
		{"letters in body", "12.34A.678-5", false},
		{"only separators", ".-", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValid(tt.input), "input %q", tt.input)
		})
	}
}

// Every single-character mutation of a valid check digit must fail.
func TestIsValidRejectsMutatedCheckDigit(t *testing.T) {
	const body = "12345678"
	const valid = byte('5')

	for _, c := range "0123456789K" {
		if byte(c) == valid {
			continue
		}
		assert.False(t, IsValid(body+string(c)), "mutated check digit %c accepted", c)
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "123456785", Normalize("12.345.678-5"))
	assert.Equal(t, "6K", Normalize("6-k"))
	assert.Equal(t, "123456785", Normalize(" 12 345 678 5 "))
}
