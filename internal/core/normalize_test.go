package core

import (
	"strings"
	"testing"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"john", "John"},
		{"  john   SMITH ", "John   Smith"},
		{"MARY ANN", "Mary Ann"},
		{"o'brien", "O'brien"},
		{"mary-jane", "Mary-jane"},
		{"JOSÉ", "José"},
		{"élodie", "Élodie"},
		{"a\tb", "A\tB"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		if got := NormalizeName(tt.in); got != tt.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"John@Example.COM", "john@example.com"},
		{"  a@b.org\t", "a@b.org"},
		{"not an email", "not an email"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeEmail(tt.in); got != tt.want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"5551234567", "555-123-4567"},
		{"(555) 123-4567", "555-123-4567"},
		{"555.123.4567", "555-123-4567"},
		{" 555 123 4567 ", "555-123-4567"},
		{"555-123-4567", "555-123-4567"},
		{"+1 555 123 4567", "+1 555 123 4567"},
		{"12345", "12345"},
		{"  call me  ", "call me"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizePhone(tt.in); got != tt.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeDob(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"03/15/1980", "1980-03-15"},
		{"3/5/1980", "1980-03-05"},
		{"1980-03-15", "1980-03-15"},
		{"1980-3-5", "1980-03-05"},
		{"  1/2/1990 ", "1990-01-02"},
		{"02/29/2000", "2000-02-29"},
		{"02/30/2020", ""},
		{"13/01/2020", ""},
		{"01/02/90", ""},
		{"1980/03/15", ""},
		{"1990-01-02T00:00:00", ""},
		{"yesterday", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeDob(tt.in); got != tt.want {
			t.Errorf("NormalizeDob(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

var normalizerInputs = []string{
	"", " ", "john", "  JOHN   smith ", "John@Example.COM", " x@y.z ",
	"(555) 123-4567", "555-123-4567", "12345", "+44 20 7946 0958",
	"03/15/1980", "1980-03-15", "02/30/2020", "garbage", "O'NEIL", "élodie",
}

func TestNormalizers_Idempotent(t *testing.T) {
	normalizers := map[string]func(string) string{
		"name":  NormalizeName,
		"email": NormalizeEmail,
		"phone": NormalizePhone,
		"dob":   NormalizeDob,
	}

	for name, fn := range normalizers {
		for _, in := range normalizerInputs {
			once := fn(in)
			if twice := fn(once); twice != once {
				t.Errorf("%s not idempotent for %q: %q then %q", name, in, once, twice)
			}
		}
	}
}

func TestNormalizePhone_Shape(t *testing.T) {
	for _, in := range normalizerInputs {
		got := NormalizePhone(in)
		if got != strings.TrimSpace(in) && !isPhoneShape(got) {
			t.Errorf("NormalizePhone(%q) = %q, want DDD-DDD-DDDD or trimmed input", in, got)
		}
	}
}

func TestNormalizeDob_Shape(t *testing.T) {
	for _, in := range normalizerInputs {
		got := NormalizeDob(in)
		if got != "" && len(got) != len(DobFormat) {
			t.Errorf("NormalizeDob(%q) = %q, want YYYY-MM-DD or empty", in, got)
		}
	}
}

func isPhoneShape(s string) bool {
	if len(s) != 12 {
		return false
	}
	for i, r := range s {
		switch i {
		case 3, 7:
			if r != '-' {
				return false
			}
		default:
			if r < '0' || r > '9' {
				return false
			}
		}
	}
	return true
}
