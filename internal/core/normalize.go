package core

// normalize.go holds the per-field normalizers applied to partner data.
//
// Every normalizer is total: malformed input degrades to a defined fallback
// (empty string or the trimmed original) instead of an error, so a bad cell
// never fails its row.

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// dobLayouts are tried in order; the first successful parse wins.
var dobLayouts = []string{
	"1/2/2006", // month/day/year
	"2006-1-2", // year-month-day
}

// DobFormat is the canonical date of birth layout.
const DobFormat = "2006-01-02"

// NormalizeName trims s and title-cases each whitespace-delimited word:
// first letter upper, remainder lower. Interior whitespace is kept as-is.
func NormalizeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	// Casers are stateful, one per call keeps this safe across partners.
	lower := cases.Lower(language.Und)

	var b strings.Builder
	b.Grow(len(s))

	start := -1
	for i, r := range s {
		if unicode.IsSpace(r) {
			if start >= 0 {
				b.WriteString(titleWord(lower, s[start:i]))
				start = -1
			}
			b.WriteRune(r)
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		b.WriteString(titleWord(lower, s[start:]))
	}

	return b.String()
}

func titleWord(lower cases.Caser, w string) string {
	r, size := utf8.DecodeRuneInString(w)
	return string(unicode.ToTitle(r)) + lower.String(w[size:])
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizePhone formats a number as DDD-DDD-DDDD when exactly ten digits
// remain after stripping everything else. Any other input is returned
// trimmed but otherwise unchanged.
func NormalizePhone(s string) string {
	s = strings.TrimSpace(s)

	digits := make([]rune, 0, 10)
	for _, r := range s {
		if unicode.IsDigit(r) {
			digits = append(digits, r)
		}
	}

	if len(digits) != 10 {
		return s
	}
	return string(digits[0:3]) + "-" + string(digits[3:6]) + "-" + string(digits[6:10])
}

// NormalizeDob reformats a date of birth to YYYY-MM-DD.
// Returns "" for empty or unparsable input.
func NormalizeDob(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	for _, layout := range dobLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.Format(DobFormat)
		}
	}

	return ""
}
