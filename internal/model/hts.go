package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedCode indicates an HTS code that fails structural validation.
var ErrMalformedCode = errors.New("malformed HTS code")

// ChapterContext describes a 2-digit HTS chapter prefix.
type ChapterContext struct {
	CodePrefix  string
	Description string
}

// SubchapterContext describes a 4-digit HTS heading prefix.
type SubchapterContext struct {
	CodePrefix  string
	Description string
}

// Digits strips dot separators from an HTS code, leaving only digits.
func Digits(code string) string {
	return strings.ReplaceAll(code, ".", "")
}

// Chapter returns the 2-digit chapter prefix of an HTS code, or "" if the
// code is too short.
func Chapter(code string) string {
	d := Digits(code)
	if len(d) < 2 {
		return ""
	}
	return d[:2]
}

// HasCodePrefix reports whether code begins with prefix, ignoring dot
// placement in either value.
func HasCodePrefix(code, prefix string) bool {
	return strings.HasPrefix(Digits(code), Digits(prefix))
}

// ValidateCode checks that an HTS code or prefix is structurally sound: all
// digits, a 4/6/8/10 digit length, and a chapter prefix present in the
// supplied chapter table.
func ValidateCode(code string, chapters map[string]ChapterContext) error {
	d := Digits(code)
	switch len(d) {
	case 4, 6, 8, 10:
	default:
		return fmt.Errorf("%w: %q has %d digits", ErrMalformedCode, code, len(d))
	}
	for _, r := range d {
		if r < '0' || r > '9' {
			return fmt.Errorf("%w: %q contains non-digit %q", ErrMalformedCode, code, r)
		}
	}
	if _, ok := chapters[d[:2]]; !ok {
		return fmt.Errorf("%w: unknown chapter %q in %q", ErrMalformedCode, d[:2], code)
	}
	return nil
}
