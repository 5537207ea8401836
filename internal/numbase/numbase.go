// Package numbase renders integers in binary, decimal and hexadecimal text and parses them back.
package numbase

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Base is a positional numeral base supported by the quiz.
type Base int

const (
	Binary  Base = 2
	Decimal Base = 10
	Hex     Base = 16
)

// ErrInvalidDigit matches every *InvalidDigitError.
var ErrInvalidDigit = errors.New("invalid digit")

// InvalidDigitError reports the first character of Input that is not a digit of Base.
type InvalidDigitError struct {
	Input string
	Base  Base
	Char  rune
}

func (e *InvalidDigitError) Error() string {
	if e.Char == 0 {
		return fmt.Sprintf("invalid digit: empty input for base %d", e.Base)
	}
	return fmt.Sprintf("invalid digit %q in %q for base %d", e.Char, e.Input, e.Base)
}

func (e *InvalidDigitError) Is(target error) bool {
	return target == ErrInvalidDigit
}

// Valid reports whether b is one of the supported bases.
func (b Base) Valid() bool {
	return b == Binary || b == Decimal || b == Hex
}

func (b Base) String() string {
	switch b {
	case Binary:
		return "binary"
	case Decimal:
		return "decimal"
	case Hex:
		return "hex"
	}
	return "base(" + strconv.Itoa(int(b)) + ")"
}

// ToBase renders a non-negative n in base. Hex digits are lowercase.
func ToBase(n int, base Base) string {
	return strconv.FormatInt(int64(n), int(base))
}

// GroupBinary left-pads bits with zeros to a multiple of four and separates
// each group of four with a single space: "101" -> "0101", "10010" -> "0001 0010".
func GroupBinary(bits string) string {
	if bits == "" {
		return ""
	}
	if rem := len(bits) % 4; rem != 0 {
		bits = strings.Repeat("0", 4-rem) + bits
	}

	var b strings.Builder
	b.Grow(len(bits) + len(bits)/4)
	for i := 0; i < len(bits); i += 4 {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(bits[i : i+4])
	}
	return b.String()
}

// StripSpaces removes every whitespace character from s.
func StripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// ParseBase is the inverse of ToBase. Grouping spaces must be stripped by the caller.
func ParseBase(s string, base Base) (int, error) {
	if s == "" {
		return 0, &InvalidDigitError{Input: s, Base: base}
	}
	for _, r := range s {
		if digitValue(r) >= int(base) {
			return 0, &InvalidDigitError{Input: s, Base: base, Char: r}
		}
	}
	n, err := strconv.ParseInt(s, int(base), 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q as %s: %w", s, base, err)
	}
	return int(n), nil
}

// digitValue returns the value of r as a digit, or 36 when r is not a digit in any base.
func digitValue(r rune) int {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0')
	case r >= 'a' && r <= 'z':
		return int(r-'a') + 10
	case r >= 'A' && r <= 'Z':
		return int(r-'A') + 10
	}
	return 36
}
