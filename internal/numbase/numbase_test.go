package numbase

import (
	"errors"
	"strings"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	for _, base := range []Base{Binary, Decimal, Hex} {
		for n := 0; n <= 4095; n++ {
			text := ToBase(n, base)
			if base == Binary {
				text = StripSpaces(GroupBinary(text))
			}
			got, err := ParseBase(text, base)
			if err != nil {
				t.Fatalf("parse %q base %d: %v", text, base, err)
			}
			if got != n {
				t.Fatalf("round trip base %d: want %d, got %d", base, n, got)
			}
		}
	}
}

func TestToBaseUsesLowercaseHex(t *testing.T) {
	if got := ToBase(255, Hex); got != "ff" {
		t.Fatalf("expected ff, got %q", got)
	}
	if got := ToBase(0, Binary); got != "0" {
		t.Fatalf("expected 0, got %q", got)
	}
}

func TestGroupBinary(t *testing.T) {
	cases := map[string]string{
		"":              "",
		"0":             "0000",
		"101":           "0101",
		"1111":          "1111",
		"10010":         "0001 0010",
		"111111111111":  "1111 1111 1111",
		"1000000000000": "0001 0000 0000 0000",
	}
	for in, want := range cases {
		if got := GroupBinary(in); got != want {
			t.Fatalf("GroupBinary(%q): want %q, got %q", in, want, got)
		}
	}
}

func TestGroupBinaryShape(t *testing.T) {
	for n := 0; n <= 4095; n++ {
		bits := ToBase(n, Binary)
		grouped := GroupBinary(bits)
		if (len(grouped)+1)%5 != 0 {
			t.Fatalf("grouped %q has length %d", grouped, len(grouped))
		}
		ungrouped := StripSpaces(grouped)
		if len(ungrouped)%4 != 0 || !strings.HasSuffix(ungrouped, bits) {
			t.Fatalf("ungrouped %q does not pad %q", ungrouped, bits)
		}
		if strings.Trim(ungrouped[:len(ungrouped)-len(bits)], "0") != "" {
			t.Fatalf("padding of %q is not zeros", ungrouped)
		}
	}
}

func TestParseBaseRejectsInvalidDigits(t *testing.T) {
	cases := []struct {
		in   string
		base Base
	}{
		{"102", Binary},
		{"12a", Decimal},
		{"fg", Hex},
		{"1 0", Binary},
		{"", Decimal},
		{"-1", Decimal},
	}
	for _, tc := range cases {
		_, err := ParseBase(tc.in, tc.base)
		if !errors.Is(err, ErrInvalidDigit) {
			t.Fatalf("ParseBase(%q, %d): expected ErrInvalidDigit, got %v", tc.in, tc.base, err)
		}
	}
}

func TestParseBaseAcceptsUppercaseHex(t *testing.T) {
	got, err := ParseBase("FF", Hex)
	if err != nil || got != 255 {
		t.Fatalf("expected 255, got %d (%v)", got, err)
	}
}
