package quiz

import "basequiz-service/internal/numbase"

// IsCorrect compares answers ignoring all whitespace, so "0001 0010" equals
// "00010010". Case is significant.
func IsCorrect(submitted, expected string) bool {
	return numbase.StripSpaces(submitted) == numbase.StripSpaces(expected)
}
