package quiz

import (
	"fmt"
	"strings"

	"basequiz-service/internal/domain"
	"basequiz-service/internal/numbase"
)

// Explain describes how the prompt of q converts to its answer.
// Conversions into decimal show the positional expansion:
//
//	0000 1010 = 1×2^3 + 1×2^1 = 10
func Explain(mode domain.Mode, q domain.Question) string {
	if mode.Target() != numbase.Decimal {
		return fmt.Sprintf("%s in %s is %s in %s.", q.Prompt, mode.Source(), q.Answer, mode.Target())
	}

	digits := numbase.StripSpaces(q.Prompt)
	base := int(mode.Source())
	terms := make([]string, 0, len(digits))
	for i, r := range digits {
		value, err := numbase.ParseBase(string(r), mode.Source())
		if err != nil || value == 0 {
			continue
		}
		power := len(digits) - 1 - i
		terms = append(terms, fmt.Sprintf("%d×%d^%d", value, base, power))
	}
	if len(terms) == 0 {
		return fmt.Sprintf("%s = %s", q.Prompt, q.Answer)
	}
	return fmt.Sprintf("%s = %s = %s", q.Prompt, strings.Join(terms, " + "), q.Answer)
}
