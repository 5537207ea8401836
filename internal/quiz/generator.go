// Package quiz holds the conversion quiz core: question generation, answer
// checking and scoring. Everything here is synchronous and free of I/O.
package quiz

import (
	"math/rand"
	"sync"
	"time"

	"basequiz-service/internal/domain"
	"basequiz-service/internal/numbase"
)

// BatchSize is the number of questions produced per Generate call.
const BatchSize = domain.FixedQuestionCount

// Generator draws random operands and renders them as conversion questions.
// It is safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewGenerator() *Generator {
	return NewGeneratorWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewGeneratorWithSource allows deterministic sequences in tests.
func NewGeneratorWithSource(src rand.Source) *Generator {
	return &Generator{rnd: rand.New(src)}
}

// Generate returns a batch of questions. Both the fixed count and the "free"
// sentinel yield BatchSize questions.
func (g *Generator) Generate(mode domain.Mode, count domain.QuestionCount, difficulty domain.Difficulty) ([]domain.Question, error) {
	if err := (domain.GameSettings{Mode: mode, QuestionCount: count, Difficulty: difficulty}).Validate(); err != nil {
		return nil, err
	}

	maxNumber := difficulty.MaxNumber()
	questions := make([]domain.Question, BatchSize)

	g.mu.Lock()
	defer g.mu.Unlock()
	for i := range questions {
		questions[i] = Convert(mode, g.rnd.Intn(maxNumber+1))
	}
	return questions, nil
}

// Convert renders operand as a question of the given mode. Binary text on
// either side is grouped in fours.
func Convert(mode domain.Mode, operand int) domain.Question {
	return domain.Question{
		Prompt: render(operand, mode.Source()),
		Answer: render(operand, mode.Target()),
	}
}

func render(n int, base numbase.Base) string {
	text := numbase.ToBase(n, base)
	if base == numbase.Binary {
		return numbase.GroupBinary(text)
	}
	return text
}
