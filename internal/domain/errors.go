package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrGameNotFound is returned when a game session does not exist or has expired.
	ErrGameNotFound = errors.New("game not found")
	// ErrGameFinished is returned when a finished game receives another answer.
	ErrGameFinished = errors.New("game already finished")
	// ErrGameNotFinished is returned when scoring or ranking a game that is still running.
	ErrGameNotFinished = errors.New("game not finished")
	// ErrAwaitingNext is returned when answering twice without advancing to the next question.
	ErrAwaitingNext = errors.New("answer already submitted for current question")
	// ErrTimeUp is returned when a time-attack answer arrives after the deadline.
	ErrTimeUp = errors.New("time is up")
	// ErrInvalidMode indicates an unknown conversion mode.
	ErrInvalidMode = errors.New("invalid mode")
	// ErrInvalidDifficulty indicates an unknown difficulty.
	ErrInvalidDifficulty = errors.New("invalid difficulty")
	// ErrInvalidQuestionCount indicates a question count other than "10" or "free".
	ErrInvalidQuestionCount = errors.New("invalid question count")
	// ErrNoAnswers is returned when submitting a time-attack round that ended without answers.
	ErrNoAnswers = errors.New("round ended without answers")
	// ErrNoQuestions is a scoring precondition violation: total must be at least one.
	ErrNoQuestions = errors.New("total questions must be positive")
	// ErrInvalidScoreInput indicates a correct count outside [0, total].
	ErrInvalidScoreInput = errors.New("correct answers out of range")
	// ErrRankingNotFound is returned when updating a ranking row that no longer exists.
	ErrRankingNotFound = errors.New("ranking record not found")
	// ErrPersistenceUnavailable wraps every leaderboard read/write failure.
	ErrPersistenceUnavailable = errors.New("leaderboard storage unavailable")
	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("validation failed")
)

// ValidationError describes a rejected field of a submission.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
