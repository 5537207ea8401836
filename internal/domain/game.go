package domain

import "time"

// GameSettings are the selections made before a round starts.
type GameSettings struct {
	Mode          Mode          `json:"mode"`
	QuestionCount QuestionCount `json:"questionCount"`
	Difficulty    Difficulty    `json:"difficulty"`
}

// Validate checks every selection.
func (s GameSettings) Validate() error {
	if !s.Mode.Valid() {
		return ErrInvalidMode
	}
	if !s.QuestionCount.Valid() {
		return ErrInvalidQuestionCount
	}
	if !s.Difficulty.Valid() {
		return ErrInvalidDifficulty
	}
	return nil
}

// QuestionView is a question without its answer.
type QuestionView struct {
	Index       int    `json:"index"`
	Prompt      string `json:"prompt"`
	BinaryInput bool   `json:"binaryInput"`
}

// GameView is returned when a round starts.
type GameView struct {
	ID          string       `json:"gameId"`
	Settings    GameSettings `json:"settings"`
	ModeLabel   string       `json:"modeLabel"`
	TimeLimitMs int64        `json:"timeLimitMs,omitempty"`
	Deadline    *time.Time   `json:"deadline,omitempty"`
	Question    QuestionView `json:"question"`
}

// AnswerResult is the feedback shown after an answer.
type AnswerResult struct {
	Index        int    `json:"index"`
	Correct      bool   `json:"correct"`
	Submitted    string `json:"submitted"`
	Expected     string `json:"expected"`
	Explanation  string `json:"explanation"`
	CorrectCount int    `json:"correctCount"`
	Answered     int    `json:"answered"`
	Finished     bool   `json:"finished"`
}

// GameResult is the final score of a round.
type GameResult struct {
	Score          int   `json:"score"`
	CorrectAnswers int   `json:"correctAnswers"`
	TotalQuestions int   `json:"totalQuestions"`
	ElapsedMs      int64 `json:"elapsedMs"`
}
