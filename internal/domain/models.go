package domain

import (
	"time"

	"basequiz-service/internal/numbase"
)

// FixedQuestionCount is the number of questions in a regular round. A stored
// record with any other total is a time-attack record.
const FixedQuestionCount = 10

// Difficulty bounds the operands of generated questions.
type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Expert       Difficulty = "expert"
)

// Difficulties lists every difficulty in ascending order.
var Difficulties = []Difficulty{Beginner, Intermediate, Expert}

func (d Difficulty) Valid() bool {
	return d == Beginner || d == Intermediate || d == Expert
}

// MaxNumber is the inclusive upper bound of generated operands.
func (d Difficulty) MaxNumber() int {
	switch d {
	case Intermediate:
		return 255
	case Expert:
		return 4095
	default:
		return 15
	}
}

// Factor is the score multiplier; it also slows the time decay.
func (d Difficulty) Factor() int {
	switch d {
	case Intermediate:
		return 2
	case Expert:
		return 3
	default:
		return 1
	}
}

// ParseDifficulty validates a difficulty identifier.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(s)
	if !d.Valid() {
		return "", ErrInvalidDifficulty
	}
	return d, nil
}

// Mode is a directional conversion between two bases.
type Mode string

const (
	BinaryToDecimal Mode = "bin-dec"
	DecimalToBinary Mode = "dec-bin"
	DecimalToHex    Mode = "dec-hex"
	HexToBinary     Mode = "hex-bin"
	HexToDecimal    Mode = "hex-dec"
)

// Modes lists every supported mode in menu order.
var Modes = []Mode{BinaryToDecimal, DecimalToBinary, DecimalToHex, HexToBinary, HexToDecimal}

var modeBases = map[Mode][2]numbase.Base{
	BinaryToDecimal: {numbase.Binary, numbase.Decimal},
	DecimalToBinary: {numbase.Decimal, numbase.Binary},
	DecimalToHex:    {numbase.Decimal, numbase.Hex},
	HexToBinary:     {numbase.Hex, numbase.Binary},
	HexToDecimal:    {numbase.Hex, numbase.Decimal},
}

var modeLabels = map[Mode]string{
	BinaryToDecimal: "Binary to Decimal",
	DecimalToBinary: "Decimal to Binary",
	DecimalToHex:    "Decimal to Hex",
	HexToBinary:     "Hex to Binary",
	HexToDecimal:    "Hex to Decimal",
}

func (m Mode) Valid() bool {
	_, ok := modeBases[m]
	return ok
}

// Source is the base the prompt is written in.
func (m Mode) Source() numbase.Base { return modeBases[m][0] }

// Target is the base the answer must be written in.
func (m Mode) Target() numbase.Base { return modeBases[m][1] }

// BinaryInput reports whether answers are entered as 4-bit groups.
func (m Mode) BinaryInput() bool { return m.Target() == numbase.Binary }

func (m Mode) Label() string {
	if l, ok := modeLabels[m]; ok {
		return l
	}
	return string(m)
}

// ParseMode validates a mode identifier.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if !m.Valid() {
		return "", ErrInvalidMode
	}
	return m, nil
}

// QuestionCount is the question-count selection of a round.
type QuestionCount string

const (
	// CountFixed is a regular ten-question round.
	CountFixed QuestionCount = "10"
	// CountFree is the open-ended sentinel used by the time attack.
	CountFree QuestionCount = "free"
)

func (c QuestionCount) Valid() bool {
	return c == CountFixed || c == CountFree
}

// TimeAttack reports whether the round is bounded by time instead of count.
func (c QuestionCount) TimeAttack() bool {
	return c == CountFree
}

// Question is a generated conversion problem.
type Question struct {
	Prompt string `json:"prompt"`
	Answer string `json:"answer"`
}

// RankingKey identifies a leaderboard slot.
type RankingKey struct {
	Name           string
	Mode           Mode
	Difficulty     Difficulty
	TotalQuestions int
}

// RankingRecord is a persisted leaderboard row.
type RankingRecord struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	Score          int        `json:"score"`
	Mode           Mode       `json:"mode"`
	Difficulty     Difficulty `json:"difficulty"`
	TimeMs         int64      `json:"time"`
	CorrectAnswers int        `json:"correctAnswers"`
	TotalQuestions int        `json:"totalQuestions"`
	CreatedAt      time.Time  `json:"createdAt"`
}

func (r RankingRecord) Key() RankingKey {
	return RankingKey{Name: r.Name, Mode: r.Mode, Difficulty: r.Difficulty, TotalQuestions: r.TotalQuestions}
}

// IsTimeAttack is derived solely from the question total.
func (r RankingRecord) IsTimeAttack() bool {
	return r.TotalQuestions != FixedQuestionCount
}

// RankingUpdate holds the fields replaced when a better score arrives.
type RankingUpdate struct {
	Score          int
	TimeMs         int64
	CorrectAnswers int
	TotalQuestions int
}

// ScoreSubmission is a candidate leaderboard entry.
type ScoreSubmission struct {
	Name           string     `json:"name" validate:"required"`
	Score          int        `json:"score" validate:"min=0"`
	Mode           Mode       `json:"mode" validate:"required"`
	Difficulty     Difficulty `json:"difficulty" validate:"required"`
	TimeMs         int64      `json:"time" validate:"min=0"`
	CorrectAnswers int        `json:"correctAnswers" validate:"min=0,ltefield=TotalQuestions"`
	TotalQuestions int        `json:"totalQuestions" validate:"min=1"`
}

func (s ScoreSubmission) Key() RankingKey {
	return RankingKey{Name: s.Name, Mode: s.Mode, Difficulty: s.Difficulty, TotalQuestions: s.TotalQuestions}
}

func (s ScoreSubmission) Record() RankingRecord {
	return RankingRecord{
		Name:           s.Name,
		Score:          s.Score,
		Mode:           s.Mode,
		Difficulty:     s.Difficulty,
		TimeMs:         s.TimeMs,
		CorrectAnswers: s.CorrectAnswers,
		TotalQuestions: s.TotalQuestions,
	}
}

// OutcomeKind is the result of a leaderboard submission.
type OutcomeKind string

const (
	OutcomeCreated       OutcomeKind = "created"
	OutcomeUpdated       OutcomeKind = "updated"
	OutcomeDuplicate     OutcomeKind = "duplicate"
	OutcomeRejectedLower OutcomeKind = "lower"
)

// SubmissionOutcome tells the player what happened to their score.
type SubmissionOutcome struct {
	Kind      OutcomeKind `json:"kind"`
	Previous  int         `json:"previous,omitempty"`
	Submitted int         `json:"submitted"`
	Message   string      `json:"message"`
}

// Accepted reports whether the submission was written.
func (o SubmissionOutcome) Accepted() bool {
	return o.Kind == OutcomeCreated || o.Kind == OutcomeUpdated
}

// RankingChange is published after a leaderboard write.
type RankingChange struct {
	Key     RankingKey
	Outcome SubmissionOutcome
	At      time.Time
}
