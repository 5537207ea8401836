package app

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"basequiz-service/internal/domain"
	"basequiz-service/internal/quiz"
)

// DefaultTimeLimit is the length of a time-attack round.
const DefaultTimeLimit = TimeAttackMs * time.Millisecond

// GameRepository abstracts where running games live (in-memory, Redis-marked, etc).
type GameRepository interface {
	Save(game *Game)
	Get(id string) (*Game, bool)
	Delete(id string)
}

// QuestionSource produces question batches.
type QuestionSource interface {
	Generate(mode domain.Mode, count domain.QuestionCount, difficulty domain.Difficulty) ([]domain.Question, error)
}

// GameService drives rounds: it hands out questions, checks answers and scores
// the round with the elapsed time reported by the game's stopwatch.
type GameService struct {
	games       GameRepository
	questions   QuestionSource
	leaderboard *LeaderboardService
	log         logrus.FieldLogger
	recorder    Recorder
	now         func() time.Time
	timeLimit   time.Duration
}

// GameOption customizes a GameService.
type GameOption func(*GameService)

// WithClock injects the time source used by stopwatches and deadlines.
func WithClock(now func() time.Time) GameOption {
	return func(s *GameService) { s.now = now }
}

func WithTimeLimit(d time.Duration) GameOption {
	return func(s *GameService) {
		if d > 0 {
			s.timeLimit = d
		}
	}
}

func WithGameLogger(log logrus.FieldLogger) GameOption {
	return func(s *GameService) { s.log = log }
}

func WithGameRecorder(r Recorder) GameOption {
	return func(s *GameService) { s.recorder = r }
}

func NewGameService(games GameRepository, questions QuestionSource, leaderboard *LeaderboardService, opts ...GameOption) *GameService {
	s := &GameService{
		games:       games,
		questions:   questions,
		leaderboard: leaderboard,
		log:         logrus.StandardLogger(),
		recorder:    nopRecorder{},
		now:         time.Now,
		timeLimit:   DefaultTimeLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Game is one round in progress. All fields are guarded by mu.
type Game struct {
	mu           sync.Mutex
	id           string
	settings     domain.GameSettings
	questions    []domain.Question
	index        int
	answered     int
	correct      int
	awaitingNext bool
	finished     bool
	result       *domain.GameResult
	watch        *Stopwatch
	deadline     time.Time
	timeLimit    time.Duration
	lastActive   time.Time
}

// NewGame is exported for infrastructure layers and tests that seed games.
func NewGame(id string, settings domain.GameSettings, questions []domain.Question, now func() time.Time) *Game {
	return &Game{
		id:         id,
		settings:   settings,
		questions:  questions,
		watch:      NewStopwatch(now),
		lastActive: now(),
	}
}

func (g *Game) ID() string {
	return g.id
}

// LastActive is the time of the last interaction, used to expire abandoned games.
func (g *Game) LastActive() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastActive
}

func (g *Game) timeAttack() bool {
	return g.settings.QuestionCount.TimeAttack()
}

func (g *Game) currentLocked() domain.QuestionView {
	return domain.QuestionView{
		Index:       g.index,
		Prompt:      g.questions[g.index].Prompt,
		BinaryInput: g.settings.Mode.BinaryInput(),
	}
}

func (g *Game) expiredLocked(now time.Time) bool {
	return g.timeAttack() && !now.Before(g.deadline)
}

// Start generates the first batch and starts the round. Regular rounds run
// the stopwatch; time-attack rounds only get a deadline.
func (s *GameService) Start(ctx context.Context, settings domain.GameSettings) (domain.GameView, error) {
	if err := settings.Validate(); err != nil {
		return domain.GameView{}, err
	}
	questions, err := s.questions.Generate(settings.Mode, settings.QuestionCount, settings.Difficulty)
	if err != nil {
		return domain.GameView{}, err
	}

	game := NewGame(uuid.NewString(), settings, questions, s.now)
	view := domain.GameView{
		ID:        game.id,
		Settings:  settings,
		ModeLabel: settings.Mode.Label(),
		Question:  game.currentLocked(),
	}
	if settings.QuestionCount.TimeAttack() {
		game.timeLimit = s.timeLimit
		game.deadline = s.now().Add(s.timeLimit)
		deadline := game.deadline
		view.TimeLimitMs = s.timeLimit.Milliseconds()
		view.Deadline = &deadline
	} else {
		game.watch.Start()
	}

	s.games.Save(game)
	s.recorder.RecordGameStarted(settings)
	s.log.WithFields(logrus.Fields{
		"game":       game.id,
		"mode":       settings.Mode,
		"difficulty": settings.Difficulty,
		"count":      settings.QuestionCount,
	}).Debug("game started")
	return view, nil
}

// Answer checks the answer to the current question. The stopwatch is paused
// until Next so that reading the feedback does not count.
func (s *GameService) Answer(ctx context.Context, id, answer string) (domain.AnswerResult, error) {
	game, ok := s.games.Get(id)
	if !ok {
		return domain.AnswerResult{}, domain.ErrGameNotFound
	}

	game.mu.Lock()
	defer game.mu.Unlock()

	now := s.now()
	game.lastActive = now
	if game.finished {
		return domain.AnswerResult{}, domain.ErrGameFinished
	}
	if game.awaitingNext {
		return domain.AnswerResult{}, domain.ErrAwaitingNext
	}
	if game.expiredLocked(now) {
		game.finished = true
		return domain.AnswerResult{}, domain.ErrTimeUp
	}

	q := game.questions[game.index]
	correct := quiz.IsCorrect(answer, q.Answer)
	game.answered++
	if correct {
		game.correct++
	}
	game.watch.Pause()
	game.awaitingNext = true
	if !game.timeAttack() && game.index == len(game.questions)-1 {
		game.finished = true
	}

	result := domain.AnswerResult{
		Index:        game.index,
		Correct:      correct,
		Submitted:    answer,
		Expected:     q.Answer,
		CorrectCount: game.correct,
		Answered:     game.answered,
		Finished:     game.finished,
	}
	if !correct {
		result.Explanation = quiz.Explain(game.settings.Mode, q)
	}
	return result, nil
}

// Next advances to the following question and resumes the stopwatch. A
// time-attack round that runs out of questions receives another batch.
func (s *GameService) Next(ctx context.Context, id string) (domain.QuestionView, error) {
	game, ok := s.games.Get(id)
	if !ok {
		return domain.QuestionView{}, domain.ErrGameNotFound
	}

	game.mu.Lock()
	defer game.mu.Unlock()

	now := s.now()
	game.lastActive = now
	if game.finished {
		return domain.QuestionView{}, domain.ErrGameFinished
	}
	if game.expiredLocked(now) {
		game.finished = true
		return domain.QuestionView{}, domain.ErrTimeUp
	}
	if !game.awaitingNext {
		return game.currentLocked(), nil
	}

	game.index++
	if game.index >= len(game.questions) {
		batch, err := s.questions.Generate(game.settings.Mode, game.settings.QuestionCount, game.settings.Difficulty)
		if err != nil {
			game.index--
			return domain.QuestionView{}, err
		}
		game.questions = append(game.questions, batch...)
	}
	game.awaitingNext = false
	if !game.timeAttack() {
		game.watch.Resume()
	}
	return game.currentLocked(), nil
}

// Finish scores the round. Regular rounds must have answered every question;
// time-attack rounds must have reached their deadline.
func (s *GameService) Finish(ctx context.Context, id string) (domain.GameResult, error) {
	game, ok := s.games.Get(id)
	if !ok {
		return domain.GameResult{}, domain.ErrGameNotFound
	}

	game.mu.Lock()
	defer game.mu.Unlock()

	now := s.now()
	game.lastActive = now
	if game.result != nil {
		return *game.result, nil
	}
	if game.expiredLocked(now) {
		game.finished = true
	}
	if !game.finished {
		return domain.GameResult{}, domain.ErrGameNotFinished
	}
	game.watch.Pause()

	total := len(game.questions)
	storedMs := game.watch.ElapsedMs()
	if game.timeAttack() {
		total = game.answered
		storedMs = game.timeLimit.Milliseconds()
	}
	if total == 0 {
		// A time-attack round that timed out unanswered scores zero and cannot be ranked.
		game.result = &domain.GameResult{ElapsedMs: storedMs}
		return *game.result, nil
	}

	score, err := quiz.ComputeScore(game.correct, total, game.watch.ElapsedMs(), game.settings.Difficulty)
	if err != nil {
		return domain.GameResult{}, err
	}

	result := domain.GameResult{
		Score:          score,
		CorrectAnswers: game.correct,
		TotalQuestions: total,
		ElapsedMs:      storedMs,
	}
	game.result = &result
	s.recorder.RecordScore(game.settings.Difficulty, score)
	s.log.WithFields(logrus.Fields{
		"game":    game.id,
		"score":   score,
		"correct": game.correct,
		"total":   total,
	}).Info("game finished")
	return result, nil
}

// SubmitRanking enters a finished game into the leaderboard under name. The
// game is dropped once the leaderboard has answered.
func (s *GameService) SubmitRanking(ctx context.Context, id, name string) (domain.SubmissionOutcome, error) {
	game, ok := s.games.Get(id)
	if !ok {
		return domain.SubmissionOutcome{}, domain.ErrGameNotFound
	}

	game.mu.Lock()
	if game.result == nil {
		game.mu.Unlock()
		return domain.SubmissionOutcome{}, domain.ErrGameNotFinished
	}
	if game.result.TotalQuestions == 0 {
		game.mu.Unlock()
		return domain.SubmissionOutcome{}, domain.ErrNoAnswers
	}
	sub := domain.ScoreSubmission{
		Name:           name,
		Score:          game.result.Score,
		Mode:           game.settings.Mode,
		Difficulty:     game.settings.Difficulty,
		TimeMs:         game.result.ElapsedMs,
		CorrectAnswers: game.result.CorrectAnswers,
		TotalQuestions: game.result.TotalQuestions,
	}
	game.mu.Unlock()

	outcome, err := s.leaderboard.Submit(ctx, sub)
	if err != nil {
		return domain.SubmissionOutcome{}, err
	}
	s.games.Delete(id)
	return outcome, nil
}
