package app

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"basequiz-service/internal/domain"
)

// DefaultMaxNameLength bounds player names in runes.
const DefaultMaxNameLength = 20

// RankingRepository abstracts leaderboard persistence (in-memory, Postgres, cached).
type RankingRepository interface {
	// List returns the records matching filter, in any order.
	List(ctx context.Context, filter domain.RankingFilter) ([]domain.RankingRecord, error)
	// WithKey runs fn with exclusive access to the records under key. Writes
	// made through tx are committed only when fn returns nil.
	WithKey(ctx context.Context, key domain.RankingKey, fn func(ctx context.Context, tx RankingTx) error) error
}

// RankingTx is the view of one ranking key inside WithKey.
type RankingTx interface {
	Find(ctx context.Context, key domain.RankingKey) ([]domain.RankingRecord, error)
	Insert(ctx context.Context, record domain.RankingRecord) (domain.RankingRecord, error)
	Update(ctx context.Context, id int64, update domain.RankingUpdate) error
}

// Recorder receives service-level measurements.
type Recorder interface {
	RecordSubmission(kind domain.OutcomeKind)
	RecordGameStarted(settings domain.GameSettings)
	RecordScore(difficulty domain.Difficulty, score int)
}

type nopRecorder struct{}

func (nopRecorder) RecordSubmission(domain.OutcomeKind)   {}
func (nopRecorder) RecordGameStarted(domain.GameSettings) {}
func (nopRecorder) RecordScore(domain.Difficulty, int)    {}

// LeaderboardService applies the high-score merge policy and builds ranking views.
type LeaderboardService struct {
	repo          RankingRepository
	feed          *RankingFeed
	log           logrus.FieldLogger
	recorder      Recorder
	validate      *validator.Validate
	maxNameLength int
	pageSize      int
	now           func() time.Time
}

// LeaderboardOption customizes a LeaderboardService.
type LeaderboardOption func(*LeaderboardService)

func WithFeed(feed *RankingFeed) LeaderboardOption {
	return func(s *LeaderboardService) { s.feed = feed }
}

func WithLogger(log logrus.FieldLogger) LeaderboardOption {
	return func(s *LeaderboardService) { s.log = log }
}

func WithRecorder(r Recorder) LeaderboardOption {
	return func(s *LeaderboardService) { s.recorder = r }
}

func WithMaxNameLength(n int) LeaderboardOption {
	return func(s *LeaderboardService) {
		if n > 0 {
			s.maxNameLength = n
		}
	}
}

func WithPageSize(n int) LeaderboardOption {
	return func(s *LeaderboardService) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

func NewLeaderboardService(repo RankingRepository, opts ...LeaderboardOption) *LeaderboardService {
	s := &LeaderboardService{
		repo:          repo,
		log:           logrus.StandardLogger(),
		recorder:      nopRecorder{},
		validate:      newValidator(),
		maxNameLength: DefaultMaxNameLength,
		pageSize:      DefaultPageSize,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit records a score if it is the best one for its ranking key.
//
// An identical score for the key is reported as a duplicate without writing;
// a lower score is rejected; a higher score replaces the stored record. The
// comparison runs inside the repository's per-key critical section so that
// concurrent submissions can never downgrade a stored score.
func (s *LeaderboardService) Submit(ctx context.Context, sub domain.ScoreSubmission) (domain.SubmissionOutcome, error) {
	sub.Name = strings.TrimSpace(sub.Name)
	if err := s.validateSubmission(sub); err != nil {
		return domain.SubmissionOutcome{}, err
	}

	key := sub.Key()
	var outcome domain.SubmissionOutcome
	err := s.repo.WithKey(ctx, key, func(ctx context.Context, tx RankingTx) error {
		existing, err := tx.Find(ctx, key)
		if err != nil {
			return err
		}
		outcome, err = mergeSubmission(ctx, tx, existing, sub)
		return err
	})
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"name":       sub.Name,
			"mode":       sub.Mode,
			"difficulty": sub.Difficulty,
		}).Error("leaderboard submission failed")
		return domain.SubmissionOutcome{}, fmt.Errorf("%w: %w", domain.ErrPersistenceUnavailable, err)
	}

	s.recorder.RecordSubmission(outcome.Kind)
	s.log.WithFields(logrus.Fields{
		"name":      sub.Name,
		"mode":      sub.Mode,
		"outcome":   outcome.Kind,
		"score":     sub.Score,
		"previous":  outcome.Previous,
		"questions": sub.TotalQuestions,
	}).Info("leaderboard submission")

	if outcome.Accepted() && s.feed != nil {
		s.feed.Publish(domain.RankingChange{Key: key, Outcome: outcome, At: s.now()})
	}
	return outcome, nil
}

func mergeSubmission(ctx context.Context, tx RankingTx, existing []domain.RankingRecord, sub domain.ScoreSubmission) (domain.SubmissionOutcome, error) {
	for _, rec := range existing {
		if rec.Score == sub.Score {
			return domain.SubmissionOutcome{
				Kind:      domain.OutcomeDuplicate,
				Previous:  rec.Score,
				Submitted: sub.Score,
				Message:   fmt.Sprintf("This record is already registered (%d).", sub.Score),
			}, nil
		}
	}

	if len(existing) == 0 {
		if _, err := tx.Insert(ctx, sub.Record()); err != nil {
			return domain.SubmissionOutcome{}, err
		}
		return domain.SubmissionOutcome{
			Kind:      domain.OutcomeCreated,
			Submitted: sub.Score,
			Message:   "Registered on the leaderboard for the first time!",
		}, nil
	}

	best := existing[0]
	for _, rec := range existing[1:] {
		if rec.Score > best.Score {
			best = rec
		}
	}

	if best.Score > sub.Score {
		return domain.SubmissionOutcome{
			Kind:      domain.OutcomeRejectedLower,
			Previous:  best.Score,
			Submitted: sub.Score,
			Message:   fmt.Sprintf("Your previous record is better (%d > %d). This score was not saved.", best.Score, sub.Score),
		}, nil
	}

	if err := tx.Update(ctx, best.ID, domain.RankingUpdate{
		Score:          sub.Score,
		TimeMs:         sub.TimeMs,
		CorrectAnswers: sub.CorrectAnswers,
		TotalQuestions: sub.TotalQuestions,
	}); err != nil {
		return domain.SubmissionOutcome{}, err
	}
	return domain.SubmissionOutcome{
		Kind:      domain.OutcomeUpdated,
		Previous:  best.Score,
		Submitted: sub.Score,
		Message:   fmt.Sprintf("Record updated! %d → %d", best.Score, sub.Score),
	}, nil
}

// newValidator reports fields by their json names so errors match the request body.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (s *LeaderboardService) validateSubmission(sub domain.ScoreSubmission) error {
	if sub.Name == "" {
		return &domain.ValidationError{Field: "name", Message: "name is required"}
	}
	if utf8.RuneCountInString(sub.Name) > s.maxNameLength {
		return &domain.ValidationError{Field: "name", Message: fmt.Sprintf("name must be at most %d characters", s.maxNameLength)}
	}
	if !sub.Mode.Valid() {
		return &domain.ValidationError{Field: "mode", Message: domain.ErrInvalidMode.Error()}
	}
	if !sub.Difficulty.Valid() {
		return &domain.ValidationError{Field: "difficulty", Message: domain.ErrInvalidDifficulty.Error()}
	}
	if err := s.validate.Struct(sub); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return &domain.ValidationError{Field: fe.Field(), Message: "failed on " + fe.Tag()}
		}
		return &domain.ValidationError{Field: "submission", Message: err.Error()}
	}
	return nil
}

// View lists the records matching the query filter and returns the requested page.
func (s *LeaderboardService) View(ctx context.Context, query domain.RankingQuery) (domain.RankingPage, error) {
	query = query.Normalize()
	records, err := s.repo.List(ctx, query.Filter)
	if err != nil {
		s.log.WithError(err).Error("list rankings failed")
		return domain.RankingPage{}, fmt.Errorf("%w: %w", domain.ErrPersistenceUnavailable, err)
	}
	return BuildRankingView(records, query, s.pageSize), nil
}
