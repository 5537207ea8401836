package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"basequiz-service/internal/app"
	"basequiz-service/internal/domain"
)

const rankingColumns = `id, name, score, mode, difficulty, time, correct_answers, total_questions, created_at`

// RankingStore persists leaderboard records in the rankings table.
// Writes for one ranking key are serialized with a transaction-scoped
// advisory lock on the key.
type RankingStore struct {
	pool *pgxpool.Pool
}

func NewRankingStore(pool *pgxpool.Pool) *RankingStore {
	return &RankingStore{pool: pool}
}

func (s *RankingStore) List(ctx context.Context, filter domain.RankingFilter) ([]domain.RankingRecord, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter.Mode != "" {
		args = append(args, string(filter.Mode))
		where = append(where, fmt.Sprintf("mode = $%d", len(args)))
	}
	if filter.Difficulty != "" {
		args = append(args, string(filter.Difficulty))
		where = append(where, fmt.Sprintf("difficulty = $%d", len(args)))
	}
	switch filter.Variant {
	case domain.VariantFixed:
		args = append(args, domain.FixedQuestionCount)
		where = append(where, fmt.Sprintf("total_questions = $%d", len(args)))
	case domain.VariantTimeAttack:
		args = append(args, domain.FixedQuestionCount)
		where = append(where, fmt.Sprintf("total_questions <> $%d", len(args)))
	}

	query := `SELECT ` + rankingColumns + ` FROM rankings`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY id`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list rankings: %w", err)
	}
	defer rows.Close()

	var out []domain.RankingRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ranking: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list rankings: %w", err)
	}
	return out, nil
}

// WithKey runs fn inside a transaction holding the key's advisory lock.
// The transaction is rolled back when fn fails.
func (s *RankingStore) WithKey(ctx context.Context, key domain.RankingKey, fn func(ctx context.Context, tx app.RankingTx) error) error {
	return s.pool.BeginFunc(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, lockKey(key)); err != nil {
			return fmt.Errorf("lock ranking key: %w", err)
		}
		return fn(ctx, rankingTx{tx: tx})
	})
}

func lockKey(key domain.RankingKey) string {
	return fmt.Sprintf("%s|%s|%s|%d", key.Name, key.Mode, key.Difficulty, key.TotalQuestions)
}

type rankingTx struct {
	tx pgx.Tx
}

func (t rankingTx) Find(ctx context.Context, key domain.RankingKey) ([]domain.RankingRecord, error) {
	rows, err := t.tx.Query(ctx,
		`SELECT `+rankingColumns+` FROM rankings
		 WHERE name = $1 AND mode = $2 AND difficulty = $3 AND total_questions = $4
		 ORDER BY score DESC`,
		key.Name, string(key.Mode), string(key.Difficulty), key.TotalQuestions)
	if err != nil {
		return nil, fmt.Errorf("find rankings: %w", err)
	}
	defer rows.Close()

	var out []domain.RankingRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ranking: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (t rankingTx) Insert(ctx context.Context, rec domain.RankingRecord) (domain.RankingRecord, error) {
	err := t.tx.QueryRow(ctx,
		`INSERT INTO rankings (name, score, mode, difficulty, time, correct_answers, total_questions)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		rec.Name, rec.Score, string(rec.Mode), string(rec.Difficulty), rec.TimeMs, rec.CorrectAnswers, rec.TotalQuestions,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return domain.RankingRecord{}, fmt.Errorf("insert ranking: %w", err)
	}
	return rec, nil
}

func (t rankingTx) Update(ctx context.Context, id int64, u domain.RankingUpdate) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE rankings
		 SET score = $1, time = $2, correct_answers = $3, total_questions = $4, created_at = now()
		 WHERE id = $5`,
		u.Score, u.TimeMs, u.CorrectAnswers, u.TotalQuestions, id)
	if err != nil {
		return fmt.Errorf("update ranking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRankingNotFound
	}
	return nil
}

func scanRecord(row pgx.Row) (domain.RankingRecord, error) {
	var (
		rec        domain.RankingRecord
		mode, diff string
	)
	err := row.Scan(&rec.ID, &rec.Name, &rec.Score, &mode, &diff, &rec.TimeMs, &rec.CorrectAnswers, &rec.TotalQuestions, &rec.CreatedAt)
	rec.Mode = domain.Mode(mode)
	rec.Difficulty = domain.Difficulty(diff)
	return rec, err
}
