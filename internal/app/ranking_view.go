package app

import (
	"fmt"
	"sort"
	"strings"

	"basequiz-service/internal/domain"
)

// DefaultPageSize is the number of leaderboard rows per page.
const DefaultPageSize = 10

// TimeAttackMs is the length of a time-attack round.
const TimeAttackMs = 60000

// BuildRankingView filters, sorts, ranks and paginates records.
//
// The rank shown next to a row follows the sorted position: index+1 when
// descending and total-index when ascending, so that an ascending view still
// numbers rows as if it were the descending one read backwards.
func BuildRankingView(records []domain.RankingRecord, query domain.RankingQuery, pageSize int) domain.RankingPage {
	query = query.Normalize()
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	filtered := make([]domain.RankingRecord, 0, len(records))
	for _, r := range records {
		if query.Filter.Matches(r) {
			filtered = append(filtered, r)
		}
	}

	// Ranks are first assigned by descending score, then the selected column is applied.
	sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Score > filtered[j].Score })
	sort.SliceStable(filtered, func(i, j int) bool {
		return compareRecords(filtered[i], filtered[j], query.Sort, query.Direction) < 0
	})

	total := len(filtered)
	totalPages := (total + pageSize - 1) / pageSize
	if query.Page > totalPages && totalPages > 0 {
		query.Page = totalPages
	}
	if totalPages == 0 {
		query.Page = 1
	}

	start := (query.Page - 1) * pageSize
	end := start + pageSize
	if end > total {
		end = total
	}

	entries := make([]domain.RankedRecord, 0, end-start)
	for i := start; i < end; i++ {
		rank := i + 1
		if query.Direction == domain.Asc {
			rank = total - i
		}
		entries = append(entries, rankedRecord(filtered[i], rank))
	}

	return domain.RankingPage{
		Query:      query,
		Entries:    entries,
		TotalItems: total,
		TotalPages: totalPages,
	}
}

func rankedRecord(r domain.RankingRecord, rank int) domain.RankedRecord {
	rr := domain.RankedRecord{
		Rank:         rank,
		Record:       r,
		ModeLabel:    r.Mode.Label(),
		TimeAttack:   r.IsTimeAttack(),
		CorrectRatio: correctRatio(r),
		DisplayTime:  FormatTime(r.TimeMs),
	}
	if r.IsTimeAttack() && r.TotalQuestions > 0 {
		rr.PerQuestionMs = PerQuestionMs(r)
		rr.DisplayTime = fmt.Sprintf("%.2fs", float64(TimeAttackMs)/1000/float64(r.TotalQuestions))
	}
	return rr
}

// PerQuestionMs is the synthesized time per question of a time-attack record.
func PerQuestionMs(r domain.RankingRecord) int64 {
	if r.TotalQuestions <= 0 {
		return 0
	}
	return int64(TimeAttackMs / r.TotalQuestions)
}

// FormatTime renders milliseconds as MM:SS.d.
func FormatTime(ms int64) string {
	minutes := ms / 60000
	seconds := (ms % 60000) / 1000
	tenths := (ms % 1000) / 100
	return fmt.Sprintf("%02d:%02d.%d", minutes, seconds, tenths)
}

func correctRatio(r domain.RankingRecord) float64 {
	total := r.TotalQuestions
	if total == 0 {
		total = 1
	}
	return float64(r.CorrectAnswers) / float64(total)
}

// compareRecords orders a before b when negative.
func compareRecords(a, b domain.RankingRecord, column domain.SortColumn, dir domain.SortDirection) int {
	asc := dir == domain.Asc

	switch column {
	case domain.SortRank:
		if asc {
			return a.Score - b.Score
		}
		return b.Score - a.Score
	case domain.SortTime:
		// Two time-attack rows compare seconds per question. In the descending
		// view those go slowest first while regular rows go fastest first;
		// ascending reverses both.
		pair := a.IsTimeAttack() && b.IsTimeAttack() && a.TotalQuestions > 0 && b.TotalQuestions > 0
		va, vb := float64(a.TimeMs), float64(b.TimeMs)
		if pair {
			va = float64(TimeAttackMs) / float64(a.TotalQuestions)
			vb = float64(TimeAttackMs) / float64(b.TotalQuestions)
		}
		if asc == pair {
			return sign(va - vb)
		}
		return sign(vb - va)
	case domain.SortName:
		return ordered(strings.ToLower(a.Name), strings.ToLower(b.Name), asc)
	case domain.SortCorrect:
		return ordered(correctRatio(a), correctRatio(b), asc)
	case domain.SortScore:
		return ordered(a.Score, b.Score, asc)
	case domain.SortMode:
		return ordered(string(a.Mode)+"-"+string(a.Difficulty), string(b.Mode)+"-"+string(b.Difficulty), asc)
	}
	return 0
}

func ordered[T int | float64 | string](a, b T, asc bool) int {
	switch {
	case a < b:
		if asc {
			return -1
		}
		return 1
	case a > b:
		if asc {
			return 1
		}
		return -1
	}
	return 0
}

func sign(v float64) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
