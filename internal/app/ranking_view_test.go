package app_test

import (
	"fmt"
	"testing"

	"basequiz-service/internal/app"
	"basequiz-service/internal/domain"
)

func TestTimeAttackPerQuestionSort(t *testing.T) {
	records := []domain.RankingRecord{
		{ID: 1, Name: "Fifteen", Score: 800, Mode: domain.HexToBinary, Difficulty: domain.Beginner, TimeMs: 60000, CorrectAnswers: 12, TotalQuestions: 15},
		{ID: 2, Name: "Twenty", Score: 700, Mode: domain.HexToBinary, Difficulty: domain.Beginner, TimeMs: 60000, CorrectAnswers: 14, TotalQuestions: 20},
	}
	query := domain.RankingQuery{
		Filter:    domain.RankingFilter{Variant: domain.VariantTimeAttack},
		Sort:      domain.SortTime,
		Direction: domain.Asc,
		Page:      1,
	}

	page := app.BuildRankingView(records, query, 10)
	if len(page.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(page.Entries))
	}
	first, second := page.Entries[0], page.Entries[1]
	if first.Record.Name != "Twenty" || first.PerQuestionMs != 3000 || second.PerQuestionMs != 4000 {
		t.Fatalf("expected Twenty (3000ms) before Fifteen (4000ms), got %+v / %+v", first, second)
	}
	if first.DisplayTime != "3.00s" || second.DisplayTime != "4.00s" {
		t.Fatalf("unexpected display times %q %q", first.DisplayTime, second.DisplayTime)
	}
	// Ascending ranks count down from the total.
	if first.Rank != 2 || second.Rank != 1 {
		t.Fatalf("expected ranks 2,1 got %d,%d", first.Rank, second.Rank)
	}

	query.Direction = domain.Desc
	page = app.BuildRankingView(records, query, 10)
	if page.Entries[0].Record.Name != "Fifteen" || page.Entries[0].Rank != 1 {
		t.Fatalf("expected Fifteen first when descending, got %+v", page.Entries[0])
	}
}

func TestFixedTimeSortPutsFastestFirstWhenDescending(t *testing.T) {
	records := []domain.RankingRecord{
		fixedRecord(1, "Slow", 400, 80000),
		fixedRecord(2, "Fast", 300, 12000),
		fixedRecord(3, "Mid", 500, 30000),
	}
	query := domain.RankingQuery{Sort: domain.SortTime, Direction: domain.Desc, Page: 1}

	page := app.BuildRankingView(records, query, 10)
	if names(page) != "Fast,Mid,Slow" {
		t.Fatalf("unexpected desc order %s", names(page))
	}
	query.Direction = domain.Asc
	page = app.BuildRankingView(records, query, 10)
	if names(page) != "Slow,Mid,Fast" {
		t.Fatalf("unexpected asc order %s", names(page))
	}
	if page.Entries[0].DisplayTime != "01:20.0" {
		t.Fatalf("unexpected display time %q", page.Entries[0].DisplayTime)
	}
}

func TestDefaultViewSortsByScoreAndFiltersVariant(t *testing.T) {
	records := []domain.RankingRecord{
		fixedRecord(1, "Bob", 700, 20000),
		fixedRecord(2, "alice", 900, 20000),
		{ID: 3, Name: "Zed", Score: 2000, Mode: domain.DecimalToHex, Difficulty: domain.Expert, TotalQuestions: 25, CorrectAnswers: 20},
	}

	page := app.BuildRankingView(records, domain.DefaultRankingQuery(), 10)
	if names(page) != "alice,Bob" {
		t.Fatalf("expected fixed records by score, got %s", names(page))
	}
	if page.Entries[0].Rank != 1 || page.Entries[1].Rank != 2 {
		t.Fatalf("unexpected ranks %+v", page.Entries)
	}

	byName := domain.RankingQuery{Sort: domain.SortName, Direction: domain.Asc, Page: 1, Filter: domain.RankingFilter{Variant: domain.VariantFixed}}
	page = app.BuildRankingView(records, byName, 10)
	if names(page) != "alice,Bob" {
		t.Fatalf("expected case-insensitive name order, got %s", names(page))
	}
}

func TestCorrectRatioAndModeColumns(t *testing.T) {
	records := []domain.RankingRecord{
		{ID: 1, Name: "A", Score: 100, Mode: domain.HexToDecimal, Difficulty: domain.Beginner, CorrectAnswers: 5, TotalQuestions: 10},
		{ID: 2, Name: "B", Score: 100, Mode: domain.BinaryToDecimal, Difficulty: domain.Expert, CorrectAnswers: 9, TotalQuestions: 10},
		{ID: 3, Name: "C", Score: 100, Mode: domain.BinaryToDecimal, Difficulty: domain.Beginner, CorrectAnswers: 7, TotalQuestions: 10},
	}

	page := app.BuildRankingView(records, domain.RankingQuery{Sort: domain.SortCorrect, Direction: domain.Desc, Page: 1}, 10)
	if names(page) != "B,C,A" {
		t.Fatalf("unexpected correct-ratio order %s", names(page))
	}
	page = app.BuildRankingView(records, domain.RankingQuery{Sort: domain.SortMode, Direction: domain.Asc, Page: 1}, 10)
	if names(page) != "C,B,A" {
		t.Fatalf("unexpected mode order %s", names(page))
	}
}

func TestPagination(t *testing.T) {
	var records []domain.RankingRecord
	for i := 1; i <= 23; i++ {
		records = append(records, fixedRecord(int64(i), fmt.Sprintf("p%02d", i), i*10, 20000))
	}

	page := app.BuildRankingView(records, domain.RankingQuery{Page: 3}, 10)
	if page.TotalPages != 3 || page.TotalItems != 23 || len(page.Entries) != 3 {
		t.Fatalf("unexpected pagination %+v", page)
	}
	if page.Entries[0].Rank != 21 || page.Entries[0].Record.Score != 30 {
		t.Fatalf("expected rank 21 with score 30, got %+v", page.Entries[0])
	}

	page = app.BuildRankingView(records, domain.RankingQuery{Page: 9}, 10)
	if page.Query.Page != 3 {
		t.Fatalf("expected page clamped to 3, got %d", page.Query.Page)
	}

	empty := app.BuildRankingView(nil, domain.RankingQuery{Page: 4}, 10)
	if empty.Query.Page != 1 || empty.TotalPages != 0 || len(empty.Entries) != 0 {
		t.Fatalf("unexpected empty page %+v", empty)
	}
}

func TestFormatTime(t *testing.T) {
	cases := map[int64]string{
		0:      "00:00.0",
		5250:   "00:05.2",
		61900:  "01:01.9",
		600000: "10:00.0",
	}
	for ms, want := range cases {
		if got := app.FormatTime(ms); got != want {
			t.Fatalf("FormatTime(%d): want %q, got %q", ms, want, got)
		}
	}
}

func fixedRecord(id int64, name string, score int, timeMs int64) domain.RankingRecord {
	return domain.RankingRecord{
		ID:             id,
		Name:           name,
		Score:          score,
		Mode:           domain.DecimalToBinary,
		Difficulty:     domain.Beginner,
		TimeMs:         timeMs,
		CorrectAnswers: 8,
		TotalQuestions: 10,
	}
}

func names(page domain.RankingPage) string {
	out := ""
	for i, e := range page.Entries {
		if i > 0 {
			out += ","
		}
		out += e.Record.Name
	}
	return out
}
