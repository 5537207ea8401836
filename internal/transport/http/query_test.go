package http

import (
	"errors"
	"net/url"
	"testing"

	"basequiz-service/internal/domain"
)

func TestParseRankingQuery(t *testing.T) {
	q, err := parseRankingQuery(url.Values{})
	if err != nil || q != domain.DefaultRankingQuery() {
		t.Fatalf("expected default query, got %+v (%v)", q, err)
	}

	q, err = parseRankingQuery(url.Values{
		"mode":       {"hex-dec"},
		"difficulty": {"expert"},
		"variant":    {"all"},
		"sort":       {"name"},
		"dir":        {"asc"},
		"page":       {"3"},
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := domain.RankingQuery{
		Filter:    domain.RankingFilter{Mode: domain.HexToDecimal, Difficulty: domain.Expert, Variant: domain.VariantAll},
		Sort:      domain.SortName,
		Direction: domain.Asc,
		Page:      3,
	}
	if q != want {
		t.Fatalf("expected %+v, got %+v", want, q)
	}

	bad := map[string]url.Values{
		"mode":    {"mode": {"oct-dec"}},
		"variant": {"variant": {"survival"}},
		"dir":     {"dir": {"up"}},
		"page":    {"page": {"0"}},
	}
	for name, values := range bad {
		_, err := parseRankingQuery(values)
		if err == nil || statusFor(err) != 400 {
			t.Fatalf("%s: expected a 400 error, got %v", name, err)
		}
	}
	if _, err := parseRankingQuery(url.Values{"mode": {"oct-dec"}}); !errors.Is(err, domain.ErrInvalidMode) {
		t.Fatalf("expected ErrInvalidMode, got %v", err)
	}
}

func TestStatusFor(t *testing.T) {
	cases := map[error]int{
		domain.ErrNoAnswers:              409,
		domain.ErrTimeUp:                 409,
		domain.ErrGameNotFound:           404,
		domain.ErrInvalidDifficulty:      400,
		domain.ErrPersistenceUnavailable: 503,
		errors.New("boom"):               500,
	}
	for err, want := range cases {
		if got := statusFor(err); got != want {
			t.Fatalf("statusFor(%v): want %d, got %d", err, want, got)
		}
	}
}
