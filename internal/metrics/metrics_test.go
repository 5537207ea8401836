package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"basequiz-service/internal/domain"
)

func TestMetricsExposition(t *testing.T) {
	m := New()
	m.RecordSubmission(domain.OutcomeUpdated)
	m.RecordGameStarted(domain.GameSettings{Mode: domain.HexToBinary, QuestionCount: domain.CountFree, Difficulty: domain.Expert})
	m.RecordScore(domain.Expert, 2400)
	m.ObserveRequest("GET /api/rankings", "200", 20*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)

	for _, want := range []string{
		`basequiz_leaderboard_submissions_total{outcome="updated"} 1`,
		`basequiz_game_started_total{count="free",difficulty="expert",mode="hex-bin"} 1`,
		`basequiz_game_score_count{difficulty="expert"} 1`,
		`basequiz_http_requests_total{route="GET /api/rankings",status="200"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("missing %q in exposition", want)
		}
	}
}

func TestInstancesDoNotCollide(t *testing.T) {
	a, b := New(), New()
	a.RecordSubmission(domain.OutcomeCreated)
	if a.Registry() == b.Registry() {
		t.Fatalf("expected separate registries")
	}
}
