package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"basequiz-service/internal/app"
	"basequiz-service/internal/domain"
	"basequiz-service/internal/infra/memory"
	"basequiz-service/internal/logger"
	"basequiz-service/internal/metrics"
	"basequiz-service/internal/quiz"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	log := logger.Discard()
	feed := app.NewRankingFeed()
	m := metrics.New()
	leaderboard := app.NewLeaderboardService(memory.NewRankingStore(),
		app.WithFeed(feed), app.WithLogger(log), app.WithRecorder(m))
	games := app.NewGameService(memory.NewSessionStore(), quiz.NewGenerator(), leaderboard,
		app.WithGameLogger(log), app.WithGameRecorder(m))

	router := NewRouter(NewAPIHandler(games, leaderboard, log), NewWSHandler(leaderboard, feed, log), m, log)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func TestWebSocketRankingsFlow(t *testing.T) {
	server := newTestServer(t)

	u := "ws" + server.URL[len("http"):] + "/ws/rankings?variant=all"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	page := readRankings(t, conn)
	if page.TotalItems != 0 || page.Query.Filter.Variant != domain.VariantAll {
		t.Fatalf("unexpected initial page %+v", page)
	}

	postScore(t, server.URL, domain.ScoreSubmission{
		Name: "Alice", Score: 640, Mode: domain.HexToDecimal, Difficulty: domain.Expert,
		TimeMs: 30000, CorrectAnswers: 8, TotalQuestions: 10,
	})
	page = readRankings(t, conn)
	if page.TotalItems != 1 || page.Entries[0].Record.Name != "Alice" {
		t.Fatalf("expected pushed update with Alice, got %+v", page)
	}

	// Selecting a mode that has no records empties the view.
	query := map[string]any{
		"type":    "query",
		"payload": map[string]any{"toggleMode": "bin-dec"},
	}
	if err := conn.WriteJSON(query); err != nil {
		t.Fatalf("write query: %v", err)
	}
	page = readRankings(t, conn)
	if page.TotalItems != 0 || page.Query.Filter.Mode != domain.BinaryToDecimal {
		t.Fatalf("expected filtered empty page, got %+v", page)
	}

	if err := conn.WriteJSON(map[string]any{"type": "answer"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	typ, _ := readMessage(t, conn)
	if typ != "error" {
		t.Fatalf("expected error for unsupported message, got %s", typ)
	}
}

func readMessage(t *testing.T, conn *websocket.Conn) (string, json.RawMessage) {
	t.Helper()
	var msg struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	return msg.Type, msg.Payload
}

func readRankings(t *testing.T, conn *websocket.Conn) domain.RankingPage {
	t.Helper()
	typ, payload := readMessage(t, conn)
	if typ != "rankings" {
		t.Fatalf("expected rankings, got %s (%s)", typ, payload)
	}
	var page domain.RankingPage
	if err := json.Unmarshal(payload, &page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	return page
}

func postScore(t *testing.T, baseURL string, sub domain.ScoreSubmission) domain.SubmissionOutcome {
	t.Helper()
	var outcome domain.SubmissionOutcome
	status := doJSON(t, http.MethodPost, baseURL+"/api/rankings", sub, &outcome)
	if status != http.StatusOK {
		t.Fatalf("submit score: status %d", status)
	}
	return outcome
}

// doJSON performs a request and decodes the envelope's data into out.
func doJSON(t *testing.T, method, url string, body, out interface{}) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	var env struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   string          `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if env.Success != (resp.StatusCode < 300) {
		t.Fatalf("envelope success=%v for status %d", env.Success, resp.StatusCode)
	}
	if out != nil && env.Success {
		if err := json.Unmarshal(env.Data, out); err != nil {
			t.Fatalf("decode data: %v", err)
		}
	}
	return resp.StatusCode
}
