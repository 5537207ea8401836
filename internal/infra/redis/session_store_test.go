package redis

import (
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"

	"basequiz-service/internal/app"
	"basequiz-service/internal/domain"
)

func TestSessionStoreSetsAndClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewSessionStore(newClient(mr), time.Minute)
	store.Save(sampleGame("game-1", time.Now()))
	if !mr.Exists("basequiz:game:game-1") {
		t.Fatalf("expected redis key to be set")
	}
	if _, ok := store.Get("game-1"); !ok {
		t.Fatalf("expected game present")
	}

	store.Delete("game-1")
	if mr.Exists("basequiz:game:game-1") {
		t.Fatalf("expected redis key to be removed")
	}
	if _, ok := store.Get("game-1"); ok {
		t.Fatalf("expected game removed")
	}
}

func TestSessionStoreDropsExpiredGames(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewSessionStore(newClient(mr), time.Minute)
	store.Save(sampleGame("game-1", time.Now()))

	mr.FastForward(40 * time.Second)
	if _, ok := store.Get("game-1"); !ok {
		t.Fatalf("expected game alive before the TTL")
	}
	// The lookup above refreshed the TTL.
	mr.FastForward(40 * time.Second)
	if _, ok := store.Get("game-1"); !ok {
		t.Fatalf("expected game alive after refresh")
	}

	mr.FastForward(2 * time.Minute)
	if _, ok := store.Get("game-1"); ok {
		t.Fatalf("expected expired game dropped")
	}
}

func TestSessionStorePrune(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	start := time.Date(2024, 11, 22, 10, 0, 0, 0, time.UTC)
	store := NewSessionStore(newClient(mr), time.Hour)
	store.Save(sampleGame("old", start))
	store.Save(sampleGame("fresh", start.Add(20*time.Minute)))

	if removed := store.Prune(start.Add(45*time.Minute), 30*time.Minute); removed != 1 {
		t.Fatalf("expected 1 pruned game, got %d", removed)
	}
	if mr.Exists("basequiz:game:old") || !mr.Exists("basequiz:game:fresh") {
		t.Fatalf("unexpected liveness keys %v", mr.Keys())
	}
}

func sampleGame(id string, at time.Time) *app.Game {
	settings := domain.GameSettings{Mode: domain.DecimalToBinary, QuestionCount: domain.CountFixed, Difficulty: domain.Beginner}
	return app.NewGame(id, settings, []domain.Question{{Prompt: "5", Answer: "0101"}}, func() time.Time { return at })
}
