package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"basequiz-service/internal/app"
)

// SessionStore is a Redis-aware implementation of app.GameRepository.
// Games live in a local map; Redis holds a liveness marker per game whose
// TTL is refreshed on every access. A game whose marker has expired is
// dropped on the next lookup.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
	mu     sync.RWMutex
	games  map[string]*app.Game
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client: client,
		ttl:    ttl,
		games:  make(map[string]*app.Game),
	}
}

func (s *SessionStore) Save(game *app.Game) {
	s.mu.Lock()
	s.games[game.ID()] = game
	s.mu.Unlock()
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(game.ID()), "1", s.ttl).Err()
}

func (s *SessionStore) Get(id string) (*app.Game, bool) {
	s.mu.RLock()
	game, ok := s.games[id]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}

	ctx := context.Background()
	alive, err := s.client.Expire(ctx, s.key(id), s.ttl).Result()
	if err == nil && !alive {
		s.Delete(id)
		return nil, false
	}
	return game, true
}

func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	delete(s.games, id)
	s.mu.Unlock()
	_ = s.client.Del(context.Background(), s.key(id)).Err()
}

// Prune drops games idle for longer than maxIdle and returns how many were removed.
func (s *SessionStore) Prune(now time.Time, maxIdle time.Duration) int {
	var stale []string
	s.mu.Lock()
	for id, game := range s.games {
		if now.Sub(game.LastActive()) > maxIdle {
			delete(s.games, id)
			stale = append(stale, s.key(id))
		}
	}
	s.mu.Unlock()
	if len(stale) > 0 {
		_ = s.client.Del(context.Background(), stale...).Err()
	}
	return len(stale)
}

func (s *SessionStore) key(id string) string {
	return "basequiz:game:" + id
}
