package memory

import (
	"sync"
	"time"

	"basequiz-service/internal/app"
)

// SessionStore is an in-memory implementation of app.GameRepository.
type SessionStore struct {
	mu    sync.RWMutex
	games map[string]*app.Game
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		games: make(map[string]*app.Game),
	}
}

func (s *SessionStore) Save(game *app.Game) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[game.ID()] = game
}

func (s *SessionStore) Get(id string) (*app.Game, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[id]
	return game, ok
}

func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, id)
}

// Prune drops games idle for longer than maxIdle and returns how many were removed.
func (s *SessionStore) Prune(now time.Time, maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, game := range s.games {
		if now.Sub(game.LastActive()) > maxIdle {
			delete(s.games, id)
			removed++
		}
	}
	return removed
}
