package app

import (
	"sync"

	"basequiz-service/internal/domain"
)

// RankingFeed fans out leaderboard changes to live viewers.
type RankingFeed struct {
	mu          sync.Mutex
	subscribers map[chan domain.RankingChange]struct{}
}

func NewRankingFeed() *RankingFeed {
	return &RankingFeed{subscribers: make(map[chan domain.RankingChange]struct{})}
}

// Subscribe returns a channel of changes. The caller must invoke the returned
// cancel function to avoid leaks.
func (f *RankingFeed) Subscribe() (<-chan domain.RankingChange, func()) {
	ch := make(chan domain.RankingChange, 8)

	f.mu.Lock()
	f.subscribers[ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		if _, ok := f.subscribers[ch]; ok {
			delete(f.subscribers, ch)
			close(ch)
		}
		f.mu.Unlock()
	}
	return ch, cancel
}

// Publish never blocks: a full subscriber loses its oldest pending change.
func (f *RankingFeed) Publish(change domain.RankingChange) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subscribers {
		select {
		case ch <- change:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- change
		}
	}
}

// Subscribers reports the number of live subscriptions.
func (f *RankingFeed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subscribers)
}
