package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	"basequiz-service/internal/app"
	"basequiz-service/internal/domain"
)

// lockStripes is the number of mutexes shared by all ranking keys.
const lockStripes = 64

// RankingStore is an in-memory implementation of app.RankingRepository.
// Writes for one ranking key are serialized by the mutex of the key's stripe.
type RankingStore struct {
	clock func() time.Time

	mu      sync.RWMutex
	nextID  int64
	records map[int64]domain.RankingRecord

	locks [lockStripes]sync.Mutex
}

func NewRankingStore() *RankingStore {
	return NewRankingStoreWithClock(time.Now)
}

// NewRankingStoreWithClock allows deterministic timestamps in tests.
func NewRankingStoreWithClock(now func() time.Time) *RankingStore {
	return &RankingStore{
		clock:   now,
		records: make(map[int64]domain.RankingRecord),
	}
}

func (s *RankingStore) List(ctx context.Context, filter domain.RankingFilter) ([]domain.RankingRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.RankingRecord, 0, len(s.records))
	for _, r := range s.records {
		if filter.Matches(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// WithKey runs fn under the key's mutex. Writes are staged and applied only
// when fn succeeds.
func (s *RankingStore) WithKey(ctx context.Context, key domain.RankingKey, fn func(ctx context.Context, tx app.RankingTx) error) error {
	lock := s.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	tx := &rankingTx{store: s}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	return s.commit(tx)
}

func (s *RankingStore) keyLock(key domain.RankingKey) *sync.Mutex {
	return &s.locks[stripe(key)]
}

func stripe(key domain.RankingKey) uint64 {
	h := xxhash.New()
	_, _ = h.WriteString(key.Name)
	_, _ = h.WriteString("\x00" + string(key.Mode) + "\x00" + string(key.Difficulty) + "\x00")
	_, _ = h.WriteString(strconv.Itoa(key.TotalQuestions))
	return h.Sum64() % lockStripes
}

func (s *RankingStore) commit(tx *rankingTx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, up := range tx.updates {
		rec, ok := s.records[up.id]
		if !ok {
			return domain.ErrRankingNotFound
		}
		rec.Score = up.update.Score
		rec.TimeMs = up.update.TimeMs
		rec.CorrectAnswers = up.update.CorrectAnswers
		rec.TotalQuestions = up.update.TotalQuestions
		rec.CreatedAt = up.at
		s.records[up.id] = rec
	}
	for _, rec := range tx.inserts {
		s.records[rec.ID] = rec
	}
	return nil
}

// Len reports the number of stored records.
func (s *RankingStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

type stagedUpdate struct {
	id     int64
	update domain.RankingUpdate
	at     time.Time
}

type rankingTx struct {
	store   *RankingStore
	inserts []domain.RankingRecord
	updates []stagedUpdate
}

func (t *rankingTx) Find(_ context.Context, key domain.RankingKey) ([]domain.RankingRecord, error) {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()

	var out []domain.RankingRecord
	for _, r := range t.store.records {
		if r.Key() == key {
			out = append(out, r)
		}
	}
	for _, r := range t.inserts {
		if r.Key() == key {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out, nil
}

func (t *rankingTx) Insert(_ context.Context, record domain.RankingRecord) (domain.RankingRecord, error) {
	t.store.mu.Lock()
	t.store.nextID++
	record.ID = t.store.nextID
	t.store.mu.Unlock()

	record.CreatedAt = t.store.clock()
	t.inserts = append(t.inserts, record)
	return record, nil
}

func (t *rankingTx) Update(_ context.Context, id int64, update domain.RankingUpdate) error {
	t.store.mu.RLock()
	_, ok := t.store.records[id]
	t.store.mu.RUnlock()
	if !ok {
		return domain.ErrRankingNotFound
	}
	t.updates = append(t.updates, stagedUpdate{id: id, update: update, at: t.store.clock()})
	return nil
}
