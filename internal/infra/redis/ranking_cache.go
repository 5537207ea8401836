package redis

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"basequiz-service/internal/app"
	"basequiz-service/internal/domain"
)

const (
	listKeyPrefix = "rankings:list:"
	listIndexKey  = "rankings:lists"
	generationKey = "rankings:gen"
)

var errStaleGeneration = errors.New("ranking cache: generation changed")

// RankingCache wraps a RankingRepository and caches List results in Redis as
// JSON, one key per filter:
//
//	SET rankings:list:{mode}:{difficulty}:{variant} <json> EX ttl
//	SADD rankings:lists rankings:list:...
//
// Every successful WithKey bumps rankings:gen and drops all cached lists. A
// list read from the repository is only stored if the generation is unchanged
// since before the read. Redis errors are logged and the wrapped repository is
// used instead.
type RankingCache struct {
	next   app.RankingRepository
	client *redis.Client
	ttl    time.Duration
	log    logrus.FieldLogger
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewRankingCache(next app.RankingRepository, client *redis.Client, ttl time.Duration, log logrus.FieldLogger) *RankingCache {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &RankingCache{
		next:   next,
		client: client,
		ttl:    ttl,
		log:    log,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *RankingCache) List(ctx context.Context, filter domain.RankingFilter) ([]domain.RankingRecord, error) {
	key := listKey(filter)
	if records, ok := c.cached(ctx, key); ok {
		return records, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Re-check in case another caller filled it.
		if records, ok := c.cached(ctx, key); ok {
			return records, nil
		}
		gen, genErr := c.generation(ctx)
		records, err := c.next.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		if genErr == nil {
			c.store(ctx, key, gen, records)
		}
		return records, nil
	})
	if err != nil {
		return nil, err
	}
	records := result.([]domain.RankingRecord)
	out := make([]domain.RankingRecord, len(records))
	copy(out, records)
	return out, nil
}

func (c *RankingCache) WithKey(ctx context.Context, key domain.RankingKey, fn func(ctx context.Context, tx app.RankingTx) error) error {
	if err := c.next.WithKey(ctx, key, fn); err != nil {
		return err
	}
	c.Invalidate(ctx)
	return nil
}

// Invalidate bumps the generation and drops every cached list.
func (c *RankingCache) Invalidate(ctx context.Context) {
	if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
		c.log.WithError(err).Warn("ranking cache: bump generation")
	}
	keys, err := c.client.SMembers(ctx, listIndexKey).Result()
	if err != nil {
		c.log.WithError(err).Warn("ranking cache: read index")
		return
	}
	keys = append(keys, listIndexKey)
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.WithError(err).Warn("ranking cache: invalidate")
	}
}

func (c *RankingCache) cached(ctx context.Context, key string) ([]domain.RankingRecord, bool) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.WithError(err).WithField("key", key).Warn("ranking cache: get")
		}
		return nil, false
	}
	var records []domain.RankingRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		c.log.WithError(err).WithField("key", key).Warn("ranking cache: decode")
		return nil, false
	}
	return records, true
}

func (c *RankingCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		c.log.WithError(err).Warn("ranking cache: read generation")
	}
	return gen, err
}

// store writes records under key unless a write has bumped the generation
// since gen was read. WATCH makes the check and the write atomic.
func (c *RankingCache) store(ctx context.Context, key string, gen int64, records []domain.RankingRecord) {
	raw, err := json.Marshal(records)
	if err != nil {
		return
	}
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, generationKey).Int64()
		if err != nil && err != redis.Nil {
			return err
		}
		if current != gen {
			return errStaleGeneration
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, raw, c.ttlWithJitter())
			pipe.SAdd(ctx, listIndexKey, key)
			return nil
		})
		return err
	}, generationKey)
	switch {
	case err == nil, errors.Is(err, errStaleGeneration), errors.Is(err, redis.TxFailedErr):
	default:
		c.log.WithError(err).WithField("key", key).Warn("ranking cache: store")
	}
}

func (c *RankingCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}

func listKey(f domain.RankingFilter) string {
	return listKeyPrefix + orAll(string(f.Mode)) + ":" + orAll(string(f.Difficulty)) + ":" + orAll(string(f.Variant))
}

func orAll(s string) string {
	if s == "" {
		return "all"
	}
	return s
}
