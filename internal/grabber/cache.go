package grabber

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"grabber-service/internal/media"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const (
	cacheKeyPrefix  = "grabber:analyze:"
	DefaultCacheTTL = 10 * time.Minute
)

// CachedAnalyzer keeps analysis results in redis keyed by URL. Redis faults
// are logged and the request falls through to the wrapped analyzer.
type CachedAnalyzer struct {
	next Analyzer
	rdb  *redis.Client
	ttl  time.Duration
}

func NewCachedAnalyzer(next Analyzer, rdb *redis.Client, ttl time.Duration) *CachedAnalyzer {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedAnalyzer{next: next, rdb: rdb, ttl: ttl}
}

func cacheKey(url string) string {
	return cacheKeyPrefix + url
}

func (c *CachedAnalyzer) Analyze(ctx context.Context, url string) (*media.Analysis, error) {
	key := cacheKey(url)

	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached media.Analysis
		if err := json.Unmarshal(raw, &cached); err == nil {
			return &cached, nil
		}
		log.WithField("key", key).Warn("dropping unreadable cache entry")
	case !errors.Is(err, redis.Nil):
		log.WithFields(log.Fields{"key": key, "err": err}).Warn("analyze cache read failed")
	}

	res, err := c.next.Analyze(ctx, url)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(res); err == nil {
		if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
			log.WithFields(log.Fields{"key": key, "err": err}).Warn("analyze cache write failed")
		}
	}
	return res, nil
}
