// Package cache keeps recently listed seminar registrations in Redis so
// the admin attendance screen does not re-read the whole collection on
// every refresh. Any write to a seminar's registrations bumps the
// seminar's generation, which retires every list stored under the old one.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/config"
	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/model"
)

// generationTTL keeps a generation counter well past the lifetime of any
// list stored under it.
const generationTTL = 24 * time.Hour

// RegistrationCache stores registration lists keyed by college and
// seminar. A nil *RegistrationCache, a nil client or a disabled config
// turns every method into a no-op miss.
type RegistrationCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
	log    *slog.Logger
}

// NewRegistrationCache returns nil when caching is disabled or Redis is
// unavailable.
func NewRegistrationCache(cfg config.CacheConfig, rdb *redis.Client, logger *slog.Logger) *RegistrationCache {
	if !cfg.Enabled || rdb == nil {
		return nil
	}
	return &RegistrationCache{rdb: rdb, ttl: cfg.TTL, prefix: cfg.Prefix, log: logger}
}

func (c *RegistrationCache) base(collegeID, seminarID string) string {
	return strings.Join([]string{c.prefix, "registrations", collegeID, seminarID}, ":")
}

func (c *RegistrationCache) genKey(collegeID, seminarID string) string {
	return c.base(collegeID, seminarID) + ":gen"
}

func (c *RegistrationCache) listKey(collegeID, seminarID string, gen int64) string {
	return c.base(collegeID, seminarID) + ":g" + strconv.FormatInt(gen, 10)
}

// Get returns the cached list and true on a hit. gen is the generation the
// lookup ran under; pass it to Set when filling a miss. gen is negative
// when the generation could not be read, and Set ignores such lists.
func (c *RegistrationCache) Get(ctx context.Context, collegeID, seminarID string) ([]model.Registration, int64, bool) {
	if c == nil {
		return nil, -1, false
	}
	gen, err := c.rdb.Get(ctx, c.genKey(collegeID, seminarID)).Int64()
	if errors.Is(err, redis.Nil) {
		gen, err = 0, nil
	}
	if err != nil {
		c.log.Warn("registration cache read failed", "college", collegeID, "seminar", seminarID, "err", err)
		return nil, -1, false
	}
	raw, err := c.rdb.Get(ctx, c.listKey(collegeID, seminarID, gen)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("registration cache read failed", "college", collegeID, "seminar", seminarID, "err", err)
		}
		return nil, gen, false
	}
	var regs []model.Registration
	if err := json.Unmarshal(raw, &regs); err != nil {
		c.log.Warn("registration cache entry corrupt", "college", collegeID, "seminar", seminarID, "err", err)
		return nil, gen, false
	}
	return regs, gen, true
}

// Set stores regs under generation gen for the configured TTL. A list read
// before an Invalidate lands under a retired generation and is never
// served. Failures are logged only.
func (c *RegistrationCache) Set(ctx context.Context, collegeID, seminarID string, gen int64, regs []model.Registration) {
	if c == nil || gen < 0 {
		return
	}
	raw, err := json.Marshal(regs)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, c.listKey(collegeID, seminarID, gen), raw, c.ttl).Err(); err != nil {
		c.log.Warn("registration cache write failed", "college", collegeID, "seminar", seminarID, "err", err)
	}
}

// Invalidate moves a seminar to its next generation.
func (c *RegistrationCache) Invalidate(ctx context.Context, collegeID, seminarID string) {
	if c == nil {
		return
	}
	key := c.genKey(collegeID, seminarID)
	pipe := c.rdb.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, max(generationTTL, 2*c.ttl))
	if _, err := pipe.Exec(ctx); err != nil {
		c.log.Warn("registration cache invalidate failed", "college", collegeID, "seminar", seminarID, "err", err)
	}
}
