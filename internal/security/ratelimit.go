package security

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const rateLimitKeyPrefix = "ratelimit:"

// Limits holds the per-tier request budgets for one window.
type Limits struct {
	Window time.Duration
	Admin  int
	User   int
	Guest  int
}

func (l Limits) budget(t Tier) int {
	switch t {
	case TierAdmin:
		return l.Admin
	case TierUser:
		return l.User
	default:
		return l.Guest
	}
}

// RateLimiter enforces fixed-window request budgets using redis counters.
type RateLimiter struct {
	redis  redis.UniversalClient
	limits Limits
}

// NewRateLimiter creates a redis-backed RateLimiter.
func NewRateLimiter(client redis.UniversalClient, limits Limits) *RateLimiter {
	if limits.Window <= 0 {
		limits.Window = time.Minute
	}
	return &RateLimiter{redis: client, limits: limits}
}

// Allow counts one request for subject in tier and reports whether it fits
// the budget. On redis errors the request is allowed and the error returned.
func (l *RateLimiter) Allow(ctx context.Context, tier Tier, subject string) (bool, error) {
	key := fmt.Sprintf("%s%s:%s", rateLimitKeyPrefix, tier, subject)

	pipe := l.redis.TxPipeline()
	incr := pipe.Incr(ctx, key)
	ttl := pipe.TTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, fmt.Errorf("rate limit incr: %w", err)
	}
	count := incr.Val()

	// Fixed window: the first hit starts the window. A counter left without
	// a TTL by an earlier failed EXPIRE gets one on its next hit.
	if ttl.Val() < 0 {
		if err := l.redis.Expire(ctx, key, l.limits.Window).Err(); err != nil {
			return true, fmt.Errorf("rate limit expire: %w", err)
		}
	}

	return count <= int64(l.limits.budget(tier)), nil
}
