package relay

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Quota limits how many messages the relay forwards per day.
type Quota interface {
	// Allow consumes one unit and reports whether the message may be sent.
	Allow(ctx context.Context) (bool, error)
}

// settler is implemented by quotas that hold a slot from Allow until the
// delivery it was granted for has been recorded.
type settler interface {
	Settle()
}

// Unlimited is a Quota that always allows.
type Unlimited struct{}

func (Unlimited) Allow(context.Context) (bool, error) { return true, nil }

// quotaKeyPrefix namespaces daily counters in Redis.
const quotaKeyPrefix = "portfolio:relay:quota:"

// RedisQuota counts sends per UTC day in Redis so the limit holds across
// replicas.
type RedisQuota struct {
	rdb   *redis.Client
	limit int64
	now   func() time.Time
}

// NewRedisQuota creates a daily quota of limit messages backed by rdb.
func NewRedisQuota(rdb *redis.Client, limit int) *RedisQuota {
	return &RedisQuota{rdb: rdb, limit: int64(limit), now: time.Now}
}

// Allow increments today's counter and checks it against the limit.
func (q *RedisQuota) Allow(ctx context.Context) (bool, error) {
	key := quotaKeyPrefix + q.now().UTC().Format("20060102")

	pipe := q.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, 48*time.Hour)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("quota INCR: %w", err)
	}
	return incr.Val() <= q.limit, nil
}

// DeliveryCounter reports how many messages went out since a point in time.
type DeliveryCounter interface {
	CountDeliveries(ctx context.Context, outcome string, since time.Time) (int64, error)
}

// StoreQuota derives the daily quota from recorded successful deliveries.
// Only sent messages count, so rejected and failed attempts are free.
// Deliveries still in flight hold a slot until Settle.
type StoreQuota struct {
	counter DeliveryCounter
	outcome string
	limit   int64
	now     func() time.Time

	mu      sync.Mutex
	pending int64
}

// NewStoreQuota creates a daily quota of limit messages, counting records
// with the given outcome.
func NewStoreQuota(counter DeliveryCounter, outcome string, limit int) *StoreQuota {
	return &StoreQuota{counter: counter, outcome: outcome, limit: int64(limit), now: time.Now}
}

// Allow reports whether fewer than limit messages were sent or are in
// flight today. A true result reserves a slot that must be released with
// Settle once the outcome is recorded.
func (q *StoreQuota) Allow(ctx context.Context) (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	startOfDay := q.now().UTC().Truncate(24 * time.Hour)
	n, err := q.counter.CountDeliveries(ctx, q.outcome, startOfDay)
	if err != nil {
		return false, fmt.Errorf("quota count: %w", err)
	}
	if n+q.pending >= q.limit {
		return false, nil
	}
	q.pending++
	return true, nil
}

// Settle releases a slot reserved by Allow.
func (q *StoreQuota) Settle() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.pending > 0 {
		q.pending--
	}
}
