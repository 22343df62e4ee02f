package ratelimit

import (
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Decision reports the outcome of a rate-limit check.
type Decision struct {
	// Allowed is true when a token was consumed; a rejected request consumes nothing.
	Allowed bool
	// Remaining is the number of tokens left in the bucket after this decision.
	Remaining int
	// Limit is the bucket capacity for the policy class.
	Limit int
	// RetryAfter hints when the next token becomes available. Zero when allowed.
	RetryAfter time.Duration
}

// Limiter is an owned, process-lifetime table of token buckets keyed by
// (policy class, client key). Refill-then-consume is atomic per bucket;
// distinct keys never contend.
type Limiter struct {
	policies Policies
	buckets  sync.Map // map[string]*bucketEntry
	stop     chan struct{}
	stopOnce sync.Once
}

// bucketEntry holds a token bucket and last access time for cleanup.
type bucketEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
	mu         sync.Mutex
}

// NewLimiter creates a Limiter with the given policies and starts a janitor
// that evicts buckets idle for over an hour (swept every 5 minutes).
func NewLimiter(policies Policies) *Limiter {
	l := &Limiter{
		policies: policies,
		stop:     make(chan struct{}),
	}

	go l.cleanupStale(5 * time.Minute)

	return l
}

// Allow applies accrued refill and attempts to consume one token for the
// (class, clientKey) bucket. ClassNone is always allowed with no bucket state.
func (l *Limiter) Allow(clientKey string, class Class) Decision {
	policy, ok := l.policies.policy(class)
	if !ok {
		return Decision{Allowed: true}
	}

	entry := l.getBucket(class.String()+":"+clientKey, policy)

	// rate.Limiter.Allow refills and consumes in one atomic step.
	allowed := entry.limiter.Allow()

	decision := Decision{
		Allowed:   allowed,
		Remaining: remainingTokens(entry.limiter),
		Limit:     policy.Limit,
	}

	if !allowed {
		// Borrow a reservation to learn the wait for the next token, then
		// return it so the rejected request consumes nothing.
		reservation := entry.limiter.Reserve()
		decision.RetryAfter = reservation.Delay()
		reservation.Cancel()
	}

	return decision
}

// getBucket retrieves or lazily creates the bucket for a key.
func (l *Limiter) getBucket(key string, policy Policy) *bucketEntry {
	if val, ok := l.buckets.Load(key); ok {
		entry := val.(*bucketEntry)
		entry.mu.Lock()
		entry.lastAccess = time.Now()
		entry.mu.Unlock()
		return entry
	}

	// Continuous refill: Limit tokens per Window, bursting to capacity.
	perSecond := float64(policy.Limit) / policy.Window.Seconds()
	entry := &bucketEntry{
		limiter:    rate.NewLimiter(rate.Limit(perSecond), policy.Limit),
		lastAccess: time.Now(),
	}

	// First caller wins under concurrent creation of the same key.
	actual, _ := l.buckets.LoadOrStore(key, entry)
	return actual.(*bucketEntry)
}

// Close stops the janitor. Bucket state itself needs no teardown.
func (l *Limiter) Close() {
	l.stopOnce.Do(func() {
		close(l.stop)
	})
}

// cleanupStale removes buckets that haven't been accessed recently.
// Runs periodically to prevent unbounded growth from client-key churn.
func (l *Limiter) cleanupStale(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			// Remove buckets not accessed in the last hour. An evicted bucket
			// is recreated full, indistinguishable from one refilled to
			// capacity over the same idle period.
			threshold := time.Now().Add(-1 * time.Hour)
			l.buckets.Range(func(key, value interface{}) bool {
				entry := value.(*bucketEntry)
				entry.mu.Lock()
				shouldDelete := entry.lastAccess.Before(threshold)
				entry.mu.Unlock()

				if shouldDelete {
					l.buckets.Delete(key)
				}
				return true
			})
		}
	}
}

// remainingTokens reports the whole tokens currently available, clamped at zero.
func remainingTokens(limiter *rate.Limiter) int {
	tokens := math.Floor(limiter.Tokens())
	if tokens < 0 {
		return 0
	}
	return int(tokens)
}
