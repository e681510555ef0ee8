package providers

import (
	"context"
	"math"
	"sync"
	"time"
)

// RateLimiter is a token bucket shared by every request a client sends.
// Six asset steps fan out at once, so the bucket is what keeps a burst of
// jobs under the backend's quota.
type RateLimiter struct {
	mu sync.Mutex

	rps   float64
	burst float64

	tokens     float64
	lastUpdate time.Time

	totalConsumed int64
	totalWaited   time.Duration
	last429Time   time.Time
}

// RateLimiterStatus reports current limiter state.
type RateLimiterStatus struct {
	RequestsPerSecond float64       `json:"requests_per_second"`
	TokensAvailable   int           `json:"tokens_available"`
	Burst             int           `json:"burst"`
	TimeUntilToken    time.Duration `json:"time_until_token"`
	TotalConsumed     int64         `json:"total_consumed"`
	TotalWaited       time.Duration `json:"total_waited"`
	Last429Time       time.Time     `json:"last_429_time,omitempty"`
}

// DefaultRPS is used when a provider has no rate limit configured.
const DefaultRPS = 5.0

// NewRateLimiter creates a limiter refilling at rps tokens per second. The
// bucket holds one second worth of tokens, and at least one.
func NewRateLimiter(rps float64) *RateLimiter {
	if rps <= 0 {
		rps = DefaultRPS
	}
	burst := math.Max(1, math.Ceil(rps))
	return &RateLimiter{
		rps:        rps,
		burst:      burst,
		tokens:     burst,
		lastUpdate: time.Now(),
	}
}

// Wait blocks until a token is available or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	for {
		r.mu.Lock()
		r.refill()
		if r.tokens >= 1 {
			r.tokens--
			r.totalConsumed++
			r.mu.Unlock()
			return nil
		}
		wait := r.untilToken()
		r.mu.Unlock()

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			r.mu.Lock()
			r.totalWaited += wait
			r.mu.Unlock()
		}
	}
}

// TryConsume takes a token without blocking.
func (r *RateLimiter) TryConsume() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.refill()
	if r.tokens >= 1 {
		r.tokens--
		r.totalConsumed++
		return true
	}
	return false
}

// Record429 drains the bucket after the backend reported rate limiting.
func (r *RateLimiter) Record429() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.last429Time = time.Now()
	r.tokens = 0
}

// Status returns current limiter status.
func (r *RateLimiter) Status() RateLimiterStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.refill()
	var until time.Duration
	if r.tokens < 1 {
		until = r.untilToken()
	}
	return RateLimiterStatus{
		RequestsPerSecond: r.rps,
		TokensAvailable:   int(r.tokens),
		Burst:             int(r.burst),
		TimeUntilToken:    until,
		TotalConsumed:     r.totalConsumed,
		TotalWaited:       r.totalWaited,
		Last429Time:       r.last429Time,
	}
}

// refill must be called with the lock held.
func (r *RateLimiter) refill() {
	now := time.Now()
	r.tokens = math.Min(r.burst, r.tokens+now.Sub(r.lastUpdate).Seconds()*r.rps)
	r.lastUpdate = now
}

// untilToken must be called with the lock held.
func (r *RateLimiter) untilToken() time.Duration {
	return time.Duration((1 - r.tokens) / r.rps * float64(time.Second))
}
