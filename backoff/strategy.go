// Package backoff computes the delay imposed before a retry attempt.
package backoff

import (
	"math/rand"
	"sync"
	"time"

	"github.com/aponysus/retrycap/attemptctx"
)

// Strategy computes the delay before the next attempt. Implementations
// must be safe for concurrent use by multiple goroutines.
type Strategy interface {
	ComputeDelay(ctx *attemptctx.Context) time.Duration
}

// NoBackoff always returns zero delay.
type NoBackoff struct{}

func (NoBackoff) ComputeDelay(*attemptctx.Context) time.Duration { return 0 }

// FullJitter implements the "full jitter" exponential backoff formula:
// delay = rand(0, min(cap, base*2^retriesAttempted)), uniform over
// [0, ceiling] inclusive. See
// https://aws.amazon.com/blogs/architecture/exponential-backoff-and-jitter/
// for the formula this mirrors.
//
// The random source is a package-local *rand.Rand guarded by a mutex,
// the same pattern gogama/httpx's jitterExpWaiter uses; it is not part of
// the lock-free contract, which applies only to AtomicCapacity.
type FullJitter struct {
	Base time.Duration
	Cap  time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// NewFullJitter constructs a FullJitter strategy with the given base and
// ceiling. base and cap must both be positive, and cap must be at least
// base.
func NewFullJitter(base, cap time.Duration) *FullJitter {
	if base <= 0 {
		panic("backoff: base must be positive")
	}
	if cap < base {
		panic("backoff: cap must be at least base")
	}
	return &FullJitter{
		Base: base,
		Cap:  cap,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (f *FullJitter) ComputeDelay(ctx *attemptctx.Context) time.Duration {
	retries := 0
	if ctx != nil {
		retries = ctx.RetriesAttempted()
	}
	ceil := f.ceiling(retries)
	if ceil <= 0 {
		return 0
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return time.Duration(f.rng.Int63n(int64(ceil) + 1))
}

// ceiling computes min(cap, base*2^retries), guarding against overflow
// for large retry counts by clamping to cap once the shift would exceed
// it anyway.
func (f *FullJitter) ceiling(retries int) time.Duration {
	if retries < 0 {
		retries = 0
	}
	// 2^63 overflows well before retries reaches 63; once base*2^retries
	// would already dwarf any realistic cap, just return cap.
	if retries >= 62 {
		return f.Cap
	}
	scaled := f.Base * time.Duration(int64(1)<<uint(retries))
	if scaled <= 0 || scaled > f.Cap {
		return f.Cap
	}
	return scaled
}

// Default is the default full-jitter backoff strategy: base 100ms,
// cap 20s.
var Default = NewFullJitter(100*time.Millisecond, 20*time.Second)

// Throttling is the full-jitter backoff strategy used when the last
// failure is classified as throttling: base 500ms, cap 20s.
var Throttling = NewFullJitter(500*time.Millisecond, 20*time.Second)
