package reqcapacity

import (
	"github.com/aponysus/retrycap/attemptctx"
	"github.com/aponysus/retrycap/capacity"
)

// RequestCapacity is the admission-control contract an AttemptDriver
// consults before dispatching each attempt.
type RequestCapacity interface {
	ShouldAttemptRequest(ctx *attemptctx.Context) bool
	RequestSucceeded(ctx *attemptctx.Context)
}

// lastAcquiredAttr is the attemptctx.Context.Attributes key
// TokenBucketCapacity uses to remember how much it acquired for the
// current attempt, so RequestSucceeded knows how much to release.
const lastAcquiredAttr = "reqcapacity.last_acquired"

// DefaultTokenBucketSize is the default bucket size: the default
// exception cost (5) times the default number of throttled retries a
// standard client budgets for (100), matching the derivation of
// SdkDefaultRetrySetting's RETRY_THROTTLING_COST * THROTTLED_RETRIES.
const DefaultTokenBucketSize = 500

// TokenBucketCapacity is the token-bucket RequestCapacity variant.
// Attempt 1 is always admitted without touching the bucket; later
// attempts pay the cost the ExceptionCostCalculator assigns to the prior
// failure.
type TokenBucketCapacity struct {
	bucket *capacity.AtomicCapacity
	cost   ExceptionCostCalculator
}

// NewTokenBucket constructs a TokenBucketCapacity with the given bucket
// size and cost calculator.
func NewTokenBucket(maxCapacity int, cost ExceptionCostCalculator) *TokenBucketCapacity {
	return &TokenBucketCapacity{
		bucket: capacity.New(maxCapacity),
		cost:   cost,
	}
}

func (t *TokenBucketCapacity) ShouldAttemptRequest(ctx *attemptctx.Context) bool {
	if ctx.AttemptNumber <= 1 {
		return true
	}

	cost := t.cost(ctx.LastFailure)
	acq, ok := t.bucket.TryAcquire(cost)
	if !ok {
		return false
	}
	ctx.Attributes[lastAcquiredAttr] = acq.Acquired
	return true
}

func (t *TokenBucketCapacity) RequestSucceeded(ctx *attemptctx.Context) {
	v, ok := ctx.Attributes[lastAcquiredAttr].(int)
	if !ok || v == 0 {
		t.bucket.Release(1)
		return
	}
	t.bucket.Release(v)
}

// CurrentCapacity returns the bucket's current remaining capacity, used
// by the header package to populate the retry-info header's third field.
func (t *TokenBucketCapacity) CurrentCapacity() int {
	return t.bucket.Current()
}

// UnlimitedCapacity always admits and never gates on shared state.
type UnlimitedCapacity struct{}

func (UnlimitedCapacity) ShouldAttemptRequest(*attemptctx.Context) bool { return true }
func (UnlimitedCapacity) RequestSucceeded(*attemptctx.Context)          {}
