// Package condition implements the RetryCondition capability as a
// small closed set of tagged variants composed by conjunction,
// following the DeciderFunc.And/Or composition pattern in
// gogama/httpx's retry package: no inheritance, a closed set of
// variants.
package condition

import (
	"github.com/aponysus/retrycap/attemptctx"
	"github.com/aponysus/retrycap/classify"
)

// Predicate is the RetryCondition capability: a predicate over an attempt
// context, plus a hook invoked once a request ultimately succeeds so
// stateful conditions (like a bundled capacity condition) can update
// themselves.
type Predicate interface {
	ShouldRetry(ctx *attemptctx.Context) bool
	RequestSucceeded(ctx *attemptctx.Context)
}

type maxNumberOfRetries struct {
	n int
}

// MaxNumberOfRetries returns a Predicate that is true while fewer than n
// retries have been attempted.
func MaxNumberOfRetries(n int) Predicate {
	return maxNumberOfRetries{n: n}
}

func (m maxNumberOfRetries) ShouldRetry(ctx *attemptctx.Context) bool {
	return ctx.RetriesAttempted() < m.n
}

func (maxNumberOfRetries) RequestSucceeded(*attemptctx.Context) {}

type never struct{}

// Never returns a Predicate that always answers false.
func Never() Predicate { return never{} }

func (never) ShouldRetry(*attemptctx.Context) bool { return false }
func (never) RequestSucceeded(*attemptctx.Context)  {}

type defaultClassifierCondition struct {
	classifier classify.Classifier
}

// DefaultClassifierCondition returns a Predicate true iff the classifier
// marks the context's last failure retryable.
func DefaultClassifierCondition(c classify.Classifier) Predicate {
	return defaultClassifierCondition{classifier: c}
}

func (d defaultClassifierCondition) ShouldRetry(ctx *attemptctx.Context) bool {
	if ctx.LastFailure == nil {
		return false
	}
	return d.classifier.IsRetryable(ctx.LastFailure)
}

func (defaultClassifierCondition) RequestSucceeded(*attemptctx.Context) {}

type and struct {
	members []Predicate
}

// And composes members into a short-circuit conjunction: evaluation
// order is preserved, and RequestSucceeded is forwarded to every member
// regardless of ShouldRetry outcome.
func And(members ...Predicate) Predicate {
	return and{members: members}
}

func (a and) ShouldRetry(ctx *attemptctx.Context) bool {
	for _, m := range a.members {
		if !m.ShouldRetry(ctx) {
			return false
		}
	}
	return true
}

func (a and) RequestSucceeded(ctx *attemptctx.Context) {
	for _, m := range a.members {
		m.RequestSucceeded(ctx)
	}
}
