// Package observability defines the Observer capability the
// AttemptDriver reports to, following the lifecycle-callback shape of
// the corpus's tracing/metrics observers, and provides concrete
// implementations over Prometheus, OpenTelemetry, and zap.
package observability

import (
	"context"
	"time"

	"github.com/aponysus/retrycap/classify"
)

// AttemptRecord describes one completed attempt.
type AttemptRecord struct {
	AttemptNumber int
	Start         time.Time
	End           time.Time
	BackoffDelay  time.Duration
	StatusCode    int
	Failure       *classify.Failure
}

// Outcome describes how a request ultimately terminated.
type Outcome string

const (
	OutcomeSuccess          Outcome = "success"
	OutcomeFailure          Outcome = "failure"
	OutcomeCapacityExceeded Outcome = "capacity_exceeded"
	OutcomeCanceled         Outcome = "canceled"
)

// Observer receives lifecycle callbacks from an AttemptDriver. All
// methods must be safe for concurrent use by many drivers sharing one
// policy.
type Observer interface {
	OnAttemptStart(ctx context.Context, rec AttemptRecord)
	OnAttemptEnd(ctx context.Context, rec AttemptRecord)
	OnCapacityDenied(ctx context.Context, attemptNumber int)
	OnTerminal(ctx context.Context, outcome Outcome, attempts int, finalErr error)
}

// NoopObserver discards every callback.
type NoopObserver struct{}

func (NoopObserver) OnAttemptStart(context.Context, AttemptRecord)   {}
func (NoopObserver) OnAttemptEnd(context.Context, AttemptRecord)     {}
func (NoopObserver) OnCapacityDenied(context.Context, int)           {}
func (NoopObserver) OnTerminal(context.Context, Outcome, int, error) {}

// MultiObserver fans a callback out to every member, in order.
type MultiObserver []Observer

func (m MultiObserver) OnAttemptStart(ctx context.Context, rec AttemptRecord) {
	for _, o := range m {
		o.OnAttemptStart(ctx, rec)
	}
}

func (m MultiObserver) OnAttemptEnd(ctx context.Context, rec AttemptRecord) {
	for _, o := range m {
		o.OnAttemptEnd(ctx, rec)
	}
}

func (m MultiObserver) OnCapacityDenied(ctx context.Context, attemptNumber int) {
	for _, o := range m {
		o.OnCapacityDenied(ctx, attemptNumber)
	}
}

func (m MultiObserver) OnTerminal(ctx context.Context, outcome Outcome, attempts int, finalErr error) {
	for _, o := range m {
		o.OnTerminal(ctx, outcome, attempts, finalErr)
	}
}
