// Package attempt implements the AttemptDriver state machine: the
// per-request loop that composes a RetryPolicy's capacity, backoff,
// and retry-condition across a sequence of attempts, modeled on the
// attempt bookkeeping in RetryableStageHelper and the driving for-loop
// shape of the AWS SDK Go v2 retry middleware.
package attempt

import (
	"context"
	"time"

	"github.com/aponysus/retrycap/attemptctx"
	"github.com/aponysus/retrycap/classify"
	"github.com/aponysus/retrycap/executor"
	"github.com/aponysus/retrycap/header"
	"github.com/aponysus/retrycap/observability"
	"github.com/aponysus/retrycap/policy"
)

// SleepFunc realizes the driver's one suspension point.
// Implementations may block the calling goroutine or suspend a
// cooperative event loop; either way they must return promptly once
// ctx is done. Driver.Sleep defaults to DefaultSleep and is exported
// so tests can swap in a non-blocking stub.
type SleepFunc func(ctx context.Context, d time.Duration) error

// DefaultSleep blocks the calling goroutine for d, or until ctx is
// done, whichever comes first.
func DefaultSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Driver runs one request's INIT -> ATTEMPTING -> ... -> DONE state
// machine against a single RetryPolicy. A Driver is single-use: build
// one per request.
type Driver struct {
	Policy       *policy.Policy
	Executor     executor.AttemptExecutor
	ClockSkew    executor.ClockSkewAdjuster
	Observer     observability.Observer
	InvocationID string

	// Sleep realizes backoff suspension; defaults to DefaultSleep.
	Sleep SleepFunc
}

// NewDriver builds a Driver for a single request against pol. observer
// and clockSkew may be nil; a nil observer discards callbacks, a nil
// clockSkew adjuster is a no-op.
func NewDriver(pol *policy.Policy, exec executor.AttemptExecutor, clockSkew executor.ClockSkewAdjuster, obs observability.Observer) *Driver {
	if obs == nil {
		obs = observability.NoopObserver{}
	}
	if clockSkew == nil {
		clockSkew = executor.NoopClockSkewAdjuster{}
	}
	return &Driver{
		Policy:       pol,
		Executor:     exec,
		ClockSkew:    clockSkew,
		Observer:     obs,
		InvocationID: header.NewInvocationID(),
		Sleep:        DefaultSleep,
	}
}

// runKey is a per-run context.Context tag. Two concurrent Run calls may
// share a base context (context.Background() is a process-wide
// singleton), so observers that correlate calls by keying off the
// context they were handed need a value unique to this particular Run.
type runKey struct{}

// Run drives req through the retry loop and returns the final
// response, or the failure surfaced to the caller on exhaustion: the
// last underlying failure, or a *classify.Failure of kind
// CAPACITY_EXCEEDED wrapping it.
func (d *Driver) Run(ctx context.Context, req *executor.Request) (*executor.Response, *classify.Failure) {
	ctx = context.WithValue(ctx, runKey{}, d.InvocationID)
	attemptCtx := attemptctx.New()

	for {
		// 1. Start attempt.
		attemptCtx.AttemptNumber++

		// 2. Admission.
		if !d.Policy.Capacity.ShouldAttemptRequest(attemptCtx) {
			d.Observer.OnCapacityDenied(ctx, attemptCtx.AttemptNumber)
			failure := &classify.Failure{
				Kind:  classify.KindCapacityExceeded,
				Cause: attemptCtx.LastFailure,
			}
			d.Observer.OnTerminal(ctx, observability.OutcomeCapacityExceeded, attemptCtx.AttemptNumber, failure)
			return nil, failure
		}

		// 3. Backoff.
		if attemptCtx.AttemptNumber == 1 {
			attemptCtx.LastBackoffDelay = 0
		} else {
			strategy := d.Policy.BackoffFor(attemptCtx)
			delay := strategy.ComputeDelay(attemptCtx)
			attemptCtx.LastBackoffDelay = delay
			if err := d.Sleep(ctx, delay); err != nil {
				d.releaseInFlightCapacity(attemptCtx)
				failure := &classify.Failure{Kind: classify.KindClientNonRetryable, Err: &CanceledError{Err: err}}
				d.Observer.OnTerminal(ctx, observability.OutcomeCanceled, attemptCtx.AttemptNumber, failure)
				return nil, failure
			}
		}

		// 4. Augment request.
		if req.Headers == nil {
			req.Headers = make(map[string]string)
		}
		for k, v := range header.Build(attemptCtx, d.Policy.Capacity, d.InvocationID) {
			req.Headers[k] = v
		}

		rec := observability.AttemptRecord{
			AttemptNumber: attemptCtx.AttemptNumber,
			Start:         time.Now(),
			BackoffDelay:  attemptCtx.LastBackoffDelay,
		}
		d.Observer.OnAttemptStart(ctx, rec)

		// 5. Execute.
		resp, failure := d.executeSafely(ctx, req)
		rec.End = time.Now()
		if resp != nil {
			rec.StatusCode = resp.StatusCode
			attemptCtx.LastResponseStatus = resp.StatusCode
		}
		rec.Failure = failure
		d.Observer.OnAttemptEnd(ctx, rec)

		// The response arrived after the enclosing request was already
		// canceled: terminate promptly and release any capacity this
		// attempt acquired, without consulting the retry condition.
		if ctx.Err() != nil {
			d.releaseInFlightCapacity(attemptCtx)
			cancelFailure := &classify.Failure{Kind: classify.KindClientNonRetryable, Err: &CanceledError{Err: ctx.Err()}}
			d.Observer.OnTerminal(ctx, observability.OutcomeCanceled, attemptCtx.AttemptNumber, cancelFailure)
			return nil, cancelFailure
		}

		// 6. Clock-skew adjustment.
		if resp != nil {
			d.ClockSkew.AdjustForResponse(resp)
		}

		// 7. On success.
		if failure == nil {
			d.Policy.Capacity.RequestSucceeded(attemptCtx)
			d.Policy.AggregateRetryCondition().RequestSucceeded(attemptCtx)
			d.Observer.OnTerminal(ctx, observability.OutcomeSuccess, attemptCtx.AttemptNumber, nil)
			return resp, nil
		}

		// 8. On failure.
		attemptCtx.LastFailure = failure
		if d.Policy.Classifier.IsNonRetryable(failure) {
			d.Observer.OnTerminal(ctx, observability.OutcomeFailure, attemptCtx.AttemptNumber, failure)
			return nil, failure
		}
		if !d.Policy.AggregateRetryCondition().ShouldRetry(attemptCtx) {
			d.Observer.OnTerminal(ctx, observability.OutcomeFailure, attemptCtx.AttemptNumber, failure)
			return nil, failure
		}
		// loop to (1)
	}
}

// releaseInFlightCapacity releases capacity acquired for the current
// attempt exactly once. Attempt 1 never touches the bucket, so there
// is nothing to release when cancellation happens before attempt 2.
func (d *Driver) releaseInFlightCapacity(ctx *attemptctx.Context) {
	if ctx.AttemptNumber <= 1 {
		return
	}
	d.Policy.Capacity.RequestSucceeded(ctx)
}

// executeSafely recovers a panicking executor into a PanicError-carrying
// client-side failure so a misbehaving executor can never take down the
// caller's goroutine.
func (d *Driver) executeSafely(ctx context.Context, req *executor.Request) (resp *executor.Response, failure *classify.Failure) {
	defer func() {
		if r := recover(); r != nil {
			failure = &classify.Failure{
				Kind: classify.KindClientNonRetryable,
				Err:  &PanicError{Component: "attempt_executor", Value: r},
			}
			resp = nil
		}
	}()
	return d.Executor.Execute(ctx, req)
}
