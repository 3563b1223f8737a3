package retrycap

import (
	"context"

	"github.com/aponysus/retrycap/attempt"
	"github.com/aponysus/retrycap/classify"
	"github.com/aponysus/retrycap/executor"
	"github.com/aponysus/retrycap/observability"
	"github.com/aponysus/retrycap/policy"
	"github.com/aponysus/retrycap/retrymode"
)

// Option configures a Driver built by New.
type Option func(*attempt.Driver)

// WithObserver attaches an Observer to the driver.
func WithObserver(obs observability.Observer) Option {
	return func(d *attempt.Driver) { d.Observer = obs }
}

// WithClockSkewAdjuster attaches a ClockSkewAdjuster to the driver.
func WithClockSkewAdjuster(adj executor.ClockSkewAdjuster) Option {
	return func(d *attempt.Driver) { d.ClockSkew = adj }
}

// New builds an AttemptDriver for a single request against pol,
// applying opts after construction.
func New(pol *policy.Policy, exec executor.AttemptExecutor, opts ...Option) *attempt.Driver {
	drv := attempt.NewDriver(pol, exec, nil, nil)
	for _, opt := range opts {
		opt(drv)
	}
	return drv
}

// NewDefaultPolicy builds a Policy using RetryMode's default
// resolution chain (explicit override unset, so environment then
// LEGACY; no profile source is set, so the profile-file step is
// skipped) with every other field left at its RetryMode-derived
// default.
func NewDefaultPolicy() *policy.Policy {
	return policy.NewBuilder().Build()
}

// Do builds a fresh driver for one request, runs it to completion, and
// returns the response or the failure surfaced to the caller. It is a
// convenience wrapper for callers that don't need to hold onto the
// Driver (e.g. to inspect InvocationID) across the call.
func Do(ctx context.Context, pol *policy.Policy, exec executor.AttemptExecutor, req *executor.Request, opts ...Option) (*executor.Response, *classify.Failure) {
	drv := New(pol, exec, opts...)
	return drv.Run(ctx, req)
}

// ResolveMode is a convenience re-export of retrymode.ResolveDefault,
// letting callers who only need the mode (not a full policy) resolve
// it against a profile source without importing retrymode directly.
func ResolveMode(profile retrymode.ProfileSource) retrymode.Mode {
	return retrymode.ResolveDefault(profile)
}
