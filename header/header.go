// Package header builds the wire-visible observability headers the
// AttemptDriver attaches to every dispatched request.
package header

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/aponysus/retrycap/attemptctx"
	"github.com/aponysus/retrycap/reqcapacity"
)

// InvocationIDHeader carries a single value generated once per logical
// request and reused across every attempt.
const InvocationIDHeader = "amz-sdk-invocation-id"

// RetryInfoHeader carries the per-attempt "<ttt>/<bbb>/<ccc>" value.
const RetryInfoHeader = "amz-sdk-request"

// NewInvocationID returns a fresh identifier suitable for
// InvocationIDHeader.
func NewInvocationID() string {
	return uuid.NewString()
}

// capacityReporter is implemented by RequestCapacity variants that can
// report a remaining capacity for the retry-info header's third field.
// TokenBucketCapacity implements it; UnlimitedCapacity does not, which
// is precisely the "empty if no token-bucket capacity is bound" case.
type capacityReporter interface {
	CurrentCapacity() int
}

// FormatRetryInfo builds the retry-info header value at header-build
// time (not cached), reading ctx and cap fresh for each attempt:
//
//	ttt = number of prior attempts (0 on the first attempt)
//	bbb = last backoff delay in whole milliseconds (0 on the first attempt)
//	ccc = the bucket's remaining capacity immediately after admission,
//	      or empty if no token-bucket capacity is bound
func FormatRetryInfo(ctx *attemptctx.Context, capacity reqcapacity.RequestCapacity) string {
	priorAttempts := ctx.AttemptNumber - 1
	if priorAttempts < 0 {
		priorAttempts = 0
	}
	millis := ctx.LastBackoffDelay.Milliseconds()

	ccc := ""
	if reporter, ok := capacity.(capacityReporter); ok {
		ccc = strconv.Itoa(reporter.CurrentCapacity())
	}

	return fmt.Sprintf("%d/%d/%s", priorAttempts, millis, ccc)
}

// Build returns the full set of headers to attach to an outgoing
// attempt.
func Build(ctx *attemptctx.Context, capacity reqcapacity.RequestCapacity, invocationID string) map[string]string {
	return map[string]string{
		InvocationIDHeader: invocationID,
		RetryInfoHeader:    FormatRetryInfo(ctx, capacity),
	}
}
