package condition

import (
	"github.com/aponysus/retrycap/attemptctx"
	"github.com/aponysus/retrycap/reqcapacity"
)

// CapacityBundle adapts a RequestCapacity into a Predicate so it can be
// folded into an aggregate retry condition — the older
// "outageCompensation"-style shape, where capacity admission and retry
// classification are a single condition chain rather than two separate
// checks.
//
// policy.Builder exposes the newer, separate-RequestCapacity shape by
// default; CapacityBundle exists only to translate a caller that
// explicitly asks to fold capacity into the aggregate condition, and
// must be placed last in an And() so it is never consulted for an
// attempt some earlier condition would have rejected anyway.
type CapacityBundle struct {
	Capacity reqcapacity.RequestCapacity
}

func (c CapacityBundle) ShouldRetry(ctx *attemptctx.Context) bool {
	return c.Capacity.ShouldAttemptRequest(ctx)
}

func (c CapacityBundle) RequestSucceeded(ctx *attemptctx.Context) {
	c.Capacity.RequestSucceeded(ctx)
}
