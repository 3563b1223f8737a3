// Package executor defines the wire-level collaborator the
// AttemptDriver depends on but does not implement: transport, request
// signing, and serialization are out of scope, along with clock-skew
// detection.
package executor

import (
	"context"

	"github.com/aponysus/retrycap/classify"
)

// Request is the minimal wire-level value the driver dispatches. Real
// transports carry far more (body, target, signing metadata); the
// core only needs a place to attach headers.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
}

// Response is the minimal wire-level result of a successful attempt.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

// AttemptExecutor performs one attempt over the wire. It has no retry
// semantics of its own and must respect ctx cancellation.
type AttemptExecutor interface {
	Execute(ctx context.Context, req *Request) (*Response, *classify.Failure)
}

// ClockSkewAdjuster inspects a response for signs the client's clock
// has drifted from the server's and updates a shared time offset. The
// core treats it as an opaque, optional collaborator: a nil adjuster
// is a no-op.
type ClockSkewAdjuster interface {
	AdjustForResponse(resp *Response)
}

// NoopClockSkewAdjuster never adjusts anything, for clients that do
// not need clock-skew compensation.
type NoopClockSkewAdjuster struct{}

func (NoopClockSkewAdjuster) AdjustForResponse(*Response) {}
