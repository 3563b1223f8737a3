// Package attemptctx holds the per-attempt scratch state that the driver
// threads through the capacity, backoff, and retry-condition components
// on each attempt.
//
// It is deliberately dependency-free of policy, backoff, and condition so
// that every one of those packages can depend on it without introducing
// an import cycle.
package attemptctx

import (
	"time"

	"github.com/aponysus/retrycap/classify"
)

// Context is created once per logical request, mutated only by the
// driver, and never shared across concurrent requests.
type Context struct {
	// AttemptNumber is 1 on the first attempt, incremented before each
	// subsequent attempt starts.
	AttemptNumber int

	LastFailure        *classify.Failure
	LastResponseStatus int
	LastBackoffDelay   time.Duration

	// Attributes is a scoped side-channel for components to stash
	// per-execution data (e.g. the capacity most recently acquired from
	// the bucket) without the driver needing to know about it.
	Attributes map[string]any
}

// New returns a fresh Context ready for attempt 1.
func New() *Context {
	return &Context{Attributes: make(map[string]any)}
}

// RetriesAttempted is the value MaxNumberOfRetries and the rest of the
// retry-condition machinery compare against numRetries: the number of
// attempts made so far that were not the first attempt, floored at zero.
func (c *Context) RetriesAttempted() int {
	if c.AttemptNumber <= 1 {
		return 0
	}
	return c.AttemptNumber - 1
}
