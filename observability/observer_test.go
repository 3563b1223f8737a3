package observability_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aponysus/retrycap/observability"
)

type recordingObserver struct {
	starts, ends, denials, terminals int
}

func (r *recordingObserver) OnAttemptStart(context.Context, observability.AttemptRecord) { r.starts++ }
func (r *recordingObserver) OnAttemptEnd(context.Context, observability.AttemptRecord)   { r.ends++ }
func (r *recordingObserver) OnCapacityDenied(context.Context, int)                      { r.denials++ }
func (r *recordingObserver) OnTerminal(context.Context, observability.Outcome, int, error) {
	r.terminals++
}

func TestMultiObserver_FansOutToAllMembers(t *testing.T) {
	a := &recordingObserver{}
	b := &recordingObserver{}
	multi := observability.MultiObserver{a, b}
	ctx := context.Background()

	multi.OnAttemptStart(ctx, observability.AttemptRecord{AttemptNumber: 1})
	multi.OnAttemptEnd(ctx, observability.AttemptRecord{AttemptNumber: 1})
	multi.OnCapacityDenied(ctx, 2)
	multi.OnTerminal(ctx, observability.OutcomeFailure, 3, errors.New("boom"))

	for name, o := range map[string]*recordingObserver{"a": a, "b": b} {
		if o.starts != 1 || o.ends != 1 || o.denials != 1 || o.terminals != 1 {
			t.Errorf("%s: got starts=%d ends=%d denials=%d terminals=%d, want all 1", name, o.starts, o.ends, o.denials, o.terminals)
		}
	}
}

func TestNoopObserver_NeverPanics(t *testing.T) {
	var o observability.NoopObserver
	ctx := context.Background()
	o.OnAttemptStart(ctx, observability.AttemptRecord{})
	o.OnAttemptEnd(ctx, observability.AttemptRecord{})
	o.OnCapacityDenied(ctx, 1)
	o.OnTerminal(ctx, observability.OutcomeSuccess, 1, nil)
}
