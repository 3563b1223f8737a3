package backoff_test

import (
	"testing"
	"time"

	"github.com/aponysus/retrycap/attemptctx"
	"github.com/aponysus/retrycap/backoff"
)

func TestNoBackoff_AlwaysZero(t *testing.T) {
	var s backoff.NoBackoff
	ctx := attemptctx.New()
	ctx.AttemptNumber = 5
	if d := s.ComputeDelay(ctx); d != 0 {
		t.Fatalf("expected 0, got %v", d)
	}
}

func TestFullJitter_FirstAttemptCeilingIsBase(t *testing.T) {
	s := backoff.NewFullJitter(100*time.Millisecond, 20*time.Second)
	ctx := attemptctx.New()
	ctx.AttemptNumber = 1 // RetriesAttempted() == 0

	for i := 0; i < 200; i++ {
		d := s.ComputeDelay(ctx)
		if d < 0 || d > 100*time.Millisecond {
			t.Fatalf("delay %v out of [0, base] range", d)
		}
	}
}

func TestFullJitter_RespectsCap(t *testing.T) {
	s := backoff.NewFullJitter(100*time.Millisecond, 1*time.Second)
	ctx := attemptctx.New()
	ctx.AttemptNumber = 20 // huge exponent; should clamp to cap

	for i := 0; i < 200; i++ {
		d := s.ComputeDelay(ctx)
		if d < 0 || d > 1*time.Second {
			t.Fatalf("delay %v exceeds cap", d)
		}
	}
}

func TestFullJitter_GrowsWithRetries(t *testing.T) {
	s := backoff.NewFullJitter(10*time.Millisecond, 10*time.Second)

	// Sample many delays at low and high retry counts; the high-retry
	// ceiling should exceed the low-retry ceiling.
	lowCtx := attemptctx.New()
	lowCtx.AttemptNumber = 2 // 1 retry attempted
	highCtx := attemptctx.New()
	highCtx.AttemptNumber = 6 // 5 retries attempted

	var lowMax, highMax time.Duration
	for i := 0; i < 500; i++ {
		if d := s.ComputeDelay(lowCtx); d > lowMax {
			lowMax = d
		}
		if d := s.ComputeDelay(highCtx); d > highMax {
			highMax = d
		}
	}
	if highMax <= lowMax {
		t.Fatalf("expected high-retry ceiling to exceed low-retry ceiling: low=%v high=%v", lowMax, highMax)
	}
}

func TestFullJitter_ConcurrentUseIsRaceFree(t *testing.T) {
	s := backoff.NewFullJitter(1*time.Millisecond, 5*time.Millisecond)
	ctx := attemptctx.New()
	ctx.AttemptNumber = 3

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			for j := 0; j < 200; j++ {
				_ = s.ComputeDelay(ctx)
			}
			done <- struct{}{}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}

func TestNewFullJitter_PanicsOnInvalidBounds(t *testing.T) {
	mustPanic := func(f func()) {
		defer func() {
			if recover() == nil {
				t.Error("expected panic")
			}
		}()
		f()
	}
	mustPanic(func() { backoff.NewFullJitter(0, time.Second) })
	mustPanic(func() { backoff.NewFullJitter(time.Second, time.Millisecond) })
}
