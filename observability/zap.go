package observability

import (
	"context"

	"go.uber.org/zap"
)

// ZapObserver logs attempt and terminal-outcome events at debug/warn
// level, matching the level discipline AWS SDK Go v2's retry
// middleware uses for its own per-attempt logf calls: routine attempts
// are debug noise, denial and terminal failure are warnings.
type ZapObserver struct {
	log *zap.Logger
}

// NewZapObserver wraps log. A nil log falls back to zap.NewNop().
func NewZapObserver(log *zap.Logger) *ZapObserver {
	if log == nil {
		log = zap.NewNop()
	}
	return &ZapObserver{log: log}
}

func (z *ZapObserver) OnAttemptStart(_ context.Context, rec AttemptRecord) {
	z.log.Debug("attempt starting",
		zap.Int("attempt_number", rec.AttemptNumber),
		zap.Duration("backoff_delay", rec.BackoffDelay),
	)
}

func (z *ZapObserver) OnAttemptEnd(_ context.Context, rec AttemptRecord) {
	if rec.Failure == nil {
		z.log.Debug("attempt succeeded",
			zap.Int("attempt_number", rec.AttemptNumber),
			zap.Int("status_code", rec.StatusCode),
		)
		return
	}
	z.log.Debug("attempt failed",
		zap.Int("attempt_number", rec.AttemptNumber),
		zap.String("failure_kind", rec.Failure.Kind.String()),
		zap.Error(rec.Failure),
	)
}

func (z *ZapObserver) OnCapacityDenied(_ context.Context, attemptNumber int) {
	z.log.Warn("attempt denied by admission control", zap.Int("attempt_number", attemptNumber))
}

func (z *ZapObserver) OnTerminal(_ context.Context, outcome Outcome, attempts int, finalErr error) {
	fields := []zap.Field{
		zap.String("outcome", string(outcome)),
		zap.Int("attempts", attempts),
	}
	if finalErr != nil {
		fields = append(fields, zap.Error(finalErr))
	}
	if outcome == OutcomeSuccess {
		z.log.Debug("request finished", fields...)
		return
	}
	z.log.Warn("request finished", fields...)
}
