package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/service"
)

// StartEscalationWorker runs the escalation sweep on a fixed interval until
// the context is cancelled.
func StartEscalationWorker(ctx context.Context, sweeper *service.EscalationSweeper, interval time.Duration, logger *zap.Logger) {
	if sweeper == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				logger.Info("escalation worker stopped")
				return
			case <-ticker.C:
				if _, err := sweeper.Sweep(ctx); err != nil {
					logger.Warn("escalation sweep failed", zap.Error(err))
				}
			}
		}
	}()
}
