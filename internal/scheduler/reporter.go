package scheduler

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/hamed0406/tcpmonitor/internal/domain"
)

// Reporter is what the report loop drives once per tick.
type Reporter interface {
	Report(ctx context.Context) ([]domain.ReportRecord, error)
}

// ReportLoop calls Reporter on its own ticker, independent of probing.
type ReportLoop struct {
	Logger   *zap.Logger
	Reporter Reporter
	Clock    clockwork.Clock
	Interval time.Duration
}

func NewReportLoop(logger *zap.Logger, r Reporter, clock clockwork.Clock, interval time.Duration) *ReportLoop {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportLoop{Logger: logger, Reporter: r, Clock: clock, Interval: interval}
}

// Run reports on every tick until ctx is cancelled. The window open at
// cancellation is discarded.
func (r *ReportLoop) Run(ctx context.Context) {
	t := r.Clock.NewTicker(r.Interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			r.Logger.Info("report_loop_stopped")
			return
		case <-t.Chan():
			// errors are logged by the reporter; the next tick proceeds normally
			_, _ = r.Reporter.Report(ctx)
		}
	}
}
