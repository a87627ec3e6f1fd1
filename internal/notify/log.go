package notify

import (
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/tcpmonitor/internal/domain"
)

// Log mirrors lifecycle events into the operational log. Heartbeats are
// logged at debug.
type Log struct {
	Logger *zap.Logger
}

func (l Log) Started(targets []domain.Target) {
	ss := make([]string, 0, len(targets))
	for _, t := range targets {
		ss = append(ss, t.String())
	}
	l.Logger.Info("monitor_started", zap.Strings("targets", ss))
}

func (l Log) Heartbeat() {
	l.Logger.Debug("probe_cycle_done")
}

func (l Log) Reported(file string, at time.Time) {
	l.Logger.Info("report_written", zap.String("file", file), zap.Time("at", at))
}

func (l Log) Stopping() {
	l.Logger.Info("monitor_stopping")
}
