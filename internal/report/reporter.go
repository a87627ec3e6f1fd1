package report

import (
	"context"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/hamed0406/tcpmonitor/internal/domain"
	"github.com/hamed0406/tcpmonitor/internal/metrics"
	"github.com/hamed0406/tcpmonitor/internal/notify"
	"github.com/hamed0406/tcpmonitor/internal/repo"
)

// Reporter drains the stats store into the sink once per report tick.
type Reporter struct {
	Logger   *zap.Logger
	Store    repo.StatsStore
	Sink     Sink
	Notifier notify.Notifier
	Clock    clockwork.Clock
	// Services fixes the row order; every listed service gets a row.
	Services []string
}

func NewReporter(
	logger *zap.Logger,
	store repo.StatsStore,
	sink Sink,
	notifier notify.Notifier,
	clock clockwork.Clock,
	services []string,
) *Reporter {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if notifier == nil {
		notifier = notify.Multi{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reporter{
		Logger:   logger,
		Store:    store,
		Sink:     sink,
		Notifier: notifier,
		Clock:    clock,
		Services: services,
	}
}

// Report snapshots and resets the store and writes one row per service. A sink
// error is logged and returned; the snapshot is not retried.
func (r *Reporter) Report(ctx context.Context) ([]domain.ReportRecord, error) {
	now := r.Clock.Now()
	records := Records(now, r.Services, r.Store.SnapshotAndReset())

	rows := make([]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, FormatRow(rec))
	}

	name, err := r.Sink.Write(now, rows)
	if err != nil {
		metrics.ReportsTotal.WithLabelValues("error").Inc()
		r.Logger.Error("report_sink_error",
			zap.String("file", name),
			zap.Int("rows", len(rows)),
			zap.Error(err),
		)
		return records, err
	}
	metrics.ReportsTotal.WithLabelValues("ok").Inc()
	r.Notifier.Reported(name, now)
	return records, nil
}
