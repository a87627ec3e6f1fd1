package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hamed0406/tcpmonitor/internal/domain"
	"github.com/hamed0406/tcpmonitor/internal/notify"
	"github.com/hamed0406/tcpmonitor/internal/probe"
	"github.com/hamed0406/tcpmonitor/internal/repo"
)

type State int32

const (
	StateRunning State = iota
	StateStopping
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

type MonitorConfig struct {
	Logger   *zap.Logger
	Clock    clockwork.Clock
	Targets  []domain.Target
	Store    repo.StatsStore
	Prober   probe.Prober
	Reporter Reporter
	Notifier notify.Notifier

	ProbeInterval  time.Duration
	ReportInterval time.Duration
	// ProbeTimeout bounds each probe leg; each probe is fenced at twice this.
	ProbeTimeout   time.Duration
	MaxConcurrency int
}

func (cfg *MonitorConfig) Validate() error {
	if cfg.Logger == nil {
		return errors.New("logger is required")
	}
	if cfg.Clock == nil {
		return errors.New("clock is required")
	}
	if len(cfg.Targets) == 0 {
		return errors.New("at least one target is required")
	}
	if cfg.Store == nil {
		return errors.New("stats store is required")
	}
	if cfg.Prober == nil {
		return errors.New("prober is required")
	}
	if cfg.Reporter == nil {
		return errors.New("reporter is required")
	}
	if cfg.Notifier == nil {
		return errors.New("notifier is required")
	}
	if cfg.ProbeInterval <= 0 {
		return errors.New("probe interval must be greater than 0")
	}
	if cfg.ReportInterval <= 0 {
		return errors.New("report interval must be greater than 0")
	}
	if cfg.ProbeTimeout <= 0 {
		return errors.New("probe timeout must be greater than 0")
	}
	if cfg.MaxConcurrency < 0 {
		return errors.New("max concurrency must not be negative")
	}
	return nil
}

// Monitor runs the probe loop and the report loop side by side. They share
// nothing but the stats store.
type Monitor struct {
	cfg     MonitorConfig
	probes  *ProbeLoop
	reports *ReportLoop
	state   atomic.Int32
}

func NewMonitor(cfg MonitorConfig) (*Monitor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid monitor config: %w", err)
	}
	m := &Monitor{
		cfg: cfg,
		probes: NewProbeLoop(cfg.Logger, cfg.Targets, cfg.Store, cfg.Prober, cfg.Notifier,
			cfg.Clock, cfg.ProbeInterval, 2*cfg.ProbeTimeout, cfg.MaxConcurrency),
		reports: NewReportLoop(cfg.Logger, cfg.Reporter, cfg.Clock, cfg.ReportInterval),
	}
	m.state.Store(int32(StateRunning))
	return m, nil
}

func (m *Monitor) State() State {
	return State(m.state.Load())
}

// Run blocks until ctx is cancelled and both loops have returned.
func (m *Monitor) Run(ctx context.Context) error {
	m.cfg.Notifier.Started(m.cfg.Targets)
	m.cfg.Logger.Info("monitor_running",
		zap.Int("targets", len(m.cfg.Targets)),
		zap.Duration("probe_interval", m.cfg.ProbeInterval),
		zap.Duration("report_interval", m.cfg.ReportInterval),
		zap.Duration("probe_timeout", m.cfg.ProbeTimeout),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m.probes.Run(gctx)
		return nil
	})
	g.Go(func() error {
		m.reports.Run(gctx)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		m.state.Store(int32(StateStopping))
		m.cfg.Notifier.Stopping()
		return nil
	})

	err := g.Wait()
	m.state.Store(int32(StateStopped))
	m.cfg.Logger.Info("monitor_stopped")
	return err
}
