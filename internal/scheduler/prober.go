package scheduler

import (
	"context"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/hamed0406/tcpmonitor/internal/domain"
	"github.com/hamed0406/tcpmonitor/internal/metrics"
	"github.com/hamed0406/tcpmonitor/internal/notify"
	"github.com/hamed0406/tcpmonitor/internal/probe"
	"github.com/hamed0406/tcpmonitor/internal/repo"
)

// ProbeLoop probes every target once per interval and records the outcomes.
// Probes within a cycle run concurrently, at most Concurrency at a time; each
// probe is fenced by Fence from the moment it starts. Ticks that fire while a
// cycle is still running are dropped.
type ProbeLoop struct {
	Logger      *zap.Logger
	Targets     []domain.Target
	Store       repo.StatsStore
	Prober      probe.Prober
	Notifier    notify.Notifier
	Clock       clockwork.Clock
	Interval    time.Duration
	Fence       time.Duration
	Concurrency int
}

func NewProbeLoop(
	logger *zap.Logger,
	targets []domain.Target,
	store repo.StatsStore,
	prober probe.Prober,
	notifier notify.Notifier,
	clock clockwork.Clock,
	interval time.Duration,
	fence time.Duration,
	concurrency int,
) *ProbeLoop {
	if concurrency < 1 {
		concurrency = len(targets)
	}
	if concurrency < 1 {
		concurrency = 1
	}
	if interval <= 0 {
		interval = 2 * time.Second
	}
	if fence <= 0 {
		fence = 2 * probe.DefaultTimeout
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if notifier == nil {
		notifier = notify.Multi{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProbeLoop{
		Logger:      logger,
		Targets:     targets,
		Store:       store,
		Prober:      prober,
		Notifier:    notifier,
		Clock:       clock,
		Interval:    interval,
		Fence:       fence,
		Concurrency: concurrency,
	}
}

// Run does an immediate pass, then one pass per tick. It returns once ctx is
// cancelled and the in-flight cycle has finished.
func (p *ProbeLoop) Run(ctx context.Context) {
	pool := pond.NewPool(p.Concurrency)
	defer pool.StopAndWait()

	t := p.Clock.NewTicker(p.Interval)
	defer t.Stop()

	p.runOnce(ctx, pool)

	for {
		select {
		case <-ctx.Done():
			p.Logger.Info("probe_loop_stopped")
			return
		case <-t.Chan():
			p.runOnce(ctx, pool)
		}
	}
}

func (p *ProbeLoop) runOnce(ctx context.Context, pool pond.Pool) {
	if len(p.Targets) == 0 {
		return
	}
	start := p.Clock.Now()

	// Shutdown does not interrupt open sockets; probes end on their own
	// timeouts or the fence.
	base := context.WithoutCancel(ctx)

	group := pool.NewGroup()
	for _, tgt := range p.Targets {
		group.Submit(func() {
			// fence starts when the task does, not while it waits for a worker
			pctx, cancel := context.WithTimeout(base, p.Fence)
			defer cancel()

			out := p.Prober.Probe(pctx, tgt)
			p.Store.Record(tgt.Service, out)
			observe(tgt.Service, out)

			p.Logger.Debug("probe_done",
				zap.String("service", tgt.Service),
				zap.String("target", tgt.Addr()),
				zap.Duration("dns", out.DNS),
				zap.Duration("connect", out.Connect),
				zap.Bool("dns_failed", out.DNSFailed),
				zap.Bool("connect_failed", out.ConnectFailed),
			)
		})
	}
	if err := group.Wait(); err != nil {
		p.Logger.Warn("probe_cycle_error", zap.Error(err))
	}

	metrics.ProbeCyclesTotal.Inc()
	metrics.ProbeCycleDuration.Observe(p.Clock.Since(start).Seconds())
	p.Notifier.Heartbeat()
}

func observe(service string, o domain.ProbeOutcome) {
	metrics.ProbesTotal.WithLabelValues(service, "dns", string(domain.DNSBucket(o))).Inc()
	metrics.ProbesTotal.WithLabelValues(service, "connect", string(domain.ConnectBucket(o))).Inc()
	if ms, ok := o.DNSMillis(); ok {
		metrics.ProbeDurations.WithLabelValues(service, "dns").Observe(float64(ms) / 1000)
	}
	if ms, ok := o.ConnectMillis(); ok {
		metrics.ProbeDurations.WithLabelValues(service, "connect").Observe(float64(ms) / 1000)
	}
}
