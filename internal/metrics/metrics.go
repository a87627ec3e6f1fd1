package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BuildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tcpmon_build_info",
			Help: "Build information of the tcp monitor",
		},
		[]string{"version", "commit", "date"},
	)

	TargetsCurrent = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tcpmon_targets_current",
		Help: "Number of configured probe targets",
	})

	ProbesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tcpmon_probes_total",
		Help: "Probe legs by service, leg (dns or connect) and latency bucket",
	}, []string{"service", "leg", "bucket"})

	ProbeDurations = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tcpmon_probe_duration_seconds",
		Help:    "Duration of successful probe legs",
		Buckets: prometheus.ExponentialBuckets(0.005, 2, 11), // 5ms .. ~5.1s
	}, []string{"service", "leg"})

	ProbeCyclesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tcpmon_probe_cycles_total",
		Help: "Completed probe cycles",
	})

	ProbeCycleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tcpmon_probe_cycle_duration_seconds",
		Help:    "Wall time of a probe cycle across all targets",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 11), // 10ms .. ~10s
	})

	ReportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tcpmon_reports_total",
		Help: "Report ticks by result",
	}, []string{"result"})
)
