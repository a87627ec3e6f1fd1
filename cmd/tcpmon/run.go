package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hamed0406/tcpmonitor/internal/config"
	"github.com/hamed0406/tcpmonitor/internal/domain"
	"github.com/hamed0406/tcpmonitor/internal/httpapi"
	"github.com/hamed0406/tcpmonitor/internal/logging"
	"github.com/hamed0406/tcpmonitor/internal/metrics"
	"github.com/hamed0406/tcpmonitor/internal/notify"
	"github.com/hamed0406/tcpmonitor/internal/probe"
	"github.com/hamed0406/tcpmonitor/internal/repo/memory"
	"github.com/hamed0406/tcpmonitor/internal/report"
	"github.com/hamed0406/tcpmonitor/internal/scheduler"
)

// bindConfigFlags registers flags that override the environment.
func bindConfigFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	f.StringVar(&cfg.TargetsFile, "targets", cfg.TargetsFile, "YAML file listing targets (TARGETS_FILE)")
	f.StringVar(&cfg.StatsDir, "stats-dir", cfg.StatsDir, "directory for tcp_stats_YYYYMMDD.log (STATS_DIR)")
	f.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "directory for operational logs (LOG_DIR)")
	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error (LOG_LEVEL)")
	f.StringVar(&cfg.Addr, "api-addr", cfg.Addr, "status API listen address, empty disables (API_ADDR)")
	f.DurationVar(&cfg.SocketTimeout, "timeout", cfg.SocketTimeout, "DNS and connect timeout (SOCKET_TIMEOUT_MS)")
	f.DurationVar(&cfg.ProbeInterval, "probe-interval", cfg.ProbeInterval, "interval between probe cycles (PROBE_INTERVAL_MS)")
	f.DurationVar(&cfg.ReportInterval, "report-interval", cfg.ReportInterval, "interval between reports (REPORT_INTERVAL_MS)")
	f.IntVar(&cfg.MaxConcurrent, "max-concurrency", cfg.MaxConcurrent, "probes in flight per cycle, 0 for one per target (MAX_CONCURRENT_PROBES)")
}

// loadConfig finishes a flag-bound config: targets are loaded and everything
// is validated. Errors here are fatal.
func loadConfig(cfg *config.Config) error {
	if err := cfg.LoadTargets(); err != nil {
		return fmt.Errorf("load targets: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func newRunCmd() *cobra.Command {
	cfg := config.FromEnv()
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the monitor until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(&cfg); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runMonitor(ctx, cfg, cmd.OutOrStdout())
		},
	}
	bindConfigFlags(cmd, &cfg)
	return cmd
}

func runMonitor(ctx context.Context, cfg config.Config, out io.Writer) error {
	logger, err := logging.NewLogger(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	metrics.BuildInfo.WithLabelValues(version, commit, date).Set(1)
	metrics.TargetsCurrent.Set(float64(len(cfg.Targets)))

	clock := clockwork.NewRealClock()
	services := domain.Services(cfg.Targets)
	store := memory.New(services...)

	sink := report.NewDailyFile(cfg.StatsDir)

	notifier := notify.Multi{notify.NewConsole(out), notify.Log{Logger: logger}}
	prober := probe.NewTCPProber(logger, cfg.SocketTimeout, probe.WithClock(clock))
	reporter := report.NewReporter(logger, store, sink, notifier, clock, services)

	mon, err := scheduler.NewMonitor(scheduler.MonitorConfig{
		Logger:         logger,
		Clock:          clock,
		Targets:        cfg.Targets,
		Store:          store,
		Prober:         prober,
		Reporter:       reporter,
		Notifier:       notifier,
		ProbeInterval:  cfg.ProbeInterval,
		ReportInterval: cfg.ReportInterval,
		ProbeTimeout:   cfg.SocketTimeout,
		MaxConcurrency: cfg.MaxConcurrent,
	})
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return mon.Run(gctx)
	})

	if cfg.Addr != "" {
		srv := &http.Server{
			Addr:              cfg.Addr,
			Handler:           httpapi.NewServer(logger, cfg.Targets, store, clock).Router(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			logger.Info("api_listen", zap.String("addr", cfg.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("api server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(sctx)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("monitor_exit", zap.Error(err))
		return err
	}
	return nil
}
