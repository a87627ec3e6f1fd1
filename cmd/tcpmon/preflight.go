package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/hamed0406/tcpmonitor/internal/config"
	"github.com/hamed0406/tcpmonitor/internal/report"
)

var errPreflight = errors.New("preflight failed")

func newPreflightCmd() *cobra.Command {
	cfg := config.FromEnv()
	cmd := &cobra.Command{
		Use:   "preflight",
		Short: "Check configuration and output directories, then exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return preflight(cmd.OutOrStdout(), cmd.ErrOrStderr(), &cfg)
		},
	}
	bindConfigFlags(cmd, &cfg)
	return cmd
}

func preflight(out, errOut io.Writer, cfg *config.Config) error {
	failed := false
	fail := func(msg string) {
		fmt.Fprintln(errOut, "✖", msg)
		failed = true
	}
	warn := func(msg string) { fmt.Fprintln(errOut, "⚠", msg) }
	ok := func(msg string) { fmt.Fprintln(out, "✔", msg) }

	if err := loadConfig(cfg); err != nil {
		fail(err.Error())
	} else {
		ok(fmt.Sprintf("%d targets", len(cfg.Targets)))
	}

	if err := checkWritable(cfg.StatsDir); err != nil {
		fail("STATS_DIR not writable: " + err.Error())
	} else {
		ok("STATS_DIR=" + cfg.StatsDir + " (next file " + report.FileName(nowFunc()) + ")")
	}
	if err := checkWritable(cfg.LogDir); err != nil {
		fail("LOG_DIR not writable: " + err.Error())
	} else {
		ok("LOG_DIR=" + cfg.LogDir)
	}

	if cfg.Addr == "" {
		warn("API_ADDR is empty; status API and /metrics are disabled.")
	} else {
		ok("API_ADDR=" + cfg.Addr)
	}
	if cfg.ReportInterval < cfg.ProbeInterval {
		warn("report interval is shorter than the probe interval; some reports will be empty.")
	}

	if failed {
		return errPreflight
	}
	ok("preflight passed")
	return nil
}

func checkWritable(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".preflight-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}
