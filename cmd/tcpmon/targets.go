package main

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/hamed0406/tcpmonitor/internal/config"
	"github.com/hamed0406/tcpmonitor/internal/domain"
)

func newTargetsCmd() *cobra.Command {
	cfg := config.FromEnv()
	cmd := &cobra.Command{
		Use:   "targets",
		Short: "Print the configured targets in report order",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(&cfg); err != nil {
				return err
			}
			renderTargets(cmd.OutOrStdout(), cfg.Targets)
			return nil
		},
	}
	bindConfigFlags(cmd, &cfg)
	return cmd
}

func renderTargets(w io.Writer, ts []domain.Target) {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"#", "Service", "Hostname", "Port"})
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT,
	})
	for i, t := range ts {
		table.Append([]string{strconv.Itoa(i + 1), t.Service, t.Hostname, strconv.Itoa(t.Port)})
	}
	table.Render()
}
