package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/hamed0406/tcpmonitor/internal/httpapi"
)

var nowFunc = time.Now

func newStatsCmd() *cobra.Command {
	api := os.Getenv("API_BASE")
	if api == "" {
		api = "http://127.0.0.1:8080"
	}
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the current, not yet reported window of a running monitor",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := fetchStats(cmd.Context(), api)
			if err != nil {
				return err
			}
			renderStats(cmd.OutOrStdout(), resp)
			return nil
		},
	}
	cmd.Flags().StringVar(&api, "api", api, "base URL of the monitor status API (API_BASE)")
	return cmd
}

func fetchStats(ctx context.Context, base string) (httpapi.StatsResponse, error) {
	var out httpapi.StatsResponse

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(base, "/")+"/api/stats", nil)
	if err != nil {
		return out, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return out, fmt.Errorf("contacting API: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return out, fmt.Errorf("API returned status: %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, fmt.Errorf("decode stats: %w", err)
	}
	return out, nil
}

func renderStats(w io.Writer, resp httpapi.StatsResponse) {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Service", "Conn<1s", "Conn1-5s", "DNS<1s", "DNS1-5s", "DNSFail", "ConnFailed", "Total"})
	align := []int{tablewriter.ALIGN_LEFT}
	for i := 0; i < 7; i++ {
		align = append(align, tablewriter.ALIGN_RIGHT)
	}
	table.SetColumnAlignment(align)

	n := func(v int64) string { return strconv.FormatInt(v, 10) }
	for _, r := range resp.Services {
		c := r.Counts
		table.Append([]string{r.Service, n(c.ConnFast), n(c.ConnSlow), n(c.DNSFast), n(c.DNSSlow), n(c.DNSFail), n(c.ConnFail), n(c.Total)})
	}
	table.Render()
}
