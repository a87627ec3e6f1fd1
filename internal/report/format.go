package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hamed0406/tcpmonitor/internal/domain"
	"github.com/hamed0406/tcpmonitor/internal/repo"
)

// TimeLayout is the timestamp format of every row.
const TimeLayout = "2006-01-02 15:04:05"

const rowFormat = "%-19s | %-20s | %7d | %8d | %6d | %7d | %7d | %10d | %5d"

// Header returns the column header written at the top of each daily file.
func Header() string {
	return fmt.Sprintf("%-19s | %-20s | %7s | %8s | %6s | %7s | %7s | %10s | %5s",
		"Timestamp", "Service", "Conn<1s", "Conn1-5s", "DNS<1s", "DNS1-5s", "DNSFail", "ConnFailed", "Total")
}

// Separator is the rule printed under the header.
func Separator() string {
	return strings.Repeat("-", len(Header()))
}

// FormatRow renders one record as a fixed-width, pipe-delimited line.
func FormatRow(r domain.ReportRecord) string {
	c := r.Counts
	return fmt.Sprintf(rowFormat,
		r.Timestamp.Local().Format(TimeLayout), r.Service,
		c.ConnFast, c.ConnSlow, c.DNSFast, c.DNSSlow, c.DNSFail, c.ConnFail, c.Total)
}

// Records builds one record per service in the given order, including services
// with no attempts. Services present in snap but not in order follow, sorted.
func Records(ts time.Time, order []string, snap repo.Snapshot) []domain.ReportRecord {
	out := make([]domain.ReportRecord, 0, len(order))
	seen := make(map[string]struct{}, len(order))
	for _, svc := range order {
		if _, ok := seen[svc]; ok {
			continue
		}
		seen[svc] = struct{}{}
		out = append(out, domain.ReportRecord{Timestamp: ts, Service: svc, Counts: snap[svc]})
	}

	var extra []string
	for svc := range snap {
		if _, ok := seen[svc]; !ok {
			extra = append(extra, svc)
		}
	}
	sort.Strings(extra)
	for _, svc := range extra {
		out = append(out, domain.ReportRecord{Timestamp: ts, Service: svc, Counts: snap[svc]})
	}
	return out
}
