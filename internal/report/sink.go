package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Sink appends formatted rows to the log artifact for ts and returns the file
// name it wrote to.
type Sink interface {
	Write(ts time.Time, rows []string) (string, error)
}

// FileName returns the daily artifact name for ts in the local zone.
func FileName(ts time.Time) string {
	return "tcp_stats_" + ts.Local().Format("20060102") + ".log"
}

// DailyFile appends to tcp_stats_YYYYMMDD.log under Dir. The file name is
// recomputed and the file reopened for every batch, so a date change or a
// file removed mid-day is picked up on the next write. A header is written
// whenever the target file is empty.
type DailyFile struct {
	Dir string

	mu sync.Mutex
}

func NewDailyFile(dir string) *DailyFile {
	if dir == "" {
		dir = "."
	}
	return &DailyFile{Dir: dir}
}

func (d *DailyFile) Write(ts time.Time, rows []string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	name := FileName(ts)
	f, err := d.open(name)
	if err != nil {
		return name, err
	}

	var b strings.Builder
	for _, r := range rows {
		b.WriteString(r)
		b.WriteByte('\n')
	}
	if _, err := f.WriteString(b.String()); err != nil {
		_ = f.Close()
		return name, fmt.Errorf("append %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return name, fmt.Errorf("close %s: %w", name, err)
	}
	return name, nil
}

func (d *DailyFile) open(name string) (*os.File, error) {
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create stats dir: %w", err)
	}
	path := filepath.Join(d.Dir, name)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if st.Size() == 0 {
		if _, err := f.WriteString(Header() + "\n" + Separator() + "\n"); err != nil {
			f.Close()
			return nil, fmt.Errorf("write header %s: %w", path, err)
		}
	}
	return f, nil
}
