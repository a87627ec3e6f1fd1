package notify

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/hamed0406/tcpmonitor/internal/domain"
)

const timeLayout = "2006-01-02 15:04:05"

// Console prints the startup banner, one dot per completed probe cycle, and a
// line per report tick.
type Console struct {
	mu sync.Mutex
	w  io.Writer
	// dots is true while the cursor sits after heartbeat dots.
	dots bool
}

func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) Started(targets []domain.Target) {
	names := make([]string, 0, len(targets))
	for _, t := range targets {
		names = append(names, t.String())
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.w, "Starting TCP Connection Monitor...")
	fmt.Fprintf(c.w, "Monitoring hosts: %s\n", strings.Join(names, ", "))
	fmt.Fprint(c.w, "Press Ctrl+C to stop\n\n")
}

func (c *Console) Heartbeat() {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprint(c.w, ".")
	c.dots = true
}

func (c *Console) Reported(file string, at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.breakLine()
	fmt.Fprintf(c.w, "Statistics logged to %s at %s\n", file, at.Local().Format(timeLayout))
}

func (c *Console) Stopping() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.breakLine()
	fmt.Fprintln(c.w, "Stopping monitor...")
}

func (c *Console) breakLine() {
	if c.dots {
		fmt.Fprintln(c.w)
		c.dots = false
	}
}
