package probe

import (
	"context"
	"net"
	"time"

	"github.com/hamed0406/tcpmonitor/internal/domain"
)

// DefaultTimeout bounds each leg of a probe when none is configured.
const DefaultTimeout = 5 * time.Second

// Prober performs a single DNS + connect attempt against a target. Failures
// are reported inside the outcome, never returned.
type Prober interface {
	Probe(ctx context.Context, t domain.Target) domain.ProbeOutcome
}

// Resolver is the subset of *net.Resolver the prober needs.
type Resolver interface {
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

// Dialer is the subset of *net.Dialer the prober needs.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}
