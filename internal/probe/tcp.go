package probe

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/hamed0406/tcpmonitor/internal/domain"
)

// TCPProber times DNS resolution and TCP connection establishment separately.
// Each leg is bounded by Timeout.
type TCPProber struct {
	Logger   *zap.Logger
	Resolver Resolver
	Dialer   Dialer
	Clock    clockwork.Clock
	Timeout  time.Duration
}

type Option func(*TCPProber)

func WithResolver(r Resolver) Option {
	return func(p *TCPProber) {
		if r != nil {
			p.Resolver = r
		}
	}
}

func WithDialer(d Dialer) Option {
	return func(p *TCPProber) {
		if d != nil {
			p.Dialer = d
		}
	}
}

func WithClock(c clockwork.Clock) Option {
	return func(p *TCPProber) {
		if c != nil {
			p.Clock = c
		}
	}
}

func NewTCPProber(logger *zap.Logger, timeout time.Duration, opts ...Option) *TCPProber {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	p := &TCPProber{
		Logger:   logger,
		Resolver: net.DefaultResolver, // OS resolver
		Dialer:   &net.Dialer{Timeout: timeout},
		Clock:    clockwork.NewRealClock(),
		Timeout:  timeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *TCPProber) Probe(ctx context.Context, t domain.Target) domain.ProbeOutcome {
	out := domain.ProbeOutcome{Service: t.Service}

	start := p.Clock.Now()
	ip, err := p.resolve(ctx, t.Hostname)
	out.DNS = p.Clock.Since(start)
	if err == nil && out.DNS > p.Timeout {
		err = fmt.Errorf("resolve %s: took %s, limit %s", t.Hostname, out.DNS, p.Timeout)
	}
	if err != nil {
		out.DNSFailed = true
		out.DNSErr = err
		p.Logger.Debug("probe_dns_failed",
			zap.String("service", t.Service),
			zap.String("host", t.Hostname),
			zap.Duration("elapsed", out.DNS),
			zap.Error(err),
		)
		return out
	}
	out.Address = net.JoinHostPort(ip, strconv.Itoa(t.Port))

	cctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	start = p.Clock.Now()
	conn, err := p.Dialer.DialContext(cctx, "tcp", out.Address)
	out.Connect = p.Clock.Since(start)
	if conn != nil {
		_ = conn.Close()
	}
	if err == nil && out.Connect > p.Timeout {
		err = fmt.Errorf("connect %s: took %s, limit %s", out.Address, out.Connect, p.Timeout)
	}
	if err != nil {
		out.ConnectFailed = true
		out.ConnectErr = err
		p.Logger.Debug("probe_connect_failed",
			zap.String("service", t.Service),
			zap.String("addr", out.Address),
			zap.Duration("elapsed", out.Connect),
			zap.Error(err),
		)
	}
	return out
}
