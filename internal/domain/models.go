package domain

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Target is one monitored (service, hostname, port) triple. Service is the
// aggregation key and does not have to be unique.
type Target struct {
	Service  string `json:"service" yaml:"service"`
	Hostname string `json:"hostname" yaml:"hostname"`
	Port     int    `json:"port" yaml:"port"`
}

// Addr returns hostname:port suitable for display.
func (t Target) Addr() string {
	return net.JoinHostPort(t.Hostname, strconv.Itoa(t.Port))
}

func (t Target) String() string {
	return fmt.Sprintf("%s (%s:%d)", t.Service, t.Hostname, t.Port)
}

// Services returns the distinct service names of ts in first-seen order.
func Services(ts []Target) []string {
	seen := make(map[string]struct{}, len(ts))
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		if _, ok := seen[t.Service]; ok {
			continue
		}
		seen[t.Service] = struct{}{}
		out = append(out, t.Service)
	}
	return out
}

// ProbeOutcome is the result of one DNS + connect attempt against a Target.
//
// DNS is meaningful only when DNSFailed is false; Connect only when the
// connect leg ran and ConnectFailed is false. When DNS fails no connection is
// attempted and ConnectFailed stays false; the cascade into the connect
// histogram happens in the bucket policy, not here.
type ProbeOutcome struct {
	Service       string        `json:"service"`
	Address       string        `json:"address,omitempty"`
	DNS           time.Duration `json:"dns"`
	Connect       time.Duration `json:"connect"`
	DNSFailed     bool          `json:"dns_failed"`
	ConnectFailed bool          `json:"connect_failed"`
	DNSErr        error         `json:"-"`
	ConnectErr    error         `json:"-"`
}

// DNSMillis reports the DNS duration in milliseconds and whether it is present.
func (o ProbeOutcome) DNSMillis() (int64, bool) {
	if o.DNSFailed {
		return 0, false
	}
	return o.DNS.Milliseconds(), true
}

// ConnectMillis reports the connect duration in milliseconds and whether it is present.
func (o ProbeOutcome) ConnectMillis() (int64, bool) {
	if o.DNSFailed || o.ConnectFailed {
		return 0, false
	}
	return o.Connect.Milliseconds(), true
}
