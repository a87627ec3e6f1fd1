package probe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// ErrNoAddress is returned when a lookup succeeds but yields no usable address.
var ErrNoAddress = errors.New("no address for host")

// resolve looks up host and picks the address to connect to. IPv4 wins when
// both families are present.
func (p *TCPProber) resolve(ctx context.Context, host string) (string, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return "", fmt.Errorf("resolve: empty hostname")
	}

	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	addrs, err := p.Resolver.LookupIPAddr(ctx, host)
	if err != nil {
		var de *net.DNSError
		if errors.As(err, &de) && de.IsNotFound {
			return "", fmt.Errorf("resolve %s: nxdomain: %w", host, err)
		}
		return "", fmt.Errorf("resolve %s: %w", host, err)
	}
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("resolve %s: %w", host, err)
	}
	if len(addrs) == 0 {
		return "", fmt.Errorf("resolve %s: %w", host, ErrNoAddress)
	}
	for _, a := range addrs {
		if a.IP.To4() != nil {
			return a.IP.String(), nil
		}
	}
	return addrs[0].IP.String(), nil
}
