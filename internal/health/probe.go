// Package health answers whether a backend instance is already reachable.
//
// The check is a plain TCP connect to the backend's loopback port. It does not
// speak the backend's HTTP protocol, so it stays meaningful while the backend
// is still booting its API layer.
package health

import (
	"net"
	"strconv"
	"time"
)

const (
	DefaultHost    = "127.0.0.1"
	DefaultPort    = 9876
	MaxTimeout     = 500 * time.Millisecond
	defaultTimeout = MaxTimeout
)

type Probe struct {
	addr    string
	timeout time.Duration
}

// New returns a probe for host:port. Timeouts outside (0, MaxTimeout] are
// replaced by MaxTimeout so a probe never stalls UI startup.
func New(host string, port int, timeout time.Duration) *Probe {
	if host == "" {
		host = DefaultHost
	}
	if port <= 0 || port > 65535 {
		port = DefaultPort
	}
	if timeout <= 0 || timeout > MaxTimeout {
		timeout = defaultTimeout
	}
	return &Probe{
		addr:    net.JoinHostPort(host, strconv.Itoa(port)),
		timeout: timeout,
	}
}

func (p *Probe) Addr() string {
	return p.addr
}

func (p *Probe) Timeout() time.Duration {
	return p.timeout
}

// IsAlive reports whether a TCP connection to the backend succeeds.
// Refused, unreachable and timed out connections all read as false.
func (p *Probe) IsAlive() bool {
	conn, err := net.DialTimeout("tcp", p.addr, p.timeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
