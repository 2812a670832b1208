package drive

import (
	"fmt"
	"net"
	"sync"
	"time"
)

// DefaultTCPAddr is the default simulator endpoint, matching the port the
// robot simulation scene listens on locally.
const DefaultTCPAddr = "127.0.0.1:19997"

const (
	tcpDialTimeout  = 5 * time.Second
	tcpWriteTimeout = time.Second
)

// TCPLink drives a simulated platform over a TCP connection, using the
// same line protocol as the serial controller.
type TCPLink struct {
	mu     sync.Mutex
	conn   net.Conn
	addr   string
	closed bool
}

// DialTCPLink connects to the simulator endpoint. An empty addr selects
// DefaultTCPAddr.
func DialTCPLink(addr string) (*TCPLink, error) {
	if addr == "" {
		addr = DefaultTCPAddr
	}

	conn, err := net.DialTimeout("tcp", addr, tcpDialTimeout)
	if err != nil {
		return nil, fmt.Errorf("dial simulator %s: %w", addr, err)
	}

	return &TCPLink{conn: conn, addr: addr}, nil
}

// Apply writes the setpoint line to the connection. A short write deadline
// keeps a wedged peer from stalling the frame loop.
func (l *TCPLink) Apply(v VelocityPair) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrLinkClosed
	}
	if err := l.conn.SetWriteDeadline(time.Now().Add(tcpWriteTimeout)); err != nil {
		return fmt.Errorf("set write deadline on %s: %w", l.addr, err)
	}
	if _, err := l.conn.Write(setpointLine(v)); err != nil {
		return fmt.Errorf("write setpoint to %s: %w", l.addr, err)
	}
	return nil
}

// Close closes the connection. Further Apply calls return ErrLinkClosed.
func (l *TCPLink) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true
	return l.conn.Close()
}
