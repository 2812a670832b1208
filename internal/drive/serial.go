package drive

import (
	"fmt"
	"io"
	"sync"

	"go.bug.st/serial"
)

// DefaultBaudRate matches the stock firmware of the wheel controller.
const DefaultBaudRate = 115200

// SerialLink drives a controller attached over a serial port. Each setpoint
// goes out as one text line; the controller applies the last line it parsed
// and holds it until the next one.
type SerialLink struct {
	mu     sync.Mutex
	port   io.ReadWriteCloser
	name   string
	closed bool
}

// OpenSerialLink opens the named port at the given baud rate with an
// 8-N-1 frame. A baud of 0 selects DefaultBaudRate.
func OpenSerialLink(name string, baud int) (*SerialLink, error) {
	if baud == 0 {
		baud = DefaultBaudRate
	}

	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(name, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", name, err)
	}

	return &SerialLink{port: port, name: name}, nil
}

// Apply writes the setpoint line to the port.
func (l *SerialLink) Apply(v VelocityPair) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrLinkClosed
	}
	if _, err := l.port.Write(setpointLine(v)); err != nil {
		return fmt.Errorf("write setpoint to %s: %w", l.name, err)
	}
	return nil
}

// Close closes the serial port. Further Apply calls return ErrLinkClosed.
func (l *SerialLink) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true
	return l.port.Close()
}
