package drive

import (
	"bufio"
	"bytes"
	"errors"
	"net"
	"testing"
	"time"
)

// fakePort is a buffer-backed stand-in for a serial port.
type fakePort struct {
	buf      bytes.Buffer
	writeErr error
	closed   bool
}

func (f *fakePort) Read(p []byte) (int, error) { return f.buf.Read(p) }

func (f *fakePort) Write(p []byte) (int, error) {
	if f.writeErr != nil {
		return 0, f.writeErr
	}
	return f.buf.Write(p)
}

func (f *fakePort) Close() error {
	f.closed = true
	return nil
}

func TestSerialLinkWireFormat(t *testing.T) {
	port := &fakePort{}
	link := &SerialLink{port: port, name: "fake"}

	if err := link.Apply(VelocityPair{Left: 2, Right: 2}); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if err := link.Apply(VelocityPair{Left: -1, Right: 1}); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}

	want := "V 2.000 2.000\nV -1.000 1.000\n"
	if got := port.buf.String(); got != want {
		t.Errorf("wire bytes = %q, want %q", got, want)
	}
}

func TestSerialLinkWriteError(t *testing.T) {
	wantErr := errors.New("port unplugged")
	link := &SerialLink{port: &fakePort{writeErr: wantErr}, name: "fake"}

	if err := link.Apply(VelocityPair{}); !errors.Is(err, wantErr) {
		t.Errorf("Apply() error = %v, want wrapped %v", err, wantErr)
	}
}

func TestSerialLinkClosed(t *testing.T) {
	port := &fakePort{}
	link := &SerialLink{port: port, name: "fake"}

	if err := link.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if !port.closed {
		t.Error("underlying port not closed")
	}
	if err := link.Apply(VelocityPair{}); !errors.Is(err, ErrLinkClosed) {
		t.Errorf("Apply() after Close = %v, want ErrLinkClosed", err)
	}
	// Closing twice is harmless.
	if err := link.Close(); err != nil {
		t.Errorf("second Close() error: %v", err)
	}
}

func TestTCPLink(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	lines := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		line, err := bufio.NewReader(conn).ReadString('\n')
		if err != nil {
			return
		}
		lines <- line
	}()

	link, err := DialTCPLink(ln.Addr().String())
	if err != nil {
		t.Fatalf("DialTCPLink() error: %v", err)
	}

	if err := link.Apply(VelocityPair{Left: -2, Right: -2}); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}

	select {
	case line := <-lines:
		if line != "V -2.000 -2.000\n" {
			t.Errorf("received %q, want %q", line, "V -2.000 -2.000\n")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for setpoint line")
	}

	if err := link.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}
	if err := link.Apply(VelocityPair{}); !errors.Is(err, ErrLinkClosed) {
		t.Errorf("Apply() after Close = %v, want ErrLinkClosed", err)
	}
}

func TestDialTCPLinkRefused(t *testing.T) {
	// Grab a port and close it again so nothing is listening there.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	if _, err := DialTCPLink(addr); err == nil {
		t.Error("DialTCPLink() to dead endpoint: expected error, got nil")
	}
}

func TestMockLink(t *testing.T) {
	m := NewMockLink()

	if _, ok := m.Last(); ok {
		t.Error("Last() on fresh mock reported a setpoint")
	}

	m.Apply(VelocityPair{Left: 1, Right: 1})
	m.Apply(VelocityPair{Left: 0, Right: 0})

	if got := m.Applied(); len(got) != 2 {
		t.Fatalf("Applied() length = %d, want 2", len(got))
	}
	last, ok := m.Last()
	if !ok || last != (VelocityPair{}) {
		t.Errorf("Last() = %+v, %v; want zero pair, true", last, ok)
	}

	wantErr := errors.New("bus fault")
	m.SetError(wantErr)
	if err := m.Apply(VelocityPair{Left: 1}); !errors.Is(err, wantErr) {
		t.Errorf("Apply() = %v, want %v", err, wantErr)
	}
	if len(m.Applied()) != 2 {
		t.Error("failed Apply still recorded the setpoint")
	}

	m.Close()
	if !m.Closed() {
		t.Error("Closed() = false after Close")
	}
	m.SetError(nil)
	if err := m.Apply(VelocityPair{}); !errors.Is(err, ErrLinkClosed) {
		t.Errorf("Apply() after Close = %v, want ErrLinkClosed", err)
	}
}
