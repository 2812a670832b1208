package drive

import "sync"

// MockLink records applied setpoints for tests.
type MockLink struct {
	mu      sync.Mutex
	applied []VelocityPair
	err     error
	closed  bool
}

// NewMockLink creates a mock link that accepts every setpoint.
func NewMockLink() *MockLink {
	return &MockLink{}
}

// SetError makes subsequent Apply calls fail with err.
func (m *MockLink) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Apply records the setpoint, or fails if an error is configured or the
// link is closed.
func (m *MockLink) Apply(v VelocityPair) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrLinkClosed
	}
	if m.err != nil {
		return m.err
	}
	m.applied = append(m.applied, v)
	return nil
}

// Applied returns a copy of every setpoint applied so far.
func (m *MockLink) Applied() []VelocityPair {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]VelocityPair, len(m.applied))
	copy(out, m.applied)
	return out
}

// Last returns the most recent setpoint, if any.
func (m *MockLink) Last() (VelocityPair, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.applied) == 0 {
		return VelocityPair{}, false
	}
	return m.applied[len(m.applied)-1], true
}

// Close marks the link closed. Setpoints applied before Close remain
// recorded so tests can assert on the final one.
func (m *MockLink) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (m *MockLink) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
