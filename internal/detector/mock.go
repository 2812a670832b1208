package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test double that returns pre-configured observations.
type MockDetector struct {
	mu           sync.Mutex
	observations []Observation
	err          error
	detectCalls  int
	closed       bool
}

// NewMockDetector creates a mock detector that reports no hands.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetObservations sets the observations returned by subsequent Detect calls.
func (m *MockDetector) SetObservations(obs []Observation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observations = obs
}

// SetError sets an error returned by subsequent Detect calls.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Detect returns the configured observations or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]Observation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.detectCalls++
	if m.err != nil {
		return nil, m.err
	}

	result := make([]Observation, len(m.observations))
	copy(result, m.observations)
	return result, nil
}

// DetectCalls returns the number of times Detect has been called.
func (m *MockDetector) DetectCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.detectCalls
}

// Close marks the detector as closed.
func (m *MockDetector) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (m *MockDetector) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
