package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockMetrics is a mock implementation of Metrics interface
type MockMetrics struct {
	mock.Mock
}

// RecordSuccess mocks the RecordSuccess method
func (m *MockMetrics) RecordSuccess(operation string) {
	m.Called(operation)
}

// RecordError mocks the RecordError method
func (m *MockMetrics) RecordError(operation string, errorType string) {
	m.Called(operation, errorType)
}

// RecordDuration mocks the RecordDuration method
func (m *MockMetrics) RecordDuration(operation string, duration float64) {
	m.Called(operation, duration)
}

// RecordObjectSize mocks the RecordObjectSize method
func (m *MockMetrics) RecordObjectSize(operation string, bytes int64) {
	m.Called(operation, bytes)
}

// StartOperation mocks the StartOperation method
func (m *MockMetrics) StartOperation(operation string) {
	m.Called(operation)
}

// EndOperation mocks the EndOperation method
func (m *MockMetrics) EndOperation(operation string) {
	m.Called(operation)
}

// Quiet stubs the timing and gauge methods, leaving outcome counters for
// the test to expect explicitly.
func (m *MockMetrics) Quiet() *MockMetrics {
	m.On("StartOperation", mock.Anything).Maybe()
	m.On("EndOperation", mock.Anything).Maybe()
	m.On("RecordDuration", mock.Anything, mock.Anything).Maybe()
	return m
}
