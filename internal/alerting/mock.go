package alerting

import (
	"context"
	"strings"
	"sync"
)

// MockAlerter captures alerts for test assertions.
type MockAlerter struct {
	mu     sync.RWMutex
	alerts []MockAlert
}

// MockAlert is one captured alert.
type MockAlert struct {
	Severity Severity
	Message  string
	Fields   []any
}

// NewMockAlerter creates a mock alerter.
func NewMockAlerter() *MockAlerter {
	return &MockAlerter{}
}

// Name returns the name of the alerter.
func (m *MockAlerter) Name() string {
	return "mock"
}

// Alert records the alert.
func (m *MockAlerter) Alert(_ context.Context, severity Severity, message string, fields ...any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alerts = append(m.alerts, MockAlert{
		Severity: severity,
		Message:  message,
		Fields:   fields,
	})
	return nil
}

// Alerts returns a copy of all captured alerts.
func (m *MockAlerter) Alerts() []MockAlert {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]MockAlert(nil), m.alerts...)
}

// Clear discards all captured alerts.
func (m *MockAlerter) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alerts = nil
}

// Count returns the number of captured alerts.
func (m *MockAlerter) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.alerts)
}

// HasAlertWithSeverity reports whether any alert carried the severity.
func (m *MockAlerter) HasAlertWithSeverity(severity Severity) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.alerts {
		if a.Severity == severity {
			return true
		}
	}
	return false
}

// HasAlertContaining reports whether any alert message contains substr.
func (m *MockAlerter) HasAlertContaining(substr string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.alerts {
		if strings.Contains(a.Message, substr) {
			return true
		}
	}
	return false
}

// LastAlert returns the most recent alert, or nil if none were sent.
func (m *MockAlerter) LastAlert() *MockAlert {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.alerts) == 0 {
		return nil
	}
	last := m.alerts[len(m.alerts)-1]
	return &last
}
