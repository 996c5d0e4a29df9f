package framework

import (
	"fmt"
)

// mockT records what a test did. FailNow and Skipf unwind with a panic that run recovers, the same way
// the real testing package stops a test with runtime.Goexit.
type mockT struct {
	name       string
	failed     bool
	skipped    bool
	skipReason string
	errors     []string
	logs       []string
	cleanups   []func()
}

func newMockT(name string) *mockT {
	return &mockT{name: name}
}

func (m *mockT) Errorf(format string, args ...interface{}) {
	m.failed = true
	m.errors = append(m.errors, fmt.Sprintf(format, args...))
}

func (m *mockT) FailNow() {
	m.failed = true
	panic(m)
}

func (m *mockT) Helper() {}

func (m *mockT) Name() string { return m.name }

func (m *mockT) Skipf(format string, args ...interface{}) {
	m.skipped = true
	m.skipReason = fmt.Sprintf(format, args...)
	panic(m)
}

func (m *mockT) Cleanup(f func()) {
	m.cleanups = append(m.cleanups, f)
}

func (m *mockT) Logf(format string, args ...interface{}) {
	m.logs = append(m.logs, fmt.Sprintf(format, args...))
}

// run executes action as the body of the test and then the registered cleanups, last first.
func (m *mockT) run(action func()) {
	defer func() {
		for i := len(m.cleanups) - 1; i >= 0; i-- {
			m.cleanups[i]()
		}
		m.cleanups = nil
	}()
	defer func() {
		if r := recover(); r != nil && r != m {
			panic(r)
		}
	}()
	action()
}
