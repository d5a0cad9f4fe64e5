package runner

import (
	"context"
	"sync"

	"github.com/jakoblorz/go-quickbuild/internal/models"
)

// MockResult is the scripted outcome of one program.
type MockResult struct {
	ExitCode int
	Err      error
}

// MockRunner implements Runner for testing. It records every command and
// answers from Results, keyed by the full command line first and the
// program name second. Unscripted commands exit 0.
type MockRunner struct {
	mu      sync.Mutex
	calls   []models.Command
	Results map[string]MockResult
}

// NewMockRunner creates a new MockRunner
func NewMockRunner() *MockRunner {
	return &MockRunner{
		Results: make(map[string]MockResult),
	}
}

// On scripts the outcome for key, either a program name or a full
// command line.
func (m *MockRunner) On(key string, exitCode int, err error) *MockRunner {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Results[key] = MockResult{ExitCode: exitCode, Err: err}
	return m
}

func (m *MockRunner) Run(ctx context.Context, cmd models.Command) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, cmd)

	if result, ok := m.Results[cmd.String()]; ok {
		return result.ExitCode, result.Err
	}
	if result, ok := m.Results[cmd.Program]; ok {
		return result.ExitCode, result.Err
	}
	return 0, nil
}

// Calls returns every command run so far, rendered as command lines.
func (m *MockRunner) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, len(m.calls))
	for i, cmd := range m.calls {
		out[i] = cmd.String()
	}
	return out
}
