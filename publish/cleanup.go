package publish

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// CleanupError records a temporary artifact that survived every
// deletion attempt. The path is reported so an operator can remove the
// leaked file by hand.
type CleanupError struct {
	Path string
	Err  error
}

func (e *CleanupError) Error() string {
	return fmt.Sprintf("could not remove temporary file %s: %v", e.Path, e.Err)
}

func (e *CleanupError) Unwrap() error { return e.Err }

// CleanupManager tracks the temporary artifacts created during a run
// and deletes them on the way out. Every tracked path gets its own
// bounded retry; failures are collected, never panicked on, and never
// allowed to mask the run's primary error.
type CleanupManager struct {
	Retry  RetryPolicy
	Logger *log.Logger

	mu    sync.Mutex
	paths []string
}

// NewCleanupManager returns a manager with the default cleanup retry
// policy. The logger may be nil.
func NewCleanupManager(logger *log.Logger) *CleanupManager {
	return &CleanupManager{Retry: CleanupRetry, Logger: logger}
}

// Track registers a temporary path for deletion at the end of the run.
func (m *CleanupManager) Track(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paths = append(m.paths, path)
}

// Release forgets a tracked path, for artifacts that were promoted to
// their final destination and must not be deleted.
func (m *CleanupManager) Release(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, p := range m.paths {
		if p == path {
			m.paths = append(m.paths[:i], m.paths[i+1:]...)
			return
		}
	}
}

// Run attempts deletion of every tracked path and returns the failures.
// A path that no longer exists counts as cleaned. Run empties the
// tracked set, so calling it twice is harmless.
func (m *CleanupManager) Run() []*CleanupError {
	m.mu.Lock()
	paths := m.paths
	m.paths = nil
	m.mu.Unlock()

	var failures []*CleanupError
	for _, path := range paths {
		if err := m.remove(path); err != nil {
			failures = append(failures, &CleanupError{Path: path, Err: err})
		}
	}
	return failures
}

func (m *CleanupManager) remove(path string) error {
	var lastErr error
	for attempt := 1; attempt <= m.Retry.Attempts; attempt++ {
		err := os.Remove(path)
		if err == nil || errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		lastErr = err

		if attempt < m.Retry.Attempts {
			delay := m.Retry.Delay(attempt)
			if m.Logger != nil {
				m.Logger.Warn("temporary file still busy, retrying removal",
					"path", path,
					"attempt", attempt,
					"delay", delay,
				)
			}
			time.Sleep(delay)
		}
	}
	return lastErr
}
