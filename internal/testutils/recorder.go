package testutils

import (
	"strings"
	"sync"
)

// Recorder collects ordered trace lines from callbacks.
type Recorder struct {
	mu    sync.Mutex
	lines []string
}

// Add appends a line built from parts joined by ":".
func (r *Recorder) Add(parts ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, strings.Join(parts, ":"))
}

// Hook returns a callback that records parts and succeeds.
func (r *Recorder) Hook(parts ...string) func() error {
	return func() error {
		r.Add(parts...)
		return nil
	}
}

// Lines returns a copy of the recorded lines.
func (r *Recorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.lines))
	copy(out, r.lines)
	return out
}

// Reset clears the recorded lines.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = nil
}
