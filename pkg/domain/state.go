package domain

import "time"

// Snapshot is a read-only view of a node and its active descendants.
type Snapshot struct {
	// Name is the node name; for the root, the session name.
	Name string `json:"name"`

	// Loop reports whether the node restarts its children after the last one.
	Loop bool `json:"loop,omitempty"`

	// Children lists the child names in traversal order.
	Children []string `json:"children,omitempty"`

	// Timer is set when the node carries a timer extension.
	Timer *TimerSnapshot `json:"timer,omitempty"`

	// Active is the snapshot of the currently active child, if any.
	Active *Snapshot `json:"active,omitempty"`
}

// TimerSnapshot describes a running timer.
type TimerSnapshot struct {
	Duration  time.Duration `json:"duration"`
	Deadline  time.Time     `json:"deadline"`
	Remaining string        `json:"remaining"`
	Fired     bool          `json:"fired"`
}

// ActivePath returns the names along the active path, root excluded.
func (s *Snapshot) ActivePath() []string {
	var path []string
	for cur := s.Active; cur != nil; cur = cur.Active {
		path = append(path, cur.Name)
	}
	return path
}

// Leaf returns the deepest active snapshot.
func (s *Snapshot) Leaf() *Snapshot {
	cur := s
	for cur.Active != nil {
		cur = cur.Active
	}
	return cur
}
