package state

import (
	"fmt"
	"time"

	"github.com/aretw0/gamestate/pkg/domain"
)

// TimeoutHandler is called with the timed node when its deadline is reached.
type TimeoutHandler func(n *Node) error

// Timer adds a deadline to a node. Once the deadline passes, the timeout
// handlers fire once and the parent advances.
type Timer struct {
	node      *Node
	duration  time.Duration
	deadline  time.Time
	fired     bool
	onTimeout []TimeoutHandler
}

// NewTimed creates a node bound to parent with a timer of duration d.
func NewTimed(parent *Node, d time.Duration) *Timer {
	return AttachTimer(New(parent), d)
}

// AttachTimer attaches a timer to n. The deadline is armed every time n is entered.
func AttachTimer(n *Node, d time.Duration) *Timer {
	t := &Timer{node: n, duration: d}
	n.timer = t
	n.OnEnter(func() error {
		t.ResetTimer()
		return nil
	})
	n.OnTick(t.tick)
	return t
}

// Node returns the node the timer is attached to.
func (t *Timer) Node() *Node { return t.node }

// Duration returns the configured duration.
func (t *Timer) Duration() time.Duration { return t.duration }

// Deadline returns the absolute time at which the timer fires.
func (t *Timer) Deadline() time.Time { return t.deadline }

// Fired reports whether the timeout already fired since the last reset.
func (t *Timer) Fired() bool { return t.fired }

// OnTimeout appends a timeout handler.
func (t *Timer) OnTimeout(h TimeoutHandler) *Timer {
	t.onTimeout = append(t.onTimeout, h)
	return t
}

// ResetDuration changes the duration and re-arms the timer if the node is running.
func (t *Timer) ResetDuration(d time.Duration) {
	t.duration = d
	if t.node.IsRunning() {
		t.ResetTimer()
	}
}

// ResetTimer recomputes the deadline from now.
func (t *Timer) ResetTimer() {
	now := t.node.Now()
	t.deadline = now.Add(t.duration)
	t.fired = false
	t.node.Logger().Debug("timer armed", "path", t.node.Path(), "duration", t.duration, "deadline", t.deadline)
}

// Remaining returns the time left before the deadline. It is negative once the deadline passed.
func (t *Timer) Remaining() time.Duration {
	return t.deadline.Sub(t.node.Now())
}

// SecondsLeft returns the time left in seconds.
func (t *Timer) SecondsLeft() float64 {
	return t.Remaining().Seconds()
}

// Format renders the time left as MM:SS, or HH:MM:SS when at least an hour is left.
func (t *Timer) Format() string {
	return FormatClock(t.Remaining(), false)
}

// FormatMillis renders the time left as MM:SS.mmm, or HH:MM:SS.mmm.
func (t *Timer) FormatMillis() string {
	return FormatClock(t.Remaining(), true)
}

func (t *Timer) tick() error {
	if t.fired || t.node.Now().Before(t.deadline) {
		return nil
	}
	t.fired = true

	n := t.node
	n.Logger().Debug("timer fired", "path", n.Path())
	n.emit(domain.EventStateTimeout)
	for i, h := range t.onTimeout {
		if err := guard(func() error { return h(n) }); err != nil {
			n.fail(domain.CallbackTimeout, i, err)
		}
	}

	// A timeout handler may already have moved the machine elsewhere.
	if n.parent != nil && n.IsRunning() {
		return n.parent.Advance()
	}
	return nil
}

func (t *Timer) snapshot() *domain.TimerSnapshot {
	return &domain.TimerSnapshot{
		Duration:  t.duration,
		Deadline:  t.deadline,
		Remaining: t.Format(),
		Fired:     t.fired,
	}
}

// FormatClock renders d as MM:SS or HH:MM:SS, with an optional millisecond
// suffix. The hours field is omitted when zero and negative values render as zero.
func FormatClock(d time.Duration, millis bool) string {
	if d < 0 {
		d = 0
	}
	hours := int(d / time.Hour)
	minutes := int(d % time.Hour / time.Minute)
	seconds := int(d % time.Minute / time.Second)
	ms := int(d % time.Second / time.Millisecond)

	var s string
	if hours > 0 {
		s = fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	} else {
		s = fmt.Sprintf("%02d:%02d", minutes, seconds)
	}
	if millis {
		s += fmt.Sprintf(".%03d", ms)
	}
	return s
}

// Seconds converts a floating point number of seconds to a duration.
func Seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
