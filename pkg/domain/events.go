package domain

import "time"

// EventType defines the category of a lifecycle event.
type EventType string

const (
	EventStateEnter     EventType = "state_enter"
	EventStateExit      EventType = "state_exit"
	EventStateExhausted EventType = "state_exhausted"
	EventStateTimeout   EventType = "state_timeout"
	EventCallbackFailed EventType = "callback_failed"
	EventSessionOver    EventType = "session_over"
)

// StateEvent describes a transition observed at a node.
type StateEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Path      string    `json:"path"`
	Name      string    `json:"name"`
}

// FailureEvent describes a callback that failed inside its isolation boundary.
type FailureEvent struct {
	Timestamp time.Time    `json:"timestamp"`
	Path      string       `json:"path"`
	Kind      CallbackKind `json:"kind"`
	Err       error        `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
// Every field is optional.
type LifecycleHooks struct {
	OnStateEnter     func(*StateEvent)
	OnStateExit      func(*StateEvent)
	OnStateExhausted func(*StateEvent)
	OnStateTimeout   func(*StateEvent)
	OnCallbackFailed func(*FailureEvent)
	OnSessionOver    func(*StateEvent)
}

// MergeHooks returns hooks that fan out to every non-nil hook in order.
func MergeHooks(all ...LifecycleHooks) LifecycleHooks {
	fanState := func(pick func(LifecycleHooks) func(*StateEvent)) func(*StateEvent) {
		var fns []func(*StateEvent)
		for _, h := range all {
			if fn := pick(h); fn != nil {
				fns = append(fns, fn)
			}
		}
		if len(fns) == 0 {
			return nil
		}
		return func(e *StateEvent) {
			for _, fn := range fns {
				fn(e)
			}
		}
	}

	var failures []func(*FailureEvent)
	for _, h := range all {
		if h.OnCallbackFailed != nil {
			failures = append(failures, h.OnCallbackFailed)
		}
	}
	var onFailed func(*FailureEvent)
	if len(failures) > 0 {
		onFailed = func(e *FailureEvent) {
			for _, fn := range failures {
				fn(e)
			}
		}
	}

	return LifecycleHooks{
		OnStateEnter:     fanState(func(h LifecycleHooks) func(*StateEvent) { return h.OnStateEnter }),
		OnStateExit:      fanState(func(h LifecycleHooks) func(*StateEvent) { return h.OnStateExit }),
		OnStateExhausted: fanState(func(h LifecycleHooks) func(*StateEvent) { return h.OnStateExhausted }),
		OnStateTimeout:   fanState(func(h LifecycleHooks) func(*StateEvent) { return h.OnStateTimeout }),
		OnCallbackFailed: onFailed,
		OnSessionOver:    fanState(func(h LifecycleHooks) func(*StateEvent) { return h.OnSessionOver }),
	}
}
