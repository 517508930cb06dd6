package state

import (
	"fmt"
	"slices"

	"github.com/aretw0/gamestate/pkg/domain"
)

// Report counts the callbacks a fold invoked and how many of them failed.
type Report struct {
	Ran    int
	Failed int
}

// Add sums two reports.
func (r Report) Add(other Report) Report {
	return Report{Ran: r.Ran + other.Ran, Failed: r.Failed + other.Failed}
}

// run invokes every callback of a list inside its own failure boundary.
// The list is copied first so callbacks may append to it.
func (n *Node) run(kind domain.CallbackKind, cbs []Callback) Report {
	var rep Report
	for i, cb := range slices.Clone(cbs) {
		rep.Ran++
		if err := guard(cb); err != nil {
			rep.Failed++
			n.fail(kind, i, err)
		}
	}
	return rep
}

// guard calls fn and converts a panic into an error.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = fmt.Errorf("panic: %w", e)
				return
			}
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}

func (n *Node) fail(kind domain.CallbackKind, index int, err error) {
	b := n.bind()
	failure := &domain.CallbackFailure{Kind: kind, Path: n.Path(), Index: index, Err: err}
	b.logger.Error("callback failed",
		"path", failure.Path,
		"kind", string(kind),
		"index", index,
		"err", err,
	)
	if b.hooks.OnCallbackFailed != nil {
		b.hooks.OnCallbackFailed(&domain.FailureEvent{
			Timestamp: b.clock.Now(),
			Path:      failure.Path,
			Kind:      kind,
			Err:       failure,
		})
	}
}

func (n *Node) emit(t domain.EventType) {
	b := n.bind()
	var hook func(*domain.StateEvent)
	switch t {
	case domain.EventStateEnter:
		hook = b.hooks.OnStateEnter
	case domain.EventStateExit:
		hook = b.hooks.OnStateExit
	case domain.EventStateExhausted:
		hook = b.hooks.OnStateExhausted
	case domain.EventStateTimeout:
		hook = b.hooks.OnStateTimeout
	case domain.EventSessionOver:
		hook = b.hooks.OnSessionOver
	}
	if hook == nil {
		return
	}
	hook(&domain.StateEvent{
		Timestamp: b.clock.Now(),
		Type:      t,
		Path:      n.Path(),
		Name:      n.name,
	})
}
