package domain

import (
	"errors"
	"fmt"
)

// Structural errors indicate a programming error in the state-tree definition.
// They are returned to the caller of the operation that triggered them.
var (
	// ErrDuplicateName is returned when adding a child whose name already exists.
	ErrDuplicateName = errors.New("duplicate state name")

	// ErrUnknownChild is returned when toggling or removing a name that does not exist.
	ErrUnknownChild = errors.New("unknown child state")

	// ErrMissingActiveChild is returned when a node has an active name but no instance.
	ErrMissingActiveChild = errors.New("active child instance missing")

	// ErrRecursiveTick is returned when a node would tick itself as its own active child.
	ErrRecursiveTick = errors.New("recursive tick")

	// ErrNilFactory is returned when a factory produced no node.
	ErrNilFactory = errors.New("factory returned nil state")

	// ErrInvalidEventKey is returned when an event key string cannot be parsed.
	ErrInvalidEventKey = errors.New("invalid event key")
)

// CallbackKind names the callback list a failure came from.
type CallbackKind string

const (
	CallbackInit      CallbackKind = "init"
	CallbackEnter     CallbackKind = "enter"
	CallbackExit      CallbackKind = "exit"
	CallbackTick      CallbackKind = "tick"
	CallbackExhausted CallbackKind = "exhausted"
	CallbackDestroy   CallbackKind = "destroy"
	CallbackTimeout   CallbackKind = "timeout"
	CallbackEvent     CallbackKind = "event"
)

// CallbackFailure wraps an error (or recovered panic) raised by a user callback.
// It is logged at the point of invocation and never propagated.
type CallbackFailure struct {
	Kind  CallbackKind
	Path  string
	Index int
	Err   error
}

func (f *CallbackFailure) Error() string {
	return fmt.Sprintf("%s callback #%d at %q failed: %v", f.Kind, f.Index, f.Path, f.Err)
}

func (f *CallbackFailure) Unwrap() error {
	return f.Err
}
