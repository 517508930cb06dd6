package registry

import "errors"

var (
	// ErrUnknownAction is returned when invoking a name that was never registered.
	ErrUnknownAction = errors.New("unknown action")

	// ErrMissingArg is returned when a required action argument is absent.
	ErrMissingArg = errors.New("missing action argument")

	// ErrNoTimer is returned by timer actions attached to an untimed state.
	ErrNoTimer = errors.New("state has no timer")

	// ErrNoSink is returned by emit when the session has no event sink.
	ErrNoSink = errors.New("no event sink configured")
)
