package ports

import "time"

// Clock abstracts the time source used by timers.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// SessionOwner is the object that owns a root state.
// SessionOver is called once the root has no further child to advance to.
type SessionOwner interface {
	SessionOver()
}
