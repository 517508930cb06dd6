package tui

import (
	"fmt"
	"io"
	"sync"

	"github.com/aretw0/gamestate/pkg/domain"
	"github.com/muesli/termenv"
)

// Announcer prints announcements and, optionally, every transition.
// It implements registry.Announcer.
type Announcer struct {
	mu  sync.Mutex
	w   io.Writer
	out *termenv.Output
}

// NewAnnouncer creates an announcer writing to w.
func NewAnnouncer(w io.Writer) *Announcer {
	return &Announcer{w: w, out: newOutput(w)}
}

// Announce prints message on behalf of the state at path.
func (a *Announcer) Announce(path, message string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fmt.Fprintf(a.w, "%s %s\n",
		a.out.String("["+path+"]").Foreground(a.out.Color("#818cf8")),
		a.out.String(message).Bold(),
	)
}

// Hooks returns lifecycle hooks that print transitions.
func (a *Announcer) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStateEnter: func(e *domain.StateEvent) {
			a.transition("▶", "#22c55e", e.Path)
		},
		OnStateTimeout: func(e *domain.StateEvent) {
			a.transition("⏱", "#f59e0b", e.Path)
		},
		OnCallbackFailed: func(e *domain.FailureEvent) {
			a.transition("✗", "#ef4444", fmt.Sprintf("%s (%s): %v", e.Path, e.Kind, e.Err))
		},
		OnSessionOver: func(e *domain.StateEvent) {
			a.transition("■", "#fb7185", e.Path+" session over")
		},
	}
}

func (a *Announcer) transition(mark, color, text string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fmt.Fprintf(a.w, "%s %s\n", a.out.String(mark).Foreground(a.out.Color(color)), text)
}
