package registry

import (
	"context"
	"fmt"

	"github.com/aretw0/gamestate/internal/logging"
	"github.com/aretw0/gamestate/pkg/domain"
	"github.com/aretw0/gamestate/pkg/schema"
	"github.com/aretw0/gamestate/pkg/state"
)

// Names of the built-in actions.
const (
	ActionLog        = "log"
	ActionAnnounce   = "announce"
	ActionEmit       = "emit"
	ActionAdvance    = "advance"
	ActionToggle     = "toggle"
	ActionResetTimer = "reset_timer"
	ActionSetTimer   = "set_duration"
	ActionRemove     = "remove"
	ActionFinish     = "finish"
)

// RegisterBuiltins adds the built-in actions to r.
func RegisterBuiltins(r *Registry) {
	r.RegisterWithSchema(ActionLog, schema.Schema{
		"message": schema.Required(schema.String()),
		"level":   schema.Optional(schema.String()),
	}, logAction)
	r.RegisterWithSchema(ActionAnnounce, schema.Schema{
		"message": schema.Required(schema.String()),
	}, announceAction)
	r.RegisterWithSchema(ActionEmit, schema.Schema{
		"event":     schema.Required(schema.String()),
		"namespace": schema.Optional(schema.String()),
		"system":    schema.Optional(schema.String()),
		"args":      schema.Optional(schema.Any()),
	}, emitAction)
	r.RegisterWithSchema(ActionAdvance, schema.Schema{}, advanceAction)
	r.RegisterWithSchema(ActionToggle, schema.Schema{
		"target": schema.Required(schema.String()),
	}, toggleAction)
	r.RegisterWithSchema(ActionResetTimer, schema.Schema{}, resetTimerAction)
	r.RegisterWithSchema(ActionSetTimer, schema.Schema{
		"duration": schema.Required(durationType),
	}, setDurationAction)
	r.RegisterWithSchema(ActionRemove, schema.Schema{
		"target": schema.Optional(schema.String()),
	}, removeAction)
	r.RegisterWithSchema(ActionFinish, schema.Schema{}, finishAction)
}

var durationType = schema.Custom("duration", func(v any) error {
	_, err := ParseDuration(v)
	return err
})

// log: message, level (default info).
func logAction(c Call) error {
	msg, err := c.RequireString("message")
	if err != nil {
		return err
	}
	lvlName, _ := c.String("level")
	lvl, err := logging.ParseLevel(lvlName)
	if err != nil {
		return err
	}
	attrs := []any{"path", c.Node.Path()}
	if len(c.Event) > 0 {
		attrs = append(attrs, "args", c.Event)
	}
	c.logger().Log(context.Background(), lvl, msg, attrs...)
	return nil
}

// announce: message. Falls back to the log without an announcer.
func announceAction(c Call) error {
	msg, err := c.RequireString("message")
	if err != nil {
		return err
	}
	if c.Env.Announcer == nil {
		c.logger().Info(msg, "path", c.Node.Path())
		return nil
	}
	c.Env.Announcer.Announce(c.Node.Path(), msg)
	return nil
}

// emit: event, optional namespace, system and args.
// The event is queued and delivered on a later tick.
func emitAction(c Call) error {
	name, err := c.RequireString("event")
	if err != nil {
		return err
	}
	if c.Env.Sink == nil {
		return ErrNoSink
	}
	key := domain.SelfEvent(name)
	if ns, ok := c.String("namespace"); ok && ns != "" {
		key.Namespace = ns
	}
	if sys, ok := c.String("system"); ok && sys != "" {
		key.System = sys
	}
	var args []any
	switch v := c.Args["args"].(type) {
	case nil:
	case []any:
		args = v
	default:
		args = []any{v}
	}
	return c.Env.Sink.Enqueue(domain.Event{EventKey: key, Args: args})
}

// advance: moves the enclosing state past this one. A state that already
// left is not advanced again.
func advanceAction(c Call) error {
	if !c.Node.IsRunning() {
		return nil
	}
	return enclosing(c.Node).Advance()
}

// toggle: target.
func toggleAction(c Call) error {
	target, err := c.RequireString("target")
	if err != nil {
		return err
	}
	return enclosing(c.Node).Toggle(target)
}

func resetTimerAction(c Call) error {
	t := c.Node.Timer()
	if t == nil {
		return fmt.Errorf("%w: %q", ErrNoTimer, c.Node.Path())
	}
	t.ResetTimer()
	return nil
}

// set_duration: duration.
func setDurationAction(c Call) error {
	t := c.Node.Timer()
	if t == nil {
		return fmt.Errorf("%w: %q", ErrNoTimer, c.Node.Path())
	}
	d, err := c.Duration("duration")
	if err != nil {
		return err
	}
	t.ResetDuration(d)
	return nil
}

// remove: target (default: the state itself).
func removeAction(c Call) error {
	target, ok := c.String("target")
	if !ok || target == "" {
		target = c.Node.Name()
	}
	_, err := enclosing(c.Node).RemoveChild(target)
	return err
}

// finish: skips the remaining siblings, exhausting the enclosing state.
func finishAction(c Call) error {
	if !c.Node.IsRunning() {
		return nil
	}
	return enclosing(c.Node).Finish()
}

// enclosing returns the parent of n, or n itself for the root.
func enclosing(n *state.Node) *state.Node {
	if p := n.Parent(); p != nil {
		return p
	}
	return n
}
