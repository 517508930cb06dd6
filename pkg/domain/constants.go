package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Conventional namespaces for host events.
const (
	// NamespaceHost is the namespace of every event raised by the embedding host.
	NamespaceHost = "host"

	// SystemEngine identifies events originated by the host engine itself.
	SystemEngine = "engine"

	// SystemSelf identifies custom events raised by the hosting object.
	SystemSelf = "self"
)

// PathSeparator joins state names into a path (e.g. "root/round/play").
const PathSeparator = "/"

// EventKey is the (namespace, system, event) triple identifying an event source.
type EventKey struct {
	Namespace string `json:"namespace"`
	System    string `json:"system"`
	Name      string `json:"event"`
}

// String renders the key as "namespace:system:event".
func (k EventKey) String() string {
	return strings.Join([]string{k.Namespace, k.System, k.Name}, ":")
}

// EngineEvent builds the key of an engine-originated event.
func EngineEvent(name string) EventKey {
	return EventKey{Namespace: NamespaceHost, System: SystemEngine, Name: name}
}

// SelfEvent builds the key of a custom event raised by the hosting object.
func SelfEvent(name string) EventKey {
	return EventKey{Namespace: NamespaceHost, System: SystemSelf, Name: name}
}

// Event is a key plus positional arguments, as queued by event sources.
type Event struct {
	EventKey
	Args []any `json:"args,omitempty"`
}

// ParseEventKey parses "namespace:system:event". A two-part key is taken
// as "system:event" in the host namespace and a bare name as a self event.
func ParseEventKey(s string) (EventKey, error) {
	parts := strings.Split(s, ":")
	for _, p := range parts {
		if p == "" {
			return EventKey{}, fmt.Errorf("%w: %q", ErrInvalidEventKey, s)
		}
	}
	switch len(parts) {
	case 1:
		return SelfEvent(parts[0]), nil
	case 2:
		return EventKey{Namespace: NamespaceHost, System: parts[0], Name: parts[1]}, nil
	case 3:
		return EventKey{Namespace: parts[0], System: parts[1], Name: parts[2]}, nil
	default:
		return EventKey{}, fmt.Errorf("%w: %q", ErrInvalidEventKey, s)
	}
}

// DecodeEvent parses the JSON form of an Event. The key may be given as
// separate "namespace", "system" and "event" fields or as a single "event"
// string understood by ParseEventKey.
func DecodeEvent(data []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return Event{}, fmt.Errorf("decode event: %w", err)
	}
	return e.Normalize()
}

// Normalize fills a partially specified key the way ParseEventKey does.
func (e Event) Normalize() (Event, error) {
	if e.Namespace == "" && e.System == "" {
		key, err := ParseEventKey(e.Name)
		if err != nil {
			return Event{}, err
		}
		e.EventKey = key
		return e, nil
	}
	if e.Namespace == "" {
		e.Namespace = NamespaceHost
	}
	if e.System == "" || e.Name == "" {
		return Event{}, fmt.Errorf("%w: %q", ErrInvalidEventKey, e.EventKey.String())
	}
	return e, nil
}
