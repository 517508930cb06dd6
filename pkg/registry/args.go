package registry

import (
	"fmt"
	"strconv"
	"time"

	"github.com/aretw0/gamestate/pkg/state"
)

// String returns the string argument key.
func (c Call) String(key string) (string, bool) {
	v, ok := c.Args[key]
	if !ok || v == nil {
		return "", false
	}
	switch s := v.(type) {
	case string:
		return s, true
	default:
		return fmt.Sprint(s), true
	}
}

// RequireString is String with ErrMissingArg when absent or empty.
func (c Call) RequireString(key string) (string, error) {
	s, ok := c.String(key)
	if !ok || s == "" {
		return "", fmt.Errorf("%w: %q", ErrMissingArg, key)
	}
	return s, nil
}

// Duration returns the duration argument key, see ParseDuration.
func (c Call) Duration(key string) (time.Duration, error) {
	v, ok := c.Args[key]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrMissingArg, key)
	}
	return ParseDuration(v)
}

// ParseDuration accepts a number of seconds (integer or fractional), a
// numeric string of seconds, a Go duration string such as "1m30s", or a
// time.Duration.
func ParseDuration(v any) (time.Duration, error) {
	switch d := v.(type) {
	case time.Duration:
		return d, nil
	case int:
		return time.Duration(d) * time.Second, nil
	case int64:
		return time.Duration(d) * time.Second, nil
	case uint64:
		return time.Duration(d) * time.Second, nil
	case float64:
		return state.Seconds(d), nil
	case float32:
		return state.Seconds(float64(d)), nil
	case string:
		if f, err := strconv.ParseFloat(d, 64); err == nil {
			return state.Seconds(f), nil
		}
		parsed, err := time.ParseDuration(d)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q: %w", d, err)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("invalid duration %v (%T)", v, v)
	}
}
