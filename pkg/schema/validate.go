package schema

import (
	"slices"
	"sort"
)

// Field is one declared argument.
type Field struct {
	Type     Type
	Required bool
}

// Required declares a mandatory argument of type t.
func Required(t Type) Field { return Field{Type: t, Required: true} }

// Optional declares an argument of type t that may be omitted.
func Optional(t Type) Field { return Field{Type: t} }

// Schema maps argument names to their fields.
type Schema map[string]Field

// Keys returns the declared argument names, sorted.
func (s Schema) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Validate checks args against s: required fields must be present, present
// fields must match their type and undeclared fields are rejected.
// Errors are reported in key order.
func Validate(s Schema, args map[string]any) error {
	if s == nil {
		return nil
	}

	var errs []error
	for _, key := range s.Keys() {
		field := s[key]
		value, ok := args[key]
		if !ok {
			if field.Required {
				errs = append(errs, &ValidationError{Key: key, Reason: "required"})
			}
			continue
		}
		if field.Type == nil {
			continue
		}
		if err := field.Type.Validate(value); err != nil {
			errs = append(errs, &ValidationError{Key: key, Reason: err.Error(), Value: value})
		}
	}

	var unknown []string
	for key := range args {
		if _, ok := s[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	slices.Sort(unknown)
	for _, key := range unknown {
		errs = append(errs, &ValidationError{Key: key, Reason: "unknown argument"})
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}
