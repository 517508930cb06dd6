package schema

import (
	"fmt"
	"reflect"
)

// Type checks a single argument value.
type Type interface {
	// Name returns the human-readable name of the type (e.g., "string", "number").
	Name() string
	// Validate checks if a value conforms to this type.
	Validate(value any) error
}

type stringType struct{}

func (stringType) Name() string { return "string" }

func (stringType) Validate(value any) error {
	if _, ok := value.(string); !ok {
		return fmt.Errorf("expected string, got %T", value)
	}
	return nil
}

// numberType accepts any Go numeric kind; YAML decodes whole numbers as int
// and JSON as float64.
type numberType struct{}

func (numberType) Name() string { return "number" }

func (numberType) Validate(value any) error {
	switch reflect.ValueOf(value).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return nil
	default:
		return fmt.Errorf("expected number, got %T", value)
	}
}

type boolType struct{}

func (boolType) Name() string { return "bool" }

func (boolType) Validate(value any) error {
	if _, ok := value.(bool); !ok {
		return fmt.Errorf("expected bool, got %T", value)
	}
	return nil
}

type anyType struct{}

func (anyType) Name() string { return "any" }

func (anyType) Validate(any) error { return nil }

type sliceType struct {
	elem Type
}

func (t sliceType) Name() string {
	return fmt.Sprintf("[%s]", t.elem.Name())
}

func (t sliceType) Validate(value any) error {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return fmt.Errorf("expected slice, got %T", value)
	}
	for i := 0; i < rv.Len(); i++ {
		if err := t.elem.Validate(rv.Index(i).Interface()); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}

type oneOfType struct {
	types []Type
}

func (t oneOfType) Name() string {
	name := ""
	for i, typ := range t.types {
		if i > 0 {
			name += "|"
		}
		name += typ.Name()
	}
	return name
}

func (t oneOfType) Validate(value any) error {
	for _, typ := range t.types {
		if typ.Validate(value) == nil {
			return nil
		}
	}
	return fmt.Errorf("expected %s, got %T", t.Name(), value)
}

type customType struct {
	name     string
	validate func(any) error
}

func (t customType) Name() string { return t.name }

func (t customType) Validate(value any) error {
	return t.validate(value)
}

// String accepts strings.
func String() Type { return stringType{} }

// Number accepts integers and floats.
func Number() Type { return numberType{} }

// Bool accepts booleans.
func Bool() Type { return boolType{} }

// Any accepts every value.
func Any() Type { return anyType{} }

// Slice accepts slices whose elements all match elem.
func Slice(elem Type) Type { return sliceType{elem: elem} }

// OneOf accepts values matching any of types.
func OneOf(types ...Type) Type { return oneOfType{types: types} }

// Custom creates a type backed by a validation function.
func Custom(name string, validate func(any) error) Type {
	return customType{name: name, validate: validate}
}
