package dsl

import (
	"fmt"
	"os"
	"reflect"
	"time"

	"github.com/aretw0/gamestate/pkg/registry"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

var (
	durationType   = reflect.TypeOf(time.Duration(0))
	actionRefType  = reflect.TypeOf(ActionRef{})
	actionListType = reflect.TypeOf([]ActionRef{})
)

// Load reads and parses a YAML definition file.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read definition: %w", err)
	}
	def, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// Parse decodes a YAML definition. Unknown keys are rejected.
func Parse(data []byte) (*Definition, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return Decode(raw)
}

// Decode converts a generic map (as produced by YAML or JSON decoders) into a
// Definition.
func Decode(raw map[string]any) (*Definition, error) {
	var def Definition
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			durationHook,
			actionShorthandHook,
		),
		ErrorUnused: true,
		Result:      &def,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode definition: %w", err)
	}
	return &def, nil
}

// durationHook accepts seconds as numbers or Go duration strings.
func durationHook(from, to reflect.Type, data any) (any, error) {
	if to != durationType || from == durationType {
		return data, nil
	}
	return registry.ParseDuration(data)
}

// actionShorthandHook turns "advance" into ActionRef{Do: "advance"}, both as
// a list element and as a whole list.
func actionShorthandHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String {
		return data, nil
	}
	switch to {
	case actionRefType:
		return ActionRef{Do: reflect.ValueOf(data).String()}, nil
	case actionListType:
		return []ActionRef{{Do: reflect.ValueOf(data).String()}}, nil
	}
	return data, nil
}
