package dsl

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/gamestate/pkg/domain"
	"github.com/aretw0/gamestate/pkg/registry"
)

// ErrInvalidDefinition wraps every problem reported by Validate.
var ErrInvalidDefinition = errors.New("invalid definition")

// Validate checks the structure of def and, when reg is not nil, that every
// action it names is registered and receives the arguments it declares.
// All problems are reported at once.
func Validate(def *Definition, reg *registry.Registry) error {
	if def == nil {
		return fmt.Errorf("%w: nil definition", ErrInvalidDefinition)
	}
	v := &validator{reg: reg}

	root := def.RootName()
	if strings.Contains(root, domain.PathSeparator) {
		v.addf(root, "name must not contain %q", domain.PathSeparator)
	}
	if def.Duration != 0 {
		v.addf(root, "the root cannot be timed")
	}
	if len(def.OnTimeout) > 0 {
		v.addf(root, "on_timeout requires a duration")
	}
	v.phase(root, &def.Phase)
	v.children(root, def.Phases)

	if len(v.errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidDefinition, errors.Join(v.errs...))
}

type validator struct {
	reg  *registry.Registry
	errs []error
}

func (v *validator) addf(path, format string, args ...any) {
	v.errs = append(v.errs, fmt.Errorf("%s: %s", path, fmt.Sprintf(format, args...)))
}

func (v *validator) children(prefix string, phases []Phase) {
	seen := make(map[string]bool, len(phases))
	for i := range phases {
		p := &phases[i]
		path := prefix + domain.PathSeparator + p.Name
		switch {
		case p.Name == "":
			v.addf(fmt.Sprintf("%s[%d]", prefix, i), "phase name is required")
		case strings.Contains(p.Name, domain.PathSeparator):
			v.addf(path, "name must not contain %q", domain.PathSeparator)
		case seen[p.Name]:
			v.addf(path, "duplicate phase name")
		}
		seen[p.Name] = true

		if p.Duration < 0 {
			v.addf(path, "duration must not be negative")
		}
		if len(p.OnTimeout) > 0 && !p.Timed() {
			v.addf(path, "on_timeout requires a duration")
		}
		v.phase(path, p)
		v.children(path, p.Phases)
	}
}

func (v *validator) phase(path string, p *Phase) {
	lists := []struct {
		field string
		refs  []ActionRef
	}{
		{"on_init", p.OnInit},
		{"on_enter", p.OnEnter},
		{"on_exit", p.OnExit},
		{"on_tick", p.OnTick},
		{"on_exhausted", p.OnExhausted},
		{"on_destroy", p.OnDestroy},
		{"on_timeout", p.OnTimeout},
	}
	for _, l := range lists {
		v.actions(path, l.field, l.refs)
	}
	for i, h := range p.On {
		field := fmt.Sprintf("on[%d]", i)
		if _, err := domain.ParseEventKey(h.Event); err != nil {
			v.addf(path, "%s: %v", field, err)
		}
		if len(h.Do) == 0 {
			v.addf(path, "%s: no actions for %q", field, h.Event)
		}
		v.actions(path, field, h.Do)
	}
}

func (v *validator) actions(path, field string, refs []ActionRef) {
	for i, ref := range refs {
		switch {
		case ref.Do == "":
			v.addf(path, "%s[%d]: action name is required", field, i)
		case v.reg != nil && !v.reg.Has(ref.Do):
			v.addf(path, "%s[%d]: %v: %q", field, i, registry.ErrUnknownAction, ref.Do)
		case v.reg != nil:
			if err := v.reg.CheckArgs(ref.Do, ref.With); err != nil {
				v.addf(path, "%s[%d]: %s: %v", field, i, ref.Do, err)
			}
		}
	}
}
