package dsl

import (
	"fmt"
	"time"
)

// Builder assembles a Definition in Go.
type Builder struct {
	root *PhaseBuilder
}

// New creates a builder for a tree whose root is called name.
func New(name string) *Builder {
	return &Builder{root: &PhaseBuilder{phase: Phase{Name: name}}}
}

// Root returns the builder of the root itself, to attach top-level callbacks.
func (b *Builder) Root() *PhaseBuilder { return b.root }

// Version sets the definition version.
func (b *Builder) Version(v string) *Builder {
	b.root.version = v
	return b
}

// Loop makes the top-level phases repeat forever.
func (b *Builder) Loop() *Builder {
	b.root.Loop()
	return b
}

// Phase adds a top-level phase.
// If the phase already exists, it returns the existing builder.
func (b *Builder) Phase(name string) *PhaseBuilder {
	return b.root.Phase(name)
}

// Build returns the definition. Only structural checks run here; actions
// are checked against a registry by Validate or Install.
func (b *Builder) Build() (*Definition, error) {
	def := &Definition{Version: b.root.version, Phase: b.root.build()}
	if err := Validate(def, nil); err != nil {
		return nil, fmt.Errorf("failed to build definition: %w", err)
	}
	return def, nil
}

// PhaseBuilder provides a fluent API for configuring a phase.
type PhaseBuilder struct {
	phase    Phase
	children []*PhaseBuilder
	version  string
}

// Phase adds a nested phase.
// If the phase already exists, it returns the existing builder.
func (p *PhaseBuilder) Phase(name string) *PhaseBuilder {
	for _, c := range p.children {
		if c.phase.Name == name {
			return c
		}
	}
	c := &PhaseBuilder{phase: Phase{Name: name}}
	p.children = append(p.children, c)
	return c
}

// Describe sets a human readable description.
func (p *PhaseBuilder) Describe(text string) *PhaseBuilder {
	p.phase.Description = text
	return p
}

// Loop makes the nested phases repeat forever.
func (p *PhaseBuilder) Loop() *PhaseBuilder {
	p.phase.Loop = true
	return p
}

// Timed gives the phase a timer; the phase ends d after it is entered.
func (p *PhaseBuilder) Timed(d time.Duration) *PhaseBuilder {
	p.phase.Duration = d
	return p
}

// OnInit adds an action run once per activation, before entering.
func (p *PhaseBuilder) OnInit(action string, args Args) *PhaseBuilder {
	p.phase.OnInit = append(p.phase.OnInit, ActionRef{Do: action, With: args})
	return p
}

// OnEnter adds an action run when the phase is entered.
func (p *PhaseBuilder) OnEnter(action string, args Args) *PhaseBuilder {
	p.phase.OnEnter = append(p.phase.OnEnter, ActionRef{Do: action, With: args})
	return p
}

// OnExit adds an action run when the phase is left.
func (p *PhaseBuilder) OnExit(action string, args Args) *PhaseBuilder {
	p.phase.OnExit = append(p.phase.OnExit, ActionRef{Do: action, With: args})
	return p
}

// OnTick adds an action run on every tick while the phase is active.
func (p *PhaseBuilder) OnTick(action string, args Args) *PhaseBuilder {
	p.phase.OnTick = append(p.phase.OnTick, ActionRef{Do: action, With: args})
	return p
}

// OnExhausted adds an action run when the nested phases run out.
func (p *PhaseBuilder) OnExhausted(action string, args Args) *PhaseBuilder {
	p.phase.OnExhausted = append(p.phase.OnExhausted, ActionRef{Do: action, With: args})
	return p
}

// OnDestroy adds an action run when the phase instance is dropped.
func (p *PhaseBuilder) OnDestroy(action string, args Args) *PhaseBuilder {
	p.phase.OnDestroy = append(p.phase.OnDestroy, ActionRef{Do: action, With: args})
	return p
}

// OnTimeout adds an action run when the timer fires.
func (p *PhaseBuilder) OnTimeout(action string, args Args) *PhaseBuilder {
	p.phase.OnTimeout = append(p.phase.OnTimeout, ActionRef{Do: action, With: args})
	return p
}

// On adds an action run when event is dispatched while the phase is active.
// Repeated calls for the same event append to the same handler.
func (p *PhaseBuilder) On(event, action string, args Args) *PhaseBuilder {
	ref := ActionRef{Do: action, With: args}
	for i := range p.phase.On {
		if p.phase.On[i].Event == event {
			p.phase.On[i].Do = append(p.phase.On[i].Do, ref)
			return p
		}
	}
	p.phase.On = append(p.phase.On, Handler{Event: event, Do: []ActionRef{ref}})
	return p
}

func (p *PhaseBuilder) build() Phase {
	out := p.phase
	out.Phases = make([]Phase, 0, len(p.children))
	for _, c := range p.children {
		out.Phases = append(out.Phases, c.build())
	}
	if len(out.Phases) == 0 {
		out.Phases = nil
	}
	return out
}
