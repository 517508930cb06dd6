package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/gamestate/pkg/dsl"
)

// Summary describes a definition as markdown: a title, the description and
// one bullet per phase with its timer, loop flag, actions and event handlers.
func Summary(def *dsl.Definition) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", def.RootName())
	if def.Description != "" {
		fmt.Fprintf(&sb, "%s\n\n", def.Description)
	}
	fmt.Fprintf(&sb, "%d phases", def.Count())
	if def.Loop {
		sb.WriteString(", looping")
	}
	sb.WriteString("\n\n")
	writePhaseList(&sb, def.Phases, 0)
	return sb.String()
}

func writePhaseList(sb *strings.Builder, phases []dsl.Phase, depth int) {
	indent := strings.Repeat("  ", depth)
	for i := range phases {
		p := &phases[i]
		fmt.Fprintf(sb, "%s- **%s**", indent, p.Name)

		var tags []string
		if p.Timed() {
			tags = append(tags, "⏱ "+p.Duration.String())
		}
		if p.Loop {
			tags = append(tags, "loop")
		}
		if len(tags) > 0 {
			fmt.Fprintf(sb, " (%s)", strings.Join(tags, ", "))
		}
		if p.Description != "" {
			fmt.Fprintf(sb, ": %s", p.Description)
		}
		sb.WriteString("\n")

		for _, l := range []struct {
			field string
			refs  []dsl.ActionRef
		}{
			{"enter", p.OnEnter},
			{"exit", p.OnExit},
			{"tick", p.OnTick},
			{"timeout", p.OnTimeout},
			{"exhausted", p.OnExhausted},
		} {
			if len(l.refs) > 0 {
				fmt.Fprintf(sb, "%s  - on %s: %s\n", indent, l.field, actionNames(l.refs))
			}
		}
		for _, h := range p.On {
			fmt.Fprintf(sb, "%s  - on `%s`: %s\n", indent, h.Event, actionNames(h.Do))
		}
		writePhaseList(sb, p.Phases, depth+1)
	}
}

func actionNames(refs []dsl.ActionRef) string {
	names := make([]string, len(refs))
	for i, r := range refs {
		names[i] = "`" + r.Do + "`"
	}
	return strings.Join(names, ", ")
}
