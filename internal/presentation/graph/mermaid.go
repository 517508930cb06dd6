package graph

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/gamestate/pkg/domain"
	"github.com/aretw0/gamestate/pkg/dsl"
	"github.com/aretw0/gamestate/pkg/registry"
)

// Overlay contains dynamic state data to visualize on the graph.
type Overlay struct {
	// ActivePath lists the active phase names below the root, outermost first.
	ActivePath []string
}

// OverlayFrom builds an overlay from a snapshot. A nil snapshot gives nil.
func OverlayFrom(s *domain.Snapshot) *Overlay {
	if s == nil {
		return nil
	}
	return &Overlay{ActivePath: s.ActivePath()}
}

// GenerateMermaid produces a Mermaid flowchart of a phase tree.
// Composite phases become subgraphs; siblings are chained in traversal order,
// looping groups get a dotted back edge, timed phases show their duration and
// toggle actions become dotted edges to their target.
// The root is drawn as a circle and, unless it loops, ends in an "over" node.
// Overlay styles mark the active path and its leaf.
func GenerateMermaid(def *dsl.Definition, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	root := def.RootName()
	rootID := sanitizeMermaidID(root)
	label := root
	if def.Loop {
		label += " ⟳"
	}
	fmt.Fprintf(&sb, "    %s((\"%s\"))\n", rootID, escape(label))

	ids := writePhases(&sb, root, def.Phases, def.Loop, 1)
	if len(ids) > 0 {
		fmt.Fprintf(&sb, "    %s --> %s\n", rootID, ids[0])
		if !def.Loop {
			fmt.Fprintf(&sb, "    %s --> %s_over((\"over\"))\n", ids[len(ids)-1], rootID)
		}
	}

	if overlay != nil && len(overlay.ActivePath) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef active fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		path := root
		for i, name := range overlay.ActivePath {
			path += domain.PathSeparator + name
			class := "active"
			if i == len(overlay.ActivePath)-1 {
				class = "current"
			}
			fmt.Fprintf(&sb, "    class %s %s;\n", sanitizeMermaidID(path), class)
		}
	}

	return sb.String()
}

// writePhases writes one sibling group and returns the ids of its members.
func writePhases(sb *strings.Builder, prefix string, phases []dsl.Phase, loop bool, depth int) []string {
	indent := strings.Repeat("    ", depth)
	names := make([]string, len(phases))
	ids := make([]string, len(phases))
	for i, p := range phases {
		names[i] = p.Name
		ids[i] = sanitizeMermaidID(prefix + domain.PathSeparator + p.Name)
	}

	for i := range phases {
		p := &phases[i]
		if len(p.Phases) > 0 {
			fmt.Fprintf(sb, "%ssubgraph %s[\"%s\"]\n", indent, ids[i], escape(phaseLabel(p)))
			writePhases(sb, prefix+domain.PathSeparator+p.Name, p.Phases, p.Loop, depth+1)
			fmt.Fprintf(sb, "%send\n", indent)
			continue
		}
		fmt.Fprintf(sb, "%s%s[\"%s\"]\n", indent, ids[i], escape(phaseLabel(p)))
	}

	for i := 0; i+1 < len(ids); i++ {
		fmt.Fprintf(sb, "%s%s --> %s\n", indent, ids[i], ids[i+1])
	}
	if loop && len(ids) > 0 {
		fmt.Fprintf(sb, "%s%s -. \"loop\" .-> %s\n", indent, ids[len(ids)-1], ids[0])
	}

	// Toggle transitions (Intervention)
	for i := range phases {
		for _, edge := range toggles(&phases[i]) {
			j := slices.Index(names, edge.target)
			if j < 0 {
				continue
			}
			fmt.Fprintf(sb, "%s%s -. \"⚡ %s\" .-> %s\n", indent, ids[i], escape(edge.label), ids[j])
		}
	}
	return ids
}

func phaseLabel(p *dsl.Phase) string {
	label := p.Name
	if p.Loop {
		label += " ⟳"
	}
	if p.Timed() {
		label += " <br/> ⏱️ " + p.Duration.String()
	}
	return label
}

type toggleEdge struct {
	label  string
	target string
}

// toggles lists the toggle actions of a phase, labelled by what triggers them.
func toggles(p *dsl.Phase) []toggleEdge {
	var edges []toggleEdge
	collect := func(label string, refs []dsl.ActionRef) {
		for _, ref := range refs {
			if ref.Do != registry.ActionToggle {
				continue
			}
			if target, ok := ref.With["target"].(string); ok {
				edges = append(edges, toggleEdge{label: label, target: target})
			}
		}
	}
	collect("enter", p.OnEnter)
	collect("tick", p.OnTick)
	collect("timeout", p.OnTimeout)
	for _, h := range p.On {
		collect(h.Event, h.Do)
	}
	return edges
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
