package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/calform/pkg/domain"
	"github.com/aretw0/calform/pkg/registry"
)

// FormOverlay contains dynamic state data to visualize on the form chart.
type FormOverlay struct {
	// EditingGroups are drawn highlighted.
	EditingGroups []string
	// Invalid are field keys with validation problems.
	Invalid []string
}

// GenerateMermaid produces a Mermaid flowchart of the form in field order.
// Shapes follow the field kind:
// - Flag: ([Stadium])
// - Scalar: [Rectangle]
// Dependent groups become subgraphs; consecutive fields are chained so the
// tab order reads top to bottom.
func GenerateMermaid(reg *registry.Registry, overlay *FormOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	grouped := make(map[string]bool)
	for _, g := range reg.Groups() {
		fmt.Fprintf(&sb, "    subgraph %s[\"%s\"]\n", sanitizeMermaidID("group_"+g.Name), g.Name)
		for _, key := range g.Members {
			grouped[key] = true
			sb.WriteString("    " + fieldNode(reg, key))
		}
		sb.WriteString("    end\n")
	}

	fields := reg.Fields()
	for _, f := range fields {
		if !grouped[f.Key] {
			sb.WriteString(fieldNode(reg, f.Key))
		}
	}
	for i := 1; i < len(fields); i++ {
		fmt.Fprintf(&sb, "    %s --> %s\n", sanitizeMermaidID(fields[i-1].Key), sanitizeMermaidID(fields[i].Key))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef editing fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		sb.WriteString("    classDef invalid fill:#ffcdd2,stroke:#b71c1c,stroke-width:2px,color:#000;\n")

		for _, group := range overlay.EditingGroups {
			fmt.Fprintf(&sb, "    class %s editing;\n", sanitizeMermaidID("group_"+group))
		}
		seen := make(map[string]bool)
		for _, key := range overlay.Invalid {
			safeID := sanitizeMermaidID(key)
			if !seen[safeID] && safeID != "" {
				seen[safeID] = true
				fmt.Fprintf(&sb, "    class %s invalid;\n", safeID)
			}
		}
	}

	return sb.String()
}

func fieldNode(reg *registry.Registry, key string) string {
	f, _ := reg.Lookup(key)
	opener, closer := "[", "]"
	if f.Kind == domain.KindFlag {
		opener, closer = "([", "])"
	}
	return fmt.Sprintf("    %s%s\"%s\"%s\n", sanitizeMermaidID(key), opener, key, closer)
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
