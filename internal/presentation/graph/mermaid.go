package graph

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/charter/pkg/domain"
)

// Path is the sequence of questions one boat goes through.
type Path struct {
	Boat  string
	Steps []domain.Step
}

// GraphOverlay contains session state to visualize on the graph.
type GraphOverlay struct {
	VisitedSteps []domain.Step
	CurrentStep  domain.Step
}

type edge struct {
	from, to domain.Step
}

// GenerateMermaid merges the paths into one Mermaid flowchart.
// Shapes: the boat question is a ((circle)), the rendered card a [[subroutine]],
// every other question a [/parallelogram/]. An edge taken by only some boats is
// labelled with their names.
func GenerateMermaid(paths []Path, overlay *GraphOverlay) string {
	var (
		nodes []domain.Step
		edges []edge
		seen  = make(map[domain.Step]bool)
		boats = make(map[edge][]string)
	)
	for _, p := range paths {
		for i, s := range p.Steps {
			if !seen[s] {
				seen[s] = true
				nodes = append(nodes, s)
			}
			if i == 0 {
				continue
			}
			e := edge{p.Steps[i-1], s}
			if _, ok := boats[e]; !ok {
				edges = append(edges, e)
			}
			boats[e] = append(boats[e], p.Boat)
		}
	}
	slices.SortStableFunc(nodes, func(a, b domain.Step) int {
		return slices.Index(domain.Steps, a) - slices.Index(domain.Steps, b)
	})

	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, s := range nodes {
		opener, closer := "[/", "/]"
		switch s {
		case domain.StepBoatSelection:
			opener, closer = "((", "))"
		case domain.StepComplete:
			opener, closer = "[[", "]]"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", s, opener, s, closer))
	}

	for _, e := range edges {
		arrow := "-->"
		if names := boats[e]; len(names) < len(paths) {
			label := strings.ReplaceAll(strings.Join(names, ", "), "\"", "'")
			arrow = fmt.Sprintf("-- \"%s\" -->", label)
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", e.from, arrow, e.to))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Black text keeps contrast on both light and dark themes.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		styled := make(map[domain.Step]bool)
		for _, s := range overlay.VisitedSteps {
			if seen[s] && !styled[s] && s != overlay.CurrentStep {
				styled[s] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", s))
			}
		}
		if seen[overlay.CurrentStep] {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", overlay.CurrentStep))
		}
	}

	return sb.String()
}
