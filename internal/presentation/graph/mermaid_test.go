package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/charter/internal/presentation/graph"
	"github.com/aretw0/charter/pkg/domain"
	"github.com/stretchr/testify/assert"
)

var (
	bounty = graph.Path{Boat: "Bounty", Steps: []domain.Step{
		domain.StepBoatSelection, domain.StepHoursSelection, domain.StepComplete,
	}}
	aurora = graph.Path{Boat: "Aurora", Steps: []domain.Step{
		domain.StepBoatSelection, domain.StepCaptainSelection, domain.StepHoursSelection, domain.StepComplete,
	}}
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name        string
		paths       []graph.Path
		overlay     *graph.GraphOverlay
		contains    []string
		notContains []string
	}{
		{
			name:  "Shapes",
			paths: []graph.Path{bounty},
			contains: []string{
				"graph TD\n",
				`boat_selection(("boat_selection"))`,
				`hours_selection[/"hours_selection"/]`,
				`complete[["complete"]]`,
				"boat_selection --> hours_selection",
			},
			notContains: []string{"classDef"},
		},
		{
			name:  "Edges taken by some boats are labelled",
			paths: []graph.Path{bounty, aurora},
			contains: []string{
				`boat_selection -- "Bounty" --> hours_selection`,
				`boat_selection -- "Aurora" --> captain_selection`,
				"hours_selection --> complete",
			},
		},
		{
			name:    "Overlay",
			paths:   []graph.Path{aurora},
			overlay: &graph.GraphOverlay{VisitedSteps: []domain.Step{domain.StepBoatSelection, domain.StepBoatSelection, domain.StepCaptainSelection, domain.StepPierEntry}, CurrentStep: domain.StepCaptainSelection},
			contains: []string{
				"class boat_selection visited;",
				"class captain_selection current;",
			},
			notContains: []string{"class captain_selection visited;", "pier_entry"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.paths, tt.overlay)
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			for _, unwanted := range tt.notContains {
				assert.NotContains(t, got, unwanted)
			}
		})
	}
}

func TestGenerateMermaid_NodeOrder(t *testing.T) {
	got := graph.GenerateMermaid([]graph.Path{bounty, aurora}, nil)
	captain := strings.Index(got, `captain_selection[/`)
	hours := strings.Index(got, `hours_selection[/`)
	assert.Less(t, captain, hours, "nodes follow the wizard order")
	assert.Equal(t, 1, strings.Count(got, `boat_selection(("boat_selection"))`))
}
