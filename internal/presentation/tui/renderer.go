package tui

import (
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders prompt markdown using glamour.
// When the renderer cannot be built the text passes through unchanged.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return func(text string) (string, error) { return text, nil }
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}
