package report

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// DefaultWordWrap is the terminal width used when none is given.
const DefaultWordWrap = 160

// Terminal renders Markdown for display in a terminal. An empty or "auto"
// style picks a style from the terminal background.
func Terminal(markdown, style string, width int) (string, error) {
	if width <= 0 {
		width = DefaultWordWrap
	}

	styleOpt := glamour.WithStandardStyle(style)
	if style == "" || style == "auto" {
		styleOpt = glamour.WithAutoStyle()
	}

	r, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		return "", fmt.Errorf("create renderer: %w", err)
	}

	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}
