package output

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styles holds the lipgloss styles used by the renderer.
type Styles struct {
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Header  lipgloss.Style
	Arrow   lipgloss.Style
	Caret   lipgloss.Style
}

// newStyles builds styles on r. Without a terminal the renderer uses the
// ASCII profile so no escape codes are written.
func newStyles(r *lipgloss.Renderer, isTTY bool) *Styles {
	if !isTTY {
		r.SetColorProfile(termenv.Ascii)
	}
	return &Styles{
		Bold:    r.NewStyle().Bold(true),
		Muted:   r.NewStyle().Foreground(lipgloss.Color("8")),
		Success: r.NewStyle().Foreground(lipgloss.Color("2")),
		Error:   r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		Warning: r.NewStyle().Foreground(lipgloss.Color("3")),
		Header:  r.NewStyle().Bold(true).Underline(true),
		Arrow:   r.NewStyle().Foreground(lipgloss.Color("6")),
		Caret:   r.NewStyle().Foreground(lipgloss.Color("1")),
	}
}
