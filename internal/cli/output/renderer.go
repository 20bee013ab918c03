package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/leapstack-labs/formulate/pkg/core"
	"github.com/leapstack-labs/formulate/pkg/token"
)

// Renderer writes command results in the configured mode.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   Mode
	isTTY  bool
	styles *Styles
}

// NewRenderer creates a renderer, detecting whether out is a terminal.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	return NewRendererWithTTY(out, errOut, isTerminal(out), mode)
}

// NewRendererWithTTY creates a renderer with an explicit TTY state.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, mode Mode) *Renderer {
	return &Renderer{
		out:    out,
		errOut: errOut,
		mode:   mode,
		isTTY:  isTTY,
		styles: newStyles(lipgloss.NewRenderer(out), isTTY),
	}
}

// EffectiveMode returns the mode after resolving auto.
func (r *Renderer) EffectiveMode() Mode { return r.mode.Resolve(r.isTTY) }

// IsTTY reports whether output goes to a terminal.
func (r *Renderer) IsTTY() bool { return r.isTTY }

// Styles returns the renderer styles.
func (r *Renderer) Styles() *Styles { return r.styles }

// Writer returns the output writer.
func (r *Renderer) Writer() io.Writer { return r.out }

// Println writes a line to the output.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.out, a...)
}

// Printf writes formatted text to the output.
func (r *Renderer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.out, format, a...)
}

// Header writes a section header.
func (r *Renderer) Header(text string) {
	r.Println(r.styles.Header.Render(text))
}

// Muted writes secondary information.
func (r *Renderer) Muted(text string) {
	r.Println(r.styles.Muted.Render(text))
}

// Success writes a success line.
func (r *Renderer) Success(text string) {
	r.Println(r.styles.Success.Render("✓ " + text))
}

// JSON writes v as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// Translation writes one translated expression. Text mode shows the input
// with an arrow; plain mode writes only the result.
func (r *Renderer) Translation(input, result string) {
	if r.EffectiveMode() == ModeText {
		r.Printf("%s %s %s\n", r.styles.Muted.Render(input), r.styles.Arrow.Render("→"), r.styles.Bold.Render(result))
		return
	}
	r.Println(result)
}

// Error writes err to the error output. For errors carrying a position in
// input, text mode also prints the line with a caret under the column.
func (r *Renderer) Error(input string, err error) {
	kind := core.KindOf(err)
	_, _ = fmt.Fprintf(r.errOut, "%s %v\n", r.styles.Error.Render(kind+":"), err)

	var positioned interface{ Pos() token.Position }
	if r.EffectiveMode() != ModeText || !errors.As(err, &positioned) {
		return
	}
	pos := positioned.Pos()
	if !pos.IsValid() {
		return
	}
	lines := strings.Split(input, "\n")
	if pos.Line > len(lines) {
		return
	}
	_, _ = fmt.Fprintf(r.errOut, "  %s\n  %s%s\n", lines[pos.Line-1], strings.Repeat(" ", pos.Column-1), r.styles.Caret.Render("^"))
}

// Table renders rows under header with go-pretty.
func (r *Renderer) Table(header []string, rows [][]string) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	if r.EffectiveMode() == ModeText {
		t.SetStyle(table.StyleLight)
	} else {
		t.SetStyle(table.StyleDefault)
	}

	headerRow := make(table.Row, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	t.AppendHeader(headerRow)

	for _, row := range rows {
		tr := make(table.Row, len(row))
		for i, cell := range row {
			tr[i] = cell
		}
		t.AppendRow(tr)
	}
	t.Render()
}
