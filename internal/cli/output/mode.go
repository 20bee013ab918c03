// Package output renders CLI results for terminals, pipes and machines.
package output

import (
	"io"
	"os"

	"golang.org/x/term"
)

// Mode selects how results are written.
type Mode string

// Output modes.
const (
	ModeAuto  Mode = "auto"  // text on a terminal, plain otherwise
	ModeText  Mode = "text"  // styled for humans
	ModePlain Mode = "plain" // one result per line, no styling
	ModeJSON  Mode = "json"
)

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Resolve returns the concrete mode for m on a writer with the given TTY state.
func (m Mode) Resolve(isTTY bool) Mode {
	switch m {
	case ModeText, ModePlain, ModeJSON:
		return m
	default:
		if isTTY {
			return ModeText
		}
		return ModePlain
	}
}
