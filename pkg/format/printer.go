package format

import (
	"bytes"
	"errors"

	"github.com/leapstack-labs/formulate/pkg/backend"
)

// ErrNilExpr is returned when Format is given a nil expression.
var ErrNilExpr = errors.New("expression is nil")

// Printer accumulates the rendered text. The first error stops output.
type Printer struct {
	backend *backend.Backend
	output  *bytes.Buffer
	err     error
}

func newPrinter(b *backend.Backend) *Printer {
	return &Printer{
		backend: b,
		output:  &bytes.Buffer{},
	}
}

// String returns the formatted output.
func (p *Printer) String() string {
	return p.output.String()
}

func (p *Printer) write(s string) {
	if p.err != nil {
		return
	}
	p.output.WriteString(s)
}

func (p *Printer) space() {
	p.write(" ")
}

func (p *Printer) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}
