// Package format renders expression trees as text in a backend's syntax.
//
// Parentheses are inserted only where the backend's precedence and
// associativity require them, so that parsing the output with the same
// backend gives back a structurally equal tree.
package format

import (
	"github.com/leapstack-labs/formulate/pkg/backend"
	"github.com/leapstack-labs/formulate/pkg/core"
)

// Format renders expr in the syntax of b. It returns
// *core.UnsupportedIdentifierError when the tree uses an identifier that b
// cannot spell.
func Format(expr core.Expr, b *backend.Backend) (string, error) {
	if b == nil {
		return "", backend.ErrBackendRequired
	}
	if expr == nil {
		return "", ErrNilExpr
	}
	p := newPrinter(b)
	p.formatExpr(expr, top)
	if p.err != nil {
		return "", p.err
	}
	return p.String(), nil
}

// MustFormat is like Format but panics on error.
func MustFormat(expr core.Expr, b *backend.Backend) string {
	s, err := Format(expr, b)
	if err != nil {
		panic(err)
	}
	return s
}
