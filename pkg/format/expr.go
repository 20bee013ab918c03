package format

import (
	"github.com/leapstack-labs/formulate/pkg/backend"
	"github.com/leapstack-labs/formulate/pkg/core"
	"github.com/leapstack-labs/formulate/pkg/ident"
)

type side int

const (
	sideLeft side = iota
	sideRight
)

// slot describes where a child is rendered: the operator that encloses it
// and which operand it is.
type slot struct {
	prec   backend.Precedence // PrecedenceNone at top level and in argument lists
	assoc  backend.Assoc
	side   side
	prefix bool // enclosing operator is prefix
}

// top is the slot of the whole expression and of function arguments.
var top = slot{}

// needsParens reports whether an operator child in slot s must be wrapped.
func (s slot) needsParens(op *backend.OperatorDef) bool {
	if s.prec == backend.PrecedenceNone {
		return false
	}
	if op.Precedence != s.prec {
		return op.Precedence < s.prec
	}
	switch {
	case s.prefix:
		return op.Fixity != backend.Prefix
	case op.Fixity == backend.Prefix:
		// -a * b with unary * would re-parse as -(a * b)
		return s.side == sideLeft
	case s.assoc == backend.AssocLeft:
		return s.side != sideLeft
	case s.assoc == backend.AssocRight:
		return s.side != sideRight
	default:
		return true
	}
}

func (p *Printer) formatExpr(e core.Expr, s slot) {
	if p.err != nil {
		return
	}
	switch expr := e.(type) {
	case *core.Variable:
		p.write(expr.Name())
	case *core.Constant:
		p.formatConstant(expr)
	case *core.Expression:
		p.formatExpression(expr, s)
	default:
		p.fail(ErrNilExpr)
	}
}

func (p *Printer) formatConstant(c *core.Constant) {
	if !c.IsNamed() {
		v, _ := c.Value()
		p.write(core.FormatNumber(v))
		return
	}

	if spelling, ok := p.backend.Spelling(c.ID()); ok {
		p.write(spelling)
		return
	}
	// Numeric constants without a spelling fall back to their value.
	if v, ok := c.Value(); ok {
		p.write(core.FormatNumber(v))
		return
	}
	p.unsupported(c.ID())
}

func (p *Printer) formatExpression(e *core.Expression, s slot) {
	desc, ok := p.backend.LookupByIdentifier(e.ID())
	if !ok {
		p.unsupported(e.ID())
		return
	}

	switch d := desc.(type) {
	case *backend.OperatorDef:
		wrap := s.needsParens(d)
		if wrap {
			p.write("(")
		}
		if d.Fixity == backend.Prefix {
			p.formatPrefix(e, d)
		} else {
			p.formatInfix(e, d)
		}
		if wrap {
			p.write(")")
		}
	case *backend.FunctionDef:
		p.formatCall(e, d)
	default:
		p.unsupported(e.ID())
	}
}

func (p *Printer) formatInfix(e *core.Expression, op *backend.OperatorDef) {
	p.formatExpr(e.Arg(0), slot{prec: op.Precedence, assoc: op.Assoc, side: sideLeft})
	p.space()
	p.write(op.Token)
	p.space()
	p.formatExpr(e.Arg(1), slot{prec: op.Precedence, assoc: op.Assoc, side: sideRight})
}

func (p *Printer) formatPrefix(e *core.Expression, op *backend.OperatorDef) {
	operand := e.Arg(0)
	p.write(op.Token)
	if endsInWordChar(op.Token) || p.isUnwrappedPrefix(operand, op) {
		p.space()
	}
	p.formatExpr(operand, slot{prec: op.Precedence, assoc: backend.AssocRight, side: sideRight, prefix: true})
}

// isUnwrappedPrefix reports whether operand renders as a bare prefix
// operation, so that - -a is not written as --a.
func (p *Printer) isUnwrappedPrefix(operand core.Expr, parent *backend.OperatorDef) bool {
	inner, ok := operand.(*core.Expression)
	if !ok {
		return false
	}
	desc, ok := p.backend.LookupByIdentifier(inner.ID())
	if !ok {
		return false
	}
	op, ok := desc.(*backend.OperatorDef)
	return ok && op.Fixity == backend.Prefix && op.Precedence >= parent.Precedence
}

func (p *Printer) formatCall(e *core.Expression, fn *backend.FunctionDef) {
	p.write(fn.Token)
	p.write("(")
	for i := range e.NumArgs() {
		if i > 0 {
			p.write(", ")
		}
		p.formatExpr(e.Arg(i), top)
	}
	p.write(")")
}

func (p *Printer) unsupported(id ident.ID) {
	p.fail(&core.UnsupportedIdentifierError{ID: id, Backend: p.backend.Name()})
}

func endsInWordChar(s string) bool {
	if s == "" {
		return false
	}
	c := s[len(s)-1]
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
