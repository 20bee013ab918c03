package backend

import (
	"github.com/leapstack-labs/formulate/pkg/core"
	"github.com/leapstack-labs/formulate/pkg/ident"
)

// Descriptor binds one identifier to its spelling in a backend.
// It is one of *OperatorDef, *FunctionDef or *ConstantDef.
type Descriptor interface {
	// Ident returns the identifier the descriptor spells.
	Ident() ident.ID
	// Spelling returns the token text written by the serializer.
	Spelling() string
	descriptor()
}

// OperatorDef spells an identifier as a prefix or infix operator.
type OperatorDef struct {
	ID         ident.ID
	Token      string
	Fixity     Fixity
	Precedence Precedence
	Assoc      Assoc // ignored for prefix operators
}

func (*OperatorDef) descriptor() {}

// Ident implements Descriptor.
func (d *OperatorDef) Ident() ident.ID { return d.ID }

// Spelling implements Descriptor.
func (d *OperatorDef) Spelling() string { return d.Token }

// Arity returns 1 for prefix operators and 2 for infix operators.
func (d *OperatorDef) Arity() int { return d.Fixity.Arity() }

// FunctionDef spells an identifier as a function call: token(a, b, ...).
type FunctionDef struct {
	ID    ident.ID
	Token string
	Arity int // 0 means the registry arity
}

func (*FunctionDef) descriptor() {}

// Ident implements Descriptor.
func (d *FunctionDef) Ident() ident.ID { return d.ID }

// Spelling implements Descriptor.
func (d *FunctionDef) Spelling() string { return d.Token }

// ConstantDef spells a named constant. An empty Token means the constant is
// written as its value, and a nil Value means the registry value.
type ConstantDef struct {
	ID    ident.ID
	Token string
	Value any // float64 or bool
}

func (*ConstantDef) descriptor() {}

// Ident implements Descriptor.
func (d *ConstantDef) Ident() ident.ID { return d.ID }

// Spelling implements Descriptor.
func (d *ConstantDef) Spelling() string {
	if d.Token != "" {
		return d.Token
	}
	return ValueText(d.Value)
}

// ValueText renders a constant value as source text. Floats use the shortest
// decimal form that parses back to the same value.
func ValueText(v any) string {
	switch x := v.(type) {
	case float64:
		return core.FormatNumber(x)
	case bool:
		if x {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

// Op is shorthand for an infix OperatorDef.
func Op(id ident.ID, tok string, prec Precedence, assoc Assoc) OperatorDef {
	return OperatorDef{ID: id, Token: tok, Fixity: Infix, Precedence: prec, Assoc: assoc}
}

// Unary is shorthand for a prefix OperatorDef.
func Unary(id ident.ID, tok string, prec Precedence) OperatorDef {
	return OperatorDef{ID: id, Token: tok, Fixity: Prefix, Precedence: prec}
}

// Fn is shorthand for a FunctionDef with the registry arity.
func Fn(id ident.ID, tok string) FunctionDef {
	return FunctionDef{ID: id, Token: tok}
}

// Const is shorthand for a ConstantDef with an explicit token.
func Const(id ident.ID, tok string) ConstantDef {
	return ConstantDef{ID: id, Token: tok}
}
