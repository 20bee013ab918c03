// Package root provides the backend for ROOT TFormula and TTree::Draw
// expressions.
package root

import (
	"github.com/leapstack-labs/formulate/pkg/backend"
	"github.com/leapstack-labs/formulate/pkg/ident"
)

// Name is the registry name of the backend.
const Name = "root"

func init() {
	backend.Register(ROOT)
}

// ROOT is the ROOT backend. It has no WHERE, LOG1P, EXPM1 or XOR; POW is the
// TMath::Power function.
var ROOT = backend.New(Name).
	Operators(
		backend.UnaryOperators,
		backend.ArithmeticOperators,
		backend.ComparisonOperators,
		backend.LogicalOperators,
		[]backend.OperatorDef{
			backend.Op(ident.LSHIFT, "<<", backend.PrecedenceShift, backend.AssocLeft),
			backend.Op(ident.RSHIFT, ">>", backend.PrecedenceShift, backend.AssocLeft),
		},
	).
	Functions(
		backend.Fn(ident.SQRT, "TMath::Sqrt"),
		backend.Fn(ident.ABS, "TMath::Abs"),
		backend.Fn(ident.LOG, "TMath::Log"),
		backend.Fn(ident.LOG10, "TMath::Log10"),
		backend.Fn(ident.EXP, "TMath::Exp"),
		backend.Fn(ident.POW, "TMath::Power"),

		backend.Fn(ident.SIN, "TMath::Sin"),
		backend.Fn(ident.ASIN, "TMath::ASin"),
		backend.Fn(ident.COS, "TMath::Cos"),
		backend.Fn(ident.ACOS, "TMath::ACos"),
		backend.Fn(ident.TAN, "TMath::Tan"),
		backend.Fn(ident.ATAN, "TMath::ATan"),
		backend.Fn(ident.ATAN2, "TMath::ATan2"),

		backend.Fn(ident.SINH, "TMath::SinH"),
		backend.Fn(ident.ASINH, "TMath::ASinH"),
		backend.Fn(ident.COSH, "TMath::CosH"),
		backend.Fn(ident.ACOSH, "TMath::ACosH"),
		backend.Fn(ident.TANH, "TMath::TanH"),
		backend.Fn(ident.ATANH, "TMath::ATanH"),
	).
	Constants(
		backend.Const(ident.TRUE, "true"),
		backend.Const(ident.FALSE, "false"),
		backend.Const(ident.SQRT2, "TMath::Sqrt2()"),
		backend.Const(ident.E, "TMath::E()"),
		backend.Const(ident.PI, "TMath::Pi()"),
		backend.Const(ident.INVPI, "TMath::InvPi()"),
		backend.Const(ident.PIOVER2, "TMath::PiOver2()"),
		backend.Const(ident.PIOVER4, "TMath::PiOver4()"),
		backend.Const(ident.TAU, "TMath::TwoPi()"),
		backend.Const(ident.LN10, "TMath::Ln10()"),
		backend.Const(ident.LOG10E, "TMath::LogE()"),
	).
	MustBuild()
