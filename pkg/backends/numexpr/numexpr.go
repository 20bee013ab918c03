// Package numexpr provides the backend for the numexpr array expression
// evaluator.
//
// numexpr has no named constants, so PI and friends are written as their
// float64 values. Parsing such a value back yields the named constant.
package numexpr

import (
	"github.com/leapstack-labs/formulate/pkg/backend"
	"github.com/leapstack-labs/formulate/pkg/ident"
)

// Name is the registry name of the backend.
const Name = "numexpr"

func init() {
	backend.Register(Numexpr)
}

// Numexpr is the numexpr backend.
var Numexpr = backend.New(Name).
	Operators(
		backend.UnaryOperators,
		[]backend.OperatorDef{
			backend.Unary(ident.NOT, "~", backend.PrecedenceUnary),
		},
		backend.ArithmeticOperators,
		backend.ComparisonOperators,
		[]backend.OperatorDef{
			backend.Op(ident.AND, "&", backend.PrecedenceAnd, backend.AssocLeft),
			backend.Op(ident.OR, "|", backend.PrecedenceOr, backend.AssocLeft),
			backend.Op(ident.XOR, "^", backend.PrecedenceXor, backend.AssocLeft),
		},
	).
	Functions(
		backend.Fn(ident.SQRT, "sqrt"),
		backend.Fn(ident.ABS, "abs"),
		backend.FunctionDef{ID: ident.WHERE, Token: "where", Arity: 3},

		backend.Fn(ident.LOG, "log"),
		backend.Fn(ident.LOG10, "log10"),
		backend.Fn(ident.LOG1P, "log1p"),

		backend.Fn(ident.EXP, "exp"),
		backend.Fn(ident.EXPM1, "expm1"),

		backend.Fn(ident.SIN, "sin"),
		backend.Fn(ident.ASIN, "arcsin"),
		backend.Fn(ident.COS, "cos"),
		backend.Fn(ident.ACOS, "arccos"),
		backend.Fn(ident.TAN, "tan"),
		backend.Fn(ident.ATAN, "arctan"),
		backend.FunctionDef{ID: ident.ATAN2, Token: "arctan2", Arity: 2},

		backend.Fn(ident.SINH, "sinh"),
		backend.Fn(ident.ASINH, "arcsinh"),
		backend.Fn(ident.COSH, "cosh"),
		backend.Fn(ident.ACOSH, "arccosh"),
		backend.Fn(ident.TANH, "tanh"),
		backend.Fn(ident.ATANH, "arctanh"),
	).
	Constants(
		backend.Const(ident.TRUE, "true"),
		backend.Const(ident.FALSE, "false"),

		// Written as values
		backend.ConstantDef{ID: ident.SQRT2},
		backend.ConstantDef{ID: ident.E},
		backend.ConstantDef{ID: ident.PI},
		backend.ConstantDef{ID: ident.INVPI},
		backend.ConstantDef{ID: ident.PIOVER2},
		backend.ConstantDef{ID: ident.PIOVER4},
		backend.ConstantDef{ID: ident.TAU},
		backend.ConstantDef{ID: ident.LN10},
		backend.ConstantDef{ID: ident.LOG10E},
	).
	MustBuild()
