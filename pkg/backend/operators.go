package backend

// This file contains operator definitions that form the "toolbox" of
// reusable operator configurations. These can be composed into any backend.

import (
	"github.com/leapstack-labs/formulate/pkg/ident"
)

// ArithmeticOperators contains the C-family arithmetic operators.
var ArithmeticOperators = []OperatorDef{
	Op(ident.ADD, "+", PrecedenceAddition, AssocLeft),
	Op(ident.SUB, "-", PrecedenceAddition, AssocLeft),
	Op(ident.MUL, "*", PrecedenceMultiply, AssocLeft),
	Op(ident.DIV, "/", PrecedenceMultiply, AssocLeft),
	Op(ident.MOD, "%", PrecedenceMultiply, AssocLeft),
}

// ComparisonOperators contains the C-family comparison operators.
// Comparisons do not chain.
var ComparisonOperators = []OperatorDef{
	Op(ident.EQ, "==", PrecedenceComparison, AssocNone),
	Op(ident.NEQ, "!=", PrecedenceComparison, AssocNone),
	Op(ident.GT, ">", PrecedenceComparison, AssocNone),
	Op(ident.GTEQ, ">=", PrecedenceComparison, AssocNone),
	Op(ident.LT, "<", PrecedenceComparison, AssocNone),
	Op(ident.LTEQ, "<=", PrecedenceComparison, AssocNone),
}

// BitwiseOperators contains single-character logical operators as used by
// array evaluators, plus shifts.
var BitwiseOperators = []OperatorDef{
	Op(ident.AND, "&", PrecedenceAnd, AssocLeft),
	Op(ident.OR, "|", PrecedenceOr, AssocLeft),
	Op(ident.XOR, "^", PrecedenceXor, AssocLeft),
	Op(ident.LSHIFT, "<<", PrecedenceShift, AssocLeft),
	Op(ident.RSHIFT, ">>", PrecedenceShift, AssocLeft),
}

// LogicalOperators contains the C-family short-circuit operators.
var LogicalOperators = []OperatorDef{
	Op(ident.AND, "&&", PrecedenceAnd, AssocLeft),
	Op(ident.OR, "||", PrecedenceOr, AssocLeft),
	Unary(ident.NOT, "!", PrecedenceUnary),
}

// UnaryOperators contains arithmetic sign operators.
var UnaryOperators = []OperatorDef{
	Unary(ident.MINUS, "-", PrecedenceUnary),
	Unary(ident.PLUS, "+", PrecedenceUnary),
}
