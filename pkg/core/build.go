package core

import (
	"math"

	"github.com/leapstack-labs/formulate/pkg/ident"
)

// Lift converts a Go value into an expression node.
//
// An Expr is returned unchanged. Integers and floats become literal constants,
// negative numbers (and -0) become Neg(literal) so that parsing the rendered text gives
// back the same tree. Booleans become the TRUE and FALSE constants. Anything
// else, including NaN and infinities, panics with *LiftError.
func Lift(v any) Expr {
	switch x := v.(type) {
	case Expr:
		return x
	case bool:
		if x {
			return Named(ident.TRUE)
		}
		return Named(ident.FALSE)
	case int:
		return liftFloat(float64(x))
	case int8:
		return liftFloat(float64(x))
	case int16:
		return liftFloat(float64(x))
	case int32:
		return liftFloat(float64(x))
	case int64:
		return liftFloat(float64(x))
	case uint:
		return liftFloat(float64(x))
	case uint8:
		return liftFloat(float64(x))
	case uint16:
		return liftFloat(float64(x))
	case uint32:
		return liftFloat(float64(x))
	case uint64:
		return liftFloat(float64(x))
	case float32:
		return liftFloat(float64(x))
	case float64:
		return liftFloat(x)
	default:
		panic(&LiftError{Value: v})
	}
}

func liftFloat(v float64) Expr {
	if math.Signbit(v) {
		return MustNew(ident.MINUS, Num(-v))
	}
	return Num(v)
}

func lift(args []any) []Expr {
	out := make([]Expr, len(args))
	for i, a := range args {
		out[i] = Lift(a)
	}
	return out
}

// Apply builds an expression for any operator or function identifier,
// including ones added with ident.Register. It panics on a wrong argument count.
func Apply(id ident.ID, args ...any) *Expression {
	return MustNew(id, lift(args)...)
}

// Binary operators

func Add(a, b any) *Expression    { return Apply(ident.ADD, a, b) }
func Sub(a, b any) *Expression    { return Apply(ident.SUB, a, b) }
func Mul(a, b any) *Expression    { return Apply(ident.MUL, a, b) }
func Div(a, b any) *Expression    { return Apply(ident.DIV, a, b) }
func Mod(a, b any) *Expression    { return Apply(ident.MOD, a, b) }
func Pow(a, b any) *Expression    { return Apply(ident.POW, a, b) }
func Eq(a, b any) *Expression     { return Apply(ident.EQ, a, b) }
func Neq(a, b any) *Expression    { return Apply(ident.NEQ, a, b) }
func Gt(a, b any) *Expression     { return Apply(ident.GT, a, b) }
func GtEq(a, b any) *Expression   { return Apply(ident.GTEQ, a, b) }
func Lt(a, b any) *Expression     { return Apply(ident.LT, a, b) }
func LtEq(a, b any) *Expression   { return Apply(ident.LTEQ, a, b) }
func And(a, b any) *Expression    { return Apply(ident.AND, a, b) }
func Or(a, b any) *Expression     { return Apply(ident.OR, a, b) }
func Xor(a, b any) *Expression    { return Apply(ident.XOR, a, b) }
func LShift(a, b any) *Expression { return Apply(ident.LSHIFT, a, b) }
func RShift(a, b any) *Expression { return Apply(ident.RSHIFT, a, b) }

// Unary operators

// Neg builds arithmetic negation (MINUS).
func Neg(a any) *Expression { return Apply(ident.MINUS, a) }

// Pos builds unary plus (PLUS).
func Pos(a any) *Expression { return Apply(ident.PLUS, a) }

// Not builds logical negation.
func Not(a any) *Expression { return Apply(ident.NOT, a) }

// Functions

func Sqrt(a any) *Expression  { return Apply(ident.SQRT, a) }
func Abs(a any) *Expression   { return Apply(ident.ABS, a) }
func Log(a any) *Expression   { return Apply(ident.LOG, a) }
func Log10(a any) *Expression { return Apply(ident.LOG10, a) }
func Log1p(a any) *Expression { return Apply(ident.LOG1P, a) }
func Exp(a any) *Expression   { return Apply(ident.EXP, a) }
func Expm1(a any) *Expression { return Apply(ident.EXPM1, a) }

func Sin(a any) *Expression     { return Apply(ident.SIN, a) }
func Arcsin(a any) *Expression  { return Apply(ident.ASIN, a) }
func Cos(a any) *Expression     { return Apply(ident.COS, a) }
func Arccos(a any) *Expression  { return Apply(ident.ACOS, a) }
func Tan(a any) *Expression     { return Apply(ident.TAN, a) }
func Arctan(a any) *Expression  { return Apply(ident.ATAN, a) }
func Sinh(a any) *Expression    { return Apply(ident.SINH, a) }
func Arcsinh(a any) *Expression { return Apply(ident.ASINH, a) }
func Cosh(a any) *Expression    { return Apply(ident.COSH, a) }
func Arccosh(a any) *Expression { return Apply(ident.ACOSH, a) }
func Tanh(a any) *Expression    { return Apply(ident.TANH, a) }
func Arctanh(a any) *Expression { return Apply(ident.ATANH, a) }

// Arctan2 builds the two-argument arctangent of y/x.
func Arctan2(y, x any) *Expression { return Apply(ident.ATAN2, y, x) }

// Where selects a where cond is true and b otherwise.
func Where(cond, a, b any) *Expression { return Apply(ident.WHERE, cond, a, b) }
