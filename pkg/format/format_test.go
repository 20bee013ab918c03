package format

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/formulate/pkg/backend"
	"github.com/leapstack-labs/formulate/pkg/backends/numexpr"
	"github.com/leapstack-labs/formulate/pkg/backends/root"
	"github.com/leapstack-labs/formulate/pkg/core"
	"github.com/leapstack-labs/formulate/pkg/ident"
	"github.com/leapstack-labs/formulate/pkg/parser"
)

// python is a keyword-operator backend with a right-associative power.
var python = backend.New("python").
	Operators(
		backend.UnaryOperators,
		backend.ArithmeticOperators,
		backend.ComparisonOperators,
		[]backend.OperatorDef{
			backend.Op(ident.POW, "**", backend.PrecedencePower, backend.AssocRight),
			backend.Op(ident.OR, "or", backend.PrecedenceOr, backend.AssocLeft),
			backend.Op(ident.AND, "and", backend.PrecedenceXor, backend.AssocLeft),
			backend.Unary(ident.NOT, "not", backend.PrecedenceAnd),
		},
	).
	Functions(backend.Fn(ident.SQRT, "sqrt")).
	Constants(backend.Const(ident.PI, "pi")).
	MustBuild()

var (
	a = core.Var("a")
	b = core.Var("b")
	c = core.Var("c")
	x = core.Var("x")
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name    string
		backend *backend.Backend
		expr    core.Expr
		want    string
	}{
		// Precedence
		{"lower precedence child", numexpr.Numexpr, core.Mul(core.Add(a, b), c), "(a + b) * c"},
		{"higher precedence child", numexpr.Numexpr, core.Add(a, core.Mul(b, c)), "a + b * c"},
		{"left associative left child", numexpr.Numexpr, core.Sub(core.Sub(a, b), c), "a - b - c"},
		{"left associative right child", numexpr.Numexpr, core.Sub(a, core.Sub(b, c)), "a - (b - c)"},
		{"mixed equal precedence", numexpr.Numexpr, core.Div(a, core.Mul(b, c)), "a / (b * c)"},
		{"non associative left", numexpr.Numexpr, core.Eq(core.Lt(a, b), c), "(a < b) == c"},
		{"non associative right", numexpr.Numexpr, core.Eq(a, core.Lt(b, c)), "a == (b < c)"},
		{"end to end", numexpr.Numexpr, core.And(core.GtEq(a, b), core.Neq(c, 3)), "a >= b & c != 3"},

		// Right associativity
		{"right associative right child", python, core.Pow(a, core.Pow(b, c)), "a ** b ** c"},
		{"right associative left child", python, core.Pow(core.Pow(a, b), c), "(a ** b) ** c"},

		// Prefix operators
		{"unary then binary", numexpr.Numexpr, core.Add(core.Neg(a), b), "-a + b"},
		{"unary of sum", numexpr.Numexpr, core.Neg(core.Add(a, b)), "-(a + b)"},
		{"double negation", numexpr.Numexpr, core.Neg(core.Neg(a)), "- -a"},
		{"negated right operand", numexpr.Numexpr, core.Mul(a, core.Neg(b)), "a * -b"},
		{"tilde", numexpr.Numexpr, core.Not(core.Or(a, b)), "~(a | b)"},
		{"keyword prefix", python, core.And(core.Not(a), b), "not a and b"},
		{"keyword prefix over comparison", python, core.Not(core.Eq(a, b)), "not a == b"},
		{"low precedence prefix as left operand", python, core.Eq(core.Not(a), b), "(not a) == b"},
		{"low precedence prefix as right operand", python, core.Add(a, core.Not(b)), "a + (not b)"},
		{"unary under power", python, core.Pow(core.Neg(a), 2), "(-a) ** 2"},
		{"power under unary", python, core.Neg(core.Pow(a, 2)), "-a ** 2"},

		// Functions
		{"function arguments never wrapped", numexpr.Numexpr, core.Where(core.Gt(a, 0), core.Add(a, 1), core.Neg(a)), "where(a > 0, a + 1, -a)"},
		{"function as operand", numexpr.Numexpr, core.Mul(core.Sqrt(core.Add(a, b)), 2), "sqrt(a + b) * 2"},
		{"power as function", root.ROOT, core.Pow(core.Add(x, 1), 2), "TMath::Power(x + 1, 2)"},

		// Constants
		{"spelled constant", root.ROOT, core.Mul(2, core.Named(ident.PI)), "2 * TMath::Pi()"},
		{"constant as value", numexpr.Numexpr, core.Named(ident.PI), "3.141592653589793"},
		{"constant fallback", python, core.Named(ident.E), "2.718281828459045"},
		{"boolean", numexpr.Numexpr, core.Or(true, false), "true | false"},
		{"literal", numexpr.Numexpr, core.Num(0.25), "0.25"},
		{"large literal", numexpr.Numexpr, core.Num(1e21), "1e+21"},
		{"lifted negative", numexpr.Numexpr, core.Sub(a, -2), "a - -2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Format(tt.expr, tt.backend)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat_Unsupported(t *testing.T) {
	tests := []struct {
		name string
		expr core.Expr
		id   ident.ID
	}{
		{"function", core.Where(a, b, c), ident.WHERE},
		{"operator", core.Xor(a, b), ident.XOR},
		{"nested", core.Add(a, core.Log1p(b)), ident.LOG1P},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Format(tt.expr, root.ROOT)
			require.Error(t, err)
			assert.Empty(t, got)
			assert.ErrorIs(t, err, core.ErrUnsupported)

			var unsupported *core.UnsupportedIdentifierError
			require.ErrorAs(t, err, &unsupported)
			assert.Equal(t, tt.id, unsupported.ID)
			assert.Equal(t, root.Name, unsupported.Backend)
		})
	}

	_, err := Format(core.Named(ident.TRUE), python)
	assert.ErrorIs(t, err, core.ErrUnsupported, "booleans have no value fallback")
}

func TestFormat_Nil(t *testing.T) {
	_, err := Format(nil, numexpr.Numexpr)
	assert.ErrorIs(t, err, ErrNilExpr)

	_, err = Format(a, nil)
	assert.ErrorIs(t, err, backend.ErrBackendRequired)
}

func TestMustFormat(t *testing.T) {
	assert.Equal(t, "a + 1", MustFormat(core.Add(a, 1), numexpr.Numexpr))
	assert.Panics(t, func() { MustFormat(core.Where(a, b, c), root.ROOT) })
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		backend *backend.Backend
		input   string
	}{
		{numexpr.Numexpr, "a >= b & c != 3"},
		{numexpr.Numexpr, "(a + b) * c"},
		{numexpr.Numexpr, "a - (b - c)"},
		{numexpr.Numexpr, "-a + b"},
		{numexpr.Numexpr, "- -a"},
		{numexpr.Numexpr, "~(a | b) ^ c"},
		{numexpr.Numexpr, "where(x > 0, sqrt(x), arctan2(x, 2.5e-3))"},
		{numexpr.Numexpr, "3.141592653589793 * r * r % 7"},
		{python, "a ** b ** c"},
		{python, "(a ** b) ** c"},
		{python, "not a == b and (not c) == d or e"},
		{python, "-a ** -b"},
		{root.ROOT, "TMath::Power(x, 2) + TMath::Sqrt2() * y"},
		{root.ROOT, "!(a && b) || c << 1"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			first, err := parser.Parse(tt.input, tt.backend)
			require.NoError(t, err)
			text, err := Format(first, tt.backend)
			require.NoError(t, err)

			second, err := parser.Parse(text, tt.backend)
			require.NoError(t, err, text)
			assert.True(t, core.Equal(first, second), "%q rendered as %q", tt.input, text)

			again, err := Format(second, tt.backend)
			require.NoError(t, err)
			assert.Equal(t, text, again, "formatting is stable")
		})
	}
}

func TestRoundTrip_BuiltTrees(t *testing.T) {
	negZero := math.Copysign(0, -1)

	tests := []struct {
		name    string
		backend *backend.Backend
		expr    core.Expr
	}{
		{"lifted negative operand", numexpr.Numexpr, core.Sub(a, -2)},
		{"lifted negative zero", numexpr.Numexpr, core.Sub(a, negZero)},
		{"lifted negative at top", numexpr.Numexpr, core.Lift(-2)},
		{"negative argument", numexpr.Numexpr, core.Abs(-2.5)},
		{"negative divisor", numexpr.Numexpr, core.Div(core.Mul(a, -1), core.Add(b, -0.5))},
		{"negative in where", numexpr.Numexpr, core.Where(core.Lt(x, negZero), core.Neg(x), -3)},
		{"negative base", python, core.Pow(-2, core.Pow(a, -1))},
		{"negated power", python, core.Neg(core.Pow(a, 2))},
		{"logic over negatives", python, core.And(core.Not(core.Gt(a, -1)), core.Eq(b, 0))},
		{"negative function argument", root.ROOT, core.Pow(core.Sqrt(core.Sub(x, -4)), -0.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := Format(tt.expr, tt.backend)
			require.NoError(t, err)

			parsed, err := parser.Parse(text, tt.backend)
			require.NoError(t, err, text)
			assert.True(t, core.Equal(tt.expr, parsed), "%s rendered as %q, parsed back as %s", tt.expr, text, parsed)
		})
	}
}

func TestCrossBackend(t *testing.T) {
	tests := []struct {
		numexpr string
		root    string
	}{
		{"sqrt(x) + 3.141592653589793", "TMath::Sqrt(x) + TMath::Pi()"},
		{"arctan2(y, x) * 2", "TMath::ATan2(y, x) * 2"},
		{"(a > 1) & (b <= 2) | true", "a > 1 && b <= 2 || true"},
		{"-abs(a - b)", "-TMath::Abs(a - b)"},
	}

	for _, tt := range tests {
		t.Run(tt.numexpr, func(t *testing.T) {
			fromNumexpr, err := parser.Parse(tt.numexpr, numexpr.Numexpr)
			require.NoError(t, err)
			fromRoot, err := parser.Parse(tt.root, root.ROOT)
			require.NoError(t, err)
			assert.True(t, core.Equal(fromNumexpr, fromRoot))

			got, err := Format(fromNumexpr, root.ROOT)
			require.NoError(t, err)
			assert.Equal(t, tt.root, got)
		})
	}
}
