package core

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/formulate/pkg/ident"
	"github.com/leapstack-labs/formulate/pkg/token"
)

func TestNewArity(t *testing.T) {
	a, b, c := Var("a"), Var("b"), Var("c")

	t.Run("where with two children", func(t *testing.T) {
		_, err := New(ident.WHERE, a, b)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrArity))

		var arityErr *ArityError
		require.True(t, errors.As(err, &arityErr))
		assert.Equal(t, ident.WHERE, arityErr.ID)
		assert.Equal(t, 3, arityErr.Want)
		assert.Equal(t, 2, arityErr.Got)
		assert.Equal(t, "arity", arityErr.Kind())
	})

	t.Run("where with three children", func(t *testing.T) {
		e, err := New(ident.WHERE, a, b, c)
		require.NoError(t, err)
		assert.Equal(t, 3, e.NumArgs())
	})

	t.Run("constant identifier", func(t *testing.T) {
		_, err := New(ident.PI)
		assert.ErrorIs(t, err, ErrUnknownIdentifier)
	})

	t.Run("unregistered identifier", func(t *testing.T) {
		_, err := New(ident.ID(54321), a)
		assert.ErrorIs(t, err, ErrUnknownIdentifier)
	})

	t.Run("nil child", func(t *testing.T) {
		_, err := New(ident.SQRT, nil)
		assert.ErrorIs(t, err, ErrArity)
	})
}

func TestNewAtKeepsPosition(t *testing.T) {
	pos := token.Position{Line: 1, Column: 5, Offset: 4}
	_, err := NewAt(pos, ident.ATAN2, Var("y"))
	var arityErr *ArityError
	require.ErrorAs(t, err, &arityErr)
	assert.Equal(t, pos, arityErr.Pos())
	assert.Contains(t, err.Error(), "line 1, column 5")
}

func TestMustNewPanics(t *testing.T) {
	assert.Panics(t, func() { MustNew(ident.ADD, Var("a")) })
	assert.NotPanics(t, func() { MustNew(ident.ADD, Var("a"), Var("b")) })
}

func TestChildrenAreCopied(t *testing.T) {
	args := []Expr{Var("a"), Var("b")}
	e := MustNew(ident.ADD, args...)
	args[0] = Var("z")

	assert.Equal(t, "a", e.Arg(0).(*Variable).Name())

	got := e.Args()
	got[1] = Var("z")
	assert.Equal(t, "b", e.Arg(1).(*Variable).Name())
}

func TestString(t *testing.T) {
	tests := []struct {
		name string
		expr Expr
		want string
	}{
		{"variable", Var("x"), "Variable(x)"},
		{"literal", Num(3), "Constant(3)"},
		{"fraction", Num(0.5), "Constant(0.5)"},
		{"named", Named(ident.PI), "Constant<PI>"},
		{"expression", Add(Var("a"), 3), "Expression<ADD>(Variable(a), Constant(3))"},
		{"nested", Sqrt(Neg(Var("x"))), "Expression<SQRT>(Expression<MINUS>(Variable(x)))"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.expr.String())
		})
	}
}

func TestConstantValue(t *testing.T) {
	v, ok := Num(2.5).Value()
	require.True(t, ok)
	assert.Equal(t, 2.5, v)

	v, ok = Named(ident.PI).Value()
	require.True(t, ok)
	assert.Equal(t, math.Pi, v)

	_, ok = Named(ident.TRUE).Value()
	assert.False(t, ok, "booleans have no numeric value")
}

func TestNamedRejectsNonConstant(t *testing.T) {
	_, err := NamedAt(token.Position{}, ident.ADD)
	assert.ErrorIs(t, err, ErrUnknownIdentifier)
	assert.Panics(t, func() { Named(ident.SQRT) })
}

func TestNumRejects(t *testing.T) {
	tests := []struct {
		name string
		v    float64
	}{
		{"nan", math.NaN()},
		{"positive infinity", math.Inf(1)},
		{"negative infinity", math.Inf(-1)},
		{"negative", -2},
		{"negative zero", math.Copysign(0, -1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				r := recover()
				require.NotNil(t, r)
				_, ok := r.(*LiftError)
				assert.True(t, ok, "panic value %T", r)
			}()
			Num(tt.v)
		})
	}
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "3", FormatNumber(3))
	assert.Equal(t, "0.1", FormatNumber(0.1))
	assert.Equal(t, "3.141592653589793", FormatNumber(math.Pi))
	assert.Equal(t, "1e+21", FormatNumber(1e21))
}
