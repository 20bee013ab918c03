package core

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leapstack-labs/formulate/pkg/ident"
	"github.com/leapstack-labs/formulate/pkg/token"
)

func TestEqual(t *testing.T) {
	a, b := Var("a"), Var("b")

	tests := []struct {
		name string
		x, y Expr
		want bool
	}{
		{"same variable", Var("a"), Var("a"), true},
		{"different variable", a, b, false},
		{"same literal", Num(1), Num(1), true},
		{"different literal", Num(1), Num(2), false},
		{"named vs literal with same value", Named(ident.PI), Num(3.141592653589793), false},
		{"same named", Named(ident.E), Named(ident.E), true},
		{"same tree", Mul(Add(a, b), 2), Mul(Add(Var("a"), Var("b")), 2), true},
		{"different operator", Add(a, b), Sub(a, b), false},
		{"swapped children", Sub(a, b), Sub(b, a), false},
		{"variable vs constant", a, Num(1), false},
		{"both nil", nil, nil, true},
		{"nil vs node", nil, a, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.x, tt.y))
		})
	}
}

func TestEqualIgnoresPosition(t *testing.T) {
	p := token.Position{Line: 1, Column: 3, Offset: 2}
	assert.True(t, Equal(VarAt(p, "x"), Var("x")))
	assert.True(t, Equal(NumAt(p, 4), Num(4)))
}

func TestWalk(t *testing.T) {
	expr := Add(Mul(Var("a"), 2), Sqrt(Var("b")))

	var visited []string
	Walk(expr, func(n Expr) bool {
		visited = append(visited, n.String())
		return true
	})
	assert.Len(t, visited, 6)
	assert.Equal(t, expr.String(), visited[0])

	var top int
	Walk(expr, func(n Expr) bool {
		top++
		return false
	})
	assert.Equal(t, 1, top, "returning false skips children")
}

func TestIdentifiersAndVariables(t *testing.T) {
	expr := Where(Gt(Var("x"), Named(ident.PI)), Sqrt(Var("x")), Var("y"))

	ids := Identifiers(expr)
	got := make([]int, 0, len(ids))
	for id := range ids {
		got = append(got, int(id))
	}
	sort.Ints(got)
	want := []int{int(ident.GT), int(ident.SQRT), int(ident.WHERE), int(ident.PI)}
	sort.Ints(want)
	assert.Equal(t, want, got)

	assert.Equal(t, []string{"x", "y"}, Variables(expr))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, "arity", KindOf(&ArityError{ID: ident.ADD}))
	assert.Equal(t, "unsupported", KindOf(&UnsupportedIdentifierError{ID: ident.WHERE, Backend: "root"}))
	assert.Equal(t, "unknown_identifier", KindOf(&UnknownIdentifierError{ID: 1234}))
	assert.Equal(t, "internal", KindOf(assert.AnError))
}
