package core

import (
	"github.com/leapstack-labs/formulate/pkg/ident"
)

// Equal reports whether two trees are structurally identical. Positions are
// ignored. Literal constants compare by value, named constants by identifier.
func Equal(a, b Expr) bool {
	switch x := a.(type) {
	case *Expression:
		y, ok := b.(*Expression)
		if !ok || x.id != y.id || len(x.args) != len(y.args) {
			return false
		}
		for i := range x.args {
			if !Equal(x.args[i], y.args[i]) {
				return false
			}
		}
		return true
	case *Variable:
		y, ok := b.(*Variable)
		return ok && x.name == y.name
	case *Constant:
		y, ok := b.(*Constant)
		if !ok || x.id != y.id {
			return false
		}
		return x.IsNamed() || x.value == y.value
	default:
		return a == nil && b == nil
	}
}

// Walk visits expr and its descendants in pre-order. If fn returns false the
// children of that node are skipped.
func Walk(expr Expr, fn func(Expr) bool) {
	if expr == nil || !fn(expr) {
		return
	}
	if e, ok := expr.(*Expression); ok {
		for _, a := range e.args {
			Walk(a, fn)
		}
	}
}

// Identifiers returns the set of operator, function and named-constant
// identifiers used in expr.
func Identifiers(expr Expr) map[ident.ID]struct{} {
	ids := make(map[ident.ID]struct{})
	Walk(expr, func(n Expr) bool {
		switch x := n.(type) {
		case *Expression:
			ids[x.id] = struct{}{}
		case *Constant:
			if x.IsNamed() {
				ids[x.id] = struct{}{}
			}
		}
		return true
	})
	return ids
}

// Variables returns the distinct variable names in expr, in order of first use.
func Variables(expr Expr) []string {
	var names []string
	seen := make(map[string]bool)
	Walk(expr, func(n Expr) bool {
		if v, ok := n.(*Variable); ok && !seen[v.name] {
			seen[v.name] = true
			names = append(names, v.name)
		}
		return true
	})
	return names
}
