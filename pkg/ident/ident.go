// Package ident defines the backend-independent identifiers of formulate.
//
// Built-in identifiers are constants (IDs 0-999) so they can be used in switches
// and as map keys. Extension identifiers are registered dynamically via Register().
package ident

import (
	"fmt"
	"math"
	"strings"
)

// ID names one operator, function, or constant meaning. It never changes
// across backends.
type ID int32

// Class is the lexical role an identifier plays in the canonical vocabulary.
type Class int

const (
	// ClassOperator is an arithmetic, comparison, or logical operator.
	ClassOperator Class = iota
	// ClassFunction is a named function called with an argument list.
	ClassFunction
	// ClassConstant is a named value with no children.
	ClassConstant
)

// String returns the string representation of Class.
func (c Class) String() string {
	switch c {
	case ClassOperator:
		return "operator"
	case ClassFunction:
		return "function"
	case ClassConstant:
		return "constant"
	default:
		return "unknown"
	}
}

//nolint:revive // ALL_CAPS names mirror the canonical identifier names
const (
	Invalid ID = iota

	// Unary operators
	MINUS
	PLUS
	NOT

	// Binary operators
	ADD
	SUB
	MUL
	DIV
	MOD
	POW
	EQ
	NEQ
	GT
	GTEQ
	LT
	LTEQ
	AND
	OR
	XOR
	LSHIFT
	RSHIFT

	// Functions
	SQRT
	ABS
	WHERE
	LOG
	LOG10
	LOG1P
	EXP
	EXPM1
	SIN
	ASIN
	COS
	ACOS
	TAN
	ATAN
	ATAN2
	SINH
	ASINH
	COSH
	ACOSH
	TANH
	ATANH

	// Constants
	TRUE
	FALSE
	SQRT2
	E
	PI
	INVPI
	PIOVER2
	PIOVER4
	TAU
	LN10
	LOG10E

	// Sentinel - dynamic identifiers start after this
	maxBuiltin ID = 999
)

// Definition describes an identifier's canonical shape.
type Definition struct {
	Name  string
	Class Class
	Arity int // 0 for constants
	// Value is the canonical value of a constant: float64 or bool.
	Value any
}

func op(name string, arity int) Definition { return Definition{Name: name, Class: ClassOperator, Arity: arity} }
func fn(name string, arity int) Definition { return Definition{Name: name, Class: ClassFunction, Arity: arity} }
func constant(name string, v any) Definition { return Definition{Name: name, Class: ClassConstant, Value: v} }

var builtins = map[ID]Definition{
	MINUS: op("MINUS", 1),
	PLUS:  op("PLUS", 1),
	NOT:   op("NOT", 1),

	ADD:    op("ADD", 2),
	SUB:    op("SUB", 2),
	MUL:    op("MUL", 2),
	DIV:    op("DIV", 2),
	MOD:    op("MOD", 2),
	POW:    op("POW", 2),
	EQ:     op("EQ", 2),
	NEQ:    op("NEQ", 2),
	GT:     op("GT", 2),
	GTEQ:   op("GTEQ", 2),
	LT:     op("LT", 2),
	LTEQ:   op("LTEQ", 2),
	AND:    op("AND", 2),
	OR:     op("OR", 2),
	XOR:    op("XOR", 2),
	LSHIFT: op("LSHIFT", 2),
	RSHIFT: op("RSHIFT", 2),

	SQRT:  fn("SQRT", 1),
	ABS:   fn("ABS", 1),
	WHERE: fn("WHERE", 3),
	LOG:   fn("LOG", 1),
	LOG10: fn("LOG10", 1),
	LOG1P: fn("LOG1P", 1),
	EXP:   fn("EXP", 1),
	EXPM1: fn("EXPM1", 1),
	SIN:   fn("SIN", 1),
	ASIN:  fn("ASIN", 1),
	COS:   fn("COS", 1),
	ACOS:  fn("ACOS", 1),
	TAN:   fn("TAN", 1),
	ATAN:  fn("ATAN", 1),
	ATAN2: fn("ATAN2", 2),
	SINH:  fn("SINH", 1),
	ASINH: fn("ASINH", 1),
	COSH:  fn("COSH", 1),
	ACOSH: fn("ACOSH", 1),
	TANH:  fn("TANH", 1),
	ATANH: fn("ATANH", 1),

	TRUE:    constant("TRUE", true),
	FALSE:   constant("FALSE", false),
	SQRT2:   constant("SQRT2", math.Sqrt2),
	E:       constant("E", math.E),
	PI:      constant("PI", math.Pi),
	INVPI:   constant("INVPI", 1/math.Pi),
	PIOVER2: constant("PIOVER2", math.Pi/2),
	PIOVER4: constant("PIOVER4", math.Pi/4),
	TAU:     constant("TAU", 2*math.Pi),
	LN10:    constant("LN10", math.Ln10),
	LOG10E:  constant("LOG10E", math.Log10E),
}

// builtinNames maps upper-case names to built-in identifiers.
var builtinNames = func() map[string]ID {
	m := make(map[string]ID, len(builtins))
	for id, def := range builtins {
		m[def.Name] = id
	}
	return m
}()

// String returns the canonical name of the identifier.
func (id ID) String() string {
	if def, ok := Info(id); ok {
		return def.Name
	}
	return fmt.Sprintf("IDENT(%d)", id)
}

// Info returns the definition of an identifier.
func Info(id ID) (Definition, bool) {
	if def, ok := builtins[id]; ok {
		return def, true
	}
	return dynamicInfo(id)
}

// Lookup returns the identifier with the given canonical name.
// Names are matched case-insensitively ("ADD", "add").
func Lookup(name string) (ID, bool) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	if id, ok := builtinNames[upper]; ok {
		return id, true
	}
	return lookupDynamic(upper)
}

// IsBuiltin returns true if the identifier is one of the built-in constants.
func IsBuiltin(id ID) bool {
	_, ok := builtins[id]
	return ok
}

// Builtins returns all built-in identifiers in declaration order.
func Builtins() []ID {
	ids := make([]ID, 0, len(builtins))
	for id := MINUS; id <= LOG10E; id++ {
		ids = append(ids, id)
	}
	return ids
}
