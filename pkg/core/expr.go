package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/leapstack-labs/formulate/pkg/ident"
	"github.com/leapstack-labs/formulate/pkg/token"
)

// Node is the base interface for all AST nodes.
type Node interface {
	// Pos returns the position of the first character of the node in the text
	// it was parsed from. Nodes built programmatically report the zero Position.
	Pos() token.Position
}

// Expr is the sealed union of expression nodes: *Expression, *Variable and
// *Constant. Consumers dispatch on it with a type switch.
type Expr interface {
	Node
	fmt.Stringer
	exprNode() // Marker method to distinguish expressions
}

// ---------- Expression Types ----------

// Expression applies an operator or function identifier to ordered children.
// Whether it renders as an operator or a function call is decided by the
// backend it is formatted with.
type Expression struct {
	id   ident.ID
	args []Expr
	pos  token.Position
}

func (*Expression) exprNode() {}

// Pos implements Node.
func (e *Expression) Pos() token.Position { return e.pos }

// ID returns the identifier of the operation.
func (e *Expression) ID() ident.ID { return e.id }

// Args returns a copy of the children.
func (e *Expression) Args() []Expr {
	out := make([]Expr, len(e.args))
	copy(out, e.args)
	return out
}

// NumArgs returns the number of children.
func (e *Expression) NumArgs() int { return len(e.args) }

// Arg returns the i-th child.
func (e *Expression) Arg(i int) Expr { return e.args[i] }

// String returns a debug representation, e.g. Expression<ADD>(Variable(a), Constant(1)).
func (e *Expression) String() string {
	parts := make([]string, len(e.args))
	for i, a := range e.args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("Expression<%s>(%s)", e.id, strings.Join(parts, ", "))
}

// Variable is an unbound symbol carried through translation unchanged.
type Variable struct {
	name string
	pos  token.Position
}

func (*Variable) exprNode() {}

// Pos implements Node.
func (v *Variable) Pos() token.Position { return v.pos }

// Name returns the variable name.
func (v *Variable) Name() string { return v.name }

// String returns a debug representation, e.g. Variable(x).
func (v *Variable) String() string { return "Variable(" + v.name + ")" }

// Constant is either a named constant (PI, TRUE) resolved to a spelling at
// format time, or an inline numeric literal.
type Constant struct {
	id    ident.ID // ident.Invalid for literals
	value float64
	pos   token.Position
}

func (*Constant) exprNode() {}

// Pos implements Node.
func (c *Constant) Pos() token.Position { return c.pos }

// ID returns the constant identifier, or ident.Invalid for a literal.
func (c *Constant) ID() ident.ID { return c.id }

// IsNamed returns true if the constant refers to a named identifier.
func (c *Constant) IsNamed() bool { return c.id != ident.Invalid }

// Value returns the literal value. For named constants it returns the
// canonical registry value when that value is numeric.
func (c *Constant) Value() (float64, bool) {
	if !c.IsNamed() {
		return c.value, true
	}
	def, ok := ident.Info(c.id)
	if !ok {
		return 0, false
	}
	v, ok := def.Value.(float64)
	return v, ok
}

// String returns a debug representation, e.g. Constant(3) or Constant<PI>.
func (c *Constant) String() string {
	if c.IsNamed() {
		return "Constant<" + c.id.String() + ">"
	}
	return "Constant(" + FormatNumber(c.value) + ")"
}

// FormatNumber renders a float as the shortest decimal text that parses back
// to the same value.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// ---------- Constructors ----------

// New builds an Expression after validating the identifier and child count.
func New(id ident.ID, args ...Expr) (*Expression, error) {
	return newAt(token.Position{}, id, args)
}

// NewAt is like New but records the source position of the node.
// The parser uses it so that later errors can point back into the input.
func NewAt(pos token.Position, id ident.ID, args ...Expr) (*Expression, error) {
	return newAt(pos, id, args)
}

func newAt(pos token.Position, id ident.ID, args []Expr) (*Expression, error) {
	def, ok := ident.Info(id)
	if !ok || def.Class == ident.ClassConstant {
		return nil, &UnknownIdentifierError{ID: id}
	}
	if len(args) != def.Arity {
		return nil, &ArityError{ID: id, Want: def.Arity, Got: len(args), Position: pos}
	}
	for i, a := range args {
		if a == nil {
			return nil, fmt.Errorf("%s: argument %d is nil: %w", id, i, ErrArity)
		}
	}
	cp := make([]Expr, len(args))
	copy(cp, args)
	return &Expression{id: id, args: cp, pos: pos}, nil
}

// MustNew is like New but panics on error. Builders use it, so an arity
// mismatch during construction is fatal.
func MustNew(id ident.ID, args ...Expr) *Expression {
	e, err := New(id, args...)
	if err != nil {
		panic(err)
	}
	return e
}

// Var creates a variable leaf.
func Var(name string) *Variable {
	return &Variable{name: name}
}

// VarAt creates a variable leaf with a source position.
func VarAt(pos token.Position, name string) *Variable {
	return &Variable{name: name, pos: pos}
}

// Num creates a literal constant. Literals are non-negative: a negative
// number is a MINUS expression over its magnitude, which is what Lift builds
// and what the parser produces for "-2". Values with the sign bit set
// (including -0) and non-finite values panic with a *LiftError.
func Num(v float64) *Constant {
	if math.IsNaN(v) || math.IsInf(v, 0) || math.Signbit(v) {
		panic(&LiftError{Value: v})
	}
	return &Constant{value: v}
}

// NumAt creates a literal constant with a source position.
func NumAt(pos token.Position, v float64) *Constant {
	c := Num(v)
	c.pos = pos
	return c
}

// Named creates a reference to a named constant such as ident.PI.
// It panics with *UnknownIdentifierError if id is not a constant.
func Named(id ident.ID) *Constant {
	c, err := NamedAt(token.Position{}, id)
	if err != nil {
		panic(err)
	}
	return c
}

// NamedAt creates a named constant with a source position.
func NamedAt(pos token.Position, id ident.ID) (*Constant, error) {
	def, ok := ident.Info(id)
	if !ok || def.Class != ident.ClassConstant {
		return nil, &UnknownIdentifierError{ID: id}
	}
	return &Constant{id: id, pos: pos}, nil
}
