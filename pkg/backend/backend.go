// Package backend provides the configuration that drives the parser and the
// serializer for one concrete expression syntax.
//
// A Backend is built once with the fluent Builder (or loaded from YAML) and is
// then immutable and safe to share. Concrete backends are registered from
// pkg/backends/*/ packages.
package backend

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"

	"github.com/leapstack-labs/formulate/pkg/core"
	"github.com/leapstack-labs/formulate/pkg/ident"
)

// Backend is the complete lexical and grammatical configuration of one syntax.
type Backend struct {
	name string
	norm Normalization

	// Lexical classes, keyed by normalized token
	prefix    map[string]*OperatorDef
	infix     map[string]*OperatorDef
	functions map[string]*FunctionDef
	constants map[string]*ConstantDef

	byID    map[ident.ID]Descriptor
	order   []Descriptor // declaration order
	symbols []string     // longest first
}

// Name returns the backend name.
func (b *Backend) Name() string { return b.name }

// Normalization returns how the backend compares token text.
func (b *Backend) Normalization() Normalization { return b.norm }

// String implements fmt.Stringer.
func (b *Backend) String() string { return b.name }

// Normalize maps token text to the form used for lookups.
func (b *Backend) Normalize(text string) string {
	if b.norm == NormCaseInsensitive {
		return cases.Fold().String(text)
	}
	return text
}

// PrefixOperator returns the prefix operator spelled text.
func (b *Backend) PrefixOperator(text string) (*OperatorDef, bool) {
	d, ok := b.prefix[b.Normalize(text)]
	return d, ok
}

// InfixOperator returns the infix operator spelled text.
func (b *Backend) InfixOperator(text string) (*OperatorDef, bool) {
	d, ok := b.infix[b.Normalize(text)]
	return d, ok
}

// Function returns the function spelled text.
func (b *Backend) Function(text string) (*FunctionDef, bool) {
	d, ok := b.functions[b.Normalize(text)]
	return d, ok
}

// Constant returns the constant spelled text.
func (b *Backend) Constant(text string) (*ConstantDef, bool) {
	d, ok := b.constants[b.Normalize(text)]
	return d, ok
}

// LookupByToken returns the first descriptor spelled text, trying prefix
// operators, infix operators, functions and constants in that order.
func (b *Backend) LookupByToken(text string) (Descriptor, bool) {
	if d, ok := b.PrefixOperator(text); ok {
		return d, true
	}
	if d, ok := b.InfixOperator(text); ok {
		return d, true
	}
	if d, ok := b.Function(text); ok {
		return d, true
	}
	if d, ok := b.Constant(text); ok {
		return d, true
	}
	return nil, false
}

// LookupByIdentifier returns the descriptor for id.
func (b *Backend) LookupByIdentifier(id ident.ID) (Descriptor, bool) {
	d, ok := b.byID[id]
	return d, ok
}

// Spelling returns the token text for id.
func (b *Backend) Spelling(id ident.ID) (string, bool) {
	d, ok := b.byID[id]
	if !ok {
		return "", false
	}
	return d.Spelling(), true
}

// Supports returns true if the backend has a descriptor for id.
func (b *Backend) Supports(id ident.ID) bool {
	_, ok := b.byID[id]
	return ok
}

// Symbols returns every distinct token, longest first. The lexer matches them
// in this order.
func (b *Backend) Symbols() []string {
	out := make([]string, len(b.symbols))
	copy(out, b.symbols)
	return out
}

// Descriptors returns all descriptors in declaration order.
func (b *Backend) Descriptors() []Descriptor {
	out := make([]Descriptor, len(b.order))
	copy(out, b.order)
	return out
}

// Operators returns the operator descriptors in declaration order.
func (b *Backend) Operators() []*OperatorDef {
	var out []*OperatorDef
	for _, d := range b.order {
		if op, ok := d.(*OperatorDef); ok {
			out = append(out, op)
		}
	}
	return out
}

// Functions returns the function descriptors in declaration order.
func (b *Backend) Functions() []*FunctionDef {
	var out []*FunctionDef
	for _, d := range b.order {
		if fn, ok := d.(*FunctionDef); ok {
			out = append(out, fn)
		}
	}
	return out
}

// Constants returns the constant descriptors in declaration order.
func (b *Backend) Constants() []*ConstantDef {
	var out []*ConstantDef
	for _, d := range b.order {
		if c, ok := d.(*ConstantDef); ok {
			out = append(out, c)
		}
	}
	return out
}

// ---------- Builder ----------

// Builder provides a fluent API for constructing backends.
type Builder struct {
	name      string
	norm      Normalization
	operators []OperatorDef
	functions []FunctionDef
	constants []ConstantDef
	problems  []string // found before Build, e.g. unknown names in a file
}

// New creates a backend builder with the given name.
func New(name string) *Builder {
	return &Builder{name: name}
}

// Normalization sets how token text is compared.
func (bb *Builder) Normalization(n Normalization) *Builder {
	bb.norm = n
	return bb
}

// Operators adds operator definitions in bulk. Sets from the toolbox
// (ArithmeticOperators, ComparisonOperators, ...) compose here.
func (bb *Builder) Operators(sets ...[]OperatorDef) *Builder {
	for _, set := range sets {
		bb.operators = append(bb.operators, set...)
	}
	return bb
}

// Functions adds function definitions.
func (bb *Builder) Functions(defs ...FunctionDef) *Builder {
	bb.functions = append(bb.functions, defs...)
	return bb
}

// Constants adds constant definitions.
func (bb *Builder) Constants(defs ...ConstantDef) *Builder {
	bb.constants = append(bb.constants, defs...)
	return bb
}

// Build validates the definitions and returns the backend.
// All problems are reported together in one *ConfigError.
func (bb *Builder) Build() (*Backend, error) {
	cfgErr := &ConfigError{Backend: bb.name, Problems: append([]string(nil), bb.problems...)}
	if strings.TrimSpace(bb.name) == "" {
		cfgErr.add("backend name is required")
	}

	b := &Backend{
		name:      bb.name,
		norm:      bb.norm,
		prefix:    make(map[string]*OperatorDef),
		infix:     make(map[string]*OperatorDef),
		functions: make(map[string]*FunctionDef),
		constants: make(map[string]*ConstantDef),
		byID:      make(map[ident.ID]Descriptor),
	}

	for i := range bb.operators {
		op := bb.operators[i]
		def, ok := ident.Info(op.ID)
		switch {
		case !ok:
			cfgErr.add("operator %q: unknown identifier %s", op.Token, op.ID)
			continue
		case def.Class == ident.ClassConstant:
			cfgErr.add("operator %q: %s is a constant", op.Token, op.ID)
			continue
		case def.Arity != op.Fixity.Arity():
			if def.Arity == 1 && op.Fixity == Infix {
				cfgErr.add("operator %q: unary %s declared infix", op.Token, op.ID)
			} else {
				cfgErr.add("operator %q: %s takes %d operand(s) but is declared %s", op.Token, op.ID, def.Arity, op.Fixity)
			}
			continue
		}
		if op.Token == "" {
			cfgErr.add("operator %s: empty token", op.ID)
			continue
		}
		if op.Precedence <= PrecedenceNone {
			cfgErr.add("operator %q: precedence must be positive, got %d", op.Token, op.Precedence)
			continue
		}
		table := b.infix
		if op.Fixity == Prefix {
			table = b.prefix
			op.Assoc = AssocRight
		}
		register(b, cfgErr, table, &op, op.Fixity.String()+" operator")
	}

	for i := range bb.functions {
		fn := bb.functions[i]
		def, ok := ident.Info(fn.ID)
		switch {
		case !ok:
			cfgErr.add("function %q: unknown identifier %s", fn.Token, fn.ID)
			continue
		case def.Class == ident.ClassConstant:
			cfgErr.add("function %q: %s is a constant", fn.Token, fn.ID)
			continue
		case fn.Arity != 0 && fn.Arity != def.Arity:
			cfgErr.add("function %q: %s takes %d argument(s), declared %d", fn.Token, fn.ID, def.Arity, fn.Arity)
			continue
		case fn.Token == "":
			cfgErr.add("function %s: empty token", fn.ID)
			continue
		}
		fn.Arity = def.Arity
		register(b, cfgErr, b.functions, &fn, "function")
	}

	for i := range bb.constants {
		c := bb.constants[i]
		def, ok := ident.Info(c.ID)
		if !ok || def.Class != ident.ClassConstant {
			cfgErr.add("constant %q: %s is not a constant identifier", c.Token, c.ID)
			continue
		}
		v, err := normalizeValue(c.Value, def.Value)
		if err != nil {
			cfgErr.add("constant %s: %v", c.ID, err)
			continue
		}
		c.Value = v
		if c.Token == "" {
			c.Token = ValueText(v)
		}
		if !validConstantStart(c.Token) {
			cfgErr.add("constant %s: spelling %q must start with a letter, digit or underscore", c.ID, c.Token)
			continue
		}
		register(b, cfgErr, b.constants, &c, "constant")
	}

	if cfgErr.HasProblems() {
		return nil, cfgErr
	}

	b.symbols = collectSymbols(b.order)
	return b, nil
}

// MustBuild is like Build but panics on error. Built-in backends use it at
// package initialization.
func (bb *Builder) MustBuild() *Backend {
	b, err := bb.Build()
	if err != nil {
		panic(err)
	}
	return b
}

// register adds d to its lexical class table and to the identifier index.
func register[D Descriptor](b *Backend, cfgErr *ConfigError, table map[string]D, d D, class string) {
	key := b.Normalize(d.Spelling())
	if prev, dup := b.byID[d.Ident()]; dup {
		cfgErr.add("duplicate identifier %s (%q and %q)", d.Ident(), prev.Spelling(), d.Spelling())
		return
	}
	if prev, dup := table[key]; dup {
		cfgErr.add("duplicate %s token %q (%s and %s)", class, d.Spelling(), prev.Ident(), d.Ident())
		return
	}
	table[key] = d
	b.byID[d.Ident()] = d
	b.order = append(b.order, d)
}

// validConstantStart reports whether a constant spelling begins like an
// operand. Spellings such as "-1" would otherwise shadow infix operators in
// the lexer.
func validConstantStart(tok string) bool {
	r, _ := utf8.DecodeRuneInString(tok)
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// normalizeValue checks a declared constant value against the registry value.
func normalizeValue(declared, canonical any) (any, error) {
	if declared == nil {
		return canonical, nil
	}
	switch canonical.(type) {
	case bool:
		v, ok := declared.(bool)
		if !ok {
			return nil, fmt.Errorf("value must be a boolean, got %T", declared)
		}
		return v, nil
	default:
		switch v := declared.(type) {
		case float64:
			return v, nil
		case float32:
			return float64(v), nil
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		default:
			return nil, fmt.Errorf("value must be a number, got %T", declared)
		}
	}
}

func collectSymbols(order []Descriptor) []string {
	seen := make(map[string]bool)
	var out []string
	for _, d := range order {
		s := d.Spelling()
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}

// ---------- Errors ----------

// ConfigError reports an invalid backend definition. It lists every problem
// found, not just the first.
type ConfigError struct {
	Backend  string
	Problems []string
}

func (e *ConfigError) add(format string, args ...any) {
	e.Problems = append(e.Problems, fmt.Sprintf(format, args...))
}

// HasProblems returns true if at least one problem was recorded.
func (e *ConfigError) HasProblems() bool { return len(e.Problems) > 0 }

func (e *ConfigError) Error() string {
	name := e.Backend
	if name == "" {
		name = "<unnamed>"
	}
	return fmt.Sprintf("invalid backend %q: %s", name, strings.Join(e.Problems, "; "))
}

// Is reports whether target is core.ErrConfig.
func (e *ConfigError) Is(target error) bool { return target == core.ErrConfig }

// Kind returns "config".
func (e *ConfigError) Kind() string { return "config" }
