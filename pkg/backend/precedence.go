package backend

import (
	"fmt"
	"strconv"
	"strings"
)

// Precedence is an operator binding strength. Higher binds tighter.
type Precedence int

// Default precedence ladder. Backends use these as data; nothing in the
// parser or the serializer depends on the particular values.
const (
	PrecedenceNone       Precedence = 0
	PrecedenceOr         Precedence = 1 // |, ||, or
	PrecedenceXor        Precedence = 2 // ^
	PrecedenceAnd        Precedence = 3 // &, &&, and
	PrecedenceComparison Precedence = 4 // ==, !=, <, <=, >, >=
	PrecedenceShift      Precedence = 5 // <<, >>
	PrecedenceAddition   Precedence = 6 // +, -
	PrecedenceMultiply   Precedence = 7 // *, /, %
	PrecedenceUnary      Precedence = 8 // -x, +x, ~x
	PrecedencePower      Precedence = 9 // **
)

var precedenceNames = map[Precedence]string{
	PrecedenceOr:         "or",
	PrecedenceXor:        "xor",
	PrecedenceAnd:        "and",
	PrecedenceComparison: "comparison",
	PrecedenceShift:      "shift",
	PrecedenceAddition:   "additive",
	PrecedenceMultiply:   "multiplicative",
	PrecedenceUnary:      "unary",
	PrecedencePower:      "power",
}

// String returns the ladder name of p, or its number when p is off the ladder.
func (p Precedence) String() string {
	if name, ok := precedenceNames[p]; ok {
		return name
	}
	return strconv.Itoa(int(p))
}

// MarshalText implements encoding.TextMarshaler.
func (p Precedence) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText accepts a ladder name ("additive") or an integer ("6").
func (p *Precedence) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	for level, name := range precedenceNames {
		if name == s {
			*p = level
			return nil
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid precedence %q", string(text))
	}
	*p = Precedence(n)
	return nil
}

// Assoc is the grouping direction of a binary operator.
type Assoc int

const (
	// AssocLeft groups a op b op c as (a op b) op c.
	AssocLeft Assoc = iota
	// AssocRight groups a op b op c as a op (b op c).
	AssocRight
	// AssocNone rejects a op b op c.
	AssocNone
)

// String returns the string representation of Assoc.
func (a Assoc) String() string {
	switch a {
	case AssocLeft:
		return "left"
	case AssocRight:
		return "right"
	case AssocNone:
		return "none"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (a Assoc) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Assoc) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "left", "":
		*a = AssocLeft
	case "right":
		*a = AssocRight
	case "none", "nonassoc":
		*a = AssocNone
	default:
		return fmt.Errorf("invalid associativity %q", string(text))
	}
	return nil
}

// Fixity is where an operator token sits relative to its operands.
type Fixity int

const (
	// Infix operators take two operands: a op b.
	Infix Fixity = iota
	// Prefix operators take one operand: op a.
	Prefix
)

// String returns the string representation of Fixity.
func (f Fixity) String() string {
	switch f {
	case Infix:
		return "infix"
	case Prefix:
		return "prefix"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (f Fixity) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Fixity) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "infix", "":
		*f = Infix
	case "prefix", "unary":
		*f = Prefix
	default:
		return fmt.Errorf("invalid fixity %q", string(text))
	}
	return nil
}

// Arity returns the number of operands an operator of this fixity takes.
func (f Fixity) Arity() int {
	if f == Prefix {
		return 1
	}
	return 2
}

// Normalization controls how token text is compared.
type Normalization int

const (
	// NormCaseSensitive compares tokens byte for byte.
	NormCaseSensitive Normalization = iota
	// NormCaseInsensitive compares tokens after Unicode case folding.
	NormCaseInsensitive
)

// String returns the string representation of Normalization.
func (n Normalization) String() string {
	switch n {
	case NormCaseSensitive:
		return "case_sensitive"
	case NormCaseInsensitive:
		return "case_insensitive"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (n Normalization) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (n *Normalization) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "case_sensitive", "":
		*n = NormCaseSensitive
	case "case_insensitive":
		*n = NormCaseInsensitive
	default:
		return fmt.Errorf("invalid normalization %q", string(text))
	}
	return nil
}
