package core

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/formulate/pkg/ident"
	"github.com/leapstack-labs/formulate/pkg/token"
)

// Error kinds. Every error returned by parse, format and translate matches
// exactly one of these with errors.Is.
var (
	ErrLexical           = errors.New("lexical error")
	ErrSyntax            = errors.New("syntax error")
	ErrArity             = errors.New("arity error")
	ErrUnsupported       = errors.New("unsupported identifier")
	ErrUnknownIdentifier = errors.New("unknown identifier")
	ErrConfig            = errors.New("configuration error")
)

// KindOf returns a short name for the kind of err ("lexical", "syntax",
// "arity", "unsupported", "unknown_identifier", "config"), or "internal".
func KindOf(err error) string {
	switch {
	case errors.Is(err, ErrLexical):
		return "lexical"
	case errors.Is(err, ErrSyntax):
		return "syntax"
	case errors.Is(err, ErrArity):
		return "arity"
	case errors.Is(err, ErrUnsupported):
		return "unsupported"
	case errors.Is(err, ErrUnknownIdentifier):
		return "unknown_identifier"
	case errors.Is(err, ErrConfig):
		return "config"
	default:
		return "internal"
	}
}

// ArityError reports an operator or function applied to the wrong number of
// operands, either at construction time or while parsing.
type ArityError struct {
	ID       ident.ID
	Name     string // backend spelling, when known
	Want     int
	Got      int
	Position token.Position // zero for programmatic construction
}

func (e *ArityError) Error() string {
	name := e.ID.String()
	if e.Name != "" {
		name = fmt.Sprintf("%s (%s)", e.Name, e.ID)
	}
	msg := fmt.Sprintf("%s takes %d argument(s), got %d", name, e.Want, e.Got)
	if e.Position.IsValid() {
		return fmt.Sprintf("arity error at line %d, column %d: %s", e.Position.Line, e.Position.Column, msg)
	}
	return "arity error: " + msg
}

// Is reports whether target is ErrArity.
func (e *ArityError) Is(target error) bool { return target == ErrArity }

// Kind returns "arity".
func (e *ArityError) Kind() string { return "arity" }

// Pos returns the position of the offending call.
func (e *ArityError) Pos() token.Position { return e.Position }

// UnsupportedIdentifierError reports an identifier with no spelling in the
// destination backend.
type UnsupportedIdentifierError struct {
	ID      ident.ID
	Backend string
}

func (e *UnsupportedIdentifierError) Error() string {
	return fmt.Sprintf("%s is not supported by backend %q", e.ID, e.Backend)
}

// Is reports whether target is ErrUnsupported.
func (e *UnsupportedIdentifierError) Is(target error) bool { return target == ErrUnsupported }

// Kind returns "unsupported".
func (e *UnsupportedIdentifierError) Kind() string { return "unsupported" }

// UnknownIdentifierError reports an identifier that is not registered, or
// that has the wrong class for the requested use.
type UnknownIdentifierError struct {
	ID ident.ID
}

func (e *UnknownIdentifierError) Error() string {
	return fmt.Sprintf("unknown or misused identifier %s", e.ID)
}

// Is reports whether target is ErrUnknownIdentifier.
func (e *UnknownIdentifierError) Is(target error) bool { return target == ErrUnknownIdentifier }

// Kind returns "unknown_identifier".
func (e *UnknownIdentifierError) Kind() string { return "unknown_identifier" }

// LiftError reports a builder argument that cannot become an expression.
type LiftError struct {
	Value any
}

func (e *LiftError) Error() string {
	return fmt.Sprintf("cannot use %v (%T) as an expression", e.Value, e.Value)
}
