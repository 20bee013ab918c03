package parser

import (
	"fmt"

	"github.com/leapstack-labs/formulate/pkg/core"
	"github.com/leapstack-labs/formulate/pkg/token"
)

// LexError represents a lexical analysis error: input that is not a number,
// an identifier, punctuation, or a token of the active backend.
type LexError struct {
	Position token.Position
	Message  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lexical error at line %d, column %d: %s", e.Position.Line, e.Position.Column, e.Message)
}

// Is reports whether target is core.ErrLexical.
func (e *LexError) Is(target error) bool { return target == core.ErrLexical }

// Kind returns "lexical".
func (e *LexError) Kind() string { return "lexical" }

// Pos returns the position of the offending character.
func (e *LexError) Pos() token.Position { return e.Position }

// SyntaxError represents a parsing error with position information.
type SyntaxError struct {
	Position token.Position
	Message  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at line %d, column %d: %s", e.Position.Line, e.Position.Column, e.Message)
}

// Is reports whether target is core.ErrSyntax.
func (e *SyntaxError) Is(target error) bool { return target == core.ErrSyntax }

// Kind returns "syntax".
func (e *SyntaxError) Kind() string { return "syntax" }

// Pos returns the position of the offending token.
func (e *SyntaxError) Pos() token.Position { return e.Position }

// Common error messages
const (
	msgUnexpectedToken  = "unexpected %s, expected %s"
	msgUnexpectedChar   = "unexpected character %q"
	msgTrailingToken    = "unexpected %s after end of expression"
	msgMissingParen     = "missing ) to close ( at %s"
	msgMissingArgList   = "function %s must be followed by ("
	msgNonAssociative   = "operator %s cannot be chained with %s"
	msgNumberOutOfRange = "number %s is out of range"
	msgTooDeep          = "expression is nested more than %d levels deep"
)
