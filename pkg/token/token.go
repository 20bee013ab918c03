// Package token defines the lexical tokens of formulate expressions.
//
// Only punctuation is fixed. Every operator, function, and constant spelling
// comes from a backend and is lexed as a SYMBOL whose meaning the parser
// resolves against that backend.
package token

import "fmt"

// TokenType represents the type of a lexical token.
//
//nolint:revive // Accept stutter as token.TokenType is clear and widely used
type TokenType int32

const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL

	// Literals
	IDENT  // bare identifier: variable, function, or constant name
	NUMBER // 123, 45.67, 1e10, .5

	// SYMBOL is any token spelled by the active backend (+, >=, TMath::Sqrt, and).
	SYMBOL

	// Punctuation
	LPAREN // (
	RPAREN // )
	COMMA  // ,
)

var tokenNames = map[TokenType]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",
	IDENT:   "IDENT",
	NUMBER:  "NUMBER",
	SYMBOL:  "SYMBOL",
	LPAREN:  "(",
	RPAREN:  ")",
	COMMA:   ",",
}

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

// Token represents a lexical token with position information.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}

// String returns the token as it appears in error messages.
func (t Token) String() string {
	switch t.Type {
	case EOF:
		return "end of input"
	case IDENT, NUMBER, SYMBOL:
		return fmt.Sprintf("%s %q", t.Type, t.Literal)
	default:
		return fmt.Sprintf("%q", t.Literal)
	}
}
