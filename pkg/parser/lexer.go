package parser

import (
	"fmt"
	"unicode/utf8"

	"github.com/leapstack-labs/formulate/pkg/backend"
	"github.com/leapstack-labs/formulate/pkg/token"
)

// symbol is a backend token prepared for matching.
type symbol struct {
	text     string
	norm     string // normalized form used for comparison
	wordEnd  bool   // ends in [A-Za-z0-9_], so needs a boundary after it
	hasDigit bool   // starts with a digit, so numbers claim it first
}

// Lexer tokenizes expression input against one backend.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
	line    int  // current line number (1-based)
	col     int  // current column number (1-based)

	backend *backend.Backend
	symbols []symbol // longest first
}

// NewLexer creates a new Lexer for the given input and backend.
func NewLexer(input string, b *backend.Backend) *Lexer {
	l := &Lexer{
		input:   input,
		line:    1,
		col:     0,
		backend: b,
	}
	for _, s := range b.Symbols() {
		l.symbols = append(l.symbols, symbol{
			text:     s,
			norm:     b.Normalize(s),
			wordEnd:  isWordChar(s[len(s)-1]),
			hasDigit: isDigit(s[0]),
		})
	}
	l.readChar()
	return l
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // ASCII NUL = EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++

	if l.pos > 0 && l.pos <= len(l.input) && l.input[l.pos-1] == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// currentPos returns the current position.
func (l *Lexer) currentPos() token.Position {
	return token.Position{
		Line:   l.line,
		Column: l.col,
		Offset: l.pos,
	}
}

// advance consumes n bytes.
func (l *Lexer) advance(n int) {
	for range n {
		l.readChar()
	}
}

// NextToken returns the next token. Unrecognized input yields an ILLEGAL
// token holding the offending character.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()

	pos := l.currentPos()

	if l.pos >= len(l.input) {
		return token.Token{Type: token.EOF, Pos: pos}
	}

	// Numbers first, so constants spelled as values lex as NUMBER
	if isDigit(l.ch) || (l.ch == '.' && isDigit(l.peekChar())) {
		return token.Token{Type: token.NUMBER, Literal: l.readNumber(), Pos: pos}
	}

	// Backend symbols against identifiers: the longer wins, a tie goes to the symbol
	sym, symLen := l.matchSymbol()
	identLen := 0
	if isIdentStart(l.ch) {
		identLen = l.scanIdentifier()
	}
	switch {
	case symLen > 0 && symLen >= identLen:
		l.advance(symLen)
		return token.Token{Type: token.SYMBOL, Literal: sym, Pos: pos}
	case identLen > 0:
		lit := l.input[l.pos : l.pos+identLen]
		l.advance(identLen)
		return token.Token{Type: token.IDENT, Literal: lit, Pos: pos}
	}

	switch l.ch {
	case '(':
		l.readChar()
		return token.Token{Type: token.LPAREN, Literal: "(", Pos: pos}
	case ')':
		l.readChar()
		return token.Token{Type: token.RPAREN, Literal: ")", Pos: pos}
	case ',':
		l.readChar()
		return token.Token{Type: token.COMMA, Literal: ",", Pos: pos}
	}

	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.advance(size)
	return token.Token{Type: token.ILLEGAL, Literal: string(r), Pos: pos}
}

// matchSymbol returns the longest backend symbol at the current position.
// Symbols ending in a word character must not be followed by one, so that
// "and" does not match the start of "android".
func (l *Lexer) matchSymbol() (string, int) {
	rest := l.input[l.pos:]
	for _, s := range l.symbols {
		if s.hasDigit || len(rest) < len(s.text) {
			continue
		}
		candidate := rest[:len(s.text)]
		if candidate != s.text && l.backend.Normalize(candidate) != s.norm {
			continue
		}
		if s.wordEnd && len(rest) > len(s.text) && isWordChar(rest[len(s.text)]) {
			continue
		}
		return candidate, len(s.text)
	}
	return "", 0
}

// skipWhitespace skips spaces, tabs and newlines.
func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

// scanIdentifier returns the length of the identifier at the current
// position without consuming it.
func (l *Lexer) scanIdentifier() int {
	n := 0
	for l.pos+n < len(l.input) && isWordChar(l.input[l.pos+n]) {
		n++
	}
	return n
}

// readNumber reads a numeric literal (integer, decimal, or scientific).
func (l *Lexer) readNumber() string {
	start := l.pos

	// Read integer part
	for isDigit(l.ch) {
		l.readChar()
	}

	// Read decimal part
	if l.ch == '.' {
		l.readChar() // skip '.'
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	// Read exponent part (e.g., 1e10, 1E-5) only if digits follow
	if l.ch == 'e' || l.ch == 'E' {
		next := l.peekChar()
		digitAt := 1
		if next == '+' || next == '-' {
			digitAt = 2
		}
		if l.pos+digitAt < len(l.input) && isDigit(l.input[l.pos+digitAt]) {
			l.advance(digitAt)
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}

	return l.input[start:l.pos]
}

// isDigit returns true if ch is a digit.
func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// isIdentStart returns true if ch can start an identifier.
func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

// isWordChar returns true if ch can continue an identifier.
func isWordChar(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}

// Tokenize returns all tokens from the input, ending with EOF.
// The first unrecognized character is reported as a *LexError.
func Tokenize(input string, b *backend.Backend) ([]token.Token, error) {
	if b == nil {
		return nil, backend.ErrBackendRequired
	}
	l := NewLexer(input, b)
	var tokens []token.Token
	for {
		tok := l.NextToken()
		if tok.Type == token.ILLEGAL {
			return nil, &LexError{Position: tok.Pos, Message: fmt.Sprintf(msgUnexpectedChar, tok.Literal)}
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens, nil
		}
	}
}
