// Package parser turns backend-specific expression text into a core.Expr.
//
// # Usage
//
//	expr, err := parser.Parse("a>=b & c!=3", numexpr.Numexpr)
//	if err != nil {
//	    // handle error
//	}
//
// The lexer and the parser are driven entirely by the backend: every
// operator, function and constant spelling, every precedence level and
// associativity comes from its descriptors. Only numbers, identifiers and
// the punctuation ( ) , are fixed.
//
// # Grammar Overview
//
//	expr     → unary (INFIX unary)*        precedence climbing
//	unary    → PREFIX unary | primary
//	primary  → NUMBER | CONSTANT | IDENT
//	         | FUNCTION "(" expr ("," expr)* ")"
//	         | "(" expr ")"
package parser

import (
	"fmt"
	"strconv"

	"github.com/leapstack-labs/formulate/pkg/backend"
	"github.com/leapstack-labs/formulate/pkg/core"
	"github.com/leapstack-labs/formulate/pkg/token"
)

// maxDepth bounds nesting of parentheses, prefix operators and calls.
const maxDepth = 512

// lowestPrecedence is the minimum precedence at the top level and inside
// parentheses and argument lists.
const lowestPrecedence = backend.PrecedenceNone + 1

// Parser parses one expression from a token stream.
type Parser struct {
	backend *backend.Backend
	tokens  []token.Token
	pos     int // index of the current token
	depth   int
}

// Parse parses input with backend b and returns the expression tree.
// It returns *LexError, *SyntaxError or *core.ArityError on failure and
// never a partial tree. Returns backend.ErrBackendRequired if b is nil.
func Parse(input string, b *backend.Backend) (core.Expr, error) {
	tokens, err := Tokenize(input, b)
	if err != nil {
		return nil, err
	}
	p := &Parser{backend: b, tokens: tokens}

	expr, err := p.parseExpression(lowestPrecedence)
	if err != nil {
		return nil, err
	}
	if tok := p.token(); tok.Type != token.EOF {
		return nil, p.errorf(tok, msgTrailingToken, tok)
	}
	return expr, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// package-level fixtures.
func MustParse(input string, b *backend.Backend) core.Expr {
	expr, err := Parse(input, b)
	if err != nil {
		panic(err)
	}
	return expr
}

// ---------- Token Helpers ----------

// token returns the current token.
func (p *Parser) token() token.Token {
	return p.tokens[p.pos]
}

// peek returns the token after the current one.
func (p *Parser) peek() token.Token {
	if p.pos+1 < len(p.tokens) {
		return p.tokens[p.pos+1]
	}
	return p.tokens[len(p.tokens)-1] // EOF
}

// nextToken advances to the next token. EOF is sticky.
func (p *Parser) nextToken() {
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
}

// check returns true if the current token is of the given type.
func (p *Parser) check(t token.TokenType) bool {
	return p.token().Type == t
}

// errorf builds a *SyntaxError at tok.
func (p *Parser) errorf(tok token.Token, format string, args ...any) error {
	return &SyntaxError{Position: tok.Pos, Message: fmt.Sprintf(format, args...)}
}

// enter tracks recursion depth for nested constructs.
func (p *Parser) enter(tok token.Token) error {
	p.depth++
	if p.depth > maxDepth {
		return p.errorf(tok, msgTooDeep, maxDepth)
	}
	return nil
}

func (p *Parser) leave() { p.depth-- }

// infixOperator returns the infix descriptor for the current token, if any.
func (p *Parser) infixOperator() (*backend.OperatorDef, bool) {
	tok := p.token()
	if tok.Type != token.SYMBOL {
		return nil, false
	}
	return p.backend.InfixOperator(tok.Literal)
}

// ---------- Expressions ----------

// parseExpression implements precedence climbing. An infix operator is taken
// while its precedence is at least minPrec. Its right operand must bind
// tighter (left and non-associative) or at least as tight (right-associative).
func (p *Parser) parseExpression(minPrec backend.Precedence) (core.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		op, ok := p.infixOperator()
		if !ok || op.Precedence < minPrec {
			return left, nil
		}
		opTok := p.token()
		p.nextToken()

		next := op.Precedence + 1
		if op.Assoc == backend.AssocRight {
			next = op.Precedence
		}
		if err := p.enter(opTok); err != nil {
			return nil, err
		}
		right, err := p.parseExpression(next)
		p.leave()
		if err != nil {
			return nil, err
		}

		expr, err := core.NewAt(left.Pos(), op.ID, left, right)
		if err != nil {
			return nil, err
		}
		left = expr

		if op.Assoc == backend.AssocNone {
			if following, ok := p.infixOperator(); ok && following.Precedence == op.Precedence {
				return nil, p.errorf(p.token(), msgNonAssociative, opTok.Literal, following.Token)
			}
		}
	}
}

// parseUnary parses prefix operators in prefix position. The operand is
// parsed with the operator's own precedence as the minimum.
func (p *Parser) parseUnary() (core.Expr, error) {
	tok := p.token()
	if tok.Type != token.SYMBOL {
		return p.parsePrimary()
	}
	op, ok := p.backend.PrefixOperator(tok.Literal)
	if !ok {
		return p.parsePrimary()
	}

	if err := p.enter(tok); err != nil {
		return nil, err
	}
	defer p.leave()

	p.nextToken()
	operand, err := p.parseExpression(op.Precedence)
	if err != nil {
		return nil, err
	}
	return core.NewAt(tok.Pos, op.ID, operand)
}

// parsePrimary parses numbers, constants, variables, calls and groups.
func (p *Parser) parsePrimary() (core.Expr, error) {
	tok := p.token()

	switch tok.Type {
	case token.NUMBER:
		p.nextToken()
		if c, ok := p.backend.Constant(tok.Literal); ok {
			return core.NamedAt(tok.Pos, c.ID)
		}
		v, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			return nil, p.errorf(tok, msgNumberOutOfRange, tok.Literal)
		}
		return core.NumAt(tok.Pos, v), nil

	case token.IDENT:
		p.nextToken()
		return core.VarAt(tok.Pos, tok.Literal), nil

	case token.SYMBOL:
		fn, isFn := p.backend.Function(tok.Literal)
		if isFn && p.peek().Type == token.LPAREN {
			return p.parseCall(fn)
		}
		if c, ok := p.backend.Constant(tok.Literal); ok {
			p.nextToken()
			return core.NamedAt(tok.Pos, c.ID)
		}
		if isFn {
			return nil, p.errorf(p.peek(), msgMissingArgList, tok.Literal)
		}
		return nil, p.errorf(tok, msgUnexpectedToken, tok, "operand")

	case token.LPAREN:
		return p.parseGroup()

	default:
		return nil, p.errorf(tok, msgUnexpectedToken, tok, "operand")
	}
}

// parseGroup parses ( expr ).
func (p *Parser) parseGroup() (core.Expr, error) {
	open := p.token()
	if err := p.enter(open); err != nil {
		return nil, err
	}
	defer p.leave()

	p.nextToken() // consume (
	expr, err := p.parseExpression(lowestPrecedence)
	if err != nil {
		return nil, err
	}
	if !p.check(token.RPAREN) {
		return nil, p.errorf(p.token(), msgMissingParen, open.Pos)
	}
	p.nextToken() // consume )
	return expr, nil
}

// parseCall parses name ( args ). The current token is the function name.
func (p *Parser) parseCall(fn *backend.FunctionDef) (core.Expr, error) {
	nameTok := p.token()
	if err := p.enter(nameTok); err != nil {
		return nil, err
	}
	defer p.leave()

	p.nextToken() // consume name
	open := p.token()
	p.nextToken() // consume (

	var args []core.Expr
	if !p.check(token.RPAREN) {
		for {
			arg, err := p.parseExpression(lowestPrecedence)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.check(token.COMMA) {
				break
			}
			p.nextToken() // consume ,
		}
	}
	if !p.check(token.RPAREN) {
		if p.check(token.EOF) {
			return nil, p.errorf(p.token(), msgMissingParen, open.Pos)
		}
		return nil, p.errorf(p.token(), msgUnexpectedToken, p.token(), `"," or ")"`)
	}
	p.nextToken() // consume )

	if len(args) != fn.Arity {
		return nil, &core.ArityError{
			ID:       fn.ID,
			Name:     nameTok.Literal,
			Want:     fn.Arity,
			Got:      len(args),
			Position: nameTok.Pos,
		}
	}
	return core.NewAt(nameTok.Pos, fn.ID, args...)
}
