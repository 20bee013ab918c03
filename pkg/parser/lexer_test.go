package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/formulate/pkg/backend"
	"github.com/leapstack-labs/formulate/pkg/backends/numexpr"
	"github.com/leapstack-labs/formulate/pkg/backends/root"
	"github.com/leapstack-labs/formulate/pkg/core"
	"github.com/leapstack-labs/formulate/pkg/token"
)

type tok struct {
	typ token.TokenType
	lit string
}

func TestLexer_Tokens(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []tok
	}{
		{
			name:  "longest operator match",
			input: "a>=b>c",
			want: []tok{
				{token.IDENT, "a"}, {token.SYMBOL, ">="}, {token.IDENT, "b"},
				{token.SYMBOL, ">"}, {token.IDENT, "c"},
			},
		},
		{
			name:  "function and punctuation",
			input: "where(x, 1, .5)",
			want: []tok{
				{token.SYMBOL, "where"}, {token.LPAREN, "("}, {token.IDENT, "x"},
				{token.COMMA, ","}, {token.NUMBER, "1"}, {token.COMMA, ","},
				{token.NUMBER, ".5"}, {token.RPAREN, ")"},
			},
		},
		{
			name:  "identifier longer than symbol",
			input: "sqrtx + truest",
			want: []tok{
				{token.IDENT, "sqrtx"}, {token.SYMBOL, "+"}, {token.IDENT, "truest"},
			},
		},
		{
			name:  "scientific numbers",
			input: "1e10 2.5E-3 3e",
			want: []tok{
				{token.NUMBER, "1e10"}, {token.NUMBER, "2.5E-3"},
				{token.NUMBER, "3"}, {token.IDENT, "e"},
			},
		},
		{
			name:  "constant spelled as a value",
			input: "3.141592653589793*r",
			want: []tok{
				{token.NUMBER, "3.141592653589793"}, {token.SYMBOL, "*"}, {token.IDENT, "r"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Tokenize(tt.input, numexpr.Numexpr)
			require.NoError(t, err)
			require.Equal(t, token.EOF, tokens[len(tokens)-1].Type)

			got := make([]tok, 0, len(tokens)-1)
			for _, tk := range tokens[:len(tokens)-1] {
				got = append(got, tok{tk.Type, tk.Literal})
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLexer_QualifiedNames(t *testing.T) {
	tokens, err := Tokenize("TMath::Sqrt(x) * TMath::Pi() && TMathX", root.ROOT)
	require.NoError(t, err)

	lits := make([]string, 0, len(tokens))
	for _, tk := range tokens {
		lits = append(lits, tk.Literal)
	}
	assert.Equal(t, []string{"TMath::Sqrt", "(", "x", ")", "*", "TMath::Pi()", "&&", "TMathX", ""}, lits)
	assert.Equal(t, token.SYMBOL, tokens[0].Type)
	assert.Equal(t, token.SYMBOL, tokens[5].Type)
	assert.Equal(t, token.IDENT, tokens[7].Type)
}

func TestLexer_Positions(t *testing.T) {
	tokens, err := Tokenize("a +\n  sqrt(b)", numexpr.Numexpr)
	require.NoError(t, err)

	assert.Equal(t, token.Position{Line: 1, Column: 1, Offset: 0}, tokens[0].Pos)
	assert.Equal(t, token.Position{Line: 1, Column: 3, Offset: 2}, tokens[1].Pos)
	assert.Equal(t, token.Position{Line: 2, Column: 3, Offset: 6}, tokens[2].Pos)
	assert.Equal(t, token.Position{Line: 2, Column: 8, Offset: 11}, tokens[4].Pos)
}

func TestLexer_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		col   int
	}{
		{"unknown character", "a $ b", 3},
		{"operator from another backend", "a ! b", 3},
		{"unicode", "a + é", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(tt.input, numexpr.Numexpr)
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrLexical)

			var lexErr *LexError
			require.ErrorAs(t, err, &lexErr)
			assert.Equal(t, tt.col, lexErr.Pos().Column)
			assert.Equal(t, "lexical", lexErr.Kind())
		})
	}
}

func TestTokenize_NilBackend(t *testing.T) {
	_, err := Tokenize("a", nil)
	assert.ErrorIs(t, err, backend.ErrBackendRequired)
}
