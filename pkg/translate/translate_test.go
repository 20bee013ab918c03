package translate

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/formulate/internal/testutil"
	"github.com/leapstack-labs/formulate/pkg/backend"
	"github.com/leapstack-labs/formulate/pkg/backends/numexpr"
	"github.com/leapstack-labs/formulate/pkg/backends/root"
	"github.com/leapstack-labs/formulate/pkg/core"
	"github.com/leapstack-labs/formulate/pkg/parser"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		from  *backend.Backend
		to    *backend.Backend
		want  string
	}{
		{"normalizes spacing", "a>=b & c!=3", numexpr.Numexpr, numexpr.Numexpr, "a >= b & c != 3"},
		{"drops redundant parentheses", "((a)) + (b * c)", numexpr.Numexpr, numexpr.Numexpr, "a + b * c"},
		{"function call", "where(a, 1, 0) * 0", numexpr.Numexpr, numexpr.Numexpr, "where(a, 1, 0) * 0"},
		{"constants", "2 * 3.141592653589793 * r", numexpr.Numexpr, root.ROOT, "2 * TMath::Pi() * r"},
		{"functions", "TMath::Sqrt(x*x + y*y)", root.ROOT, numexpr.Numexpr, "sqrt(x * x + y * y)"},
		{"logical operators", "!(a && b) || c", root.ROOT, numexpr.Numexpr, "~(a & b) | c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Translate(tt.input, tt.from, tt.to)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTranslate_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		from  *backend.Backend
		to    *backend.Backend
		kind  error
	}{
		{"lexical", "a # b", numexpr.Numexpr, root.ROOT, core.ErrLexical},
		{"syntax", "a + ", numexpr.Numexpr, root.ROOT, core.ErrSyntax},
		{"arity", "where(a, b)", numexpr.Numexpr, root.ROOT, core.ErrArity},
		{"unsupported", "where(a, b, c)", numexpr.Numexpr, root.ROOT, core.ErrUnsupported},
		{"unsupported operator", "a ^ b", numexpr.Numexpr, root.ROOT, core.ErrUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Translate(tt.input, tt.from, tt.to)
			require.Error(t, err)
			assert.Empty(t, got)
			assert.ErrorIs(t, err, tt.kind)
		})
	}

	_, err := Translate("a", nil, root.ROOT)
	assert.ErrorIs(t, err, backend.ErrBackendRequired)
}

func TestTranslate_KeepsErrorType(t *testing.T) {
	_, err := Translate("a +\n  )", numexpr.Numexpr, root.ROOT)

	var syntaxErr *parser.SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
	assert.Equal(t, 2, syntaxErr.Pos().Line)
	assert.Equal(t, 3, syntaxErr.Pos().Column)
	assert.Contains(t, err.Error(), "parse numexpr expression")
}

func TestTranslator_Logging(t *testing.T) {
	logger, logs := testutil.NewCaptureLogger()
	tr := New(Config{Logger: logger})

	_, err := tr.Translate("sqrt(x)", numexpr.Numexpr, root.ROOT)
	require.NoError(t, err)

	out := logs.String()
	assert.Contains(t, out, "parsing expression")
	assert.Contains(t, out, "backend=numexpr")
	assert.Contains(t, out, "formatting expression")
	assert.Contains(t, out, "backend=root")
}

func TestTranslateAll(t *testing.T) {
	tr := New(Config{Logger: testutil.NewTestLogger(t), Concurrency: 3})

	texts := make([]string, 0, 50)
	for i := range 50 {
		texts = append(texts, fmt.Sprintf("sqrt(x%d) + %d", i, i))
	}
	texts[7] = "where(a, b, c)"

	results, err := tr.TranslateAll(context.Background(), texts, numexpr.Numexpr, root.ROOT)
	require.NoError(t, err)
	require.Len(t, results, len(texts))

	for i, r := range results {
		assert.Equal(t, i, r.Index)
		assert.Equal(t, texts[i], r.Input)
		if i == 7 {
			assert.ErrorIs(t, r.Err, core.ErrUnsupported)
			assert.Empty(t, r.Output)
			continue
		}
		require.NoError(t, r.Err)
		assert.Equal(t, fmt.Sprintf("TMath::Sqrt(x%d) + %d", i, i), r.Output)
	}
}

func TestTranslateAll_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := New(Config{}).TranslateAll(ctx, []string{"a", "b"}, numexpr.Numexpr, root.ROOT)
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.ErrorIs(t, r.Err, context.Canceled)
		assert.Empty(t, r.Output)
	}
}

func TestTranslateAll_Empty(t *testing.T) {
	results, err := New(Config{}).TranslateAll(context.Background(), nil, numexpr.Numexpr, root.ROOT)
	require.NoError(t, err)
	assert.Empty(t, results)
}
