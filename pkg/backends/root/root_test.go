package root

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/formulate/pkg/backend"
	"github.com/leapstack-labs/formulate/pkg/ident"
)

func TestRegistered(t *testing.T) {
	b, ok := backend.Get("ROOT")
	require.True(t, ok)
	assert.Same(t, ROOT, b)
}

func TestSpellings(t *testing.T) {
	tests := []struct {
		id   ident.ID
		want string
	}{
		{ident.AND, "&&"},
		{ident.OR, "||"},
		{ident.NOT, "!"},
		{ident.LSHIFT, "<<"},
		{ident.POW, "TMath::Power"},
		{ident.SQRT, "TMath::Sqrt"},
		{ident.ATAN2, "TMath::ATan2"},
		{ident.ASINH, "TMath::ASinH"},
		{ident.PI, "TMath::Pi()"},
		{ident.TAU, "TMath::TwoPi()"},
		{ident.LOG10E, "TMath::LogE()"},
	}

	for _, tt := range tests {
		t.Run(tt.id.String(), func(t *testing.T) {
			s, ok := ROOT.Spelling(tt.id)
			require.True(t, ok)
			assert.Equal(t, tt.want, s)
		})
	}
}

func TestUnsupported(t *testing.T) {
	for _, id := range []ident.ID{ident.WHERE, ident.LOG1P, ident.EXPM1, ident.XOR} {
		assert.False(t, ROOT.Supports(id), id.String())
	}
}

func TestPowerIsFunction(t *testing.T) {
	fn, ok := ROOT.Function("TMath::Power")
	require.True(t, ok)
	assert.Equal(t, 2, fn.Arity)

	_, ok = ROOT.InfixOperator("^")
	assert.False(t, ok)
}

func TestSymbolsPreferLongerTMathNames(t *testing.T) {
	syms := ROOT.Symbols()
	pos := map[string]int{}
	for i, s := range syms {
		pos[s] = i
	}
	assert.Less(t, pos["TMath::SinH"], pos["TMath::Sin"])
	assert.Less(t, pos["TMath::Log10"], pos["TMath::Log"])
	assert.Less(t, pos["!="], pos["!"])
}
