package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrecedenceText(t *testing.T) {
	tests := []struct {
		in   string
		want Precedence
	}{
		{"additive", PrecedenceAddition},
		{"Multiplicative", PrecedenceMultiply},
		{" power ", PrecedencePower},
		{"6", PrecedenceAddition},
		{"42", Precedence(42)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var p Precedence
			require.NoError(t, p.UnmarshalText([]byte(tt.in)))
			assert.Equal(t, tt.want, p)
		})
	}

	var p Precedence
	assert.Error(t, p.UnmarshalText([]byte("tight")))

	assert.Equal(t, "comparison", PrecedenceComparison.String())
	assert.Equal(t, "42", Precedence(42).String())
}

func TestLadderOrder(t *testing.T) {
	ladder := []Precedence{
		PrecedenceOr, PrecedenceXor, PrecedenceAnd, PrecedenceComparison,
		PrecedenceShift, PrecedenceAddition, PrecedenceMultiply, PrecedenceUnary, PrecedencePower,
	}
	for i := 1; i < len(ladder); i++ {
		assert.Less(t, ladder[i-1], ladder[i], "%s should bind looser than %s", ladder[i-1], ladder[i])
	}
}

func TestEnumText(t *testing.T) {
	var a Assoc
	require.NoError(t, a.UnmarshalText([]byte("right")))
	assert.Equal(t, AssocRight, a)
	require.NoError(t, a.UnmarshalText([]byte("nonassoc")))
	assert.Equal(t, AssocNone, a)
	assert.Error(t, a.UnmarshalText([]byte("up")))
	assert.Equal(t, "unknown", Assoc(9).String())

	var f Fixity
	require.NoError(t, f.UnmarshalText([]byte("prefix")))
	assert.Equal(t, Prefix, f)
	assert.Equal(t, 1, f.Arity())
	assert.Equal(t, 2, Infix.Arity())
	assert.Error(t, f.UnmarshalText([]byte("postfix")))

	var n Normalization
	require.NoError(t, n.UnmarshalText([]byte("case_insensitive")))
	assert.Equal(t, NormCaseInsensitive, n)
	assert.Error(t, n.UnmarshalText([]byte("upper")))

	text, err := PrecedenceShift.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "shift", string(text))
}
