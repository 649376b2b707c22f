package protocols

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ministark/ministark/internal/ministark/core"
)

// testField returns the 97-element field. Its multiplicative group has order
// 96 = 2^5 * 3, so it carries power-of-two subgroups up to size 32 and every
// case below can be checked against hand arithmetic.
func testField(t *testing.T) *core.Field {
	t.Helper()
	field, err := core.NewFieldFromUint64(97)
	require.NoError(t, err)
	return field
}

// testParams returns a small but complete parameter set: trace length 8,
// blowup 4 (LDE size 32), 3 queries.
func testParams() Parameters {
	return Parameters{
		FieldModulus:  big.NewInt(97),
		TraceLength:   8,
		BlowupFactor:  4,
		NumQueries:    3,
		HasherID:      core.HasherSHA3,
		ConstraintSet: "fibonacci",
	}
}

// testTrace returns a Fibonacci trace of the given length starting from the
// public inputs (1, 1).
func testTrace(t *testing.T, field *core.Field, length int) ([]*core.FieldElement, []*core.FieldElement) {
	t.Helper()
	trace := make([]*core.FieldElement, length)
	trace[0] = field.One()
	trace[1] = field.One()
	for i := 2; i < length; i++ {
		trace[i] = trace[i-1].Add(trace[i-2])
	}
	return trace, []*core.FieldElement{trace[0], trace[1]}
}

func elements(field *core.Field, values ...int64) []*core.FieldElement {
	out := make([]*core.FieldElement, len(values))
	for i, v := range values {
		out[i] = field.NewElementFromInt64(v)
	}
	return out
}
