package protocols

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ministark/ministark/internal/ministark/core"
)

func TestConstraintSetByName(t *testing.T) {
	set, err := ConstraintSetByName("fibonacci")
	require.NoError(t, err)
	require.Equal(t, "fibonacci", set.Name())
	require.Equal(t, 3, set.NumConstraints())
	require.Equal(t, 2, set.NumPublicInputs())
	require.Equal(t, []int{0, 1, 2}, set.TraceOffsets())

	_, err = ConstraintSetByName("sudoku")
	require.Error(t, err)
}

func TestFibonacciQuotients(t *testing.T) {
	field := testField(t)
	domain, err := NewDomain(field, 8, 4)
	require.NoError(t, err)
	trace, publicInputs := testTrace(t, field, 8)
	tracePoly, err := core.Interpolate(domain.TracePoints, trace)
	require.NoError(t, err)

	quotients, err := FibonacciConstraints{}.Quotients(tracePoly, domain, publicInputs)
	require.NoError(t, err)
	require.Len(t, quotients, 3)

	// Each quotient stays below the trace length, so the composition is FRI
	// provable. Transition numerator has degree <= 7 and its zerofier degree
	// 6; the boundary zerofiers are linear.
	require.Less(t, quotients[0].Degree(), 2)
	require.Less(t, quotients[1].Degree(), 7)
	require.Less(t, quotients[2].Degree(), 7)
}

func TestFibonacciQuotientsRejectBadTrace(t *testing.T) {
	field := testField(t)
	domain, err := NewDomain(field, 8, 4)
	require.NoError(t, err)
	trace, publicInputs := testTrace(t, field, 8)

	t.Run("broken recurrence", func(t *testing.T) {
		bad := append([]*core.FieldElement(nil), trace...)
		bad[5] = bad[5].Add(field.One())
		badPoly, err := core.Interpolate(domain.TracePoints, bad)
		require.NoError(t, err)
		_, err = FibonacciConstraints{}.Quotients(badPoly, domain, publicInputs)
		require.ErrorContains(t, err, "transition")
	})

	t.Run("wrong public input", func(t *testing.T) {
		tracePoly, err := core.Interpolate(domain.TracePoints, trace)
		require.NoError(t, err)
		_, err = FibonacciConstraints{}.Quotients(tracePoly, domain, elements(field, 2, 1))
		require.ErrorContains(t, err, "boundary")
	})

	t.Run("wrong public input count", func(t *testing.T) {
		tracePoly, err := core.Interpolate(domain.TracePoints, trace)
		require.NoError(t, err)
		_, err = FibonacciConstraints{}.Quotients(tracePoly, domain, elements(field, 1))
		require.Error(t, err)
	})
}

// TestEvalQuotientsMatchesQuotients pins the verifier-side point evaluation to
// the prover-side polynomial quotients at every LDE point.
func TestEvalQuotientsMatchesQuotients(t *testing.T) {
	field := testField(t)
	domain, err := NewDomain(field, 8, 4)
	require.NoError(t, err)
	trace, publicInputs := testTrace(t, field, 8)
	tracePoly, err := core.Interpolate(domain.TracePoints, trace)
	require.NoError(t, err)

	set := FibonacciConstraints{}
	quotients, err := set.Quotients(tracePoly, domain, publicInputs)
	require.NoError(t, err)

	for i, x := range domain.LDEPoints {
		traceValues := make([]*core.FieldElement, 3)
		for k, offset := range set.TraceOffsets() {
			traceValues[k] = tracePoly.Eval(x.Mul(domain.TraceGenerator.ExpUint64(uint64(offset))))
		}

		values, err := set.EvalQuotients(x, traceValues, domain, publicInputs)
		require.NoError(t, err)
		require.Len(t, values, 3)
		for c := range values {
			require.True(t, values[c].Equal(quotients[c].Eval(x)),
				"quotient %d disagrees at LDE point %d", c, i)
		}
	}
}

func TestEvalQuotientsRejectsBadShapes(t *testing.T) {
	field := testField(t)
	domain, err := NewDomain(field, 8, 4)
	require.NoError(t, err)
	x := domain.LDEPoints[0]

	_, err = FibonacciConstraints{}.EvalQuotients(x, elements(field, 1, 1), domain, elements(field, 1, 1))
	require.Error(t, err)
	_, err = FibonacciConstraints{}.EvalQuotients(x, elements(field, 1, 1, 2), domain, elements(field, 1))
	require.Error(t, err)
}
