package core

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func testField(t *testing.T) *Field {
	t.Helper()
	field, err := NewField(big.NewInt(97))
	require.NoError(t, err)
	return field
}

func TestNewFieldRejectsBadModuli(t *testing.T) {
	tests := []struct {
		name    string
		modulus int64
	}{
		{"two", 2},
		{"one", 1},
		{"composite", 91},
		{"even", 96},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewField(big.NewInt(tt.modulus))
			require.Error(t, err)
		})
	}
}

func TestFieldArithmetic(t *testing.T) {
	field := testField(t)

	a := field.NewElementFromInt64(6)
	b := field.NewElementFromInt64(3)

	require.True(t, a.Add(b).Equal(field.NewElementFromInt64(9)))
	require.True(t, a.Sub(b).Equal(field.NewElementFromInt64(3)))
	require.True(t, a.Mul(b).Equal(field.NewElementFromInt64(18)))
	require.True(t, b.Sub(a).Equal(field.NewElementFromInt64(94)))
	require.True(t, a.Neg().Add(a).IsZero())
}

func TestInverseForAllNonzeroElements(t *testing.T) {
	field := testField(t)
	one := field.One()

	for i := int64(1); i < 97; i++ {
		e := field.NewElementFromInt64(i)
		inv, err := e.Inverse()
		require.NoError(t, err)
		require.True(t, e.Mul(inv).Equal(one), "inverse of %d", i)
	}

	_, err := field.Zero().Inverse()
	require.Error(t, err)
}

func TestBatchInverseMatchesIndividual(t *testing.T) {
	field := testField(t)

	elements := make([]*FieldElement, 0, 40)
	for i := int64(1); i <= 40; i++ {
		elements = append(elements, field.NewElementFromInt64(i*7))
	}

	batched, err := BatchInverse(elements)
	require.NoError(t, err)
	require.Len(t, batched, len(elements))
	for i, e := range elements {
		inv, err := e.Inverse()
		require.NoError(t, err)
		require.True(t, batched[i].Equal(inv), "element %d", i)
	}
}

func TestBatchInverseRejectsZero(t *testing.T) {
	field := testField(t)
	_, err := BatchInverse([]*FieldElement{field.One(), field.Zero()})
	require.Error(t, err)
}

func TestGeneratorOfOrder(t *testing.T) {
	field := testField(t)

	// 96 = 2^5 * 3, so subgroups of orders 2, 4, 8, 16, 32 all exist.
	for _, order := range []uint64{2, 4, 8, 16, 32} {
		g, err := field.GeneratorOfOrder(order)
		require.NoError(t, err)
		require.True(t, g.ExpUint64(order).Equal(field.One()), "order %d", order)
		require.False(t, g.ExpUint64(order/2).Equal(field.One()), "order %d is not exact", order)
	}

	_, err := field.GeneratorOfOrder(64)
	require.Error(t, err, "64 does not divide 96")
}

func TestPrimitiveRootGeneratesWholeGroup(t *testing.T) {
	field := testField(t)
	g, err := field.PrimitiveRoot()
	require.NoError(t, err)

	seen := make(map[string]bool)
	power := field.One()
	for i := 0; i < 96; i++ {
		seen[power.String()] = true
		power = power.Mul(g)
	}
	require.Len(t, seen, 96)
}

func TestElementBytesRoundTrip(t *testing.T) {
	field := testField(t)
	require.Equal(t, 1, field.ElementSize())

	for i := int64(0); i < 97; i++ {
		e := field.NewElementFromInt64(i)
		decoded, err := field.ElementFromBytes(e.Bytes())
		require.NoError(t, err)
		require.True(t, decoded.Equal(e))
	}

	_, err := field.ElementFromBytes([]byte{97})
	require.Error(t, err, "non-canonical encoding must be rejected")
	_, err = field.ElementFromBytes([]byte{0, 0})
	require.Error(t, err, "wrong width must be rejected")
}

func TestElementBytesLittleEndianFixedWidth(t *testing.T) {
	field, err := NewField(big.NewInt(3221225473))
	require.NoError(t, err)
	require.Equal(t, 4, field.ElementSize())

	e := field.NewElementFromInt64(0x0102)
	require.Equal(t, []byte{0x02, 0x01, 0x00, 0x00}, e.Bytes())
}
