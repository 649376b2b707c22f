package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHasherRegistry(t *testing.T) {
	for _, id := range []byte{HasherSHA3, HasherSHA256, HasherBLAKE2b} {
		hasher, err := HasherByID(id)
		require.NoError(t, err)
		require.Equal(t, id, hasher.ID())
		require.NotEmpty(t, hasher.Name())
	}

	_, err := HasherByID(200)
	require.Error(t, err)
}

func TestHashersAreDeterministicAndDistinct(t *testing.T) {
	input := []byte("commitment payload")
	digests := make(map[Digest]string)

	for _, id := range []byte{HasherSHA3, HasherSHA256, HasherBLAKE2b} {
		hasher, err := HasherByID(id)
		require.NoError(t, err)

		first := hasher.Sum(input)
		second := hasher.Sum(input)
		require.Equal(t, first, second, "%s is not deterministic", hasher.Name())

		if previous, seen := digests[first]; seen {
			t.Fatalf("%s and %s collide on the same input", hasher.Name(), previous)
		}
		digests[first] = hasher.Name()

		changed := hasher.Sum(append([]byte("x"), input...))
		require.NotEqual(t, first, changed, "%s ignores input changes", hasher.Name())
	}
}

func TestDigestFromBytes(t *testing.T) {
	raw := make([]byte, DigestSize)
	for i := range raw {
		raw[i] = byte(i)
	}
	d, err := DigestFromBytes(raw)
	require.NoError(t, err)
	require.Equal(t, raw, d.Bytes())

	_, err = DigestFromBytes(raw[:31])
	require.Error(t, err)
}
