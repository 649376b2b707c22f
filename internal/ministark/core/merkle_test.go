package core

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
)

func leavesFromSeeds(hasher Hasher, seeds []uint64) []Digest {
	leaves := make([]Digest, len(seeds))
	for i, seed := range seeds {
		leaves[i] = hasher.Sum([]byte{byte(seed), byte(seed >> 8), byte(seed >> 16), byte(i)})
	}
	return leaves
}

func TestMerkleTreeRejectsEmptyInput(t *testing.T) {
	_, err := NewMerkleTree(NewSHA3Hasher(), nil)
	require.ErrorIs(t, err, ErrEmptyLeaves)
}

func TestMerkleOpenVerifyAllIndices(t *testing.T) {
	hasher := NewSHA3Hasher()

	for _, size := range []int{1, 2, 4, 8, 64} {
		seeds := make([]uint64, size)
		for i := range seeds {
			seeds[i] = uint64(i * 31)
		}
		leaves := leavesFromSeeds(hasher, seeds)
		tree, err := NewMerkleTree(hasher, leaves)
		require.NoError(t, err)

		for i := 0; i < size; i++ {
			path, err := tree.Open(i)
			require.NoError(t, err)
			require.True(t, VerifyPath(hasher, tree.Root(), i, leaves[i], path), "size %d index %d", size, i)
		}

		_, err = tree.Open(tree.NumLeaves())
		require.ErrorIs(t, err, ErrIndexOutOfRange)
		_, err = tree.Open(-1)
		require.ErrorIs(t, err, ErrIndexOutOfRange)
	}
}

func TestMerklePaddingRepeatsLastLeaf(t *testing.T) {
	hasher := NewSHA3Hasher()

	leaves := leavesFromSeeds(hasher, []uint64{1, 2, 3, 4, 5})
	padded := append(append([]Digest{}, leaves...), leaves[4], leaves[4], leaves[4])

	tree, err := NewMerkleTree(hasher, leaves)
	require.NoError(t, err)
	explicit, err := NewMerkleTree(hasher, padded)
	require.NoError(t, err)

	require.Equal(t, 8, tree.NumLeaves())
	require.Equal(t, explicit.Root(), tree.Root())

	// Padded positions open and verify like any other leaf.
	path, err := tree.Open(7)
	require.NoError(t, err)
	require.True(t, VerifyPath(hasher, tree.Root(), 7, leaves[4], path))
}

func TestMerkleVerifyRejectsCorruption(t *testing.T) {
	hasher := NewSHA3Hasher()
	seeds := make([]uint64, 16)
	for i := range seeds {
		seeds[i] = uint64(i)*13 + 7
	}
	leaves := leavesFromSeeds(hasher, seeds)
	tree, err := NewMerkleTree(hasher, leaves)
	require.NoError(t, err)

	index := 5
	path, err := tree.Open(index)
	require.NoError(t, err)
	require.True(t, VerifyPath(hasher, tree.Root(), index, leaves[index], path))

	t.Run("corrupted leaf", func(t *testing.T) {
		badLeaf := leaves[index]
		badLeaf[0] ^= 0x01
		require.False(t, VerifyPath(hasher, tree.Root(), index, badLeaf, path))
	})

	t.Run("corrupted sibling", func(t *testing.T) {
		badPath := MerklePath{Index: path.Index, Siblings: append([]Digest{}, path.Siblings...)}
		badPath.Siblings[2][31] ^= 0x80
		require.False(t, VerifyPath(hasher, tree.Root(), index, leaves[index], badPath))
	})

	t.Run("corrupted root", func(t *testing.T) {
		badRoot := tree.Root()
		badRoot[16] ^= 0x10
		require.False(t, VerifyPath(hasher, badRoot, index, leaves[index], badPath(path)))
	})

	t.Run("wrong index", func(t *testing.T) {
		require.False(t, VerifyPath(hasher, tree.Root(), index+1, leaves[index], path))
	})

	t.Run("truncated path", func(t *testing.T) {
		short := MerklePath{Index: path.Index, Siblings: path.Siblings[:len(path.Siblings)-1]}
		require.False(t, VerifyPath(hasher, tree.Root(), index, leaves[index], short))
	})
}

func badPath(p MerklePath) MerklePath {
	return MerklePath{Index: p.Index, Siblings: append([]Digest{}, p.Siblings...)}
}

func TestMerkleProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)
	hasher := NewSHA3Hasher()

	properties.Property("verify(open(i)) holds for every leaf set", prop.ForAll(
		func(seeds []uint64, rawIndex uint64) bool {
			if len(seeds) == 0 {
				seeds = []uint64{42}
			}
			leaves := leavesFromSeeds(hasher, seeds)
			tree, err := NewMerkleTree(hasher, leaves)
			if err != nil {
				return false
			}
			index := int(rawIndex % uint64(len(leaves)))
			path, err := tree.Open(index)
			if err != nil {
				return false
			}
			return VerifyPath(hasher, tree.Root(), index, leaves[index], path)
		},
		gen.SliceOf(gen.UInt64()),
		gen.UInt64(),
	))

	properties.Property("single bit flip in the leaf breaks verification", prop.ForAll(
		func(seeds []uint64, rawIndex uint64, bit uint8) bool {
			if len(seeds) == 0 {
				seeds = []uint64{42}
			}
			leaves := leavesFromSeeds(hasher, seeds)
			tree, err := NewMerkleTree(hasher, leaves)
			if err != nil {
				return false
			}
			index := int(rawIndex % uint64(len(leaves)))
			path, err := tree.Open(index)
			if err != nil {
				return false
			}
			corrupted := leaves[index]
			corrupted[int(bit)%DigestSize] ^= 1 << (bit % 8)
			return !VerifyPath(hasher, tree.Root(), index, corrupted, path)
		},
		gen.SliceOf(gen.UInt64()),
		gen.UInt64(),
		gen.UInt8(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
