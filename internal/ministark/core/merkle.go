package core

import (
	"fmt"

	"github.com/ministark/ministark/internal/ministark/utils"
)

// Merkle tree errors surfaced to callers. Structural problems caught during
// construction or opening, before any verification takes place.
var (
	ErrEmptyLeaves     = fmt.Errorf("cannot build Merkle tree with no leaves")
	ErrIndexOutOfRange = fmt.Errorf("leaf index out of range")
)

// MerkleTree commits to an ordered sequence of leaf digests. Nodes live in a
// flat arena indexed so that node i has children 2i+1 and 2i+2 and the root
// is node 0. The tree is built once and immutable afterwards.
type MerkleTree struct {
	hasher    Hasher
	nodes     []Digest
	numLeaves int
}

// MerklePath is an authentication path for one leaf: the sibling digest at
// each level, ordered leaf-to-root, plus the leaf index. Paths are derived
// views; they do not keep the tree alive.
type MerklePath struct {
	Index    int
	Siblings []Digest
}

// NewMerkleTree builds a Merkle tree over the given leaves. If the leaf count
// is not a power of two, the last leaf is repeated up to the next power of
// two; this padding rule is deterministic and never drops data. Level builds
// fan out over a worker pool, with a barrier between levels.
func NewMerkleTree(hasher Hasher, leaves []Digest) (*MerkleTree, error) {
	if len(leaves) == 0 {
		return nil, ErrEmptyLeaves
	}

	numLeaves := utils.NextPowerOfTwo(len(leaves))
	nodes := make([]Digest, 2*numLeaves-1)

	leafOffset := numLeaves - 1
	copy(nodes[leafOffset:], leaves)
	for i := leafOffset + len(leaves); i < len(nodes); i++ {
		nodes[i] = leaves[len(leaves)-1]
	}

	// Internal levels bottom-up. Level i+1 requires all of level i, so each
	// level is a separate parallel pass.
	for levelSize := numLeaves / 2; levelSize >= 1; levelSize /= 2 {
		offset := levelSize - 1
		utils.Parallelize(levelSize, func(start, end int) {
			for i := offset + start; i < offset+end; i++ {
				nodes[i] = hashPair(hasher, nodes[2*i+1], nodes[2*i+2])
			}
		})
	}

	return &MerkleTree{
		hasher:    hasher,
		nodes:     nodes,
		numLeaves: numLeaves,
	}, nil
}

// Root returns the root digest.
func (mt *MerkleTree) Root() Digest {
	return mt.nodes[0]
}

// NumLeaves returns the padded leaf count.
func (mt *MerkleTree) NumLeaves() int {
	return mt.numLeaves
}

// Leaf returns the (possibly padded) leaf digest at the given index.
func (mt *MerkleTree) Leaf(index int) (Digest, error) {
	if index < 0 || index >= mt.numLeaves {
		return Digest{}, fmt.Errorf("%w: %d >= %d", ErrIndexOutOfRange, index, mt.numLeaves)
	}
	return mt.nodes[mt.numLeaves-1+index], nil
}

// Open returns the authentication path for the leaf at the given index.
func (mt *MerkleTree) Open(index int) (MerklePath, error) {
	if index < 0 || index >= mt.numLeaves {
		return MerklePath{}, fmt.Errorf("%w: %d >= %d", ErrIndexOutOfRange, index, mt.numLeaves)
	}

	siblings := make([]Digest, 0, utils.Log2(mt.numLeaves))
	node := mt.numLeaves - 1 + index
	for node > 0 {
		sibling := node + 1
		if node%2 == 0 {
			sibling = node - 1
		}
		siblings = append(siblings, mt.nodes[sibling])
		node = (node - 1) / 2
	}
	return MerklePath{Index: index, Siblings: siblings}, nil
}

// VerifyPath recomputes the root from a leaf and its authentication path and
// compares it to the claimed root. Bit b of the index, least significant
// first, selects whether the running hash is the left or right operand at
// level b. Pure and side-effect free; the single authority for path validity.
func VerifyPath(hasher Hasher, root Digest, index int, leaf Digest, path MerklePath) bool {
	if index < 0 || path.Index != index {
		return false
	}
	if index >= 1<<len(path.Siblings) {
		return false
	}

	current := leaf
	for level, sibling := range path.Siblings {
		if index>>level&1 == 0 {
			current = hashPair(hasher, current, sibling)
		} else {
			current = hashPair(hasher, sibling, current)
		}
	}
	return current == root
}

func hashPair(hasher Hasher, left, right Digest) Digest {
	var buf [2 * DigestSize]byte
	copy(buf[:DigestSize], left[:])
	copy(buf[DigestSize:], right[:])
	return hasher.Sum(buf[:])
}
