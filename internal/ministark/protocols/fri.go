package protocols

import (
	"fmt"

	"github.com/ministark/ministark/internal/ministark/core"
	"github.com/ministark/ministark/internal/ministark/utils"
)

// friLayer is one committed folding round: the evaluation codeword, its
// domain points and the Merkle tree over the codeword.
type friLayer struct {
	codeword []*core.FieldElement
	points   []*core.FieldElement
	tree     *core.MerkleTree
}

// friCommitment is the prover-side output of the FRI commit phase: the
// ordered committed layers plus the final constant, which is absorbed into
// the transcript directly instead of being Merkle-committed.
type friCommitment struct {
	layers        []*friLayer
	finalConstant *core.FieldElement
}

// friCommit runs the FRI commit phase over the given codeword.
//
// Folding is an explicit loop over layers, never recursion: each round
// commits the current codeword, absorbs its root, derives the folding
// challenge and halves the domain, until the degree bound reaches 1 and the
// remaining codeword collapses to a single constant. The layer-0 root doubles
// as the composition commitment; commit-then-challenge ordering is what makes
// the folding challenge unpredictable before the codeword is fixed.
func friCommit(transcript *Transcript, hasher core.Hasher, codeword, points []*core.FieldElement, rounds int) (*friCommitment, error) {
	if len(codeword) != len(points) {
		return nil, fmt.Errorf("codeword and domain length mismatch: %d != %d", len(codeword), len(points))
	}
	if !utils.IsPowerOfTwo(len(codeword)) {
		return nil, fmt.Errorf("codeword length must be a power of two, got %d", len(codeword))
	}
	if rounds < 1 || len(codeword)>>rounds < 2 {
		return nil, fmt.Errorf("cannot fold a codeword of length %d over %d rounds", len(codeword), rounds)
	}

	commitment := &friCommitment{}
	for round := 0; round < rounds; round++ {
		tree, err := commitCodeword(hasher, codeword)
		if err != nil {
			return nil, fmt.Errorf("FRI layer %d commitment: %w", round, err)
		}
		commitment.layers = append(commitment.layers, &friLayer{
			codeword: codeword,
			points:   points,
			tree:     tree,
		})
		transcript.AbsorbDigest(tree.Root())

		alpha := transcript.ChallengeFieldElement(points[0].Field())
		codeword, points, err = foldCodeword(codeword, points, alpha)
		if err != nil {
			return nil, fmt.Errorf("FRI fold %d: %w", round, err)
		}
	}

	// The remaining codeword must be constant; anything else means the
	// committed polynomial exceeded its claimed degree bound.
	constant := codeword[0]
	for i, value := range codeword {
		if !value.Equal(constant) {
			return nil, fmt.Errorf("final FRI codeword is not constant at position %d", i)
		}
	}
	commitment.finalConstant = constant
	transcript.AbsorbFieldElements([]*core.FieldElement{constant})

	return commitment, nil
}

// foldCodeword folds an evaluation codeword in half with the challenge alpha:
//
//	f'(x^2) = (f(x) + f(-x))/2 + alpha * (f(x) - f(-x))/(2x)
//
// The domain pairs index i with i+n/2, since the second half of a
// power-of-two coset holds the negations of the first half.
func foldCodeword(codeword, points []*core.FieldElement, alpha *core.FieldElement) ([]*core.FieldElement, []*core.FieldElement, error) {
	n := len(codeword)
	if n%2 != 0 {
		return nil, nil, fmt.Errorf("codeword length must be even, got %d", n)
	}
	half := n / 2
	field := alpha.Field()

	twoXs := make([]*core.FieldElement, half)
	for i := 0; i < half; i++ {
		twoXs[i] = points[i].Add(points[i])
	}
	twoXInverses, err := core.BatchInverse(twoXs)
	if err != nil {
		return nil, nil, err
	}
	twoInverse, err := field.NewElementFromInt64(2).Inverse()
	if err != nil {
		return nil, nil, err
	}

	next := make([]*core.FieldElement, half)
	nextPoints := make([]*core.FieldElement, half)
	utils.Parallelize(half, func(start, end int) {
		for i := start; i < end; i++ {
			sum := codeword[i].Add(codeword[i+half]).Mul(twoInverse)
			diff := codeword[i].Sub(codeword[i+half]).Mul(twoXInverses[i]).Mul(alpha)
			next[i] = sum.Add(diff)
			nextPoints[i] = points[i].Mul(points[i])
		}
	})
	return next, nextPoints, nil
}

// friOpen produces the openings for one query index across every committed
// layer. The index addresses the first half of layer 0; at each layer the
// opened pair is (index mod n/2, index mod n/2 + n/2), so the verifier can
// chain the folded value of one layer into the opening of the next.
func friOpen(commitment *friCommitment, index int) ([]FRIPairOpening, error) {
	layer0Half := len(commitment.layers[0].codeword) / 2
	if index < 0 || index >= layer0Half {
		return nil, fmt.Errorf("FRI query index %d out of range [0, %d)", index, layer0Half)
	}

	openings := make([]FRIPairOpening, 0, len(commitment.layers))
	for _, layer := range commitment.layers {
		half := len(layer.codeword) / 2
		low := index % half
		high := low + half

		lowPath, err := layer.tree.Open(low)
		if err != nil {
			return nil, err
		}
		highPath, err := layer.tree.Open(high)
		if err != nil {
			return nil, err
		}
		openings = append(openings, FRIPairOpening{
			Low:      layer.codeword[low],
			High:     layer.codeword[high],
			LowPath:  lowPath,
			HighPath: highPath,
		})
	}
	return openings, nil
}

// commitCodeword builds the Merkle tree over a codeword, one leaf digest per
// evaluation. Leaf hashing is data-parallel.
func commitCodeword(hasher core.Hasher, codeword []*core.FieldElement) (*core.MerkleTree, error) {
	leaves := make([]core.Digest, len(codeword))
	utils.Parallelize(len(codeword), func(start, end int) {
		for i := start; i < end; i++ {
			leaves[i] = hasher.Sum(codeword[i].Bytes())
		}
	})
	return core.NewMerkleTree(hasher, leaves)
}
