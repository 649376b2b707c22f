package protocols

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/ministark/ministark/internal/ministark/core"
)

// Transcript is a Fiat-Shamir state machine. It absorbs public data and
// commitments and produces deterministic pseudorandom challenges, replacing
// the verifier's coin flips of the interactive protocol.
//
// The state is a running digest plus a monotonically increasing counter; the
// counter is mixed into every hash input, so two challenge derivations
// without an intervening absorb still yield different values.
//
// A Transcript is strictly sequential and single-owner: prover and verifier
// must perform the exact same absorptions in the exact same order, and no
// concurrent mutation is allowed. That ordering is the load-bearing
// correctness invariant of the whole non-interactive protocol.
type Transcript struct {
	hasher  core.Hasher
	state   core.Digest
	counter uint64
}

// NewTranscript creates a transcript seeded with a domain-separation label.
func NewTranscript(hasher core.Hasher, label string) *Transcript {
	t := &Transcript{
		hasher: hasher,
		state:  hasher.Sum([]byte(label)),
	}
	return t
}

// AbsorbBytes feeds raw bytes into the transcript state.
func (t *Transcript) AbsorbBytes(data []byte) {
	buf := make([]byte, 0, core.DigestSize+8+len(data))
	buf = append(buf, t.state[:]...)
	buf = binary.LittleEndian.AppendUint64(buf, t.counter)
	buf = append(buf, data...)
	t.state = t.hasher.Sum(buf)
	t.counter++
}

// AbsorbDigest feeds a commitment digest into the transcript state.
func (t *Transcript) AbsorbDigest(d core.Digest) {
	t.AbsorbBytes(d[:])
}

// AbsorbFieldElements feeds a sequence of field elements into the transcript
// state using their canonical encodings.
func (t *Transcript) AbsorbFieldElements(elements []*core.FieldElement) {
	var buf []byte
	for _, e := range elements {
		buf = append(buf, e.Bytes()...)
	}
	t.AbsorbBytes(buf)
}

// squeeze derives one digest from the current state and advances the counter.
func (t *Transcript) squeeze() core.Digest {
	buf := make([]byte, 0, core.DigestSize+8)
	buf = append(buf, t.state[:]...)
	buf = binary.LittleEndian.AppendUint64(buf, t.counter)
	t.counter++
	return t.hasher.Sum(buf)
}

// ChallengeFieldElement derives a uniformly distributed field element.
//
// The raw digest is interpreted as an integer and rejected whenever it falls
// into the incomplete final interval above the largest multiple of the field
// order that fits in a digest; otherwise reduction modulo the order would
// bias small residues.
func (t *Transcript) ChallengeFieldElement(field *core.Field) *core.FieldElement {
	modulus := field.Modulus()
	digestBound := new(big.Int).Lsh(big.NewInt(1), core.DigestSize*8)
	limit := new(big.Int).Sub(digestBound, new(big.Int).Mod(digestBound, modulus))

	for {
		digest := t.squeeze()
		raw := new(big.Int).SetBytes(digest[:])
		if raw.Cmp(limit) < 0 {
			return field.NewElement(raw.Mod(raw, modulus))
		}
	}
}

// ChallengeIndex derives a uniformly distributed integer in [0, bound).
// Rejection sampling avoids modulo bias when bound is not a power of two.
func (t *Transcript) ChallengeIndex(bound int) (int, error) {
	if bound <= 0 {
		return 0, fmt.Errorf("challenge bound must be positive, got %d", bound)
	}
	b := uint64(bound)
	// Largest multiple of bound representable in 64 bits.
	limit := (^uint64(0) / b) * b

	for {
		digest := t.squeeze()
		raw := binary.LittleEndian.Uint64(digest[:8])
		if raw < limit {
			return int(raw % b), nil
		}
	}
}
