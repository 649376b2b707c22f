package protocols

import (
	"fmt"
	"time"

	"github.com/ministark/ministark/internal/ministark/core"
	"github.com/ministark/ministark/internal/ministark/logger"
)

// RejectReason classifies why a proof was rejected.
type RejectReason int

const (
	// ReasonNone marks an accepted proof.
	ReasonNone RejectReason = iota

	// ReasonMalformedProof covers structural defects: wrong lengths,
	// out-of-range indices, truncated streams, replayed indices that do not
	// match the transcript. Detected before or instead of cryptographic
	// checks.
	ReasonMalformedProof

	// ReasonMerkleInconsistency means an authentication path does not hash
	// to the claimed root.
	ReasonMerkleInconsistency

	// ReasonFoldingMismatch means a recomputed value disagrees with an
	// opened one: either the constraint composition at a queried point or a
	// FRI fold against the next layer.
	ReasonFoldingMismatch

	// ReasonDegreeViolation means the final FRI constant is inconsistent
	// with the folded openings, implying the committed polynomial exceeded
	// its claimed degree bound.
	ReasonDegreeViolation

	// ReasonTranscriptDesync signals a protocol-ordering bug inside this
	// implementation, not an adversarial proof. Should never occur.
	ReasonTranscriptDesync
)

// String implements fmt.Stringer.
func (r RejectReason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonMalformedProof:
		return "malformed proof"
	case ReasonMerkleInconsistency:
		return "merkle inconsistency"
	case ReasonFoldingMismatch:
		return "folding mismatch"
	case ReasonDegreeViolation:
		return "degree violation"
	case ReasonTranscriptDesync:
		return "transcript desync"
	default:
		return fmt.Sprintf("unknown reason %d", int(r))
	}
}

// Result is the verifier's single boundary value: Accept, or Reject with a
// reason. Verification never panics on adversarial input.
type Result struct {
	Accepted bool
	Reason   RejectReason
	Detail   string
}

// Accept returns an accepting result.
func Accept() Result {
	return Result{Accepted: true}
}

// Reject returns a rejecting result with the given reason and detail.
func Reject(reason RejectReason, format string, args ...any) Result {
	return Result{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

// String implements fmt.Stringer.
func (r Result) String() string {
	if r.Accepted {
		return "accept"
	}
	return fmt.Sprintf("reject (%s): %s", r.Reason, r.Detail)
}

// Verifier checks STARK proofs against public parameters and inputs. It
// holds no secret state: everything it uses is recomputed from the proof and
// the parameters, in the exact transcript order the prover used.
type Verifier struct {
	params      Parameters
	field       *core.Field
	hasher      core.Hasher
	domain      *Domain
	constraints ConstraintSet

	// layerPoints[l] holds the FRI layer-l domain: layer 0 is the LDE coset,
	// each next layer the squares of the previous first half.
	layerPoints [][]*core.FieldElement
}

// NewVerifier creates a verifier for the given parameters.
func NewVerifier(params Parameters) (*Verifier, error) {
	field, hasher, domain, constraints, err := params.setup()
	if err != nil {
		return nil, err
	}

	layerPoints := make([][]*core.FieldElement, params.FRIRounds())
	layerPoints[0] = domain.LDEPoints
	for l := 1; l < len(layerPoints); l++ {
		previous := layerPoints[l-1]
		layerPoints[l] = make([]*core.FieldElement, len(previous)/2)
		for i := range layerPoints[l] {
			layerPoints[l][i] = previous[i].Mul(previous[i])
		}
	}

	return &Verifier{
		params:      params,
		field:       field,
		hasher:      hasher,
		domain:      domain,
		constraints: constraints,
		layerPoints: layerPoints,
	}, nil
}

// VerifyBytes decodes a serialized proof and verifies it. Decoding failures
// reject as malformed, never error out.
func (v *Verifier) VerifyBytes(publicInputs []*core.FieldElement, proofBytes []byte) Result {
	proof, err := UnmarshalProof(proofBytes, v.params)
	if err != nil {
		return Reject(ReasonMalformedProof, "%v", err)
	}
	return v.Verify(publicInputs, proof)
}

// Verify checks a proof. It recomputes every transcript derivation in
// lockstep with the prover's fixed order, validates all Merkle openings,
// re-evaluates the constraint composition at each queried point and runs the
// full FRI folding check. The first failing check rejects the whole proof.
func (v *Verifier) Verify(publicInputs []*core.FieldElement, proof *StarkProof) Result {
	log := logger.Logger().With().Str("component", "verifier").Logger()
	start := time.Now()

	if result := v.checkShape(publicInputs, proof); !result.Accepted {
		return result
	}

	// Transcript replay: identical absorption order is what makes the
	// challenges below equal the prover's.
	transcript := NewTranscript(v.hasher, transcriptLabel)
	transcript.AbsorbBytes(v.params.transcriptSeed())
	transcript.AbsorbFieldElements(publicInputs)
	transcript.AbsorbDigest(proof.TraceRoot)

	alphas := make([]*core.FieldElement, v.constraints.NumConstraints())
	for i := range alphas {
		alphas[i] = transcript.ChallengeFieldElement(v.field)
	}

	rounds := v.params.FRIRounds()
	friAlphas := make([]*core.FieldElement, rounds)
	for l := 0; l < rounds; l++ {
		transcript.AbsorbDigest(v.layerRoot(proof, l))
		friAlphas[l] = transcript.ChallengeFieldElement(v.field)
	}
	transcript.AbsorbFieldElements([]*core.FieldElement{proof.FinalConstant})

	for q, query := range proof.Queries {
		expectedIndex, err := transcript.ChallengeIndex(v.params.LDESize() / 2)
		if err != nil {
			return Reject(ReasonTranscriptDesync, "query index derivation: %v", err)
		}
		if query.Index != expectedIndex {
			return Reject(ReasonMalformedProof, "query %d replays index %d, transcript fixes %d", q, query.Index, expectedIndex)
		}

		if result := v.verifyQuery(publicInputs, proof, query, alphas, friAlphas); !result.Accepted {
			return result
		}
	}

	log.Debug().
		Int("queries", len(proof.Queries)).
		Dur("took", time.Since(start)).
		Msg("proof accepted")
	return Accept()
}

// checkShape runs every structural check before any hashing: counts, path
// lengths and index ranges must match what the parameters dictate.
func (v *Verifier) checkShape(publicInputs []*core.FieldElement, proof *StarkProof) Result {
	if len(publicInputs) != v.constraints.NumPublicInputs() {
		return Reject(ReasonMalformedProof, "constraint set %q needs %d public inputs, got %d",
			v.constraints.Name(), v.constraints.NumPublicInputs(), len(publicInputs))
	}
	if proof.FinalConstant == nil {
		return Reject(ReasonMalformedProof, "missing final FRI constant")
	}

	rounds := v.params.FRIRounds()
	if len(proof.FRIRoots) != rounds-1 {
		return Reject(ReasonMalformedProof, "expected %d FRI layer roots, got %d", rounds-1, len(proof.FRIRoots))
	}
	if len(proof.Queries) != v.params.NumQueries {
		return Reject(ReasonMalformedProof, "expected %d queries, got %d", v.params.NumQueries, len(proof.Queries))
	}

	ldeSize := v.params.LDESize()
	numOffsets := len(v.constraints.TraceOffsets())
	for q, query := range proof.Queries {
		if query.Index < 0 || query.Index >= ldeSize/2 {
			return Reject(ReasonMalformedProof, "query %d index %d out of range [0, %d)", q, query.Index, ldeSize/2)
		}
		if len(query.TraceOpenings) != numOffsets {
			return Reject(ReasonMalformedProof, "query %d has %d trace openings, expected %d", q, len(query.TraceOpenings), numOffsets)
		}
		if len(query.FRILayers) != rounds {
			return Reject(ReasonMalformedProof, "query %d has %d FRI layers, expected %d", q, len(query.FRILayers), rounds)
		}
	}
	return Accept()
}

// verifyQuery checks one query index end to end: trace openings, the
// composition relation at the queried point, and the FRI folding chain down
// to the final constant.
func (v *Verifier) verifyQuery(publicInputs []*core.FieldElement, proof *StarkProof, query QueryProof, alphas, friAlphas []*core.FieldElement) Result {
	ldeSize := v.params.LDESize()

	// Trace openings.
	traceValues := make([]*core.FieldElement, len(query.TraceOpenings))
	for k, offset := range v.constraints.TraceOffsets() {
		traceIndex := (query.Index + offset*v.params.BlowupFactor) % ldeSize
		opening := query.TraceOpenings[k]
		leaf := v.hasher.Sum(opening.Value.Bytes())
		if !core.VerifyPath(v.hasher, proof.TraceRoot, traceIndex, leaf, opening.Path) {
			return Reject(ReasonMerkleInconsistency, "trace opening at index %d does not match the trace root", traceIndex)
		}
		traceValues[k] = opening.Value
	}

	// Composition relation: the randomized combination of the constraint
	// quotients, re-evaluated from opened trace values, must equal the
	// committed composition value, which is the FRI layer-0 low opening.
	x := v.domain.LDEPoint(query.Index)
	quotientValues, err := v.constraints.EvalQuotients(x, traceValues, v.domain, publicInputs)
	if err != nil {
		return Reject(ReasonTranscriptDesync, "constraint evaluation: %v", err)
	}
	expected := v.field.Zero()
	for i, value := range quotientValues {
		expected = expected.Add(value.Mul(alphas[i]))
	}
	if !expected.Equal(query.FRILayers[0].Low) {
		return Reject(ReasonFoldingMismatch, "composition value at index %d disagrees with opened trace values", query.Index)
	}

	// FRI folding chain.
	for l, pair := range query.FRILayers {
		half := (ldeSize >> l) / 2
		low := query.Index % half
		root := v.layerRoot(proof, l)

		if !core.VerifyPath(v.hasher, root, low, v.hasher.Sum(pair.Low.Bytes()), pair.LowPath) {
			return Reject(ReasonMerkleInconsistency, "FRI layer %d low opening at index %d does not match its root", l, low)
		}
		if !core.VerifyPath(v.hasher, root, low+half, v.hasher.Sum(pair.High.Bytes()), pair.HighPath) {
			return Reject(ReasonMerkleInconsistency, "FRI layer %d high opening at index %d does not match its root", l, low+half)
		}

		folded, err := v.foldPair(pair, v.layerPoints[l][low], friAlphas[l])
		if err != nil {
			return Reject(ReasonTranscriptDesync, "FRI fold at layer %d: %v", l, err)
		}

		if l == len(query.FRILayers)-1 {
			if !folded.Equal(proof.FinalConstant) {
				return Reject(ReasonDegreeViolation, "final fold at index %d disagrees with the committed constant", low)
			}
			break
		}

		// The folded value lands at index `low` of the next layer, which is
		// either the low or the high element of the next opened pair.
		nextHalf := half / 2
		next := query.FRILayers[l+1].Low
		if low >= nextHalf {
			next = query.FRILayers[l+1].High
		}
		if !folded.Equal(next) {
			return Reject(ReasonFoldingMismatch, "fold of layer %d disagrees with the opening of layer %d", l, l+1)
		}
	}

	return Accept()
}

// foldPair recomputes one folding step from an opened pair.
func (v *Verifier) foldPair(pair FRIPairOpening, x, alpha *core.FieldElement) (*core.FieldElement, error) {
	twoInverse, err := v.field.NewElementFromInt64(2).Inverse()
	if err != nil {
		return nil, err
	}
	twoXInverse, err := x.Add(x).Inverse()
	if err != nil {
		return nil, err
	}
	sum := pair.Low.Add(pair.High).Mul(twoInverse)
	diff := pair.Low.Sub(pair.High).Mul(twoXInverse).Mul(alpha)
	return sum.Add(diff), nil
}

// layerRoot returns the committed root of FRI layer l; layer 0 is the
// composition commitment.
func (v *Verifier) layerRoot(proof *StarkProof, l int) core.Digest {
	if l == 0 {
		return proof.CompositionRoot
	}
	return proof.FRIRoots[l-1]
}
