package protocols

import (
	"fmt"
	"time"

	"github.com/ministark/ministark/internal/ministark/core"
	"github.com/ministark/ministark/internal/ministark/logger"
)

// Prover produces STARK proofs for execution traces satisfying the
// configured constraint set.
type Prover struct {
	params      Parameters
	field       *core.Field
	hasher      core.Hasher
	domain      *Domain
	constraints ConstraintSet
}

// NewProver creates a prover for the given parameters. All parameter
// validation happens here, before any cryptographic work.
func NewProver(params Parameters) (*Prover, error) {
	field, hasher, domain, constraints, err := params.setup()
	if err != nil {
		return nil, err
	}
	return &Prover{
		params:      params,
		field:       field,
		hasher:      hasher,
		domain:      domain,
		constraints: constraints,
	}, nil
}

// Field returns the field the prover operates over.
func (p *Prover) Field() *core.Field {
	return p.field
}

// Prove generates a proof that the trace satisfies the constraint set with
// the given public inputs.
//
// The transcript absorption order is protocol-fixed and mirrored exactly by
// the verifier: parameters and public inputs, trace root, constraint
// coefficients, then one root and one folding challenge per FRI layer, the
// final constant, and last the query indices. Commit always precedes the
// challenge it feeds.
func (p *Prover) Prove(trace []*core.FieldElement, publicInputs []*core.FieldElement) (*StarkProof, error) {
	log := logger.Logger().With().Str("component", "prover").Logger()
	start := time.Now()

	if len(trace) != p.params.TraceLength {
		return nil, fmt.Errorf("%w: trace has %d rows, parameters fix %d", ErrInvalidParameters, len(trace), p.params.TraceLength)
	}
	if len(publicInputs) != p.constraints.NumPublicInputs() {
		return nil, fmt.Errorf("%w: constraint set %q needs %d public inputs, got %d",
			ErrInvalidParameters, p.constraints.Name(), p.constraints.NumPublicInputs(), len(publicInputs))
	}

	transcript := NewTranscript(p.hasher, transcriptLabel)
	transcript.AbsorbBytes(p.params.transcriptSeed())
	transcript.AbsorbFieldElements(publicInputs)

	// Trace commitment. The trace domain is a power-of-two subgroup, so the
	// FFT path applies; Lagrange interpolation would dominate the whole run.
	tracePoly, err := core.InterpolateSubgroup(p.domain.TraceGenerator, trace)
	if err != nil {
		return nil, fmt.Errorf("trace interpolation: %w", err)
	}
	traceLDE := tracePoly.EvalDomain(p.domain.LDEPoints)
	traceTree, err := commitCodeword(p.hasher, traceLDE)
	if err != nil {
		return nil, fmt.Errorf("trace commitment: %w", err)
	}
	transcript.AbsorbDigest(traceTree.Root())
	log.Debug().Str("root", fmt.Sprintf("%x", traceTree.Root().Bytes()[:8])).Msg("trace committed")

	// Constraint combination coefficients, derived only after the trace is
	// fixed.
	alphas := make([]*core.FieldElement, p.constraints.NumConstraints())
	for i := range alphas {
		alphas[i] = transcript.ChallengeFieldElement(p.field)
	}

	composition, err := p.composePolynomial(tracePoly, publicInputs, alphas)
	if err != nil {
		return nil, err
	}
	compositionCodeword := composition.EvalDomain(p.domain.LDEPoints)

	// FRI commit phase over the composition codeword. Its layer-0 root is
	// the composition commitment.
	commitment, err := friCommit(transcript, p.hasher, compositionCodeword, p.domain.LDEPoints, p.params.FRIRounds())
	if err != nil {
		return nil, fmt.Errorf("FRI commit: %w", err)
	}

	// Query phase: trace and FRI openings share the same indices.
	indices, err := p.sampleQueryIndices(transcript)
	if err != nil {
		return nil, err
	}

	proof := &StarkProof{
		TraceRoot:       traceTree.Root(),
		CompositionRoot: commitment.layers[0].tree.Root(),
		FinalConstant:   commitment.finalConstant,
	}
	for _, layer := range commitment.layers[1:] {
		proof.FRIRoots = append(proof.FRIRoots, layer.tree.Root())
	}

	for _, index := range indices {
		query, err := p.openQuery(index, traceLDE, traceTree, commitment)
		if err != nil {
			return nil, fmt.Errorf("query %d: %w", index, err)
		}
		proof.Queries = append(proof.Queries, query)
	}

	log.Debug().
		Int("queries", len(proof.Queries)).
		Int("friLayers", len(commitment.layers)).
		Dur("took", time.Since(start)).
		Msg("proof generated")
	return proof, nil
}

// composePolynomial builds the randomized linear combination of all
// constraint quotients. Its degree stays below the trace length, which is
// exactly the degree bound FRI certifies.
func (p *Prover) composePolynomial(tracePoly *core.Polynomial, publicInputs, alphas []*core.FieldElement) (*core.Polynomial, error) {
	quotients, err := p.constraints.Quotients(tracePoly, p.domain, publicInputs)
	if err != nil {
		return nil, fmt.Errorf("constraint quotients: %w", err)
	}
	if len(quotients) != len(alphas) {
		return nil, fmt.Errorf("constraint set produced %d quotients for %d coefficients", len(quotients), len(alphas))
	}

	composition := core.ZeroPolynomial(p.field)
	for i, quotient := range quotients {
		scaled, err := quotient.MulScalar(alphas[i])
		if err != nil {
			return nil, err
		}
		composition, err = composition.Add(scaled)
		if err != nil {
			return nil, err
		}
	}
	if composition.Degree() >= p.params.TraceLength {
		return nil, fmt.Errorf("composition degree %d exceeds bound %d", composition.Degree(), p.params.TraceLength)
	}
	return composition, nil
}

// sampleQueryIndices derives the query indices from the transcript, each
// addressing a folding pair in the first half of the LDE domain.
func (p *Prover) sampleQueryIndices(transcript *Transcript) ([]int, error) {
	indices := make([]int, p.params.NumQueries)
	for i := range indices {
		index, err := transcript.ChallengeIndex(p.params.LDESize() / 2)
		if err != nil {
			return nil, err
		}
		indices[i] = index
	}
	return indices, nil
}

// openQuery reveals everything the verifier needs for one query index.
func (p *Prover) openQuery(index int, traceLDE []*core.FieldElement, traceTree *core.MerkleTree, commitment *friCommitment) (QueryProof, error) {
	query := QueryProof{Index: index}
	ldeSize := p.domain.LDESize()

	for _, offset := range p.constraints.TraceOffsets() {
		traceIndex := (index + offset*p.params.BlowupFactor) % ldeSize
		path, err := traceTree.Open(traceIndex)
		if err != nil {
			return QueryProof{}, err
		}
		query.TraceOpenings = append(query.TraceOpenings, TraceOpening{
			Value: traceLDE[traceIndex],
			Path:  path,
		})
	}

	friOpenings, err := friOpen(commitment, index)
	if err != nil {
		return QueryProof{}, err
	}
	query.FRILayers = friOpenings
	return query, nil
}
