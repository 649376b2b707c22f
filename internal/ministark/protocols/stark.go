package protocols

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/ministark/ministark/internal/ministark/core"
	"github.com/ministark/ministark/internal/ministark/utils"
)

// transcriptLabel is the domain-separation label every ministark transcript
// starts from. Changing it invalidates all previously issued proofs.
const transcriptLabel = "ministark-v1"

// ErrInvalidParameters is wrapped by every parameter-validation failure.
// The prover returns it before any cryptographic work begins.
var ErrInvalidParameters = fmt.Errorf("invalid parameters")

// Parameters is the explicit public configuration shared by prover and
// verifier. Both sides must agree on every field; the whole encoding is
// absorbed into the transcript before any commitment.
type Parameters struct {
	// FieldModulus is the prime order of the field all arithmetic runs in.
	FieldModulus *big.Int

	// TraceLength is the number of rows in the execution trace. Must be a
	// power of two >= 4. It is also the claimed FRI degree bound.
	TraceLength int

	// BlowupFactor is the ratio between the evaluation domain and the trace
	// domain. Must be a power of two >= 2.
	BlowupFactor int

	// NumQueries is the number of FRI query rounds. Trace openings reuse the
	// same transcript-derived indices as the FRI queries.
	NumQueries int

	// HasherID selects the collision-resistant hash for Merkle commitments
	// and the transcript.
	HasherID byte

	// ConstraintSet names the registered constraint system binding the trace.
	ConstraintSet string
}

// DefaultParameters returns parameters for the Fibonacci demo over the
// 3*2^30+1 field.
func DefaultParameters() Parameters {
	return Parameters{
		FieldModulus:  big.NewInt(3221225473),
		TraceLength:   1024,
		BlowupFactor:  4,
		NumQueries:    40,
		HasherID:      core.HasherSHA3,
		ConstraintSet: "fibonacci",
	}
}

// Validate checks the parameters for structural soundness. Field-related
// checks (primality, domain existence) happen when the domain is derived.
func (p Parameters) Validate() error {
	if p.FieldModulus == nil || p.FieldModulus.Cmp(big.NewInt(2)) <= 0 {
		return fmt.Errorf("%w: field modulus must be a prime > 2", ErrInvalidParameters)
	}
	if !utils.IsPowerOfTwo(p.TraceLength) || p.TraceLength < 4 {
		return fmt.Errorf("%w: trace length must be a power of two >= 4, got %d", ErrInvalidParameters, p.TraceLength)
	}
	if !utils.IsPowerOfTwo(p.BlowupFactor) || p.BlowupFactor < 2 {
		return fmt.Errorf("%w: blowup factor must be a power of two >= 2, got %d", ErrInvalidParameters, p.BlowupFactor)
	}
	if p.NumQueries < 1 {
		return fmt.Errorf("%w: at least one FRI query is required, got %d", ErrInvalidParameters, p.NumQueries)
	}
	if _, err := core.HasherByID(p.HasherID); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParameters, err)
	}
	if _, err := ConstraintSetByName(p.ConstraintSet); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParameters, err)
	}
	return nil
}

// FRIRounds returns the number of committed FRI folding layers. Folding
// halves the degree bound each round, from TraceLength down to 1.
func (p Parameters) FRIRounds() int {
	return utils.Log2(p.TraceLength)
}

// LDESize returns the low-degree-extension domain size.
func (p Parameters) LDESize() int {
	return p.TraceLength * p.BlowupFactor
}

// transcriptSeed is the canonical parameter encoding absorbed at transcript
// initialization: it binds a proof to the exact public configuration.
func (p Parameters) transcriptSeed() []byte {
	modulusBytes := p.FieldModulus.Bytes()
	seed := binary.LittleEndian.AppendUint32(nil, uint32(len(modulusBytes)))
	seed = append(seed, modulusBytes...)
	seed = binary.LittleEndian.AppendUint32(seed, uint32(p.TraceLength))
	seed = binary.LittleEndian.AppendUint32(seed, uint32(p.BlowupFactor))
	seed = binary.LittleEndian.AppendUint32(seed, uint32(p.NumQueries))
	seed = append(seed, p.HasherID)
	seed = append(seed, []byte(p.ConstraintSet)...)
	return seed
}

// setup resolves a validated parameter set into its concrete collaborators.
func (p Parameters) setup() (*core.Field, core.Hasher, *Domain, ConstraintSet, error) {
	if err := p.Validate(); err != nil {
		return nil, nil, nil, nil, err
	}
	field, err := core.NewField(p.FieldModulus)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("%w: %v", ErrInvalidParameters, err)
	}
	hasher, err := core.HasherByID(p.HasherID)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("%w: %v", ErrInvalidParameters, err)
	}
	domain, err := NewDomain(field, p.TraceLength, p.BlowupFactor)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("%w: %v", ErrInvalidParameters, err)
	}
	constraints, err := ConstraintSetByName(p.ConstraintSet)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("%w: %v", ErrInvalidParameters, err)
	}
	return field, hasher, domain, constraints, nil
}
