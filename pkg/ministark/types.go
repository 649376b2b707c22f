package ministark

import (
	"github.com/ministark/ministark/internal/ministark/core"
	"github.com/ministark/ministark/internal/ministark/protocols"
)

// FieldElement represents an element in a finite field.
type FieldElement = core.FieldElement

// Field represents a finite field.
type Field = core.Field

// Digest is the fixed-size commitment digest.
type Digest = core.Digest

// Hasher is the pluggable collision-resistant hash function.
type Hasher = core.Hasher

// Parameters is the public configuration shared by prover and verifier.
type Parameters = protocols.Parameters

// Proof represents a STARK proof.
type Proof = protocols.StarkProof

// Result is the verifier's accept-or-reject outcome.
type Result = protocols.Result

// RejectReason classifies why a proof was rejected.
type RejectReason = protocols.RejectReason

// Rejection reasons re-exported for callers switching on Result.Reason.
const (
	ReasonMalformedProof      = protocols.ReasonMalformedProof
	ReasonMerkleInconsistency = protocols.ReasonMerkleInconsistency
	ReasonFoldingMismatch     = protocols.ReasonFoldingMismatch
	ReasonDegreeViolation     = protocols.ReasonDegreeViolation
	ReasonTranscriptDesync    = protocols.ReasonTranscriptDesync
)

// DefaultParameters returns parameters for the Fibonacci demo field.
func DefaultParameters() Parameters {
	return protocols.DefaultParameters()
}
