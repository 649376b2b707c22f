package ministark

import (
	"errors"

	"github.com/ministark/ministark/internal/ministark/core"
	"github.com/ministark/ministark/internal/ministark/protocols"
)

// Prove generates a serialized STARK proof for the given trace and public
// inputs.
func Prove(params Parameters, trace []*FieldElement, publicInputs []*FieldElement) ([]byte, error) {
	prover, err := protocols.NewProver(params)
	if err != nil {
		return nil, newError(ErrInvalidConfig, "cannot create prover", err)
	}
	proof, err := prover.Prove(trace, publicInputs)
	if err != nil {
		if errors.Is(err, protocols.ErrInvalidParameters) {
			return nil, newError(ErrInvalidTrace, "trace rejected", err)
		}
		return nil, newError(ErrProofGeneration, "proof generation failed", err)
	}
	encoded, err := proof.MarshalBinary()
	if err != nil {
		return nil, newError(ErrProofEncoding, "proof serialization failed", err)
	}
	return encoded, nil
}

// Verify checks a serialized STARK proof against the parameters and public
// inputs. The error return covers misconfiguration only; adversarial proofs
// come back as a rejecting Result.
func Verify(params Parameters, proofBytes []byte, publicInputs []*FieldElement) (Result, error) {
	verifier, err := protocols.NewVerifier(params)
	if err != nil {
		return Result{}, newError(ErrInvalidConfig, "cannot create verifier", err)
	}
	return verifier.VerifyBytes(publicInputs, proofBytes), nil
}

// FibonacciTrace builds the execution trace of the Fibonacci-like recurrence
// a[0]=1, a[1]=1, a[i]=a[i-1]+a[i-2] over the parameter field, with one row
// per trace cell.
func FibonacciTrace(params Parameters) ([]*FieldElement, error) {
	field, err := core.NewField(params.FieldModulus)
	if err != nil {
		return nil, newError(ErrInvalidConfig, "invalid field modulus", err)
	}
	if params.TraceLength < 2 {
		return nil, newError(ErrInvalidConfig, "trace length must be at least 2", nil)
	}
	trace := make([]*FieldElement, params.TraceLength)
	trace[0] = field.One()
	trace[1] = field.One()
	for i := 2; i < len(trace); i++ {
		trace[i] = trace[i-1].Add(trace[i-2])
	}
	return trace, nil
}
