// Package ministark provides a minimal STARK prover and verifier built from
// a Merkle vector commitment, a Fiat-Shamir transcript and the FRI
// low-degree test.
//
// # Features
//
// - Merkle commitments with per-index authentication paths
// - Deterministic Fiat-Shamir transcript (no external entropy in the core)
// - FRI low-degree proofs with explicit, iterative folding layers
// - A composable prover/verifier pair for algebraic execution traces
// - Pluggable 256-bit hash function and runtime-chosen prime field
// - Canonical, replay-resistant proof serialization
//
// # Quick Start
//
// Proving and verifying a Fibonacci-like trace:
//
//	params := ministark.DefaultParameters()
//	trace, err := ministark.FibonacciTrace(params)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	proofBytes, err := ministark.Prove(params, trace, trace[:2])
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := ministark.Verify(params, proofBytes, trace[:2])
//	if err != nil {
//		log.Fatal(err)
//	}
//	if result.Accepted {
//		fmt.Println("proof is valid")
//	}
//
// The verifier never errors on adversarial proofs; it rejects them with a
// reason. The returned error covers misconfiguration only.
package ministark
