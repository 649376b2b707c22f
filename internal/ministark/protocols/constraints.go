package protocols

import (
	"fmt"

	"github.com/ministark/ministark/internal/ministark/core"
)

// ConstraintSet describes the algebraic constraints of one computation as
// quotient polynomials over the trace domain. Constraint systems are supplied
// from outside the core and selected by name in Parameters; the core never
// inspects their algebraic structure beyond degree bookkeeping.
//
// The prover side works in coefficient form: each constraint divides out its
// zerofier exactly, and a non-zero remainder means the trace violates the
// constraint. The verifier side recomputes the same quotient values at one
// point from opened trace values only, with no access to the trace
// polynomial.
type ConstraintSet interface {
	// Name returns the registry name of the constraint set.
	Name() string

	// NumConstraints returns how many quotients the set produces.
	NumConstraints() int

	// NumPublicInputs returns how many public input elements the set binds.
	NumPublicInputs() int

	// TraceOffsets lists the trace-generator multiples at which a queried
	// point needs trace openings. Offset k stands for the value t(omega^k * x).
	TraceOffsets() []int

	// Quotients builds the constraint quotient polynomials for a trace
	// polynomial satisfying the constraints.
	Quotients(trace *core.Polynomial, domain *Domain, publicInputs []*core.FieldElement) ([]*core.Polynomial, error)

	// EvalQuotients computes the quotient values at the point x from the
	// opened trace values, ordered as TraceOffsets.
	EvalQuotients(x *core.FieldElement, traceValues []*core.FieldElement, domain *Domain, publicInputs []*core.FieldElement) ([]*core.FieldElement, error)
}

// ConstraintSetByName returns the constraint set registered under the given
// name.
func ConstraintSetByName(name string) (ConstraintSet, error) {
	switch name {
	case "fibonacci":
		return FibonacciConstraints{}, nil
	default:
		return nil, fmt.Errorf("unknown constraint set %q", name)
	}
}

// FibonacciConstraints pins a single-column trace to a Fibonacci-like
// recurrence: the first two trace cells equal the two public inputs, and
// every later cell is the sum of the two before it.
type FibonacciConstraints struct{}

// Name implements ConstraintSet.
func (FibonacciConstraints) Name() string { return "fibonacci" }

// NumConstraints implements ConstraintSet: one transition constraint and two
// boundary constraints.
func (FibonacciConstraints) NumConstraints() int { return 3 }

// NumPublicInputs implements ConstraintSet.
func (FibonacciConstraints) NumPublicInputs() int { return 2 }

// TraceOffsets implements ConstraintSet: the transition constraint relates
// t(x), t(omega*x) and t(omega^2*x).
func (FibonacciConstraints) TraceOffsets() []int { return []int{0, 1, 2} }

// Quotients implements ConstraintSet.
func (FibonacciConstraints) Quotients(trace *core.Polynomial, domain *Domain, publicInputs []*core.FieldElement) ([]*core.Polynomial, error) {
	if len(publicInputs) != 2 {
		return nil, fmt.Errorf("fibonacci constraints need 2 public inputs, got %d", len(publicInputs))
	}
	field := domain.Field

	// Transition: t(omega^2 x) - t(omega x) - t(x) vanishes on the first
	// T-2 trace points.
	shiftedOnce, err := trace.ScaleInput(domain.TraceGenerator)
	if err != nil {
		return nil, err
	}
	shiftedTwice, err := shiftedOnce.ScaleInput(domain.TraceGenerator)
	if err != nil {
		return nil, err
	}
	transition, err := shiftedTwice.Sub(shiftedOnce)
	if err != nil {
		return nil, err
	}
	transition, err = transition.Sub(trace)
	if err != nil {
		return nil, err
	}
	transitionZerofier, err := core.Zerofier(field, domain.TracePoints[:domain.TraceLength-2])
	if err != nil {
		return nil, err
	}
	transitionQuotient, err := exactDiv(transition, transitionZerofier, "transition")
	if err != nil {
		return nil, err
	}

	quotients := []*core.Polynomial{transitionQuotient}

	// Boundary: t pinned to the public inputs at the first two trace points.
	for i := 0; i < 2; i++ {
		pinned, err := core.NewPolynomial([]*core.FieldElement{publicInputs[i]})
		if err != nil {
			return nil, err
		}
		numerator, err := trace.Sub(pinned)
		if err != nil {
			return nil, err
		}
		zerofier, err := core.Zerofier(field, domain.TracePoints[i:i+1])
		if err != nil {
			return nil, err
		}
		quotient, err := exactDiv(numerator, zerofier, fmt.Sprintf("boundary %d", i))
		if err != nil {
			return nil, err
		}
		quotients = append(quotients, quotient)
	}

	return quotients, nil
}

// EvalQuotients implements ConstraintSet.
func (FibonacciConstraints) EvalQuotients(x *core.FieldElement, traceValues []*core.FieldElement, domain *Domain, publicInputs []*core.FieldElement) ([]*core.FieldElement, error) {
	if len(traceValues) != 3 {
		return nil, fmt.Errorf("fibonacci constraints need 3 trace openings, got %d", len(traceValues))
	}
	if len(publicInputs) != 2 {
		return nil, fmt.Errorf("fibonacci constraints need 2 public inputs, got %d", len(publicInputs))
	}
	field := domain.Field

	// Transition zerofier value: prod of (x - omega^i) over the first T-2
	// trace points. Never zero because x lies on the offset coset.
	zerofier := field.One()
	for _, point := range domain.TracePoints[:domain.TraceLength-2] {
		zerofier = zerofier.Mul(x.Sub(point))
	}
	numerator := traceValues[2].Sub(traceValues[1]).Sub(traceValues[0])
	transition, err := numerator.Div(zerofier)
	if err != nil {
		return nil, fmt.Errorf("transition zerofier vanished at queried point: %w", err)
	}

	values := []*core.FieldElement{transition}
	for i := 0; i < 2; i++ {
		boundary, err := traceValues[0].Sub(publicInputs[i]).Div(x.Sub(domain.TracePoints[i]))
		if err != nil {
			return nil, fmt.Errorf("boundary zerofier vanished at queried point: %w", err)
		}
		values = append(values, boundary)
	}
	return values, nil
}

// exactDiv divides numerator by denominator and fails when the division
// leaves a remainder, which means the trace does not satisfy the constraint.
func exactDiv(numerator, denominator *core.Polynomial, constraint string) (*core.Polynomial, error) {
	quotient, remainder, err := numerator.Div(denominator)
	if err != nil {
		return nil, err
	}
	if !remainder.IsZero() {
		return nil, fmt.Errorf("trace does not satisfy the %s constraint", constraint)
	}
	return quotient, nil
}
