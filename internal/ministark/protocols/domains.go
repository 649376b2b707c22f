package protocols

import (
	"fmt"

	"github.com/ministark/ministark/internal/ministark/core"
	"github.com/ministark/ministark/internal/ministark/utils"
)

// Domain holds the evaluation domains of one proof.
//
// The trace domain is the multiplicative subgroup of order TraceLength
// generated by TraceGenerator. The low-degree-extension domain is a coset
// Offset*<LDEGenerator> of order TraceLength*Blowup. The coset offset keeps
// the LDE domain disjoint from the trace domain, so constraint zerofiers
// never vanish at a queried point. Point arrays are precomputed once and
// shared read-only afterwards.
type Domain struct {
	Field       *core.Field
	TraceLength int
	Blowup      int

	TraceGenerator *core.FieldElement
	LDEGenerator   *core.FieldElement
	Offset         *core.FieldElement
	TracePoints    []*core.FieldElement
	LDEPoints      []*core.FieldElement
}

// NewDomain derives the trace and LDE domains for the given parameters. Both
// sizes must be powers of two, the LDE size must divide p-1 (so a root of
// unity of that order exists) and must be a proper divisor (so an offset
// coset disjoint from the subgroup exists).
func NewDomain(field *core.Field, traceLength, blowup int) (*Domain, error) {
	if !utils.IsPowerOfTwo(traceLength) {
		return nil, fmt.Errorf("trace length must be a power of two, got %d", traceLength)
	}
	if !utils.IsPowerOfTwo(blowup) || blowup < 2 {
		return nil, fmt.Errorf("blowup factor must be a power of two >= 2, got %d", blowup)
	}

	ldeSize := traceLength * blowup
	ldeGenerator, err := field.GeneratorOfOrder(uint64(ldeSize))
	if err != nil {
		return nil, fmt.Errorf("no LDE domain of size %d: %w", ldeSize, err)
	}
	traceGenerator := ldeGenerator.ExpUint64(uint64(blowup))

	offset, err := field.PrimitiveRoot()
	if err != nil {
		return nil, err
	}
	// A primitive root generates all of F_p^*; it lies in the LDE subgroup
	// only when that subgroup is the whole group.
	if offset.ExpUint64(uint64(ldeSize)).Equal(field.One()) {
		return nil, fmt.Errorf("LDE domain of size %d covers the whole multiplicative group, no coset offset available", ldeSize)
	}

	return &Domain{
		Field:          field,
		TraceLength:    traceLength,
		Blowup:         blowup,
		TraceGenerator: traceGenerator,
		LDEGenerator:   ldeGenerator,
		Offset:         offset,
		TracePoints:    enumeratePowers(traceGenerator, traceLength, field.One()),
		LDEPoints:      enumeratePowers(ldeGenerator, ldeSize, offset),
	}, nil
}

// LDESize returns the size of the low-degree-extension domain.
func (d *Domain) LDESize() int {
	return d.TraceLength * d.Blowup
}

// LDEPoint returns the LDE domain point at the given index, wrapping around
// the domain size.
func (d *Domain) LDEPoint(index int) *core.FieldElement {
	return d.LDEPoints[index%len(d.LDEPoints)]
}

func enumeratePowers(generator *core.FieldElement, count int, offset *core.FieldElement) []*core.FieldElement {
	points := make([]*core.FieldElement, count)
	power := offset
	for i := range points {
		points[i] = power
		power = power.Mul(generator)
	}
	return points
}
