package protocols

import (
	"encoding/binary"
	"fmt"

	"github.com/ministark/ministark/internal/ministark/core"
	"github.com/ministark/ministark/internal/ministark/utils"
)

// ErrMalformedProof is wrapped by every structural decoding failure: wrong
// lengths, out-of-range indices, truncated or oversized byte streams. These
// are detected before any cryptographic check runs.
var ErrMalformedProof = fmt.Errorf("malformed proof")

// TraceOpening is one opened trace value with its authentication path.
type TraceOpening struct {
	Value *core.FieldElement
	Path  core.MerklePath
}

// FRIPairOpening is the pair of values one FRI layer reveals for a query,
// each with its authentication path against that layer's root.
type FRIPairOpening struct {
	Low      *core.FieldElement
	High     *core.FieldElement
	LowPath  core.MerklePath
	HighPath core.MerklePath
}

// QueryProof holds every opening belonging to one transcript-derived query
// index: the trace openings needed to re-evaluate the constraints and the
// per-layer FRI pair openings.
type QueryProof struct {
	Index         int
	TraceOpenings []TraceOpening
	FRILayers     []FRIPairOpening
}

// StarkProof is the self-describing output of the prover. Verification needs
// nothing beyond public parameters and this value. Immutable once built.
type StarkProof struct {
	TraceRoot       core.Digest
	CompositionRoot core.Digest
	// FRIRoots holds the roots of the folded layers 1..rounds-1. The layer-0
	// codeword is the composition codeword, so its root is CompositionRoot.
	FRIRoots      []core.Digest
	FinalConstant *core.FieldElement
	Queries       []QueryProof
}

// MarshalBinary encodes the proof into its canonical byte layout:
//
//	[trace_root:32][composition_root:32][fri_layer_roots...]
//	[final_constant][num_queries:u32]
//	[per query: index:u32, trace openings+paths, fri pair openings+paths]
//
// All integers are fixed-width little-endian; field elements use the field's
// fixed element size; every length is derivable from the parameters, so the
// encoding is unambiguous and free of self-description.
func (p *StarkProof) MarshalBinary() ([]byte, error) {
	out := append([]byte(nil), p.TraceRoot[:]...)
	out = append(out, p.CompositionRoot[:]...)
	for _, root := range p.FRIRoots {
		out = append(out, root[:]...)
	}
	out = append(out, p.FinalConstant.Bytes()...)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(p.Queries)))

	for _, query := range p.Queries {
		out = binary.LittleEndian.AppendUint32(out, uint32(query.Index))
		for _, opening := range query.TraceOpenings {
			out = append(out, opening.Value.Bytes()...)
			for _, sibling := range opening.Path.Siblings {
				out = append(out, sibling[:]...)
			}
		}
		for _, pair := range query.FRILayers {
			out = append(out, pair.Low.Bytes()...)
			for _, sibling := range pair.LowPath.Siblings {
				out = append(out, sibling[:]...)
			}
			out = append(out, pair.High.Bytes()...)
			for _, sibling := range pair.HighPath.Siblings {
				out = append(out, sibling[:]...)
			}
		}
	}
	return out, nil
}

// UnmarshalProof decodes a canonical proof encoding against the given
// parameters. Any structural mismatch is reported as ErrMalformedProof.
func UnmarshalProof(data []byte, params Parameters) (*StarkProof, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	field, err := core.NewField(params.FieldModulus)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParameters, err)
	}
	constraints, err := ConstraintSetByName(params.ConstraintSet)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParameters, err)
	}

	rounds := params.FRIRounds()
	ldeSize := params.LDESize()
	ldePathLen := utils.Log2(ldeSize)
	numOffsets := len(constraints.TraceOffsets())

	r := &proofReader{data: data, field: field}
	proof := &StarkProof{}

	proof.TraceRoot = r.digest()
	proof.CompositionRoot = r.digest()
	proof.FRIRoots = make([]core.Digest, rounds-1)
	for i := range proof.FRIRoots {
		proof.FRIRoots[i] = r.digest()
	}
	proof.FinalConstant = r.element()

	numQueries := int(r.uint32())
	if r.err == nil && numQueries != params.NumQueries {
		return nil, fmt.Errorf("%w: expected %d queries, got %d", ErrMalformedProof, params.NumQueries, numQueries)
	}

	for q := 0; q < numQueries && r.err == nil; q++ {
		index := int(r.uint32())
		if r.err == nil && index >= ldeSize/2 {
			return nil, fmt.Errorf("%w: query index %d out of range [0, %d)", ErrMalformedProof, index, ldeSize/2)
		}

		query := QueryProof{Index: index}
		for k := 0; k < numOffsets; k++ {
			traceIndex := (index + constraints.TraceOffsets()[k]*params.BlowupFactor) % ldeSize
			query.TraceOpenings = append(query.TraceOpenings, TraceOpening{
				Value: r.element(),
				Path:  r.path(traceIndex, ldePathLen),
			})
		}
		for layer := 0; layer < rounds; layer++ {
			half := (ldeSize >> layer) / 2
			low := index % half
			query.FRILayers = append(query.FRILayers, FRIPairOpening{
				Low:      r.element(),
				LowPath:  r.path(low, ldePathLen-layer),
				High:     r.element(),
				HighPath: r.path(low+half, ldePathLen-layer),
			})
		}
		proof.Queries = append(proof.Queries, query)
	}

	if r.err != nil {
		return nil, r.err
	}
	if r.offset != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrMalformedProof, len(data)-r.offset)
	}
	return proof, nil
}

// proofReader decodes fixed-width fields and records the first failure so
// call sites stay linear instead of error-checking every read.
type proofReader struct {
	data   []byte
	offset int
	field  *core.Field
	err    error
}

func (r *proofReader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.offset+n > len(r.data) {
		r.err = fmt.Errorf("%w: truncated at byte %d", ErrMalformedProof, len(r.data))
		return nil
	}
	out := r.data[r.offset : r.offset+n]
	r.offset += n
	return out
}

func (r *proofReader) digest() core.Digest {
	var d core.Digest
	if raw := r.take(core.DigestSize); raw != nil {
		copy(d[:], raw)
	}
	return d
}

func (r *proofReader) element() *core.FieldElement {
	raw := r.take(r.field.ElementSize())
	if raw == nil {
		return r.field.Zero()
	}
	element, err := r.field.ElementFromBytes(raw)
	if err != nil {
		r.err = fmt.Errorf("%w: %v", ErrMalformedProof, err)
		return r.field.Zero()
	}
	return element
}

func (r *proofReader) uint32() uint32 {
	raw := r.take(4)
	if raw == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(raw)
}

func (r *proofReader) path(index, length int) core.MerklePath {
	siblings := make([]core.Digest, length)
	for i := range siblings {
		siblings[i] = r.digest()
	}
	return core.MerklePath{Index: index, Siblings: siblings}
}
