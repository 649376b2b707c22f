package core

import (
	"fmt"
	"math/big"
)

// Field represents a prime field F_p with modular arithmetic operations.
// The modulus is chosen at runtime so the same commitment and FRI logic can
// run over small test fields and production-sized fields alike.
type Field struct {
	modulus  *big.Int
	elemSize int
}

// FieldElement represents an element in a finite field.
// Elements are immutable; every operation returns a fresh element.
type FieldElement struct {
	field *Field
	value *big.Int
}

// NewField creates a new prime field with the given modulus.
func NewField(modulus *big.Int) (*Field, error) {
	if modulus.Cmp(big.NewInt(2)) <= 0 {
		return nil, fmt.Errorf("field modulus must be greater than 2")
	}
	if !modulus.ProbablyPrime(20) {
		return nil, fmt.Errorf("field modulus %s is not prime", modulus.String())
	}
	return &Field{
		modulus:  new(big.Int).Set(modulus),
		elemSize: (modulus.BitLen() + 7) / 8,
	}, nil
}

// NewFieldFromUint64 creates a new prime field with the given modulus.
func NewFieldFromUint64(modulus uint64) (*Field, error) {
	return NewField(new(big.Int).SetUint64(modulus))
}

// Modulus returns a copy of the field modulus.
func (f *Field) Modulus() *big.Int {
	return new(big.Int).Set(f.modulus)
}

// ElementSize returns the canonical encoded width of one field element in
// bytes. All serialized elements of this field occupy exactly this many bytes.
func (f *Field) ElementSize() int {
	return f.elemSize
}

// Equals reports whether two fields have the same modulus.
func (f *Field) Equals(other *Field) bool {
	if f == other {
		return true
	}
	return f.modulus.Cmp(other.modulus) == 0
}

// NewElement creates a field element from a big.Int, reduced into [0, p).
func (f *Field) NewElement(value *big.Int) *FieldElement {
	normalized := new(big.Int).Mod(value, f.modulus)
	if normalized.Sign() < 0 {
		normalized.Add(normalized, f.modulus)
	}
	return &FieldElement{field: f, value: normalized}
}

// NewElementFromInt64 creates a field element from an int64.
func (f *Field) NewElementFromInt64(value int64) *FieldElement {
	return f.NewElement(big.NewInt(value))
}

// NewElementFromUint64 creates a field element from a uint64.
func (f *Field) NewElementFromUint64(value uint64) *FieldElement {
	return f.NewElement(new(big.Int).SetUint64(value))
}

// Zero returns the additive identity.
func (f *Field) Zero() *FieldElement {
	return f.NewElement(big.NewInt(0))
}

// One returns the multiplicative identity.
func (f *Field) One() *FieldElement {
	return f.NewElement(big.NewInt(1))
}

// ElementFromBytes decodes a fixed-width little-endian element produced by
// FieldElement.Bytes. The value must be canonical, i.e. less than the modulus.
func (f *Field) ElementFromBytes(data []byte) (*FieldElement, error) {
	if len(data) != f.elemSize {
		return nil, fmt.Errorf("element encoding must be %d bytes, got %d", f.elemSize, len(data))
	}
	be := make([]byte, len(data))
	for i, b := range data {
		be[len(data)-1-i] = b
	}
	value := new(big.Int).SetBytes(be)
	if value.Cmp(f.modulus) >= 0 {
		return nil, fmt.Errorf("element value exceeds field modulus")
	}
	return &FieldElement{field: f, value: value}, nil
}

// GeneratorOfOrder returns an element of exact multiplicative order n.
// n must divide p-1; returns an error otherwise.
func (f *Field) GeneratorOfOrder(n uint64) (*FieldElement, error) {
	if n == 0 {
		return nil, fmt.Errorf("order must be positive")
	}
	pMinusOne := new(big.Int).Sub(f.modulus, big.NewInt(1))
	order := new(big.Int).SetUint64(n)
	if new(big.Int).Mod(pMinusOne, order).Sign() != 0 {
		return nil, fmt.Errorf("order %d does not divide p-1 = %s", n, pMinusOne.String())
	}

	g, err := f.PrimitiveRoot()
	if err != nil {
		return nil, err
	}

	// g has order p-1, so g^((p-1)/n) has order exactly n.
	exponent := new(big.Int).Div(pMinusOne, order)
	return g.Exp(exponent), nil
}

// PrimitiveRoot finds a generator of the full multiplicative group F_p^*.
// Candidates are checked against every prime factor of p-1; factoring is by
// trial division, which is fine for the modulus sizes this core targets.
func (f *Field) PrimitiveRoot() (*FieldElement, error) {
	pMinusOne := new(big.Int).Sub(f.modulus, big.NewInt(1))
	factors := primeFactors(new(big.Int).Set(pMinusOne))

	one := big.NewInt(1)
	for candidate := int64(2); ; candidate++ {
		c := big.NewInt(candidate)
		if c.Cmp(f.modulus) >= 0 {
			return nil, fmt.Errorf("no primitive root found for modulus %s", f.modulus.String())
		}
		isGenerator := true
		for _, q := range factors {
			exponent := new(big.Int).Div(pMinusOne, q)
			if new(big.Int).Exp(c, exponent, f.modulus).Cmp(one) == 0 {
				isGenerator = false
				break
			}
		}
		if isGenerator {
			return f.NewElement(c), nil
		}
	}
}

// primeFactors returns the distinct prime factors of n by trial division.
func primeFactors(n *big.Int) []*big.Int {
	var factors []*big.Int
	remainder := new(big.Int).Set(n)
	divisor := big.NewInt(2)
	zero := big.NewInt(0)
	for new(big.Int).Mul(divisor, divisor).Cmp(remainder) <= 0 {
		if new(big.Int).Mod(remainder, divisor).Cmp(zero) == 0 {
			factors = append(factors, new(big.Int).Set(divisor))
			for new(big.Int).Mod(remainder, divisor).Cmp(zero) == 0 {
				remainder.Div(remainder, divisor)
			}
		}
		divisor = new(big.Int).Add(divisor, big.NewInt(1))
	}
	if remainder.Cmp(big.NewInt(1)) > 0 {
		factors = append(factors, remainder)
	}
	return factors
}

// Big returns a copy of the element value.
func (fe *FieldElement) Big() *big.Int {
	return new(big.Int).Set(fe.value)
}

// Uint64 returns the element value as a uint64. Only meaningful for fields
// with a modulus that fits in 64 bits.
func (fe *FieldElement) Uint64() uint64 {
	return fe.value.Uint64()
}

// Field returns the field this element belongs to.
func (fe *FieldElement) Field() *Field {
	return fe.field
}

// Add performs field addition.
func (fe *FieldElement) Add(other *FieldElement) *FieldElement {
	if !fe.field.Equals(other.field) {
		panic("cannot add elements from different fields")
	}
	return fe.field.NewElement(new(big.Int).Add(fe.value, other.value))
}

// Sub performs field subtraction.
func (fe *FieldElement) Sub(other *FieldElement) *FieldElement {
	if !fe.field.Equals(other.field) {
		panic("cannot subtract elements from different fields")
	}
	return fe.field.NewElement(new(big.Int).Sub(fe.value, other.value))
}

// Mul performs field multiplication.
func (fe *FieldElement) Mul(other *FieldElement) *FieldElement {
	if !fe.field.Equals(other.field) {
		panic("cannot multiply elements from different fields")
	}
	return fe.field.NewElement(new(big.Int).Mul(fe.value, other.value))
}

// Neg returns the additive inverse.
func (fe *FieldElement) Neg() *FieldElement {
	return fe.field.NewElement(new(big.Int).Neg(fe.value))
}

// Inverse returns the multiplicative inverse.
func (fe *FieldElement) Inverse() (*FieldElement, error) {
	if fe.IsZero() {
		return nil, fmt.Errorf("zero has no multiplicative inverse")
	}
	inv := new(big.Int).ModInverse(fe.value, fe.field.modulus)
	if inv == nil {
		return nil, fmt.Errorf("element %s is not invertible", fe.value.String())
	}
	return fe.field.NewElement(inv), nil
}

// Div performs field division.
func (fe *FieldElement) Div(other *FieldElement) (*FieldElement, error) {
	inv, err := other.Inverse()
	if err != nil {
		return nil, fmt.Errorf("division failed: %w", err)
	}
	return fe.Mul(inv), nil
}

// Exp raises the element to the given power.
func (fe *FieldElement) Exp(exponent *big.Int) *FieldElement {
	return fe.field.NewElement(new(big.Int).Exp(fe.value, exponent, fe.field.modulus))
}

// ExpUint64 raises the element to the given power.
func (fe *FieldElement) ExpUint64(exponent uint64) *FieldElement {
	return fe.Exp(new(big.Int).SetUint64(exponent))
}

// Equal reports whether two elements are equal.
func (fe *FieldElement) Equal(other *FieldElement) bool {
	return fe.field.Equals(other.field) && fe.value.Cmp(other.value) == 0
}

// IsZero reports whether the element is the additive identity.
func (fe *FieldElement) IsZero() bool {
	return fe.value.Sign() == 0
}

// Bytes returns the canonical fixed-width little-endian encoding of the
// element. The width is Field.ElementSize.
func (fe *FieldElement) Bytes() []byte {
	be := fe.value.Bytes()
	out := make([]byte, fe.field.elemSize)
	for i, b := range be {
		out[len(be)-1-i] = b
	}
	return out
}

// String returns the decimal representation of the element value.
func (fe *FieldElement) String() string {
	return fe.value.String()
}

// BatchInverse inverts all elements at once using Montgomery's trick:
// one field inversion plus 3(n-1) multiplications. Returns an error if any
// input is zero.
func BatchInverse(elements []*FieldElement) ([]*FieldElement, error) {
	if len(elements) == 0 {
		return nil, nil
	}
	field := elements[0].field

	// Prefix products: partials[i] = e[0] * ... * e[i].
	partials := make([]*FieldElement, len(elements))
	accumulator := field.One()
	for i, e := range elements {
		if e.IsZero() {
			return nil, fmt.Errorf("cannot batch invert: element %d is zero", i)
		}
		accumulator = accumulator.Mul(e)
		partials[i] = accumulator
	}

	inverse, err := accumulator.Inverse()
	if err != nil {
		return nil, err
	}

	inverses := make([]*FieldElement, len(elements))
	for i := len(elements) - 1; i > 0; i-- {
		inverses[i] = inverse.Mul(partials[i-1])
		inverse = inverse.Mul(elements[i])
	}
	inverses[0] = inverse
	return inverses, nil
}
