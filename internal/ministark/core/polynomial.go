package core

import (
	"fmt"

	"github.com/ministark/ministark/internal/ministark/utils"
)

// Polynomial represents a dense polynomial with coefficients in a finite
// field, lowest degree first.
type Polynomial struct {
	coefficients []*FieldElement
	field        *Field
}

// NewPolynomial creates a new polynomial from field elements, lowest degree
// first. Leading zero coefficients are trimmed.
func NewPolynomial(coefficients []*FieldElement) (*Polynomial, error) {
	if len(coefficients) == 0 {
		return nil, fmt.Errorf("polynomial must have at least one coefficient")
	}

	field := coefficients[0].Field()
	for i, coeff := range coefficients {
		if !coeff.Field().Equals(field) {
			return nil, fmt.Errorf("coefficient %d is from a different field", i)
		}
	}

	trimmed := coefficients[:1]
	for i := len(coefficients) - 1; i >= 0; i-- {
		if !coefficients[i].IsZero() {
			trimmed = coefficients[:i+1]
			break
		}
	}

	out := make([]*FieldElement, len(trimmed))
	copy(out, trimmed)
	if len(out) == 1 && out[0].IsZero() {
		out[0] = field.Zero()
	}

	return &Polynomial{coefficients: out, field: field}, nil
}

// NewPolynomialFromInt64 creates a polynomial from int64 coefficients.
func NewPolynomialFromInt64(field *Field, coefficients []int64) (*Polynomial, error) {
	fieldCoeffs := make([]*FieldElement, len(coefficients))
	for i, coeff := range coefficients {
		fieldCoeffs[i] = field.NewElementFromInt64(coeff)
	}
	return NewPolynomial(fieldCoeffs)
}

// ZeroPolynomial returns the zero polynomial over the given field.
func ZeroPolynomial(field *Field) *Polynomial {
	return &Polynomial{coefficients: []*FieldElement{field.Zero()}, field: field}
}

// Degree returns the degree of the polynomial. The zero polynomial has
// degree 0 by this convention.
func (p *Polynomial) Degree() int {
	return len(p.coefficients) - 1
}

// IsZero reports whether the polynomial is identically zero.
func (p *Polynomial) IsZero() bool {
	return len(p.coefficients) == 1 && p.coefficients[0].IsZero()
}

// Field returns the field the polynomial is defined over.
func (p *Polynomial) Field() *Field {
	return p.field
}

// Coefficient returns the coefficient of the given degree, or zero for
// degrees beyond the polynomial's degree.
func (p *Polynomial) Coefficient(degree int) *FieldElement {
	if degree < 0 || degree >= len(p.coefficients) {
		return p.field.Zero()
	}
	return p.coefficients[degree]
}

// LeadingCoefficient returns the highest-degree coefficient.
func (p *Polynomial) LeadingCoefficient() *FieldElement {
	return p.coefficients[len(p.coefficients)-1]
}

// Eval evaluates the polynomial at the given point using Horner's method.
func (p *Polynomial) Eval(point *FieldElement) *FieldElement {
	result := p.field.Zero()
	for i := len(p.coefficients) - 1; i >= 0; i-- {
		result = result.Mul(point).Add(p.coefficients[i])
	}
	return result
}

// EvalDomain evaluates the polynomial at every point of the given domain.
// Points are independent, so the work fans out across a worker pool.
func (p *Polynomial) EvalDomain(points []*FieldElement) []*FieldElement {
	evaluations := make([]*FieldElement, len(points))
	utils.Parallelize(len(points), func(start, end int) {
		for i := start; i < end; i++ {
			evaluations[i] = p.Eval(points[i])
		}
	})
	return evaluations
}

// Add returns the sum of two polynomials.
func (p *Polynomial) Add(other *Polynomial) (*Polynomial, error) {
	if !p.field.Equals(other.field) {
		return nil, fmt.Errorf("polynomials are from different fields")
	}
	size := max(len(p.coefficients), len(other.coefficients))
	coeffs := make([]*FieldElement, size)
	for i := range coeffs {
		coeffs[i] = p.Coefficient(i).Add(other.Coefficient(i))
	}
	return NewPolynomial(coeffs)
}

// Sub returns the difference of two polynomials.
func (p *Polynomial) Sub(other *Polynomial) (*Polynomial, error) {
	if !p.field.Equals(other.field) {
		return nil, fmt.Errorf("polynomials are from different fields")
	}
	size := max(len(p.coefficients), len(other.coefficients))
	coeffs := make([]*FieldElement, size)
	for i := range coeffs {
		coeffs[i] = p.Coefficient(i).Sub(other.Coefficient(i))
	}
	return NewPolynomial(coeffs)
}

// Mul returns the product of two polynomials.
func (p *Polynomial) Mul(other *Polynomial) (*Polynomial, error) {
	if !p.field.Equals(other.field) {
		return nil, fmt.Errorf("polynomials are from different fields")
	}
	if p.IsZero() || other.IsZero() {
		return ZeroPolynomial(p.field), nil
	}
	coeffs := make([]*FieldElement, len(p.coefficients)+len(other.coefficients)-1)
	for i := range coeffs {
		coeffs[i] = p.field.Zero()
	}
	for i, a := range p.coefficients {
		for j, b := range other.coefficients {
			coeffs[i+j] = coeffs[i+j].Add(a.Mul(b))
		}
	}
	return NewPolynomial(coeffs)
}

// MulScalar multiplies every coefficient by a scalar.
func (p *Polynomial) MulScalar(scalar *FieldElement) (*Polynomial, error) {
	coeffs := make([]*FieldElement, len(p.coefficients))
	for i, c := range p.coefficients {
		coeffs[i] = c.Mul(scalar)
	}
	return NewPolynomial(coeffs)
}

// ScaleInput substitutes c*x for x, returning the polynomial q with
// q(x) = p(c*x). The coefficient of degree i is scaled by c^i.
func (p *Polynomial) ScaleInput(c *FieldElement) (*Polynomial, error) {
	coeffs := make([]*FieldElement, len(p.coefficients))
	power := p.field.One()
	for i, coeff := range p.coefficients {
		coeffs[i] = coeff.Mul(power)
		power = power.Mul(c)
	}
	return NewPolynomial(coeffs)
}

// Div performs polynomial long division, returning quotient and remainder
// such that p = q*other + r with deg(r) < deg(other).
func (p *Polynomial) Div(other *Polynomial) (*Polynomial, *Polynomial, error) {
	if !p.field.Equals(other.field) {
		return nil, nil, fmt.Errorf("polynomials are from different fields")
	}
	if other.IsZero() {
		return nil, nil, fmt.Errorf("division by zero polynomial")
	}
	if p.Degree() < other.Degree() {
		quotient := ZeroPolynomial(p.field)
		remainder, err := NewPolynomial(p.coefficients)
		return quotient, remainder, err
	}

	leadInv, err := other.LeadingCoefficient().Inverse()
	if err != nil {
		return nil, nil, fmt.Errorf("divisor leading coefficient: %w", err)
	}

	remainder := make([]*FieldElement, len(p.coefficients))
	copy(remainder, p.coefficients)
	quotient := make([]*FieldElement, p.Degree()-other.Degree()+1)
	for i := range quotient {
		quotient[i] = p.field.Zero()
	}

	for degree := len(remainder) - 1; degree >= other.Degree(); degree-- {
		if remainder[degree].IsZero() {
			continue
		}
		factor := remainder[degree].Mul(leadInv)
		shift := degree - other.Degree()
		quotient[shift] = factor
		for i, c := range other.coefficients {
			remainder[shift+i] = remainder[shift+i].Sub(factor.Mul(c))
		}
	}

	quotientPoly, err := NewPolynomial(quotient)
	if err != nil {
		return nil, nil, err
	}
	remainderPoly, err := NewPolynomial(remainder)
	if err != nil {
		return nil, nil, err
	}
	return quotientPoly, remainderPoly, nil
}

// Interpolate returns the unique polynomial of degree < len(xs) passing
// through all (xs[i], ys[i]) pairs, via Lagrange interpolation.
func Interpolate(xs, ys []*FieldElement) (*Polynomial, error) {
	if len(xs) == 0 || len(xs) != len(ys) {
		return nil, fmt.Errorf("interpolation needs equal, non-empty point and value slices (got %d, %d)", len(xs), len(ys))
	}
	field := xs[0].Field()

	result := ZeroPolynomial(field)
	for i := range xs {
		// Build the i-th Lagrange basis polynomial scaled by ys[i].
		basis, err := NewPolynomial([]*FieldElement{ys[i]})
		if err != nil {
			return nil, err
		}
		for j := range xs {
			if j == i {
				continue
			}
			denominator := xs[i].Sub(xs[j])
			denomInv, err := denominator.Inverse()
			if err != nil {
				return nil, fmt.Errorf("interpolation points %d and %d coincide", i, j)
			}
			// (x - xs[j]) / (xs[i] - xs[j])
			factor, err := NewPolynomial([]*FieldElement{
				xs[j].Neg().Mul(denomInv),
				denomInv,
			})
			if err != nil {
				return nil, err
			}
			basis, err = basis.Mul(factor)
			if err != nil {
				return nil, err
			}
		}
		result, err = result.Add(basis)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// InterpolateSubgroup returns the unique polynomial of degree < len(ys) with
// p(g^i) = ys[i] over the multiplicative subgroup generated by g, via an
// inverse radix-2 FFT. The subgroup order must be a power of two and g must
// have exactly that order. Quadratic Lagrange interpolation is far too slow
// for trace-sized domains; this runs in O(n log n).
func InterpolateSubgroup(generator *FieldElement, ys []*FieldElement) (*Polynomial, error) {
	n := len(ys)
	if n == 0 {
		return nil, fmt.Errorf("interpolation needs at least one value")
	}
	if !utils.IsPowerOfTwo(n) {
		return nil, fmt.Errorf("subgroup interpolation needs a power-of-two domain, got %d values", n)
	}
	field := generator.Field()
	if n == 1 {
		return NewPolynomial(ys[:1])
	}
	if !generator.ExpUint64(uint64(n)).Equal(field.One()) || generator.ExpUint64(uint64(n/2)).Equal(field.One()) {
		return nil, fmt.Errorf("generator order does not match domain size %d", n)
	}

	generatorInv, err := generator.Inverse()
	if err != nil {
		return nil, err
	}
	nInv, err := field.NewElementFromInt64(int64(n)).Inverse()
	if err != nil {
		return nil, err
	}

	// coeffs[k] = (1/n) * sum_i ys[i] * g^(-ik): the forward transform with
	// the inverse root, scaled by 1/n.
	coeffs := fft(ys, generatorInv)
	for i := range coeffs {
		coeffs[i] = coeffs[i].Mul(nInv)
	}
	return NewPolynomial(coeffs)
}

// fft computes the discrete Fourier transform out[k] = sum_j values[j] *
// root^(jk) with an iterative Cooley-Tukey butterfly. len(values) must be a
// power of two and root a primitive root of unity of that order.
func fft(values []*FieldElement, root *FieldElement) []*FieldElement {
	n := len(values)
	bits := utils.Log2(n)

	out := make([]*FieldElement, n)
	for i, value := range values {
		out[bitReverse(i, bits)] = value
	}

	for size := 2; size <= n; size <<= 1 {
		step := root.ExpUint64(uint64(n / size))
		for start := 0; start < n; start += size {
			twiddle := root.Field().One()
			for k := 0; k < size/2; k++ {
				even := out[start+k]
				odd := out[start+k+size/2].Mul(twiddle)
				out[start+k] = even.Add(odd)
				out[start+k+size/2] = even.Sub(odd)
				twiddle = twiddle.Mul(step)
			}
		}
	}
	return out
}

func bitReverse(i, bits int) int {
	reversed := 0
	for b := 0; b < bits; b++ {
		reversed = reversed<<1 | i>>b&1
	}
	return reversed
}

// Zerofier returns the monic polynomial vanishing exactly on the given
// points: prod_i (x - points[i]).
func Zerofier(field *Field, points []*FieldElement) (*Polynomial, error) {
	result, err := NewPolynomial([]*FieldElement{field.One()})
	if err != nil {
		return nil, err
	}
	for _, point := range points {
		factor, err := NewPolynomial([]*FieldElement{point.Neg(), field.One()})
		if err != nil {
			return nil, err
		}
		result, err = result.Mul(factor)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}
