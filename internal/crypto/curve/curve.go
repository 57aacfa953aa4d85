package curve

import (
	"fmt"
	"math/big"

	"github.com/smallyu/go-ecc/internal/crypto/field"
	"github.com/smallyu/go-ecc/pkg/ecc"
)

var (
	two   = big.NewInt(2)
	three = big.NewInt(3)
)

// Curve is the short Weierstrass curve y^2 = x^3 + a*x + b over the prime
// field F_p. It is immutable after construction and safe for concurrent use.
//
// Parameters are not checked for cryptographic strength (nor for a zero
// discriminant). p must be an odd prime, because every group operation
// needs field inversion and doubling divides by 2y.
type Curve struct {
	a *big.Int
	b *big.Int
	f *field.Field
}

// New returns the curve y^2 = x^3 + a*x + b mod p. a and b are reduced mod p.
func New(a, b, p *big.Int) (*Curve, error) {
	if a == nil || b == nil {
		return nil, fmt.Errorf("curve: %w: nil coefficient", ecc.ErrInvalidParams)
	}
	f, err := field.New(p)
	if err != nil {
		return nil, fmt.Errorf("curve: %w", err)
	}
	// tangent slope divides by 2y
	if p.Cmp(two) == 0 {
		return nil, fmt.Errorf("curve: %w: characteristic 2 is not supported", ecc.ErrInvalidParams)
	}
	return &Curve{
		a: f.Reduce(a),
		b: f.Reduce(b),
		f: f,
	}, nil
}

// MustNew is like New but panics on error. Intended for fixed parameters.
func MustNew(a, b, p *big.Int) *Curve {
	c, err := New(a, b, p)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Curve) A() *big.Int { return new(big.Int).Set(c.a) }
func (c *Curve) B() *big.Int { return new(big.Int).Set(c.b) }
func (c *Curve) P() *big.Int { return c.f.Modulus() }

// Field returns the base field of the curve.
func (c *Curve) Field() *field.Field {
	return c.f
}

// Equal reports whether both curves have the same (a, b, p).
func (c *Curve) Equal(o *Curve) bool {
	if o == nil {
		return false
	}
	return c.a.Cmp(o.a) == 0 && c.b.Cmp(o.b) == 0 && c.f.Modulus().Cmp(o.f.Modulus()) == 0
}

func (c *Curve) String() string {
	return fmt.Sprintf("y^2 = x^3 + %s*x + %s mod %s", c.a, c.b, c.f.Modulus())
}

// RHS returns x^3 + a*x + b mod p.
func (c *Curve) RHS(x *big.Int) *big.Int {
	x3 := c.f.Exp(x, three)
	ax := c.f.Mult(c.a, x)
	return c.f.Add(x3, c.f.Add(ax, c.b))
}

// IsOnCurve reports whether pt lies on the curve. Identity always does.
// Affine coordinates must be canonical, i.e. in [0, p).
func (c *Curve) IsOnCurve(pt Point) bool {
	if pt.IsIdentity() {
		return true
	}
	if !c.f.Contains(pt.x) || !c.f.Contains(pt.y) {
		return false
	}
	y2 := c.f.Exp(pt.y, two)
	return y2.Cmp(c.RHS(pt.x)) == 0
}

// Add returns p1 + p2. Both operands must be on the curve.
func (c *Curve) Add(p1, p2 Point) (Point, error) {
	if err := c.checkOperand("add", p1); err != nil {
		return Point{}, err
	}
	if err := c.checkOperand("add", p2); err != nil {
		return Point{}, err
	}
	return c.add(p1, p2)
}

// Double returns 2*pt.
func (c *Curve) Double(pt Point) (Point, error) {
	if err := c.checkOperand("double", pt); err != nil {
		return Point{}, err
	}
	return c.double(pt)
}

// Negate returns -pt, the reflection of pt across the x axis.
func (c *Curve) Negate(pt Point) (Point, error) {
	if err := c.checkOperand("negate", pt); err != nil {
		return Point{}, err
	}
	return c.negate(pt), nil
}

// Sub returns p1 - p2.
func (c *Curve) Sub(p1, p2 Point) (Point, error) {
	if err := c.checkOperand("sub", p1); err != nil {
		return Point{}, err
	}
	if err := c.checkOperand("sub", p2); err != nil {
		return Point{}, err
	}
	return c.add(p1, c.negate(p2))
}

// ScalarMul returns k*pt for k >= 0 using double-and-add.
//
// The bits of k are consumed from least significant upwards in a loop, so
// stack usage does not depend on the size of k. The running base is only
// doubled while higher bits remain.
func (c *Curve) ScalarMul(pt Point, k *big.Int) (Point, error) {
	if k == nil || k.Sign() < 0 {
		return Point{}, fmt.Errorf("scalar mul: %w: scalar must be non-negative", ecc.ErrInvalidScalar)
	}
	if err := c.checkOperand("scalar mul", pt); err != nil {
		return Point{}, err
	}
	if k.Sign() == 0 || pt.IsIdentity() {
		return Identity(), nil
	}

	result := Identity()
	base := pt
	var err error
	bits := k.BitLen()
	for i := 0; i < bits; i++ {
		if k.Bit(i) == 1 {
			result, err = c.add(result, base)
			if err != nil {
				return Point{}, err
			}
		}
		if i+1 < bits {
			base, err = c.double(base)
			if err != nil {
				return Point{}, err
			}
		}
	}
	return result, nil
}

func (c *Curve) checkOperand(op string, pt Point) error {
	if !c.IsOnCurve(pt) {
		return ecc.NewPointError(op, pt.String(), ecc.ErrNotOnCurve)
	}
	return nil
}

// add assumes both operands are on the curve.
func (c *Curve) add(p1, p2 Point) (Point, error) {
	if p1.Equal(p2) {
		return c.double(p1)
	}
	if p1.IsIdentity() {
		return p2, nil
	}
	if p2.IsIdentity() {
		return p1, nil
	}
	// Distinct points sharing x are mirror images: vertical chord.
	if p1.x.Cmp(p2.x) == 0 {
		return Identity(), nil
	}

	// s = (y2 - y1) / (x2 - x1)
	s, err := c.f.Div(c.f.Sub(p2.y, p1.y), c.f.Sub(p2.x, p1.x))
	if err != nil {
		return Point{}, fmt.Errorf("add: %w", err)
	}
	return c.chord("add", s, p1.x, p1.y, p2.x)
}

// double assumes pt is on the curve.
func (c *Curve) double(pt Point) (Point, error) {
	if pt.IsIdentity() {
		return Identity(), nil
	}
	// Vertical tangent.
	if pt.y.Sign() == 0 {
		return Identity(), nil
	}

	// s = (3*x^2 + a) / (2*y)
	num := c.f.Add(c.f.Mult(three, c.f.Exp(pt.x, two)), c.a)
	den := c.f.Mult(two, pt.y)
	s, err := c.f.Div(num, den)
	if err != nil {
		return Point{}, fmt.Errorf("double: %w", err)
	}
	return c.chord("double", s, pt.x, pt.y, pt.x)
}

// chord computes the third intersection of the line with slope s through
// (x1, y1) and reflects it:
//
//	x3 = s^2 - x1 - x2
//	y3 = s*(x1 - x3) - y1
//
// The result is checked against the curve equation.
func (c *Curve) chord(op string, s, x1, y1, x2 *big.Int) (Point, error) {
	x3 := c.f.Sub(c.f.Sub(c.f.Exp(s, two), x1), x2)
	y3 := c.f.Sub(c.f.Mult(s, c.f.Sub(x1, x3)), y1)

	r := Point{x: x3, y: y3, finite: true}
	if !c.IsOnCurve(r) {
		return Point{}, ecc.NewPointError(op, r.String(), ecc.ErrArithmetic)
	}
	return r, nil
}

func (c *Curve) negate(pt Point) Point {
	if pt.IsIdentity() {
		return pt
	}
	return Point{x: pt.x, y: c.f.Neg(pt.y), finite: true}
}
