package field

import (
	"fmt"
	"math/big"

	"github.com/smallyu/go-ecc/pkg/ecc"
)

// primalityRounds is the number of Miller-Rabin rounds used by IsPrime, on top
// of the Baillie-PSW test big.Int always runs.
const primalityRounds = 20

var (
	zero = big.NewInt(0)
	two  = big.NewInt(2)
)

// Add returns (c + d) mod p. p must be positive.
func Add(c, d, p *big.Int) *big.Int {
	r := new(big.Int).Add(c, d)
	return r.Mod(r, p)
}

// Mult returns (c * d) mod p. p must be positive.
func Mult(c, d, p *big.Int) *big.Int {
	r := new(big.Int).Mul(c, d)
	return r.Mod(r, p)
}

// InvAddition returns the additive inverse of c in [0, p).
// Values congruent to zero map to 0, not p.
func InvAddition(c, p *big.Int) *big.Int {
	r := new(big.Int).Mod(c, p)
	if r.Sign() == 0 {
		return r
	}
	return r.Sub(p, r)
}

// Subtract returns (c - d) mod p.
func Subtract(c, d, p *big.Int) *big.Int {
	return Add(c, InvAddition(d, p), p)
}

// Exp returns c^e mod p for e >= 0.
func Exp(c, e, p *big.Int) *big.Int {
	base := new(big.Int).Mod(c, p)
	return base.Exp(base, e, p)
}

// InvMultiplication returns c^-1 mod p, computed as c^(p-2) mod p.
// Fermat's little theorem only holds for prime p, so the modulus is checked
// on every call; use a Field to pay for the check once.
func InvMultiplication(c, p *big.Int) (*big.Int, error) {
	if err := checkModulus(p); err != nil {
		return nil, err
	}
	return invert(c, p, new(big.Int).Sub(p, two))
}

// Divide returns c * d^-1 mod p.
func Divide(c, d, p *big.Int) (*big.Int, error) {
	inv, err := InvMultiplication(d, p)
	if err != nil {
		return nil, err
	}
	return Mult(c, inv, p), nil
}

// IsPrime reports whether p is (with overwhelming probability) prime.
func IsPrime(p *big.Int) bool {
	return p != nil && p.Sign() > 0 && p.ProbablyPrime(primalityRounds)
}

func checkModulus(p *big.Int) error {
	if p == nil || p.Cmp(two) < 0 {
		return ecc.ErrInvalidModulus
	}
	if !IsPrime(p) {
		return fmt.Errorf("%w: %s", ecc.ErrNonPrimeModulus, p)
	}
	return nil
}

func invert(c, p, pMinus2 *big.Int) (*big.Int, error) {
	r := new(big.Int).Mod(c, p)
	if r.Sign() == 0 {
		return nil, fmt.Errorf("%w: %s mod %s", ecc.ErrNotInvertible, c, p)
	}
	return r.Exp(r, pMinus2, p), nil
}

// Field is the prime field Z/pZ. The modulus is validated once by New, so
// its methods never re-run the primality test. A Field is immutable and safe
// for concurrent use.
type Field struct {
	p       *big.Int
	pMinus2 *big.Int
}

// New returns the field of integers modulo the prime p.
func New(p *big.Int) (*Field, error) {
	if err := checkModulus(p); err != nil {
		return nil, err
	}
	return &Field{
		p:       new(big.Int).Set(p),
		pMinus2: new(big.Int).Sub(p, two),
	}, nil
}

// Modulus returns a copy of p.
func (f *Field) Modulus() *big.Int {
	return new(big.Int).Set(f.p)
}

// Contains reports whether c is a canonical element, i.e. 0 <= c < p.
func (f *Field) Contains(c *big.Int) bool {
	return c != nil && c.Sign() >= 0 && c.Cmp(f.p) < 0
}

// Reduce returns c mod p.
func (f *Field) Reduce(c *big.Int) *big.Int {
	return new(big.Int).Mod(c, f.p)
}

func (f *Field) Add(c, d *big.Int) *big.Int {
	return Add(c, d, f.p)
}

func (f *Field) Mult(c, d *big.Int) *big.Int {
	return Mult(c, d, f.p)
}

func (f *Field) Neg(c *big.Int) *big.Int {
	return InvAddition(c, f.p)
}

func (f *Field) Sub(c, d *big.Int) *big.Int {
	return Subtract(c, d, f.p)
}

func (f *Field) Exp(c, e *big.Int) *big.Int {
	return Exp(c, e, f.p)
}

// Inv returns c^-1. The only possible error wraps ecc.ErrNotInvertible.
func (f *Field) Inv(c *big.Int) (*big.Int, error) {
	return invert(c, f.p, f.pMinus2)
}

// Div returns c / d.
func (f *Field) Div(c, d *big.Int) (*big.Int, error) {
	inv, err := f.Inv(d)
	if err != nil {
		return nil, err
	}
	return f.Mult(c, inv), nil
}

// IsZero reports whether c is congruent to zero.
func (f *Field) IsZero(c *big.Int) bool {
	return f.Reduce(c).Cmp(zero) == 0
}
