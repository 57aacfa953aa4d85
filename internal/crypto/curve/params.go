package curve

import (
	"crypto/elliptic"
	"fmt"
	"math/big"
	"sort"
	"sync"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fp"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/smallyu/go-ecc/internal/crypto/field"
	"github.com/smallyu/go-ecc/pkg/ecc"
)

// Params bundles a curve with a generator G of prime order N.
// This is the configuration a signature scheme needs on top of the group law.
type Params struct {
	Name  string
	Curve *Curve
	G     Point
	N     *big.Int
}

// NewParams validates and returns a parameter set.
func NewParams(name string, c *Curve, g Point, n *big.Int) (*Params, error) {
	p := &Params{
		Name:  name,
		Curve: c,
		G:     g.Clone(),
	}
	if n != nil {
		p.N = new(big.Int).Set(n)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks that G is a finite point on the curve and that N is a
// prime with N*G = Identity.
func (p *Params) Validate() error {
	if p.Curve == nil {
		return fmt.Errorf("%s: %w: missing curve", p.Name, ecc.ErrInvalidParams)
	}
	if p.G.IsIdentity() || !p.Curve.IsOnCurve(p.G) {
		return fmt.Errorf("%s: %w: generator %s is not a finite curve point", p.Name, ecc.ErrInvalidParams, p.G)
	}
	if !field.IsPrime(p.N) {
		return fmt.Errorf("%s: %w: order %v is not prime", p.Name, ecc.ErrInvalidParams, p.N)
	}
	ng, err := p.Curve.ScalarMul(p.G, p.N)
	if err != nil {
		return fmt.Errorf("%s: %w", p.Name, err)
	}
	if !ng.IsIdentity() {
		return fmt.Errorf("%s: %w: N*G = %s, expected inf", p.Name, ecc.ErrInvalidParams, ng)
	}
	return nil
}

// ScalarBaseMul returns k*G.
func (p *Params) ScalarBaseMul(k *big.Int) (Point, error) {
	return p.Curve.ScalarMul(p.G, k)
}

// Preset curve names.
const (
	Toy17     = "toy17"
	Secp256k1 = "secp256k1"
	P256      = "p256"
	BN254     = "bn254"
)

var presets = map[string]func() (*Params, error){
	Toy17:     sync.OnceValues(toy17),
	Secp256k1: sync.OnceValues(secp256k1Params),
	P256:      sync.OnceValues(p256Params),
	BN254:     sync.OnceValues(bn254Params),
}

// Named returns the preset parameter set registered under name.
// Presets are built and validated on first use.
func Named(name string) (*Params, error) {
	build, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ecc.ErrUnknownCurve, name)
	}
	return build()
}

// Names returns the sorted preset names.
func Names() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// toy17 is y^2 = x^3 + 2x + 2 over F_17, whose group has prime order 19.
func toy17() (*Params, error) {
	c, err := New(big.NewInt(2), big.NewInt(2), big.NewInt(17))
	if err != nil {
		return nil, err
	}
	return NewParams(Toy17, c, NewPoint(big.NewInt(5), big.NewInt(1)), big.NewInt(19))
}

func secp256k1Params() (*Params, error) {
	sp := secp256k1.S256().Params()
	c, err := New(new(big.Int), sp.B, sp.P)
	if err != nil {
		return nil, err
	}
	return NewParams(Secp256k1, c, NewPoint(sp.Gx, sp.Gy), sp.N)
}

// p256 uses a = -3.
func p256Params() (*Params, error) {
	sp := elliptic.P256().Params()
	a := new(big.Int).Sub(sp.P, three)
	c, err := New(a, sp.B, sp.P)
	if err != nil {
		return nil, err
	}
	return NewParams(P256, c, NewPoint(sp.Gx, sp.Gy), sp.N)
}

// bn254 is the G1 group of the BN254 pairing curve, y^2 = x^3 + 3.
func bn254Params() (*Params, error) {
	_, _, g1, _ := bn254.Generators()
	c, err := New(new(big.Int), three, fp.Modulus())
	if err != nil {
		return nil, err
	}
	g := NewPoint(g1.X.BigInt(new(big.Int)), g1.Y.BigInt(new(big.Int)))
	return NewParams(BN254, c, g, fr.Modulus())
}
