package schnorr

import (
	crand "crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
	"math/big"

	"github.com/smallyu/go-ecc/internal/crypto/curve"
	"github.com/smallyu/go-ecc/pkg/ecc"
)

// Proof represents a Schnorr proof of knowledge of a discrete logarithm.
// Proves knowledge of x such that X = x * G.
type Proof struct {
	R curve.Point // Commitment R = k * G
	S *big.Int    // Response s = k + e * x
}

// Prove generates a proof for the secret x in [1, N).
func Prove(params *curve.Params, rand io.Reader, x *big.Int) (*Proof, error) {
	if err := checkParams(params); err != nil {
		return nil, err
	}
	n := params.N
	if x == nil || x.Sign() <= 0 || x.Cmp(n) >= 0 {
		return nil, fmt.Errorf("schnorr: %w: secret out of range", ecc.ErrInvalidScalar)
	}
	if rand == nil {
		rand = crand.Reader
	}

	X, err := params.ScalarBaseMul(x)
	if err != nil {
		return nil, err
	}

	// 1. Generate random nonce k in [1, n)
	k, err := crand.Int(rand, new(big.Int).Sub(n, big.NewInt(1)))
	if err != nil {
		return nil, fmt.Errorf("schnorr: nonce: %w", err)
	}
	k.Add(k, big.NewInt(1))

	// 2. Compute R = k * G
	R, err := params.ScalarBaseMul(k)
	if err != nil {
		return nil, err
	}

	// 3. Compute challenge e = H(G, X, R)
	e := challenge(params, X, R)

	// 4. Compute s = k + e * x mod n
	s := new(big.Int).Mul(e, x)
	s.Add(s, k)
	s.Mod(s, n)

	return &Proof{R: R, S: s}, nil
}

// Verify checks the proof against public key X.
func (p *Proof) Verify(params *curve.Params, X curve.Point) bool {
	if p == nil || p.S == nil || checkParams(params) != nil {
		return false
	}
	c := params.Curve
	if p.S.Sign() < 0 || p.S.Cmp(params.N) >= 0 {
		return false
	}
	if X.IsIdentity() || p.R.IsIdentity() || !c.IsOnCurve(X) || !c.IsOnCurve(p.R) {
		return false
	}

	// 1. Compute challenge e = H(G, X, R)
	e := challenge(params, X, p.R)

	// 2. Check s*G == R + e*X
	lhs, err := params.ScalarBaseMul(p.S)
	if err != nil {
		return false
	}
	eX, err := c.ScalarMul(X, e)
	if err != nil {
		return false
	}
	rhs, err := c.Add(p.R, eX)
	if err != nil {
		return false
	}
	return lhs.Equal(rhs)
}

// checkParams rejects parameter sets the proof cannot be computed over.
// The full N*G check is left to curve.Params.Validate.
func checkParams(params *curve.Params) error {
	switch {
	case params == nil:
		return fmt.Errorf("schnorr: %w: nil params", ecc.ErrInvalidParams)
	case params.Curve == nil:
		return fmt.Errorf("schnorr: %w: missing curve", ecc.ErrInvalidParams)
	case params.G.IsIdentity() || !params.Curve.IsOnCurve(params.G):
		return fmt.Errorf("schnorr: %w: generator is not a finite curve point", ecc.ErrInvalidParams)
	case params.N == nil || params.N.Cmp(big.NewInt(2)) < 0:
		return fmt.Errorf("schnorr: %w: order must be at least 2", ecc.ErrInvalidParams)
	}
	return nil
}

// challenge computes H(G, X, R) mod n over fixed-width big-endian coordinates.
func challenge(params *curve.Params, pts ...curve.Point) *big.Int {
	size := (params.Curve.P().BitLen() + 7) / 8
	buf := make([]byte, size)

	h := sha256.New()
	for _, pt := range append([]curve.Point{params.G}, pts...) {
		x, y, _ := pt.Coords()
		h.Write(x.FillBytes(buf))
		h.Write(y.FillBytes(buf))
	}

	e := new(big.Int).SetBytes(h.Sum(nil))
	return e.Mod(e, params.N)
}
