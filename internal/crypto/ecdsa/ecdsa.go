package ecdsa

import (
	crand "crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/smallyu/go-ecc/internal/crypto/curve"
	"github.com/smallyu/go-ecc/internal/crypto/field"
	"github.com/smallyu/go-ecc/pkg/ecc"
)

// maxSignAttempts bounds the nonce retries when r or s comes out zero.
const maxSignAttempts = 64

var one = big.NewInt(1)

// ECDSA signs and verifies over a curve with generator G of prime order q.
// It is immutable and safe for concurrent use.
type ECDSA struct {
	params *curve.Params
	order  *field.Field
}

var _ ecc.Scheme = (*ECDSA)(nil)

// New validates params and returns a signer for them.
func New(params *curve.Params) (*ECDSA, error) {
	if params == nil {
		return nil, fmt.Errorf("ecdsa: %w: nil params", ecc.ErrInvalidParams)
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("ecdsa: %w", err)
	}
	order, err := field.New(params.N)
	if err != nil {
		return nil, fmt.Errorf("ecdsa: %w", err)
	}
	return &ECDSA{
		params: params,
		order:  order,
	}, nil
}

// Params returns the curve parameters the scheme operates on.
func (e *ECDSA) Params() *curve.Params {
	return e.params
}

// GenerateKeyPair draws d uniformly from [1, q) and computes B = d*G.
// A nil rand uses crypto/rand.
func (e *ECDSA) GenerateKeyPair(rand io.Reader) (*ecc.KeyPair, error) {
	d, err := e.randomScalar(rand)
	if err != nil {
		return nil, err
	}
	pub, err := e.PublicKey(d)
	if err != nil {
		return nil, err
	}
	return &ecc.KeyPair{D: d, Public: pub}, nil
}

// PublicKey derives B = d*G for a private scalar d in [1, q).
func (e *ECDSA) PublicKey(d *big.Int) (*ecc.PublicKey, error) {
	if !e.inRange(d) {
		return nil, fmt.Errorf("ecdsa: %w: private key out of range", ecc.ErrInvalidScalar)
	}
	b, err := e.params.ScalarBaseMul(d)
	if err != nil {
		return nil, fmt.Errorf("ecdsa: %w", err)
	}
	x, y, ok := b.Coords()
	if !ok {
		return nil, fmt.Errorf("ecdsa: %w: public key is the point at infinity", ecc.ErrInvalidScalar)
	}
	return &ecc.PublicKey{X: x, Y: y}, nil
}

// Sign produces (r, s) over digest, which is reduced mod q.
func (e *ECDSA) Sign(rand io.Reader, digest, d *big.Int) (*ecc.Signature, error) {
	if !e.inRange(d) {
		return nil, fmt.Errorf("ecdsa: %w: private key out of range", ecc.ErrInvalidScalar)
	}
	if digest == nil || digest.Sign() < 0 {
		return nil, fmt.Errorf("ecdsa: %w: digest must be non-negative", ecc.ErrInvalidScalar)
	}
	z := e.order.Reduce(digest)

	for attempt := 0; attempt < maxSignAttempts; attempt++ {
		// 1. Generate nonce k in [1, q)
		k, err := e.randomScalar(rand)
		if err != nil {
			return nil, err
		}

		// 2. Compute R = k * G, r = R.x mod q
		R, err := e.params.ScalarBaseMul(k)
		if err != nil {
			return nil, fmt.Errorf("ecdsa: %w", err)
		}
		r := e.order.Reduce(R.X())
		if r.Sign() == 0 {
			continue
		}

		// 3. Compute s = k^-1 * (z + r * d) mod q
		kInv, err := e.order.Inv(k)
		if err != nil {
			return nil, fmt.Errorf("ecdsa: %w", err)
		}
		s := e.order.Mult(kInv, e.order.Add(z, e.order.Mult(r, d)))
		if s.Sign() == 0 {
			continue
		}

		return &ecc.Signature{R: r, S: s}, nil
	}
	return nil, errors.New("ecdsa: could not find a usable nonce")
}

// Verify reports whether sig is valid for digest under pub.
func (e *ECDSA) Verify(digest *big.Int, pub *ecc.PublicKey, sig *ecc.Signature) bool {
	if digest == nil || digest.Sign() < 0 || pub == nil || sig == nil {
		return false
	}
	if !e.inRange(sig.R) || !e.inRange(sig.S) {
		return false
	}
	if pub.X == nil || pub.Y == nil {
		return false
	}
	b := curve.NewPoint(pub.X, pub.Y)
	if !e.params.Curve.IsOnCurve(b) {
		return false
	}

	z := e.order.Reduce(digest)

	// 1. w = s^-1 mod q
	w, err := e.order.Inv(sig.S)
	if err != nil {
		return false
	}

	// 2. u1 = z * w, u2 = r * w
	u1 := e.order.Mult(z, w)
	u2 := e.order.Mult(sig.R, w)

	// 3. X = u1 * G + u2 * B
	p1, err := e.params.ScalarBaseMul(u1)
	if err != nil {
		return false
	}
	p2, err := e.params.Curve.ScalarMul(b, u2)
	if err != nil {
		return false
	}
	x, err := e.params.Curve.Add(p1, p2)
	if err != nil || x.IsIdentity() {
		return false
	}

	// 4. Accept iff X.x mod q == r
	return e.order.Reduce(x.X()).Cmp(sig.R) == 0
}

// HashMessage returns SHA-256(msg) as an integer reduced mod q.
func (e *ECDSA) HashMessage(msg []byte) *big.Int {
	h := sha256.Sum256(msg)
	return e.order.Reduce(new(big.Int).SetBytes(h[:]))
}

// SignMessage hashes msg with SHA-256 and signs the digest.
func (e *ECDSA) SignMessage(rand io.Reader, msg []byte, d *big.Int) (*ecc.Signature, error) {
	return e.Sign(rand, e.HashMessage(msg), d)
}

// VerifyMessage hashes msg with SHA-256 and verifies sig over the digest.
func (e *ECDSA) VerifyMessage(msg []byte, pub *ecc.PublicKey, sig *ecc.Signature) bool {
	return e.Verify(e.HashMessage(msg), pub, sig)
}

// inRange reports whether v is in [1, q).
func (e *ECDSA) inRange(v *big.Int) bool {
	return v != nil && v.Sign() > 0 && e.order.Contains(v)
}

// randomScalar returns a uniform integer in [1, q).
func (e *ECDSA) randomScalar(rand io.Reader) (*big.Int, error) {
	if rand == nil {
		rand = crand.Reader
	}
	max := new(big.Int).Sub(e.params.N, one)
	k, err := crand.Int(rand, max)
	if err != nil {
		return nil, fmt.Errorf("ecdsa: reading randomness: %w", err)
	}
	return k.Add(k, one), nil
}
