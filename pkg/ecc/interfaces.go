package ecc

import (
	"io"
	"math/big"
)

// PublicKey is an affine curve point B = d*G.
// The point at infinity is never a valid public key, so no identity flag is carried.
type PublicKey struct {
	X *big.Int
	Y *big.Int
}

// KeyPair holds a private scalar d in [1, q) and its public point.
type KeyPair struct {
	D      *big.Int
	Public *PublicKey
}

// Signature is an (r, s) pair, both in [1, q).
type Signature struct {
	R *big.Int
	S *big.Int
}

// Scheme is the contract a signature scheme built on the curve group exposes.
// Digests are integers already reduced modulo the generator order q.
type Scheme interface {
	// GenerateKeyPair draws d uniformly from [1, q) and returns (d, d*G).
	GenerateKeyPair(rand io.Reader) (*KeyPair, error)

	// Sign produces a signature over digest with the private scalar d.
	Sign(rand io.Reader, digest *big.Int, d *big.Int) (*Signature, error)

	// Verify reports whether sig is a valid signature over digest for pub.
	Verify(digest *big.Int, pub *PublicKey, sig *Signature) bool
}
