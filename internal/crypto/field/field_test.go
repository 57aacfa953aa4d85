package field

import (
	"crypto/rand"
	"errors"
	"math/big"
	"testing"

	edfield "filippo.io/edwards25519/field"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallyu/go-ecc/pkg/ecc"
)

// secp256k1 field prime
var testPrime, _ = new(big.Int).SetString("fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f", 16)

func n(v int64) *big.Int { return big.NewInt(v) }

func eq(t *testing.T, want, got *big.Int, msgAndArgs ...interface{}) bool {
	t.Helper()
	return assert.Equal(t, want.String(), got.String(), msgAndArgs...)
}

func TestAdd(t *testing.T) {
	eq(t, n(3), Add(n(4), n(10), n(11)))
	eq(t, n(14), Add(n(4), n(10), n(15)))
	eq(t, n(0), Add(n(11), n(0), n(11)))
}

func TestMult(t *testing.T) {
	eq(t, n(7), Mult(n(4), n(10), n(11)))
	eq(t, n(40), Mult(n(4), n(10), n(47)))
}

func TestInvAddition(t *testing.T) {
	t.Run("below modulus", func(t *testing.T) {
		eq(t, n(4), InvAddition(n(7), n(11)))
	})

	t.Run("above modulus", func(t *testing.T) {
		eq(t, n(7), InvAddition(n(15), n(11)))
		c := InvAddition(n(15), n(11))
		eq(t, n(0), Add(n(15), c, n(11)))
	})

	// -0 must be 0, never p.
	t.Run("zero", func(t *testing.T) {
		eq(t, n(0), InvAddition(n(0), n(11)))
	})

	t.Run("multiple of modulus", func(t *testing.T) {
		eq(t, n(0), InvAddition(n(11), n(11)))
		eq(t, n(0), InvAddition(n(33), n(11)))
	})
}

func TestSubtract(t *testing.T) {
	eq(t, n(5), Subtract(n(7), n(2), n(11)))
	eq(t, n(9), Subtract(n(2), n(4), n(11)))
	eq(t, n(2), Subtract(n(2), n(11), n(11)))
	eq(t, n(0), Subtract(n(6), n(6), n(11)))
}

func TestInvMultiplication(t *testing.T) {
	tests := []struct {
		c, want int64
	}{
		{1, 1},
		{2, 6},
		{10, 10},
		{13, 6}, // 13 = 2 mod 11
	}
	for _, tt := range tests {
		got, err := InvMultiplication(n(tt.c), n(11))
		require.NoError(t, err)
		eq(t, n(tt.want), got, "inverse of %d mod 11", tt.c)
	}

	r, err := InvMultiplication(n(10), n(11))
	require.NoError(t, err)
	eq(t, n(1), Mult(n(10), r, n(11)))
}

func TestInvMultiplicationErrors(t *testing.T) {
	t.Run("composite modulus", func(t *testing.T) {
		r, err := InvMultiplication(n(1), n(10))
		assert.ErrorIs(t, err, ecc.ErrNonPrimeModulus)
		assert.Nil(t, r)
	})

	t.Run("large composite modulus", func(t *testing.T) {
		composite := new(big.Int).Mul(testPrime, n(3))
		_, err := InvMultiplication(n(2), composite)
		assert.ErrorIs(t, err, ecc.ErrNonPrimeModulus)
	})

	t.Run("modulus too small", func(t *testing.T) {
		for _, p := range []int64{-7, 0, 1} {
			_, err := InvMultiplication(n(1), n(p))
			assert.ErrorIs(t, err, ecc.ErrInvalidModulus, "p = %d", p)
		}
		_, err := InvMultiplication(n(1), nil)
		assert.ErrorIs(t, err, ecc.ErrInvalidModulus)
	})

	t.Run("zero has no inverse", func(t *testing.T) {
		_, err := InvMultiplication(n(0), n(11))
		assert.ErrorIs(t, err, ecc.ErrNotInvertible)
		_, err = InvMultiplication(n(22), n(11))
		assert.ErrorIs(t, err, ecc.ErrNotInvertible)
	})
}

func TestDivide(t *testing.T) {
	// 3 / 2 mod 11 = 3 * 6 = 18 = 7
	r, err := Divide(n(3), n(2), n(11))
	require.NoError(t, err)
	eq(t, n(7), r)

	_, err = Divide(n(3), n(0), n(11))
	assert.True(t, errors.Is(err, ecc.ErrNotInvertible))

	_, err = Divide(n(3), n(2), n(12))
	assert.True(t, errors.Is(err, ecc.ErrNonPrimeModulus))
}

func TestExp(t *testing.T) {
	eq(t, n(9), Exp(n(3), n(2), n(17)))
	eq(t, n(1), Exp(n(5), n(0), n(17)))
	// 3^3 = 27 = 10 mod 17
	eq(t, n(10), Exp(n(20), n(3), n(17)))
}

func TestIsPrime(t *testing.T) {
	for _, p := range []int64{2, 3, 11, 17, 19} {
		assert.True(t, IsPrime(n(p)), "%d", p)
	}
	for _, p := range []int64{-11, 0, 1, 4, 10, 15, 561} {
		assert.False(t, IsPrime(n(p)), "%d", p)
	}
	assert.True(t, IsPrime(testPrime))
	assert.False(t, IsPrime(nil))
}

// Sampled closure and inverse laws over the secp256k1 prime.
func TestFieldLaws(t *testing.T) {
	p := testPrime
	bound := new(big.Int).Lsh(p, 2)

	for i := 0; i < 64; i++ {
		c, err := rand.Int(rand.Reader, bound)
		require.NoError(t, err)
		d, err := rand.Int(rand.Reader, bound)
		require.NoError(t, err)

		results := []*big.Int{Add(c, d, p), Mult(c, d, p), Subtract(c, d, p), InvAddition(c, p)}
		if new(big.Int).Mod(d, p).Sign() != 0 {
			q, err := Divide(c, d, p)
			require.NoError(t, err)
			results = append(results, q)

			// (c / d) * d == c
			eq(t, new(big.Int).Mod(c, p), Mult(q, d, p))
		}
		for _, r := range results {
			assert.True(t, r.Sign() >= 0 && r.Cmp(p) < 0, "result %s out of range", r)
		}

		assert.Equal(t, 0, Add(c, InvAddition(c, p), p).Sign())

		if new(big.Int).Mod(c, p).Sign() != 0 {
			inv, err := InvMultiplication(c, p)
			require.NoError(t, err)
			eq(t, n(1), Mult(c, inv, p))
		}
	}

	// boundary values for the additive inverse
	for _, c := range []*big.Int{n(0), p, new(big.Int).Lsh(p, 1)} {
		eq(t, n(0), InvAddition(c, p))
		eq(t, n(0), Add(c, InvAddition(c, p), p))
	}
}

// Cross-check 256-bit modular addition and multiplication against uint256.
func TestAgainstUint256(t *testing.T) {
	max := new(big.Int).Lsh(big.NewInt(1), 256)
	for i := 0; i < 64; i++ {
		x, _ := rand.Int(rand.Reader, max)
		y, _ := rand.Int(rand.Reader, max)
		m, _ := rand.Int(rand.Reader, max)
		if m.Sign() == 0 {
			continue
		}

		ux, _ := uint256.FromBig(x)
		uy, _ := uint256.FromBig(y)
		um, _ := uint256.FromBig(m)

		sum := new(uint256.Int).AddMod(ux, uy, um)
		prod := new(uint256.Int).MulMod(ux, uy, um)

		eq(t, sum.ToBig(), Add(x, y, m))
		eq(t, prod.ToBig(), Mult(x, y, m))
	}
}

// Cross-check inversion modulo 2^255-19 against the edwards25519 field.
func TestAgainstEdwards25519Field(t *testing.T) {
	p := new(big.Int).Lsh(big.NewInt(1), 255)
	p.Sub(p, n(19))

	f, err := New(p)
	require.NoError(t, err)

	for i := 0; i < 32; i++ {
		c, _ := rand.Int(rand.Reader, p)
		if c.Sign() == 0 {
			continue
		}
		d, _ := rand.Int(rand.Reader, p)

		ec, err := new(edfield.Element).SetBytes(littleEndian(c))
		require.NoError(t, err)
		ed, err := new(edfield.Element).SetBytes(littleEndian(d))
		require.NoError(t, err)

		inv, err := f.Inv(c)
		require.NoError(t, err)
		edInv := new(edfield.Element).Invert(ec)
		assert.Equal(t, edInv.Bytes(), littleEndian(inv))

		edProd := new(edfield.Element).Multiply(ec, ed)
		assert.Equal(t, edProd.Bytes(), littleEndian(f.Mult(c, d)))
	}
}

func littleEndian(v *big.Int) []byte {
	buf := v.FillBytes(make([]byte, 32))
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return buf
}

func TestField(t *testing.T) {
	t.Run("rejects composite", func(t *testing.T) {
		f, err := New(n(15))
		assert.ErrorIs(t, err, ecc.ErrNonPrimeModulus)
		assert.Nil(t, f)
	})

	t.Run("arithmetic", func(t *testing.T) {
		f, err := New(n(17))
		require.NoError(t, err)

		eq(t, n(17), f.Modulus())
		eq(t, n(3), f.Add(n(10), n(10)))
		eq(t, n(16), f.Mult(n(5), n(10)))
		eq(t, n(14), f.Neg(n(3)))
		eq(t, n(0), f.Neg(n(17)))
		eq(t, n(16), f.Sub(n(1), n(2)))
		eq(t, n(8), f.Exp(n(2), n(3)))
		eq(t, n(1), f.Reduce(n(18)))

		inv, err := f.Inv(n(3))
		require.NoError(t, err)
		eq(t, n(6), inv) // 3 * 6 = 18 = 1

		q, err := f.Div(n(1), n(3))
		require.NoError(t, err)
		eq(t, n(6), q)

		_, err = f.Div(n(1), n(34))
		assert.ErrorIs(t, err, ecc.ErrNotInvertible)
	})

	t.Run("contains", func(t *testing.T) {
		f, _ := New(n(17))
		assert.True(t, f.Contains(n(0)))
		assert.True(t, f.Contains(n(16)))
		assert.False(t, f.Contains(n(17)))
		assert.False(t, f.Contains(n(-1)))
		assert.False(t, f.Contains(nil))
		assert.True(t, f.IsZero(n(34)))
		assert.False(t, f.IsZero(n(35)))
	})

	t.Run("modulus is copied", func(t *testing.T) {
		p := n(17)
		f, _ := New(p)
		p.SetInt64(19)
		f.Modulus().SetInt64(23)
		eq(t, n(17), f.Modulus())
	})
}

func FuzzInverseLaws(f *testing.F) {
	f.Add([]byte{0})
	f.Add([]byte{1})
	f.Add(testPrime.Bytes())
	f.Add(new(big.Int).Add(testPrime, big.NewInt(1)).Bytes())
	f.Add(make([]byte, 64))

	f.Fuzz(func(t *testing.T, data []byte) {
		c := new(big.Int).SetBytes(data)
		p := testPrime

		neg := InvAddition(c, p)
		if neg.Cmp(p) >= 0 {
			t.Fatalf("additive inverse %s not reduced", neg)
		}
		if Add(c, neg, p).Sign() != 0 {
			t.Fatalf("c + (-c) != 0 for c = %s", c)
		}

		inv, err := InvMultiplication(c, p)
		if new(big.Int).Mod(c, p).Sign() == 0 {
			if !errors.Is(err, ecc.ErrNotInvertible) {
				t.Fatalf("expected ErrNotInvertible for c = %s, got %v", c, err)
			}
			return
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if Mult(c, inv, p).Cmp(big.NewInt(1)) != 0 {
			t.Fatalf("c * c^-1 != 1 for c = %s", c)
		}
	})
}
