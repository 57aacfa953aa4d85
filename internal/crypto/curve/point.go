package curve

import (
	"fmt"
	"math/big"
)

// Point is an element of a curve's point group: either an affine coordinate
// pair or the point at infinity (Identity). The zero value is Identity.
//
// Points are immutable values. Coordinates are copied on construction and
// on access, so a Point can be shared freely between goroutines.
type Point struct {
	x, y   *big.Int
	finite bool
}

// NewPoint returns the affine point (x, y). It does not check curve
// membership; that is done by every Curve operation.
func NewPoint(x, y *big.Int) Point {
	return Point{
		x:      new(big.Int).Set(x),
		y:      new(big.Int).Set(y),
		finite: true,
	}
}

// Identity returns the point at infinity.
func Identity() Point {
	return Point{}
}

func (p Point) IsIdentity() bool {
	return !p.finite
}

// Coords returns copies of the affine coordinates. ok is false for Identity.
func (p Point) Coords() (x, y *big.Int, ok bool) {
	if !p.finite {
		return nil, nil, false
	}
	return new(big.Int).Set(p.x), new(big.Int).Set(p.y), true
}

// X returns a copy of the x coordinate, or nil for Identity.
func (p Point) X() *big.Int {
	if !p.finite {
		return nil
	}
	return new(big.Int).Set(p.x)
}

// Y returns a copy of the y coordinate, or nil for Identity.
func (p Point) Y() *big.Int {
	if !p.finite {
		return nil
	}
	return new(big.Int).Set(p.y)
}

// Equal reports whether p and q are the same variant and, for affine
// points, have equal coordinates.
func (p Point) Equal(q Point) bool {
	if p.finite != q.finite {
		return false
	}
	if !p.finite {
		return true
	}
	return p.x.Cmp(q.x) == 0 && p.y.Cmp(q.y) == 0
}

func (p Point) Clone() Point {
	if !p.finite {
		return Identity()
	}
	return NewPoint(p.x, p.y)
}

func (p Point) String() string {
	if !p.finite {
		return "inf"
	}
	return fmt.Sprintf("(%s, %s)", p.x, p.y)
}
