package tilespace

import (
	"math"

	"github.com/setanarut/v"
)

const (
	infinity     float64 = math.MaxFloat64
	magicEpsilon float64 = 1e-5
)

// debugChecks gates the internal invariant assertions. They are meant to
// catch bugs in this package, not caller mistakes, and are compiled out
// when the constant is false.
const debugChecks = false

func debugAssert(cond bool, msg string) {
	if debugChecks && !cond {
		panic(msg)
	}
}

func clamp(f, min, max float64) float64 {
	if f > min {
		return math.Min(f, max)
	}
	return math.Min(min, max)
}

func clamp01(f float64) float64 {
	return math.Max(0, math.Min(f, 1))
}

// floorDiv divides toward negative infinity so that negative tile
// coordinates map to chunk indices consistently.
func floorDiv(a, n int) int {
	q := a / n
	if a%n != 0 && (a < 0) != (n < 0) {
		q--
	}
	return q
}

// collision related
func lerpT(a, b v.Vec, t float64) v.Vec {
	ht := 0.5 * t
	return a.Scale(0.5 - ht).Add(b.Scale(0.5 + ht))
}

func closestDist(v0, v1 v.Vec) float64 {
	return lerpT(v0, v1, closestT(v0, v1)).MagSq()
}

func closestT(a, b v.Vec) float64 {
	delta := b.Sub(a)
	return -clamp(delta.Dot(a.Add(b))/delta.MagSq(), -1.0, 1.0)
}

func checkAxis(v0, v1, p, n v.Vec) bool {
	return p.Dot(n) <= math.Max(v0.Dot(n), v1.Dot(n))
}

func pointGreater(a, b, c v.Vec) bool {
	return (b.Y-a.Y)*(a.X+b.X-2*c.X) > (b.X-a.X)*(a.Y+b.Y-2*c.Y)
}

// rotateComplex uses complex number multiplication to rotate this by other.
//
// Scaling will occur if this is not a unit vector.
func rotateComplex(this, other v.Vec) v.Vec {
	return v.Vec{X: this.X*other.X - this.Y*other.Y, Y: this.X*other.Y + this.Y*other.X}
}

// perp returns a perpendicular vector. (90 degree rotation)
func perp(a v.Vec) v.Vec {
	return v.Vec{X: -a.Y, Y: a.X}
}

// reversePerp returns a perpendicular vector. (-90 degree rotation)
func reversePerp(a v.Vec) v.Vec {
	return v.Vec{X: a.Y, Y: -a.X}
}
