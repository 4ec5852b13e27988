package tilespace

import (
	"math"

	"github.com/setanarut/v"
)

// Transform is a rigid 2D transform: a rotation (stored as the unit complex
// number cos+i*sin) followed by a translation. Shapes cache their world-space
// data through it before narrow-phase evaluation.
type Transform struct {
	Position v.Vec
	Rot      v.Vec
}

// NewTransformIdentity returns a transform that leaves points unchanged.
func NewTransformIdentity() Transform {
	return Transform{Rot: v.Vec{X: 1, Y: 0}}
}

// NewTransform returns a transform for the given position and angle (radians).
func NewTransform(position v.Vec, angle float64) Transform {
	return Transform{
		Position: position,
		Rot:      v.Vec{X: math.Cos(angle), Y: math.Sin(angle)},
	}
}

// Apply transforms the point p into world space.
func (t Transform) Apply(p v.Vec) v.Vec {
	return rotateComplex(p, t.Rot).Add(t.Position)
}

// ApplyVector rotates the vector n without translating it.
func (t Transform) ApplyVector(n v.Vec) v.Vec {
	return rotateComplex(n, t.Rot)
}

// ApplyInverse transforms the world-space point p into local space.
func (t Transform) ApplyInverse(p v.Vec) v.Vec {
	d := p.Sub(t.Position)
	return rotateComplex(d, v.Vec{X: t.Rot.X, Y: -t.Rot.Y})
}

// Angle returns the rotation in radians.
func (t Transform) Angle() float64 {
	return math.Atan2(t.Rot.Y, t.Rot.X)
}
