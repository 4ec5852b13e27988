package tilespace

import (
	"github.com/setanarut/v"
)

// MaxManifoldPoints is the most contact points a single manifold carries.
const MaxManifoldPoints = 2

// ManifoldPoint is one contact point with the surface points on both
// fixtures and the impulses accumulated for it across steps.
type ManifoldPoint struct {
	// PointA and PointB are the surface points on fixture A and B in world
	// coordinates.
	PointA, PointB v.Vec
	// Separation is (PointB-PointA)·Normal; overlapping points are negative.
	Separation float64
	// ID encodes which shape features generated this point. A point whose
	// id survives between two updates keeps its accumulated impulses
	// (warm starting).
	ID uint64

	NormalImpulse, TangentImpulse float64
}

// Manifold describes the overlap of two fixtures: a world-space normal
// pointing from fixture A to fixture B and up to MaxManifoldPoints points.
type Manifold struct {
	Normal v.Vec
	Points [MaxManifoldPoints]ManifoldPoint
	Count  int
}

func (m *Manifold) Reset() {
	*m = Manifold{}
}
