package tilespace

import (
	"fmt"
	"log"
	"math"

	"github.com/setanarut/v"
)

const (
	maxGjkIterations  = 30
	maxEpaIterations  = 30
	warnEpaIterations = 20
)

const hashCoef = 3344921057

func hashPair(a, b uint64) uint64 {
	return a*hashCoef ^ b*hashCoef
}

// collideInfo carries one narrow-phase evaluation: the canonically ordered
// fixture pair, the chain child indices, the cached collision id from the
// previous step and the manifold being filled.
type collideInfo struct {
	a, b           *Fixture
	childA, childB int
	collisionID    uint32
	m              *Manifold
}

func (info *collideInfo) PushContact(p1, p2 v.Vec, id uint64) {
	pt := &info.m.Points[info.m.Count]
	pt.PointA = p1
	pt.PointB = p2
	pt.ID = id
	info.m.Count++
}

type collideFunc func(info *collideInfo)

// collideFuncs is the static shape-pair dispatch table, indexed by the
// canonically ordered kinds. A nil entry means the pair is unsupported and
// dispatching it is a caller bug.
var collideFuncs [shapeKindCount][shapeKindCount]collideFunc

func init() {
	collideFuncs[KindCircle][KindCircle] = circleToCircle
	collideFuncs[KindEdge][KindCircle] = edgeToCircle
	collideFuncs[KindPolygon][KindCircle] = polyToCircle
	collideFuncs[KindPolygon][KindPolygon] = polyToPoly
	collideFuncs[KindEdge][KindPolygon] = edgeToPoly
	collideFuncs[KindChain][KindCircle] = chainToCircle
	collideFuncs[KindChain][KindPolygon] = chainToPoly
	collideFuncs[KindAabb][KindCircle] = aabbToCircle
	collideFuncs[KindAabb][KindEdge] = aabbToEdge
	collideFuncs[KindAabb][KindPolygon] = aabbToPoly
	collideFuncs[KindAabb][KindChain] = aabbToChain
	collideFuncs[KindAabb][KindAabb] = aabbToAabb
	// Edge/Edge, Edge/Chain and Chain/Chain stay nil: static boundary
	// geometry never collides with itself.
}

// canonicalOrder sorts a fixture pair so identical kind pairs always
// dispatch through the same table entry: the higher kind goes first.
//
// The one exception is Edge vs Polygon. The edge-polygon routine takes the
// edge as its first argument, so that pair is stored as (Edge, Polygon)
// even though the general rule would order it (Polygon, Edge). This quirk
// must be preserved exactly; it is not a pattern to generalize.
func canonicalOrder(a, b *Fixture) (*Fixture, *Fixture, bool) {
	ka := a.Kind()
	kb := b.Kind()

	if (ka == KindEdge && kb == KindPolygon) || (ka == KindPolygon && kb == KindEdge) {
		if ka == KindEdge {
			return a, b, false
		}
		return b, a, true
	}

	if ka >= kb {
		return a, b, false
	}
	return b, a, true
}

// evaluate runs the narrow phase for an already canonically ordered pair,
// filling m and returning the updated cached collision id. Dispatching an
// unsupported pair panics; silently skipping it would corrupt the
// simulation invisibly.
func evaluate(a, b *Fixture, childA, childB int, collisionID uint32, m *Manifold) uint32 {
	f := collideFuncs[a.Kind()][b.Kind()]
	if f == nil {
		panic(fmt.Sprintf("tilespace: unsupported shape pair %v/%v", a.Kind(), b.Kind()))
	}

	m.Reset()
	info := collideInfo{
		a:           a,
		b:           b,
		childA:      childA,
		childB:      childB,
		collisionID: collisionID,
		m:           m,
	}
	f(&info)

	for i := 0; i < m.Count; i++ {
		pt := &m.Points[i]
		pt.Separation = pt.PointB.Sub(pt.PointA).Dot(m.Normal)
	}
	return info.collisionID
}

// Support points and GJK/EPA machinery.

type supportPoint struct {
	p v.Vec
	// Save an index of the point so it can be cheaply looked up as a
	// starting point for the next frame.
	index uint32
}

type supportPointFunc func(f *Fixture, child int, n v.Vec) supportPoint

func circleSupportPoint(f *Fixture, _ int, _ v.Vec) supportPoint {
	return supportPoint{f.Class.(*Circle).transformC, 0}
}

func edgeSupportPoint(f *Fixture, _ int, n v.Vec) supportPoint {
	edge := f.Class.(*Edge)
	if edge.transformA.Dot(n) > edge.transformB.Dot(n) {
		return supportPoint{edge.transformA, 0}
	}
	return supportPoint{edge.transformB, 1}
}

func chainSupportPoint(f *Fixture, child int, n v.Vec) supportPoint {
	chain := f.Class.(*Chain)
	a, b := chain.childEndpoints(child)
	if a.Dot(n) > b.Dot(n) {
		return supportPoint{a, 0}
	}
	return supportPoint{b, 1}
}

func polySupportPoint(f *Fixture, _ int, n v.Vec) supportPoint {
	poly := f.Class.(*Polygon)
	i := polySupportPointIndex(poly.count, poly.planes, n)
	return supportPoint{poly.planes[i].V0, uint32(i)}
}

func boxSupportPoint(f *Fixture, _ int, n v.Vec) supportPoint {
	box := f.Class.(*Box)
	max := -infinity
	var index uint32
	for i, c := range box.corners {
		d := c.Dot(n)
		if d > max {
			max = d
			index = uint32(i)
		}
	}
	return supportPoint{box.corners[index], index}
}

func polySupportPointIndex(count int, planes []SplittingPlane, n v.Vec) int {
	max := -infinity
	var index int
	for i := range count {
		d := planes[i].V0.Dot(n)
		if d > max {
			max = d
			index = i
		}
	}
	return index
}

func supportFuncFor(f *Fixture) supportPointFunc {
	switch f.Kind() {
	case KindCircle:
		return circleSupportPoint
	case KindEdge:
		return edgeSupportPoint
	case KindPolygon:
		return polySupportPoint
	case KindChain:
		return chainSupportPoint
	case KindAabb:
		return boxSupportPoint
	}
	panic(fmt.Sprintf("tilespace: no support function for %v", f.Kind()))
}

// shapePoint looks a support point back up by the index cached in the
// collision id, so GJK can restart from last frame's closest features.
func shapePoint(f *Fixture, child int, i uint32) supportPoint {
	switch class := f.Class.(type) {
	case *Circle:
		return supportPoint{class.transformC, 0}
	case *Edge:
		if i == 0 {
			return supportPoint{class.transformA, 0}
		}
		return supportPoint{class.transformB, 1}
	case *Chain:
		a, b := class.childEndpoints(child)
		if i == 0 {
			return supportPoint{a, 0}
		}
		return supportPoint{b, 1}
	case *Polygon:
		var index int
		if i < uint32(class.count) {
			index = int(i)
		}
		return supportPoint{class.planes[index].V0, uint32(index)}
	case *Box:
		return supportPoint{class.corners[i&3], i & 3}
	}
	return supportPoint{}
}

type supportContext struct {
	f1, f2         *Fixture
	child1, child2 int
	func1, func2   supportPointFunc
}

func newSupportContext(a, b *Fixture, childA, childB int) supportContext {
	return supportContext{
		f1:     a,
		f2:     b,
		child1: childA,
		child2: childB,
		func1:  supportFuncFor(a),
		func2:  supportFuncFor(b),
	}
}

// Support calculates the maximal point on the minkowski difference of two
// shapes along a particular axis.
func (ctx *supportContext) Support(n v.Vec) minkowskiPoint {
	a := ctx.func1(ctx.f1, ctx.child1, n.Neg())
	b := ctx.func2(ctx.f2, ctx.child2, n)
	return newMinkowskiPoint(a, b)
}

// minkowskiPoint is a point on the surface of two shapes' minkowski difference.
type minkowskiPoint struct {
	// Cache the two original support points.
	a, b v.Vec
	// b - a
	ab v.Vec
	// Concatenate the two support point indexes.
	collisionID uint32
}

func newMinkowskiPoint(a, b supportPoint) minkowskiPoint {
	return minkowskiPoint{a.p, b.p, b.p.Sub(a.p), (a.index&0xFF)<<8 | (b.index & 0xFF)}
}

type closestPoints struct {
	// Surface points in absolute coordinates.
	a, b v.Vec
	// Minimum separating axis of the two shapes, pointing from the first
	// shape toward the second.
	n v.Vec
	// Signed distance between the points.
	d float64
	// Concatenation of the ids of the minkowski points.
	collisionID uint32
}

// ClosestPoints calculates the closest points on two shapes given the
// closest edge on their minkowski difference to (0, 0).
func (v0 minkowskiPoint) ClosestPoints(v1 minkowskiPoint) closestPoints {
	t := closestT(v0.ab, v1.ab)
	p := lerpT(v0.ab, v1.ab, t)

	// Interpolate the original support points using the same t value to
	// get the closest surface points in absolute coordinates.
	pa := lerpT(v0.a, v1.a, t)
	pb := lerpT(v0.b, v1.b, t)
	id := (v0.collisionID&0xFFFF)<<16 | (v1.collisionID & 0xFFFF)

	// First try calculating the MSA from the minkowski difference edge.
	// This gives a nice, accurate MSA when the surfaces are close together.
	delta := v1.ab.Sub(v0.ab)
	n := reversePerp(delta).Unit()
	d := n.Dot(p)

	if d <= 0 || (-1 < t && t < 1) {
		// Overlapping, or a regular vertex/edge collision.
		return closestPoints{pa, pb, n, d, id}
	}

	// Vertex/vertex collisions need special treatment since the MSA won't
	// be shared with an axis of the minkowski difference.
	d2 := p.Mag()
	n2 := p.Scale(1 / (d2 + math.SmallestNonzeroFloat64))

	return closestPoints{pa, pb, n2, d2, id}
}

// gjk finds the closest points between two shapes.
func gjk(ctx supportContext, collisionID *uint32) closestPoints {
	var v0, v1 minkowskiPoint

	if *collisionID != 0 {
		// Use the minkowski points from the last frame as a starting point
		// using the cached indexes.
		v0 = newMinkowskiPoint(
			shapePoint(ctx.f1, ctx.child1, (*collisionID>>24)&0xFF),
			shapePoint(ctx.f2, ctx.child2, (*collisionID>>16)&0xFF))
		v1 = newMinkowskiPoint(
			shapePoint(ctx.f1, ctx.child1, (*collisionID>>8)&0xFF),
			shapePoint(ctx.f2, ctx.child2, (*collisionID)&0xFF))
	} else {
		// No cached indexes, use the bounding box centers as a guess for a
		// starting axis.
		axis := perp(ctx.f1.BB.Center().Sub(ctx.f2.BB.Center()))
		v0 = ctx.Support(axis)
		v1 = ctx.Support(axis.Neg())
	}

	points := gjkRecurse(ctx, v0, v1, 1)
	*collisionID = points.collisionID
	return points
}

func gjkRecurse(ctx supportContext, v0, v1 minkowskiPoint, iteration int) closestPoints {
	if iteration > maxGjkIterations {
		return v0.ClosestPoints(v1)
	}

	if pointGreater(v1.ab, v0.ab, v.Vec{}) {
		// Origin is behind axis. Flip and try again.
		return gjkRecurse(ctx, v1, v0, iteration)
	}

	t := closestT(v0.ab, v1.ab)
	var n v.Vec
	if -1.0 < t && t < 1.0 {
		n = perp(v1.ab.Sub(v0.ab))
	} else {
		n = lerpT(v0.ab, v1.ab, t).Neg()
	}
	p := ctx.Support(n)

	if pointGreater(p.ab, v0.ab, v.Vec{}) && pointGreater(v1.ab, p.ab, v.Vec{}) {
		return epa(ctx, v0, p, v1)
	}

	if checkAxis(v0.ab, v1.ab, p.ab, n) {
		return v0.ClosestPoints(v1)
	}

	if closestDist(v0.ab, p.ab) < closestDist(p.ab, v1.ab) {
		return gjkRecurse(ctx, v0, p, iteration+1)
	}
	return gjkRecurse(ctx, p, v1, iteration+1)
}

// epa is called from gjk when two shapes overlap. It finds the closest
// points on the surfaces of the two overlapping shapes.
func epa(ctx supportContext, v0, v1, v2 minkowskiPoint) closestPoints {
	hull := []minkowskiPoint{v0, v1, v2}
	return epaRecurse(ctx, 3, hull, 1)
}

// epaRecurse adds a point to the convex hull each recursion until it's
// known that we have the closest point on the surface.
func epaRecurse(ctx supportContext, count int, hull []minkowskiPoint, iteration int) closestPoints {
	mini := 0
	minDist := infinity

	// Find the closest segment hull[i] and hull[i + 1] to (0, 0).
	i := count - 1
	j := 0
	for j < count {
		d := closestDist(hull[i].ab, hull[j].ab)
		if d < minDist {
			minDist = d
			mini = i
		}
		i = j
		j++
	}

	v0 := hull[mini]
	v1 := hull[(mini+1)%count]

	p := ctx.Support(perp(v1.ab.Sub(v0.ab)))

	duplicate := p.collisionID == v0.collisionID || p.collisionID == v1.collisionID

	if !duplicate && pointGreater(v0.ab, v1.ab, p.ab) && iteration < maxEpaIterations {
		// Rebuild the convex hull by inserting p.
		hull2 := make([]minkowskiPoint, count+1)
		count2 := 1
		hull2[0] = p

		for i := range count {
			index := (mini + 1 + i) % count

			h0 := hull2[count2-1].ab
			h1 := hull[index].ab
			var h2 v.Vec
			if i+1 < count {
				h2 = hull[(index+1)%count].ab
			} else {
				h2 = p.ab
			}

			if pointGreater(h0, h2, h1) {
				hull2[count2] = hull[index]
				count2++
			}
		}

		return epaRecurse(ctx, count2, hull2, iteration+1)
	}

	if iteration > warnEpaIterations {
		log.Println("Warning: High EPA iterations:", iteration)
	}

	return v0.ClosestPoints(v1)
}

// Support edges: the facing edge of a shape along a normal, used to clip
// contact point pairs.

type edgePoint struct {
	p v.Vec
	// Feature hash, the stable half of a contact point id.
	hash uint64
}

type supportEdge struct {
	a, b edgePoint
	r    float64
	n    v.Vec
}

// edgeGeom is the world-space geometry of one edge child, shared between
// standalone Edge fixtures and chain children.
type edgeGeom struct {
	a, b, n            v.Vec
	aTangent, bTangent v.Vec
	radius             float64
	hashA, hashB       uint64
}

func (edge *Edge) worldGeom() edgeGeom {
	rot := edge.Body.Rotation()
	return edgeGeom{
		a:        edge.transformA,
		b:        edge.transformB,
		n:        edge.transformN,
		aTangent: rotateComplex(edge.aTangent, rot),
		bTangent: rotateComplex(edge.bTangent, rot),
		radius:   edge.radius,
		hashA:    hashPair(edge.hashid, 0),
		hashB:    hashPair(edge.hashid, 1),
	}
}

func supportEdgeForGeom(g edgeGeom, n v.Vec) supportEdge {
	if g.n.Dot(n) > 0 {
		return supportEdge{
			a: edgePoint{g.a, g.hashA},
			b: edgePoint{g.b, g.hashB},
			r: g.radius,
			n: g.n,
		}
	}
	return supportEdge{
		a: edgePoint{g.b, g.hashB},
		b: edgePoint{g.a, g.hashA},
		r: g.radius,
		n: g.n.Neg(),
	}
}

func supportEdgeForPoly(poly *Polygon, n v.Vec) supportEdge {
	count := poly.count
	i1 := polySupportPointIndex(count, poly.planes, n)

	i0 := (i1 - 1 + count) % count
	i2 := (i1 + 1) % count

	planes := poly.planes
	hashID := poly.hashid

	if n.Dot(planes[i1].N) > n.Dot(planes[i2].N) {
		return supportEdge{
			edgePoint{planes[i0].V0, hashPair(hashID, uint64(i0))},
			edgePoint{planes[i1].V0, hashPair(hashID, uint64(i1))},
			poly.Radius,
			planes[i1].N,
		}
	}
	return supportEdge{
		edgePoint{planes[i1].V0, hashPair(hashID, uint64(i1))},
		edgePoint{planes[i2].V0, hashPair(hashID, uint64(i2))},
		poly.Radius,
		planes[i2].N,
	}
}

// box faces wind counter-clockwise from the bottom-right corner, matching
// the corner order cached by Box.CacheData.
var boxFaceNormals = [4]v.Vec{{X: 1, Y: 0}, {X: 0, Y: 1}, {X: -1, Y: 0}, {X: 0, Y: -1}}

func supportEdgeForBox(box *Box, n v.Vec) supportEdge {
	i1 := 0
	max := -infinity
	for i, fn := range boxFaceNormals {
		if d := fn.Dot(n); d > max {
			max = d
			i1 = i
		}
	}
	i0 := (i1 + 3) % 4
	hashID := box.hashid
	return supportEdge{
		edgePoint{box.corners[i0], hashPair(hashID, uint64(i0))},
		edgePoint{box.corners[i1], hashPair(hashID, uint64(i1))},
		0,
		boxFaceNormals[i1],
	}
}

// contactPoints finds contact point pairs on two support edges' surfaces.
func contactPoints(e1, e2 supportEdge, points closestPoints, info *collideInfo) {
	mindist := e1.r + e2.r
	if points.d > mindist {
		return
	}

	n := points.n
	info.m.Normal = n

	dE1A := e1.a.p.Cross(n)
	dE1B := e1.b.p.Cross(n)
	dE2A := e2.a.p.Cross(n)
	dE2B := e2.b.p.Cross(n)

	e1Denom := 1 / (dE1B - dE1A + math.SmallestNonzeroFloat64)
	e2Denom := 1 / (dE2B - dE2A + math.SmallestNonzeroFloat64)

	// Project the endpoints of the two edges onto the opposing edge,
	// clamping them as necessary. Compare the projected points to the
	// collision normal to see if the shapes overlap there.
	{
		p1 := n.Scale(e1.r).Add(e1.a.p.Lerp(e1.b.p, clamp01((dE2B-dE1A)*e1Denom)))
		p2 := n.Scale(-e2.r).Add(e2.a.p.Lerp(e2.b.p, clamp01((dE1A-dE2A)*e2Denom)))
		if dist := p2.Sub(p1).Dot(n); dist <= 0 {
			info.PushContact(p1, p2, hashPair(e1.a.hash, e2.b.hash))
		}
	}
	{
		p1 := n.Scale(e1.r).Add(e1.a.p.Lerp(e1.b.p, clamp01((dE2A-dE1A)*e1Denom)))
		p2 := n.Scale(-e2.r).Add(e2.a.p.Lerp(e2.b.p, clamp01((dE1B-dE2A)*e2Denom)))
		if dist := p2.Sub(p1).Dot(n); dist <= 0 {
			info.PushContact(p1, p2, hashPair(e1.b.hash, e2.a.hash))
		}
	}
}

// Narrow-phase routines. Every routine leaves the manifold normal pointing
// from fixture A toward fixture B.

func circleToCircle(info *collideInfo) {
	c1 := info.a.Class.(*Circle)
	c2 := info.b.Class.(*Circle)

	mindist := c1.radius + c2.radius
	delta := c2.transformC.Sub(c1.transformC)
	distsq := delta.MagSq()

	if distsq < mindist*mindist {
		dist := math.Sqrt(distsq)
		if dist != 0 {
			info.m.Normal = delta.Scale(1.0 / dist)
		} else {
			info.m.Normal = v.Vec{X: 1, Y: 0}
		}
		n := info.m.Normal
		info.PushContact(
			c1.transformC.Add(n.Scale(c1.radius)),
			c2.transformC.Add(n.Scale(-c2.radius)),
			0)
	}
}

func edgeToCircle(info *collideInfo) {
	geom := info.a.Class.(*Edge).worldGeom()
	circle := info.b.Class.(*Circle)
	edgeGeomToCircle(info, geom, circle)
}

func edgeGeomToCircle(info *collideInfo, g edgeGeom, circle *Circle) {
	center := circle.transformC

	segDelta := g.b.Sub(g.a)
	closestT := clamp01(segDelta.Dot(center.Sub(g.a)) / segDelta.MagSq())
	closest := g.a.Add(segDelta.Scale(closestT))

	mindist := g.radius + circle.radius
	delta := center.Sub(closest)
	distsq := delta.MagSq()
	if distsq >= mindist*mindist {
		return
	}

	dist := math.Sqrt(distsq)
	var n v.Vec
	if dist != 0 {
		n = delta.Scale(1 / dist)
	} else {
		n = g.n
	}

	// Reject endcap collisions if tangents are provided.
	if (closestT == 0.0 && n.Dot(g.aTangent) > 0.0) ||
		(closestT == 1.0 && n.Dot(g.bTangent) > 0.0) {
		return
	}

	info.m.Normal = n
	info.PushContact(
		closest.Add(n.Scale(g.radius)),
		center.Add(n.Scale(-circle.radius)),
		hashPair(g.hashA, g.hashB))
}

func polyToCircle(info *collideInfo) {
	ctx := newSupportContext(info.a, info.b, info.childA, info.childB)
	points := gjk(ctx, &info.collisionID)

	poly := info.a.Class.(*Polygon)
	circle := info.b.Class.(*Circle)

	if points.d <= poly.Radius+circle.radius {
		n := points.n
		info.m.Normal = n
		info.PushContact(
			points.a.Add(n.Scale(poly.Radius)),
			points.b.Add(n.Scale(-circle.radius)),
			0)
	}
}

func polyToPoly(info *collideInfo) {
	ctx := newSupportContext(info.a, info.b, info.childA, info.childB)
	points := gjk(ctx, &info.collisionID)

	poly1 := info.a.Class.(*Polygon)
	poly2 := info.b.Class.(*Polygon)
	if points.d-poly1.Radius-poly2.Radius <= 0 {
		contactPoints(
			supportEdgeForPoly(poly1, points.n),
			supportEdgeForPoly(poly2, points.n.Neg()),
			points, info)
	}
}

func edgeToPoly(info *collideInfo) {
	geom := info.a.Class.(*Edge).worldGeom()
	edgeGeomToPoly(info, geom)
}

func edgeGeomToPoly(info *collideInfo, g edgeGeom) {
	ctx := newSupportContext(info.a, info.b, info.childA, info.childB)
	points := gjk(ctx, &info.collisionID)

	n := points.n
	poly := info.b.Class.(*Polygon)

	// If the closest points are nearer than the sum of the radii...
	if points.d-g.radius-poly.Radius <= 0 && (
	// Reject endcap collisions if tangents are provided.
	(!points.a.Equals(g.a) || n.Dot(g.aTangent) <= 0) &&
		(!points.a.Equals(g.b) || n.Dot(g.bTangent) <= 0)) {
		contactPoints(
			supportEdgeForGeom(g, n),
			supportEdgeForPoly(poly, n.Neg()),
			points, info)
	}
}

func chainToCircle(info *collideInfo) {
	chain := info.a.Class.(*Chain)
	circle := info.b.Class.(*Circle)
	edgeGeomToCircle(info, chain.childEdge(info.childA), circle)
}

func chainToPoly(info *collideInfo) {
	chain := info.a.Class.(*Chain)
	edgeGeomToPoly(info, chain.childEdge(info.childA))
}

// Aabb fast paths. These work on the cached world boxes directly instead
// of going through polygon support machinery.

func aabbToCircle(info *collideInfo) {
	box := info.a.Class.(*Box)
	circle := info.b.Class.(*Circle)

	center := circle.transformC
	closest := box.bb.ClampVect(center)
	delta := center.Sub(closest)
	distsq := delta.MagSq()

	r := circle.radius
	if distsq >= r*r && distsq != 0 {
		return
	}

	var n v.Vec
	if distsq != 0 {
		n = delta.Scale(1 / math.Sqrt(distsq))
	} else {
		// Center inside the box: push out along the shallowest face.
		c := box.bb.Center()
		d := center.Sub(c)
		px := box.hw - math.Abs(d.X)
		py := box.hh - math.Abs(d.Y)
		if px < py {
			n = v.Vec{X: math.Copysign(1, d.X), Y: 0}
			closest = v.Vec{X: c.X + math.Copysign(box.hw, d.X), Y: center.Y}
		} else {
			n = v.Vec{X: 0, Y: math.Copysign(1, d.Y)}
			closest = v.Vec{X: center.X, Y: c.Y + math.Copysign(box.hh, d.Y)}
		}
	}

	info.m.Normal = n
	info.PushContact(closest, center.Add(n.Scale(-r)), 0)
}

func aabbToAabb(info *collideInfo) {
	a := info.a.Class.(*Box)
	b := info.b.Class.(*Box)

	ac := a.bb.Center()
	bc := b.bb.Center()
	d := bc.Sub(ac)

	px := a.hw + b.hw - math.Abs(d.X)
	if px <= 0 {
		return
	}
	py := a.hh + b.hh - math.Abs(d.Y)
	if py <= 0 {
		return
	}

	// Overlap region; the contact points are its corners on the face
	// perpendicular to the shallower axis.
	l := math.Max(a.bb.L, b.bb.L)
	r := math.Min(a.bb.R, b.bb.R)
	bot := math.Max(a.bb.B, b.bb.B)
	top := math.Min(a.bb.T, b.bb.T)

	hashA := info.a.hashid
	hashB := info.b.hashid

	if px < py {
		sign := math.Copysign(1, d.X)
		info.m.Normal = v.Vec{X: sign, Y: 0}
		faceX := ac.X + sign*a.hw
		info.PushContact(v.Vec{X: faceX, Y: bot}, v.Vec{X: faceX - sign*px, Y: bot}, hashPair(hashA, hashB))
		if top-bot > magicEpsilon {
			info.PushContact(v.Vec{X: faceX, Y: top}, v.Vec{X: faceX - sign*px, Y: top}, hashPair(hashB, hashA))
		}
	} else {
		sign := math.Copysign(1, d.Y)
		info.m.Normal = v.Vec{X: 0, Y: sign}
		faceY := ac.Y + sign*a.hh
		info.PushContact(v.Vec{X: l, Y: faceY}, v.Vec{X: l, Y: faceY - sign*py}, hashPair(hashA, hashB))
		if r-l > magicEpsilon {
			info.PushContact(v.Vec{X: r, Y: faceY}, v.Vec{X: r, Y: faceY - sign*py}, hashPair(hashB, hashA))
		}
	}
}

func aabbToPoly(info *collideInfo) {
	ctx := newSupportContext(info.a, info.b, info.childA, info.childB)
	points := gjk(ctx, &info.collisionID)

	box := info.a.Class.(*Box)
	poly := info.b.Class.(*Polygon)
	if points.d-poly.Radius <= 0 {
		contactPoints(
			supportEdgeForBox(box, points.n),
			supportEdgeForPoly(poly, points.n.Neg()),
			points, info)
	}
}

func aabbToEdge(info *collideInfo) {
	ctx := newSupportContext(info.a, info.b, info.childA, info.childB)
	points := gjk(ctx, &info.collisionID)

	box := info.a.Class.(*Box)
	geom := info.b.Class.(*Edge).worldGeom()
	if points.d-geom.radius <= 0 {
		contactPoints(
			supportEdgeForBox(box, points.n),
			supportEdgeForGeom(geom, points.n.Neg()),
			points, info)
	}
}

func aabbToChain(info *collideInfo) {
	ctx := newSupportContext(info.a, info.b, info.childA, info.childB)
	points := gjk(ctx, &info.collisionID)

	box := info.a.Class.(*Box)
	chain := info.b.Class.(*Chain)
	geom := chain.childEdge(info.childB)
	if points.d-geom.radius <= 0 {
		contactPoints(
			supportEdgeForBox(box, points.n),
			supportEdgeForGeom(geom, points.n.Neg()),
			points, info)
	}
}

// overlapTest is the sensor path: a pure boolean overlap check that never
// builds a manifold.
func overlapTest(a, b *Fixture, childA, childB int) bool {
	if !a.BB.Intersects(b.BB) {
		return false
	}

	switch {
	case a.Kind() == KindCircle && b.Kind() == KindCircle:
		c1 := a.Class.(*Circle)
		c2 := b.Class.(*Circle)
		mindist := c1.radius + c2.radius
		return c2.transformC.Sub(c1.transformC).MagSq() < mindist*mindist
	case a.Kind() == KindAabb && b.Kind() == KindAabb:
		return true // BB check above is exact for two boxes
	}

	ctx := newSupportContext(a, b, childA, childB)
	var id uint32
	points := gjk(ctx, &id)
	return points.d <= shapeRadius(a, childA)+shapeRadius(b, childB)
}

func shapeRadius(f *Fixture, child int) float64 {
	switch class := f.Class.(type) {
	case *Circle:
		return class.radius
	case *Edge:
		return class.radius
	case *Polygon:
		return class.Radius
	case *Chain:
		return class.radius
	}
	return 0
}
