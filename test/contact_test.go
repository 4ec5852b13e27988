package tilespace_test

import (
	"math"
	"testing"

	"github.com/setanarut/tilespace"
	"github.com/setanarut/v"
)

// arena returns a world with one grid whose chunk covers (0,0)-(1600,1600).
// The single solid tile at the origin keeps its collision box away from the
// (200,200)-(300,300) region the tests place entities in.
func arena() *tilespace.World {
	w := tilespace.NewWorld()
	g := w.AddGrid(1, 100)
	g.SetTile(tilespace.TileCoord{X: 0, Y: 0}, 1)
	return w
}

func spawnCircle(w *tilespace.World, pos v.Vec, r float64) (*tilespace.Entity, *tilespace.Fixture) {
	body := tilespace.NewBody()
	f := tilespace.NewCircleShape(body, "circle", r, v.Vec{})
	body.SetPosition(pos)
	return w.SpawnBody(body), f
}

type recordingListener struct {
	begins, ends int
}

func (l *recordingListener) BeginTouch(c *tilespace.Contact) { l.begins++ }
func (l *recordingListener) EndTouch(c *tilespace.Contact)   { l.ends++ }

func soleContact(t *testing.T, w *tilespace.World) *tilespace.Contact {
	t.Helper()
	if w.ContactCount() != 1 {
		t.Fatalf("contact count = %d", w.ContactCount())
	}
	var c *tilespace.Contact
	w.EachContact(func(found *tilespace.Contact) { c = found })
	return c
}

func TestCircleCircleContact(t *testing.T) {
	w := arena()
	spawnCircle(w, v.Vec{X: 250, Y: 250}, 5)
	spawnCircle(w, v.Vec{X: 258, Y: 250}, 5)
	w.Step()

	c := soleContact(t, w)
	if !c.IsTouching() {
		t.Fatal("expected touching contact")
	}

	m := c.Manifold()
	if m.Count != 1 {
		t.Fatalf("manifold count = %d", m.Count)
	}
	if math.Abs(m.Normal.Mag()-1) > 1e-9 {
		t.Fatalf("normal not unit: %v", m.Normal)
	}
	if m.Points[0].Separation >= 0 {
		t.Fatalf("separation = %v", m.Points[0].Separation)
	}
}

func TestCircleTouchThenSeparate(t *testing.T) {
	w := arena()
	listener := &recordingListener{}
	w.Listener = listener

	a, _ := spawnCircle(w, v.Vec{X: 250, Y: 250}, 1)
	spawnCircle(w, v.Vec{X: 251.5, Y: 250}, 1)
	w.Step()

	c := soleContact(t, w)
	m := c.Manifold()
	if m.Count != 1 {
		t.Fatalf("manifold count = %d", m.Count)
	}
	// normal points from A toward B
	if m.Normal.X <= 0.99 {
		t.Fatalf("normal = %v", m.Normal)
	}
	if listener.begins != 1 {
		t.Fatalf("begins = %d", listener.begins)
	}

	w.Queue().QueueMove(a.ID, v.Vec{X: 248.5, Y: 250}, tilespace.NewBBForCircle(v.Vec{X: 248.5, Y: 250}, 1))
	w.Step()

	if listener.ends != 1 {
		t.Fatalf("ends = %d", listener.ends)
	}
	if w.ContactCount() != 0 {
		t.Fatalf("contact count = %d", w.ContactCount())
	}
}

func TestContactMaterialMixing(t *testing.T) {
	w := arena()
	_, fa := spawnCircle(w, v.Vec{X: 250, Y: 250}, 5)
	_, fb := spawnCircle(w, v.Vec{X: 258, Y: 250}, 5)
	fa.Friction = 0.25
	fb.Friction = 1.0
	fa.Restitution = 0.2
	fb.Restitution = 0.7
	w.Step()

	c := soleContact(t, w)
	if math.Abs(c.Friction-0.5) > 1e-9 {
		t.Fatalf("friction = %v", c.Friction)
	}
	if c.Restitution != 0.7 {
		t.Fatalf("restitution = %v", c.Restitution)
	}
}

func spawnBox(w *tilespace.World, pos v.Vec) *tilespace.Entity {
	body := tilespace.NewBody()
	tilespace.NewPolygonShape(body, "box", []v.Vec{
		{X: -5, Y: -5}, {X: 5, Y: -5}, {X: 5, Y: 5}, {X: -5, Y: 5},
	}, 0)
	body.SetPosition(pos)
	return w.SpawnBody(body)
}

func TestCanonicalOrderPolygonCircle(t *testing.T) {
	// whichever side is created first, the contact stores the polygon as A
	for _, circleFirst := range []bool{true, false} {
		w := arena()
		if circleFirst {
			spawnCircle(w, v.Vec{X: 250, Y: 250}, 5)
			spawnBox(w, v.Vec{X: 257, Y: 250})
		} else {
			spawnBox(w, v.Vec{X: 257, Y: 250})
			spawnCircle(w, v.Vec{X: 250, Y: 250}, 5)
		}
		w.Step()

		c := soleContact(t, w)
		if c.FixtureA.Kind() != tilespace.KindPolygon || c.FixtureB.Kind() != tilespace.KindCircle {
			t.Fatalf("circleFirst=%v: pair ordered %v/%v",
				circleFirst, c.FixtureA.Kind(), c.FixtureB.Kind())
		}
	}
}

func TestCanonicalOrderEdgePolygonException(t *testing.T) {
	// edge stays first even though polygon outranks it, from either
	// creation order
	for _, edgeFirst := range []bool{true, false} {
		w := arena()
		spawnEdge := func() {
			body := tilespace.NewBody()
			tilespace.NewEdgeShape(body, "edge", v.Vec{X: -10, Y: 0}, v.Vec{X: 10, Y: 0}, 1)
			body.SetPosition(v.Vec{X: 250, Y: 254})
			w.SpawnBody(body)
		}
		if edgeFirst {
			spawnEdge()
			spawnBox(w, v.Vec{X: 250, Y: 250})
		} else {
			spawnBox(w, v.Vec{X: 250, Y: 250})
			spawnEdge()
		}
		w.Step()

		c := soleContact(t, w)
		if c.FixtureA.Kind() != tilespace.KindEdge || c.FixtureB.Kind() != tilespace.KindPolygon {
			t.Fatalf("edgeFirst=%v: pair ordered %v/%v",
				edgeFirst, c.FixtureA.Kind(), c.FixtureB.Kind())
		}
		if !c.IsTouching() {
			t.Fatal("expected touching contact")
		}
	}
}

func TestDisabledContactSkipsUpdate(t *testing.T) {
	w := arena()
	listener := &recordingListener{}
	w.Listener = listener

	// diamond whose bounds reach past its surface near the corners
	body := tilespace.NewBody()
	tilespace.NewPolygonShape(body, "diamond", []v.Vec{
		{X: 7, Y: 0}, {X: 0, Y: 7}, {X: -7, Y: 0}, {X: 0, Y: -7},
	}, 0)
	body.SetPosition(v.Vec{X: 250, Y: 250})
	w.SpawnBody(body)

	// circle inside the diamond's bounds but off its surface
	probe, _ := spawnCircle(w, v.Vec{X: 257, Y: 257}, 2)
	w.Step()

	c := soleContact(t, w)
	if c.IsTouching() || listener.begins != 0 {
		t.Fatal("corner probe should not touch the diamond")
	}

	// move onto the surface, but veto the next update
	w.Queue().QueueMove(probe.ID, v.Vec{X: 254, Y: 254}, tilespace.NewBBForCircle(v.Vec{X: 254, Y: 254}, 2))
	c.Enabled = false
	w.Step()

	if c.IsTouching() || listener.begins != 0 {
		t.Fatal("disabled contact must not update")
	}
	if !c.Enabled {
		t.Fatal("skipped contact should re-arm")
	}

	w.Step()
	if !c.IsTouching() || listener.begins != 1 {
		t.Fatalf("touching=%v begins=%d", c.IsTouching(), listener.begins)
	}
}

func TestEdgeEdgePairSkipped(t *testing.T) {
	w := arena()

	for i := 0; i < 2; i++ {
		body := tilespace.NewBody()
		tilespace.NewEdgeShape(body, "edge", v.Vec{X: -10, Y: 0}, v.Vec{X: 10, Y: 0}, 1)
		body.SetPosition(v.Vec{X: 250, Y: 250 + float64(i)})
		w.SpawnBody(body)
	}
	w.Step()

	if w.ContactCount() != 0 {
		t.Fatalf("contact count = %d", w.ContactCount())
	}
}

func TestSensorOverlapOnly(t *testing.T) {
	w := arena()
	spawnCircle(w, v.Vec{X: 250, Y: 250}, 5)
	_, fb := spawnCircle(w, v.Vec{X: 258, Y: 250}, 5)
	fb.Hard = false
	w.Step()

	c := soleContact(t, w)
	if !c.IsSensor() {
		t.Fatal("expected sensor contact")
	}
	if !c.IsTouching() {
		t.Fatal("expected overlap")
	}
	if c.Manifold().Count != 0 {
		t.Fatal("sensor contact grew a manifold")
	}
}

func TestBeginEndTouchFireOnce(t *testing.T) {
	w := arena()
	listener := &recordingListener{}
	w.Listener = listener

	a, _ := spawnCircle(w, v.Vec{X: 250, Y: 250}, 5)
	spawnCircle(w, v.Vec{X: 258, Y: 250}, 5)

	w.Step()
	w.Step()
	w.Step()
	if listener.begins != 1 || listener.ends != 0 {
		t.Fatalf("begins=%d ends=%d", listener.begins, listener.ends)
	}

	w.Queue().QueueMove(a.ID, v.Vec{X: 400, Y: 400}, tilespace.NewBBForCircle(v.Vec{X: 400, Y: 400}, 5))
	w.Step()
	w.Step()
	if listener.begins != 1 || listener.ends != 1 {
		t.Fatalf("begins=%d ends=%d", listener.begins, listener.ends)
	}
}

func TestWarmStartCarryOver(t *testing.T) {
	w := arena()
	spawnCircle(w, v.Vec{X: 250, Y: 250}, 5)
	spawnCircle(w, v.Vec{X: 258, Y: 250}, 5)
	w.Step()

	c := soleContact(t, w)
	c.Manifold().Points[0].NormalImpulse = 5
	c.Manifold().Points[0].TangentImpulse = 2

	// nothing moved, the point id survives, the impulses carry over
	w.Step()
	if c.Manifold().Points[0].NormalImpulse != 5 {
		t.Fatalf("normal impulse = %v", c.Manifold().Points[0].NormalImpulse)
	}
	if c.Manifold().Points[0].TangentImpulse != 2 {
		t.Fatalf("tangent impulse = %v", c.Manifold().Points[0].TangentImpulse)
	}
}

func TestContactGraphEdges(t *testing.T) {
	w := arena()
	a, _ := spawnCircle(w, v.Vec{X: 250, Y: 250}, 5)
	b, _ := spawnCircle(w, v.Vec{X: 258, Y: 250}, 5)
	w.Step()

	count := 0
	a.Body.EachContact(func(c *tilespace.Contact) {
		count++
		if c.OtherBody(a.Body) != b.Body {
			t.Fatal("edge points at the wrong body")
		}
	})
	if count != 1 {
		t.Fatalf("edge count = %d", count)
	}

	// destroying the contact unthreads both lists
	w.Queue().QueueDelete(b.ID)
	w.Step()
	if a.Body.ContactList() != nil {
		t.Fatal("stale contact edge")
	}
}

func TestWakeOnTouchingFlip(t *testing.T) {
	w := arena()
	a, _ := spawnCircle(w, v.Vec{X: 250, Y: 250}, 5)
	b, _ := spawnCircle(w, v.Vec{X: 258, Y: 250}, 5)
	a.Body.SetAwake(false)
	b.Body.SetAwake(false)

	w.Step()
	if !a.Body.IsAwake() || !b.Body.IsAwake() {
		t.Fatal("touch start should wake both bodies")
	}

	a.Body.SetAwake(false)
	b.Body.SetAwake(false)
	w.Queue().QueueMove(a.ID, v.Vec{X: 400, Y: 400}, tilespace.NewBBForCircle(v.Vec{X: 400, Y: 400}, 5))
	w.Step()
	if !a.Body.IsAwake() || !b.Body.IsAwake() {
		t.Fatal("separation should wake both bodies")
	}
}

func TestGridChunkCollision(t *testing.T) {
	w := tilespace.NewWorld()
	g := w.AddGrid(1, 10)
	g.SetTile(tilespace.TileCoord{X: 0, Y: 0}, 1)

	// circle next to the solid tile, overlapping its collision box
	_, f := spawnCircle(w, v.Vec{X: 15, Y: 5}, 6)
	w.Step()

	c := soleContact(t, w)
	if !c.IsTouching() {
		t.Fatal("expected touching contact with the chunk box")
	}
	var box *tilespace.Fixture
	if c.FixtureA == f {
		box = c.FixtureB
	} else {
		box = c.FixtureA
	}
	if box.Kind() != tilespace.KindAabb || box.Name != "chunk" {
		t.Fatalf("unexpected grid fixture %v %q", box.Kind(), box.Name)
	}

	// clearing the tile detaches the box and ends the contact
	listener := &recordingListener{}
	w.Listener = listener
	g.SetTile(tilespace.TileCoord{X: 0, Y: 0}, tilespace.TileEmpty)
	w.Step()
	if w.ContactCount() != 0 {
		t.Fatalf("contact count = %d", w.ContactCount())
	}
	if listener.ends != 1 {
		t.Fatalf("ends = %d", listener.ends)
	}
}

func TestAabbAabbContact(t *testing.T) {
	w := arena()

	for _, pos := range []v.Vec{{X: 250, Y: 250}, {X: 258, Y: 250}} {
		body := tilespace.NewBody()
		tilespace.NewBoxShape(body, "box", 10, 10, v.Vec{})
		body.SetPosition(pos)
		w.SpawnBody(body)
	}
	w.Step()

	c := soleContact(t, w)
	m := c.Manifold()
	if !c.IsTouching() || m.Count != 2 {
		t.Fatalf("touching=%v count=%d", c.IsTouching(), m.Count)
	}
	if math.Abs(math.Abs(m.Normal.X)-1) > 1e-9 || m.Normal.Y != 0 {
		t.Fatalf("normal = %v", m.Normal)
	}
}
