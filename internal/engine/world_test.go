package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func near(a, b, eps float64) bool { return math.Abs(a-b) <= eps }

func nearVec(a, b mgl64.Vec3, eps float64) bool {
	return near(a[0], b[0], eps) && near(a[1], b[1], eps) && near(a[2], b[2], eps)
}

func mustCreate(t *testing.T, w *World, shape Shape, mass float64, pos mgl64.Vec3) Body {
	t.Helper()
	b, err := w.CreateBody(shape, mass, Transform{Position: pos, Rotation: mgl64.QuatIdent()})
	if err != nil {
		t.Fatalf("CreateBody: %v", err)
	}
	return b
}

func TestGravityFall(t *testing.T) {
	w := NewWorld(mgl64.Vec3{0, -10, 0})
	b := mustCreate(t, w, Shape{Kind: ShapeSphere, Radius: 0.5}, 1, mgl64.Vec3{})

	// Semi-implicit Euler over n steps of h: v = g*h*n, y = g*h^2 * n(n+1)/2.
	steps := w.StepSimulation(1.0, 10, 0.1)
	if steps != 10 {
		t.Fatalf("StepSimulation performed %d sub-steps, want 10", steps)
	}
	if v := b.LinearVelocity(); !near(v[1], -10, 1e-9) {
		t.Errorf("velocity y = %v, want -10", v[1])
	}
	if p := b.WorldTransform().Position; !near(p[1], -5.5, 1e-9) {
		t.Errorf("position y = %v, want -5.5", p[1])
	}
}

func TestStepAccounting(t *testing.T) {
	w := NewWorld(mgl64.Vec3{})

	if got := w.StepSimulation(0.01, 4, 1.0/60.0); got != 0 {
		t.Errorf("dt below fixed step performed %d sub-steps, want 0", got)
	}
	// The leftover 0.01 carries over; another 0.01 crosses the threshold.
	if got := w.StepSimulation(0.01, 4, 1.0/60.0); got != 1 {
		t.Errorf("accumulated dt performed %d sub-steps, want 1", got)
	}
	// A huge dt is clamped to maxSubSteps.
	if got := w.StepSimulation(10, 4, 1.0/60.0); got != 4 {
		t.Errorf("clamped step performed %d sub-steps, want 4", got)
	}
	if got := w.StepSimulation(-1, 4, 1.0/60.0); got != 0 {
		t.Errorf("negative dt performed %d sub-steps, want 0", got)
	}
}

func TestStaticBodyDoesNotMove(t *testing.T) {
	w := NewWorld(mgl64.Vec3{0, -10, 0})
	b := mustCreate(t, w, Shape{Kind: ShapeBox, HalfExtents: mgl64.Vec3{1, 1, 1}}, 0, mgl64.Vec3{0, 3, 0})

	w.StepSimulation(1, 10, 0.1)
	if p := b.WorldTransform().Position; p != (mgl64.Vec3{0, 3, 0}) {
		t.Errorf("static body moved to %v", p)
	}
	if !b.Static() {
		t.Error("zero-mass body should report Static")
	}
}

func TestKinematicBodyIgnoresGravity(t *testing.T) {
	w := NewWorld(mgl64.Vec3{0, -10, 0})
	b := mustCreate(t, w, Shape{Kind: ShapeBox, HalfExtents: mgl64.Vec3{1, 1, 1}}, 1, mgl64.Vec3{0, 3, 0})
	b.SetKinematic(true)

	w.StepSimulation(1, 10, 0.1)
	if p := b.WorldTransform().Position; p != (mgl64.Vec3{0, 3, 0}) {
		t.Errorf("kinematic body moved to %v", p)
	}
	if b.Static() {
		t.Error("kinematic body must not report Static")
	}
}

func TestContactReported(t *testing.T) {
	w := NewWorld(mgl64.Vec3{})
	ground := mustCreate(t, w, Shape{Kind: ShapeBox, HalfExtents: mgl64.Vec3{5, 0.5, 5}}, 0, mgl64.Vec3{})
	ball := mustCreate(t, w, Shape{Kind: ShapeSphere, Radius: 0.5}, 1, mgl64.Vec3{0, 0.9, 0})

	var contacts []Contact
	w.OnContact(func(c Contact) { contacts = append(contacts, c) })

	w.StepSimulation(0.1, 1, 0.1)

	if len(contacts) != 1 {
		t.Fatalf("got %d contacts, want 1", len(contacts))
	}
	c := contacts[0]
	if (c.A != ground && c.B != ground) || (c.A != ball && c.B != ball) {
		t.Error("contact does not involve both bodies")
	}
	if !near(c.Distance, -0.1, 1e-9) {
		t.Errorf("contact distance = %v, want -0.1", c.Distance)
	}

	// Positional correction pushes the resting ball out of the ground.
	if p := ball.WorldTransform().Position; !near(p[1], 1.0, 1e-9) {
		t.Errorf("ball y after correction = %v, want 1.0", p[1])
	}
	if p := ground.WorldTransform().Position; p != (mgl64.Vec3{}) {
		t.Errorf("static ground moved to %v", p)
	}
}

func TestNoContactBetweenStaticBodies(t *testing.T) {
	w := NewWorld(mgl64.Vec3{})
	mustCreate(t, w, Shape{Kind: ShapeBox, HalfExtents: mgl64.Vec3{1, 1, 1}}, 0, mgl64.Vec3{})
	mustCreate(t, w, Shape{Kind: ShapeBox, HalfExtents: mgl64.Vec3{1, 1, 1}}, 0, mgl64.Vec3{0.5, 0, 0})

	fired := false
	w.OnContact(func(Contact) { fired = true })
	w.StepSimulation(0.1, 1, 0.1)
	if fired {
		t.Error("overlapping static bodies reported a contact")
	}
}

func TestBodySleepsWhenSlow(t *testing.T) {
	w := NewWorld(mgl64.Vec3{})
	b := mustCreate(t, w, Shape{Kind: ShapeSphere, Radius: 0.5}, 1, mgl64.Vec3{})

	w.StepSimulation(1, 100, 0.01)
	if b.Active() {
		t.Error("motionless body still active after a second")
	}
	b.ApplyCentralImpulse(mgl64.Vec3{5, 0, 0})
	if !b.Active() {
		t.Error("impulse did not wake the body")
	}
}

func TestCreateBodyRejectsDegenerateShapes(t *testing.T) {
	w := NewWorld(mgl64.Vec3{})
	shapes := []Shape{
		{Kind: ShapeSphere},
		{Kind: ShapeBox, HalfExtents: mgl64.Vec3{1, 0, 1}},
		{Kind: ShapeCapsule, Radius: -1},
		{Kind: ShapeMesh, Vertices: []mgl64.Vec3{{0, 0, 0}}},
	}
	for _, s := range shapes {
		if _, err := w.CreateBody(s, 1, IdentityTransform()); !errors.Is(err, ErrBadShape) {
			t.Errorf("CreateBody(%+v) = %v, want ErrBadShape", s, err)
		}
	}
}

func TestRemoveBody(t *testing.T) {
	w := NewWorld(mgl64.Vec3{})
	b := mustCreate(t, w, Shape{Kind: ShapeSphere, Radius: 1}, 1, mgl64.Vec3{})

	if _, ok := w.RayTest(mgl64.Vec3{-5, 0, 0}, mgl64.Vec3{5, 0, 0}); !ok {
		t.Fatal("ray should hit the body before removal")
	}
	w.RemoveBody(b)
	if _, ok := w.RayTest(mgl64.Vec3{-5, 0, 0}, mgl64.Vec3{5, 0, 0}); ok {
		t.Error("ray hit a removed body")
	}
}
