package engine

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func newTestBody(t *testing.T, mass float64) (*World, Body) {
	t.Helper()
	w := NewWorld(mgl64.Vec3{0, -9.81, 0})
	return w, mustCreate(t, w, Shape{Kind: ShapeSphere, Radius: 0.5}, mass, mgl64.Vec3{})
}

func TestBodyDefaults(t *testing.T) {
	w, b := newTestBody(t, 2)

	if b.Mass() != 2 || !near(b.InvMass(), 0.5, 1e-12) {
		t.Errorf("mass %v invMass %v, want 2 and 0.5", b.Mass(), b.InvMass())
	}
	if b.Friction() != 0.5 {
		t.Errorf("default friction = %v, want 0.5", b.Friction())
	}
	if lin, ang := b.SleepingThresholds(); lin != 0.8 || ang != 1.0 {
		t.Errorf("default sleeping thresholds = %v/%v, want 0.8/1.0", lin, ang)
	}
	if b.LinearFactor() != (mgl64.Vec3{1, 1, 1}) || b.AngularFactor() != (mgl64.Vec3{1, 1, 1}) {
		t.Error("default factors are not unit")
	}
	if b.Gravity() != w.Gravity() {
		t.Errorf("body gravity %v does not inherit world gravity %v", b.Gravity(), w.Gravity())
	}
	if !b.Active() || b.Kinematic() || b.Static() {
		t.Error("fresh dynamic body should be active, non-kinematic, non-static")
	}
}

func TestSetMassZeroFreezes(t *testing.T) {
	_, b := newTestBody(t, 1)
	b.SetLinearVelocity(mgl64.Vec3{3, 0, 0})
	b.SetAngularVelocity(mgl64.Vec3{0, 1, 0})

	b.SetMass(0)
	if b.InvMass() != 0 || !b.Static() {
		t.Error("zero mass should make the body static")
	}
	if b.LinearVelocity() != (mgl64.Vec3{}) || b.AngularVelocity() != (mgl64.Vec3{}) {
		t.Error("zeroing mass should zero velocities")
	}

	// Static bodies refuse velocity writes.
	b.SetLinearVelocity(mgl64.Vec3{1, 0, 0})
	if b.LinearVelocity() != (mgl64.Vec3{}) {
		t.Error("static body accepted a linear velocity")
	}
}

func TestCentralImpulse(t *testing.T) {
	_, b := newTestBody(t, 2)
	b.ApplyCentralImpulse(mgl64.Vec3{4, 0, 0})
	if v := b.LinearVelocity(); !nearVec(v, mgl64.Vec3{2, 0, 0}, 1e-12) {
		t.Errorf("velocity after impulse = %v, want {2 0 0}", v)
	}
}

func TestForcesAccumulateAndClear(t *testing.T) {
	_, b := newTestBody(t, 1)
	b.ApplyCentralForce(mgl64.Vec3{1, 0, 0})
	b.ApplyForce(mgl64.Vec3{0, 2, 0}, mgl64.Vec3{1, 0, 0})
	b.ApplyTorque(mgl64.Vec3{0, 0, 1})

	if f := b.TotalForce(); f != (mgl64.Vec3{1, 2, 0}) {
		t.Errorf("total force = %v, want {1 2 0}", f)
	}
	// rel x force: {1,0,0} x {0,2,0} = {0,0,2}, plus the explicit torque.
	if tq := b.TotalTorque(); tq != (mgl64.Vec3{0, 0, 3}) {
		t.Errorf("total torque = %v, want {0 0 3}", tq)
	}

	b.ClearForces()
	if b.TotalForce() != (mgl64.Vec3{}) || b.TotalTorque() != (mgl64.Vec3{}) {
		t.Error("ClearForces left residue")
	}
}

func TestStaticBodyIgnoresForces(t *testing.T) {
	_, b := newTestBody(t, 0)
	b.ApplyCentralForce(mgl64.Vec3{1, 0, 0})
	b.ApplyCentralImpulse(mgl64.Vec3{1, 0, 0})
	if b.TotalForce() != (mgl64.Vec3{}) || b.LinearVelocity() != (mgl64.Vec3{}) {
		t.Error("static body accumulated force or velocity")
	}
}

func TestLinearFactorLocksAxes(t *testing.T) {
	w, b := newTestBody(t, 1)
	b.SetLinearFactor(mgl64.Vec3{1, 0, 1})

	w.StepSimulation(0.5, 50, 0.01)
	if v := b.LinearVelocity(); v[1] != 0 {
		t.Errorf("gravity leaked through a zero linear factor: v = %v", v)
	}
	if p := b.WorldTransform().Position; p[1] != 0 {
		t.Errorf("body fell despite locked y axis: p = %v", p)
	}
}

func TestDampingClamped(t *testing.T) {
	_, b := newTestBody(t, 1)
	b.SetDamping(-0.5, 2)
	lin, ang := b.Damping()
	if lin != 0 || ang != 1 {
		t.Errorf("damping = %v/%v, want clamped to 0/1", lin, ang)
	}
}

func TestDampingSlowsBody(t *testing.T) {
	w := NewWorld(mgl64.Vec3{})
	b := mustCreate(t, w, Shape{Kind: ShapeSphere, Radius: 0.5}, 1, mgl64.Vec3{})
	b.SetDamping(0.9, 0)
	b.SetLinearVelocity(mgl64.Vec3{10, 0, 0})

	w.StepSimulation(1, 100, 0.01)
	if v := b.LinearVelocity(); v[0] >= 10 || v[0] <= 0 {
		t.Errorf("damped velocity = %v, want between 0 and 10", v[0])
	}
}

func TestSetWorldTransformNormalizesDegenerateRotation(t *testing.T) {
	_, b := newTestBody(t, 1)
	b.SetWorldTransform(Transform{Position: mgl64.Vec3{1, 2, 3}})

	got := b.WorldTransform()
	if got.Position != (mgl64.Vec3{1, 2, 3}) {
		t.Errorf("position = %v", got.Position)
	}
	if got.Rotation != mgl64.QuatIdent() {
		t.Errorf("zero rotation not replaced with identity: %v", got.Rotation)
	}
}

func TestDeactivationStopsIntegration(t *testing.T) {
	w, b := newTestBody(t, 1)
	b.SetActive(false)

	w.StepSimulation(0.5, 50, 0.01)
	if p := b.WorldTransform().Position; p != (mgl64.Vec3{}) {
		t.Errorf("inactive body moved to %v", p)
	}
}

func TestShapeBound(t *testing.T) {
	tests := []struct {
		name  string
		shape Shape
		want  mgl64.Vec3
	}{
		{"sphere", Shape{Kind: ShapeSphere, Radius: 2}, mgl64.Vec3{2, 2, 2}},
		{"capsule", Shape{Kind: ShapeCapsule, Radius: 0.5, Height: 2}, mgl64.Vec3{0.5, 1.5, 0.5}},
		{"box", Shape{Kind: ShapeBox, HalfExtents: mgl64.Vec3{1, 2, 3}}, mgl64.Vec3{1, 2, 3}},
		{"mesh", Shape{Kind: ShapeMesh, Vertices: []mgl64.Vec3{{-2, 1, 0}, {1, -3, 0}, {0, 0, 4}}}, mgl64.Vec3{2, 3, 4}},
	}
	for _, tt := range tests {
		if got := shapeBound(tt.shape); got != tt.want {
			t.Errorf("%s bound = %v, want %v", tt.name, got, tt.want)
		}
	}
}
