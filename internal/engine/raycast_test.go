package engine

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestRayTestSphere(t *testing.T) {
	w := NewWorld(mgl64.Vec3{})
	b := mustCreate(t, w, Shape{Kind: ShapeSphere, Radius: 1}, 1, mgl64.Vec3{})

	hit, ok := w.RayTest(mgl64.Vec3{-5, 0, 0}, mgl64.Vec3{5, 0, 0})
	if !ok {
		t.Fatal("ray through the sphere missed")
	}
	if hit.Body != b {
		t.Error("hit the wrong body")
	}
	if !nearVec(hit.Point, mgl64.Vec3{-1, 0, 0}, 1e-9) {
		t.Errorf("hit point = %v, want {-1 0 0}", hit.Point)
	}
	if !nearVec(hit.Normal, mgl64.Vec3{-1, 0, 0}, 1e-9) {
		t.Errorf("hit normal = %v, want {-1 0 0}", hit.Normal)
	}
	if !near(hit.Fraction, 0.4, 1e-9) {
		t.Errorf("fraction = %v, want 0.4", hit.Fraction)
	}
}

func TestRayTestBoxFaceNormal(t *testing.T) {
	w := NewWorld(mgl64.Vec3{})
	mustCreate(t, w, Shape{Kind: ShapeBox, HalfExtents: mgl64.Vec3{1, 1, 1}}, 0, mgl64.Vec3{})

	hit, ok := w.RayTest(mgl64.Vec3{0, 5, 0}, mgl64.Vec3{0, -5, 0})
	if !ok {
		t.Fatal("ray onto the box missed")
	}
	if !nearVec(hit.Point, mgl64.Vec3{0, 1, 0}, 1e-9) {
		t.Errorf("hit point = %v, want {0 1 0}", hit.Point)
	}
	if !nearVec(hit.Normal, mgl64.Vec3{0, 1, 0}, 1e-9) {
		t.Errorf("normal = %v, want the +y face", hit.Normal)
	}
}

func TestRayTestReturnsNearest(t *testing.T) {
	w := NewWorld(mgl64.Vec3{})
	nearBody := mustCreate(t, w, Shape{Kind: ShapeSphere, Radius: 1}, 1, mgl64.Vec3{3, 0, 0})
	mustCreate(t, w, Shape{Kind: ShapeSphere, Radius: 1}, 1, mgl64.Vec3{7, 0, 0})

	hit, ok := w.RayTest(mgl64.Vec3{}, mgl64.Vec3{10, 0, 0})
	if !ok {
		t.Fatal("ray missed both spheres")
	}
	if hit.Body != nearBody {
		t.Error("RayTest did not return the nearest body")
	}
	if !near(hit.Fraction, 0.2, 1e-9) {
		t.Errorf("fraction = %v, want 0.2", hit.Fraction)
	}
}

func TestRayTestMisses(t *testing.T) {
	w := NewWorld(mgl64.Vec3{})
	mustCreate(t, w, Shape{Kind: ShapeSphere, Radius: 1}, 1, mgl64.Vec3{0, 10, 0})

	if _, ok := w.RayTest(mgl64.Vec3{-5, 0, 0}, mgl64.Vec3{5, 0, 0}); ok {
		t.Error("ray far from the body reported a hit")
	}
	// Segment stops short of the body.
	if _, ok := w.RayTest(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 5, 0}); ok {
		t.Error("segment ending before the body reported a hit")
	}
	// Degenerate segment.
	if _, ok := w.RayTest(mgl64.Vec3{}, mgl64.Vec3{}); ok {
		t.Error("zero-length segment reported a hit")
	}
}

func TestRayTestFromInsideBox(t *testing.T) {
	w := NewWorld(mgl64.Vec3{})
	mustCreate(t, w, Shape{Kind: ShapeBox, HalfExtents: mgl64.Vec3{2, 2, 2}}, 0, mgl64.Vec3{})

	hit, ok := w.RayTest(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{10, 0, 0})
	if !ok {
		t.Fatal("ray from inside the box missed")
	}
	if !near(hit.Fraction, 0, 1e-9) {
		t.Errorf("fraction = %v, want 0 for an inside start", hit.Fraction)
	}
	if !nearVec(hit.Normal, mgl64.Vec3{-1, 0, 0}, 1e-9) {
		t.Errorf("normal = %v, want the reversed ray direction", hit.Normal)
	}
}
