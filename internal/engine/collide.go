package engine

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type overlap struct {
	normal      mgl64.Vec3 // from b towards a
	penetration float64
}

// collide runs the narrow phase on one pair and, on overlap, reports the
// contact and applies impulse response plus positional correction.
func (w *World) collide(a, b *rigidBody) {
	var ov overlap
	var hit bool

	switch {
	case a.shape.Kind == ShapeSphere && b.shape.Kind == ShapeSphere:
		ov, hit = sphereSphere(a, b)
	case a.shape.Kind == ShapeSphere:
		ov, hit = sphereBox(a, b)
	case b.shape.Kind == ShapeSphere:
		ov, hit = sphereBox(b, a)
		ov.normal = ov.normal.Mul(-1)
	default:
		ov, hit = boxBox(a, b)
	}
	if !hit {
		return
	}

	if w.onContact != nil {
		w.onContact(Contact{A: a, B: b, Distance: -ov.penetration})
	}

	w.resolve(a, b, ov)
}

// sphereSphere tests two spheres by center distance.
func sphereSphere(a, b *rigidBody) (overlap, bool) {
	diff := a.transform.Position.Sub(b.transform.Position)
	dist := diff.Len()
	minDist := a.shape.Radius + b.shape.Radius
	if dist >= minDist || dist < 1e-9 {
		return overlap{}, false
	}
	return overlap{normal: diff.Mul(1 / dist), penetration: minDist - dist}, true
}

// sphereBox tests a sphere against the other body's world AABB using the
// closest-point construction.
func sphereBox(sphere, box *rigidBody) (overlap, bool) {
	min, max := box.aabb()
	c := sphere.transform.Position

	closest := mgl64.Vec3{
		math.Min(math.Max(c[0], min[0]), max[0]),
		math.Min(math.Max(c[1], min[1]), max[1]),
		math.Min(math.Max(c[2], min[2]), max[2]),
	}

	diff := c.Sub(closest)
	dist := diff.Len()
	if dist >= sphere.shape.Radius {
		return overlap{}, false
	}
	if dist < 1e-9 {
		// Center inside the box: push out along the thinnest axis.
		return deepestAxis(c, min, max, sphere.shape.Radius)
	}
	return overlap{normal: diff.Mul(1 / dist), penetration: sphere.shape.Radius - dist}, true
}

func deepestAxis(c, min, max mgl64.Vec3, radius float64) (overlap, bool) {
	best := math.MaxFloat64
	var n mgl64.Vec3
	for i := 0; i < 3; i++ {
		if d := c[i] - min[i]; d < best {
			best = d
			n = mgl64.Vec3{}
			n[i] = -1
		}
		if d := max[i] - c[i]; d < best {
			best = d
			n = mgl64.Vec3{}
			n[i] = 1
		}
	}
	return overlap{normal: n, penetration: best + radius}, true
}

// boxBox tests the world AABBs of two bodies and pushes out along the axis
// of least overlap.
func boxBox(a, b *rigidBody) (overlap, bool) {
	amin, amax := a.aabb()
	bmin, bmax := b.aabb()

	best := math.MaxFloat64
	var n mgl64.Vec3
	for i := 0; i < 3; i++ {
		left := amax[i] - bmin[i]  // push a in -i
		right := bmax[i] - amin[i] // push a in +i
		if left <= 0 || right <= 0 {
			return overlap{}, false
		}
		if left < best {
			best = left
			n = mgl64.Vec3{}
			n[i] = -1
		}
		if right < best {
			best = right
			n = mgl64.Vec3{}
			n[i] = 1
		}
	}
	return overlap{normal: n, penetration: best}, true
}

// resolve applies positional correction split by inverse mass, then an
// impulse with combined restitution, then friction damping on the tangent.
func (w *World) resolve(a, b *rigidBody, ov overlap) {
	invA, invB := responseInvMass(a), responseInvMass(b)
	invSum := invA + invB
	if invSum == 0 {
		return
	}

	// Wake sleeping bodies only on significant relative motion so settled
	// stacks stay asleep.
	relVel := a.velocity.Sub(b.velocity)
	if relSpeed := relVel.Len(); relSpeed > a.linearSleepThreshold*wakeSpeedMultiplier ||
		relSpeed > b.linearSleepThreshold*wakeSpeedMultiplier {
		if a.dynamic() {
			a.wake()
		}
		if b.dynamic() {
			b.wake()
		}
	}

	push := ov.normal.Mul(ov.penetration / invSum)
	if a.dynamic() {
		a.transform.Position = a.transform.Position.Add(push.Mul(invA))
	}
	if b.dynamic() {
		b.transform.Position = b.transform.Position.Sub(push.Mul(invB))
	}

	velAlongNormal := relVel.Dot(ov.normal)
	if velAlongNormal > 0 {
		return
	}

	e := (a.restitution + b.restitution) / 2
	j := -(1 + e) * velAlongNormal / invSum
	impulse := ov.normal.Mul(j)

	if a.dynamic() {
		a.velocity = a.velocity.Add(impulse.Mul(invA))
	}
	if b.dynamic() {
		b.velocity = b.velocity.Sub(impulse.Mul(invB))
	}

	// Friction: damp the velocity component perpendicular to the normal.
	mu := (a.friction + b.friction) / 2
	if mu <= 0 {
		return
	}
	damp := func(body *rigidBody) {
		if !body.dynamic() {
			return
		}
		vn := ov.normal.Mul(body.velocity.Dot(ov.normal))
		vt := body.velocity.Sub(vn)
		body.velocity = vn.Add(vt.Mul(math.Max(0, 1-mu)))
	}
	damp(a)
	damp(b)
}

// responseInvMass treats kinematic bodies as immovable during response.
func responseInvMass(b *rigidBody) float64 {
	if b.kinematic {
		return 0
	}
	return b.invMass
}
