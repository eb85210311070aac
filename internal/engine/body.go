package engine

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Default per-body properties, matching what a freshly created solver body
// reports before the host touches it.
const (
	defaultFriction     = 0.5
	defaultLinearSleep  = 0.8
	defaultAngularSleep = 1.0
	sleepTime           = 0.5 // seconds below threshold before deactivation
	wakeSpeedMultiplier = 2.0 // contacts slower than this x threshold do not wake
	unitFactorComponent = 1.0
)

type rigidBody struct {
	shape Shape
	// bound is the local-space half extent of the shape's bounding box,
	// used by the reference narrow phase and ray test.
	bound mgl64.Vec3

	mass    float64
	invMass float64

	kinematic bool

	transform Transform

	velocity        mgl64.Vec3
	angularVelocity mgl64.Vec3
	force           mgl64.Vec3
	torque          mgl64.Vec3

	linearFactor  mgl64.Vec3
	angularFactor mgl64.Vec3

	linearDamping  float64
	angularDamping float64
	friction       float64
	restitution    float64

	linearSleepThreshold  float64
	angularSleepThreshold float64
	sleepTimer            float64
	active                bool

	collisionFlags int
	gravity        mgl64.Vec3
}

func newRigidBody(shape Shape, mass float64, transform Transform, gravity mgl64.Vec3) *rigidBody {
	b := &rigidBody{
		shape:                 shape,
		bound:                 shapeBound(shape),
		transform:             transform,
		linearFactor:          mgl64.Vec3{unitFactorComponent, unitFactorComponent, unitFactorComponent},
		angularFactor:         mgl64.Vec3{unitFactorComponent, unitFactorComponent, unitFactorComponent},
		friction:              defaultFriction,
		linearSleepThreshold:  defaultLinearSleep,
		angularSleepThreshold: defaultAngularSleep,
		active:                true,
		gravity:               gravity,
	}
	b.SetMass(mass)
	return b
}

// shapeBound computes local half extents covering the shape.
func shapeBound(s Shape) mgl64.Vec3 {
	switch s.Kind {
	case ShapeSphere:
		return mgl64.Vec3{s.Radius, s.Radius, s.Radius}
	case ShapeCapsule:
		return mgl64.Vec3{s.Radius, s.Height/2 + s.Radius, s.Radius}
	case ShapeCone:
		return mgl64.Vec3{s.Radius, s.Height / 2, s.Radius}
	case ShapeMesh:
		var b mgl64.Vec3
		for _, v := range s.Vertices {
			for i := 0; i < 3; i++ {
				if a := math.Abs(v[i]); a > b[i] {
					b[i] = a
				}
			}
		}
		return b
	default: // box, cylinder
		return s.HalfExtents
	}
}

func (b *rigidBody) Mass() float64 { return b.mass }

func (b *rigidBody) SetMass(mass float64) {
	b.mass = mass
	if mass > 0 {
		b.invMass = 1 / mass
		b.wake()
	} else {
		b.invMass = 0
		b.velocity = mgl64.Vec3{}
		b.angularVelocity = mgl64.Vec3{}
	}
}

func (b *rigidBody) InvMass() float64 { return b.invMass }

func (b *rigidBody) Kinematic() bool { return b.kinematic }

func (b *rigidBody) SetKinematic(kinematic bool) {
	b.kinematic = kinematic
	if kinematic {
		b.velocity = mgl64.Vec3{}
		b.angularVelocity = mgl64.Vec3{}
	}
}

func (b *rigidBody) Static() bool { return b.invMass == 0 && !b.kinematic }

// dynamic reports whether the solver integrates this body.
func (b *rigidBody) dynamic() bool { return b.invMass > 0 && !b.kinematic }

func (b *rigidBody) wake() {
	b.active = true
	b.sleepTimer = 0
}

func (b *rigidBody) ApplyCentralForce(force mgl64.Vec3) {
	if !b.dynamic() {
		return
	}
	b.wake()
	b.force = b.force.Add(force)
}

func (b *rigidBody) ApplyForce(force, rel mgl64.Vec3) {
	if !b.dynamic() {
		return
	}
	b.wake()
	b.force = b.force.Add(force)
	b.torque = b.torque.Add(rel.Cross(force))
}

func (b *rigidBody) ApplyCentralImpulse(impulse mgl64.Vec3) {
	if !b.dynamic() {
		return
	}
	b.wake()
	b.velocity = b.velocity.Add(mulComponents(impulse.Mul(b.invMass), b.linearFactor))
}

func (b *rigidBody) ApplyImpulse(impulse, rel mgl64.Vec3) {
	if !b.dynamic() {
		return
	}
	b.ApplyCentralImpulse(impulse)
	b.angularVelocity = b.angularVelocity.Add(mulComponents(rel.Cross(impulse).Mul(b.invMass), b.angularFactor))
}

func (b *rigidBody) ApplyTorque(torque mgl64.Vec3) {
	if !b.dynamic() {
		return
	}
	b.wake()
	b.torque = b.torque.Add(torque)
}

func (b *rigidBody) ClearForces() {
	b.force = mgl64.Vec3{}
	b.torque = mgl64.Vec3{}
}

func (b *rigidBody) TotalForce() mgl64.Vec3  { return b.force }
func (b *rigidBody) TotalTorque() mgl64.Vec3 { return b.torque }

func (b *rigidBody) LinearVelocity() mgl64.Vec3 { return b.velocity }

func (b *rigidBody) SetLinearVelocity(v mgl64.Vec3) {
	if b.Static() {
		return
	}
	b.wake()
	b.velocity = v
}

func (b *rigidBody) AngularVelocity() mgl64.Vec3 { return b.angularVelocity }

func (b *rigidBody) SetAngularVelocity(w mgl64.Vec3) {
	if b.Static() {
		return
	}
	b.wake()
	b.angularVelocity = w
}

func (b *rigidBody) LinearFactor() mgl64.Vec3      { return b.linearFactor }
func (b *rigidBody) SetLinearFactor(f mgl64.Vec3)  { b.linearFactor = f }
func (b *rigidBody) AngularFactor() mgl64.Vec3     { return b.angularFactor }
func (b *rigidBody) SetAngularFactor(f mgl64.Vec3) { b.angularFactor = f }

func (b *rigidBody) Damping() (float64, float64) { return b.linearDamping, b.angularDamping }

func (b *rigidBody) SetDamping(linear, angular float64) {
	b.linearDamping = clamp01(linear)
	b.angularDamping = clamp01(angular)
}

func (b *rigidBody) Friction() float64            { return b.friction }
func (b *rigidBody) SetFriction(friction float64) { b.friction = friction }
func (b *rigidBody) Restitution() float64         { return b.restitution }
func (b *rigidBody) SetRestitution(r float64)     { b.restitution = r }

func (b *rigidBody) SleepingThresholds() (float64, float64) {
	return b.linearSleepThreshold, b.angularSleepThreshold
}

func (b *rigidBody) SetSleepingThresholds(linear, angular float64) {
	b.linearSleepThreshold = linear
	b.angularSleepThreshold = angular
}

func (b *rigidBody) Active() bool { return b.active }

func (b *rigidBody) SetActive(active bool) {
	if active {
		b.wake()
		return
	}
	b.active = false
	b.velocity = mgl64.Vec3{}
	b.angularVelocity = mgl64.Vec3{}
}

func (b *rigidBody) CollisionFlags() int         { return b.collisionFlags }
func (b *rigidBody) SetCollisionFlags(flags int) { b.collisionFlags = flags }

func (b *rigidBody) Gravity() mgl64.Vec3     { return b.gravity }
func (b *rigidBody) SetGravity(g mgl64.Vec3) { b.gravity = g }

func (b *rigidBody) WorldTransform() Transform { return b.transform }

func (b *rigidBody) SetWorldTransform(t Transform) {
	if t.Rotation.Len() == 0 {
		t.Rotation = mgl64.QuatIdent()
	}
	b.transform = t
}

// integrate advances the body by one fixed sub-step.
func (b *rigidBody) integrate(h float64) {
	if !b.dynamic() || !b.active {
		return
	}

	accel := b.gravity.Add(b.force.Mul(b.invMass))
	b.velocity = b.velocity.Add(mulComponents(accel.Mul(h), b.linearFactor))
	b.velocity = b.velocity.Mul(math.Pow(1-b.linearDamping, h))

	angAccel := b.torque.Mul(b.invMass)
	b.angularVelocity = b.angularVelocity.Add(mulComponents(angAccel.Mul(h), b.angularFactor))
	b.angularVelocity = b.angularVelocity.Mul(math.Pow(1-b.angularDamping, h))

	b.transform.Position = b.transform.Position.Add(b.velocity.Mul(h))

	// Quaternion derivative: q' = 0.5 * (omega, 0) * q
	omega := mgl64.Quat{W: 0, V: b.angularVelocity}
	dq := omega.Mul(b.transform.Rotation).Scale(0.5 * h)
	b.transform.Rotation = b.transform.Rotation.Add(dq).Normalize()
}

// trySleep deactivates the body once it stays below both sleeping
// thresholds long enough.
func (b *rigidBody) trySleep(h float64) {
	if !b.dynamic() || !b.active {
		return
	}
	if b.velocity.Len() < b.linearSleepThreshold && b.angularVelocity.Len() < b.angularSleepThreshold {
		b.sleepTimer += h
		if b.sleepTimer >= sleepTime {
			b.SetActive(false)
		}
	} else {
		b.sleepTimer = 0
	}
}

// aabb returns the world-space bounding box, expanding the local bound
// through the absolute entries of the rotation matrix.
func (b *rigidBody) aabb() (min, max mgl64.Vec3) {
	r := b.transform.Rotation.Mat4().Mat3()
	var ext mgl64.Vec3
	for i := 0; i < 3; i++ {
		ext[i] = math.Abs(r.At(i, 0))*b.bound[0] +
			math.Abs(r.At(i, 1))*b.bound[1] +
			math.Abs(r.At(i, 2))*b.bound[2]
	}
	return b.transform.Position.Sub(ext), b.transform.Position.Add(ext)
}

func mulComponents(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
