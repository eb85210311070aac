// Package engine defines the narrow port through which the bridge drives a
// rigid-body simulation: create and destroy bodies, step the world, read and
// write per-body properties, cast rays, and receive contact reports.
//
// The package also ships a reference [World] implementing the port with
// semi-implicit Euler integration and sphere/AABB contact response. It is
// good enough to run scenes and tests end to end; a production embedding can
// substitute any solver that satisfies [Engine] and [Body].
package engine

import "github.com/go-gl/mathgl/mgl64"

// Transform is a rigid placement: position plus unit-quaternion rotation.
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// IdentityTransform returns a transform at the origin with no rotation.
func IdentityTransform() Transform {
	return Transform{Rotation: mgl64.QuatIdent()}
}

// ShapeKind selects the collision geometry family of a Shape.
type ShapeKind uint8

const (
	ShapeBox ShapeKind = iota
	ShapeSphere
	ShapeCapsule
	ShapeCone
	ShapeCylinder
	ShapeMesh
)

// MeshMode selects how mesh geometry is turned into a collision shape.
type MeshMode uint8

const (
	// MeshConcaveStatic keeps the triangle soup as-is. Cheap to build and
	// query, but only valid on immovable bodies.
	MeshConcaveStatic MeshMode = iota
	// MeshConcaveDynamic keeps concave geometry in a form that stays valid
	// when the body moves. Slower to build.
	MeshConcaveDynamic
	// MeshConvexHull collapses the vertex cloud to its convex hull.
	MeshConvexHull
)

// Shape describes collision geometry for body creation. Exactly the fields
// relevant to Kind are read; the rest are ignored.
type Shape struct {
	Kind ShapeKind

	// HalfExtents applies to ShapeBox and ShapeCylinder.
	HalfExtents mgl64.Vec3

	// Radius and Height apply to ShapeSphere (radius only), ShapeCapsule
	// and ShapeCone.
	Radius float64
	Height float64

	// Vertices and Mode apply to ShapeMesh. Vertices are in local space
	// with any origin/scale adjustments already baked in.
	Vertices []mgl64.Vec3
	Mode     MeshMode
}

// Contact reports two bodies touching during a simulation step. Distance is
// the separation along the contact normal; negative means penetration.
type Contact struct {
	A, B     Body
	Distance float64
}

// RayHit is the nearest intersection found by a ray test.
type RayHit struct {
	Body     Body
	Point    mgl64.Vec3
	Normal   mgl64.Vec3
	Fraction float64 // distance to the hit divided by the ray length
}

// Body is the per-object surface of the simulation. Setters take effect
// immediately; getters reflect the most recent state, mid-step included.
type Body interface {
	Mass() float64
	SetMass(mass float64)
	InvMass() float64
	Kinematic() bool
	SetKinematic(kinematic bool)
	Static() bool

	ApplyCentralForce(force mgl64.Vec3)
	ApplyForce(force, rel mgl64.Vec3)
	ApplyCentralImpulse(impulse mgl64.Vec3)
	ApplyImpulse(impulse, rel mgl64.Vec3)
	ApplyTorque(torque mgl64.Vec3)
	ClearForces()
	TotalForce() mgl64.Vec3
	TotalTorque() mgl64.Vec3

	LinearVelocity() mgl64.Vec3
	SetLinearVelocity(v mgl64.Vec3)
	AngularVelocity() mgl64.Vec3
	SetAngularVelocity(w mgl64.Vec3)
	LinearFactor() mgl64.Vec3
	SetLinearFactor(f mgl64.Vec3)
	AngularFactor() mgl64.Vec3
	SetAngularFactor(f mgl64.Vec3)

	Damping() (linear, angular float64)
	SetDamping(linear, angular float64)
	Friction() float64
	SetFriction(friction float64)
	Restitution() float64
	SetRestitution(restitution float64)
	SleepingThresholds() (linear, angular float64)
	SetSleepingThresholds(linear, angular float64)

	Active() bool
	SetActive(active bool)
	CollisionFlags() int
	SetCollisionFlags(flags int)
	Gravity() mgl64.Vec3
	SetGravity(g mgl64.Vec3)

	WorldTransform() Transform
	SetWorldTransform(t Transform)
}

// Engine is everything the bridge needs from a solver.
type Engine interface {
	// CreateBody instantiates a body with the given shape, mass and initial
	// transform. Mass zero creates a static body.
	CreateBody(shape Shape, mass float64, transform Transform) (Body, error)

	// RemoveBody releases a body's simulation resources. The Body must not
	// be used afterwards.
	RemoveBody(body Body)

	// StepSimulation advances the world by dt, splitting it into at most
	// maxSubSteps internal steps of fixedTimeStep each. It returns the
	// number of sub-steps actually performed.
	StepSimulation(dt float64, maxSubSteps int, fixedTimeStep float64) int

	// RayTest finds the nearest body intersected by the segment from..to.
	RayTest(from, to mgl64.Vec3) (RayHit, bool)

	// OnContact registers the callback invoked once per touching pair per
	// sub-step, in discovery order, while StepSimulation runs.
	OnContact(fn func(Contact))
}
