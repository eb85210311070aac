package engine

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrBadShape indicates a shape the world cannot allocate a body for.
var ErrBadShape = errors.New("engine: shape has no volume")

// World is the reference Engine implementation: brute-force pair testing
// over bounding volumes, impulse-based contact response, fixed-timestep
// sub-stepping with an accumulator.
type World struct {
	gravity     mgl64.Vec3
	bodies      []*rigidBody
	onContact   func(Contact)
	accumulator float64
}

// NewWorld creates an empty world. Bodies created in it inherit gravity as
// their per-body default.
func NewWorld(gravity mgl64.Vec3) *World {
	return &World{gravity: gravity}
}

// Gravity returns the default gravity applied to new bodies.
func (w *World) Gravity() mgl64.Vec3 { return w.gravity }

func (w *World) CreateBody(shape Shape, mass float64, transform Transform) (Body, error) {
	if err := validateShape(shape); err != nil {
		return nil, err
	}
	if transform.Rotation.Len() == 0 {
		transform.Rotation = mgl64.QuatIdent()
	}
	b := newRigidBody(shape, mass, transform, w.gravity)
	w.bodies = append(w.bodies, b)
	return b, nil
}

func validateShape(s Shape) error {
	switch s.Kind {
	case ShapeSphere, ShapeCapsule, ShapeCone:
		if s.Radius <= 0 {
			return ErrBadShape
		}
	case ShapeBox, ShapeCylinder:
		if s.HalfExtents[0] <= 0 || s.HalfExtents[1] <= 0 || s.HalfExtents[2] <= 0 {
			return ErrBadShape
		}
	case ShapeMesh:
		if len(s.Vertices) < 3 {
			return ErrBadShape
		}
	}
	return nil
}

func (w *World) RemoveBody(body Body) {
	for i, b := range w.bodies {
		if b == body {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			return
		}
	}
}

func (w *World) OnContact(fn func(Contact)) {
	w.onContact = fn
}

// StepSimulation advances by dt using an accumulator, never performing more
// than maxSubSteps fixed steps per call. Leftover time carries over.
func (w *World) StepSimulation(dt float64, maxSubSteps int, fixedTimeStep float64) int {
	if dt <= 0 || fixedTimeStep <= 0 || maxSubSteps < 1 {
		return 0
	}
	w.accumulator += dt
	budget := float64(maxSubSteps) * fixedTimeStep
	if w.accumulator > budget {
		w.accumulator = budget
	}

	steps := 0
	for w.accumulator >= fixedTimeStep && steps < maxSubSteps {
		w.subStep(fixedTimeStep)
		w.accumulator -= fixedTimeStep
		steps++
	}
	return steps
}

func (w *World) subStep(h float64) {
	for _, b := range w.bodies {
		b.integrate(h)
	}

	// Narrow phase over all pairs, skipping pairs with no dynamic member.
	for i := 0; i < len(w.bodies); i++ {
		for j := i + 1; j < len(w.bodies); j++ {
			a, b := w.bodies[i], w.bodies[j]
			if !a.dynamic() && !b.dynamic() {
				continue
			}
			w.collide(a, b)
		}
	}

	for _, b := range w.bodies {
		b.trySleep(h)
		b.ClearForces()
	}
}
