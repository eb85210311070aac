// Package scene instantiates a bridge world from a config.Scene: one engine
// world, one bridge, and every configured object created, placed and given
// its initial velocity.
package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"physbridge/internal/bridge"
	"physbridge/internal/config"
	"physbridge/internal/engine"
	"physbridge/internal/shape"
)

// World is a built scene ready to step.
type World struct {
	Bridge  *bridge.Bridge
	Handles []bridge.Handle
	Names   []string
	Scene   *config.Scene
}

// Build wires an engine world and a bridge, applies the scene's shape and
// step configuration, and spawns every object.
func Build(s *config.Scene) (*World, error) {
	eng := engine.NewWorld(mgl64.Vec3{s.Gravity[0], s.Gravity[1], s.Gravity[2]})
	b := bridge.New(eng, nil, nil)

	b.ConfigureShape(Settings(s.Shape))
	if err := b.ConfigureStep(s.Step.MaxSubSteps, s.Step.FixedTimeStep); err != nil {
		return nil, err
	}

	w := &World{Bridge: b, Scene: s}
	for i, o := range s.Objects {
		h, err := b.Create(o.Descriptor, o.Mass)
		if err != nil {
			return nil, fmt.Errorf("object %d (%s): %w", i, o.Descriptor, err)
		}
		if _, err := b.Invoke(h, bridge.SetWorldTransform{Transform: engine.Transform{
			Position: mgl64.Vec3{o.Position[0], o.Position[1], o.Position[2]},
			Rotation: mgl64.QuatIdent(),
		}}); err != nil {
			return nil, err
		}
		if o.Velocity != [3]float64{} {
			if _, err := b.Invoke(h, bridge.SetLinearVelocity{
				Velocity: mgl64.Vec3{o.Velocity[0], o.Velocity[1], o.Velocity[2]},
			}); err != nil {
				return nil, err
			}
		}
		if o.Kinematic {
			if err := b.SetKinematic(h, true); err != nil {
				return nil, err
			}
		}
		name := o.Name
		if name == "" {
			name = o.Descriptor
		}
		w.Handles = append(w.Handles, h)
		w.Names = append(w.Names, name)
	}
	return w, nil
}

// Tick advances the scene by its configured frame time.
func (w *World) Tick() int {
	return w.Bridge.Step(w.Scene.Dt)
}

// Position reads an object's current world position.
func (w *World) Position(h bridge.Handle) (mgl64.Vec3, error) {
	resp, err := w.Bridge.Invoke(h, bridge.GetWorldTransform)
	if err != nil {
		return mgl64.Vec3{}, err
	}
	return resp.(bridge.Placement).Transform.Position, nil
}

// Settings maps the YAML shape block onto resolver settings. Unknown
// variant names fall back to the fast static concave form.
func Settings(c config.ShapeConfig) shape.Settings {
	s := shape.Settings{
		Origin: mgl64.Vec3{c.Origin[0], c.Origin[1], c.Origin[2]},
		Scale:  mgl64.Vec3{c.Scale[0], c.Scale[1], c.Scale[2]},
	}
	if s.Scale == (mgl64.Vec3{}) {
		s.Scale = mgl64.Vec3{1, 1, 1}
	}
	switch c.Variant {
	case "concave_dynamic":
		s.Variant = shape.ConcaveDynamic
	case "hull":
		s.Variant = shape.ConvexHull
	default:
		s.Variant = shape.ConcaveFast
	}
	return s
}
