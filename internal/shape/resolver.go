package shape

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"physbridge/internal/engine"
)

// ErrResolution indicates the asset source could not supply geometry for a
// parsed descriptor.
var ErrResolution = errors.New("shape: resolution failed")

// Mesh is raw geometry handed over by the asset collaborator: local-space
// vertices, three per triangle.
type Mesh struct {
	Vertices []mgl64.Vec3
}

// Source supplies geometry for non-primitive descriptors. Model file
// parsing lives behind this interface; the resolver only consumes it.
type Source interface {
	// MapSolid returns the brush geometry of the indexed solid. An empty
	// mapPath means the currently loaded map.
	MapSolid(mapPath string, index int) (Mesh, error)

	// StudioGeometry returns the static mesh of one part/submodel of a
	// studio model.
	StudioGeometry(modelPath string, part, submodel int) (Mesh, error)
}

// Resolver turns descriptors into engine shapes, baking the given Settings
// into mesh-derived geometry.
type Resolver struct {
	Assets Source
}

// Resolve parses and builds in one go.
func (r *Resolver) Resolve(descriptor string, cfg Settings) (engine.Shape, error) {
	d, err := Parse(descriptor)
	if err != nil {
		return engine.Shape{}, err
	}
	return r.Build(d, cfg)
}

// Build constructs the engine shape for a parsed descriptor. Primitives
// ignore cfg; mesh-derived shapes get cfg's origin, scale and trimesh
// variant baked in.
func (r *Resolver) Build(d Descriptor, cfg Settings) (engine.Shape, error) {
	switch d := d.(type) {
	case Primitive:
		return primitiveShape(d), nil

	case MapSolid:
		if r.Assets == nil {
			return engine.Shape{}, fmt.Errorf("%w: no asset source for map solid", ErrResolution)
		}
		mesh, err := r.Assets.MapSolid(d.Map, d.Index)
		if err != nil {
			return engine.Shape{}, fmt.Errorf("%w: solid %d of %q: %v", ErrResolution, d.Index, d.Map, err)
		}
		return meshShape(mesh, cfg), nil

	case Studio:
		if r.Assets == nil {
			return engine.Shape{}, fmt.Errorf("%w: no asset source for studio model", ErrResolution)
		}
		mesh, err := r.Assets.StudioGeometry(d.Path, d.Part, d.Submodel)
		if err != nil {
			return engine.Shape{}, fmt.Errorf("%w: %q part %d submodel %d: %v", ErrResolution, d.Path, d.Part, d.Submodel, err)
		}
		return meshShape(mesh, cfg), nil

	default:
		return engine.Shape{}, fmt.Errorf("%w: unhandled descriptor %T", ErrResolution, d)
	}
}

func primitiveShape(p Primitive) engine.Shape {
	switch p.Kind {
	case Sphere:
		return engine.Shape{Kind: engine.ShapeSphere, Radius: p.Params[0]}
	case Capsule:
		return engine.Shape{Kind: engine.ShapeCapsule, Radius: p.Params[0], Height: p.Params[1]}
	case Cone:
		return engine.Shape{Kind: engine.ShapeCone, Radius: p.Params[0], Height: p.Params[1]}
	case Cylinder:
		return engine.Shape{Kind: engine.ShapeCylinder, HalfExtents: mgl64.Vec3{p.Params[0], p.Params[1], p.Params[2]}}
	default:
		return engine.Shape{Kind: engine.ShapeBox, HalfExtents: mgl64.Vec3{p.Params[0], p.Params[1], p.Params[2]}}
	}
}

// meshShape applies origin shift and per-axis scale to every vertex and
// tags the result with the configured trimesh mode.
func meshShape(m Mesh, cfg Settings) engine.Shape {
	verts := make([]mgl64.Vec3, len(m.Vertices))
	for i, v := range m.Vertices {
		verts[i] = mgl64.Vec3{
			(v[0] - cfg.Origin[0]) * cfg.Scale[0],
			(v[1] - cfg.Origin[1]) * cfg.Scale[1],
			(v[2] - cfg.Origin[2]) * cfg.Scale[2],
		}
	}
	return engine.Shape{Kind: engine.ShapeMesh, Vertices: verts, Mode: cfg.meshMode()}
}
