// Package shape parses model descriptor strings and turns them into
// collision geometry for the engine, applying the current trimesh
// generation settings to mesh-derived shapes.
package shape

import (
	"github.com/go-gl/mathgl/mgl64"

	"physbridge/internal/engine"
)

// TrimeshVariant selects the algorithm used to derive a collision shape
// from mesh geometry.
type TrimeshVariant uint8

const (
	// ConcaveFast keeps concave geometry in its cheap static-only form.
	ConcaveFast TrimeshVariant = iota
	// ConcaveDynamic keeps concave geometry in the slower form that stays
	// valid on moving bodies.
	ConcaveDynamic
	// ConvexHull collapses the geometry to its convex hull.
	ConvexHull
)

// Settings is the mesh-shape generation context. It applies to every
// mesh-derived shape built after it is set and until it is set again;
// primitives ignore it. Pass an explicit value to Resolver.Build to avoid
// depending on call order.
type Settings struct {
	Variant TrimeshVariant
	Origin  mgl64.Vec3
	Scale   mgl64.Vec3
}

// DefaultSettings is the state at system start: fast static concave
// geometry, no origin shift, unit scale.
func DefaultSettings() Settings {
	return Settings{Scale: mgl64.Vec3{1, 1, 1}}
}

func (s Settings) meshMode() engine.MeshMode {
	switch s.Variant {
	case ConcaveDynamic:
		return engine.MeshConcaveDynamic
	case ConvexHull:
		return engine.MeshConvexHull
	default:
		return engine.MeshConcaveStatic
	}
}
