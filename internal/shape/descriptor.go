package shape

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidDescriptor indicates a model descriptor string that matches no
// known form or carries malformed parameters.
var ErrInvalidDescriptor = errors.New("shape: invalid model descriptor")

// PrimitiveKind enumerates the parametric primitives.
type PrimitiveKind uint8

const (
	Box PrimitiveKind = iota
	Sphere
	Capsule
	Cone
	Cylinder
)

// Parameter count per primitive: box and cylinder take three half extents,
// sphere a radius, capsule and cone radius plus height.
var primitiveParams = map[string]struct {
	kind PrimitiveKind
	n    int
}{
	"box":      {Box, 3},
	"sphere":   {Sphere, 1},
	"capsule":  {Capsule, 2},
	"cone":     {Cone, 2},
	"cylinder": {Cylinder, 3},
}

// Descriptor is the parsed form of a model string: a primitive, a map
// solid, or a studio model.
type Descriptor interface {
	descriptor()
}

// Primitive selects a parametric shape. Params holds exactly the count the
// kind requires.
type Primitive struct {
	Kind   PrimitiveKind
	Params []float64
}

// MapSolid selects brush geometry by solid index. An empty Map means the
// currently loaded map.
type MapSolid struct {
	Map   string
	Index int
}

// Studio selects static mesh geometry from a studio model.
type Studio struct {
	Path     string
	Part     int
	Submodel int
}

func (Primitive) descriptor() {}
func (MapSolid) descriptor()  {}
func (Studio) descriptor()    {}

// Parse resolves a model descriptor string into its Descriptor form.
//
//	box/0.5/0.5/0.5      primitive, '/'-separated numeric parameters
//	*3                   solid 3 of the currently loaded map
//	maps/crossfire.bsp/2 solid 2 of the named map (index optional, default 0)
//	models/barney.mdl/1/0 studio model part 1, submodel 0 (both optional)
func Parse(descriptor string) (Descriptor, error) {
	if descriptor == "" {
		return nil, fmt.Errorf("%w: empty string", ErrInvalidDescriptor)
	}

	head, rest, _ := strings.Cut(descriptor, "/")
	if spec, ok := primitiveParams[head]; ok {
		return parsePrimitive(descriptor, spec.kind, rest, spec.n)
	}

	if strings.HasPrefix(descriptor, "*") {
		index, err := strconv.Atoi(descriptor[1:])
		if err != nil || index < 0 {
			return nil, fmt.Errorf("%w: bad solid index %q", ErrInvalidDescriptor, descriptor)
		}
		return MapSolid{Index: index}, nil
	}

	if path, tail, ok := splitAsset(descriptor, ".bsp"); ok {
		index, err := parseIndices(tail, 1)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidDescriptor, descriptor, err)
		}
		return MapSolid{Map: path, Index: index[0]}, nil
	}

	if path, tail, ok := splitAsset(descriptor, ".mdl"); ok {
		indices, err := parseIndices(tail, 2)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidDescriptor, descriptor, err)
		}
		return Studio{Path: path, Part: indices[0], Submodel: indices[1]}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrInvalidDescriptor, descriptor)
}

func parsePrimitive(full string, kind PrimitiveKind, rest string, want int) (Descriptor, error) {
	if rest == "" {
		return nil, fmt.Errorf("%w: %q: missing parameters", ErrInvalidDescriptor, full)
	}
	parts := strings.Split(rest, "/")
	if len(parts) != want {
		return nil, fmt.Errorf("%w: %q: want %d parameters, got %d", ErrInvalidDescriptor, full, want, len(parts))
	}
	params := make([]float64, want)
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil || !(v > 0) || math.IsInf(v, 1) {
			return nil, fmt.Errorf("%w: %q: bad parameter %q", ErrInvalidDescriptor, full, p)
		}
		params[i] = v
	}
	return Primitive{Kind: kind, Params: params}, nil
}

// splitAsset splits "path/to/file.ext/a/b" into the asset path ending with
// ext and the remaining index suffix.
func splitAsset(descriptor, ext string) (path, tail string, ok bool) {
	i := strings.Index(descriptor, ext)
	if i < 0 {
		return "", "", false
	}
	end := i + len(ext)
	if end < len(descriptor) && descriptor[end] != '/' {
		return "", "", false
	}
	path = descriptor[:end]
	if end < len(descriptor) {
		tail = descriptor[end+1:]
	}
	return path, tail, true
}

// parseIndices reads up to want '/'-separated non-negative integers from
// tail, defaulting missing ones to zero.
func parseIndices(tail string, want int) ([]int, error) {
	out := make([]int, want)
	if tail == "" {
		return out, nil
	}
	parts := strings.Split(tail, "/")
	if len(parts) > want {
		return nil, fmt.Errorf("too many index components")
	}
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("bad index %q", p)
		}
		out[i] = v
	}
	return out, nil
}
