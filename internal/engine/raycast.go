package engine

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// RayTest intersects the segment from..to against every body and returns
// the nearest hit.
func (w *World) RayTest(from, to mgl64.Vec3) (RayHit, bool) {
	dir := to.Sub(from)
	length := dir.Len()
	if length < 1e-12 {
		return RayHit{}, false
	}
	dir = dir.Mul(1 / length)

	best := RayHit{Fraction: math.MaxFloat64}
	found := false

	for _, b := range w.bodies {
		var t float64
		var point, normal mgl64.Vec3
		var ok bool
		if b.shape.Kind == ShapeSphere {
			t, point, normal, ok = raySphere(from, dir, b.transform.Position, b.shape.Radius, length)
		} else {
			min, max := b.aabb()
			t, point, normal, ok = rayBox(from, dir, min, max, length)
		}
		if ok && t/length < best.Fraction {
			best = RayHit{Body: b, Point: point, Normal: normal, Fraction: t / length}
			found = true
		}
	}
	return best, found
}

func raySphere(origin, dir, center mgl64.Vec3, radius, maxDist float64) (float64, mgl64.Vec3, mgl64.Vec3, bool) {
	oc := origin.Sub(center)
	bHalf := oc.Dot(dir)
	c := oc.Dot(oc) - radius*radius

	disc := bHalf*bHalf - c
	if disc < 0 {
		return 0, mgl64.Vec3{}, mgl64.Vec3{}, false
	}
	sq := math.Sqrt(disc)
	t := -bHalf - sq
	if t < 0 {
		t = -bHalf + sq
	}
	if t < 0 || t > maxDist {
		return 0, mgl64.Vec3{}, mgl64.Vec3{}, false
	}
	point := origin.Add(dir.Mul(t))
	normal := point.Sub(center).Normalize()
	return t, point, normal, true
}

// rayBox is the slab test against a world AABB, returning the face normal
// at the entry point.
func rayBox(origin, dir, min, max mgl64.Vec3, maxDist float64) (float64, mgl64.Vec3, mgl64.Vec3, bool) {
	tmin, tmax := 0.0, maxDist
	axis := -1
	sign := 0.0

	for i := 0; i < 3; i++ {
		if math.Abs(dir[i]) < 1e-12 {
			if origin[i] < min[i] || origin[i] > max[i] {
				return 0, mgl64.Vec3{}, mgl64.Vec3{}, false
			}
			continue
		}
		inv := 1 / dir[i]
		t1 := (min[i] - origin[i]) * inv
		t2 := (max[i] - origin[i]) * inv
		s := -1.0
		if t1 > t2 {
			t1, t2 = t2, t1
			s = 1.0
		}
		if t1 > tmin {
			tmin = t1
			axis = i
			sign = s
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return 0, mgl64.Vec3{}, mgl64.Vec3{}, false
		}
	}

	t := tmin
	if t < 0 || t > maxDist {
		return 0, mgl64.Vec3{}, mgl64.Vec3{}, false
	}

	point := origin.Add(dir.Mul(t))
	var normal mgl64.Vec3
	if axis >= 0 {
		normal[axis] = sign
	} else {
		// Ray started inside the box: report the direction back out.
		normal = dir.Mul(-1)
	}
	return t, point, normal, true
}
