// Package picking provides ray and segment intersection tests against terrain
// triangles and bounding boxes.
package picking

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
)

const parallelEpsilon = 1e-8

// Ray is a half-line Origin + t*Direction, t >= 0. Direction need not be
// normalized; distances are reported in units of its length, so a segment from
// a to b is the Ray{a, b-a} restricted to t in [0, 1].
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// Segment returns the ray running from a through b.
func Segment(a, b mgl32.Vec3) Ray {
	return Ray{Origin: a, Direction: b.Sub(a)}
}

// At returns the point at parameter t.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// NewAABB creates an AABB from two opposite corners in any order.
func NewAABB(a, b mgl32.Vec3) AABB {
	box := AABB{Min: a, Max: b}
	for i := range 3 {
		if box.Min[i] > box.Max[i] {
			box.Min[i], box.Max[i] = box.Max[i], box.Min[i]
		}
	}
	return box
}

// IntersectAABB tests ray intersection with an axis-aligned bounding box.
// Returns the parameter of the entry point, which is 0 when the ray starts
// inside the box.
func (r Ray) IntersectAABB(box AABB) (t float32, hit bool) {
	tmin := float32(-gomath.MaxFloat32)
	tmax := float32(gomath.MaxFloat32)

	for i := range 3 {
		if r.Direction[i] == 0 {
			if r.Origin[i] < box.Min[i] || r.Origin[i] > box.Max[i] {
				return 0, false
			}
			continue
		}
		t1 := (box.Min[i] - r.Origin[i]) / r.Direction[i]
		t2 := (box.Max[i] - r.Origin[i]) / r.Direction[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	return max(tmin, 0), true
}

// IntersectTriangle tests the ray against triangle (v0, v1, v2) from either
// side. Hits on edges count; hits at or behind the origin do not.
func (r Ray) IntersectTriangle(v0, v1, v2 mgl32.Vec3) (t float32, hit bool) {
	e1 := v1.Sub(v0)
	e2 := v2.Sub(v0)
	p := r.Direction.Cross(e2)
	det := e1.Dot(p)
	if det > -parallelEpsilon && det < parallelEpsilon {
		return 0, false
	}
	inv := 1 / det

	s := r.Origin.Sub(v0)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(e1)
	v := r.Direction.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t = e2.Dot(q) * inv
	if t <= 0 {
		return 0, false
	}
	return t, true
}
