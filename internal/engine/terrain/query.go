package terrain

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/rangeforge/internal/engine/picking"
)

// Read-only queries. Results are consistent with each other only between
// calls to Update.

// Size returns the number of grid points along each axis.
func (e *Engine) Size() int {
	return e.size
}

// Resolution returns the world distance between neighbouring grid points.
func (e *Engine) Resolution() float32 {
	return e.res
}

// Extent returns the world size of the terrain along each axis.
func (e *Engine) Extent() float32 {
	return float32(e.size-1) * e.res
}

// Height returns the height at grid point (x, y).
func (e *Engine) Height(x, y int) float32 {
	e.checkPoint(x, y)
	return e.heights.At(x, y)
}

// Heights returns the height field.
func (e *Engine) Heights() *HeightField {
	return e.heights
}

// Normal returns the unit normal at grid point (x, y).
func (e *Engine) Normal(x, y int) mgl32.Vec3 {
	e.checkPoint(x, y)
	return e.normals.At(x, y)
}

// Noise returns the noise value at grid point (x, y).
func (e *Engine) Noise(x, y int) float32 {
	e.checkPoint(x, y)
	return e.noise.At(x, y)
}

// NoiseParams returns the parameters of the current noise field.
func (e *Engine) NoiseParams() NoiseParams {
	return e.noise.Params()
}

// ControlPoint returns the point owning (x, y), if any.
func (e *Engine) ControlPoint(x, y int) (ControlPoint, bool) {
	e.checkPoint(x, y)
	return e.pointAt(x, y)
}

// ControlPointCount returns the number of placed control points.
func (e *Engine) ControlPointCount() int {
	return e.count
}

// Vertices returns the vertex buffer.
func (e *Engine) Vertices() *VertexBuffer {
	return e.vertices
}

// DirtyCells returns the triangle-pair cells rewritten by the last pass.
func (e *Engine) DirtyCells() []Coord {
	return e.changedCells.Coords()
}

// gridSnap is the fraction of a cell below which a world coordinate counts as
// lying on the next grid line.
const gridSnap = 1e-4

// WorldToGrid maps a world coordinate in [0, Extent()] to a grid coordinate.
// It panics outside that range.
func (e *Engine) WorldToGrid(t float32) int {
	ext := e.Extent()
	if t < 0 || t > ext || math.IsNaN(float64(t)) {
		panic(fmt.Sprintf("terrain: world coordinate %v outside [0, %v]", t, ext))
	}
	return int(math.Floor(float64(e.size-1)*float64(t)/float64(ext) + gridSnap))
}

// WorldToCell maps a world coordinate in [0, Extent()] to the triangle-pair
// cell containing it. The far edge belongs to the last cell.
func (e *Engine) WorldToCell(t float32) int {
	return min(e.WorldToGrid(t), e.size-2)
}

// HeightAt returns the bilinearly interpolated height at world position
// (tx, ty), both in [0, Extent()].
func (e *Engine) HeightAt(tx, ty float32) float32 {
	x := e.WorldToCell(tx)
	y := e.WorldToCell(ty)
	fx := clampf(tx/e.res-float32(x), 0, 1)
	fy := clampf(ty/e.res-float32(y), 0, 1)

	h := e.heights
	near := h.At(x, y)*(1-fx) + h.At(x+1, y)*fx
	far := h.At(x, y+1)*(1-fx) + h.At(x+1, y+1)*fx
	return near*(1-fy) + far*fy
}

// WorldPosition returns the 3D position of world point (tx, ty) on the surface.
func (e *Engine) WorldPosition(tx, ty float32) mgl32.Vec3 {
	return mgl32.Vec3{tx, e.HeightAt(tx, ty), -ty}
}

// Bounds returns the axis-aligned bounding box of the mesh.
func (e *Engine) Bounds() Bounds {
	lo, hi := e.heights.MinMax()
	return Bounds{
		Min: mgl32.Vec3{0, lo, -e.Extent()},
		Max: mgl32.Vec3{e.Extent(), hi, 0},
	}
}

// TriangleCount returns the number of triangles in the mesh.
func (e *Engine) TriangleCount() int {
	return e.vertices.TriangleCount()
}

// Triangle returns the corner positions of triangle i, read from the vertex
// buffer.
func (e *Engine) Triangle(i int) [3]mgl32.Vec3 {
	base := i * FloatsPerTriangle
	d := e.vertices.data
	var tri [3]mgl32.Vec3
	for k := range tri {
		o := base + k*FloatsPerVertex
		tri[k] = mgl32.Vec3{d[o], d[o+1], d[o+2]}
	}
	return tri
}

// Hit describes a ray hitting the terrain.
type Hit struct {
	Position mgl32.Vec3
	Distance float32 // Ray parameter, in units of the direction's length
	Triangle int
}

// SegmentIntersects reports whether the open segment from a to b passes
// through the terrain surface.
func (e *Engine) SegmentIntersects(a, b mgl32.Vec3) bool {
	ray := picking.Segment(a, b)
	if t, ok := ray.IntersectAABB(e.box()); !ok || t > 1 {
		return false
	}
	for i := range e.TriangleCount() {
		tri := e.Triangle(i)
		if t, ok := ray.IntersectTriangle(tri[0], tri[1], tri[2]); ok && t < 1 {
			return true
		}
	}
	return false
}

// ClosestIntersection finds the first triangle hit by the ray from origin
// along dir.
func (e *Engine) ClosestIntersection(origin, dir mgl32.Vec3) (Hit, bool) {
	ray := picking.Ray{Origin: origin, Direction: dir}
	if _, ok := ray.IntersectAABB(e.box()); !ok {
		return Hit{}, false
	}
	best := Hit{Distance: math.MaxFloat32, Triangle: -1}
	for i := range e.TriangleCount() {
		tri := e.Triangle(i)
		if t, ok := ray.IntersectTriangle(tri[0], tri[1], tri[2]); ok && t < best.Distance {
			best.Distance = t
			best.Triangle = i
		}
	}
	if best.Triangle < 0 {
		return Hit{}, false
	}
	best.Position = ray.At(best.Distance)
	return best, true
}

func (e *Engine) box() picking.AABB {
	b := e.Bounds()
	return picking.NewAABB(b.Min, b.Max)
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
