package terrain

import "github.com/go-gl/mathgl/mgl32"

// NormalField holds one unit surface normal per grid point.
type NormalField struct {
	size   int
	values []mgl32.Vec3
}

func newNormalField(size int) *NormalField {
	return &NormalField{
		size:   size,
		values: make([]mgl32.Vec3, size*size),
	}
}

// At returns the normal at grid point (x, y).
func (n *NormalField) At(x, y int) mgl32.Vec3 {
	return n.values[y*n.size+x]
}

func (n *NormalField) set(x, y int, v mgl32.Vec3) {
	n.values[y*n.size+x] = v
}

func (e *Engine) generateNormals() {
	e.changedNormals.Reset()
	for y := range e.size {
		for x := range e.size {
			e.normals.set(x, y, e.estimateNormal(x, y))
		}
	}
}

// updateNormals recomputes normals around every height written this pass. A
// normal depends on its four axis neighbours, so those are refreshed too.
func (e *Engine) updateNormals() {
	e.changedNormals.Reset()
	for _, c := range e.changedHeights.Coords() {
		e.refreshNormal(c.X, c.Y)
		if c.X > 0 {
			e.refreshNormal(c.X-1, c.Y)
		}
		if c.X < e.size-1 {
			e.refreshNormal(c.X+1, c.Y)
		}
		if c.Y > 0 {
			e.refreshNormal(c.X, c.Y-1)
		}
		if c.Y < e.size-1 {
			e.refreshNormal(c.X, c.Y+1)
		}
	}
}

func (e *Engine) refreshNormal(x, y int) {
	if e.changedNormals.Mark(x, y) {
		e.normals.set(x, y, e.estimateNormal(x, y))
	}
}

// estimateNormal uses central differences. World Z runs along -y, so the
// normal is (west - east, 2*res, north - south) normalised.
func (e *Engine) estimateNormal(x, y int) mgl32.Vec3 {
	west, east := e.axisNeighbours(x, y, 1, 0)
	south, north := e.axisNeighbours(x, y, 0, 1)
	return mgl32.Vec3{west - east, 2 * e.res, north - south}.Normalize()
}

// axisNeighbours returns the heights one step before and after (x, y) along
// (dx, dy). A neighbour off the grid is mirrored through (x, y):
// missing = 2*h(x, y) - opposite.
func (e *Engine) axisNeighbours(x, y, dx, dy int) (before, after float32) {
	c := e.heights.At(x, y)
	hasBefore := x-dx >= 0 && y-dy >= 0
	hasAfter := x+dx < e.size && y+dy < e.size
	switch {
	case hasBefore && hasAfter:
		return e.heights.At(x-dx, y-dy), e.heights.At(x+dx, y+dy)
	case hasAfter:
		after = e.heights.At(x+dx, y+dy)
		return 2*c - after, after
	default:
		before = e.heights.At(x-dx, y-dy)
		return before, 2*c - before
	}
}
