package terrain

// HeightField is the dense grid of resolved terrain heights.
type HeightField struct {
	size   int
	values []float32
}

func newHeightField(size int) *HeightField {
	return &HeightField{
		size:   size,
		values: make([]float32, size*size),
	}
}

// At returns the height at grid point (x, y).
func (h *HeightField) At(x, y int) float32 {
	return h.values[y*h.size+x]
}

// Size returns the number of grid points along each axis.
func (h *HeightField) Size() int {
	return h.size
}

// MinMax returns the lowest and highest heights.
func (h *HeightField) MinMax() (lo, hi float32) {
	lo, hi = h.values[0], h.values[0]
	for _, v := range h.values[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi
}

func (h *HeightField) set(x, y int, v float32) {
	h.values[y*h.size+x] = v
}

// generateHeights recomposites every control point and the noise from a zero
// grid. changedHeights doubles as the "already written this pass" marker.
func (e *Engine) generateHeights() {
	clear(e.heights.values)
	e.changedHeights.Reset()

	for _, s := range e.points {
		if s.ok {
			e.composite(s.cp, true)
		}
	}

	for y := range e.size {
		for x := range e.size {
			if _, owned := e.pointAt(x, y); owned {
				continue
			}
			if n := e.noise.At(x, y); absf(n) > absf(e.heights.At(x, y)) {
				e.heights.set(x, y, n)
				e.changedHeights.Mark(x, y)
			}
		}
	}
	e.flushInconsistencies("regenerate")
}

// updateHeights composites only the control points edited since the last
// pass on top of the current heights. Noise is already folded into them.
func (e *Engine) updateHeights() {
	e.changedHeights.Reset()
	for _, c := range e.changedPoints.Coords() {
		if cp, ok := e.pointAt(c.X, c.Y); ok {
			e.composite(cp, false)
		}
	}
	e.changedPoints.Reset()
	e.flushInconsistencies("update")
}

// composite writes cp's own height and spreads its lift over the neighbourhood.
// Grid points owned by another control point keep their own height. Elsewhere
// the lift wins only if it is larger in magnitude than what is there; during a
// full sweep a point nothing has written yet always takes it.
func (e *Engine) composite(cp ControlPoint, sweep bool) {
	e.heights.set(cp.X, cp.Y, cp.Height)
	e.changedHeights.Mark(cp.X, cp.Y)

	minX, minY, maxX, maxY := cp.reach(e.res, e.size)
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			if x == cp.X && y == cp.Y {
				continue
			}
			lift := cp.Lift(x, y, e.res)
			if owner, owned := e.pointAt(x, y); owned {
				if absf(lift) > absf(owner.Height) {
					e.issues.note(x, y, owner.Height, lift)
				}
				continue
			}
			fresh := sweep && !e.changedHeights.Contains(x, y)
			if fresh || absf(lift) > absf(e.heights.At(x, y)) {
				e.heights.set(x, y, lift)
				e.changedHeights.Mark(x, y)
			}
		}
	}
}
