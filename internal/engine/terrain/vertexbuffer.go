package terrain

// VertexBuffer is the flat, GPU-ready vertex array of the terrain mesh. Cell
// (x, y) owns the triangle pair starting at CellOffset(x, y); every pair keeps
// its own copy of shared corners.
type VertexBuffer struct {
	cells   int // Triangle-pair cells along each axis
	data    []float32
	changed []int
}

func newVertexBuffer(size int) *VertexBuffer {
	cells := size - 1
	return &VertexBuffer{
		cells: cells,
		data:  make([]float32, cells*cells*FloatsPerTrianglePair),
	}
}

// Data returns the interleaved vertex floats.
func (vb *VertexBuffer) Data() []float32 {
	return vb.data
}

// ChangedIndices returns every float index rewritten by the last pass, in
// write order.
func (vb *VertexBuffer) ChangedIndices() []int {
	return vb.changed
}

// ChangedRanges coalesces ChangedIndices into [start, end) float ranges,
// sorted by start, for partial buffer uploads.
func (vb *VertexBuffer) ChangedRanges() [][2]int {
	if len(vb.changed) == 0 {
		return nil
	}
	written := make([]bool, len(vb.data))
	for _, idx := range vb.changed {
		written[idx] = true
	}
	var ranges [][2]int
	for i, ok := range written {
		if !ok {
			continue
		}
		if n := len(ranges); n > 0 && ranges[n-1][1] == i {
			ranges[n-1][1] = i + 1
			continue
		}
		ranges = append(ranges, [2]int{i, i + 1})
	}
	return ranges
}

func (vb *VertexBuffer) mark(start, n int) {
	for i := start; i < start+n; i++ {
		vb.changed = append(vb.changed, i)
	}
}

// Cells returns the number of triangle-pair cells along each axis.
func (vb *VertexBuffer) Cells() int {
	return vb.cells
}

// FloatsPerRow returns the stride between rows of cells.
func (vb *VertexBuffer) FloatsPerRow() int {
	return vb.cells * FloatsPerTrianglePair
}

// CellOffset returns the index of the first float of cell (x, y).
func (vb *VertexBuffer) CellOffset(x, y int) int {
	return y*vb.FloatsPerRow() + x*FloatsPerTrianglePair
}

// TriangleCount returns the number of triangles in the buffer.
func (vb *VertexBuffer) TriangleCount() int {
	return vb.cells * vb.cells * 2
}

// Quad corner order used by writeCell.
const (
	corner00 = iota // (x, y)
	corner10        // (x+1, y)
	corner01        // (x, y+1)
	corner11        // (x+1, y+1)
)

var (
	// Split along (x, y)-(x+1, y+1).
	mainDiagonal = [VerticesPerPair]int{corner00, corner10, corner11, corner00, corner11, corner01}
	// Split along (x+1, y)-(x, y+1).
	antiDiagonal = [VerticesPerPair]int{corner00, corner10, corner01, corner10, corner11, corner01}
)

// splitsMainDiagonal reports whether a quad should be split along its
// (x, y)-(x+1, y+1) diagonal: the one with the smaller height difference.
func splitsMainDiagonal(h00, h10, h01, h11 float32) bool {
	return absf(h00-h11) <= absf(h10-h01)
}

func (e *Engine) generateVertices() {
	e.vertices.changed = e.vertices.changed[:0]
	e.changedCells.Reset()
	cells := e.vertices.cells
	for y := range cells {
		for x := range cells {
			e.changedCells.Mark(x, y)
			e.writeCell(x, y)
		}
	}
}

// updateVertices rewrites every triangle pair that has a changed height as a
// corner, then copies refreshed normals into the pairs around them.
func (e *Engine) updateVertices() {
	e.vertices.changed = e.vertices.changed[:0]
	e.changedCells.Reset()
	last := e.vertices.cells - 1
	for _, c := range e.changedHeights.Coords() {
		x0, x1 := clampInt(c.X-1, 0, last), clampInt(c.X, 0, last)
		y0, y1 := clampInt(c.Y-1, 0, last), clampInt(c.Y, 0, last)
		for _, cell := range [4]Coord{{x0, y0}, {x0, y1}, {x1, y0}, {x1, y1}} {
			if e.changedCells.Mark(cell.X, cell.Y) {
				e.writeCell(cell.X, cell.Y)
			}
		}
	}
	e.patchNormals()
}

// patchNormals writes the normal floats of every recomputed normal into the
// pairs sharing its grid point that updateVertices left alone. Those pairs
// keep their heights, so only the normal floats differ. They are not counted
// as dirty cells.
func (e *Engine) patchNormals() {
	last := e.vertices.cells - 1
	for _, c := range e.changedNormals.Coords() {
		n := e.normals.At(c.X, c.Y)
		for cy := max(c.Y-1, 0); cy <= min(c.Y, last); cy++ {
			for cx := max(c.X-1, 0); cx <= min(c.X, last); cx++ {
				if e.changedCells.Contains(cx, cy) {
					continue
				}
				corner := (c.X - cx) + 2*(c.Y-cy)
				base := e.vertices.CellOffset(cx, cy)
				for k, ck := range e.splitOrder(cx, cy) {
					if ck != corner {
						continue
					}
					idx := base + k*FloatsPerVertex + normalOffset
					copy(e.vertices.data[idx:idx+NormalFloats], n[:])
					e.vertices.mark(idx, NormalFloats)
				}
			}
		}
	}
}

// splitOrder returns the corner order of cell (x, y)'s triangle pair.
func (e *Engine) splitOrder(x, y int) [VerticesPerPair]int {
	h := e.heights
	if splitsMainDiagonal(h.At(x, y), h.At(x+1, y), h.At(x, y+1), h.At(x+1, y+1)) {
		return mainDiagonal
	}
	return antiDiagonal
}

func (e *Engine) writeCell(x, y int) {
	corners := [4]Coord{
		corner00: {x, y},
		corner10: {x + 1, y},
		corner01: {x, y + 1},
		corner11: {x + 1, y + 1},
	}
	idx := e.vertices.CellOffset(x, y)
	for _, k := range e.splitOrder(x, y) {
		e.writeVertex(idx, corners[k])
		e.vertices.mark(idx, FloatsPerVertex)
		idx += FloatsPerVertex
	}
}

func (e *Engine) writeVertex(idx int, c Coord) {
	v := e.vertices.data[idx : idx+FloatsPerVertex]
	h := e.heights.At(c.X, c.Y)
	span := float32(e.size - 1)

	v[0] = float32(c.X) * e.res
	v[1] = h
	v[2] = -float32(c.Y) * e.res

	v[uvOffset] = float32(c.X) / span
	v[uvOffset+1] = float32(c.Y) / span

	n := e.normals.At(c.X, c.Y)
	copy(v[normalOffset:normalOffset+NormalFloats], n[:])

	col := e.palette.Color(h)
	copy(v[colorOffset:colorOffset+ColorFloats], col[:])
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
