package editor

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/rangeforge/internal/engine/terrain"
)

// Mark adds cell (x, y) to the selection.
func (ed *Editor) Mark(x, y int) {
	ed.checkCell(x, y)
	i := ed.index(x, y)
	if !ed.marked[i] {
		ed.marked[i] = true
		ed.count++
	}
}

// Unmark removes cell (x, y) from the selection.
func (ed *Editor) Unmark(x, y int) {
	ed.checkCell(x, y)
	i := ed.index(x, y)
	if ed.marked[i] {
		ed.marked[i] = false
		ed.count--
	}
}

// Toggle flips the selection state of cell (x, y).
func (ed *Editor) Toggle(x, y int) {
	if ed.IsMarked(x, y) {
		ed.Unmark(x, y)
	} else {
		ed.Mark(x, y)
	}
}

// IsMarked reports whether cell (x, y) is selected.
func (ed *Editor) IsMarked(x, y int) bool {
	ed.checkCell(x, y)
	return ed.marked[ed.index(x, y)]
}

// MarkRect selects every cell in the rectangle spanned by two corner cells.
func (ed *Editor) MarkRect(x0, y0, x1, y1 int) {
	ed.checkCell(x0, y0)
	ed.checkCell(x1, y1)
	for y := min(y0, y1); y <= max(y0, y1); y++ {
		for x := min(x0, x1); x <= max(x0, x1); x++ {
			ed.Mark(x, y)
		}
	}
}

// ClearSelection empties the selection.
func (ed *Editor) ClearSelection() {
	clear(ed.marked)
	ed.count = 0
}

// Len returns the number of selected cells.
func (ed *Editor) Len() int {
	return ed.count
}

// Selected returns the selected cells in row-major order.
func (ed *Editor) Selected() []terrain.Coord {
	out := make([]terrain.Coord, 0, ed.count)
	for i, ok := range ed.marked {
		if ok {
			out = append(out, terrain.Coord{X: i % ed.cells, Y: i / ed.cells})
		}
	}
	return out
}

// MarkAt selects the cell under world position (tx, ty).
func (ed *Editor) MarkAt(tx, ty float32) {
	ed.Mark(ed.cellAt(tx, ty))
}

// UnmarkAt deselects the cell under world position (tx, ty).
func (ed *Editor) UnmarkAt(tx, ty float32) {
	ed.Unmark(ed.cellAt(tx, ty))
}

// ToggleAt flips the cell under world position (tx, ty).
func (ed *Editor) ToggleAt(tx, ty float32) {
	ed.Toggle(ed.cellAt(tx, ty))
}

func (ed *Editor) cellAt(tx, ty float32) (int, int) {
	return ed.eng.WorldToCell(tx), ed.eng.WorldToCell(ty)
}

// Drag handles a pointer press or move over world position (tx, ty). The first
// call after Release decides the mode: starting on a selected cell unmarks,
// otherwise it marks. With extend set, every cell in the bounding rectangle of
// the cells dragged over so far gets the mode applied.
func (ed *Editor) Drag(tx, ty float32, extend bool) {
	x, y := ed.cellAt(tx, ty)
	if !ed.dragging {
		ed.dragging = true
		ed.marking = !ed.IsMarked(x, y)
		ed.rect.Reset()
	}

	apply := ed.Unmark
	if ed.marking {
		apply = ed.Mark
	}

	if !extend {
		ed.rect.Reset()
		apply(x, y)
		return
	}

	ed.rect.Mark(x, y)
	lo, hi, _ := ed.rect.Bounds()
	for cy := lo.Y; cy <= hi.Y; cy++ {
		for cx := lo.X; cx <= hi.X; cx++ {
			apply(cx, cy)
		}
	}
}

// Release ends the current drag.
func (ed *Editor) Release() {
	ed.dragging = false
	ed.rect.Reset()
}

// corners returns every grid point that is a corner of a selected cell, each
// once, in selection order.
func (ed *Editor) corners() []terrain.Coord {
	n := ed.eng.Size()
	seen := terrain.NewChangeSet(n, n)
	for _, c := range ed.Selected() {
		seen.Mark(c.X, c.Y)
		seen.Mark(c.X, c.Y+1)
		seen.Mark(c.X+1, c.Y)
		seen.Mark(c.X+1, c.Y+1)
	}
	return seen.Coords()
}

// AverageHeight returns the mean height over the corners of the selection, or
// zero when nothing is selected.
func (ed *Editor) AverageHeight() float32 {
	corners := ed.corners()
	if len(corners) == 0 {
		return 0
	}
	var sum float64
	for _, c := range corners {
		sum += float64(ed.eng.Height(c.X, c.Y))
	}
	return float32(sum / float64(len(corners)))
}

// Center returns the mean of the selected cell centres in grid units, or the
// origin when nothing is selected.
func (ed *Editor) Center() mgl32.Vec2 {
	if ed.count == 0 {
		return mgl32.Vec2{}
	}
	var sx, sy float64
	for _, c := range ed.Selected() {
		sx += float64(c.X) + 0.5
		sy += float64(c.Y) + 0.5
	}
	n := float64(ed.count)
	return mgl32.Vec2{float32(sx / n), float32(sy / n)}
}
