// Package editor turns cell selections into control point edits on a terrain
// engine: marking cells, lifting, tilting and flattening the selection, and
// placing the tee and target markers.
package editor

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/rangeforge/internal/engine/terrain"
	"github.com/Faultbox/rangeforge/internal/logger"
)

// Brush holds the spread and falloff given to control points the editor places.
type Brush struct {
	Spread  float32
	Falloff terrain.Falloff
}

// DefaultBrush returns spread 5 with linear falloff.
func DefaultBrush() Brush {
	return Brush{Spread: 5, Falloff: terrain.FalloffLinear}
}

// Editor tracks a set of selected cells on one engine. Cell (x, y) is the quad
// between grid points (x, y) and (x+1, y+1). Edits go to the engine; call
// Engine().Update to see them in the derived layers.
type Editor struct {
	eng   *terrain.Engine
	cells int
	log   *zap.Logger

	Brush Brush

	marked []bool // Row-major, cells x cells
	count  int

	// Drag state
	dragging bool
	marking  bool               // Whether the current drag marks or unmarks
	rect     *terrain.ChangeSet // Cells touched by the current extending drag

	tee    marker
	target marker
}

type marker struct {
	tx, ty float32
	ok     bool
}

// Option configures an Editor.
type Option func(*Editor)

// WithLogger sets the logger used for edit diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(ed *Editor) {
		if l != nil {
			ed.log = l
		}
	}
}

// New creates an editor with an empty selection over eng.
func New(eng *terrain.Engine, brush Brush, opts ...Option) *Editor {
	cells := eng.Size() - 1
	ed := &Editor{
		eng:    eng,
		cells:  cells,
		log:    logger.L(),
		Brush:  brush,
		marked: make([]bool, cells*cells),
		rect:   terrain.NewChangeSet(cells, cells),
	}
	for _, opt := range opts {
		opt(ed)
	}
	return ed
}

// Engine returns the engine being edited.
func (ed *Editor) Engine() *terrain.Engine {
	return ed.eng
}

// Cells returns the number of cells along each axis.
func (ed *Editor) Cells() int {
	return ed.cells
}

func (ed *Editor) checkCell(x, y int) {
	if x < 0 || y < 0 || x >= ed.cells || y >= ed.cells {
		panic(fmt.Sprintf("editor: cell (%d, %d) outside %dx%d cells", x, y, ed.cells, ed.cells))
	}
}

func (ed *Editor) index(x, y int) int {
	return y*ed.cells + x
}
