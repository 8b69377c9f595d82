package terrain

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/rangeforge/internal/logger"
)

// Engine owns the control points of one terrain and every layer derived from
// them: heights, normals and the vertex buffer. It is not safe for concurrent
// use.
//
// Edits only record what changed. Update brings the derived layers back in
// sync, incrementally when every pending edit can only raise magnitudes and
// with a full Regenerate otherwise.
type Engine struct {
	size    int
	res     float32
	palette Palette
	log     *zap.Logger

	points []slot // Optional control point per grid point, row-major
	count  int

	noise    *NoiseField
	heights  *HeightField
	normals  *NormalField
	vertices *VertexBuffer

	changedPoints  *ChangeSet // Control points edited since the last pass
	changedHeights *ChangeSet // Heights written by the current pass
	changedNormals *ChangeSet // Normals recomputed by the current pass
	changedCells   *ChangeSet // Triangle pairs rewritten by the current pass

	state  State
	issues inconsistencies
}

type slot struct {
	cp ControlPoint
	ok bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for pass diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// New creates a flat terrain. It panics if cfg describes a non-square grid or a
// non-positive resolution.
func New(cfg Config, opts ...Option) *Engine {
	cfg.validate()
	n := cfg.Width
	e := &Engine{
		size:           n,
		res:            cfg.Resolution,
		palette:        cfg.Palette,
		log:            logger.L(),
		points:         make([]slot, n*n),
		noise:          NewNoiseField(n),
		heights:        newHeightField(n),
		normals:        newNormalField(n),
		vertices:       newVertexBuffer(n),
		changedPoints:  NewChangeSet(n, n),
		changedHeights: NewChangeSet(n, n),
		changedNormals: NewChangeSet(n, n),
		changedCells:   NewChangeSet(n-1, n-1),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.Regenerate()
	return e
}

// SetControlPoint places or replaces the control point owning (x, y). Setting a
// point identical to the current one is a no-op.
func (e *Engine) SetControlPoint(x, y int, height, spread float32, falloff Falloff) {
	e.checkPoint(x, y)
	cp := ControlPoint{X: x, Y: y, Height: height, Spread: spread, Falloff: falloff}
	s := &e.points[e.index(x, y)]
	if s.ok {
		if s.cp == cp {
			return
		}
		e.edit(x, y, !cp.covers(s.cp))
	} else {
		e.count++
		e.edit(x, y, absf(height) < absf(e.heights.At(x, y)))
	}
	s.cp, s.ok = cp, true
}

// SetControlPointSpread changes only the spread of the point at (x, y). It does
// nothing if no point is there.
func (e *Engine) SetControlPointSpread(x, y int, spread float32) {
	e.checkPoint(x, y)
	s := &e.points[e.index(x, y)]
	if !s.ok || s.cp.Spread == spread {
		return
	}
	// Lift grows with spread for every falloff, so only shrinking is unsafe.
	e.edit(x, y, spread < s.cp.Spread)
	s.cp.Spread = spread
}

// SetControlPointFalloff changes only the falloff of the point at (x, y). It
// does nothing if no point is there.
func (e *Engine) SetControlPointFalloff(x, y int, falloff Falloff) {
	e.checkPoint(x, y)
	s := &e.points[e.index(x, y)]
	if !s.ok || s.cp.Falloff == falloff {
		return
	}
	e.edit(x, y, falloff.rank() < s.cp.Falloff.rank())
	s.cp.Falloff = falloff
}

// ClearControlPoint removes the point owning (x, y), if any.
func (e *Engine) ClearControlPoint(x, y int) {
	e.checkPoint(x, y)
	s := &e.points[e.index(x, y)]
	if !s.ok {
		return
	}
	*s = slot{}
	e.count--
	e.edit(x, y, true)
}

// SetNoise replaces the noise field. The next Update regenerates everything.
func (e *Engine) SetNoise(p NoiseParams) {
	e.noise.Generate(p)
	e.state = e.state.next(true)
}

// FlattenNoise removes the noise field. The next Update regenerates everything.
func (e *Engine) FlattenNoise() {
	e.noise.Flatten()
	e.state = e.state.next(true)
}

// Reset removes every control point and the noise, then regenerates a flat
// terrain.
func (e *Engine) Reset() {
	clear(e.points)
	e.count = 0
	e.noise.Flatten()
	e.Regenerate()
}

// Update brings heights, normals and the vertex buffer in line with the edits
// made since the last pass.
func (e *Engine) Update() {
	switch e.state {
	case StateClean:
		return
	case StateRegenerationRequired:
		e.Regenerate()
	case StateControlPointsDirty:
		points := e.changedPoints.Len()
		e.updateHeights()
		e.updateNormals()
		e.updateVertices()
		e.state = StateClean
		e.log.Debug("terrain updated",
			zap.Int("points", points),
			zap.Int("heights", e.changedHeights.Len()),
			zap.Int("normals", e.changedNormals.Len()),
			zap.Int("cells", e.changedCells.Len()))
	}
}

// Regenerate rebuilds every derived layer from scratch.
func (e *Engine) Regenerate() {
	e.generateHeights()
	e.generateNormals()
	e.generateVertices()
	e.changedPoints.Reset()
	e.state = StateClean
	e.log.Debug("terrain regenerated",
		zap.Int("size", e.size),
		zap.Int("control_points", e.count))
}

// State returns the pipeline state.
func (e *Engine) State() State {
	return e.state
}

func (e *Engine) edit(x, y int, unsafe bool) {
	e.changedPoints.Mark(x, y)
	e.state = e.state.next(unsafe)
}

func (e *Engine) pointAt(x, y int) (ControlPoint, bool) {
	s := e.points[e.index(x, y)]
	return s.cp, s.ok
}

func (e *Engine) index(x, y int) int {
	return y*e.size + x
}

func (e *Engine) checkPoint(x, y int) {
	if x < 0 || y < 0 || x >= e.size || y >= e.size {
		panic(fmt.Sprintf("terrain: grid point (%d, %d) outside %dx%d grid", x, y, e.size, e.size))
	}
}

// inconsistencies collects owned grid points whose own height is weaker than a
// neighbour's lift during one pass, so they can be reported once.
type inconsistencies struct {
	count int
	first Coord
	own   float32
	lift  float32
}

func (in *inconsistencies) note(x, y int, own, lift float32) {
	if in.count == 0 {
		in.first = Coord{x, y}
		in.own, in.lift = own, lift
	}
	in.count++
}

func (e *Engine) flushInconsistencies(pass string) {
	if e.issues.count == 0 {
		return
	}
	e.log.Warn("control point height below neighbouring lift, keeping own height",
		zap.String("pass", pass),
		zap.Int("count", e.issues.count),
		zap.Int("x", e.issues.first.X),
		zap.Int("y", e.issues.first.Y),
		zap.Float32("own", e.issues.own),
		zap.Float32("lift", e.issues.lift))
	e.issues = inconsistencies{}
}
