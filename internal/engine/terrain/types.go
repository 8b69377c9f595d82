// Package terrain synthesises a driving-range height field from control points and
// procedural noise, and keeps its normals and GPU vertex buffer in sync with edits.
package terrain

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Vertex buffer layout. Every grid cell owns one triangle pair stored as six
// independent vertices: position, UV, normal, colour.
const (
	PositionFloats = 3
	UVFloats       = 2
	NormalFloats   = 3
	ColorFloats    = 4

	FloatsPerVertex       = PositionFloats + UVFloats + NormalFloats + ColorFloats
	VerticesPerPair       = 6
	FloatsPerTriangle     = 3 * FloatsPerVertex
	FloatsPerTrianglePair = VerticesPerPair * FloatsPerVertex

	uvOffset     = PositionFloats
	normalOffset = uvOffset + UVFloats
	colorOffset  = normalOffset + NormalFloats
)

// Coord is an integer grid coordinate.
type Coord struct {
	X, Y int
}

// Config describes the grid an Engine works on.
type Config struct {
	Width      int     // Grid points along X
	Depth      int     // Grid points along Y, must equal Width
	Resolution float32 // World units between neighbouring grid points
	Palette    Palette // Height to colour mapping for the vertex buffer
}

// DefaultConfig returns a 128x128 grid with one world unit spacing.
func DefaultConfig() Config {
	return Config{
		Width:      128,
		Depth:      128,
		Resolution: 1,
		Palette:    DefaultPalette(),
	}
}

func (c Config) validate() {
	if c.Width != c.Depth {
		panic(fmt.Sprintf("terrain: grid must be square, got %dx%d", c.Width, c.Depth))
	}
	if c.Width < 2 {
		panic(fmt.Sprintf("terrain: grid needs at least 2x2 points, got %d", c.Width))
	}
	if c.Resolution <= 0 {
		panic(fmt.Sprintf("terrain: grid resolution must be positive, got %v", c.Resolution))
	}
}

// Bounds holds the axis-aligned bounding box of the terrain mesh.
type Bounds struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// State is the pipeline state of an Engine.
type State uint8

// Pipeline states.
const (
	StateClean                State = iota // Derived layers match the control points
	StateControlPointsDirty                // Pending edits can be applied incrementally
	StateRegenerationRequired              // Pending edits need a full rebuild
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateClean:
		return "Clean"
	case StateControlPointsDirty:
		return "ControlPointsDirty"
	case StateRegenerationRequired:
		return "RegenerationRequired"
	default:
		return fmt.Sprintf("State(%d)", s)
	}
}

// next returns the state after an edit. Unsafe edits can never be downgraded.
func (s State) next(unsafe bool) State {
	switch {
	case unsafe:
		return StateRegenerationRequired
	case s == StateClean:
		return StateControlPointsDirty
	default:
		return s
	}
}
