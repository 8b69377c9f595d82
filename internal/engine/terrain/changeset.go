package terrain

import (
	"fmt"
	"math"
)

// ChangeSet is an insertion-ordered set of grid coordinates with O(1) membership
// and insertion. Reset clears it without reallocating.
type ChangeSet struct {
	width, height int
	marked        []bool
	coords        []Coord
	min, max      Coord
}

// NewChangeSet creates an empty set over a width x height grid.
func NewChangeSet(width, height int) *ChangeSet {
	s := &ChangeSet{
		width:  width,
		height: height,
		marked: make([]bool, width*height),
		coords: make([]Coord, 0, width*height),
	}
	s.Reset()
	return s
}

// Mark adds (x, y). It returns false if the coordinate was already present.
func (s *ChangeSet) Mark(x, y int) bool {
	idx := s.index(x, y)
	if s.marked[idx] {
		return false
	}
	s.marked[idx] = true
	s.coords = append(s.coords, Coord{x, y})
	s.min.X = min(s.min.X, x)
	s.min.Y = min(s.min.Y, y)
	s.max.X = max(s.max.X, x)
	s.max.Y = max(s.max.Y, y)
	return true
}

// Contains reports whether (x, y) has been marked since the last Reset.
func (s *ChangeSet) Contains(x, y int) bool {
	return s.marked[s.index(x, y)]
}

// Coords returns the marked coordinates in insertion order. The slice is owned
// by the set and is only valid until the next Mark or Reset.
func (s *ChangeSet) Coords() []Coord {
	return s.coords
}

// Len returns the number of marked coordinates.
func (s *ChangeSet) Len() int {
	return len(s.coords)
}

// Bounds returns the smallest rectangle containing every marked coordinate.
func (s *ChangeSet) Bounds() (lo, hi Coord, ok bool) {
	if len(s.coords) == 0 {
		return Coord{}, Coord{}, false
	}
	return s.min, s.max, true
}

// Reset empties the set.
func (s *ChangeSet) Reset() {
	clear(s.marked)
	s.coords = s.coords[:0]
	s.min = Coord{math.MaxInt, math.MaxInt}
	s.max = Coord{math.MinInt, math.MinInt}
}

func (s *ChangeSet) index(x, y int) int {
	if x < 0 || y < 0 || x >= s.width || y >= s.height {
		panic(fmt.Sprintf("terrain: coordinate (%d, %d) outside %dx%d change set", x, y, s.width, s.height))
	}
	return y*s.width + x
}
