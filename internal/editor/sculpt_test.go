package editor

import (
	"math"
	"testing"

	"github.com/Faultbox/rangeforge/internal/engine/terrain"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func TestLiftEachCornerOnce(t *testing.T) {
	ed := newTestEditor(t, 8)
	ed.Brush = Brush{Spread: 0, Falloff: terrain.FalloffLinear}
	ed.MarkRect(2, 2, 3, 3)

	ed.Lift(1.5)
	ed.Engine().Update()

	eng := ed.Engine()
	if eng.ControlPointCount() != 9 {
		t.Errorf("expected 9 corner points, got %d", eng.ControlPointCount())
	}
	for y := 2; y <= 4; y++ {
		for x := 2; x <= 4; x++ {
			if h := eng.Height(x, y); h != 1.5 {
				t.Errorf("(%d,%d): expected 1.5, got %f", x, y, h)
			}
		}
	}
	if h := eng.Height(5, 5); h != 0 {
		t.Errorf("expected untouched corner at 0, got %f", h)
	}

	// Lifting again stacks on the points' own heights.
	ed.Lift(-0.5)
	eng.Update()
	if h := eng.Height(3, 3); h != 1 {
		t.Errorf("expected 1 after second lift, got %f", h)
	}
}

func TestLiftFromTerrainHeight(t *testing.T) {
	ed := newTestEditor(t, 8)
	eng := ed.Engine()
	eng.SetControlPoint(3, 3, 4, 2, terrain.FalloffLinear)
	eng.Update()

	ed.Brush.Spread = 0
	ed.Mark(4, 3)
	ed.Lift(1)
	eng.Update()

	// (4, 3) had lift 2 from the neighbour, (5, 3) had nothing.
	if h := eng.Height(4, 3); !near(h, 3) {
		t.Errorf("expected 3, got %f", h)
	}
	if h := eng.Height(5, 3); !near(h, 1) {
		t.Errorf("expected 1, got %f", h)
	}
	if cp, _ := eng.ControlPoint(3, 3); cp.Height != 4 {
		t.Errorf("expected neighbouring point untouched, got %f", cp.Height)
	}
}

func TestTilt(t *testing.T) {
	ed := newTestEditor(t, 8)
	ed.Brush.Spread = 0
	ed.MarkRect(2, 2, 3, 2)

	// Centre is (3, 2.5). 45 degrees along X: one unit per grid step.
	ed.Tilt(45, 0)
	eng := ed.Engine()
	eng.Update()

	tests := []struct {
		x, y int
		want float32
	}{
		{2, 2, 1},
		{3, 2, 0},
		{4, 2, -1},
		{2, 3, 1},
		{4, 3, -1},
	}
	for _, tt := range tests {
		if h := eng.Height(tt.x, tt.y); !near(h, tt.want) {
			t.Errorf("(%d,%d): expected %f, got %f", tt.x, tt.y, tt.want, h)
		}
	}
}

func TestTiltAlongY(t *testing.T) {
	ed := newTestEditor(t, 8)
	ed.Brush.Spread = 0
	ed.Mark(3, 3)

	ed.Tilt(0, 45)
	eng := ed.Engine()
	eng.Update()

	// Centre (3.5, 3.5): south corners rise, north corners sink.
	if h := eng.Height(3, 3); !near(h, 0.5) {
		t.Errorf("expected 0.5, got %f", h)
	}
	if h := eng.Height(4, 4); !near(h, -0.5) {
		t.Errorf("expected -0.5, got %f", h)
	}
}

func TestFlatten(t *testing.T) {
	ed := newTestEditor(t, 8)
	ed.Brush.Spread = 0
	eng := ed.Engine()
	eng.SetControlPoint(3, 3, 4, 0, terrain.FalloffLinear)
	eng.Update()

	ed.Mark(3, 3)
	ed.FlattenToAverage()
	eng.Update()

	for _, c := range []terrain.Coord{{X: 3, Y: 3}, {X: 4, Y: 3}, {X: 3, Y: 4}, {X: 4, Y: 4}} {
		if h := eng.Height(c.X, c.Y); h != 1 {
			t.Errorf("%v: expected 1, got %f", c, h)
		}
	}

	ed.Flatten(-2)
	eng.Update()
	if h := eng.Height(4, 4); h != -2 {
		t.Errorf("expected -2, got %f", h)
	}
}

func TestFlattenToAverageEmpty(t *testing.T) {
	ed := newTestEditor(t, 4)
	ed.FlattenToAverage()
	if ed.Engine().ControlPointCount() != 0 {
		t.Error("expected no points for empty selection")
	}
}

func TestSetSpreadAndFalloff(t *testing.T) {
	ed := newTestEditor(t, 8)
	eng := ed.Engine()
	eng.SetControlPoint(2, 2, 1, 1, terrain.FalloffLinear)
	eng.SetControlPoint(3, 3, 1, 1, terrain.FalloffLinear)
	eng.Update()

	ed.Mark(2, 2)
	ed.SetSpread(3)
	ed.SetFalloff(terrain.FalloffCosine)

	for _, c := range []terrain.Coord{{X: 2, Y: 2}, {X: 3, Y: 3}} {
		cp, ok := eng.ControlPoint(c.X, c.Y)
		if !ok {
			t.Fatalf("%v: expected point", c)
		}
		if cp.Spread != 3 || cp.Falloff != terrain.FalloffCosine {
			t.Errorf("%v: expected spread 3 cosine, got %f %s", c, cp.Spread, cp.Falloff)
		}
	}
	if eng.ControlPointCount() != 2 {
		t.Errorf("expected no new points, got %d", eng.ControlPointCount())
	}
}
