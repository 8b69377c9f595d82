package terrain

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func newTestEngine(t *testing.T, size int) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Width, cfg.Depth = size, size
	return New(cfg, WithLogger(zaptest.NewLogger(t)))
}

func TestSinglePointScenario(t *testing.T) {
	e := newTestEngine(t, 4)
	e.SetControlPoint(1, 1, 2, 2, FalloffLinear)
	e.Update()

	tests := []struct {
		x, y int
		want float32
	}{
		{1, 1, 2},
		{0, 0, 2 * (1 - math.Sqrt2/2)},
		{2, 1, 1},
		{1, 3, 0},
		{3, 3, 0},
	}
	for _, tt := range tests {
		if got := e.Height(tt.x, tt.y); !near(got, tt.want) {
			t.Errorf("height(%d,%d): expected %f, got %f", tt.x, tt.y, tt.want, got)
		}
	}
	if e.State() != StateClean {
		t.Errorf("expected Clean after Update, got %s", e.State())
	}
}

func TestNewIsFlat(t *testing.T) {
	e := newTestEngine(t, 6)
	if e.State() != StateClean {
		t.Errorf("expected Clean, got %s", e.State())
	}
	for y := range 6 {
		for x := range 6 {
			if h := e.Height(x, y); h != 0 {
				t.Fatalf("height(%d,%d): expected 0, got %f", x, y, h)
			}
		}
	}
	if got := len(e.DirtyCells()); got != 25 {
		t.Errorf("expected every cell written by the first pass, got %d", got)
	}
}

func TestNewPanics(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"non-square", Config{Width: 8, Depth: 9, Resolution: 1}},
		{"too small", Config{Width: 1, Depth: 1, Resolution: 1}},
		{"zero resolution", Config{Width: 4, Depth: 4, Resolution: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectPanic(t, func() { New(tt.cfg) })
		})
	}
}

func TestOutOfRangePanics(t *testing.T) {
	e := newTestEngine(t, 4)
	tests := []struct {
		name string
		f    func()
	}{
		{"set x", func() { e.SetControlPoint(4, 0, 1, 1, FalloffLinear) }},
		{"set y", func() { e.SetControlPoint(0, -1, 1, 1, FalloffLinear) }},
		{"spread", func() { e.SetControlPointSpread(-1, 0, 1) }},
		{"falloff", func() { e.SetControlPointFalloff(0, 4, FalloffSine) }},
		{"clear", func() { e.ClearControlPoint(5, 5) }},
		{"height", func() { e.Height(0, 4) }},
		{"normal", func() { e.Normal(-1, 2) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectPanic(t, tt.f)
		})
	}
}

func TestStateTransitions(t *testing.T) {
	tests := []struct {
		name  string
		setup func(e *Engine) // Applied and settled before edit
		edit  func(e *Engine)
		want  State
	}{
		{
			name: "new point",
			edit: func(e *Engine) { e.SetControlPoint(3, 3, 2, 2, FalloffLinear) },
			want: StateControlPointsDirty,
		},
		{
			name:  "identical point",
			setup: func(e *Engine) { e.SetControlPoint(3, 3, 2, 2, FalloffLinear) },
			edit:  func(e *Engine) { e.SetControlPoint(3, 3, 2, 2, FalloffLinear) },
			want:  StateClean,
		},
		{
			name:  "new point below current height",
			setup: func(e *Engine) { e.SetControlPoint(3, 3, 4, 3, FalloffLinear) },
			edit:  func(e *Engine) { e.SetControlPoint(4, 3, 1, 1, FalloffLinear) },
			want:  StateRegenerationRequired,
		},
		{
			name:  "raise point",
			setup: func(e *Engine) { e.SetControlPoint(3, 3, 2, 2, FalloffLinear) },
			edit:  func(e *Engine) { e.SetControlPoint(3, 3, 5, 2, FalloffLinear) },
			want:  StateControlPointsDirty,
		},
		{
			name:  "lower point",
			setup: func(e *Engine) { e.SetControlPoint(3, 3, 2, 2, FalloffLinear) },
			edit:  func(e *Engine) { e.SetControlPoint(3, 3, 1, 2, FalloffLinear) },
			want:  StateRegenerationRequired,
		},
		{
			name:  "flip sign",
			setup: func(e *Engine) { e.SetControlPoint(3, 3, 2, 2, FalloffLinear) },
			edit:  func(e *Engine) { e.SetControlPoint(3, 3, -2, 2, FalloffLinear) },
			want:  StateRegenerationRequired,
		},
		{
			name:  "grow spread",
			setup: func(e *Engine) { e.SetControlPoint(3, 3, 2, 2, FalloffLinear) },
			edit:  func(e *Engine) { e.SetControlPointSpread(3, 3, 4) },
			want:  StateControlPointsDirty,
		},
		{
			name:  "shrink spread",
			setup: func(e *Engine) { e.SetControlPoint(3, 3, 2, 2, FalloffLinear) },
			edit:  func(e *Engine) { e.SetControlPointSpread(3, 3, 1) },
			want:  StateRegenerationRequired,
		},
		{
			name: "spread without point",
			edit: func(e *Engine) { e.SetControlPointSpread(3, 3, 1) },
			want: StateClean,
		},
		{
			name:  "falloff up",
			setup: func(e *Engine) { e.SetControlPoint(3, 3, 2, 2, FalloffSine) },
			edit:  func(e *Engine) { e.SetControlPointFalloff(3, 3, FalloffCosine) },
			want:  StateControlPointsDirty,
		},
		{
			name:  "falloff down",
			setup: func(e *Engine) { e.SetControlPoint(3, 3, 2, 2, FalloffCosine) },
			edit:  func(e *Engine) { e.SetControlPointFalloff(3, 3, FalloffLinear) },
			want:  StateRegenerationRequired,
		},
		{
			name:  "clear point",
			setup: func(e *Engine) { e.SetControlPoint(3, 3, 2, 2, FalloffLinear) },
			edit:  func(e *Engine) { e.ClearControlPoint(3, 3) },
			want:  StateRegenerationRequired,
		},
		{
			name: "clear empty",
			edit: func(e *Engine) { e.ClearControlPoint(3, 3) },
			want: StateClean,
		},
		{
			name: "noise",
			edit: func(e *Engine) { e.SetNoise(testNoise(NoisePerlin)) },
			want: StateRegenerationRequired,
		},
		{
			name: "flatten noise",
			edit: func(e *Engine) { e.FlattenNoise() },
			want: StateRegenerationRequired,
		},
		{
			name: "unsafe then safe",
			setup: func(e *Engine) {
				e.SetControlPoint(3, 3, 2, 2, FalloffLinear)
			},
			edit: func(e *Engine) {
				e.ClearControlPoint(3, 3)
				e.SetControlPoint(1, 1, 9, 1, FalloffLinear)
			},
			want: StateRegenerationRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, 8)
			if tt.setup != nil {
				tt.setup(e)
				e.Update()
			}
			tt.edit(e)
			if got := e.State(); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
			e.Update()
			if got := e.State(); got != StateClean {
				t.Errorf("expected Clean after Update, got %s", got)
			}
		})
	}
}

func TestUpdateIdempotent(t *testing.T) {
	e := newTestEngine(t, 10)
	e.SetControlPoint(4, 4, 3, 3, FalloffCosine)
	e.Update()

	heights := append([]float32(nil), e.heights.values...)
	vertices := append([]float32(nil), e.Vertices().Data()...)

	e.Update()

	for i := range heights {
		if heights[i] != e.heights.values[i] {
			t.Fatalf("height %d changed on second Update", i)
		}
	}
	for i := range vertices {
		if vertices[i] != e.Vertices().Data()[i] {
			t.Fatalf("vertex float %d changed on second Update", i)
		}
	}
}

func TestIncrementalMatchesRegenerate(t *testing.T) {
	e := newTestEngine(t, 16)
	e.SetNoise(NoiseParams{Kind: NoiseSimplex, Persistence: 0.5, Frequency: 0.2, Amplitude: 0.5, Octaves: 3, Seed: 3})
	e.Update()

	edits := []func(){
		func() { e.SetControlPoint(4, 4, 3, 4, FalloffLinear) },
		func() { e.SetControlPoint(8, 8, -2, 3, FalloffCosine) },
		func() { e.SetControlPointSpread(4, 4, 6) },
		func() { e.SetControlPointFalloff(4, 4, FalloffCosine) },
		func() { e.SetControlPoint(4, 4, 4, 6, FalloffCosine) },
		func() { e.SetControlPoint(12, 3, 5, 2.5, FalloffSine) },
	}
	for i, edit := range edits {
		edit()
		if e.State() != StateControlPointsDirty {
			t.Fatalf("edit %d: expected incremental update, got %s", i, e.State())
		}
		e.Update()
	}

	heights := append([]float32(nil), e.heights.values...)
	normals := append([]mgl32.Vec3(nil), e.normals.values...)
	vertices := append([]float32(nil), e.Vertices().Data()...)

	e.Regenerate()

	for i := range heights {
		if !near(heights[i], e.heights.values[i]) {
			t.Errorf("height %d: incremental %f, regenerated %f", i, heights[i], e.heights.values[i])
		}
	}
	for i := range normals {
		if !normals[i].ApproxEqualThreshold(e.normals.values[i], eps) {
			t.Errorf("normal %d: incremental %v, regenerated %v", i, normals[i], e.normals.values[i])
		}
	}
	for i := range vertices {
		if !near(vertices[i], e.Vertices().Data()[i]) {
			t.Fatalf("vertex float %d: incremental %f, regenerated %f", i, vertices[i], e.Vertices().Data()[i])
		}
	}
}

func TestMagnitudeMax(t *testing.T) {
	e := newTestEngine(t, 20)
	points := []ControlPoint{
		{X: 5, Y: 5, Height: 4, Spread: 6, Falloff: FalloffLinear},
		{X: 9, Y: 6, Height: -5, Spread: 5, Falloff: FalloffCosine},
		{X: 12, Y: 12, Height: 3, Spread: 8, Falloff: FalloffSine},
		{X: 2, Y: 15, Height: -1, Spread: 3, Falloff: FalloffLinear},
	}
	for _, cp := range points {
		e.SetControlPoint(cp.X, cp.Y, cp.Height, cp.Spread, cp.Falloff)
	}
	e.SetNoise(NoiseParams{Kind: NoisePerlin, Persistence: 0.5, Frequency: 0.1, Amplitude: 2, Octaves: 4, Seed: 11})
	e.Update()

	for y := range 20 {
		for x := range 20 {
			h := e.Height(x, y)
			if cp, ok := e.ControlPoint(x, y); ok {
				if h != cp.Height {
					t.Errorf("(%d,%d): expected own height %f, got %f", x, y, cp.Height, h)
				}
				continue
			}
			candidates := []float32{0, e.Noise(x, y)}
			for _, cp := range points {
				candidates = append(candidates, cp.Lift(x, y, 1))
			}
			found := false
			for _, c := range candidates {
				if absf(c) > absf(h)+eps {
					t.Errorf("(%d,%d): contribution %f exceeds height %f", x, y, c, h)
				}
				if c == h {
					found = true
				}
			}
			if !found {
				t.Errorf("(%d,%d): height %f is not any contribution", x, y, h)
			}
		}
	}
}

func TestOwnHeightWinsAndWarns(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	cfg := DefaultConfig()
	cfg.Width, cfg.Depth = 12, 12
	e := New(cfg, WithLogger(zap.New(core)))

	e.SetControlPoint(5, 5, 10, 8, FalloffLinear)
	e.SetControlPoint(6, 5, 1, 0, FalloffLinear)
	e.SetControlPoint(5, 6, 2, 0, FalloffLinear)
	e.Update()

	if h := e.Height(6, 5); h != 1 {
		t.Errorf("expected own height 1, got %f", h)
	}
	if h := e.Height(5, 6); h != 2 {
		t.Errorf("expected own height 2, got %f", h)
	}

	warnings := logs.FilterMessageSnippet("below neighbouring lift").All()
	if len(warnings) != 1 {
		t.Fatalf("expected one aggregated warning, got %d", len(warnings))
	}
	if n := warnings[0].ContextMap()["count"]; n != int64(2) {
		t.Errorf("expected count 2, got %v", n)
	}
}

func TestClearControlPoint(t *testing.T) {
	e := newTestEngine(t, 8)
	e.SetControlPoint(3, 3, 5, 3, FalloffLinear)
	e.Update()
	if e.ControlPointCount() != 1 {
		t.Fatalf("expected 1 point, got %d", e.ControlPointCount())
	}

	e.ClearControlPoint(3, 3)
	e.Update()

	if e.ControlPointCount() != 0 {
		t.Errorf("expected 0 points, got %d", e.ControlPointCount())
	}
	if _, ok := e.ControlPoint(3, 3); ok {
		t.Error("expected no point at (3,3)")
	}
	lo, hi := e.Heights().MinMax()
	if lo != 0 || hi != 0 {
		t.Errorf("expected flat terrain, got range [%f, %f]", lo, hi)
	}
}

func TestNoiseOverlay(t *testing.T) {
	e := newTestEngine(t, 12)
	e.SetControlPoint(6, 6, 0.01, 0, FalloffLinear)
	e.SetNoise(testNoise(NoiseSimplex))
	e.Update()

	for y := range 12 {
		for x := range 12 {
			want := e.Noise(x, y)
			if x == 6 && y == 6 {
				want = 0.01
			}
			if h := e.Height(x, y); h != want {
				t.Errorf("(%d,%d): expected %f, got %f", x, y, want, h)
			}
		}
	}
	if e.NoiseParams() != testNoise(NoiseSimplex) {
		t.Errorf("expected noise params kept, got %+v", e.NoiseParams())
	}

	e.FlattenNoise()
	e.Update()
	if h := e.Height(0, 11); h != 0 {
		t.Errorf("expected flat after FlattenNoise, got %f", h)
	}
}

func TestReset(t *testing.T) {
	e := newTestEngine(t, 10)
	e.SetControlPoint(2, 2, 4, 3, FalloffLinear)
	e.SetControlPoint(7, 7, -4, 3, FalloffSine)
	e.SetNoise(testNoise(NoisePerlin))
	e.Update()

	e.Reset()

	if e.State() != StateClean {
		t.Errorf("expected Clean after Reset, got %s", e.State())
	}
	if e.ControlPointCount() != 0 {
		t.Errorf("expected no points, got %d", e.ControlPointCount())
	}
	for y := range 10 {
		for x := range 10 {
			if e.Height(x, y) != 0 || e.Noise(x, y) != 0 {
				t.Fatalf("(%d,%d): expected flat terrain", x, y)
			}
		}
	}
}

func TestSetSpreadAndFalloffWithoutPoint(t *testing.T) {
	e := newTestEngine(t, 6)
	e.SetControlPointSpread(2, 2, 4)
	e.SetControlPointFalloff(2, 2, FalloffCosine)
	if _, ok := e.ControlPoint(2, 2); ok {
		t.Error("expected spread/falloff edits not to create a point")
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		s    State
		want string
	}{
		{StateClean, "Clean"},
		{StateControlPointsDirty, "ControlPointsDirty"},
		{StateRegenerationRequired, "RegenerationRequired"},
		{State(9), "State(9)"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("expected %s, got %s", tt.want, got)
		}
	}
}

func TestRegenerateIdempotent(t *testing.T) {
	e := newTestEngine(t, 12)
	e.SetControlPoint(3, 4, 5, 4, FalloffSine)
	e.SetControlPoint(8, 8, -3, 5, FalloffCosine)
	e.SetNoise(testNoise(NoisePerlin))
	e.Update()

	heights := append([]float32(nil), e.heights.values...)
	normals := append([]mgl32.Vec3(nil), e.normals.values...)
	vertices := append([]float32(nil), e.Vertices().Data()...)

	e.Regenerate()

	for i := range heights {
		if heights[i] != e.heights.values[i] {
			t.Fatalf("height %d differs after second Regenerate", i)
		}
	}
	for i := range normals {
		if normals[i] != e.normals.values[i] {
			t.Fatalf("normal %d differs after second Regenerate", i)
		}
	}
	for i := range vertices {
		if vertices[i] != e.Vertices().Data()[i] {
			t.Fatalf("vertex float %d differs after second Regenerate", i)
		}
	}
}

func TestResetRestoresFlatNormals(t *testing.T) {
	e := newTestEngine(t, 7)
	e.SetControlPoint(3, 3, 6, 3, FalloffCosine)
	e.Update()
	e.Reset()

	up := mgl32.Vec3{0, 1, 0}
	for y := range 7 {
		for x := range 7 {
			if n := e.Normal(x, y); n != up {
				t.Fatalf("(%d,%d): expected %v, got %v", x, y, up, n)
			}
		}
	}
}
