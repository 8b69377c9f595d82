package editor

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/rangeforge/internal/engine/terrain"
)

// ErrUnknownOp is returned for a script step with an unrecognised op.
var ErrUnknownOp = errors.New("unknown op")

// Script is a replayable list of sculpting steps.
type Script struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Step is one script operation. Which fields apply depends on Op:
//
//	set            x, y, height, [spread], [falloff]
//	clear          x, y
//	spread         x, y, spread   (or the selection, without x/y)
//	falloff        x, y, falloff  (or the selection, without x/y)
//	noise          [noise]        (the runner's defaults when omitted)
//	flatten_noise
//	reset
//	select         cells and/or rect, [append]
//	lift           delta
//	tilt           x_deg, y_deg
//	flatten        height, or average: true
//	update
//	regenerate
type Step struct {
	Op string `yaml:"op"`

	X *int `yaml:"x,omitempty"`
	Y *int `yaml:"y,omitempty"`

	Height  float32          `yaml:"height,omitempty"`
	Spread  *float32         `yaml:"spread,omitempty"`
	Falloff *terrain.Falloff `yaml:"falloff,omitempty"`

	Noise *terrain.NoiseParams `yaml:"noise,omitempty"`

	Cells  [][2]int `yaml:"cells,omitempty"`
	Rect   *[4]int  `yaml:"rect,omitempty"` // x0, y0, x1, y1
	Append bool     `yaml:"append,omitempty"`

	Delta   float32 `yaml:"delta,omitempty"`
	XDeg    float32 `yaml:"x_deg,omitempty"`
	YDeg    float32 `yaml:"y_deg,omitempty"`
	Average bool    `yaml:"average,omitempty"`
}

// ParseScript decodes a YAML script.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing script: %w", err)
	}
	return &s, nil
}

// LoadScript reads and decodes a YAML script file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	s, err := ParseScript(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Run applies every step to ed, then brings the engine up to date. noise is
// used by noise steps that carry no parameters of their own. Steps are checked
// before they touch the engine, so a bad step returns an error instead of
// panicking; steps before it stay applied.
func (s *Script) Run(ed *Editor, noise terrain.NoiseParams) error {
	for i, st := range s.Steps {
		if err := ed.apply(st, noise); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, st.Op, err)
		}
	}
	ed.eng.Update()
	ed.log.Info("script finished",
		zap.String("script", s.Name),
		zap.Int("steps", len(s.Steps)),
		zap.Int("control_points", ed.eng.ControlPointCount()))
	return nil
}

func (ed *Editor) apply(st Step, noise terrain.NoiseParams) error {
	eng := ed.eng
	switch st.Op {
	case "set":
		x, y, err := ed.point(st)
		if err != nil {
			return err
		}
		spread, falloff := ed.Brush.Spread, ed.Brush.Falloff
		if st.Spread != nil {
			spread = *st.Spread
		}
		if st.Falloff != nil {
			falloff = *st.Falloff
		}
		eng.SetControlPoint(x, y, st.Height, spread, falloff)

	case "clear":
		x, y, err := ed.point(st)
		if err != nil {
			return err
		}
		eng.ClearControlPoint(x, y)

	case "spread":
		if st.Spread == nil {
			return errors.New("missing spread")
		}
		if st.X == nil && st.Y == nil {
			ed.SetSpread(*st.Spread)
			return nil
		}
		x, y, err := ed.point(st)
		if err != nil {
			return err
		}
		eng.SetControlPointSpread(x, y, *st.Spread)

	case "falloff":
		if st.Falloff == nil {
			return errors.New("missing falloff")
		}
		if st.X == nil && st.Y == nil {
			ed.SetFalloff(*st.Falloff)
			return nil
		}
		x, y, err := ed.point(st)
		if err != nil {
			return err
		}
		eng.SetControlPointFalloff(x, y, *st.Falloff)

	case "noise":
		p := noise
		if st.Noise != nil {
			p = *st.Noise
		}
		eng.SetNoise(p)

	case "flatten_noise":
		eng.FlattenNoise()

	case "reset":
		eng.Reset()
		ed.ClearSelection()

	case "select":
		return ed.selectStep(st)

	case "lift":
		ed.Lift(st.Delta)

	case "tilt":
		ed.Tilt(st.XDeg, st.YDeg)

	case "flatten":
		if st.Average {
			ed.FlattenToAverage()
		} else {
			ed.Flatten(st.Height)
		}

	case "update":
		eng.Update()

	case "regenerate":
		eng.Regenerate()

	default:
		return fmt.Errorf("%w %q", ErrUnknownOp, st.Op)
	}
	return nil
}

func (ed *Editor) point(st Step) (int, int, error) {
	if st.X == nil || st.Y == nil {
		return 0, 0, errors.New("missing x or y")
	}
	x, y := *st.X, *st.Y
	n := ed.eng.Size()
	if x < 0 || y < 0 || x >= n || y >= n {
		return 0, 0, fmt.Errorf("grid point (%d, %d) outside %dx%d grid", x, y, n, n)
	}
	return x, y, nil
}

func (ed *Editor) selectStep(st Step) error {
	if len(st.Cells) == 0 && st.Rect == nil {
		return errors.New("select needs cells or rect")
	}
	var check []terrain.Coord
	for _, c := range st.Cells {
		check = append(check, terrain.Coord{X: c[0], Y: c[1]})
	}
	if r := st.Rect; r != nil {
		check = append(check, terrain.Coord{X: r[0], Y: r[1]}, terrain.Coord{X: r[2], Y: r[3]})
	}
	for _, c := range check {
		if c.X < 0 || c.Y < 0 || c.X >= ed.cells || c.Y >= ed.cells {
			return fmt.Errorf("cell (%d, %d) outside %dx%d cells", c.X, c.Y, ed.cells, ed.cells)
		}
	}

	if !st.Append {
		ed.ClearSelection()
	}
	for _, c := range st.Cells {
		ed.Mark(c[0], c[1])
	}
	if r := st.Rect; r != nil {
		ed.MarkRect(r[0], r[1], r[2], r[3])
	}
	return nil
}
