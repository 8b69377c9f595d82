package terrain

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrUnknownFalloff is returned when a falloff name cannot be parsed.
var ErrUnknownFalloff = errors.New("unknown falloff")

// Falloff selects how a control point's lift decays with distance.
type Falloff uint8

// Falloff kinds.
const (
	FalloffLinear Falloff = iota // h * (1 - d/s)
	FalloffCosine                // h * cos(d*pi / 2s)
	FalloffSine                  // h * (1 - sin(d*pi / 2s))
)

// String returns the falloff name used in config files.
func (f Falloff) String() string {
	switch f {
	case FalloffLinear:
		return "linear"
	case FalloffCosine:
		return "cosine"
	case FalloffSine:
		return "sine"
	default:
		return fmt.Sprintf("Falloff(%d)", f)
	}
}

// ParseFalloff converts a name ("linear", "cos", "sine", ...) to a Falloff.
func ParseFalloff(s string) (Falloff, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "linear", "lin":
		return FalloffLinear, nil
	case "cosine", "cos":
		return FalloffCosine, nil
	case "sine", "sin":
		return FalloffSine, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFalloff, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (f Falloff) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Falloff) UnmarshalText(text []byte) error {
	parsed, err := ParseFalloff(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// shape evaluates the normalised falloff for t = d/s in [0, 1).
func (f Falloff) shape(t float64) float64 {
	switch f {
	case FalloffLinear:
		return 1 - t
	case FalloffCosine:
		return math.Cos(t * math.Pi / 2)
	case FalloffSine:
		return 1 - math.Sin(t*math.Pi/2)
	default:
		panic(fmt.Sprintf("terrain: unknown falloff %d", f))
	}
}

// rank orders falloffs by the lift they produce at equal distance:
// sine <= linear <= cosine everywhere on [0, 1].
func (f Falloff) rank() int {
	switch f {
	case FalloffSine:
		return 0
	case FalloffLinear:
		return 1
	case FalloffCosine:
		return 2
	default:
		panic(fmt.Sprintf("terrain: unknown falloff %d", f))
	}
}

// ControlPoint is a height target at a grid point with a radius of influence.
type ControlPoint struct {
	X, Y    int
	Height  float32 // Target height at (X, Y)
	Spread  float32 // Radius of influence in world units
	Falloff Falloff
}

// Lift returns the height this point contributes at grid point (x, y), with res
// world units between grid points. Zero at or beyond Spread.
func (cp ControlPoint) Lift(x, y int, res float32) float32 {
	dx := float64(x - cp.X)
	dy := float64(y - cp.Y)
	d := math.Hypot(dx, dy) * float64(res)
	if d == 0 {
		return cp.Height
	}
	s := float64(cp.Spread)
	if d >= s {
		return 0
	}
	return float32(float64(cp.Height) * cp.Falloff.shape(d/s))
}

// reach returns the bounding box of grid points the lift can touch, clipped to
// a size x size grid.
func (cp ControlPoint) reach(res float32, size int) (minX, minY, maxX, maxY int) {
	r := float64(cp.Spread / res)
	minX = max(int(math.Floor(float64(cp.X)-r)), 0)
	minY = max(int(math.Floor(float64(cp.Y)-r)), 0)
	maxX = min(int(math.Ceil(float64(cp.X)+r)), size-1)
	maxY = min(int(math.Ceil(float64(cp.Y)+r)), size-1)
	return minX, minY, maxX, maxY
}

// covers reports whether cp lifts every grid point at least as far from zero as
// old does, with the same sign. Replacing old with such a point can only raise
// magnitudes, which the incremental height pass handles.
func (cp ControlPoint) covers(old ControlPoint) bool {
	if cp.Height*old.Height < 0 {
		return false
	}
	return absf(cp.Height) >= absf(old.Height) &&
		cp.Spread >= old.Spread &&
		cp.Falloff.rank() >= old.Falloff.rank()
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
