package terrain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
)

// ErrUnknownNoiseKind is returned when a noise kind name cannot be parsed.
var ErrUnknownNoiseKind = errors.New("unknown noise kind")

// NoiseKind selects the gradient noise generator behind a NoiseField.
type NoiseKind uint8

// Noise kinds.
const (
	NoisePerlin NoiseKind = iota
	NoiseSimplex
)

// String returns the kind name used in config files.
func (k NoiseKind) String() string {
	switch k {
	case NoisePerlin:
		return "perlin"
	case NoiseSimplex:
		return "simplex"
	default:
		return fmt.Sprintf("NoiseKind(%d)", k)
	}
}

// ParseNoiseKind converts "perlin" or "simplex" to a NoiseKind.
func ParseNoiseKind(s string) (NoiseKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "perlin", "":
		return NoisePerlin, nil
	case "simplex", "opensimplex":
		return NoiseSimplex, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownNoiseKind, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k NoiseKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *NoiseKind) UnmarshalText(text []byte) error {
	parsed, err := ParseNoiseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// NoiseParams are the five noise parameters plus the generator kind.
type NoiseParams struct {
	Kind        NoiseKind `yaml:"kind"`
	Persistence float64   `yaml:"persistence"` // Amplitude factor between octaves
	Frequency   float64   `yaml:"frequency"`   // Base frequency in cycles per grid point
	Amplitude   float64   `yaml:"amplitude"`   // Output scale in world units
	Octaves     int       `yaml:"octaves"`
	Seed        int64     `yaml:"seed"`
}

// Flat reports whether the parameters describe an all-zero field.
func (p NoiseParams) Flat() bool {
	return p.Octaves <= 0 || p.Amplitude == 0
}

type sampler interface {
	sample(x, y float64) float64
}

func newSampler(p NoiseParams) sampler {
	switch p.Kind {
	case NoiseSimplex:
		return simplexSampler{
			noise:       opensimplex.New(p.Seed),
			persistence: p.Persistence,
			octaves:     p.Octaves,
		}
	default:
		// go-perlin divides each octave by alpha, so alpha is 1/persistence.
		// Without persistence only the base octave contributes.
		alpha, octaves := 1.0, 1
		if p.Persistence > 0 {
			alpha, octaves = 1/p.Persistence, p.Octaves
		}
		return perlinSampler{perlin.NewPerlin(alpha, 2, int32(octaves), p.Seed)}
	}
}

type perlinSampler struct {
	p *perlin.Perlin
}

func (s perlinSampler) sample(x, y float64) float64 {
	return s.p.Noise2D(x, y)
}

type simplexSampler struct {
	noise       opensimplex.Noise
	persistence float64
	octaves     int
}

func (s simplexSampler) sample(x, y float64) float64 {
	var sum float64
	amp, freq := 1.0, 1.0
	for range s.octaves {
		sum += s.noise.Eval2(x*freq, y*freq) * amp
		amp *= s.persistence
		freq *= 2
	}
	return sum
}

// NoiseField is a dense size x size grid of height perturbations. It is zero
// until Generate is called and independent of control points.
type NoiseField struct {
	size   int
	values []float32
	params NoiseParams
}

// NewNoiseField creates a flat field.
func NewNoiseField(size int) *NoiseField {
	return &NoiseField{
		size:   size,
		values: make([]float32, size*size),
	}
}

// Generate replaces every value with noise sampled from p.
func (n *NoiseField) Generate(p NoiseParams) {
	n.params = p
	if p.Flat() {
		clear(n.values)
		return
	}
	s := newSampler(p)
	for y := range n.size {
		for x := range n.size {
			v := s.sample(float64(x)*p.Frequency, float64(y)*p.Frequency) * p.Amplitude
			n.values[y*n.size+x] = float32(v)
		}
	}
}

// Flatten zeroes the field.
func (n *NoiseField) Flatten() {
	clear(n.values)
	n.params = NoiseParams{}
}

// At returns the perturbation at grid point (x, y).
func (n *NoiseField) At(x, y int) float32 {
	return n.values[y*n.size+x]
}

// Params returns the parameters of the last Generate call.
func (n *NoiseField) Params() NoiseParams {
	return n.params
}
