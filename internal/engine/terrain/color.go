package terrain

import "github.com/go-gl/mathgl/mgl32"

// PaletteLevels is the number of colours in a height palette.
const PaletteLevels = 8

// Palette maps heights in [MinHeight, MaxHeight] onto an ordered set of colours.
type Palette struct {
	MinHeight float32
	MaxHeight float32
	Colors    [PaletteLevels]mgl32.Vec4
}

// DefaultPalette runs from deep water through fairway greens to snow.
func DefaultPalette() Palette {
	return Palette{
		MinHeight: -10,
		MaxHeight: 20,
		Colors: [PaletteLevels]mgl32.Vec4{
			{0.05, 0.15, 0.45, 1}, // Deep water
			{0.20, 0.45, 0.70, 1}, // Shallow water
			{0.85, 0.80, 0.55, 1}, // Sand
			{0.35, 0.65, 0.25, 1}, // Fairway
			{0.20, 0.50, 0.15, 1}, // Rough
			{0.10, 0.35, 0.10, 1}, // Trees
			{0.50, 0.45, 0.40, 1}, // Rock
			{0.95, 0.95, 0.95, 1}, // Snow
		},
	}
}

// Color returns the palette colour for height h. Heights outside the range get
// the nearest end colour; heights inside interpolate between the two
// bracketing entries.
func (p Palette) Color(h float32) mgl32.Vec4 {
	if h <= p.MinHeight || p.MaxHeight <= p.MinHeight {
		return p.Colors[0]
	}
	if h >= p.MaxHeight {
		return p.Colors[PaletteLevels-1]
	}
	f := float32(PaletteLevels-1) * (h - p.MinHeight) / (p.MaxHeight - p.MinHeight)
	i := int(f)
	if i >= PaletteLevels-1 {
		return p.Colors[PaletteLevels-1]
	}
	t := f - float32(i)
	return p.Colors[i].Mul(1 - t).Add(p.Colors[i+1].Mul(t))
}
