// Package config handles rangeforge configuration loading and management.
package config

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/rangeforge/internal/engine/terrain"
)

// Config holds all rangeforge settings.
type Config struct {
	Terrain TerrainConfig       `yaml:"terrain"`
	Noise   terrain.NoiseParams `yaml:"noise"`
	Brush   BrushConfig         `yaml:"brush"`
	Palette PaletteConfig       `yaml:"palette"`
	Logging LoggingConfig       `yaml:"logging"`
}

// TerrainConfig holds grid dimensions.
type TerrainConfig struct {
	Width   int     `yaml:"width"`    // Grid points along X
	Depth   int     `yaml:"depth"`    // Grid points along Y
	GridRes float32 `yaml:"grid_res"` // World units between grid points
}

// BrushConfig holds the spread and falloff new control points get.
type BrushConfig struct {
	Spread  float32         `yaml:"spread"`
	Falloff terrain.Falloff `yaml:"falloff"`
}

// PaletteConfig holds the height colour ramp.
type PaletteConfig struct {
	MinHeight float32      `yaml:"min_height"`
	MaxHeight float32      `yaml:"max_height"`
	Colors    [][4]float32 `yaml:"colors"` // Exactly terrain.PaletteLevels RGBA entries
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	tc := terrain.DefaultConfig()
	colors := make([][4]float32, terrain.PaletteLevels)
	for i, c := range tc.Palette.Colors {
		colors[i] = c
	}
	return &Config{
		Terrain: TerrainConfig{
			Width:   tc.Width,
			Depth:   tc.Depth,
			GridRes: tc.Resolution,
		},
		Noise: terrain.NoiseParams{
			Kind:        terrain.NoisePerlin,
			Persistence: 0.3,
			Frequency:   0.05,
			Amplitude:   15,
			Octaves:     10,
			Seed:        1,
		},
		Brush: BrushConfig{
			Spread:  5,
			Falloff: terrain.FalloffLinear,
		},
		Palette: PaletteConfig{
			MinHeight: tc.Palette.MinHeight,
			MaxHeight: tc.Palette.MaxHeight,
			Colors:    colors,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks the settings the engine would otherwise reject with a panic.
func (c *Config) Validate() error {
	t := c.Terrain
	if t.Width != t.Depth {
		return fmt.Errorf("terrain must be square, got %dx%d", t.Width, t.Depth)
	}
	if t.Width < 2 {
		return fmt.Errorf("terrain needs at least 2 points per side, got %d", t.Width)
	}
	if t.GridRes <= 0 {
		return fmt.Errorf("grid_res must be positive, got %v", t.GridRes)
	}
	if err := c.validateNoise(); err != nil {
		return fmt.Errorf("noise: %w", err)
	}
	if err := c.validatePalette(); err != nil {
		return fmt.Errorf("palette: %w", err)
	}
	if c.Brush.Spread < 0 {
		return fmt.Errorf("brush spread must not be negative, got %v", c.Brush.Spread)
	}
	return nil
}

func (c *Config) validateNoise() error {
	n := c.Noise
	if n.Octaves < 0 {
		return fmt.Errorf("octaves must not be negative, got %d", n.Octaves)
	}
	if n.Frequency < 0 {
		return fmt.Errorf("frequency must not be negative, got %v", n.Frequency)
	}
	return nil
}

func (c *Config) validatePalette() error {
	p := c.Palette
	if n := len(p.Colors); n != terrain.PaletteLevels {
		return fmt.Errorf("needs %d colors, got %d", terrain.PaletteLevels, n)
	}
	if p.MaxHeight <= p.MinHeight {
		return fmt.Errorf("max_height %v must be above min_height %v", p.MaxHeight, p.MinHeight)
	}
	return nil
}

// TerrainConfig converts the terrain and palette sections into an engine
// configuration. Call Validate first.
func (c *Config) TerrainConfig() terrain.Config {
	p := terrain.Palette{
		MinHeight: c.Palette.MinHeight,
		MaxHeight: c.Palette.MaxHeight,
	}
	for i := range min(len(c.Palette.Colors), terrain.PaletteLevels) {
		p.Colors[i] = mgl32.Vec4(c.Palette.Colors[i])
	}
	return terrain.Config{
		Width:      c.Terrain.Width,
		Depth:      c.Terrain.Depth,
		Resolution: c.Terrain.GridRes,
		Palette:    p,
	}
}
