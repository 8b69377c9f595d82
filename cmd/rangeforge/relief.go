package main

import (
	"strings"

	"github.com/Faultbox/rangeforge/internal/engine/terrain"
)

// reliefRamp runs from the lowest to the highest height.
const reliefRamp = " .:-=+*#%@"

type stats struct {
	min, max, mean float32
}

func heightStats(h *terrain.HeightField) stats {
	lo, hi := h.MinMax()
	n := h.Size()
	var sum float64
	for y := range n {
		for x := range n {
			sum += float64(h.At(x, y))
		}
	}
	return stats{min: lo, max: hi, mean: float32(sum / float64(n*n))}
}

// renderRelief draws the height field as text, at most width characters wide,
// with +Y (north) at the top.
func renderRelief(h *terrain.HeightField, width int) string {
	n := h.Size()
	step := max(1, (n+width-1)/max(width, 1))
	lo, hi := h.MinMax()
	span := hi - lo

	var b strings.Builder
	for y := n - 1; y >= 0; y -= step {
		for x := 0; x < n; x += step {
			i := 0
			if span > 0 {
				i = int((h.At(x, y) - lo) / span * float32(len(reliefRamp)-1))
			}
			b.WriteByte(reliefRamp[i])
		}
		b.WriteByte('\n')
	}
	return b.String()
}
