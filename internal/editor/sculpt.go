package editor

import (
	"math"

	"go.uber.org/zap"

	"github.com/Faultbox/rangeforge/internal/engine/terrain"
)

// Lift raises every corner of the selection by delta, placing control points
// with the current brush. A corner that already owns a point is lifted from the
// point's height, otherwise from the terrain height.
func (ed *Editor) Lift(delta float32) {
	corners := ed.corners()
	for _, c := range corners {
		ed.liftPoint(c.X, c.Y, delta)
	}
	ed.log.Debug("lifted selection",
		zap.Int("corners", len(corners)),
		zap.Float32("delta", delta))
}

// Tilt rotates the selection about its centre: xDeg slopes it along X and yDeg
// along Y. Corners on the negative side of the centre rise for positive angles.
func (ed *Editor) Tilt(xDeg, yDeg float32) {
	center := ed.Center()
	res := float64(ed.eng.Resolution())
	tanX := math.Tan(float64(xDeg) * math.Pi / 180)
	tanY := math.Tan(float64(yDeg) * math.Pi / 180)

	corners := ed.corners()
	for _, c := range corners {
		dx := float64(center.X()) - float64(c.X)
		dy := float64(center.Y()) - float64(c.Y)
		ed.liftPoint(c.X, c.Y, float32(dx*res*tanX+dy*res*tanY))
	}
	ed.log.Debug("tilted selection",
		zap.Int("corners", len(corners)),
		zap.Float32("x_deg", xDeg),
		zap.Float32("y_deg", yDeg))
}

// Flatten sets every corner of the selection to height h.
func (ed *Editor) Flatten(h float32) {
	corners := ed.corners()
	for _, c := range corners {
		ed.eng.SetControlPoint(c.X, c.Y, h, ed.Brush.Spread, ed.Brush.Falloff)
	}
	ed.log.Debug("flattened selection",
		zap.Int("corners", len(corners)),
		zap.Float32("height", h))
}

// FlattenToAverage flattens the selection to its AverageHeight.
func (ed *Editor) FlattenToAverage() {
	if ed.count == 0 {
		return
	}
	ed.Flatten(ed.AverageHeight())
}

// SetSpread changes the spread of every control point on a selected corner.
func (ed *Editor) SetSpread(spread float32) {
	for _, c := range ed.corners() {
		ed.eng.SetControlPointSpread(c.X, c.Y, spread)
	}
}

// SetFalloff changes the falloff of every control point on a selected corner.
func (ed *Editor) SetFalloff(f terrain.Falloff) {
	for _, c := range ed.corners() {
		ed.eng.SetControlPointFalloff(c.X, c.Y, f)
	}
}

func (ed *Editor) liftPoint(x, y int, delta float32) {
	h := ed.eng.Height(x, y)
	if cp, ok := ed.eng.ControlPoint(x, y); ok {
		h = cp.Height
	}
	ed.eng.SetControlPoint(x, y, h+delta, ed.Brush.Spread, ed.Brush.Falloff)
}
