package editor

import "github.com/go-gl/mathgl/mgl32"

// SetTee places the tee at world position (tx, ty). It panics outside the
// terrain.
func (ed *Editor) SetTee(tx, ty float32) {
	ed.checkWorld(tx, ty)
	ed.tee = marker{tx: tx, ty: ty, ok: true}
}

// SetTarget places the target at world position (tx, ty). It panics outside
// the terrain.
func (ed *Editor) SetTarget(tx, ty float32) {
	ed.checkWorld(tx, ty)
	ed.target = marker{tx: tx, ty: ty, ok: true}
}

// Tee returns the tee's position on the current surface.
func (ed *Editor) Tee() (mgl32.Vec3, bool) {
	return ed.position(ed.tee)
}

// Target returns the target's position on the current surface.
func (ed *Editor) Target() (mgl32.Vec3, bool) {
	return ed.position(ed.target)
}

// ClearMarkers removes the tee and target.
func (ed *Editor) ClearMarkers() {
	ed.tee = marker{}
	ed.target = marker{}
}

// LineOfSight reports whether a straight line from eye height above the tee to
// eye height above the target clears the terrain. It is false until both
// markers are placed.
func (ed *Editor) LineOfSight(eye float32) bool {
	tee, ok := ed.Tee()
	if !ok {
		return false
	}
	target, ok := ed.Target()
	if !ok {
		return false
	}
	up := mgl32.Vec3{0, eye, 0}
	return !ed.eng.SegmentIntersects(tee.Add(up), target.Add(up))
}

func (ed *Editor) position(m marker) (mgl32.Vec3, bool) {
	if !m.ok {
		return mgl32.Vec3{}, false
	}
	return ed.eng.WorldPosition(m.tx, m.ty), true
}

func (ed *Editor) checkWorld(tx, ty float32) {
	// WorldToGrid panics outside [0, Extent].
	ed.eng.WorldToGrid(tx)
	ed.eng.WorldToGrid(ty)
}
