package maskedit

import "math"

// Default zoom limits. Overridable per viewport via Editor options.
const (
	DefaultMinZoom = 0.1
	DefaultMaxZoom = 10.0
)

// Transform describes the affine map from image space to screen space:
//
//	screen = image*Scale + (TX, TY)
//
// Scale is always uniform; the editor never rotates or shears the view.
type Transform struct {
	Scale float64
	TX    float64
	TY    float64
}

// Matrix returns the transform as an affine matrix.
func (t Transform) Matrix() Matrix {
	return Translate(t.TX, t.TY).Multiply(Scale(t.Scale))
}

// Viewport owns the image-to-screen transform for one editing session:
// the current zoom/pan state, the container the mask is displayed in and
// the conversions between the two coordinate spaces.
//
// Viewport is not safe for concurrent use; it is owned by the editing loop.
type Viewport struct {
	t        Transform
	minZoom  float64
	maxZoom  float64
	cw, ch   float64 // container size in screen pixels
	iw, ih   int     // image size in pixels
	onChange func(Transform)
}

// NewViewport creates a viewport with the default zoom range and an
// identity transform.
func NewViewport() *Viewport {
	return &Viewport{
		t:       Transform{Scale: 1},
		minZoom: DefaultMinZoom,
		maxZoom: DefaultMaxZoom,
	}
}

// SetZoomRange sets the allowed scale range. The current scale is clamped
// into the new range immediately.
func (v *Viewport) SetZoomRange(minZoom, maxZoom float64) {
	if minZoom <= 0 || maxZoom < minZoom {
		return
	}
	v.minZoom = minZoom
	v.maxZoom = maxZoom
	v.SetScale(v.t.Scale)
}

// SetContainerSize sets the screen-space size of the rendered container.
func (v *Viewport) SetContainerSize(w, h float64) {
	v.cw, v.ch = w, h
}

// SetImageSize sets the pixel dimensions of the displayed mask.
func (v *Viewport) SetImageSize(w, h int) {
	v.iw, v.ih = w, h
}

// Transform returns the current transform.
func (v *Viewport) Transform() Transform { return v.t }

// OnChange registers an observer invoked after every transform mutation.
// The cursor overlay and the redraw path hang off this hook.
// Only one observer is supported; a later call replaces the earlier one.
func (v *Viewport) OnChange(fn func(Transform)) {
	v.onChange = fn
}

// SetScale sets the zoom scale, clamped into the configured range.
func (v *Viewport) SetScale(scale float64) {
	v.t.Scale = clampFloat(scale, v.minZoom, v.maxZoom)
	v.notify()
}

// SetTranslation sets the pan offset in screen pixels.
func (v *Viewport) SetTranslation(tx, ty float64) {
	v.t.TX, v.t.TY = tx, ty
	v.notify()
}

// SetTransform replaces the whole transform, clamping scale into range.
func (v *Viewport) SetTransform(t Transform) {
	v.t.TX, v.t.TY = t.TX, t.TY
	v.SetScale(t.Scale)
}

// Pan shifts the view by (dx, dy) screen pixels.
func (v *Viewport) Pan(dx, dy float64) {
	v.SetTranslation(v.t.TX+dx, v.t.TY+dy)
}

// ZoomAt scales the view by factor while keeping the screen point (sx, sy)
// anchored to the same image point.
func (v *Viewport) ZoomAt(sx, sy, factor float64) {
	oldScale := v.t.Scale
	newScale := clampFloat(oldScale*factor, v.minZoom, v.maxZoom)
	if newScale == oldScale {
		return
	}
	ratio := newScale / oldScale
	v.t.TX = sx - (sx-v.t.TX)*ratio
	v.t.TY = sy - (sy-v.t.TY)*ratio
	v.t.Scale = newScale
	v.notify()
}

// FitContain computes the baseline transform: a uniform scale so the whole
// image fits inside the container with letterbox padding on the shorter
// axis, centered. The contain scale is allowed to fall outside the zoom
// range; the range only constrains user zoom applied afterwards.
func (v *Viewport) FitContain() {
	if v.cw <= 0 || v.ch <= 0 || v.iw <= 0 || v.ih <= 0 {
		return
	}
	scale := math.Min(v.cw/float64(v.iw), v.ch/float64(v.ih))
	v.t = Transform{
		Scale: scale,
		TX:    (v.cw - float64(v.iw)*scale) / 2,
		TY:    (v.ch - float64(v.ih)*scale) / 2,
	}
	v.notify()
}

// ScreenToImage inverse-maps a screen point to integer image coordinates,
// flooring so hit-testing is deterministic. ok is false when the point lies
// outside the container box or when the mapped pixel falls outside the
// image bounds; both cases are "no target", not errors.
func (v *Viewport) ScreenToImage(sx, sy float64) (x, y int, ok bool) {
	if sx < 0 || sy < 0 || sx >= v.cw || sy >= v.ch {
		return 0, 0, false
	}
	p := v.t.Matrix().Invert().TransformPoint(Pt(sx, sy))
	x = int(math.Floor(p.X))
	y = int(math.Floor(p.Y))
	if x < 0 || x >= v.iw || y < 0 || y >= v.ih {
		return 0, 0, false
	}
	return x, y, true
}

// ImageToScreen forward-maps integer image coordinates to screen space.
// Round-tripping with ScreenToImage agrees within one image pixel due to
// integer flooring.
func (v *Viewport) ImageToScreen(x, y int) (sx, sy float64) {
	p := v.t.Matrix().TransformPoint(Pt(float64(x), float64(y)))
	return p.X, p.Y
}

func (v *Viewport) notify() {
	if v.onChange != nil {
		v.onChange(v.t)
	}
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
