package maskedit

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Display colors. The mask is shown as a translucent tint over the
// backdrop so the underlying image stays readable while painting.
var (
	viewBackdrop = color.NRGBA{R: 32, G: 32, B: 36, A: 255}
	paintTint    = color.NRGBA{R: 235, G: 64, B: 52, A: 120}
	cursorPaint  = color.NRGBA{R: 235, G: 64, B: 52, A: 255}
	cursorErase  = color.NRGBA{R: 82, G: 170, B: 255, A: 255}
)

// RenderView renders the mask (tinted, over the optional base image)
// through the viewport transform into a screen-sized RGBA frame.
//
// Scaling uses nearest-neighbor resampling so mask pixels stay hard-edged
// at any zoom; smoothing would manufacture intermediate values that do not
// exist in the buffer.
func RenderView(m *Mask, base image.Image, vp *Viewport, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(viewBackdrop), image.Point{}, draw.Src)
	if m == nil {
		return dst
	}

	t := vp.Transform()
	aff := f64.Aff3{
		t.Scale, 0, t.TX,
		0, t.Scale, t.TY,
	}

	if base != nil {
		draw.NearestNeighbor.Transform(dst, aff, base, base.Bounds(), draw.Src, nil)
	}
	tint := maskTint(m)
	draw.NearestNeighbor.Transform(dst, aff, tint, tint.Bounds(), draw.Over, nil)

	return dst
}

// maskTint expands the single-channel mask into a translucent color layer:
// masked pixels carry the paint tint, protected pixels stay transparent.
func maskTint(m *Mask) *image.NRGBA {
	out := image.NewNRGBA(m.Bounds())
	data := m.Data()
	for i, v := range data {
		if v != Masked {
			continue
		}
		o := i * 4
		out.Pix[o+0] = paintTint.R
		out.Pix[o+1] = paintTint.G
		out.Pix[o+2] = paintTint.B
		out.Pix[o+3] = paintTint.A
	}
	return out
}

// RenderPreview renders the full editing view: the transformed mask over
// its backdrop plus the brush cursor ring at its screen position. The ring
// color follows the tool mode so paint and erase are visually distinct.
func RenderPreview(m *Mask, base image.Image, vp *Viewport, cursor CursorState, w, h int) image.Image {
	frame := RenderView(m, base, vp, w, h)
	if !cursor.Visible {
		return frame
	}

	dc := gg.NewContextForRGBA(frame)
	ring := cursorPaint
	if cursor.Mode == Erase {
		ring = cursorErase
	}

	r := cursor.Diameter / 2
	if r < 1 {
		r = 1
	}
	dc.SetColor(color.NRGBA{R: 0, G: 0, B: 0, A: 160})
	dc.SetLineWidth(3)
	dc.DrawCircle(cursor.SX, cursor.SY, r)
	dc.Stroke()
	dc.SetColor(ring)
	dc.SetLineWidth(1.5)
	dc.DrawCircle(cursor.SX, cursor.SY, r)
	dc.Stroke()

	return dc.Image()
}
