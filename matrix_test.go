package maskedit

import (
	"math"
	"testing"
)

func TestMatrixIdentity(t *testing.T) {
	m := Identity()
	if !m.IsIdentity() {
		t.Error("Identity() should be the identity matrix")
	}

	p := m.TransformPoint(Pt(3, 4))
	if p.X != 3 || p.Y != 4 {
		t.Errorf("identity transform changed point: %v", p)
	}
}

func TestMatrixTranslateScale(t *testing.T) {
	// screen = image*scale + translate
	m := Translate(10, 20).Multiply(Scale(2))
	p := m.TransformPoint(Pt(5, 5))
	if p.X != 20 || p.Y != 30 {
		t.Errorf("expected (20,30), got (%g,%g)", p.X, p.Y)
	}
}

func TestMatrixInvertRoundTrip(t *testing.T) {
	m := Translate(17, -4).Multiply(Scale(3.5))
	inv := m.Invert()

	orig := Pt(12.25, 7.5)
	back := inv.TransformPoint(m.TransformPoint(orig))
	if math.Abs(back.X-orig.X) > 1e-9 || math.Abs(back.Y-orig.Y) > 1e-9 {
		t.Errorf("invert round trip drifted: got (%g,%g)", back.X, back.Y)
	}
}

func TestMatrixInvertSingular(t *testing.T) {
	m := Matrix{} // zero matrix is not invertible
	if !m.Invert().IsIdentity() {
		t.Error("singular matrix should invert to identity")
	}
}

func TestPointHelpers(t *testing.T) {
	if d := Pt(0, 0).Distance(Pt(3, 4)); d != 5 {
		t.Errorf("expected distance 5, got %g", d)
	}
	mid := Pt(0, 0).Lerp(Pt(10, 20), 0.5)
	if mid.X != 5 || mid.Y != 10 {
		t.Errorf("expected (5,10), got %v", mid)
	}
}
