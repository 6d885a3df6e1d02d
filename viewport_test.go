package maskedit

import (
	"math"
	"testing"
)

func testViewport(cw, ch float64, iw, ih int) *Viewport {
	vp := NewViewport()
	vp.SetContainerSize(cw, ch)
	vp.SetImageSize(iw, ih)
	return vp
}

func TestFitContainWide(t *testing.T) {
	// 200x100 image in a 100x100 container: scale 0.5, letterbox top/bottom.
	vp := testViewport(100, 100, 200, 100)
	vp.FitContain()

	tr := vp.Transform()
	if tr.Scale != 0.5 {
		t.Errorf("expected contain scale 0.5, got %g", tr.Scale)
	}
	if tr.TX != 0 {
		t.Errorf("expected TX 0, got %g", tr.TX)
	}
	if tr.TY != 25 {
		t.Errorf("expected TY 25 (centered), got %g", tr.TY)
	}
}

func TestFitContainTall(t *testing.T) {
	vp := testViewport(100, 100, 100, 400)
	vp.FitContain()

	tr := vp.Transform()
	if tr.Scale != 0.25 {
		t.Errorf("expected contain scale 0.25, got %g", tr.Scale)
	}
	if tr.TX != 37.5 {
		t.Errorf("expected TX 37.5, got %g", tr.TX)
	}
	if tr.TY != 0 {
		t.Errorf("expected TY 0, got %g", tr.TY)
	}
}

func TestScaleClamped(t *testing.T) {
	vp := testViewport(100, 100, 100, 100)
	vp.SetZoomRange(0.5, 4)

	vp.SetScale(100)
	if vp.Transform().Scale != 4 {
		t.Errorf("expected scale clamped to 4, got %g", vp.Transform().Scale)
	}
	vp.SetScale(0.001)
	if vp.Transform().Scale != 0.5 {
		t.Errorf("expected scale clamped to 0.5, got %g", vp.Transform().Scale)
	}
}

func TestScreenToImageFloors(t *testing.T) {
	vp := testViewport(200, 200, 100, 100)
	vp.SetTransform(Transform{Scale: 2, TX: 0, TY: 0})

	x, y, ok := vp.ScreenToImage(51, 51)
	if !ok {
		t.Fatal("expected in-bounds hit")
	}
	// 51/2 = 25.5 floors to 25.
	if x != 25 || y != 25 {
		t.Errorf("expected (25,25), got (%d,%d)", x, y)
	}
}

func TestScreenToImageOutOfBounds(t *testing.T) {
	vp := testViewport(100, 100, 50, 50)
	vp.SetTransform(Transform{Scale: 1, TX: 0, TY: 0})

	cases := []struct {
		name   string
		sx, sy float64
	}{
		{"left of container", -1, 50},
		{"above container", 50, -1},
		{"right of container", 100, 50},
		{"below container", 50, 100},
		{"inside container, outside image", 75, 25},
	}
	for _, tc := range cases {
		if _, _, ok := vp.ScreenToImage(tc.sx, tc.sy); ok {
			t.Errorf("%s: expected no target for (%g,%g)", tc.name, tc.sx, tc.sy)
		}
	}

	if _, _, ok := vp.ScreenToImage(49, 49); !ok {
		t.Error("expected hit just inside the image")
	}
}

func TestRoundTripWithinOnePixel(t *testing.T) {
	vp := testViewport(300, 300, 100, 100)
	vp.SetTransform(Transform{Scale: 2.7, TX: 13, TY: 5})

	for _, p := range []Point{{20, 20}, {150.3, 99.9}, {13.01, 5.01}, {250, 230}} {
		x, y, ok := vp.ScreenToImage(p.X, p.Y)
		if !ok {
			continue
		}
		sx, sy := vp.ImageToScreen(x, y)
		// Flooring loses at most one image pixel, i.e. one scale unit
		// in screen space.
		if math.Abs(sx-p.X) > vp.Transform().Scale || math.Abs(sy-p.Y) > vp.Transform().Scale {
			t.Errorf("round trip of (%g,%g) drifted to (%g,%g)", p.X, p.Y, sx, sy)
		}
	}
}

func TestZoomAtKeepsAnchor(t *testing.T) {
	vp := testViewport(400, 400, 200, 200)
	vp.FitContain()

	ax, ay, ok := vp.ScreenToImage(150, 150)
	if !ok {
		t.Fatal("anchor should be on the image")
	}

	vp.ZoomAt(150, 150, 2)

	bx, by, ok := vp.ScreenToImage(150, 150)
	if !ok {
		t.Fatal("anchor should stay on the image")
	}
	if absInt(ax-bx) > 1 || absInt(ay-by) > 1 {
		t.Errorf("zoom anchor moved from (%d,%d) to (%d,%d)", ax, ay, bx, by)
	}
}

func TestZoomAtClampedNoop(t *testing.T) {
	vp := testViewport(100, 100, 100, 100)
	vp.SetZoomRange(1, 1)
	before := vp.Transform()
	vp.ZoomAt(50, 50, 2)
	if vp.Transform() != before {
		t.Error("fully clamped zoom should not move the view")
	}
}

func TestTransformObserver(t *testing.T) {
	vp := testViewport(100, 100, 100, 100)

	var calls int
	var last Transform
	vp.OnChange(func(tr Transform) {
		calls++
		last = tr
	})

	vp.SetScale(2)
	vp.Pan(5, 0)
	if calls != 2 {
		t.Fatalf("expected 2 notifications, got %d", calls)
	}
	if last.Scale != 2 || last.TX != 5 {
		t.Errorf("unexpected last transform %+v", last)
	}
}

func TestPan(t *testing.T) {
	vp := testViewport(100, 100, 100, 100)
	vp.Pan(10, -4)
	vp.Pan(1, 1)
	tr := vp.Transform()
	if tr.TX != 11 || tr.TY != -3 {
		t.Errorf("expected translation (11,-3), got (%g,%g)", tr.TX, tr.TY)
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
