package maskedit

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"testing"
)

func TestExportPNGResolutionIndependentOfZoom(t *testing.T) {
	e := newLoadedEditor(t, 320, 240)
	e.Viewport().SetScale(3.7)
	e.Viewport().Pan(40, -12)

	res, err := e.ExportPNG()
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(res.PNG))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 320 || b.Dy() != 240 {
		t.Errorf("exported %dx%d, want source resolution 320x240", b.Dx(), b.Dy())
	}
	if res.Metadata.Width != 320 || res.Metadata.Height != 240 {
		t.Errorf("metadata = %dx%d", res.Metadata.Width, res.Metadata.Height)
	}
}

func TestExportPNGLuminanceConvention(t *testing.T) {
	e := newLoadedEditor(t, 64, 64)
	e.StartBrushStroke(32, 32, 20, Paint)
	e.EndBrushStroke()

	res, err := e.ExportPNG()
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(res.PNG))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	gray, ok := img.(*image.Gray)
	if !ok {
		t.Fatalf("decoded %T, want 8-bit grayscale", img)
	}
	if gray.GrayAt(32, 32).Y != 255 {
		t.Error("masked pixels must export white")
	}
	if gray.GrayAt(0, 0).Y != 0 {
		t.Error("protected pixels must export black")
	}
}

func TestExportMetadata(t *testing.T) {
	e := newLoadedEditor(t, 100, 100)
	// Paint an exact region, bypassing the brush disc.
	paintRect(e.Mask(), image.Rect(0, 0, 10, 25), Masked)

	res, err := e.ExportPNG()
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	md := res.Metadata
	if md.TotalPixels != 10000 {
		t.Errorf("totalPixels = %d", md.TotalPixels)
	}
	if md.MaskedPixels != 250 {
		t.Errorf("maskedPixels = %d, want 250", md.MaskedPixels)
	}
	if md.MaskPercentage != 2.5 {
		t.Errorf("maskPercentage = %g, want 2.5", md.MaskPercentage)
	}
	if !md.IsBinary {
		t.Error("a clean mask exports with isBinary true")
	}
}

func TestExportCorrectsNonBinaryBuffer(t *testing.T) {
	e := newLoadedEditor(t, 32, 32)
	// Corrupt the buffer directly; the brush path can never produce this.
	data := e.Mask().Data()
	data[0] = 127
	data[1] = 128
	data[2] = 200

	res, err := e.ExportPNG()
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if res.Metadata.IsBinary {
		t.Error("isBinary must record the pre-correction violation")
	}
	if !e.Mask().IsBinary() {
		t.Error("export must leave the buffer corrected")
	}

	img, err := png.Decode(bytes.NewReader(res.PNG))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	gray := img.(*image.Gray)
	// 127 thresholds down, 128 and 200 threshold up.
	if gray.GrayAt(0, 0).Y != 0 || gray.GrayAt(1, 0).Y != 255 || gray.GrayAt(2, 0).Y != 255 {
		t.Errorf("thresholded pixels = %d,%d,%d",
			gray.GrayAt(0, 0).Y, gray.GrayAt(1, 0).Y, gray.GrayAt(2, 0).Y)
	}
}

func TestExportNotLoaded(t *testing.T) {
	e := NewEditor()
	if _, err := e.ExportPNG(); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("err = %v, want ErrNotLoaded", err)
	}
}
