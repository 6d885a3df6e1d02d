package maskedit

import (
	"bytes"
	"image/png"
)

// Metadata is the record accompanying an exported mask payload.
type Metadata struct {
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	TotalPixels    int     `json:"totalPixels"`
	MaskedPixels   int     `json:"maskedPixels"`
	MaskPercentage float64 `json:"maskPercentage"`

	// IsBinary records whether the binary invariant held when export
	// validated the buffer. The payload itself is always binary: a false
	// value means EnforceBinary had to correct pixels, which indicates an
	// upstream stamping bug and is logged as a fault.
	IsBinary bool `json:"isBinary"`
}

// ExportResult is an encoded mask payload plus its metadata.
type ExportResult struct {
	PNG      []byte
	Metadata Metadata
}

// ExportPNG encodes the mask as a lossless 8-bit grayscale PNG at the
// exact source-image resolution, independent of the current zoom/pan
// transform.
//
// Pixel-value convention (luminance): white (255) marks editable/masked
// regions, black (0) marks protected regions. The upload step consuming
// these payloads expects exactly this mapping.
//
// The binary invariant is validated first; a violation is auto-corrected
// via EnforceBinary and surfaced as a fault diagnostic, never as a failed
// export.
func (e *Editor) ExportPNG() (*ExportResult, error) {
	if e.mask == nil {
		return nil, ErrNotLoaded
	}

	isBinary := e.mask.IsBinary()
	if !isBinary {
		corrected := e.mask.EnforceBinary()
		Logger().Error("maskedit: binary invariant violated before export",
			"corrected", corrected)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, e.mask.ToGray()); err != nil {
		return nil, err
	}

	total := e.mask.Width() * e.mask.Height()
	masked := e.mask.MaskedPixels()
	pct := 0.0
	if total > 0 {
		pct = float64(masked) / float64(total) * 100
	}

	return &ExportResult{
		PNG: buf.Bytes(),
		Metadata: Metadata{
			Width:          e.mask.Width(),
			Height:         e.mask.Height(),
			TotalPixels:    total,
			MaskedPixels:   masked,
			MaskPercentage: pct,
			IsBinary:       isBinary,
		},
	}, nil
}
