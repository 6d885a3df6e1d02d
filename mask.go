package maskedit

import "image"

// Masked and Protected are the only two values a committed mask pixel may
// hold. Masked regions are editable by the downstream inpainting step,
// protected regions are preserved.
const (
	Protected uint8 = 0
	Masked    uint8 = 255
)

// binaryThreshold is the cutoff used by EnforceBinary: values above it are
// promoted to Masked, values at or below it drop to Protected.
const binaryThreshold = 127

// Mask is a dense single-channel byte buffer of width*height pixels in
// row-major order. After any committed operation every value is exactly
// Protected (0) or Masked (255); intermediate values may only exist inside
// an uncommitted stamp computation.
//
// A Mask has exactly one writer, the Editor that owns it. Width and height
// are fixed at allocation; the buffer identity may change when history
// restores a checkpoint (swap, not in-place patch).
type Mask struct {
	width  int
	height int
	data   []uint8
}

// NewMask creates a new mask with the given dimensions.
// All values are initialized to Protected (fully unmasked).
func NewMask(width, height int) *Mask {
	return &Mask{
		width:  width,
		height: height,
		data:   make([]uint8, width*height),
	}
}

// Bounds returns the mask dimensions as an image.Rectangle.
func (m *Mask) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.width, m.height)
}

// Width returns the mask width.
func (m *Mask) Width() int { return m.width }

// Height returns the mask height.
func (m *Mask) Height() int { return m.height }

// At returns the mask value at (x, y).
// Returns Protected for coordinates outside the mask bounds.
func (m *Mask) At(x, y int) uint8 {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return Protected
	}
	return m.data[y*m.width+x]
}

// Set sets the mask value at (x, y).
// Coordinates outside the mask bounds are ignored.
func (m *Mask) Set(x, y int, value uint8) {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return
	}
	m.data[y*m.width+x] = value
}

// Fill fills the entire mask with a value.
func (m *Mask) Fill(value uint8) {
	for i := range m.data {
		m.data[i] = value
	}
}

// Invert flips every pixel between Masked and Protected.
func (m *Mask) Invert() {
	for i := range m.data {
		m.data[i] = 255 - m.data[i]
	}
}

// Clear clears the mask (sets all values to Protected).
func (m *Mask) Clear() {
	clear(m.data)
}

// Clone creates a copy of the mask.
func (m *Mask) Clone() *Mask {
	c := NewMask(m.width, m.height)
	copy(c.data, m.data)
	return c
}

// Data returns the underlying mask data slice.
// The history manager diffs and restores through this handle.
func (m *Mask) Data() []uint8 {
	return m.data
}

// setData swaps in a new backing buffer. Used by checkpoint restoration;
// the slice length must equal width*height.
func (m *Mask) setData(data []uint8) {
	m.data = data
}

// IsBinary reports whether every pixel is exactly Protected or Masked.
func (m *Mask) IsBinary() bool {
	for _, v := range m.data {
		if v != Protected && v != Masked {
			return false
		}
	}
	return true
}

// EnforceBinary thresholds the mask in place (<=127 becomes Protected,
// >127 becomes Masked) and returns the number of corrected pixels.
//
// This never triggers in correct operation; a non-zero return indicates an
// upstream stamping bug and is logged as a fault by the export path.
func (m *Mask) EnforceBinary() int {
	corrected := 0
	for i, v := range m.data {
		if v == Protected || v == Masked {
			continue
		}
		if v > binaryThreshold {
			m.data[i] = Masked
		} else {
			m.data[i] = Protected
		}
		corrected++
	}
	return corrected
}

// MaskedPixels returns the number of pixels currently set to Masked.
func (m *Mask) MaskedPixels() int {
	n := 0
	for _, v := range m.data {
		if v == Masked {
			n++
		}
	}
	return n
}

// ToGray wraps the mask in an image.Gray sharing the same backing buffer.
// Mutating the mask mutates the returned image and vice versa.
func (m *Mask) ToGray() *image.Gray {
	return &image.Gray{
		Pix:    m.data,
		Stride: m.width,
		Rect:   m.Bounds(),
	}
}
