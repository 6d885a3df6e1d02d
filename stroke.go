package maskedit

import "time"

// Mode selects what a brush stamp writes into the mask.
type Mode uint8

const (
	// Paint marks pixels as Masked (editable by the inpainting step).
	Paint Mode = iota

	// Erase returns pixels to Protected.
	Erase
)

// Value returns the byte written into the mask by this mode.
func (m Mode) Value() uint8 {
	if m == Erase {
		return Protected
	}
	return Masked
}

// String returns the mode name.
func (m Mode) String() string {
	if m == Erase {
		return "erase"
	}
	return "paint"
}

// Stroke is one continuous pointer-down-to-pointer-up drawing gesture:
// an ordered sequence of image-space sample points plus the brush
// configuration it was drawn with.
//
// While a stroke is active it is owned exclusively by the coordinator and
// not observable outside it; EndStroke hands out the finalized record.
type Stroke struct {
	// Points are the recorded image-space sample points, in order.
	Points []Point

	// Size is the brush diameter in pixels.
	Size int

	// Mode is the paint/erase mode of the gesture.
	Mode Mode

	// StartedAt and EndedAt bracket the gesture in wall-clock time.
	StartedAt time.Time
	EndedAt   time.Time
}

// Last returns the most recent sample point.
// The zero Point is returned for an empty stroke, which cannot occur for
// strokes produced by the brush engine (Start always records a point).
func (s *Stroke) Last() Point {
	if len(s.Points) == 0 {
		return Point{}
	}
	return s.Points[len(s.Points)-1]
}

// Append records one more sample point.
func (s *Stroke) Append(p Point) {
	s.Points = append(s.Points, p)
}
