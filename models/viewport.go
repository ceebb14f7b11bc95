package models

// Viewport is the process-local camera over the world canvas.
// Zoom is always strictly positive.
type Viewport struct {
	Offset Point   `json:"offset"`
	Zoom   float64 `json:"zoom"`
}

// Size is a canvas extent in screen units. A zero Size means the extent is unknown.
type Size struct {
	Width  float64
	Height float64
}

// Known reports whether the size carries real dimensions.
func (s Size) Known() bool {
	return s.Width > 0 && s.Height > 0
}

// Contains reports whether p lies inside [0,Width) x [0,Height).
func (s Size) Contains(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < s.Width && p.Y < s.Height
}
