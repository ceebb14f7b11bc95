// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package viewport

import (
	"math"

	"github.com/MKhiriev/sticky-chain/models"
)

const (
	ZoomMin = 0.1
	ZoomMax = 3.0

	// Epsilon bounds the error of a screen/world round trip.
	Epsilon = 1e-9
)

// Identity returns the viewport every session starts with.
func Identity() models.Viewport {
	return models.Viewport{Zoom: 1}
}

// WorldFromScreen maps a screen point into world space.
func WorldFromScreen(p models.Point, v models.Viewport) models.Point {
	z := sanitizeZoom(v.Zoom)
	return models.Point{
		X: (p.X - v.Offset.X) / z,
		Y: (p.Y - v.Offset.Y) / z,
	}
}

// ScreenFromWorld maps a world point into screen space.
func ScreenFromWorld(p models.Point, v models.Viewport) models.Point {
	z := sanitizeZoom(v.Zoom)
	return models.Point{
		X: p.X*z + v.Offset.X,
		Y: p.Y*z + v.Offset.Y,
	}
}

// ApplyZoom multiplies the zoom by factor, clamped to [ZoomMin, ZoomMax],
// and moves the offset so the world point under anchor stays under anchor.
// A non-positive or non-finite factor leaves v unchanged.
func ApplyZoom(v models.Viewport, anchor models.Point, factor float64) models.Viewport {
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return v
	}

	world := WorldFromScreen(anchor, v)
	zoom := Clamp(sanitizeZoom(v.Zoom) * factor)

	return models.Viewport{
		Zoom: zoom,
		Offset: models.Point{
			X: anchor.X - world.X*zoom,
			Y: anchor.Y - world.Y*zoom,
		},
	}
}

// ApplyPan translates the viewport by delta screen units. Panning is unbounded.
func ApplyPan(v models.Viewport, delta models.Point) models.Viewport {
	v.Offset = v.Offset.Add(delta)
	v.Zoom = sanitizeZoom(v.Zoom)
	return v
}

// Clamp limits zoom to the supported range.
func Clamp(zoom float64) float64 {
	return math.Max(ZoomMin, math.Min(ZoomMax, zoom))
}

// Close reports whether a and b are equal within Epsilon on both axes.
func Close(a, b models.Point) bool {
	return math.Abs(a.X-b.X) <= Epsilon && math.Abs(a.Y-b.Y) <= Epsilon
}

// zero value viewports are treated as identity so callers never divide by zero
func sanitizeZoom(z float64) float64 {
	if z <= 0 || math.IsNaN(z) || math.IsInf(z, 0) {
		return 1
	}
	return z
}
