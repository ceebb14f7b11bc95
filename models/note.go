// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"strings"
	"time"
)

// Point is a 2-D coordinate. Depending on context it is either a screen
// position (input device space) or a world position (canvas space).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by d.
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// Sub returns p - d.
func (p Point) Sub(d Point) Point {
	return Point{X: p.X - d.X, Y: p.Y - d.Y}
}

// Color is a note color from the closed board palette.
type Color string

const (
	ColorYellow Color = "yellow"
	ColorPink   Color = "pink"
	ColorBlue   Color = "blue"
	ColorGreen  Color = "green"
	ColorPurple Color = "purple"
)

// DefaultColor is used by the composer and for remote notes with an unknown color.
const DefaultColor = ColorYellow

// Palette lists the supported colors in display order.
var Palette = []Color{ColorYellow, ColorPink, ColorBlue, ColorGreen, ColorPurple}

// Valid reports whether c belongs to the palette.
func (c Color) Valid() bool {
	for _, p := range Palette {
		if c == p {
			return true
		}
	}
	return false
}

// Next returns the palette color that follows c, wrapping around.
func (c Color) Next() Color {
	for i, p := range Palette {
		if c == p {
			return Palette[(i+1)%len(Palette)]
		}
	}
	return DefaultColor
}

// ParseColor normalizes s into a palette color.
// The second result is false when s is not part of the palette.
func ParseColor(s string) (Color, bool) {
	c := Color(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return DefaultColor, false
	}
	return c, true
}

// Origin tells whether a note was read from the authoritative ledger
// or only exists locally while its write is in flight.
type Origin int

const (
	OriginConfirmed Origin = iota
	OriginPending
)

func (o Origin) String() string {
	if o == OriginPending {
		return "pending"
	}
	return "confirmed"
}

// Receipt is the opaque token returned by a successful remote write:
// a transaction hash for the chain adapter, a ledger receipt for the HTTP one.
type Receipt string

// Note is a renderable sticky note.
type Note struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Position  Point     `json:"position"`
	Author    string    `json:"author"`
	Color     Color     `json:"color"`
	Timestamp time.Time `json:"timestamp"`
	Origin    Origin    `json:"-"`
	Receipt   Receipt   `json:"receipt,omitempty"`
}

// IsPending reports whether the note only exists in the optimistic overlay.
func (n Note) IsPending() bool {
	return n.Origin == OriginPending
}

// NoteRecord is a note as returned by a remote read collaborator.
type NoteRecord struct {
	ID        string    `json:"id"`
	Index     int64     `json:"index"`
	Content   string    `json:"content"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Color     string    `json:"color"`
	Author    string    `json:"author"`
	Timestamp time.Time `json:"timestamp"`
	Receipt   string    `json:"receipt,omitempty"`
}

// NoteDraft is the payload of a remote write.
type NoteDraft struct {
	Content string  `json:"content" validate:"notblank,max=280"`
	X       float64 `json:"x" validate:"finite"`
	Y       float64 `json:"y" validate:"finite"`
	Color   Color   `json:"color" validate:"required,oneof=yellow pink blue green purple"`
	Author  string  `json:"author" validate:"required,max=64,eth_addr|alphanum"`
}

// Position returns the draft position as a point.
func (d NoteDraft) Position() Point {
	return Point{X: d.X, Y: d.Y}
}
