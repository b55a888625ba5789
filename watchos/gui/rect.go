// Package gui provides widgets that redraw only when their appearance changes.
//
// Every widget keeps the rectangle it last painted. A dirty widget first paints that
// rectangle with its clear color, then draws itself at its new place, so moved or shrunk
// content leaves no ghost pixels behind.
package gui

import (
	"image/color"

	"fancywatch/watchos/surface"
)

// Rect is a screen rectangle in pixels.
type Rect struct {
	X, Y, W, H int16
}

func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y int16) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Intersect returns the overlap of r and o; it is empty when they do not overlap.
func (r Rect) Intersect(o Rect) Rect {
	x0, y0 := max(r.X, o.X), max(r.Y, o.Y)
	x1, y1 := min(r.X+r.W, o.X+o.W), min(r.Y+r.H, o.Y+o.H)
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Fill paints r on dst with c.
func (r Rect) Fill(dst *surface.Surface, c color.RGBA) {
	if r.Empty() || dst == nil {
		return
	}
	dst.FillRect(int(r.X), int(r.Y), int(r.W), int(r.H), surface.Encode(dst.Format(), c))
}

// Datum selects the anchor point a widget's position refers to.
type Datum uint8

const (
	TopLeft Datum = iota
	TopCenter
	TopRight
	MiddleLeft
	MiddleCenter
	MiddleRight
	BottomLeft
	BottomCenter
	BottomRight
)

// DatumOffset returns the offset subtracted from a nominal position to get the top-left
// corner of content w wide and h high anchored at d.
func DatumOffset(w, h int16, d Datum) (dx, dy int16) {
	if d > BottomRight {
		return 0, 0
	}
	switch d % 3 {
	case 1:
		dx = w / 2
	case 2:
		dx = w
	}
	switch d / 3 {
	case 1:
		dy = h / 2
	case 2:
		dy = h
	}
	return dx, dy
}
