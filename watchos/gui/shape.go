package gui

import (
	"image/color"

	"fancywatch/watchos/surface"
)

// Shape is a filled geometric primitive inscribed in its bounds.
type Shape struct {
	kind   ShapeKind
	bounds Rect
	radius int16
	fg     color.RGBA
	bg     color.RGBA

	dirty   bool
	oldArea Rect
}

func NewShape(kind ShapeKind, bounds Rect, c color.RGBA) *Shape {
	return &Shape{kind: kind, bounds: bounds, fg: c, bg: Black, dirty: true}
}

func (s *Shape) SetKind(k ShapeKind) {
	s.dirty = s.dirty || k != s.kind
	s.kind = k
}

func (s *Shape) SetBounds(r Rect) {
	s.dirty = s.dirty || r != s.bounds
	s.bounds = r
}

// SetRadius sets the corner radius of rounded rectangles.
func (s *Shape) SetRadius(r int16) {
	s.dirty = s.dirty || r != s.radius
	s.radius = r
}

func (s *Shape) SetColor(c color.RGBA) {
	s.dirty = s.dirty || c != s.fg
	s.fg = c
}

func (s *Shape) SetClearColor(c color.RGBA) {
	s.dirty = s.dirty || c != s.bg
	s.bg = c
}

func (s *Shape) Kind() ShapeKind        { return s.kind }
func (s *Shape) Bounds() Rect           { return s.bounds }
func (s *Shape) Color() color.RGBA      { return s.fg }
func (s *Shape) ClearColor() color.RGBA { return s.bg }
func (s *Shape) Dirty() bool            { return s.dirty }
func (s *Shape) Area() Rect             { return s.oldArea }

// Invalidate forces the next Render to draw.
func (s *Shape) Invalidate() { s.dirty = true }

// Contains reports whether (x, y) lies inside the shape's geometry.
func (s *Shape) Contains(x, y int16) bool { return hit(s.kind, s.bounds, x, y) }

// Render redraws the shape if it changed and reports whether it drew.
func (s *Shape) Render(dst *surface.Surface) bool {
	if !s.dirty || dst == nil {
		return false
	}
	s.oldArea.Fill(dst, s.bg)
	area := Rect{}
	if s.kind != ShapeInvisible {
		fillShape(surface.NewCanvas(dst), s.kind, s.bounds, s.radius, s.fg)
		area = s.bounds
	}
	s.oldArea = area
	s.dirty = false
	return true
}
