package gui

import (
	"image/color"
	"math"

	"fancywatch/watchos/surface"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinydraw"
)

// scaler magnifies every pixel drawn through it into a scale*scale block relative to
// (ox, oy) and drops what falls outside clip.
type scaler struct {
	c      *surface.Canvas
	ox, oy int16
	scale  int16
	clip   Rect
}

var _ drivers.Displayer = scaler{}

func (d scaler) Size() (x, y int16) { return d.c.Size() }

func (d scaler) SetPixel(x, y int16, c color.RGBA) {
	r := Rect{X: d.ox + x*d.scale, Y: d.oy + y*d.scale, W: d.scale, H: d.scale}.Intersect(d.clip)
	if r.Empty() {
		return
	}
	_ = d.c.FillRectangle(r.X, r.Y, r.W, r.H, c)
}

func (d scaler) Display() error { return nil }

// ShapeKind is the geometry a Shape or Button paints.
type ShapeKind uint8

const (
	ShapeRect ShapeKind = iota
	ShapeRoundedRect
	ShapeCircle
	ShapeEllipse
	ShapeInvisible
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeRect:
		return "rect"
	case ShapeRoundedRect:
		return "rounded-rect"
	case ShapeCircle:
		return "circle"
	case ShapeEllipse:
		return "ellipse"
	case ShapeInvisible:
		return "invisible"
	default:
		return "unknown"
	}
}

// center returns the center and radii of the ellipse inscribed in r.
func center(r Rect) (cx, cy, rx, ry int16) {
	return r.X + r.W/2, r.Y + r.H/2, (r.W - 1) / 2, (r.H - 1) / 2
}

// hit reports whether (x, y) lies inside shape kind inscribed in bounds.
func hit(kind ShapeKind, bounds Rect, x, y int16) bool {
	switch kind {
	case ShapeCircle:
		cx, cy, rx, ry := center(bounds)
		r := int32(min(rx, ry))
		dx, dy := int32(x-cx), int32(y-cy)
		return dx*dx+dy*dy <= r*r
	case ShapeEllipse:
		cx, cy, rx, ry := center(bounds)
		if rx <= 0 || ry <= 0 {
			return bounds.Contains(x, y)
		}
		dx, dy := int64(x-cx), int64(y-cy)
		a, b := int64(rx), int64(ry)
		return dx*dx*b*b+dy*dy*a*a <= a*a*b*b
	default:
		return bounds.Contains(x, y)
	}
}

// fillShape rasterizes kind inside bounds. radius only applies to rounded rectangles.
func fillShape(c *surface.Canvas, kind ShapeKind, bounds Rect, radius int16, col color.RGBA) {
	if bounds.Empty() {
		return
	}
	switch kind {
	case ShapeRect:
		tinydraw.FilledRectangle(c, bounds.X, bounds.Y, bounds.W, bounds.H, col)
	case ShapeRoundedRect:
		fillRoundedRect(c, bounds, radius, col)
	case ShapeCircle:
		cx, cy, rx, ry := center(bounds)
		tinydraw.FilledCircle(c, cx, cy, min(rx, ry), col)
	case ShapeEllipse:
		fillEllipse(c, bounds, col)
	}
}

func fillRoundedRect(c *surface.Canvas, b Rect, r int16, col color.RGBA) {
	r = min(r, (min(b.W, b.H)-1)/2)
	if r <= 0 {
		tinydraw.FilledRectangle(c, b.X, b.Y, b.W, b.H, col)
		return
	}
	tinydraw.FilledRectangle(c, b.X+r, b.Y, b.W-2*r, b.H, col)
	tinydraw.FilledRectangle(c, b.X, b.Y+r, r, b.H-2*r, col)
	tinydraw.FilledRectangle(c, b.X+b.W-r, b.Y+r, r, b.H-2*r, col)
	right, bottom := b.X+b.W-1-r, b.Y+b.H-1-r
	tinydraw.FilledCircle(c, b.X+r, b.Y+r, r, col)
	tinydraw.FilledCircle(c, right, b.Y+r, r, col)
	tinydraw.FilledCircle(c, b.X+r, bottom, r, col)
	tinydraw.FilledCircle(c, right, bottom, r, col)
}

func fillEllipse(c *surface.Canvas, b Rect, col color.RGBA) {
	cx, cy, rx, ry := center(b)
	if ry <= 0 {
		_ = c.FillRectangle(cx-rx, cy, 2*rx+1, 1, col)
		return
	}
	for dy := -ry; dy <= ry; dy++ {
		f := float64(dy) / float64(ry)
		hw := int16(float64(rx) * math.Sqrt(1-f*f))
		_ = c.FillRectangle(cx-hw, cy+dy, 2*hw+1, 1, col)
	}
}
