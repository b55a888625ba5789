package gui

import (
	"image/color"

	"fancywatch/watchos/event"
	"fancywatch/watchos/surface"
)

// Button is a touch target. Only the first finger (touch ID 0) is tracked.
//
// By default any contact inside the hit region while the pointer is down counts as a
// press. With StrictPress only the initial contact can press the button; dragging into
// the region does not.
type Button struct {
	StrictPress bool

	OnPointerDown func(x, y int16)
	OnPointerUp   func(x, y int16)
	OnDrag        func(x, y int16)
	OnClick       func()

	kind    ShapeKind
	bounds  Rect
	radius  int16
	normal  color.RGBA
	pressed color.RGBA
	label   *Text

	down  bool
	drawn bool
	shown bool
}

// NewButton returns a button hit-tested and painted as kind inside bounds.
func NewButton(kind ShapeKind, bounds Rect, normal, pressed color.RGBA) *Button {
	return &Button{kind: kind, bounds: bounds, normal: normal, pressed: pressed}
}

// NewCircleButton returns a circular button of radius r centered at (cx, cy).
func NewCircleButton(cx, cy, r int16, normal, pressed color.RGBA) *Button {
	return NewButton(ShapeCircle, Rect{X: cx - r, Y: cy - r, W: 2*r + 1, H: 2*r + 1}, normal, pressed)
}

// SetRadius sets the corner radius used by rounded buttons.
func (b *Button) SetRadius(r int16) {
	b.radius = r
	b.shown = false
}

// SetLabel attaches text drawn over the button face.
func (b *Button) SetLabel(t *Text) {
	b.label = t
	b.shown = false
}

func (b *Button) Label() *Text    { return b.label }
func (b *Button) Bounds() Rect    { return b.bounds }
func (b *Button) Pressed() bool   { return b.down }
func (b *Button) Kind() ShapeKind { return b.kind }

// Invalidate forces the next Render to draw.
func (b *Button) Invalidate() { b.shown = false }

// Contains reports whether (x, y) lies inside the hit region.
func (b *Button) Contains(x, y int16) bool { return hit(b.kind, b.bounds, x, y) }

// HandleEvent updates the pressed state from a touch event and fires callbacks.
func (b *Button) HandleEvent(e event.Event) {
	t, ok := e.TouchData()
	if !ok || t.ID != 0 {
		return
	}
	switch e.Kind {
	case event.TouchChange:
		if b.down && b.OnDrag != nil {
			b.OnDrag(t.X, t.Y)
		}
		if b.StrictPress {
			return
		}
		b.press(t.X, t.Y)
	case event.TouchBegin:
		b.press(t.X, t.Y)
	case event.TouchEnd:
		if !b.down {
			return
		}
		b.down = false
		if b.OnPointerUp != nil {
			b.OnPointerUp(t.X, t.Y)
		}
		if b.Contains(t.X, t.Y) && b.OnClick != nil {
			b.OnClick()
		}
	}
}

func (b *Button) press(x, y int16) {
	was := b.down
	b.down = b.Contains(x, y)
	if b.down && !was && b.OnPointerDown != nil {
		b.OnPointerDown(x, y)
	}
}

// Render repaints the button when its pressed state differs from what is on screen or its
// label changed, and reports whether it drew. The first render always draws.
func (b *Button) Render(dst *surface.Surface) bool {
	if dst == nil || (b.shown && b.drawn == b.down && (b.label == nil || !b.label.Dirty())) {
		return false
	}
	face := b.normal
	if b.down {
		face = b.pressed
	}
	if b.kind != ShapeInvisible {
		fillShape(surface.NewCanvas(dst), b.kind, b.bounds, b.radius, face)
	}
	if b.label != nil {
		b.label.SetClearColor(face)
		b.label.Invalidate()
		b.label.Render(dst)
	}
	b.drawn = b.down
	b.shown = true
	return true
}
