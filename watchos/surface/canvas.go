package surface

import (
	"image/color"

	"tinygo.org/x/drivers"
)

// Canvas adapts a Surface to drivers.Displayer so tinyfont, tinydraw and tinyterm can
// draw into it. Display is a no-op; the kernel presents the surface once per cycle.
type Canvas struct {
	s      *Surface
	scroll int16
}

var _ drivers.Displayer = (*Canvas)(nil)

// NewCanvas returns a Canvas drawing into s.
func NewCanvas(s *Surface) *Canvas {
	return &Canvas{s: s}
}

// Surface returns the surface being drawn into.
func (c *Canvas) Surface() *Surface { return c.s }

func (c *Canvas) Size() (x, y int16) {
	if c.s == nil {
		return 0, 0
	}
	return int16(c.s.width), int16(c.s.height)
}

func (c *Canvas) SetPixel(x, y int16, col color.RGBA) {
	if c.s == nil {
		return
	}
	c.s.SetPixel(int(x), int(y), Encode(c.s.format, col))
}

func (c *Canvas) Display() error { return nil }

func (c *Canvas) FillRectangle(x, y, width, height int16, col color.RGBA) error {
	if c.s == nil {
		return nil
	}
	c.s.FillRect(int(x), int(y), int(width), int(height), Encode(c.s.format, col))
	return nil
}

// SetScroll records the row shown at the top of the screen, as a panel scroll register
// would. The surface content is not moved; see Surface.BlitScrolled.
func (c *Canvas) SetScroll(line int16) { c.scroll = line }

// Scroll returns the last row passed to SetScroll.
func (c *Canvas) Scroll() int16 { return c.scroll }

func (c *Canvas) SetRotation(rotation drivers.Rotation) error { return nil }
