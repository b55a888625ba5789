package gui

import (
	"image/color"
	"strings"

	"fancywatch/watchos/surface"

	"tinygo.org/x/tinyfont"
)

// DefaultFont is used by Text widgets that have no font set.
var DefaultFont tinyfont.Fonter = &tinyfont.TomThumb

var (
	White = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	Black = color.RGBA{A: 0xFF}
)

// Text is a string drawn at an anchored position.
type Text struct {
	x, y  int16
	text  string
	fg    color.RGBA
	bg    color.RGBA
	wrap  bool
	datum Datum
	size  uint8
	font  tinyfont.Fonter

	dirty   bool
	oldArea Rect
}

// NewText returns white-on-black text anchored top-left at (x, y).
func NewText(x, y int16, s string) *Text {
	return &Text{
		x:     x,
		y:     y,
		text:  s,
		fg:    White,
		bg:    Black,
		size:  1,
		font:  DefaultFont,
		dirty: true,
	}
}

func (t *Text) SetText(s string) {
	t.dirty = t.dirty || s != t.text
	t.text = s
}

func (t *Text) SetColor(c color.RGBA) {
	t.dirty = t.dirty || c != t.fg
	t.fg = c
}

func (t *Text) SetClearColor(c color.RGBA) {
	t.dirty = t.dirty || c != t.bg
	t.bg = c
}

func (t *Text) SetWrap(wrap bool) {
	t.dirty = t.dirty || wrap != t.wrap
	t.wrap = wrap
}

func (t *Text) SetDatum(d Datum) {
	t.dirty = t.dirty || d != t.datum
	t.datum = d
}

// SetSize sets the integer magnification. Zero is treated as 1.
func (t *Text) SetSize(size uint8) {
	size = max(size, 1)
	t.dirty = t.dirty || size != t.size
	t.size = size
}

func (t *Text) SetFont(f tinyfont.Fonter) {
	if f == nil {
		f = DefaultFont
	}
	t.dirty = t.dirty || f != t.font
	t.font = f
}

func (t *Text) SetPosition(x, y int16) {
	t.dirty = t.dirty || x != t.x || y != t.y
	t.x, t.y = x, y
}

func (t *Text) Text() string           { return t.text }
func (t *Text) Color() color.RGBA      { return t.fg }
func (t *Text) ClearColor() color.RGBA { return t.bg }
func (t *Text) Wrapped() bool          { return t.wrap }
func (t *Text) Datum() Datum           { return t.datum }
func (t *Text) Size() uint8            { return t.size }
func (t *Text) Font() tinyfont.Fonter  { return t.font }
func (t *Text) Position() (x, y int16) { return t.x, t.y }

// Dirty reports whether the next Render will draw.
func (t *Text) Dirty() bool { return t.dirty }

// Area returns the rectangle painted by the last Render.
func (t *Text) Area() Rect { return t.oldArea }

// Invalidate forces the next Render to draw.
func (t *Text) Invalidate() { t.dirty = true }

func (t *Text) lineHeight() int16 { return int16(t.font.GetYAdvance()) }

func (t *Text) advance(r rune) int16 { return int16(t.font.GetGlyph(r).Info().XAdvance) }

// measure returns the scaled width of one line.
func (t *Text) measure(s string) int16 {
	_, w := tinyfont.LineWidth(t.font, s)
	return int16(w) * int16(t.size)
}

// Render redraws the text if any property changed since the last render and reports
// whether it drew.
func (t *Text) Render(dst *surface.Surface) bool {
	if !t.dirty || dst == nil {
		return false
	}

	lines := t.layout(int16(dst.Width()))
	var w int16
	for _, l := range lines {
		w = max(w, t.measure(l))
	}
	h := t.lineHeight() * int16(t.size) * int16(len(lines))
	if t.text == "" {
		w, h = 0, 0
	}
	dx, dy := DatumOffset(w, h, t.datum)
	area := Rect{X: t.x - dx, Y: t.y - dy, W: w, H: h}

	t.oldArea.Fill(dst, t.bg)
	if !area.Empty() {
		t.draw(dst, area, lines)
	}
	t.oldArea = area
	t.dirty = false
	return true
}

func (t *Text) draw(dst *surface.Surface, area Rect, lines []string) {
	d := scaler{
		c:     surface.NewCanvas(dst),
		ox:    area.X,
		oy:    area.Y,
		scale: int16(t.size),
		clip:  area,
	}
	ascent := baseline(t.font)
	for i, line := range lines {
		x := int16(0)
		y := ascent + int16(i)*t.lineHeight()
		for _, r := range line {
			tinyfont.DrawChar(d, t.font, x, y, r, t.fg)
			x += t.advance(r)
		}
	}
}

// layout splits the text into lines, breaking at spaces to fit maxW when wrapping.
func (t *Text) layout(maxW int16) []string {
	var out []string
	for _, para := range strings.Split(t.text, "\n") {
		if !t.wrap || t.measure(para) <= maxW {
			out = append(out, para)
			continue
		}
		line := ""
		for _, word := range strings.Fields(para) {
			next := word
			if line != "" {
				next = line + " " + word
			}
			if line != "" && t.measure(next) > maxW {
				out = append(out, line)
				next = word
			}
			line = next
		}
		out = append(out, line)
	}
	return out
}

// baseline returns the distance from the top of a line to the glyph baseline.
func baseline(f tinyfont.Fonter) int16 {
	if off := f.GetGlyph('M').Info().YOffset; off < 0 {
		return int16(-off)
	}
	return int16(f.GetYAdvance())
}
