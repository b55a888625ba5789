package app

import (
	"fmt"
	"image/color"
	"strings"
	"unicode/utf8"

	"fancywatch/hal"
	"fancywatch/watchos/kernel"
	"fancywatch/watchos/surface"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
)

var panicFont = &tinyfont.TomThumb

const (
	panicFontHeight = int16(6)
	panicFontOffset = int16(5)
)

// panicScreen is registered first so it renders over every other app. It stays in the
// background until an app panics, then shows the report on every frame.
type panicScreen struct {
	kernel.Base
	lines []string
}

func (p *panicScreen) Render(s *surface.Surface) {
	if p.lines == nil {
		return
	}
	s.Clear(surface.Encode(s.Format(), color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}))
	drawPanicReport(surface.NewCanvas(s), p.lines, color.RGBA{A: 0xFF})
}

func installPanicHandler(s *System) {
	kernel.SetPanicHandler(func(info kernel.PanicInfo) {
		lines := panicReport(info)
		for _, line := range lines {
			hal.Logf(s.log, hal.LevelError, "%s", line)
		}
		if s.panic == nil || s.panic.ID() < 0 {
			return
		}
		s.panic.lines = lines
		s.k.SetForeground(s.panic.ID(), true)
	})
}

func panicReport(info kernel.PanicInfo) []string {
	lines := []string{
		"Watch Panic:",
		fmt.Sprintf("app: %d (%s)", info.AppID, info.Callback),
		fmt.Sprintf("panic: %v", info.Value),
	}
	if len(info.Stack) == 0 {
		return append(lines, "stack: unavailable")
	}
	lines = append(lines, "stack:")
	for _, line := range strings.Split(string(info.Stack), "\n") {
		if line == "" {
			continue
		}
		lines = append(lines, strings.ReplaceAll(line, "\t", "  "))
	}
	return lines
}

// drawPanicReport writes lines top to bottom, wrapping long lines, until the display is
// full.
func drawPanicReport(d drivers.Displayer, lines []string, fg color.RGBA) {
	_, outboxWidth := tinyfont.LineWidth(panicFont, "0")
	fontWidth := int16(outboxWidth)
	maxW, maxH := d.Size()
	if fontWidth <= 0 || maxW <= 0 {
		return
	}
	cols := maxW / fontWidth
	if cols <= 0 {
		cols = 1
	}

	y := int16(0)
	for _, line := range lines {
		for len(line) > 0 {
			if y+panicFontHeight > maxH {
				return
			}
			chunk, rest := takeRunes(line, cols)
			drawTextLine(d, panicFont, fontWidth, panicFontOffset, 0, y, chunk, fg)
			y += panicFontHeight
			line = strings.TrimLeft(rest, " ")
		}
	}
}

func drawTextLine(
	d drivers.Displayer,
	font tinyfont.Fonter,
	fontWidth, fontOffset int16,
	x0, y0 int16,
	s string,
	fg color.RGBA,
) {
	var drawX = x0
	for _, r := range s {
		tinyfont.DrawChar(d, font, drawX, y0+fontOffset, r, fg)
		drawX += fontWidth
	}
}

func takeRunes(s string, n int16) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	if int64(len(s)) <= int64(n) {
		return s, ""
	}
	var i int
	var count int16
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		if size <= 0 {
			break
		}
		i += size
		count++
	}
	if i >= len(s) {
		return s, ""
	}
	return s[:i], s[i:]
}
