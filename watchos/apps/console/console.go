// Package console overlays recent log lines at the bottom of the screen.
//
// The console draws into its own surface through a tinyterm terminal and blits that
// surface over whatever the faces rendered. Register it before the faces so it renders
// last.
package console

import (
	"fmt"

	"fancywatch/hal"
	"fancywatch/watchos/kernel"
	"fancywatch/watchos/surface"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyterm"
)

const (
	// DefaultRows is the number of text rows shown.
	DefaultRows = 4

	fontHeight = 6
	fontOffset = 5
)

type Console struct {
	kernel.Base

	sink   *Sink
	rows   int
	pools  []surface.Pool
	surf   *surface.Surface
	canvas *surface.Canvas
	term   *tinyterm.Terminal
}

// New returns a console showing rows lines from sink. rows <= 0 selects DefaultRows.
// The text surface is allocated from pools on start, as surface.New does.
func New(sink *Sink, rows int, pools ...surface.Pool) *Console {
	if rows <= 0 {
		rows = DefaultRows
	}
	return &Console{sink: sink, rows: rows, pools: pools}
}

func (c *Console) OnStart(args []string) {
	k := c.Kernel()
	screen := k.Display().Surface()
	surf, err := surface.New(screen.Width(), c.rows*fontHeight, screen.Format(), c.pools...)
	if err != nil {
		hal.Logf(k.Logger(), hal.LevelError, "console: %v", err)
		k.KillApp(c.ID(), true)
		return
	}
	c.surf = surf
	c.canvas = surface.NewCanvas(surf)
	c.term = tinyterm.NewTerminal(c.canvas)
	c.term.Configure(&tinyterm.Config{
		Font:       &tinyfont.TomThumb,
		FontHeight: fontHeight,
		FontOffset: fontOffset,
	})
}

func (c *Console) OnStop() {
	if c.surf != nil {
		c.surf.Destroy()
		c.surf, c.canvas, c.term = nil, nil, nil
	}
}

func (c *Console) Update() {
	if c.term == nil || c.sink == nil {
		return
	}
	lines, dropped := c.sink.Drain()
	if dropped > 0 {
		c.print(hal.LevelWarn, fmt.Sprintf("(%d lines dropped)", dropped))
	}
	for _, l := range lines {
		c.print(l.Level, l.Msg)
	}
}

func (c *Console) print(level hal.Level, msg string) {
	switch level {
	case hal.LevelError:
		c.term.Write([]byte("\x1b[31m"))
	case hal.LevelWarn:
		c.term.Write([]byte("\x1b[33m"))
	}
	c.term.Write([]byte(msg))
	c.term.Write([]byte("\x1b[0m\r\n"))
}

func (c *Console) Render(s *surface.Surface) {
	if c.surf == nil {
		return
	}
	// The terminal scrolls by moving the canvas scroll register, so the oldest row
	// starts at Scroll.
	s.BlitScrolled(c.surf, 0, s.Height()-c.surf.Height(), int(c.canvas.Scroll()))
}

// Surface returns the console's own text surface, or nil before start.
func (c *Console) Surface() *surface.Surface { return c.surf }
