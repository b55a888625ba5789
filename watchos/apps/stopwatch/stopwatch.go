// Package stopwatch is a start/pause/reset stopwatch app.
package stopwatch

import (
	"fmt"
	"image/color"

	"fancywatch/watchos/clock"
	"fancywatch/watchos/event"
	"fancywatch/watchos/gui"
	"fancywatch/watchos/kernel"
	"fancywatch/watchos/surface"
)

var (
	blue   = color.RGBA{R: 0x20, G: 0x40, B: 0xC0, A: 0xFF}
	navy   = color.RGBA{R: 0x10, G: 0x20, B: 0x60, A: 0xFF}
	maroon = color.RGBA{R: 0x80, G: 0x10, B: 0x10, A: 0xFF}
	rust   = color.RGBA{R: 0x40, G: 0x08, B: 0x08, A: 0xFF}
)

type Stopwatch struct {
	kernel.Base

	timer   *clock.Timer
	readout *gui.Text
	toggle  *gui.Button
	reset   *gui.Button
	repaint bool
}

func New() *Stopwatch {
	return &Stopwatch{}
}

func (s *Stopwatch) OnStart(args []string) {
	k := s.Kernel()
	surf := k.Display().Surface()
	w, h := int16(surf.Width()), int16(surf.Height())

	s.timer = clock.NewTimer(k)

	s.readout = gui.NewText(w/2, h/3, Format(0))
	s.readout.SetDatum(gui.MiddleCenter)
	s.readout.SetSize(3)

	half := (w - 24) / 2
	s.toggle = s.button(gui.Rect{X: 8, Y: h - 64, W: half, H: 48}, "START", blue, navy, s.toggleTimer)
	s.reset = s.button(gui.Rect{X: 16 + half, Y: h - 64, W: half, H: 48}, "RESET", maroon, rust, s.resetTimer)
	s.repaint = true
}

func (s *Stopwatch) button(r gui.Rect, text string, normal, pressed color.RGBA, click func()) *gui.Button {
	b := gui.NewButton(gui.ShapeRoundedRect, r, normal, pressed)
	b.SetRadius(8)
	b.StrictPress = true
	label := gui.NewText(r.X+r.W/2, r.Y+r.H/2, text)
	label.SetDatum(gui.MiddleCenter)
	label.SetSize(2)
	b.SetLabel(label)
	b.OnClick = click
	return b
}

func (s *Stopwatch) toggleTimer() {
	switch {
	case !s.timer.Started():
		s.timer.Start()
	case s.timer.Paused():
		s.timer.Resume()
	default:
		s.timer.Pause()
	}
	s.relabel()
}

func (s *Stopwatch) resetTimer() {
	s.timer.Stop()
	s.relabel()
}

func (s *Stopwatch) relabel() {
	text := "START"
	if s.timer.Started() && !s.timer.Paused() {
		text = "PAUSE"
	} else if s.timer.Started() {
		text = "GO ON"
	}
	s.toggle.Label().SetText(text)
}

func (s *Stopwatch) OnEnterForeground() { s.repaint = true }

func (s *Stopwatch) HandleEvent(e event.Event) {
	if !s.IsForeground() || !e.Kind.In(event.TouchKinds) {
		return
	}
	s.toggle.HandleEvent(e)
	s.reset.HandleEvent(e)
}

func (s *Stopwatch) Update() {
	s.readout.SetText(Format(s.timer.Ticks()))
}

func (s *Stopwatch) Render(dst *surface.Surface) {
	if s.repaint {
		dst.Clear(surface.Encode(dst.Format(), gui.Black))
		s.readout.Invalidate()
		s.toggle.Invalidate()
		s.reset.Invalidate()
		s.repaint = false
	}
	s.readout.Render(dst)
	s.toggle.Render(dst)
	s.reset.Render(dst)
}

// Elapsed returns the measured milliseconds.
func (s *Stopwatch) Elapsed() uint32 { return s.timer.Ticks() }

// Format renders milliseconds as mm:ss.cc, wrapping after an hour.
func Format(ms uint32) string {
	cs := ms / 10 % 100
	sec := ms / 1000 % 60
	mins := ms / 60000 % 60
	return fmt.Sprintf("%02d:%02d.%02d", mins, sec, cs)
}
