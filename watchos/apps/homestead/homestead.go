// Package homestead is the stock watch face: time, date, battery and step count, with a
// status light that blinks once per second and a tap target that cycles the brightness.
package homestead

import (
	"fmt"
	"image/color"

	"fancywatch/hal"
	"fancywatch/watchos/clock"
	"fancywatch/watchos/event"
	"fancywatch/watchos/gui"
	"fancywatch/watchos/kernel"
	"fancywatch/watchos/surface"
)

// batteryRefresh is the number of cycles between battery polls.
const batteryRefresh = 300

var (
	green = color.RGBA{G: 0xFF, A: 0xFF}
	red   = color.RGBA{R: 0xFF, A: 0xFF}
	grey  = color.RGBA{R: 0x40, G: 0x40, B: 0x40, A: 0xFF}
	amber = color.RGBA{R: 0xFF, G: 0xB0, A: 0xFF}
)

// Levels are the backlight steps the brightness button cycles through.
var Levels = []float32{0.25, 0.5, 1}

type Face struct {
	kernel.Base

	background color.RGBA
	blink      *clock.Timer

	status     *gui.Shape
	clockText  *gui.Text
	dateText   *gui.Text
	battery    *gui.Text
	steps      *gui.Text
	brightness *gui.Button

	level       int
	charging    bool
	percent     int
	stepCount   uint32
	sincePoll   int
	pollPending bool
	repaint     bool
}

func New() *Face {
	return &Face{background: gui.Black, percent: -1, level: 1}
}

func (f *Face) OnStart(args []string) {
	k := f.Kernel()
	s := k.Display().Surface()
	w, h := int16(s.Width()), int16(s.Height())

	f.blink = clock.NewTimer(k)
	f.blink.Start()

	f.status = gui.NewShape(gui.ShapeCircle, gui.Rect{X: w - 14, Y: 4, W: 9, H: 9}, red)

	f.clockText = gui.NewText(w/2, h/2, "--:--")
	f.clockText.SetDatum(gui.MiddleCenter)
	f.clockText.SetSize(4)

	f.dateText = gui.NewText(w/2, h/2+24, "")
	f.dateText.SetDatum(gui.TopCenter)
	f.dateText.SetSize(2)

	f.battery = gui.NewText(4, 4, "")
	f.battery.SetSize(2)

	f.steps = gui.NewText(w-4, h-4, "")
	f.steps.SetDatum(gui.BottomRight)
	f.steps.SetSize(2)

	f.brightness = gui.NewCircleButton(20, h-20, 14, grey, amber)
	f.brightness.StrictPress = true
	label := gui.NewText(20, h-20, "*")
	label.SetDatum(gui.MiddleCenter)
	label.SetSize(2)
	f.brightness.SetLabel(label)
	f.brightness.OnClick = f.cycleBrightness

	f.pollPending = true
	f.repaint = true
}

func (f *Face) OnEnterForeground() { f.repaint = true }

func (f *Face) HandleEvent(e event.Event) {
	switch {
	case e.Kind.In(event.TouchKinds):
		if f.IsForeground() {
			f.brightness.HandleEvent(e)
		}
	case e.Kind.In(event.PowerKinds):
		if p, ok := e.PowerData(); ok && e.Kind != event.PowerButton {
			f.charging = p.Charging
		}
		f.pollPending = true
	case e.Kind == event.SensorStep:
		f.stepCount = e.Sensor.Steps
	}
}

func (f *Face) Update() {
	k := f.Kernel()
	now := k.Now()
	f.clockText.SetText(now.Format("15:04"))
	f.dateText.SetText(now.Format("Mon 02 Jan"))
	f.steps.SetText(fmt.Sprintf("%d steps", f.stepCount))

	if (f.blink.Ticks()/1000)%2 == 0 {
		f.status.SetColor(green)
	} else {
		f.status.SetColor(red)
	}

	f.sincePoll++
	if f.pollPending || f.sincePoll >= batteryRefresh {
		f.pollBattery(k.Power(), k.Logger())
	}
	f.battery.SetText(f.batteryLabel())
}

// pollBattery reads the PMU. A failed read keeps the last value and retries next cycle.
func (f *Face) pollBattery(p hal.Power, log hal.Logger) {
	if p == nil {
		f.pollPending = false
		return
	}
	pct, err := p.BatteryPercent()
	if err != nil {
		hal.Logf(log, hal.LevelWarn, "homestead: battery: %v", err)
		f.pollPending = true
		return
	}
	charging, err := p.IsCharging()
	if err != nil {
		hal.Logf(log, hal.LevelWarn, "homestead: charger: %v", err)
		f.pollPending = true
		return
	}
	f.percent, f.charging = pct, charging
	f.pollPending = false
	f.sincePoll = 0
}

func (f *Face) batteryLabel() string {
	if f.percent < 0 {
		return "--%"
	}
	if f.charging {
		return fmt.Sprintf("%d%%+", f.percent)
	}
	return fmt.Sprintf("%d%%", f.percent)
}

func (f *Face) cycleBrightness() {
	f.level = (f.level + 1) % len(Levels)
	if err := f.Kernel().Display().SetBrightness(Levels[f.level]); err != nil {
		hal.Logf(f.Kernel().Logger(), hal.LevelWarn, "homestead: brightness: %v", err)
	}
}

func (f *Face) Render(s *surface.Surface) {
	if f.repaint {
		s.Clear(surface.Encode(s.Format(), f.background))
		f.status.Invalidate()
		f.clockText.Invalidate()
		f.dateText.Invalidate()
		f.battery.Invalidate()
		f.steps.Invalidate()
		f.brightness.Invalidate()
		f.repaint = false
	}
	f.status.Render(s)
	f.clockText.Render(s)
	f.dateText.Render(s)
	f.battery.Render(s)
	f.steps.Render(s)
	f.brightness.Render(s)
}

// Battery returns the last battery reading, or -1 before the first successful read.
func (f *Face) Battery() (percent int, charging bool) { return f.percent, f.charging }

// Steps returns the last reported step count.
func (f *Face) Steps() uint32 { return f.stepCount }
