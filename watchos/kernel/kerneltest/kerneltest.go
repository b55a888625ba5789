// Package kerneltest provides in-memory hardware doubles and a ready kernel for testing
// apps.
package kerneltest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"fancywatch/hal"
	"fancywatch/watchos/display"
	"fancywatch/watchos/event"
	"fancywatch/watchos/kernel"
	"fancywatch/watchos/surface"
)

// Panel records what the kernel pushes to the screen.
type Panel struct {
	W, H       int
	On         bool
	Level      uint8
	Presents   int
	Frame      []byte
	PresentErr error
}

func (p *Panel) Width() int                      { return p.W }
func (p *Panel) Height() int                     { return p.H }
func (p *Panel) PowerOn() error                  { p.On = true; return nil }
func (p *Panel) PowerOff() error                 { p.On = false; return nil }
func (p *Panel) SetBrightness(level uint8) error { p.Level = level; return nil }

func (p *Panel) Present(buf []byte, w, h int) error {
	if p.PresentErr != nil {
		return p.PresentErr
	}
	p.Presents++
	p.Frame = append(p.Frame[:0], buf...)
	return nil
}

// Power is a scripted PMU. Err, when set, fails every read.
type Power struct {
	Percent    int
	Charging   bool
	Celsius    float32
	Err        error
	LowPower   bool
	DeepSleeps int
}

func (p *Power) IsCharging() (bool, error)     { return p.Charging, p.Err }
func (p *Power) BatteryPercent() (int, error)  { return p.Percent, p.Err }
func (p *Power) Temperature() (float32, error) { return p.Celsius, p.Err }
func (p *Power) SetLowPower(low bool)          { p.LowPower = low }
func (p *Power) DeepSleep() error              { p.DeepSleeps++; return nil }

// Time is a manual clock. Sleep advances it instantly.
type Time struct {
	mu   sync.Mutex
	ms   uint32
	wall time.Time
}

// NewTime returns a clock whose wall time starts at wall.
func NewTime(wall time.Time) *Time {
	return &Time{wall: wall}
}

func (t *Time) Millis() uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ms
}

func (t *Time) Now() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.wall.Add(time.Duration(t.ms) * time.Millisecond)
}

// Advance moves both the monotonic and the wall clock forward.
func (t *Time) Advance(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ms += uint32(d / time.Millisecond)
}

func (t *Time) Sleep(ctx context.Context, d time.Duration) error {
	t.Advance(d)
	return ctx.Err()
}

// Logger keeps every line.
type Logger struct {
	mu    sync.Mutex
	lines []string
}

func (l *Logger) Log(level hal.Level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fmt.Sprintf("%s: %s", level, msg))
}

func (l *Logger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.lines...)
}

// Rig is a kernel wired to doubles.
type Rig struct {
	Kernel *kernel.Kernel
	Panel  *Panel
	Power  *Power
	Time   *Time
	Log    *Logger
	Queue  *event.Queue
}

// Epoch is the wall time a Rig starts at.
var Epoch = time.Date(2024, time.March, 9, 10, 30, 0, 0, time.UTC)

// New returns a booted kernel with a w*h RGB565 display.
func New(tb testing.TB, w, h int) *Rig {
	tb.Helper()
	r := &Rig{
		Panel: &Panel{W: w, H: h},
		Power: &Power{Percent: 80, Celsius: 31},
		Time:  NewTime(Epoch),
		Log:   &Logger{},
		Queue: event.NewQueue(event.MaxEvents),
	}
	d, err := display.New(r.Panel, w, h, surface.RGB565)
	if err != nil {
		tb.Fatalf("display.New() err = %v", err)
	}
	r.Kernel, err = kernel.New(kernel.DefaultConfig(), kernel.Deps{
		Display: d,
		Queue:   r.Queue,
		Power:   r.Power,
		Logger:  r.Log,
		Time:    r.Time,
	})
	if err != nil {
		tb.Fatalf("kernel.New() err = %v", err)
	}
	return r
}

// Step runs one kernel cycle and fails the test on error.
func (r *Rig) Step(tb testing.TB) {
	tb.Helper()
	if err := r.Kernel.Step(context.Background()); err != nil {
		tb.Fatalf("Step() err = %v", err)
	}
}

// Push enqueues events, failing the test when the queue is full.
func (r *Rig) Push(tb testing.TB, events ...event.Event) {
	tb.Helper()
	for _, e := range events {
		if !r.Queue.TryPush(e) {
			tb.Fatalf("queue full")
		}
	}
}

// Tap pushes a touch press and release at (x, y).
func (r *Rig) Tap(tb testing.TB, x, y int16) {
	tb.Helper()
	r.Push(tb,
		event.NewTouch(event.TouchBegin, event.Touch{X: x, Y: y}),
		event.NewTouch(event.TouchEnd, event.Touch{X: x, Y: y}),
	)
}
