package kernel

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"fancywatch/hal"
	"fancywatch/watchos/display"
	"fancywatch/watchos/event"
	"fancywatch/watchos/surface"

	"github.com/stretchr/testify/require"
)

type fakePanel struct {
	on, off    int
	presents   int
	presentErr error
}

func (p *fakePanel) Width() int                  { return 8 }
func (p *fakePanel) Height() int                 { return 8 }
func (p *fakePanel) PowerOn() error              { p.on++; return nil }
func (p *fakePanel) PowerOff() error             { p.off++; return nil }
func (p *fakePanel) SetBrightness(l uint8) error { return nil }

func (p *fakePanel) Present(buf []byte, w, h int) error {
	p.presents++
	return p.presentErr
}

type fakePower struct {
	lowPower   []bool
	deepSleeps int
}

func (p *fakePower) IsCharging() (bool, error)     { return false, nil }
func (p *fakePower) BatteryPercent() (int, error)  { return 100, nil }
func (p *fakePower) Temperature() (float32, error) { return 30, nil }
func (p *fakePower) SetLowPower(low bool)          { p.lowPower = append(p.lowPower, low) }
func (p *fakePower) DeepSleep() error              { p.deepSleeps++; return nil }

// fakeTime advances only when slept on or moved explicitly.
type fakeTime struct {
	ms     uint32
	sleeps []time.Duration
}

func (f *fakeTime) Millis() uint32          { return f.ms }
func (f *fakeTime) Now() time.Time          { return time.UnixMilli(int64(f.ms)) }
func (f *fakeTime) advance(d time.Duration) { f.ms += uint32(d / time.Millisecond) }

func (f *fakeTime) Sleep(ctx context.Context, d time.Duration) error {
	f.sleeps = append(f.sleeps, d)
	f.advance(d)
	return ctx.Err()
}

type fakeObserver struct {
	cycles  []CycleStats
	power   []bool
	dropped uint64
}

func (o *fakeObserver) CycleDone(s CycleStats)        { o.cycles = append(o.cycles, s) }
func (o *fakeObserver) PowerStateChanged(active bool) { o.power = append(o.power, active) }
func (o *fakeObserver) EventsDropped(n uint64)        { o.dropped += n }

type lineLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *lineLogger) Log(level hal.Level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fmt.Sprintf("%s: %s", level, msg))
}

// recApp records every callback into a shared journal.
type recApp struct {
	Base
	name    string
	journal *[]string

	events []event.Kind

	onEvent  func(e event.Event)
	onUpdate func()
}

func newRecApp(name string, journal *[]string) *recApp {
	return &recApp{name: name, journal: journal}
}

func (a *recApp) note(what string) {
	if a.journal != nil {
		*a.journal = append(*a.journal, a.name+":"+what)
	}
}

func (a *recApp) OnStart(args []string)   { a.note("start") }
func (a *recApp) OnStop()                 { a.note("stop") }
func (a *recApp) OnEnterForeground()      { a.note("fg") }
func (a *recApp) OnEnterBackground()      { a.note("bg") }
func (a *recApp) Render(*surface.Surface) { a.note("render") }

func (a *recApp) HandleEvent(e event.Event) {
	a.events = append(a.events, e.Kind)
	if a.onEvent != nil {
		a.onEvent(e)
	}
}

func (a *recApp) Update() {
	if a.onUpdate != nil {
		a.onUpdate()
	}
}

type rig struct {
	k     *Kernel
	panel *fakePanel
	power *fakePower
	clock *fakeTime
	obs   *fakeObserver
	log   *lineLogger
	queue *event.Queue
}

func newRig(t *testing.T, cfg Config) *rig {
	t.Helper()
	r := &rig{
		panel: &fakePanel{},
		power: &fakePower{},
		clock: &fakeTime{ms: 1000},
		obs:   &fakeObserver{},
		log:   &lineLogger{},
		queue: event.NewQueue(16),
	}
	d, err := display.New(r.panel, 8, 8, surface.RGB565)
	require.NoError(t, err)
	r.k, err = New(cfg, Deps{
		Display:  d,
		Queue:    r.queue,
		Power:    r.power,
		Logger:   r.log,
		Time:     r.clock,
		Observer: r.obs,
	})
	require.NoError(t, err)
	return r
}

func (r *rig) step(t *testing.T) {
	t.Helper()
	require.NoError(t, r.k.Step(context.Background()))
}

func (r *rig) push(kinds ...event.Kind) {
	for _, k := range kinds {
		r.queue.TryPush(event.Event{Kind: k})
	}
}
