// Package app boots the watch: it allocates the display, starts the kernel with the
// stock apps, and bridges hardware interrupts into the kernel's event queue.
package app

import (
	"context"
	"errors"
	"fmt"

	"fancywatch/hal"
	"fancywatch/watchos/apps/console"
	"fancywatch/watchos/apps/homestead"
	"fancywatch/watchos/apps/launcher"
	"fancywatch/watchos/apps/stopwatch"
	"fancywatch/watchos/display"
	"fancywatch/watchos/event"
	"fancywatch/watchos/kernel"
	"fancywatch/watchos/surface"

	"golang.org/x/sync/errgroup"
)

// Config selects what the system boots.
type Config struct {
	Kernel kernel.Config

	// ConsoleRows is the height of the log overlay in text rows. Zero hides it.
	ConsoleRows int
	// ConsoleLevel is the lowest level shown on the overlay.
	ConsoleLevel hal.Level

	// Observer receives kernel statistics. Nil disables them.
	Observer kernel.Observer
}

// DefaultConfig returns the stock firmware settings: no overlay, stock kernel tuning.
func DefaultConfig() Config {
	return Config{
		Kernel:       kernel.DefaultConfig(),
		ConsoleLevel: hal.LevelWarn,
	}
}

// System is a booted watch.
type System struct {
	h        hal.HAL
	log      hal.Logger
	k        *kernel.Kernel
	queue    *event.Queue
	panic    *panicScreen
	launcher *launcher.Launcher
}

// newFace builds the default watch face.
var newFace = func() launcher.Face { return homestead.New() }

// New boots the system on h. On failure the panel is left powered off.
func New(h hal.HAL, cfg Config) (*System, error) {
	if h == nil {
		return nil, errors.New("app: nil HAL")
	}
	panel := h.Panel()
	if panel == nil {
		return nil, display.ErrNoPanel
	}

	pools := memoryPools(h)
	log := h.Logger()
	var sink *console.Sink
	if cfg.ConsoleRows > 0 {
		sink = console.NewSink(0, cfg.ConsoleLevel)
		log = hal.Tee(log, sink)
	}

	d, err := display.New(panel, panel.Width(), panel.Height(), surface.RGB565, pools...)
	if err != nil {
		hal.Logf(log, hal.LevelError, "app: render buffer: %v", err)
		return nil, fmt.Errorf("app: %w", err)
	}

	s := &System{h: h, log: log, queue: event.NewQueue(cfg.Kernel.QueueSize)}
	s.k, err = kernel.New(cfg.Kernel, kernel.Deps{
		Display:    d,
		Queue:      s.queue,
		Power:      h.Power(),
		Interrupts: h.Interrupts(),
		Logger:     log,
		Time:       h.Time(),
		Observer:   cfg.Observer,
	})
	if err != nil {
		_ = d.Destroy()
		return nil, fmt.Errorf("app: %w", err)
	}
	s.panic = &panicScreen{}
	s.k.StartApp(s.panic, false)
	installPanicHandler(s)

	// The overlay registers before the faces so it renders over them.
	if sink != nil {
		s.k.StartApp(console.New(sink, cfg.ConsoleRows, pools...), true)
	}
	face := newFace()
	watch := stopwatch.New()
	if s.k.StartApp(face, true) < 0 {
		_ = s.k.Close()
		return nil, errors.New("app: watch face failed to start")
	}
	s.k.StartApp(watch, false)
	s.launcher = launcher.New(face, watch)
	s.k.StartApp(s.launcher, false)

	hal.Logf(log, hal.LevelInfo, "app: booted %dx%d with %d apps", panel.Width(), panel.Height(), s.k.AppCount())
	return s, nil
}

func memoryPools(h hal.HAL) []surface.Pool {
	var pools []surface.Pool
	for _, a := range h.Memory() {
		if a != nil {
			pools = append(pools, a)
		}
	}
	return pools
}

// Kernel returns the running kernel.
func (s *System) Kernel() *kernel.Kernel { return s.k }

// Launcher returns the face switcher.
func (s *System) Launcher() *launcher.Launcher { return s.launcher }

// Run drives the kernel and the interrupt bridge until ctx is done or the device enters
// deep sleep.
func (s *System) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.bridge(gctx) })
	g.Go(func() error { return s.k.Run(gctx) })
	return g.Wait()
}

// Close stops every app and releases the display.
func (s *System) Close() error {
	return s.k.Close()
}

// Runner adapts New and Run to the host runners.
func Runner(h hal.HAL, cfg Config) (hal.Runner, error) {
	s, err := New(h, cfg)
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context) error {
		defer s.Close()
		err := s.Run(ctx)
		if errors.Is(err, kernel.ErrDeepSleep) {
			hal.Logf(s.log, hal.LevelInfo, "app: powered down")
			return nil
		}
		return err
	}, nil
}

// Main boots on h and runs until deep sleep. On hardware deep sleep does not return.
func Main(h hal.HAL, cfg Config) error {
	run, err := Runner(h, cfg)
	if err != nil {
		return err
	}
	return run(context.Background())
}
