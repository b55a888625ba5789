// Package kernel hosts the watch apps: it owns the app registry, drains the event queue,
// paces frames, and moves the device between its active and sleeping states.
package kernel

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"fancywatch/hal"
	"fancywatch/watchos/clock"
	"fancywatch/watchos/display"
	"fancywatch/watchos/event"
)

// MaxApps is the number of registry slots.
const MaxApps = 16

const (
	DefaultFramePeriod       = 33 * time.Millisecond
	DefaultInactivityTimeout = 15 * time.Second
	DefaultBrightness        = 0.5
)

var (
	// ErrHalted is returned by Step once the kernel has entered deep sleep.
	ErrHalted = errors.New("kernel: halted")
	// ErrDeepSleep is returned by the cycle that enters deep sleep and by Run.
	ErrDeepSleep = errors.New("kernel: deep sleep")
)

// Config tunes the kernel loop.
type Config struct {
	// FramePeriod is the target cycle length. Zero selects DefaultFramePeriod.
	FramePeriod time.Duration
	// InactivityTimeout puts the device to sleep after this long without a processed
	// event. Zero disables the timeout.
	InactivityTimeout time.Duration
	// QueueSize is used when Deps.Queue is nil. Zero selects event.MaxEvents.
	QueueSize int
	// Brightness is the backlight level set at boot, 0..1. Zero selects DefaultBrightness.
	Brightness float32
}

// DefaultConfig returns the stock watch settings.
func DefaultConfig() Config {
	return Config{
		FramePeriod:       DefaultFramePeriod,
		InactivityTimeout: DefaultInactivityTimeout,
		QueueSize:         event.MaxEvents,
		Brightness:        DefaultBrightness,
	}
}

// Deps are the collaborators the kernel drives. Display and Time are required.
type Deps struct {
	Display    *display.Display
	Queue      *event.Queue
	Power      hal.Power
	Interrupts hal.Interrupts
	Logger     hal.Logger
	Time       hal.Time
	Observer   Observer
}

type slot struct {
	app App
	// dead apps get no further callbacks and are removed at the end of the cycle.
	dead bool
	// stop requests OnStop before removal.
	stop bool
}

// Kernel is the app host. Step and Run must be called from a single goroutine; other
// goroutines reach kernel state through RunSystemTask.
type Kernel struct {
	mu sync.Mutex

	cfg     Config
	display *display.Display
	queue   *event.Queue
	power   hal.Power
	irq     hal.Interrupts
	log     hal.Logger
	time    hal.Time
	obs     Observer

	apps        [MaxApps]slot
	count       int
	inCycle     bool
	pendingKill bool

	active       bool
	wasActive    bool
	sleepPending bool
	deepPending  bool
	halted       bool

	enabled   event.Kind
	lastEvent uint32
	dropped   uint64
	frame     *clock.Timer
}

// New creates a kernel and activates the device.
func New(cfg Config, deps Deps) (*Kernel, error) {
	if deps.Display == nil {
		return nil, errors.New("kernel: missing display")
	}
	if deps.Time == nil {
		return nil, errors.New("kernel: missing time source")
	}
	if cfg.FramePeriod <= 0 {
		cfg.FramePeriod = DefaultFramePeriod
	}
	if cfg.Brightness <= 0 {
		cfg.Brightness = DefaultBrightness
	}
	if deps.Queue == nil {
		deps.Queue = event.NewQueue(cfg.QueueSize)
	}
	if deps.Observer == nil {
		deps.Observer = nopObserver{}
	}

	k := &Kernel{
		cfg:     cfg,
		display: deps.Display,
		queue:   deps.Queue,
		power:   deps.Power,
		irq:     deps.Interrupts,
		log:     deps.Logger,
		time:    deps.Time,
		obs:     deps.Observer,
		enabled: event.AllKinds,
		frame:   clock.NewTimer(deps.Time),
	}
	k.setActive(true)
	if err := k.display.SetBrightness(cfg.Brightness); err != nil {
		hal.Logf(k.log, hal.LevelWarn, "kernel: brightness: %v", err)
	}
	k.frame.Start()
	return k, nil
}

// StartApp registers app and calls its OnStart. It returns the app's id, or -1 when app
// is nil, already running, or the registry is full.
//
// Registry calls must run on the kernel goroutine: from an app callback, before Run, or
// inside RunSystemTask.
func (k *Kernel) StartApp(app App, foreground bool, args ...string) int {
	if app == nil {
		hal.Logf(k.log, hal.LevelError, "kernel: cannot start nil application")
		return -1
	}
	b := app.base()
	if b.kernel != nil {
		hal.Logf(k.log, hal.LevelError, "kernel: application already running as [%d]", b.id)
		return -1
	}
	if k.count >= MaxApps {
		hal.Logf(k.log, hal.LevelError, "kernel: failed to start application: %d applications already running", MaxApps)
		return -1
	}

	id := k.count
	k.apps[id] = slot{app: app}
	k.count++
	b.bind(k, id, foreground)

	hal.Logf(k.log, hal.LevelInfo, "kernel: starting application[%d]", id)
	k.call(id, "OnStart", func() { app.OnStart(args) })
	if b.kernel != k || k.apps[b.id].dead {
		return -1
	}
	return b.id
}

// KillApp removes the app with the given id and returns it, or nil if no app runs there.
// Unless force is set, OnStop is called first.
//
// During a cycle the app stops receiving callbacks immediately and is removed at the end
// of the cycle; ids of later apps shift down by one at that point.
func (k *Kernel) KillApp(id int, force bool) App {
	if id < 0 || id >= k.count {
		return nil
	}
	s := &k.apps[id]
	if s.app == nil || s.dead {
		return nil
	}
	app := s.app
	hal.Logf(k.log, hal.LevelInfo, "kernel: killing application[%d] force=%t", id, force)
	if k.inCycle {
		s.dead = true
		s.stop = !force
		k.pendingKill = true
		return app
	}
	if !force {
		k.call(id, "OnStop", app.OnStop)
	}
	// A panicking OnStop has already removed the app.
	if b := app.base(); b.kernel == k {
		k.removeAt(b.id)
	}
	return app
}

func (k *Kernel) removeAt(id int) {
	if id < 0 || id >= k.count {
		return
	}
	app := k.apps[id].app
	copy(k.apps[id:k.count], k.apps[id+1:k.count])
	k.count--
	k.apps[k.count] = slot{}
	for i := id; i < k.count; i++ {
		k.apps[i].app.base().id = i
	}
	app.base().reset()
}

// compact runs deferred OnStop calls and removes dead apps, preserving the order of the
// rest. OnStop may kill further apps; those are handled in the same pass.
func (k *Kernel) compact() {
	for k.pendingKill {
		k.pendingKill = false
		for i := 0; i < k.count; i++ {
			s := &k.apps[i]
			if s.dead && s.stop {
				s.stop = false
				k.invoke(i, "OnStop", s.app.OnStop)
			}
		}
	}

	n := 0
	for i := 0; i < k.count; i++ {
		s := k.apps[i]
		if s.dead {
			s.app.base().reset()
			continue
		}
		s.app.base().id = n
		k.apps[n] = s
		n++
	}
	for i := n; i < k.count; i++ {
		k.apps[i] = slot{}
	}
	k.count = n
}

// SetForeground moves an app between foreground and background, notifying it on change.
func (k *Kernel) SetForeground(id int, foreground bool) {
	if id < 0 || id >= k.count || k.apps[id].dead {
		return
	}
	app := k.apps[id].app
	b := app.base()
	if b.foreground == foreground {
		return
	}
	b.foreground = foreground
	if foreground {
		k.call(id, "OnEnterForeground", app.OnEnterForeground)
	} else {
		k.call(id, "OnEnterBackground", app.OnEnterBackground)
	}
}

// App returns the running app with the given id, or nil.
func (k *Kernel) App(id int) App {
	if id < 0 || id >= k.count || k.apps[id].dead {
		return nil
	}
	return k.apps[id].app
}

// AppCount returns the number of occupied registry slots.
func (k *Kernel) AppCount() int { return k.count }

// RunSystemTask runs fn serialized with the kernel cycle. It blocks until fn returns.
// fn must be short and must not be called from an app callback.
func (k *Kernel) RunSystemTask(fn func()) {
	k.mu.Lock()
	defer k.mu.Unlock()
	fn()
}

func (k *Kernel) Display() *display.Display { return k.display }
func (k *Kernel) Queue() *event.Queue       { return k.queue }
func (k *Kernel) Power() hal.Power          { return k.power }
func (k *Kernel) Logger() hal.Logger        { return k.log }
func (k *Kernel) Config() Config            { return k.cfg }

// Now returns the wall clock time.
func (k *Kernel) Now() time.Time { return k.time.Now() }

// Millis returns monotonic milliseconds since boot.
func (k *Kernel) Millis() uint32 { return k.time.Millis() }

// Close stops every app and releases the display.
func (k *Kernel) Close() error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.inCycle = true
	for k.count > 0 {
		id := k.count - 1
		app := k.apps[id].app
		if !k.apps[id].dead {
			k.invoke(id, "OnStop", app.OnStop)
		}
		k.removeAt(id)
	}
	k.inCycle = false
	k.pendingKill = false
	if err := k.display.Destroy(); err != nil {
		return fmt.Errorf("kernel: close: %w", err)
	}
	return nil
}
