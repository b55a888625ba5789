package kernel

import (
	"fancywatch/watchos/event"
	"fancywatch/watchos/surface"
)

// App is a hosted application. Implementations embed Base, which supplies the kernel
// binding and no-op defaults for every callback.
//
// All callbacks run on the kernel goroutine, one at a time.
type App interface {
	// OnStart is called once when the app is registered.
	OnStart(args []string)
	// OnStop is called when the app is killed without force.
	OnStop()
	OnEnterForeground()
	OnEnterBackground()
	// HandleEvent is called for every queued event, foreground or not.
	HandleEvent(e event.Event)
	// Update runs once per cycle while the device is active.
	Update()
	// Render runs once per cycle while the device is active and the app is in the foreground.
	Render(s *surface.Surface)

	base() *Base
}

// Base is embedded by every App.
type Base struct {
	id         int
	foreground bool
	kernel     *Kernel
}

func (b *Base) base() *Base { return b }

// ID returns the app's registry slot, or -1 when it is not running.
func (b *Base) ID() int {
	if b.kernel == nil {
		return -1
	}
	return b.id
}

func (b *Base) IsForeground() bool { return b.foreground }

// Kernel returns the hosting kernel, or nil when the app is not running.
func (b *Base) Kernel() *Kernel { return b.kernel }

func (b *Base) OnStart(args []string)           {}
func (b *Base) OnStop()                         {}
func (b *Base) OnEnterForeground()              {}
func (b *Base) OnEnterBackground()              {}
func (b *Base) HandleEvent(e event.Event)       {}
func (b *Base) Update()                         {}
func (b *Base) Render(s *surface.Surface)       {}
func (b *Base) bind(k *Kernel, id int, fg bool) { b.kernel, b.id, b.foreground = k, id, fg }
func (b *Base) reset()                          { *b = Base{} }
