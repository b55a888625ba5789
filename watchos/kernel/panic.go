package kernel

import (
	"sync"
	"sync/atomic"

	"fancywatch/hal"
)

// PanicInfo contains details about a panic recovered from an app callback.
type PanicInfo struct {
	AppID    int
	Callback string
	Value    any
	Stack    []byte
}

var (
	panicActive atomic.Bool
	panicOnce   sync.Once

	panicHandler atomic.Value // func(PanicInfo)
)

// InPanicMode reports whether an app has panicked since boot.
func InPanicMode() bool {
	return panicActive.Load()
}

// SetPanicHandler installs a process-wide panic handler.
//
// The handler is invoked at most once (on the first panic), on the kernel goroutine with
// the kernel lock held. It must not panic.
func SetPanicHandler(fn func(PanicInfo)) {
	panicHandler.Store(fn)
}

func triggerPanic(info PanicInfo) {
	panicOnce.Do(func() {
		panicActive.Store(true)
		info.Stack = captureStack()
		if v := panicHandler.Load(); v != nil {
			if fn, ok := v.(func(PanicInfo)); ok && fn != nil {
				fn(info)
			}
		}
	})
}

// call runs an app callback unless the app is dead. A panic force-kills the app.
func (k *Kernel) call(id int, name string, fn func()) {
	if id < 0 || id >= k.count || k.apps[id].dead {
		return
	}
	app := k.apps[id].app
	defer func() {
		if r := recover(); r != nil {
			hal.Logf(k.log, hal.LevelError, "kernel: application[%d] panicked in %s: %v", id, name, r)
			k.KillApp(app.base().ID(), true)
			triggerPanic(PanicInfo{AppID: id, Callback: name, Value: r})
		}
	}()
	fn()
}

// invoke runs a callback of an app that is already being removed.
func (k *Kernel) invoke(id int, name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			hal.Logf(k.log, hal.LevelError, "kernel: application[%d] panicked in %s: %v", id, name, r)
			triggerPanic(PanicInfo{AppID: id, Callback: name, Value: r})
		}
	}()
	fn()
}
