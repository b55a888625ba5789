package kernel

import (
	"time"

	"fancywatch/hal"
	"fancywatch/watchos/event"
)

// wakeKinds re-activate a sleeping device.
const wakeKinds = event.PowerButton | event.PowerConnect | event.PowerDisconnect | event.PowerCharge

// sleepDisabledKinds are ignored while the device sleeps.
const sleepDisabledKinds = event.TouchKinds

// activityKinds come from the user and restart the inactivity timeout. Clock ticks and
// step counts arrive on their own and do not keep the device awake.
const activityKinds = event.PowerKinds | event.TouchKinds | event.SensorDoubleTap | event.SensorTilt

// EnterSleep requests the sleeping state at the end of the current cycle. The request is
// dropped if the device has not been active for a full cycle yet.
func (k *Kernel) EnterSleep() {
	k.sleepPending = true
}

// DeepSleep requests deep sleep at the end of the current cycle. Deep sleep powers the
// panel off and halts the kernel; only a hardware wake (a restart) leaves it.
func (k *Kernel) DeepSleep() {
	k.deepPending = true
}

// Active reports whether the device is awake.
func (k *Kernel) Active() bool { return k.active }

// Halted reports whether the kernel has entered deep sleep.
func (k *Kernel) Halted() bool { return k.halted }

func (k *Kernel) EnableEvents(mask event.Kind)  { k.enabled |= mask }
func (k *Kernel) DisableEvents(mask event.Kind) { k.enabled &^= mask }
func (k *Kernel) EnabledEvents() event.Kind     { return k.enabled }

func (k *Kernel) handleSystemEvent(e event.Event) {
	switch {
	case !k.active && e.Kind.In(wakeKinds):
		hal.Logf(k.log, hal.LevelInfo, "kernel: wake on %v", e.Kind)
		k.setActive(true)
	case e.Kind == event.PowerButton && k.wasActive:
		k.EnterSleep()
	}
}

// setActive switches between full operation and the low-power state. Going inactive is
// refused unless the device was active for the whole previous cycle.
func (k *Kernel) setActive(active bool) bool {
	if !active {
		if !k.wasActive {
			return false
		}
		k.wasActive = false
	}
	if k.active == active {
		return true
	}
	k.active = active

	if active {
		if k.power != nil {
			k.power.SetLowPower(false)
		}
		if err := k.display.Enable(); err != nil {
			hal.Logf(k.log, hal.LevelError, "kernel: display enable: %v", err)
		}
		if k.irq != nil {
			k.irq.SetTouchMonitor(true)
		}
		k.EnableEvents(sleepDisabledKinds)
		k.lastEvent = k.time.Millis()
		hal.Logf(k.log, hal.LevelInfo, "kernel: active")
	} else {
		k.DisableEvents(sleepDisabledKinds)
		if k.irq != nil {
			k.irq.SetTouchMonitor(false)
		}
		if err := k.display.Disable(); err != nil {
			hal.Logf(k.log, hal.LevelError, "kernel: display disable: %v", err)
		}
		if k.power != nil {
			k.power.SetLowPower(true)
		}
		hal.Logf(k.log, hal.LevelInfo, "kernel: entering sleep mode")
	}
	k.obs.PowerStateChanged(active)
	return true
}

func (k *Kernel) checkInactivity() {
	if !k.active || !k.wasActive || k.cfg.InactivityTimeout <= 0 {
		return
	}
	idle := time.Duration(k.time.Millis()-k.lastEvent) * time.Millisecond
	if idle >= k.cfg.InactivityTimeout {
		hal.Logf(k.log, hal.LevelDebug, "kernel: idle for %v", idle)
		k.EnterSleep()
	}
}

// applySleep evaluates pending sleep requests at the end of a cycle.
func (k *Kernel) applySleep() error {
	if k.deepPending {
		k.deepPending = false
		k.enterDeepSleep()
		return ErrDeepSleep
	}
	if k.sleepPending {
		k.sleepPending = false
		if k.active && k.setActive(false) {
			return nil
		}
	}
	if k.active {
		k.wasActive = true
	}
	return nil
}

func (k *Kernel) enterDeepSleep() {
	hal.Logf(k.log, hal.LevelInfo, "kernel: entering deep sleep")
	wasActive := k.active
	k.active = false
	k.wasActive = false
	k.halted = true
	k.enabled = 0
	if k.irq != nil {
		k.irq.SetTouchMonitor(false)
	}
	if err := k.display.Disable(); err != nil {
		hal.Logf(k.log, hal.LevelError, "kernel: display disable: %v", err)
	}
	if k.power != nil {
		if err := k.power.DeepSleep(); err != nil {
			hal.Logf(k.log, hal.LevelError, "kernel: deep sleep: %v", err)
		}
	}
	if wasActive {
		k.obs.PowerStateChanged(false)
	}
}
