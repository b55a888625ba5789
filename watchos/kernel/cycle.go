package kernel

import (
	"context"
	"time"

	"fancywatch/hal"
)

// Step runs one kernel cycle:
//
//  1. drain the event queue, delivering every enabled event to every app in order
//  2. while active, Update every app and Render foreground apps, latest registered first
//  3. present the render surface
//  4. remove apps killed during the cycle
//  5. sleep out the rest of the frame period
//  6. apply a pending sleep request
//
// Step never blocks on device sleep; see Run.
func (k *Kernel) Step(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	k.mu.Lock()
	if k.halted {
		k.mu.Unlock()
		return ErrHalted
	}
	k.frame.Start()
	stats := k.cycle()
	k.mu.Unlock()

	busy := time.Duration(k.frame.Ticks()) * time.Millisecond
	stats.Busy = busy
	stats.Overrun = busy > k.cfg.FramePeriod
	if wait := k.cfg.FramePeriod - busy; wait > 0 {
		if err := k.time.Sleep(ctx, wait); err != nil {
			return err
		}
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	k.checkInactivity()
	err := k.applySleep()
	stats.Active = k.active
	k.obs.CycleDone(stats)
	return err
}

// Run steps the kernel until ctx is done or the device enters deep sleep, in which case
// it returns ErrDeepSleep. While the device sleeps Run blocks until an event arrives.
func (k *Kernel) Run(ctx context.Context) error {
	hal.Logf(k.log, hal.LevelInfo, "kernel: running (%d apps)", k.AppCount())
	for {
		k.mu.Lock()
		halted, active := k.halted, k.active
		k.mu.Unlock()
		if halted {
			return ErrDeepSleep
		}
		if !active {
			if err := k.queue.Wait(ctx); err != nil {
				return err
			}
		}
		if err := k.Step(ctx); err != nil {
			return err
		}
	}
}

func (k *Kernel) cycle() CycleStats {
	var stats CycleStats
	k.inCycle = true

	for {
		e, ok := k.queue.Pop()
		if !ok {
			break
		}
		if !e.Kind.In(k.enabled) {
			stats.Filtered++
			continue
		}
		if e.Kind.In(activityKinds) {
			k.lastEvent = k.time.Millis()
		}
		k.handleSystemEvent(e)
		for i := 0; i < k.count; i++ {
			app := k.apps[i].app
			k.call(i, "HandleEvent", func() { app.HandleEvent(e) })
		}
		stats.Events++
	}
	if d := k.queue.Dropped(); d > k.dropped {
		hal.Logf(k.log, hal.LevelWarn, "kernel: %d events dropped", d-k.dropped)
		k.obs.EventsDropped(d - k.dropped)
		k.dropped = d
	}

	if k.active {
		for i := 0; i < k.count; i++ {
			k.call(i, "Update", k.apps[i].app.Update)
		}
		surf := k.display.Surface()
		for i := k.count - 1; i >= 0; i-- {
			app := k.apps[i].app
			if k.apps[i].dead || !app.base().foreground {
				continue
			}
			k.call(i, "Render", func() { app.Render(surf) })
			stats.Rendered++
		}
		if err := k.display.Present(); err != nil {
			hal.Logf(k.log, hal.LevelWarn, "kernel: present: %v", err)
			stats.PresentFailed = true
		}
	}

	k.compact()
	k.inCycle = false
	stats.Apps = k.count
	return stats
}
