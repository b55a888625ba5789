package app

import (
	"context"
	"time"

	"fancywatch/hal"
	"fancywatch/watchos/event"
)

// bridge forwards interrupts to the event queue until ctx is done. A full queue drops
// its oldest event; the kernel reports the loss.
func (s *System) bridge(ctx context.Context) error {
	irq := s.h.Interrupts()
	if irq == nil {
		<-ctx.Done()
		return ctx.Err()
	}
	ch := irq.IRQs()
	t := s.h.Time()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case in, ok := <-ch:
			if !ok {
				<-ctx.Done()
				return ctx.Err()
			}
			var now time.Time
			if t != nil {
				now = t.Now()
			}
			e, ok := translate(in, now)
			if !ok {
				hal.Logf(s.log, hal.LevelDebug, "app: ignoring interrupt %d", in.Kind)
				continue
			}
			s.queue.PushDropOldest(e)
		}
	}
}

// translate maps a raw interrupt to a kernel event. Power events leave the battery
// level unknown; apps poll the PMU for it.
func translate(in hal.IRQ, now time.Time) (event.Event, bool) {
	power := func(k event.Kind, charging bool) (event.Event, bool) {
		return event.NewPower(k, event.Power{Charging: charging, BatteryPercent: -1}), true
	}
	touch := func(k event.Kind) (event.Event, bool) {
		return event.NewTouch(k, event.Touch{X: in.X, Y: in.Y}), true
	}

	switch in.Kind {
	case hal.IRQPowerKey:
		return power(event.PowerButton, false)
	case hal.IRQVbusConnect:
		return power(event.PowerConnect, true)
	case hal.IRQVbusRemove:
		return power(event.PowerDisconnect, false)
	case hal.IRQCharging:
		return power(event.PowerCharge, true)
	case hal.IRQChargeDone:
		return power(event.PowerCharge, false)
	case hal.IRQTouchDown:
		return touch(event.TouchBegin)
	case hal.IRQTouchMove:
		return touch(event.TouchChange)
	case hal.IRQTouchUp:
		return touch(event.TouchEnd)
	case hal.IRQTilt:
		return event.NewSensor(event.SensorTilt, event.Sensor{X: in.X, Y: in.Y}), true
	case hal.IRQDoubleTap:
		return event.NewSensor(event.SensorDoubleTap, event.Sensor{}), true
	case hal.IRQStepCount:
		return event.NewSensor(event.SensorStep, event.Sensor{Steps: in.Count}), true
	case hal.IRQAlarm:
		return event.NewClock(event.RTCAlarm, event.Clock{Time: now}), true
	case hal.IRQSecond:
		return event.NewClock(event.RTCTick, event.Clock{Time: now}), true
	default:
		return event.Event{}, false
	}
}
