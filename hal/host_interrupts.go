//go:build !tinygo

package hal

import "sync/atomic"

type hostInterrupts struct {
	ch    chan IRQ
	touch atomic.Bool
}

func newHostInterrupts() *hostInterrupts {
	irq := &hostInterrupts{ch: make(chan IRQ, 64)}
	irq.touch.Store(true)
	return irq
}

func (i *hostInterrupts) IRQs() <-chan IRQ { return i.ch }

func (i *hostInterrupts) SetTouchMonitor(on bool) { i.touch.Store(on) }

// emit delivers an interrupt without blocking; a full line drops it like a missed edge.
func (i *hostInterrupts) emit(irq IRQ) bool {
	switch irq.Kind {
	case IRQTouchDown, IRQTouchMove, IRQTouchUp:
		if !i.touch.Load() {
			return false
		}
	}
	select {
	case i.ch <- irq:
		return true
	default:
		return false
	}
}
