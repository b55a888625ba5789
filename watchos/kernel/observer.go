package kernel

import "time"

// CycleStats summarizes one kernel cycle.
type CycleStats struct {
	// Events is the number of events delivered to apps; Filtered were masked out.
	Events   int
	Filtered int
	Rendered int
	Apps     int
	Busy     time.Duration
	// Overrun is set when the cycle's work took longer than the frame period.
	Overrun       bool
	PresentFailed bool
	Active        bool
}

// Observer receives kernel telemetry. Methods run on the kernel goroutine and must not
// block.
type Observer interface {
	CycleDone(s CycleStats)
	PowerStateChanged(active bool)
	EventsDropped(n uint64)
}

type nopObserver struct{}

func (nopObserver) CycleDone(CycleStats)   {}
func (nopObserver) PowerStateChanged(bool) {}
func (nopObserver) EventsDropped(uint64)   {}
