package clock

// Timer is a stopwatch over a Source. It only measures forward time; use a Clock with
// a negative scale for reversible timelines.
//
// The zero Timer measures against Monotonic. Copying a Timer copies its state and
// shares the source.
type Timer struct {
	src         Source
	startTicks  uint32
	pausedTicks uint32
	started     bool
	paused      bool
}

// NewTimer returns a timer ticking with src; nil selects Monotonic.
func NewTimer(src Source) *Timer {
	return &Timer{src: src}
}

func (t *Timer) now() uint32 {
	if t.src == nil {
		return Monotonic.Millis()
	}
	return t.src.Millis()
}

// Start captures the reference tick and clears any pause.
func (t *Timer) Start() {
	t.started = true
	t.paused = false
	t.pausedTicks = 0
	t.startTicks = t.now()
}

// Stop resets the timer.
func (t *Timer) Stop() {
	t.started = false
	t.paused = false
	t.startTicks = 0
	t.pausedTicks = 0
}

// Pause freezes the elapsed ticks.
func (t *Timer) Pause() {
	if !t.started || t.paused {
		return
	}
	t.paused = true
	t.pausedTicks = t.now() - t.startTicks
	t.startTicks = 0
}

// Resume continues counting from the frozen elapsed ticks.
func (t *Timer) Resume() {
	if !t.started || !t.paused {
		return
	}
	t.paused = false
	t.startTicks = t.now() - t.pausedTicks
	t.pausedTicks = 0
}

// Ticks returns the elapsed milliseconds since Start, excluding paused spans.
func (t *Timer) Ticks() uint32 {
	switch {
	case !t.started:
		return 0
	case t.paused:
		return t.pausedTicks
	default:
		return t.now() - t.startTicks
	}
}

func (t *Timer) Started() bool { return t.started }
func (t *Timer) Paused() bool  { return t.paused }
