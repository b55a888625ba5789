// Package clock provides the relative-time primitives used for frame pacing and
// app-internal timing: a scalable, optionally wrapping Clock and a stopwatch Timer.
package clock

import (
	"math"
	"time"
)

// Source reports absolute monotonic time in milliseconds.
type Source interface {
	Millis() uint32
}

type monotonic struct{}

var bootTime = time.Now()

func (monotonic) Millis() uint32 {
	return uint32(time.Since(bootTime) / time.Millisecond)
}

// Monotonic is the process-wide absolute time source.
var Monotonic Source = monotonic{}

// Clock measures relative time passed, stretched by a signed scale factor.
//
// With a non-zero wrap value the position stays in [0, wrap) and an overflow term
// keeps DeltaTime continuous across the boundary.
type Clock struct {
	initial  uint32
	time     uint32
	previous uint32
	scale    float64
	paused   bool
	wrap     uint32
	// overflow is the signed distance added by wrapping during the last update.
	overflow int64
}

// New returns a clock that began at the absolute time startMS.
func New(startMS uint32) *Clock {
	return &Clock{initial: startMS, scale: 1}
}

// Update advances the clock by dt of real time, scaled. It reports whether the
// position wrapped. A paused clock does not move; a zero scale freezes time without
// pausing.
func (c *Clock) Update(dt time.Duration) bool {
	if c.paused {
		return false
	}
	change := math.Round(c.scale * float64(dt) / float64(time.Millisecond))
	return c.advance(int64(change))
}

// StepFrames moves the clock by frames*period regardless of pause state and scale.
// Negative frame counts step backward.
func (c *Clock) StepFrames(frames int, period time.Duration) bool {
	change := math.Round(float64(frames) * float64(period) / float64(time.Millisecond))
	return c.advance(int64(change))
}

func (c *Clock) advance(change int64) bool {
	c.previous = c.time
	c.overflow = 0

	if c.wrap == 0 {
		next := int64(c.time) + change
		if next < 0 {
			// Reversed clocks without wrapping clamp at zero.
			next = 0
		}
		if next > math.MaxUint32 {
			next = math.MaxUint32
		}
		c.time = uint32(next)
		return false
	}

	w := int64(c.wrap)
	sum := int64(c.time) + change
	wraps := sum / w
	if sum < 0 && sum%w != 0 {
		wraps--
	}
	c.time = uint32(sum - wraps*w)
	c.overflow = wraps * w
	return wraps != 0
}

// SetPaused pauses or resumes the clock.
func (c *Clock) SetPaused(pause bool) { c.paused = pause }

// Paused reports whether the clock is paused.
func (c *Clock) Paused() bool { return c.paused }

// Scale sets the time scale factor. Negative values run time backward.
func (c *Clock) Scale(f float64) { c.scale = f }

// ScaleFactor returns the time scale factor.
func (c *Clock) ScaleFactor() float64 { return c.scale }

// Time returns the relative time passed in milliseconds.
func (c *Clock) Time() uint32 { return c.time }

// Millis makes a Clock usable as a Timer source.
func (c *Clock) Millis() uint32 { return c.time }

// InitialTime returns the absolute time at which the clock began.
func (c *Clock) InitialTime() uint32 { return c.initial }

// DeltaTime returns the relative time difference produced by the last update.
func (c *Clock) DeltaTime() time.Duration {
	if c.paused {
		return 0
	}
	ms := int64(c.time) - int64(c.previous) + c.overflow
	return time.Duration(ms) * time.Millisecond
}

// SetTime moves the clock to pos and zeroes DeltaTime.
func (c *Clock) SetTime(pos uint32) {
	if c.wrap != 0 {
		pos %= c.wrap
	}
	c.time = pos
	c.previous = pos
	c.overflow = 0
}

// SetWrap makes the clock wrap around at value. Zero disables wrapping.
func (c *Clock) SetWrap(value uint32) {
	c.wrap = value
	if value != 0 && c.time >= value {
		c.SetTime(c.time % value)
	}
}

// Wrap returns the wraparound value.
func (c *Clock) Wrap() uint32 { return c.wrap }

// WrapInt wraps n+change into the inclusive range [min, max].
func WrapInt(n, change, min, max int) int {
	span := max - min + 1
	if span <= 0 {
		return min
	}
	v := (n - min + change) % span
	if v < 0 {
		v += span
	}
	return v + min
}

// Millis converts seconds to milliseconds.
func Millis(seconds float64) uint32 {
	return uint32(seconds * 1000)
}

// Seconds converts milliseconds to seconds.
func Seconds(ms uint32) float64 {
	return float64(ms) / 1000
}
