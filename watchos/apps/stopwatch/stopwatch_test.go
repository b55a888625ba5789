package stopwatch

import (
	"testing"
	"time"

	"fancywatch/watchos/gui"
	"fancywatch/watchos/kernel/kerneltest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	tcs := []struct {
		ms   uint32
		want string
	}{
		{0, "00:00.00"},
		{1234, "00:01.23"},
		{61_005, "01:01.00"},
		{3_600_000 + 500, "00:00.50"},
	}
	for _, tc := range tcs {
		assert.Equal(t, tc.want, Format(tc.ms), "Format(%d)", tc.ms)
	}
}

func tap(t *testing.T, r *kerneltest.Rig, b *gui.Button) {
	t.Helper()
	bounds := b.Bounds()
	r.Tap(t, bounds.X+bounds.W/2, bounds.Y+bounds.H/2)
}

func TestStopwatchStartPauseResumeReset(t *testing.T) {
	r := kerneltest.New(t, 240, 240)
	s := New()
	require.Equal(t, 0, r.Kernel.StartApp(s, true))
	r.Step(t)
	assert.Equal(t, "START", s.toggle.Label().Text())

	tap(t, r, s.toggle)
	r.Step(t)
	assert.True(t, s.timer.Started())
	assert.Equal(t, "PAUSE", s.toggle.Label().Text())
	assert.False(t, s.toggle.Label().Dirty(), "new label is drawn in the same cycle")

	r.Time.Advance(1500 * time.Millisecond)
	tap(t, r, s.toggle)
	r.Step(t)
	assert.True(t, s.timer.Paused())
	paused := s.Elapsed()
	assert.GreaterOrEqual(t, paused, uint32(1500))
	assert.Equal(t, "GO ON", s.toggle.Label().Text())

	r.Time.Advance(time.Second)
	r.Step(t)
	assert.Equal(t, paused, s.Elapsed(), "paused stopwatch holds its reading")
	assert.Equal(t, Format(paused), s.readout.Text())

	tap(t, r, s.toggle)
	r.Step(t)
	assert.False(t, s.timer.Paused())
	assert.Greater(t, s.Elapsed(), paused)

	tap(t, r, s.reset)
	r.Step(t)
	assert.False(t, s.timer.Started())
	assert.Zero(t, s.Elapsed())
	assert.Equal(t, "START", s.toggle.Label().Text())
}

func TestStopwatchIgnoresTouchesInBackground(t *testing.T) {
	r := kerneltest.New(t, 240, 240)
	s := New()
	r.Kernel.StartApp(s, false)
	tap(t, r, s.toggle)
	r.Step(t)
	assert.False(t, s.timer.Started())
}
