package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClockForwardWrapKeepsDeltaContinuous(t *testing.T) {
	c := New(0)
	c.SetWrap(1000)
	c.SetTime(300)

	wrapped := c.Update(1250 * time.Millisecond)

	require.True(t, wrapped)
	assert.Equal(t, uint32(550), c.Time())
	assert.Equal(t, 1250*time.Millisecond, c.DeltaTime())
}

func TestClockWrapWithinOnePeriod(t *testing.T) {
	c := New(0)
	c.SetWrap(1000)
	c.SetTime(900)

	require.True(t, c.Update(200*time.Millisecond))
	assert.Equal(t, uint32(100), c.Time())
	assert.Equal(t, 200*time.Millisecond, c.DeltaTime())

	require.False(t, c.Update(100*time.Millisecond))
	assert.Equal(t, uint32(200), c.Time())
	assert.Equal(t, 100*time.Millisecond, c.DeltaTime())
}

func TestClockReverseWrap(t *testing.T) {
	c := New(0)
	c.SetWrap(1000)
	c.SetTime(100)
	c.Scale(-1)

	require.True(t, c.Update(300*time.Millisecond))
	assert.Equal(t, uint32(800), c.Time())
	assert.Equal(t, -300*time.Millisecond, c.DeltaTime())
}

func TestClockReverseWithoutWrapClampsAtZero(t *testing.T) {
	c := New(0)
	c.SetTime(100)
	c.Scale(-1)

	assert.False(t, c.Update(300*time.Millisecond))
	assert.Equal(t, uint32(0), c.Time())
	assert.Equal(t, -100*time.Millisecond, c.DeltaTime())
}

func TestClockZeroScaleFreezesWithoutPausing(t *testing.T) {
	c := New(0)
	c.SetTime(42)
	c.Scale(0)

	c.Update(time.Second)

	assert.Equal(t, uint32(42), c.Time())
	assert.False(t, c.Paused())
	assert.Equal(t, time.Duration(0), c.DeltaTime())
}

func TestClockPaused(t *testing.T) {
	c := New(0)
	c.Update(50 * time.Millisecond)
	c.SetPaused(true)

	assert.False(t, c.Update(time.Second))
	assert.Equal(t, uint32(50), c.Time())
	assert.Equal(t, time.Duration(0), c.DeltaTime())
}

func TestClockScaled(t *testing.T) {
	c := New(1000)
	c.Scale(2.5)
	c.Update(100 * time.Millisecond)

	assert.Equal(t, uint32(250), c.Time())
	assert.Equal(t, uint32(1000), c.InitialTime())
	assert.Equal(t, 2.5, c.ScaleFactor())
}

func TestClockStepFramesIgnoresPause(t *testing.T) {
	c := New(0)
	c.SetPaused(true)
	c.StepFrames(3, 10*time.Millisecond)
	assert.Equal(t, uint32(30), c.Time())

	c.StepFrames(-1, 10*time.Millisecond)
	assert.Equal(t, uint32(20), c.Time())
}

func TestClockSetWrapFoldsPosition(t *testing.T) {
	c := New(0)
	c.SetTime(2500)
	c.SetWrap(1000)
	assert.Equal(t, uint32(500), c.Time())
	assert.Equal(t, uint32(1000), c.Wrap())
}

func TestTimerOnClockSource(t *testing.T) {
	c := New(0)
	tm := NewTimer(c)

	assert.Equal(t, uint32(0), tm.Ticks())

	tm.Start()
	c.Update(100 * time.Millisecond)
	assert.Equal(t, uint32(100), tm.Ticks())

	tm.Pause()
	c.Update(500 * time.Millisecond)
	assert.True(t, tm.Paused())
	assert.Equal(t, uint32(100), tm.Ticks())

	tm.Resume()
	c.Update(50 * time.Millisecond)
	assert.Equal(t, uint32(150), tm.Ticks())

	tm.Stop()
	assert.False(t, tm.Started())
	assert.Equal(t, uint32(0), tm.Ticks())
}

func TestTimerCopyIsIndependent(t *testing.T) {
	c := New(0)
	a := NewTimer(c)
	a.Start()
	c.Update(10 * time.Millisecond)

	b := *a
	b.Pause()
	c.Update(10 * time.Millisecond)

	assert.Equal(t, uint32(20), a.Ticks())
	assert.Equal(t, uint32(10), b.Ticks())
}

func TestWrapInt(t *testing.T) {
	tests := []struct {
		n, change, min, max int
		want                int
	}{
		{n: 5, change: 3, min: 0, max: 9, want: 8},
		{n: 8, change: 5, min: 0, max: 9, want: 3},
		{n: 2, change: -5, min: 0, max: 9, want: 7},
		{n: 1, change: 25, min: 1, max: 12, want: 2},
		{n: 0, change: 0, min: 3, max: 2, want: 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, WrapInt(tt.n, tt.change, tt.min, tt.max), "WrapInt(%d, %d, %d, %d)", tt.n, tt.change, tt.min, tt.max)
	}
}

func TestMillisSeconds(t *testing.T) {
	assert.Equal(t, uint32(1500), Millis(1.5))
	assert.Equal(t, 0.25, Seconds(250))
}
