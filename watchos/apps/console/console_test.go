package console

import (
	"testing"

	"fancywatch/hal"
	"fancywatch/watchos/kernel/kerneltest"
	"fancywatch/watchos/surface"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSinkFiltersByLevel(t *testing.T) {
	s := NewSink(8, hal.LevelInfo)
	s.Log(hal.LevelDebug, "noise")
	s.Log(hal.LevelInfo, "boot")
	s.Log(hal.LevelError, "oops")

	lines, dropped := s.Drain()
	assert.Zero(t, dropped)
	assert.Equal(t, []Line{{hal.LevelInfo, "boot"}, {hal.LevelError, "oops"}}, lines)
	assert.Zero(t, s.Len())
}

func TestSinkDropsOldest(t *testing.T) {
	s := NewSink(2, hal.LevelDebug)
	s.Log(hal.LevelInfo, "a")
	s.Log(hal.LevelInfo, "b")
	s.Log(hal.LevelInfo, "c")

	lines, dropped := s.Drain()
	assert.Equal(t, 1, dropped)
	require.Len(t, lines, 2)
	assert.Equal(t, "b", lines[0].Msg)
	assert.Equal(t, "c", lines[1].Msg)

	_, dropped = s.Drain()
	assert.Zero(t, dropped)
}

func TestSinkDefaultLimit(t *testing.T) {
	s := NewSink(0, hal.LevelDebug)
	for i := 0; i < DefaultLimit+5; i++ {
		s.Log(hal.LevelInfo, "x")
	}
	assert.Equal(t, DefaultLimit, s.Len())
}

func lit(s *surface.Surface, y0, y1 int) int {
	n := 0
	for y := y0; y < y1; y++ {
		for x := 0; x < s.Width(); x++ {
			if s.Pixel(x, y) != 0 {
				n++
			}
		}
	}
	return n
}

func TestConsoleShowsLogLinesAtBottom(t *testing.T) {
	r := kerneltest.New(t, 120, 120)
	sink := NewSink(0, hal.LevelDebug)
	c := New(sink, 0)
	require.Equal(t, 0, r.Kernel.StartApp(c, true))
	require.NotNil(t, c.Surface())
	assert.Equal(t, DefaultRows*fontHeight, c.Surface().Height())

	r.Step(t)
	screen := r.Kernel.Display().Surface()
	top := screen.Height() - c.Surface().Height()
	assert.Zero(t, lit(screen, top, screen.Height()), "nothing logged yet")

	sink.Log(hal.LevelError, "HELLO")
	r.Step(t)
	assert.Zero(t, sink.Len())
	assert.NotZero(t, lit(screen, top, screen.Height()))
	assert.Zero(t, lit(screen, 0, top), "console stays in its strip")
}

func TestConsoleReleasesSurfaceOnStop(t *testing.T) {
	r := kerneltest.New(t, 64, 64)
	c := New(NewSink(0, hal.LevelDebug), 2)
	require.Equal(t, 0, r.Kernel.StartApp(c, true))
	s := c.Surface()
	require.NotNil(t, s)

	require.NotNil(t, r.Kernel.KillApp(0, false))
	assert.Nil(t, c.Surface())
	assert.Nil(t, s.Pixels())
}

func TestConsoleWithoutMemoryStopsItself(t *testing.T) {
	r := kerneltest.New(t, 64, 64)
	c := New(NewSink(0, hal.LevelDebug), 8, surface.HeapPool{Limit: 64})
	assert.Equal(t, -1, r.Kernel.StartApp(c, true))
	assert.Zero(t, r.Kernel.AppCount())
	assert.Nil(t, c.Surface())
}
