package launcher

import (
	"testing"

	"fancywatch/watchos/event"
	"fancywatch/watchos/kernel"
	"fancywatch/watchos/kernel/kerneltest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type face struct {
	kernel.Base
	shown, hidden int
}

func (f *face) OnEnterForeground() { f.shown++ }
func (f *face) OnEnterBackground() { f.hidden++ }

func setup(t *testing.T, n int) (*kerneltest.Rig, *Launcher, []*face) {
	t.Helper()
	r := kerneltest.New(t, 240, 240)
	faces := make([]*face, n)
	list := make([]Face, n)
	for i := range faces {
		faces[i] = &face{}
		list[i] = faces[i]
		require.Equal(t, i, r.Kernel.StartApp(faces[i], i == 0))
	}
	l := New(list...)
	require.Equal(t, n, r.Kernel.StartApp(l, false))
	return r, l, faces
}

func swipe(t *testing.T, r *kerneltest.Rig, from, to int16) {
	t.Helper()
	r.Push(t,
		event.NewTouch(event.TouchBegin, event.Touch{X: from, Y: 120}),
		event.NewTouch(event.TouchChange, event.Touch{X: (from + to) / 2, Y: 120}),
		event.NewTouch(event.TouchEnd, event.Touch{X: to, Y: 120}),
	)
	r.Step(t)
}

func TestLauncherShowsFirstFaceOnStart(t *testing.T) {
	_, l, faces := setup(t, 3)
	assert.True(t, faces[0].IsForeground())
	assert.False(t, faces[1].IsForeground())
	assert.False(t, faces[2].IsForeground())
	assert.Same(t, faces[0], l.Current())
}

func TestDoubleTapCyclesFaces(t *testing.T) {
	r, l, faces := setup(t, 3)
	for _, want := range []int{1, 2, 0} {
		r.Push(t, event.Event{Kind: event.SensorDoubleTap})
		r.Step(t)
		assert.Same(t, faces[want], l.Current())
		for i, f := range faces {
			assert.Equal(t, i == want, f.IsForeground(), "face %d", i)
		}
	}
	assert.Equal(t, 1, faces[0].shown)
}

func TestSwipeDirections(t *testing.T) {
	r, l, faces := setup(t, 3)

	swipe(t, r, 40, 200)
	assert.Same(t, faces[1], l.Current())

	swipe(t, r, 200, 40)
	assert.Same(t, faces[0], l.Current())

	swipe(t, r, 200, 40)
	assert.Same(t, faces[2], l.Current(), "leftward swipe wraps to the last face")
}

func TestShortDragIsNotASwipe(t *testing.T) {
	r, l, faces := setup(t, 2)
	swipe(t, r, 100, 100+SwipeDistance-1)
	assert.Same(t, faces[0], l.Current())
	assert.Zero(t, faces[1].shown)
}

func TestSecondFingerIgnored(t *testing.T) {
	r, l, faces := setup(t, 2)
	r.Push(t,
		event.NewTouch(event.TouchBegin, event.Touch{ID: 1, X: 0, Y: 0}),
		event.NewTouch(event.TouchEnd, event.Touch{ID: 1, X: 200, Y: 0}),
	)
	r.Step(t)
	assert.Same(t, faces[0], l.Current())
}

func TestStoppedFacesAreSkipped(t *testing.T) {
	r, l, faces := setup(t, 3)
	require.NotNil(t, r.Kernel.KillApp(faces[1].ID(), false))
	assert.Equal(t, -1, faces[1].ID())

	r.Push(t, event.Event{Kind: event.SensorDoubleTap})
	r.Step(t)
	assert.Same(t, faces[2], l.Current())
	assert.True(t, faces[2].IsForeground())
	assert.False(t, faces[0].IsForeground())
}

func TestSingleFaceStaysInForeground(t *testing.T) {
	r, l, faces := setup(t, 1)
	r.Push(t, event.Event{Kind: event.SensorDoubleTap})
	r.Step(t)
	assert.Same(t, faces[0], l.Current())
	assert.True(t, faces[0].IsForeground())
	assert.Zero(t, faces[0].hidden)
}
