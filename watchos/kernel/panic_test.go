package kernel

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetPanicState(t *testing.T) {
	t.Helper()
	panicOnce = sync.Once{}
	panicActive.Store(false)
	SetPanicHandler(nil)
	t.Cleanup(func() {
		panicOnce = sync.Once{}
		panicActive.Store(false)
		SetPanicHandler(nil)
	})
}

func TestPanickingAppIsKilled(t *testing.T) {
	resetPanicState(t)
	var infos []PanicInfo
	SetPanicHandler(func(info PanicInfo) { infos = append(infos, info) })

	r := newRig(t, DefaultConfig())
	var journal []string
	bad, good, worse := newRecApp("bad", &journal), newRecApp("good", &journal), newRecApp("worse", &journal)
	r.k.StartApp(good, true)
	r.k.StartApp(bad, true)
	r.k.StartApp(worse, true)
	bad.onUpdate = func() { panic("boom") }
	worse.onUpdate = func() { panic("again") }
	journal = nil

	r.step(t)

	assert.True(t, InPanicMode())
	require.Len(t, infos, 1, "handler fires once")
	assert.Equal(t, 1, infos[0].AppID)
	assert.Equal(t, "Update", infos[0].Callback)
	assert.Equal(t, "boom", infos[0].Value)
	assert.NotEmpty(t, infos[0].Stack)

	assert.Equal(t, []string{"good:render"}, journal, "panicked apps are not rendered nor stopped")
	assert.Equal(t, 1, r.k.AppCount())
	assert.Equal(t, 0, good.ID())
	assert.Equal(t, -1, bad.ID())
}

func TestPanicInOnStartRejectsApp(t *testing.T) {
	resetPanicState(t)
	r := newRig(t, DefaultConfig())
	a := &argApp{start: func([]string) { panic("bad args") }}
	assert.Equal(t, -1, r.k.StartApp(a, true))
	assert.Zero(t, r.k.AppCount())
}

func TestPanicInOnStopStillRemovesApp(t *testing.T) {
	resetPanicState(t)
	r := newRig(t, DefaultConfig())
	a := &stopPanicApp{}
	b := newRecApp("b", nil)
	r.k.StartApp(a, true)
	r.k.StartApp(b, true)

	assert.Same(t, a, r.k.KillApp(0, false))
	assert.Equal(t, 1, r.k.AppCount())
	assert.Equal(t, 0, b.ID())
}

type stopPanicApp struct{ Base }

func (a *stopPanicApp) OnStop() { panic("stop") }
