package display

import (
	"errors"
	"testing"

	"fancywatch/watchos/surface"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePanel struct {
	on         int
	off        int
	brightness []uint8
	presents   int
	last       []byte
	presentErr error
}

func (p *fakePanel) Width() int      { return 4 }
func (p *fakePanel) Height() int     { return 4 }
func (p *fakePanel) PowerOn() error  { p.on++; return nil }
func (p *fakePanel) PowerOff() error { p.off++; return nil }

func (p *fakePanel) SetBrightness(level uint8) error {
	p.brightness = append(p.brightness, level)
	return nil
}

func (p *fakePanel) Present(buf []byte, w, h int) error {
	p.presents++
	p.last = append(p.last[:0], buf...)
	return p.presentErr
}

func TestNewFailureLeavesPanelOff(t *testing.T) {
	p := &fakePanel{}
	_, err := New(p, 240, 240, surface.RGB565, surface.HeapPool{Limit: 16})
	require.ErrorIs(t, err, surface.ErrAllocFailed)
	assert.Zero(t, p.on)

	_, err = New(nil, 4, 4, surface.RGB565)
	require.ErrorIs(t, err, ErrNoPanel)
}

func TestEnableDisableIdempotent(t *testing.T) {
	p := &fakePanel{}
	d, err := New(p, 4, 4, surface.RGB565)
	require.NoError(t, err)

	require.NoError(t, d.Enable())
	require.NoError(t, d.Enable())
	assert.True(t, d.Enabled())
	assert.Equal(t, 1, p.on)

	require.NoError(t, d.Disable())
	require.NoError(t, d.Disable())
	assert.False(t, d.Enabled())
	assert.Equal(t, 1, p.off)
}

func TestPresentOnlyWhileEnabled(t *testing.T) {
	p := &fakePanel{}
	d, _ := New(p, 4, 4, surface.RGB565)
	d.Clear(0xFFFF)

	require.NoError(t, d.Present())
	assert.Zero(t, p.presents)

	require.NoError(t, d.Enable())
	require.NoError(t, d.Present())
	assert.Equal(t, 1, p.presents)
	assert.Len(t, p.last, 32)
	assert.Equal(t, byte(0xFF), p.last[31])

	p.presentErr = errors.New("spi busy")
	assert.Error(t, d.Present())
}

func TestPresentConvertsToRGB565(t *testing.T) {
	p := &fakePanel{}
	d, _ := New(p, 4, 4, surface.RGBA8888)
	d.Clear(0xFF0000FF) // opaque red
	require.NoError(t, d.Enable())
	require.NoError(t, d.Present())
	require.Len(t, p.last, 32)
	assert.Equal(t, []byte{0x00, 0xF8}, p.last[:2])
}

func TestBrightnessMapsToHardwareLevel(t *testing.T) {
	p := &fakePanel{}
	d, _ := New(p, 4, 4, surface.RGB565)

	require.NoError(t, d.SetBrightness(0.5))
	assert.Empty(t, p.brightness, "no hardware writes while disabled")

	require.NoError(t, d.Enable())
	require.NoError(t, d.SetBrightness(2))
	require.NoError(t, d.SetBrightness(-1))
	assert.Equal(t, []uint8{128, 255, 0}, p.brightness)
	assert.Equal(t, float32(0), d.Brightness())
}

func TestDestroy(t *testing.T) {
	p := &fakePanel{}
	d, _ := New(p, 4, 4, surface.RGB565)
	require.NoError(t, d.Enable())
	require.NoError(t, d.Destroy())
	assert.Equal(t, 1, p.off)
	assert.Nil(t, d.Surface().Pixels())
	require.NoError(t, d.Present())
}
