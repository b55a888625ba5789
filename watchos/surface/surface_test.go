package surface

import (
	"errors"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDepth(t *testing.T) {
	assert.Equal(t, 2, Depth(RGB565))
	assert.Equal(t, 2, Depth(RGBA4444))
	assert.Equal(t, 3, Depth(RGBA5658))
	assert.Equal(t, 4, Depth(RGBA8888))
	assert.Equal(t, 4, Depth(PixelFormat(0x77)))
}

func TestNewRejectsInvalidSize(t *testing.T) {
	_, err := New(0, 10, RGB565)
	require.ErrorIs(t, err, ErrInvalidSize)
	_, err = New(10, -1, RGB565)
	require.ErrorIs(t, err, ErrInvalidSize)
}

func TestNewFallsBackToSecondPool(t *testing.T) {
	s, err := New(240, 240, RGB565, HeapPool{Limit: 1024}, HeapPool{})
	require.NoError(t, err)
	assert.Len(t, s.Pixels(), 240*240*2)
	assert.Equal(t, 480, s.Pitch())
}

func TestNewFailsWhenEveryPoolFails(t *testing.T) {
	s, err := New(240, 240, RGB565, HeapPool{Limit: 1024}, HeapPool{Limit: 2048})
	require.Nil(t, s)
	require.ErrorIs(t, err, ErrAllocFailed)
	assert.True(t, errors.Is(err, ErrNoMemory))
}

type shortPool struct{}

func (shortPool) Alloc(n int) ([]byte, error) { return make([]byte, n/2), nil }

func TestNewRejectsShortBuffers(t *testing.T) {
	_, err := New(4, 4, RGBA8888, shortPool{})
	require.ErrorIs(t, err, ErrAllocFailed)
}

func TestClearAndReplicate(t *testing.T) {
	a, err := New(240, 240, RGB565)
	require.NoError(t, err)
	b, err := New(240, 240, RGB565)
	require.NoError(t, err)

	a.Clear(0)
	for _, v := range a.Pixels() {
		if v != 0 {
			t.Fatalf("clear left non-zero byte %#x", v)
		}
	}

	b.Clear(0xFFFF)
	a.Replicate(b)
	for y := 0; y < a.Height(); y++ {
		for x := 0; x < a.Width(); x++ {
			if got := a.Pixel(x, y); got != 0xFFFF {
				t.Fatalf("pixel (%d,%d) = %#x, want 0xffff", x, y, got)
			}
		}
	}
}

func TestReplicateMismatchIsNoop(t *testing.T) {
	a, _ := New(10, 10, RGB565)
	b, _ := New(10, 11, RGB565)
	c, _ := New(10, 10, RGBA8888)
	a.Clear(0x1234)
	b.Clear(0xFFFF)
	c.Clear(0xFFFFFFFF)

	a.Replicate(b)
	a.Replicate(c)
	a.Replicate(nil)
	assert.Equal(t, uint32(0x1234), a.Pixel(9, 9))
}

func TestClearOddDepth(t *testing.T) {
	s, err := New(3, 3, RGBA5658)
	require.NoError(t, err)
	s.Clear(0xAABBCC)
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			require.Equal(t, uint32(0xAABBCC), s.Pixel(x, y))
		}
	}
}

func TestFillRectClips(t *testing.T) {
	s, _ := New(8, 8, RGB565)
	s.FillRect(-2, 6, 4, 10, 0x00FF)

	assert.Equal(t, uint32(0x00FF), s.Pixel(0, 6))
	assert.Equal(t, uint32(0x00FF), s.Pixel(1, 7))
	assert.Equal(t, uint32(0), s.Pixel(2, 7))
	assert.Equal(t, uint32(0), s.Pixel(0, 5))
}

func TestPixelOutOfBounds(t *testing.T) {
	s, _ := New(2, 2, RGB565)
	s.SetPixel(5, 5, 0xFFFF)
	assert.Equal(t, uint32(0), s.Pixel(5, 5))
	assert.Equal(t, uint32(0), s.Pixel(-1, 0))
}

func TestDestroy(t *testing.T) {
	s, _ := New(2, 2, RGB565)
	s.Destroy()
	assert.Nil(t, s.Pixels())
	s.Clear(1)
	s.SetPixel(0, 0, 1)
	assert.Equal(t, uint32(0), s.Pixel(0, 0))
}

func TestEncodeDecode(t *testing.T) {
	white := color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	assert.Equal(t, uint32(0xFFFF), Encode(RGB565, white))
	assert.Equal(t, uint32(0xF800), Encode(RGB565, color.RGBA{R: 0xFF, A: 0xFF}))
	assert.Equal(t, uint32(0xFFFF), Encode(RGBA4444, white))
	assert.Equal(t, uint32(0xFFFFFF), Encode(RGBA5658, white))
	assert.Equal(t, uint32(0x80FF0000), Encode(RGBA8888, color.RGBA{B: 0xFF, A: 0x80}))

	assert.Equal(t, white, Decode(RGB565, 0xFFFF))
	assert.Equal(t, color.RGBA{R: 0xFF, A: 0xFF}, Decode(RGB565, 0xF800))
	assert.Equal(t, white, Decode(RGBA4444, 0xFFFF))
}

func TestCanvasDrawsEncodedPixels(t *testing.T) {
	s, _ := New(4, 4, RGB565)
	c := NewCanvas(s)

	w, h := c.Size()
	assert.Equal(t, int16(4), w)
	assert.Equal(t, int16(4), h)

	c.SetPixel(1, 1, color.RGBA{R: 0xFF, A: 0xFF})
	assert.Equal(t, uint32(0xF800), s.Pixel(1, 1))

	require.NoError(t, c.FillRectangle(0, 2, 4, 2, color.RGBA{G: 0xFF, A: 0xFF}))
	assert.Equal(t, uint32(0x07E0), s.Pixel(3, 3))
}

func TestBlitScrolledWrapsRows(t *testing.T) {
	src, _ := New(2, 4, RGB565)
	for y := 0; y < 4; y++ {
		src.FillRect(0, y, 2, 1, uint32(y+1))
	}
	c := NewCanvas(src)
	c.SetScroll(3)
	require.Equal(t, int16(3), c.Scroll())

	dst, _ := New(2, 6, RGB565)
	dst.BlitScrolled(src, 0, 2, int(c.Scroll()))
	assert.Equal(t, uint32(0), dst.Pixel(0, 1))
	assert.Equal(t, uint32(4), dst.Pixel(0, 2))
	assert.Equal(t, uint32(1), dst.Pixel(1, 3))
	assert.Equal(t, uint32(3), dst.Pixel(0, 5))

	dst.BlitScrolled(src, 0, 0, -1)
	assert.Equal(t, uint32(4), dst.Pixel(0, 0))
}

func TestBlitClips(t *testing.T) {
	dst, _ := New(4, 4, RGB565)
	src, _ := New(3, 3, RGB565)
	src.Clear(0xAAAA)

	dst.Blit(src, 2, -1)
	assert.Equal(t, uint32(0xAAAA), dst.Pixel(2, 0))
	assert.Equal(t, uint32(0xAAAA), dst.Pixel(3, 1))
	assert.Equal(t, uint32(0), dst.Pixel(1, 0))
	assert.Equal(t, uint32(0), dst.Pixel(3, 2))

	other, _ := New(3, 3, RGBA8888)
	other.Clear(0xFFFFFFFF)
	dst.Blit(other, 0, 0)
	assert.Equal(t, uint32(0), dst.Pixel(0, 0))
}

func TestImage(t *testing.T) {
	s, err := New(3, 2, RGB565)
	require.NoError(t, err)
	s.SetPixel(2, 1, 0xF800)

	img := s.Image()
	assert.Equal(t, 3, img.Bounds().Dx())
	assert.Equal(t, 2, img.Bounds().Dy())
	assert.Equal(t, color.RGBA{R: 0xFF, A: 0xFF}, img.RGBAAt(2, 1))
	assert.Equal(t, color.RGBA{A: 0xFF}, img.RGBAAt(0, 0))
}
