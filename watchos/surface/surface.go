// Package surface implements the pixel buffers apps render into.
package surface

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
)

// PixelFormat identifies the memory layout of one pixel.
type PixelFormat uint16

const (
	RGB565   PixelFormat = 0x0000
	RGBA4444 PixelFormat = 0x0001
	RGBA5658 PixelFormat = 0x0002
	RGBA8888 PixelFormat = 0x0004
)

func (f PixelFormat) String() string {
	switch f {
	case RGB565:
		return "RGB565"
	case RGBA4444:
		return "RGBA4444"
	case RGBA5658:
		return "RGBA5658"
	case RGBA8888:
		return "RGBA8888"
	default:
		return fmt.Sprintf("PixelFormat(%d)", uint16(f))
	}
}

// Depth returns the number of bytes per pixel. Unknown formats are treated as 4 bytes.
func Depth(f PixelFormat) int {
	switch f {
	case RGB565, RGBA4444:
		return 2
	case RGBA5658:
		return 3
	default:
		return 4
	}
}

var (
	ErrInvalidSize = errors.New("surface: invalid size")
	ErrNoMemory    = errors.New("surface: pool exhausted")
	ErrAllocFailed = errors.New("surface: pixel buffer allocation failed")
)

// Pool hands out pixel memory.
type Pool interface {
	Alloc(n int) ([]byte, error)
}

// HeapPool allocates from the Go heap, refusing single requests above Limit bytes.
// A zero Limit is unbounded.
type HeapPool struct {
	Limit int
}

func (p HeapPool) Alloc(n int) ([]byte, error) {
	if n < 0 {
		return nil, ErrInvalidSize
	}
	if p.Limit > 0 && n > p.Limit {
		return nil, fmt.Errorf("%w: %d > %d bytes", ErrNoMemory, n, p.Limit)
	}
	return make([]byte, n), nil
}

// Surface is a width*height pixel buffer in a fixed format.
//
// A Surface is not safe for concurrent use; the kernel only touches it from the cycle.
type Surface struct {
	width  int
	height int
	format PixelFormat
	depth  int
	pixels []byte
}

// New allocates a Surface, trying each pool in order. With no pools the heap is used.
func New(width, height int, format PixelFormat, pools ...Pool) (*Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	depth := Depth(format)
	n := width * height * depth
	if len(pools) == 0 {
		pools = []Pool{HeapPool{}}
	}

	var lastErr error
	for _, p := range pools {
		if p == nil {
			continue
		}
		buf, err := p.Alloc(n)
		if err != nil {
			lastErr = err
			continue
		}
		if len(buf) < n {
			lastErr = fmt.Errorf("%w: short buffer %d < %d", ErrNoMemory, len(buf), n)
			continue
		}
		return &Surface{
			width:  width,
			height: height,
			format: format,
			depth:  depth,
			pixels: buf[:n],
		}, nil
	}
	if lastErr == nil {
		return nil, ErrAllocFailed
	}
	return nil, fmt.Errorf("%w: %w", ErrAllocFailed, lastErr)
}

func (s *Surface) Width() int          { return s.width }
func (s *Surface) Height() int         { return s.height }
func (s *Surface) Format() PixelFormat { return s.format }

// Pitch returns the number of bytes per row.
func (s *Surface) Pitch() int { return s.width * s.depth }

// Pixels returns the raw buffer. It is nil after Destroy.
func (s *Surface) Pixels() []byte { return s.pixels }

// Destroy releases the pixel buffer. Further drawing is ignored.
func (s *Surface) Destroy() {
	s.pixels = nil
}

// Clear sets every pixel to the raw value c.
func (s *Surface) Clear(c uint32) {
	if len(s.pixels) == 0 {
		return
	}
	put(s.pixels, s.depth, c)
	// Double the filled prefix until the buffer is full.
	for filled := s.depth; filled < len(s.pixels); filled *= 2 {
		copy(s.pixels[filled:], s.pixels[:filled])
	}
}

// Replicate copies all pixels of other into s. Mismatched sizes or formats leave s unchanged.
func (s *Surface) Replicate(other *Surface) {
	if other == nil || other == s {
		return
	}
	if other.width != s.width || other.height != s.height || other.format != s.format {
		return
	}
	if len(other.pixels) != len(s.pixels) {
		return
	}
	copy(s.pixels, other.pixels)
}

// Blit copies src into s with its top-left corner at (x, y), clipped to s. Surfaces of
// different formats are left unchanged.
func (s *Surface) Blit(src *Surface, x, y int) {
	s.BlitScrolled(src, x, y, 0)
}

// BlitScrolled is Blit with src treated as a ring of rows: row first of src lands at y,
// and rows past the bottom wrap around to row 0.
func (s *Surface) BlitScrolled(src *Surface, x, y, first int) {
	if src == nil || src == s || src.format != s.format || s.pixels == nil || src.pixels == nil {
		return
	}
	x0, y0 := max(x, 0), max(y, 0)
	x1, y1 := min(x+src.width, s.width), min(y+src.height, s.height)
	if x0 >= x1 || y0 >= y1 {
		return
	}
	first %= src.height
	if first < 0 {
		first += src.height
	}
	n := (x1 - x0) * s.depth
	for yy := y0; yy < y1; yy++ {
		sy := (yy - y + first) % src.height
		so := (sy*src.width + (x0 - x)) * s.depth
		do := (yy*s.width + x0) * s.depth
		copy(s.pixels[do:do+n], src.pixels[so:so+n])
	}
}

// SetPixel writes the raw value c at (x, y). Out-of-bounds writes are dropped.
func (s *Surface) SetPixel(x, y int, c uint32) {
	if x < 0 || y < 0 || x >= s.width || y >= s.height || s.pixels == nil {
		return
	}
	off := (y*s.width + x) * s.depth
	put(s.pixels[off:off+s.depth], s.depth, c)
}

// Pixel returns the raw value at (x, y), or 0 outside the surface.
func (s *Surface) Pixel(x, y int) uint32 {
	if x < 0 || y < 0 || x >= s.width || y >= s.height || s.pixels == nil {
		return 0
	}
	off := (y*s.width + x) * s.depth
	return get(s.pixels[off:off+s.depth], s.depth)
}

// FillRect fills the rectangle clipped to the surface with the raw value c.
func (s *Surface) FillRect(x, y, w, h int, c uint32) {
	if s.pixels == nil || w <= 0 || h <= 0 {
		return
	}
	x0, y0 := max(x, 0), max(y, 0)
	x1, y1 := min(x+w, s.width), min(y+h, s.height)
	if x0 >= x1 || y0 >= y1 {
		return
	}
	pitch := s.Pitch()
	row := s.pixels[y0*pitch+x0*s.depth : y0*pitch+x1*s.depth]
	put(row, s.depth, c)
	for filled := s.depth; filled < len(row); filled *= 2 {
		copy(row[filled:], row[:filled])
	}
	for yy := y0 + 1; yy < y1; yy++ {
		copy(s.pixels[yy*pitch+x0*s.depth:yy*pitch+x1*s.depth], row)
	}
}

func put(b []byte, depth int, c uint32) {
	switch depth {
	case 2:
		binary.LittleEndian.PutUint16(b, uint16(c))
	case 3:
		b[0] = byte(c)
		b[1] = byte(c >> 8)
		b[2] = byte(c >> 16)
	default:
		binary.LittleEndian.PutUint32(b, c)
	}
}

func get(b []byte, depth int) uint32 {
	switch depth {
	case 2:
		return uint32(binary.LittleEndian.Uint16(b))
	case 3:
		return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
	default:
		return binary.LittleEndian.Uint32(b)
	}
}

// Encode converts c to the raw pixel value of format f.
func Encode(f PixelFormat, c color.RGBA) uint32 {
	switch f {
	case RGB565:
		return uint32(rgb565(c))
	case RGBA4444:
		return uint32(c.R>>4)<<12 | uint32(c.G>>4)<<8 | uint32(c.B>>4)<<4 | uint32(c.A>>4)
	case RGBA5658:
		return uint32(rgb565(c)) | uint32(c.A)<<16
	default:
		return uint32(c.R) | uint32(c.G)<<8 | uint32(c.B)<<16 | uint32(c.A)<<24
	}
}

// Decode converts the raw pixel value v of format f back to a color.
func Decode(f PixelFormat, v uint32) color.RGBA {
	switch f {
	case RGB565:
		return from565(uint16(v), 0xFF)
	case RGBA4444:
		n := func(shift uint) uint8 { x := uint8(v>>shift) & 0x0F; return x<<4 | x }
		return color.RGBA{R: n(12), G: n(8), B: n(4), A: n(0)}
	case RGBA5658:
		return from565(uint16(v), uint8(v>>16))
	default:
		return color.RGBA{R: uint8(v), G: uint8(v >> 8), B: uint8(v >> 16), A: uint8(v >> 24)}
	}
}

// Image returns a copy of the surface as an RGBA image.
func (s *Surface) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	if s.pixels == nil {
		return img
	}
	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			img.SetRGBA(x, y, Decode(s.format, s.Pixel(x, y)))
		}
	}
	return img
}

func rgb565(c color.RGBA) uint16 {
	return uint16(c.R&0xF8)<<8 | uint16(c.G&0xFC)<<3 | uint16(c.B)>>3
}

func from565(p uint16, a uint8) color.RGBA {
	r := uint8(p>>11) & 0x1F
	g := uint8(p>>5) & 0x3F
	b := uint8(p) & 0x1F
	return color.RGBA{R: r<<3 | r>>2, G: g<<2 | g>>4, B: b<<3 | b>>2, A: a}
}
