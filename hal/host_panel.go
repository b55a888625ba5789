//go:build !tinygo

package hal

import (
	"fmt"
	"sync"
)

type hostPanel struct {
	mu         sync.Mutex
	width      int
	height     int
	buf        []byte
	on         bool
	brightness uint8
	presents   uint64
}

func newHostPanel(width, height int) *hostPanel {
	return &hostPanel{
		width:      width,
		height:     height,
		buf:        make([]byte, width*height*2),
		brightness: 0xFF,
	}
}

func (p *hostPanel) Width() int  { return p.width }
func (p *hostPanel) Height() int { return p.height }

func (p *hostPanel) Present(buf []byte, width, height int) error {
	if width != p.width || height != p.height {
		return fmt.Errorf("panel: frame %dx%d does not match %dx%d", width, height, p.width, p.height)
	}
	if len(buf) < width*height*2 {
		return fmt.Errorf("panel: short frame (%d bytes)", len(buf))
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.on {
		return nil
	}
	copy(p.buf, buf)
	p.presents++
	return nil
}

func (p *hostPanel) PowerOn() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.on = true
	return nil
}

func (p *hostPanel) PowerOff() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.on = false
	return nil
}

func (p *hostPanel) SetBrightness(level uint8) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.brightness = level
	return nil
}

// snapshotRGBA converts the last presented frame to RGBA, applying the backlight.
// A powered-off panel reads as black.
func (p *hostPanel) snapshotRGBA(dst []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()

	level := p.brightness
	if !p.on {
		level = 0
	}
	src := p.buf
	for i := 0; i+1 < len(src) && i/2*4+3 < len(dst); i += 2 {
		r, g, b := rgb888From565(uint16(src[i]) | uint16(src[i+1])<<8)
		j := (i / 2) * 4
		dst[j+0] = dim(r, level)
		dst[j+1] = dim(g, level)
		dst[j+2] = dim(b, level)
		dst[j+3] = 0xFF
	}
}
