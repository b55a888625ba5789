// Package display owns the render surface and pushes it to the physical panel.
package display

import (
	"errors"
	"fmt"
	"sync"

	"fancywatch/hal"
	"fancywatch/watchos/surface"
)

var ErrNoPanel = errors.New("display: no panel")

// Display couples the render Surface with the panel it is shown on.
type Display struct {
	mu         sync.Mutex
	panel      hal.Panel
	surf       *surface.Surface
	enabled    bool
	brightness float32
	scratch    []byte
}

// New allocates a width*height render surface in format from pools. On failure the panel
// is left untouched, so it stays powered off.
func New(panel hal.Panel, width, height int, format surface.PixelFormat, pools ...surface.Pool) (*Display, error) {
	if panel == nil {
		return nil, ErrNoPanel
	}
	s, err := surface.New(width, height, format, pools...)
	if err != nil {
		return nil, fmt.Errorf("display: render buffer: %w", err)
	}
	return &Display{panel: panel, surf: s, brightness: 1}, nil
}

// Surface returns the render surface apps draw into.
func (d *Display) Surface() *surface.Surface { return d.surf }

func (d *Display) Panel() hal.Panel { return d.panel }

// Enable powers the panel on. It is a no-op when already enabled.
func (d *Display) Enable() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.enabled {
		return nil
	}
	if err := d.panel.PowerOn(); err != nil {
		return fmt.Errorf("display: power on: %w", err)
	}
	d.enabled = true
	return d.panel.SetBrightness(level(d.brightness))
}

// Disable powers the panel off. It is a no-op when already disabled.
func (d *Display) Disable() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.enabled {
		return nil
	}
	if err := d.panel.PowerOff(); err != nil {
		return fmt.Errorf("display: power off: %w", err)
	}
	d.enabled = false
	return nil
}

func (d *Display) Enabled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.enabled
}

// SetBrightness sets the backlight from 0 (off) to 1 (full), clamping out-of-range values.
func (d *Display) SetBrightness(b float32) error {
	b = min(max(b, 0), 1)
	d.mu.Lock()
	defer d.mu.Unlock()
	d.brightness = b
	if !d.enabled {
		return nil
	}
	return d.panel.SetBrightness(level(b))
}

func (d *Display) Brightness() float32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.brightness
}

// Clear fills the render surface with the raw pixel value c.
func (d *Display) Clear(c uint32) {
	if d.surf != nil {
		d.surf.Clear(c)
	}
}

// Present pushes the render surface to the panel. It does nothing while disabled.
func (d *Display) Present() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.enabled || d.surf == nil || d.surf.Pixels() == nil {
		return nil
	}
	return d.panel.Present(d.rgb565(), d.surf.Width(), d.surf.Height())
}

// rgb565 returns the surface as RGB565, converting through a scratch buffer when the
// render format differs.
func (d *Display) rgb565() []byte {
	s := d.surf
	if s.Format() == surface.RGB565 {
		return s.Pixels()
	}
	n := s.Width() * s.Height() * 2
	if len(d.scratch) != n {
		d.scratch = make([]byte, n)
	}
	i := 0
	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			v := surface.Encode(surface.RGB565, surface.Decode(s.Format(), s.Pixel(x, y)))
			d.scratch[i] = byte(v)
			d.scratch[i+1] = byte(v >> 8)
			i += 2
		}
	}
	return d.scratch
}

// Destroy releases the render surface and powers the panel off.
func (d *Display) Destroy() error {
	err := d.Disable()
	if d.surf != nil {
		d.surf.Destroy()
	}
	return err
}

func level(b float32) uint8 {
	return uint8(b*255 + 0.5)
}
