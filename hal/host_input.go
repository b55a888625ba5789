//go:build !tinygo && cgo

package hal

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// hostInput maps the mouse to the touch panel and a few keys to buttons and sensors:
//
//	P      power key
//	C      plug/unplug charger
//	D      double tap
//	T      tilt
//	S      step counter +1
type hostInput struct {
	h     *hostHAL
	down  bool
	lastX int16
	lastY int16
	steps uint32
}

func newHostInput(h *hostHAL) *hostInput {
	return &hostInput{h: h}
}

func (in *hostInput) poll() {
	irq := in.h.irq

	// Layout maps the window to panel coordinates, so the cursor is already in pixels.
	cx, cy := ebiten.CursorPosition()
	x, y := int16(cx), int16(cy)

	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		in.down = true
		irq.emit(IRQ{Kind: IRQTouchDown, X: x, Y: y})
	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		if in.down {
			in.down = false
			irq.emit(IRQ{Kind: IRQTouchUp, X: x, Y: y})
		}
	case in.down && (x != in.lastX || y != in.lastY):
		irq.emit(IRQ{Kind: IRQTouchMove, X: x, Y: y})
	}
	in.lastX, in.lastY = x, y

	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		irq.emit(IRQ{Kind: IRQPowerKey})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		in.h.power.toggleCharger()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyD) {
		irq.emit(IRQ{Kind: IRQDoubleTap})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		irq.emit(IRQ{Kind: IRQTilt, X: 1, Y: 0})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		in.steps++
		irq.emit(IRQ{Kind: IRQStepCount, Count: in.steps})
	}
}
