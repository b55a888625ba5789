//go:build !tinygo && cgo

package hal

import (
	"context"
	"errors"
	"image"

	"fancywatch/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
)

const windowTPS = 60

// WindowConfig controls the desktop window runner.
type WindowConfig struct {
	Scale int
}

// RunWindow starts a desktop window that displays the panel and forwards mouse and
// keyboard input as interrupts. It blocks until the window closes or run returns.
func RunWindow(ctx context.Context, h HAL, run Runner, cfg WindowConfig) error {
	hh, ok := h.(*hostHAL)
	if !ok {
		return errors.New("window: not a host HAL")
	}
	if cfg.Scale <= 0 {
		cfg.Scale = 2
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- run(ctx) }()

	g := &hostGame{h: hh, done: done, in: newHostInput(hh)}
	ebiten.SetWindowTitle("FancyWatch (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(hh.panel.width*cfg.Scale, hh.panel.height*cfg.Scale)
	ebiten.SetTPS(windowTPS)

	err := ebiten.RunGame(g)
	cancel()
	_ = hh.logger.Sync()
	if errors.Is(err, ebiten.Termination) {
		return g.runErr
	}
	return err
}

type hostGame struct {
	h      *hostHAL
	in     *hostInput
	img    *image.RGBA
	fbImg  *ebiten.Image
	done   <-chan error
	runErr error
	frames int
}

func (g *hostGame) Update() error {
	select {
	case err := <-g.done:
		if !errors.Is(err, context.Canceled) {
			g.runErr = err
		}
		return ebiten.Termination
	default:
	}

	g.in.poll()
	g.frames++
	if g.frames%windowTPS == 0 {
		g.h.secondElapsed()
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	p := g.h.panel
	if g.img == nil {
		g.img = image.NewRGBA(image.Rect(0, 0, p.width, p.height))
		g.fbImg = ebiten.NewImage(p.width, p.height)
	}

	p.snapshotRGBA(g.img.Pix)
	g.fbImg.WritePixels(g.img.Pix)
	screen.DrawImage(g.fbImg, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.h.panel.width, g.h.panel.height
}
