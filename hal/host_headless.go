//go:build !tinygo

package hal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// ScriptedIRQ injects an interrupt at a given simulation tick.
type ScriptedIRQ struct {
	Tick uint64
	IRQ  IRQ
}

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Enabled bool
	// Hz is the simulation tick rate; every Hz ticks one RTC second elapses.
	Hz int
	// Ticks stops the run after N simulation ticks (0 = run forever).
	Ticks  uint64
	Script []ScriptedIRQ
}

var errHeadlessDone = errors.New("headless run complete")

// RunHeadless runs the OS without opening a window.
func RunHeadless(ctx context.Context, h HAL, run Runner, cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	hh, ok := h.(*hostHAL)
	if !ok {
		return fmt.Errorf("headless: %T is not a host HAL", h)
	}

	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return run(gctx)
	})
	g.Go(func() error {
		t := time.NewTicker(d)
		defer t.Stop()

		var tick uint64
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-t.C:
				tick++
				for _, s := range cfg.Script {
					if s.Tick == tick {
						hh.irq.emit(s.IRQ)
					}
				}
				if tick%uint64(cfg.Hz) == 0 {
					hh.secondElapsed()
				}
				if cfg.Ticks > 0 && tick >= cfg.Ticks {
					return errHeadlessDone
				}
			}
		}
	})

	err := g.Wait()
	_ = hh.logger.Sync()
	if errors.Is(err, errHeadlessDone) {
		return nil
	}
	return err
}

// secondElapsed advances the simulated hardware by one RTC second.
func (h *hostHAL) secondElapsed() {
	h.power.step()
	h.irq.emit(IRQ{Kind: IRQSecond})
}
