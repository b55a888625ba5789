//go:build !tinygo

package hal

import (
	"go.uber.org/zap"
)

// HostConfig controls the simulated watch on a desktop host.
type HostConfig struct {
	Width  int
	Height int

	// Log is the zap logger backing the HAL logger. Nil selects a development logger.
	Log *zap.Logger

	// BatteryPercent is the simulated initial charge.
	BatteryPercent int
	// Charging starts the simulation with the charger attached.
	Charging bool
}

type hostHAL struct {
	logger *zapLogger
	panel  *hostPanel
	power  *hostPower
	irq    *hostInterrupts
	t      *hostTime
	mem    []Allocator
}

// New returns a host HAL implementation with default settings.
func New() HAL {
	return NewHost(HostConfig{})
}

// NewHost returns a host HAL implementation.
func NewHost(cfg HostConfig) HAL {
	return newHostHAL(cfg)
}

func newHostHAL(cfg HostConfig) *hostHAL {
	if cfg.Width <= 0 {
		cfg.Width = 240
	}
	if cfg.Height <= 0 {
		cfg.Height = 240
	}
	if cfg.BatteryPercent <= 0 || cfg.BatteryPercent > 100 {
		cfg.BatteryPercent = 80
	}
	z := cfg.Log
	if z == nil {
		var err error
		z, err = zap.NewDevelopment()
		if err != nil {
			z = zap.NewNop()
		}
	}

	irq := newHostInterrupts()
	return &hostHAL{
		logger: &zapLogger{z: z},
		panel:  newHostPanel(cfg.Width, cfg.Height),
		power:  newHostPower(cfg.BatteryPercent, cfg.Charging, irq),
		irq:    irq,
		t:      newHostTime(),
		// Host memory is plentiful; the second pool mirrors the PSRAM fallback on hardware.
		mem: []Allocator{heapAllocator{limit: 512 * 1024}, heapAllocator{}},
	}
}

func (h *hostHAL) Logger() Logger         { return h.logger }
func (h *hostHAL) Panel() Panel           { return h.panel }
func (h *hostHAL) Power() Power           { return h.power }
func (h *hostHAL) Interrupts() Interrupts { return h.irq }
func (h *hostHAL) Time() Time             { return h.t }
func (h *hostHAL) Memory() []Allocator    { return h.mem }

type heapAllocator struct {
	limit int
}

func (a heapAllocator) Alloc(n int) ([]byte, error) {
	if n <= 0 || (a.limit > 0 && n > a.limit) {
		return nil, ErrUnavailable
	}
	return make([]byte, n), nil
}
