//go:build tinygo && baremetal

package hal

import (
	"machine"
	"time"

	"tinygo.org/x/drivers/ft6336"
	"tinygo.org/x/drivers/st7789"
)

const (
	twatchWidth  = 240
	twatchHeight = 240

	// Internal RAM left for pixel buffers once the runtime is up; a 240x240 RGB565
	// frame (115200 bytes) fits, anything larger goes to PSRAM.
	twatchSRAMBudget = 160 * 1024
)

type twatchHAL struct {
	logger *uartLogger
	panel  *st7789Panel
	power  Power
	irq    *tinyGoInterrupts
	t      *tinyGoTime
	mem    []Allocator
}

// New returns a LilyGO T-Watch 2020 HAL implementation.
//
// Display: ST7789 240x240 on SPI2 (SCK 18, SDO 19, CS 5, DC 27, BL 12).
// Touch: FT6336 on I2C1 (SDA 23, SCL 32, INT 38).
// PMU: AXP202 on I2C0 (SDA 21, SCL 22, IRQ 35).
// UART: UART0, 115200 8N1.
func New() HAL {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{BaudRate: 115200})

	irq := &tinyGoInterrupts{ch: make(chan IRQ, 32)}
	h := &twatchHAL{
		logger: &uartLogger{uart: uart},
		panel:  newST7789Panel(),
		power:  noPower{},
		irq:    irq,
		t:      newTinyGoTime(),
		mem:    []Allocator{&sramAllocator{budget: twatchSRAMBudget}},
	}

	if tp, err := newTouchPoller(irq); err == nil {
		irq.onToggle = tp.setEnabled
		go tp.run()
	} else {
		Logf(h.logger, LevelWarn, "touch unavailable: %v", err)
	}
	if pmu, err := newPMUPoller(irq); err == nil {
		h.power = pmu.dev
		go pmu.run(h.logger)
	} else {
		Logf(h.logger, LevelWarn, "pmu unavailable: %v", err)
	}
	go h.rtc()
	return h
}

func (h *twatchHAL) Logger() Logger         { return h.logger }
func (h *twatchHAL) Panel() Panel           { return h.panel }
func (h *twatchHAL) Power() Power           { return h.power }
func (h *twatchHAL) Interrupts() Interrupts { return h.irq }
func (h *twatchHAL) Time() Time             { return h.t }
func (h *twatchHAL) Memory() []Allocator    { return h.mem }

func (h *twatchHAL) rtc() {
	t := time.NewTicker(time.Second)
	defer t.Stop()
	for range t.C {
		h.irq.emit(IRQ{Kind: IRQSecond})
	}
}

type st7789Panel struct {
	dev     st7789.Device
	bl      machine.Pin
	scratch []byte
}

func newST7789Panel() *st7789Panel {
	machine.SPI2.Configure(machine.SPIConfig{
		SCK:       machine.GPIO18,
		SDO:       machine.GPIO19,
		Frequency: 40_000_000,
	})
	bl := machine.GPIO12
	dev := st7789.New(machine.SPI2, machine.NoPin, machine.GPIO27, machine.GPIO5, bl)
	dev.Configure(st7789.Config{
		Width:    twatchWidth,
		Height:   twatchHeight,
		Rotation: st7789.NO_ROTATION,
	})
	return &st7789Panel{dev: dev, bl: bl, scratch: make([]byte, twatchWidth*2*8)}
}

func (p *st7789Panel) Width() int  { return twatchWidth }
func (p *st7789Panel) Height() int { return twatchHeight }

// Present pushes the frame in bands of rows; the OS stores RGB565 little-endian and
// the controller expects big-endian.
func (p *st7789Panel) Present(buf []byte, width, height int) error {
	if width != twatchWidth || height != twatchHeight || len(buf) < width*height*2 {
		return ErrUnavailable
	}
	rowBytes := width * 2
	band := len(p.scratch) / rowBytes
	for y := 0; y < height; y += band {
		rows := band
		if y+rows > height {
			rows = height - y
		}
		src := buf[y*rowBytes : (y+rows)*rowBytes]
		dst := p.scratch[:len(src)]
		for i := 0; i+1 < len(src); i += 2 {
			dst[i] = src[i+1]
			dst[i+1] = src[i]
		}
		if err := p.dev.DrawRGBBitmap8(0, int16(y), dst, int16(width), int16(rows)); err != nil {
			return err
		}
	}
	return nil
}

func (p *st7789Panel) PowerOn() error {
	if err := p.dev.Sleep(false); err != nil {
		return err
	}
	p.dev.EnableBacklight(true)
	return nil
}

func (p *st7789Panel) PowerOff() error {
	p.dev.EnableBacklight(false)
	return p.dev.Sleep(true)
}

// SetBrightness only distinguishes on and off; the backlight pin is not on a PWM channel
// in this wiring.
func (p *st7789Panel) SetBrightness(level uint8) error {
	p.dev.EnableBacklight(level > 0)
	return nil
}

// noPower stands in when the PMU does not answer; readings are reported as transient
// failures.
type noPower struct{}

func (noPower) IsCharging() (bool, error)     { return false, ErrUnavailable }
func (noPower) BatteryPercent() (int, error)  { return 0, ErrUnavailable }
func (noPower) Temperature() (float32, error) { return 0, ErrUnavailable }
func (noPower) SetLowPower(low bool)          {}
func (noPower) DeepSleep() error              { return ErrNotImplemented }

// pmuPoller watches the active-low AXP202 IRQ line and forwards latched interrupts.
type pmuPoller struct {
	dev *axp202
	pin machine.Pin
	irq *tinyGoInterrupts
}

func newPMUPoller(irq *tinyGoInterrupts) (*pmuPoller, error) {
	bus := machine.I2C0
	if err := bus.Configure(machine.I2CConfig{SDA: machine.GPIO21, SCL: machine.GPIO22}); err != nil {
		return nil, err
	}
	dev := newAXP202(bus)
	if err := dev.configure(); err != nil {
		return nil, err
	}
	pin := machine.GPIO35
	pin.Configure(machine.PinConfig{Mode: machine.PinInput})
	return &pmuPoller{dev: dev, pin: pin, irq: irq}, nil
}

func (pp *pmuPoller) run(log Logger) {
	var pending []IRQ
	for {
		time.Sleep(50 * time.Millisecond)
		if pp.pin.Get() {
			continue
		}
		var err error
		pending, err = pp.dev.pendingIRQs(pending[:0])
		if err != nil {
			Logf(log, LevelWarn, "pmu: %v", err)
			continue
		}
		for _, irq := range pending {
			pp.irq.emit(irq)
		}
	}
}

type touchPoller struct {
	dev     *ft6336.Device
	irq     *tinyGoInterrupts
	enabled bool
}

func newTouchPoller(irq *tinyGoInterrupts) (*touchPoller, error) {
	bus := machine.I2C1
	if err := bus.Configure(machine.I2CConfig{SDA: machine.GPIO23, SCL: machine.GPIO32}); err != nil {
		return nil, err
	}
	dev := ft6336.New(bus, machine.GPIO38)
	if err := dev.Configure(ft6336.Config{}); err != nil {
		return nil, err
	}
	return &touchPoller{dev: dev, irq: irq, enabled: true}, nil
}

func (tp *touchPoller) setEnabled(on bool) { tp.enabled = on }

func (tp *touchPoller) run() {
	var down bool
	var lastX, lastY int16
	for {
		time.Sleep(15 * time.Millisecond)
		if !tp.enabled {
			down = false
			continue
		}
		pt := tp.dev.ReadTouchPoint()
		touched := pt.Z > 0
		x, y := int16(pt.X), int16(pt.Y)
		switch {
		case touched && !down:
			tp.irq.emit(IRQ{Kind: IRQTouchDown, X: x, Y: y})
		case touched && (x != lastX || y != lastY):
			tp.irq.emit(IRQ{Kind: IRQTouchMove, X: x, Y: y})
		case !touched && down:
			tp.irq.emit(IRQ{Kind: IRQTouchUp, X: lastX, Y: lastY})
		}
		down = touched
		if touched {
			lastX, lastY = x, y
		}
	}
}
