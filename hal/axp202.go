package hal

import (
	"fmt"

	"tinygo.org/x/drivers"
)

// AXP202 power management unit of the T-Watch 2020.
const (
	axp202Address = 0x35

	axp202RegChargeStatus = 0x01
	axp202RegShutdown     = 0x32
	axp202RegIRQEnable1   = 0x40
	axp202RegIRQStatus1   = 0x48
	axp202RegTempHigh     = 0x5E
	axp202RegTempLow      = 0x5F
	axp202RegADCEnable2   = 0x83
	axp202RegFuelGauge    = 0xB9

	axp202IRQBanks = 5
)

// IRQ bits of status banks 1 to 3.
const (
	axp202VbusInsert  = 1 << 3 // bank 1
	axp202VbusRemove  = 1 << 2 // bank 1
	axp202ChargeStart = 1 << 3 // bank 2
	axp202ChargeDone  = 1 << 2 // bank 2
	axp202KeyShort    = 1 << 1 // bank 3
)

type axp202 struct {
	bus drivers.I2C
	buf [2]byte
}

func newAXP202(bus drivers.I2C) *axp202 {
	return &axp202{bus: bus}
}

// configure unmasks the charger and power key interrupts, clears stale ones and enables
// the internal temperature ADC.
func (p *axp202) configure() error {
	enable := [axp202IRQBanks]byte{
		axp202VbusInsert | axp202VbusRemove,
		axp202ChargeStart | axp202ChargeDone,
		axp202KeyShort,
	}
	for i, v := range enable {
		if err := p.write(axp202RegIRQEnable1+uint8(i), v); err != nil {
			return err
		}
	}
	if err := p.clearIRQs(); err != nil {
		return err
	}
	adc, err := p.read(axp202RegADCEnable2)
	if err != nil {
		return err
	}
	return p.write(axp202RegADCEnable2, adc|0x80)
}

func (p *axp202) clearIRQs() error {
	for i := 0; i < axp202IRQBanks; i++ {
		if err := p.write(axp202RegIRQStatus1+uint8(i), 0xFF); err != nil {
			return err
		}
	}
	return nil
}

// pendingIRQs reads and acknowledges the latched interrupts and appends them to dst.
func (p *axp202) pendingIRQs(dst []IRQ) ([]IRQ, error) {
	var status [3]byte
	for i := range status {
		v, err := p.read(axp202RegIRQStatus1 + uint8(i))
		if err != nil {
			return dst, err
		}
		status[i] = v
	}
	for i, v := range status {
		if v == 0 {
			continue
		}
		if err := p.write(axp202RegIRQStatus1+uint8(i), v); err != nil {
			return dst, err
		}
	}
	return decodeAXP202(status, dst), nil
}

func decodeAXP202(status [3]byte, dst []IRQ) []IRQ {
	if status[0]&axp202VbusInsert != 0 {
		dst = append(dst, IRQ{Kind: IRQVbusConnect})
	}
	if status[0]&axp202VbusRemove != 0 {
		dst = append(dst, IRQ{Kind: IRQVbusRemove})
	}
	if status[1]&axp202ChargeStart != 0 {
		dst = append(dst, IRQ{Kind: IRQCharging})
	}
	if status[1]&axp202ChargeDone != 0 {
		dst = append(dst, IRQ{Kind: IRQChargeDone})
	}
	if status[2]&axp202KeyShort != 0 {
		dst = append(dst, IRQ{Kind: IRQPowerKey})
	}
	return dst
}

func (p *axp202) IsCharging() (bool, error) {
	v, err := p.read(axp202RegChargeStatus)
	if err != nil {
		return false, err
	}
	return v&(1<<6) != 0, nil
}

func (p *axp202) BatteryPercent() (int, error) {
	v, err := p.read(axp202RegFuelGauge)
	if err != nil {
		return 0, err
	}
	pct := int(v & 0x7F)
	if pct > 100 {
		pct = 100
	}
	return pct, nil
}

// Temperature reads the 12-bit internal sensor: 0.1 degree steps from -144.7.
func (p *axp202) Temperature() (float32, error) {
	hi, err := p.read(axp202RegTempHigh)
	if err != nil {
		return 0, err
	}
	lo, err := p.read(axp202RegTempLow)
	if err != nil {
		return 0, err
	}
	raw := uint16(hi)<<4 | uint16(lo&0x0F)
	return float32(raw)*0.1 - 144.7, nil
}

// SetLowPower is a no-op: the ESP32 clock cannot be changed at runtime from TinyGo.
func (p *axp202) SetLowPower(low bool) {}

// DeepSleep cuts every rail except the power key circuit. A key press powers the watch
// back up and the firmware boots from scratch.
func (p *axp202) DeepSleep() error {
	v, err := p.read(axp202RegShutdown)
	if err != nil {
		return err
	}
	return p.write(axp202RegShutdown, v|0x80)
}

func (p *axp202) read(reg uint8) (uint8, error) {
	p.buf[0] = reg
	if err := p.bus.Tx(axp202Address, p.buf[:1], p.buf[1:2]); err != nil {
		return 0, fmt.Errorf("axp202: read %#02x: %w: %w", reg, ErrUnavailable, err)
	}
	return p.buf[1], nil
}

func (p *axp202) write(reg, v uint8) error {
	p.buf[0], p.buf[1] = reg, v
	if err := p.bus.Tx(axp202Address, p.buf[:2], nil); err != nil {
		return fmt.Errorf("axp202: write %#02x: %w: %w", reg, ErrUnavailable, err)
	}
	return nil
}
