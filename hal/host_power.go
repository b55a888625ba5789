//go:build !tinygo

package hal

import (
	"sync"
)

type hostPower struct {
	mu       sync.Mutex
	percent  float64
	charging bool
	lowPower bool
	asleep   bool
	irq      *hostInterrupts
}

func newHostPower(percent int, charging bool, irq *hostInterrupts) *hostPower {
	return &hostPower{percent: float64(percent), charging: charging, irq: irq}
}

func (p *hostPower) IsCharging() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.charging, nil
}

func (p *hostPower) BatteryPercent() (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return int(p.percent + 0.5), nil
}

func (p *hostPower) Temperature() (float32, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	t := float32(31.5)
	if p.charging {
		t += 4
	}
	if !p.lowPower {
		t += 1.5
	}
	return t, nil
}

func (p *hostPower) SetLowPower(low bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lowPower = low
}

func (p *hostPower) DeepSleep() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.asleep = true
	return nil
}

// toggleCharger simulates plugging or unplugging VBUS.
func (p *hostPower) toggleCharger() {
	p.mu.Lock()
	p.charging = !p.charging
	charging := p.charging
	p.mu.Unlock()

	if charging {
		p.irq.emit(IRQ{Kind: IRQVbusConnect})
		p.irq.emit(IRQ{Kind: IRQCharging})
	} else {
		p.irq.emit(IRQ{Kind: IRQVbusRemove})
	}
}

// step advances the battery model by one simulated second.
func (p *hostPower) step() {
	p.mu.Lock()
	done := false
	switch {
	case p.charging && p.percent < 100:
		p.percent += 0.5
		if p.percent >= 100 {
			p.percent = 100
			done = true
		}
	case !p.charging && p.percent > 0:
		drain := 0.02
		if p.lowPower {
			drain = 0.002
		}
		p.percent -= drain
		if p.percent < 0 {
			p.percent = 0
		}
	}
	p.mu.Unlock()

	if done {
		p.irq.emit(IRQ{Kind: IRQChargeDone})
	}
}
