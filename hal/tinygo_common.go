//go:build tinygo && baremetal

package hal

import (
	"context"
	"machine"
	"time"
)

type tinyGoTime struct {
	start time.Time
}

func newTinyGoTime() *tinyGoTime {
	return &tinyGoTime{start: time.Now()}
}

func (t *tinyGoTime) Millis() uint32 {
	return uint32(time.Since(t.start) / time.Millisecond)
}

func (t *tinyGoTime) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d > 0 {
		time.Sleep(d)
	}
	return ctx.Err()
}

func (t *tinyGoTime) Now() time.Time { return time.Now() }

type uartLogger struct {
	uart *machine.UART
}

func (l *uartLogger) Log(level Level, msg string) {
	l.writeString(level.String())
	l.writeString(": ")
	l.writeString(msg)
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

func (l *uartLogger) writeString(s string) {
	for i := 0; i < len(s); i++ {
		l.uart.WriteByte(s[i])
	}
}

type tinyGoInterrupts struct {
	ch       chan IRQ
	touchOn  bool
	onToggle func(on bool)
}

func (i *tinyGoInterrupts) IRQs() <-chan IRQ { return i.ch }

func (i *tinyGoInterrupts) SetTouchMonitor(on bool) {
	i.touchOn = on
	if i.onToggle != nil {
		i.onToggle(on)
	}
}

func (i *tinyGoInterrupts) emit(irq IRQ) {
	select {
	case i.ch <- irq:
	default:
	}
}

// sramAllocator hands out internal RAM up to a fixed budget.
type sramAllocator struct {
	budget int
}

func (a *sramAllocator) Alloc(n int) ([]byte, error) {
	if n <= 0 || n > a.budget {
		return nil, ErrUnavailable
	}
	a.budget -= n
	return make([]byte, n), nil
}
