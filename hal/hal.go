package hal

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnavailable reports a transient hardware read failure; callers retry later.
	ErrUnavailable = errors.New("hardware unavailable")
)

// Level is a log severity.
type Level uint8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// Logger writes leveled, newline-delimited log lines.
type Logger interface {
	Log(level Level, msg string)
}

// Logf formats and writes one line. A nil logger discards the line.
func Logf(l Logger, level Level, format string, args ...any) {
	if l == nil {
		return
	}
	l.Log(level, fmt.Sprintf(format, args...))
}

type teeLogger []Logger

func (t teeLogger) Log(level Level, msg string) {
	for _, l := range t {
		if l != nil {
			l.Log(level, msg)
		}
	}
}

// Tee returns a logger that writes every line to all non-nil loggers.
func Tee(ls ...Logger) Logger {
	return teeLogger(ls)
}

// Panel is the physical display driver.
//
// Present takes a fully formed RGB565 (little-endian) buffer of width*height pixels.
type Panel interface {
	Width() int
	Height() int
	Present(buf []byte, width, height int) error
	PowerOn() error
	PowerOff() error
	SetBrightness(level uint8) error
}

// Power is the power-management chip.
type Power interface {
	IsCharging() (bool, error)
	// BatteryPercent returns 0..100.
	BatteryPercent() (int, error)
	// Temperature returns the chip temperature in degrees Celsius.
	Temperature() (float32, error)
	// SetLowPower switches CPU and peripheral clocks between full speed and the reduced
	// frequency used while the display is off.
	SetLowPower(low bool)
	// DeepSleep powers down everything except the hardware wake source. On hardware it
	// does not return; a wake restarts the firmware.
	DeepSleep() error
}

// IRQKind identifies a hardware interrupt source.
type IRQKind uint8

const (
	IRQUnknown IRQKind = iota
	IRQPowerKey
	IRQVbusConnect
	IRQVbusRemove
	IRQCharging
	IRQChargeDone
	IRQTouchDown
	IRQTouchMove
	IRQTouchUp
	IRQTilt
	IRQDoubleTap
	IRQStepCount
	IRQAlarm
	IRQSecond
)

// IRQ is one raw interrupt as reported by a driver.
type IRQ struct {
	Kind IRQKind
	// X and Y carry touch coordinates (touch IRQs) or tilt axes (IRQTilt).
	X, Y int16
	// Count carries the step counter value (IRQStepCount).
	Count uint32
}

// Interrupts provides raw interrupt notifications from PMU, touch, sensor and RTC drivers.
type Interrupts interface {
	IRQs() <-chan IRQ
	// SetTouchMonitor switches the touch controller between monitoring and sleep.
	SetTouchMonitor(on bool)
}

// Time provides the base timebase.
type Time interface {
	// Millis returns monotonic milliseconds since boot.
	Millis() uint32
	// Sleep blocks for d or until ctx is done.
	Sleep(ctx context.Context, d time.Duration) error
	// Now returns the wall clock (RTC) time.
	Now() time.Time
}

// Allocator hands out pixel memory from one physical pool (internal RAM, PSRAM).
type Allocator interface {
	Alloc(n int) ([]byte, error)
}

// Runner is the OS main loop driven by a platform runner.
type Runner func(ctx context.Context) error

// HAL provides the only contact point between the OS and the outside world.
type HAL interface {
	Logger() Logger
	Panel() Panel
	Power() Power
	Interrupts() Interrupts
	Time() Time
	// Memory returns the pixel memory pools in preference order.
	Memory() []Allocator
}
