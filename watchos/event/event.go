// Package event defines the input events producers hand to the kernel.
package event

import (
	"strings"
	"time"
)

// Kind is an event tag. Every kind is a distinct bit so a set of kinds is a Kind mask.
type Kind uint32

const (
	PowerConnect Kind = 1 << iota
	PowerCharge
	PowerDisconnect
	PowerButton
	TouchBegin
	TouchChange
	TouchEnd
	RTCTick
	RTCAlarm
	SensorTilt
	SensorDoubleTap
	SensorStep
)

const (
	PowerKinds  = PowerConnect | PowerCharge | PowerDisconnect | PowerButton
	TouchKinds  = TouchBegin | TouchChange | TouchEnd
	ClockKinds  = RTCTick | RTCAlarm
	SensorKinds = SensorTilt | SensorDoubleTap | SensorStep
	AllKinds    = PowerKinds | TouchKinds | ClockKinds | SensorKinds
)

var kindNames = [...]string{
	"power-connect",
	"power-charge",
	"power-disconnect",
	"power-button",
	"touch-begin",
	"touch-change",
	"touch-end",
	"rtc-tick",
	"rtc-alarm",
	"sensor-tilt",
	"sensor-double-tap",
	"sensor-step",
}

// In reports whether k shares a bit with mask.
func (k Kind) In(mask Kind) bool { return k&mask != 0 }

func (k Kind) String() string {
	if k == 0 {
		return "none"
	}
	var parts []string
	for i, name := range kindNames {
		if k&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	if rest := k &^ AllKinds; rest != 0 {
		parts = append(parts, "unknown")
	}
	return strings.Join(parts, "|")
}

// Power is the payload of power kinds. BatteryPercent is -1 when the producer did not
// read the fuel gauge.
type Power struct {
	Charging       bool
	BatteryPercent int
}

// Touch is the payload of touch kinds. ID distinguishes simultaneous contacts.
type Touch struct {
	ID   uint8
	X, Y int16
}

// Clock is the payload of RTC kinds.
type Clock struct {
	Time time.Time
}

// Sensor is the payload of sensor kinds. X and Y carry tilt axes; Steps the step counter.
type Sensor struct {
	X, Y  int16
	Steps uint32
}

// Event is a tagged record. Only the payload matching Kind is meaningful.
type Event struct {
	Kind   Kind
	Power  Power
	Touch  Touch
	Clock  Clock
	Sensor Sensor
}

func NewPower(k Kind, p Power) Event   { return Event{Kind: k, Power: p} }
func NewTouch(k Kind, t Touch) Event   { return Event{Kind: k, Touch: t} }
func NewClock(k Kind, c Clock) Event   { return Event{Kind: k, Clock: c} }
func NewSensor(k Kind, s Sensor) Event { return Event{Kind: k, Sensor: s} }

func (e Event) PowerData() (Power, bool)   { return e.Power, e.Kind.In(PowerKinds) }
func (e Event) TouchData() (Touch, bool)   { return e.Touch, e.Kind.In(TouchKinds) }
func (e Event) ClockData() (Clock, bool)   { return e.Clock, e.Kind.In(ClockKinds) }
func (e Event) SensorData() (Sensor, bool) { return e.Sensor, e.Kind.In(SensorKinds) }
