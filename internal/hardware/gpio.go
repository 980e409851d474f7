// Package hardware abstracts the digital lines and clock used by the panel
// and the chamber control loop. Real boards plug in their own GPIO; SimGPIO
// backs the dev host and the tests.
package hardware

import "time"

// Level is a digital line level.
type Level bool

const (
	Low  Level = false
	High Level = true
)

func (l Level) String() string {
	if l == High {
		return "HIGH"
	}
	return "LOW"
}

// Pin identifies a hardware GPIO pin number.
type Pin uint8

// GPIO is the narrow driver interface the core uses.
type GPIO interface {
	// ConfigureInputPullUp configures pin as a digital input with pull-up resistor.
	ConfigureInputPullUp(pin Pin) error
	// ConfigureOutput configures pin as a digital output driven low.
	ConfigureOutput(pin Pin) error
	// DigitalRead returns the instantaneous level of pin.
	DigitalRead(pin Pin) Level
	// DigitalWrite drives pin to level.
	DigitalWrite(pin Pin, level Level)
	// PWMWrite sets the duty cycle of pin in percent (0-100).
	PWMWrite(pin Pin, duty int)
}

// Pins is the board wiring.
type Pins struct {
	ButtonUp   Pin `mapstructure:"btn_up"`
	ButtonDown Pin `mapstructure:"btn_down"`
	ButtonOK   Pin `mapstructure:"btn_ok"`
	ButtonBack Pin `mapstructure:"btn_back"`
	Heater     Pin `mapstructure:"heater"`
	Smoke      Pin `mapstructure:"smoke"`
	Fan        Pin `mapstructure:"fan"`
}

// DefaultPins matches the reference ESP32 board.
func DefaultPins() Pins {
	return Pins{
		ButtonUp:   12,
		ButtonDown: 13,
		ButtonOK:   14,
		ButtonBack: 15,
		Heater:     25,
		Smoke:      26,
		Fan:        27,
	}
}

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
