// Package input turns the four panel button lines into discrete events.
package input

import (
	"errors"
	"strings"
	"time"

	"smoking_chamber/internal/hardware"
)

// Event is a debounced button press. Values double as the priority order.
type Event int

const (
	None Event = iota - 1
	Up
	Down
	OK
	Back
)

// DebounceWindow is how long a line must hold a new level before it counts.
const DebounceWindow = 50 * time.Millisecond

// ErrUnknownButton is returned by ParseEvent for unrecognized names.
var ErrUnknownButton = errors.New("unknown button: must be UP, DOWN, OK, or BACK")

func (e Event) String() string {
	switch e {
	case Up:
		return "UP"
	case Down:
		return "DOWN"
	case OK:
		return "OK"
	case Back:
		return "BACK"
	default:
		return "NONE"
	}
}

// ParseEvent maps a button name to its event.
func ParseEvent(s string) (Event, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "UP":
		return Up, nil
	case "DOWN":
		return Down, nil
	case "OK":
		return OK, nil
	case "BACK":
		return Back, nil
	default:
		return None, ErrUnknownButton
	}
}

// buttonLine is the debounce state of one physical button.
type buttonLine struct {
	pin        hardware.Pin
	stable     hardware.Level // last debounced level
	lastRaw    hardware.Level // last instantaneous reading
	lastChange time.Time      // when lastRaw last changed
}

// Buttons polls the UP, DOWN, OK and BACK lines. Buttons are active-low.
type Buttons struct {
	gpio   hardware.GPIO
	clock  hardware.Clock
	window time.Duration
	lines  [4]buttonLine
}

// NewButtons wires the four lines in priority order. A non-positive window
// falls back to DebounceWindow.
func NewButtons(gpio hardware.GPIO, clock hardware.Clock, pins hardware.Pins, window time.Duration) *Buttons {
	if window <= 0 {
		window = DebounceWindow
	}
	b := &Buttons{gpio: gpio, clock: clock, window: window}
	for i, pin := range []hardware.Pin{pins.ButtonUp, pins.ButtonDown, pins.ButtonOK, pins.ButtonBack} {
		b.lines[i] = buttonLine{pin: pin, stable: hardware.High, lastRaw: hardware.High}
	}
	return b
}

// Begin configures the lines as pulled-up inputs and seeds each line with
// its current reading.
func (b *Buttons) Begin() error {
	now := b.clock.Now()
	for i := range b.lines {
		l := &b.lines[i]
		if err := b.gpio.ConfigureInputPullUp(l.pin); err != nil {
			return err
		}
		l.stable = b.gpio.DigitalRead(l.pin)
		l.lastRaw = l.stable
		l.lastChange = now
	}
	return nil
}

// Poll returns at most one press per call. Every line is debounced on every
// call; when several lines settle to pressed at once only the first in
// priority order is reported and the others are dropped, not queued.
func (b *Buttons) Poll() Event {
	now := b.clock.Now()
	ev := None
	for i := range b.lines {
		if b.lines[i].update(b.gpio.DigitalRead(b.lines[i].pin), now, b.window) && ev == None {
			ev = Event(i)
		}
	}
	return ev
}

// update feeds one reading into the line and reports whether the line just
// settled to the pressed level. A bounce restarts the window; a reading
// taken exactly at the window boundary is not yet settled.
func (l *buttonLine) update(reading hardware.Level, now time.Time, window time.Duration) bool {
	if reading != l.lastRaw {
		l.lastRaw = reading
		l.lastChange = now
	}
	if reading == l.stable || now.Sub(l.lastChange) <= window {
		return false
	}
	l.stable = reading
	return reading == hardware.Low
}
