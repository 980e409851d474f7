package hardware

import (
	"fmt"
	"sync"
)

type pinMode int

const (
	modeUnset pinMode = iota
	modeInputPullUp
	modeOutput
)

// SimGPIO is an in-memory GPIO driver. Inputs configured with a pull-up read
// High until something drives them low through Set.
type SimGPIO struct {
	mu     sync.Mutex
	modes  map[Pin]pinMode
	levels map[Pin]Level
	duty   map[Pin]int
}

// NewSimGPIO returns an empty simulated driver.
func NewSimGPIO() *SimGPIO {
	return &SimGPIO{
		modes:  make(map[Pin]pinMode),
		levels: make(map[Pin]Level),
		duty:   make(map[Pin]int),
	}
}

// Ensure implementation of GPIO interface at compile time.
var _ GPIO = (*SimGPIO)(nil)

func (g *SimGPIO) ConfigureInputPullUp(pin Pin) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.modes[pin] == modeOutput {
		return fmt.Errorf("pin %d already configured as output", pin)
	}
	g.modes[pin] = modeInputPullUp
	if _, ok := g.levels[pin]; !ok {
		g.levels[pin] = High
	}
	return nil
}

func (g *SimGPIO) ConfigureOutput(pin Pin) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.modes[pin] == modeInputPullUp {
		return fmt.Errorf("pin %d already configured as input", pin)
	}
	g.modes[pin] = modeOutput
	g.levels[pin] = Low
	g.duty[pin] = 0
	return nil
}

func (g *SimGPIO) DigitalRead(pin Pin) Level {
	g.mu.Lock()
	defer g.mu.Unlock()
	lvl, ok := g.levels[pin]
	if !ok {
		// floating input with internal pull-up
		return High
	}
	return lvl
}

func (g *SimGPIO) DigitalWrite(pin Pin, level Level) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.levels[pin] = level
	if level == Low {
		g.duty[pin] = 0
	} else {
		g.duty[pin] = 100
	}
}

func (g *SimGPIO) PWMWrite(pin Pin, duty int) {
	if duty < 0 {
		duty = 0
	}
	if duty > 100 {
		duty = 100
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.duty[pin] = duty
	g.levels[pin] = Level(duty > 0)
}

// Set drives an input line from the outside, e.g. a simulated button.
func (g *SimGPIO) Set(pin Pin, level Level) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.levels[pin] = level
}

// Duty returns the last PWM duty written to pin.
func (g *SimGPIO) Duty(pin Pin) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.duty[pin]
}
