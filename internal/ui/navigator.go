// Package ui implements the OLED menu: the status screen, the program list
// and the start/stop confirmations, driven by the four panel buttons.
package ui

import (
	"time"

	"smoking_chamber/internal/catalog"
	"smoking_chamber/internal/display"
	"smoking_chamber/internal/hardware"
	"smoking_chamber/internal/input"
	"smoking_chamber/internal/logger"
	"smoking_chamber/internal/runstate"
)

// Screen is the screen currently shown.
type Screen int

const (
	ScreenMain Screen = iota
	ScreenProgramList
	ScreenConfirmStart
	ScreenConfirmStop
	screenCount
)

func (s Screen) String() string {
	switch s {
	case ScreenProgramList:
		return "PROGRAM_LIST"
	case ScreenConfirmStart:
		return "CONFIRM_START"
	case ScreenConfirmStop:
		return "CONFIRM_STOP"
	default:
		return "MAIN"
	}
}

const (
	PromptStart = "Start?"
	PromptStop  = "Stop?"

	// RenderInterval is the minimum time between two frames.
	RenderInterval = 200 * time.Millisecond
)

// Listener is told about run transitions made from the panel.
type Listener interface {
	ProgramStarted(snap runstate.Snapshot)
	EmergencyStopped(snap runstate.Snapshot)
}

// Deps are the collaborators of a Navigator. Listener and Log may be nil.
type Deps struct {
	State    *runstate.State
	Catalog  *catalog.Catalog
	Display  display.Display
	GPIO     hardware.GPIO
	Pins     hardware.Pins
	Clock    hardware.Clock
	Listener Listener
	Log      *logger.Logger
}

// Navigator is the panel state machine. It is not safe for concurrent use;
// the panel loop owns it.
type Navigator struct {
	Deps
	renderInterval time.Duration

	initialized bool
	lastRender  time.Time

	screen      Screen
	selected    int
	confirmText string

	handlers [screenCount]func(input.Event)
}

// NewNavigator returns a navigator on the main screen. A non-positive
// renderInterval falls back to RenderInterval.
func NewNavigator(d Deps, renderInterval time.Duration) *Navigator {
	if renderInterval <= 0 {
		renderInterval = RenderInterval
	}
	n := &Navigator{Deps: d, renderInterval: renderInterval, screen: ScreenMain}
	n.handlers = [screenCount]func(input.Event){
		ScreenMain:         n.onMain,
		ScreenProgramList:  n.onProgramList,
		ScreenConfirmStart: n.onConfirmStart,
		ScreenConfirmStop:  n.onConfirmStop,
	}
	return n
}

// Begin initializes the display, loads the catalog and shows the splash.
// Nothing is rendered by Update before Begin succeeds.
func (n *Navigator) Begin() error {
	if err := n.Display.Begin(); err != nil {
		return err
	}
	n.Display.SetFont(display.FontSmall)
	n.Catalog.Refresh()
	n.initialized = true

	n.Display.ClearBuffer()
	n.Display.SetCursor(0, 0)
	n.Display.Print("SmartSmoker")
	n.Display.SetCursor(0, 16)
	n.Display.Print("Starting...")
	n.Display.SendBuffer()
	return nil
}

// Screen returns the current screen.
func (n *Navigator) Screen() Screen { return n.screen }

// SelectedIndex returns the highlighted row of the program list.
func (n *Navigator) SelectedIndex() int { return n.selected }

// ConfirmText returns the prompt of the last confirmation opened.
func (n *Navigator) ConfirmText() string { return n.confirmText }

// HandleEvent applies one button event to the current screen.
func (n *Navigator) HandleEvent(ev input.Event) {
	if ev == input.None {
		return
	}
	from := n.screen
	n.handlers[n.screen](ev)
	if n.Log != nil && from != n.screen {
		n.Log.Debugw("screen_changed", "from", from, "to", n.screen, "button", ev)
	}
}

func (n *Navigator) onMain(ev input.Event) {
	switch {
	case ev == input.OK:
		n.Catalog.Refresh()
		n.selected = 0
		n.screen = ScreenProgramList
	case ev == input.Back && n.State.Mode() == runstate.Running:
		n.confirmText = PromptStop
		n.screen = ScreenConfirmStop
	}
}

func (n *Navigator) onProgramList(ev input.Event) {
	switch ev {
	case input.Up:
		if n.selected > 0 {
			n.selected--
		}
	case input.Down:
		if n.selected < n.Catalog.Len()-1 {
			n.selected++
		}
	case input.OK:
		n.confirmText = PromptStart
		n.screen = ScreenConfirmStart
	case input.Back:
		n.screen = ScreenMain
	}
}

func (n *Navigator) onConfirmStart(ev input.Event) {
	switch ev {
	case input.OK:
		// A selection past the end of the catalog starts nothing.
		if p, ok := n.Catalog.At(n.selected); ok {
			if _, started := n.State.Start(p, n.Clock.Now()); started {
				snap := n.State.Snapshot()
				if n.Log != nil {
					n.Log.Infow("program_started", "program", p.Name, "run_id", snap.RunID, "steps", len(p.Steps))
				}
				if n.Listener != nil {
					n.Listener.ProgramStarted(snap)
				}
			}
		}
		n.screen = ScreenMain
	case input.Back:
		n.screen = ScreenProgramList
	}
}

func (n *Navigator) onConfirmStop(ev input.Event) {
	switch ev {
	case input.OK:
		before := n.State.Snapshot()
		n.State.EmergencyStop(func() {
			n.GPIO.DigitalWrite(n.Pins.Heater, hardware.Low)
			n.GPIO.PWMWrite(n.Pins.Smoke, 0)
		})
		n.screen = ScreenMain
		// the run may have finished while the prompt was open
		if before.Mode != runstate.Running {
			return
		}
		if n.Log != nil {
			name := ""
			if before.Program != nil {
				name = before.Program.Name
			}
			n.Log.Warnw("emergency_stop", "program", name, "run_id", before.RunID, "step", before.StepIndex+1)
		}
		if n.Listener != nil {
			n.Listener.EmergencyStopped(before)
		}
	case input.Back:
		n.screen = ScreenMain
	}
}

// Update renders the current screen unless the previous frame is younger
// than the render interval. It reports whether a frame was sent.
func (n *Navigator) Update() bool {
	if !n.initialized {
		return false
	}
	now := n.Clock.Now()
	if !n.lastRender.IsZero() && now.Sub(n.lastRender) < n.renderInterval {
		return false
	}
	n.lastRender = now

	n.Display.ClearBuffer()
	switch n.screen {
	case ScreenMain:
		n.drawMain()
	case ScreenProgramList:
		n.drawProgramList()
	case ScreenConfirmStart, ScreenConfirmStop:
		n.drawConfirm(n.confirmText)
	}
	n.Display.SendBuffer()
	return true
}
