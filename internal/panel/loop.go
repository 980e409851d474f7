// Package panel runs the cooperative loop that owns the buttons and the
// navigator.
package panel

import (
	"context"
	"errors"
	"time"

	"smoking_chamber/internal/display"
	"smoking_chamber/internal/input"
	"smoking_chamber/internal/logger"
)

// DefaultPollInterval is how often the buttons are sampled.
const DefaultPollInterval = 10 * time.Millisecond

const remoteQueueSize = 8

// ErrPanelBusy is returned when remote presses arrive faster than the loop drains them.
var ErrPanelBusy = errors.New("panel busy: too many pending presses")

// Poller yields at most one debounced button event per call.
type Poller interface {
	Poll() input.Event
}

// Navigator consumes events and renders on its own cadence.
type Navigator interface {
	HandleEvent(ev input.Event)
	Update() bool
}

// FrameSource exposes the last rendered frame.
type FrameSource interface {
	Frame() []display.Row
}

// Loop feeds button events into the navigator. All navigator calls happen
// on the goroutine running Tick or Run.
type Loop struct {
	buttons Poller
	nav     Navigator
	frames  FrameSource
	remote  chan input.Event
	log     *logger.Logger
}

// NewLoop wires the loop. frames and log may be nil.
func NewLoop(buttons Poller, nav Navigator, frames FrameSource, log *logger.Logger) *Loop {
	return &Loop{
		buttons: buttons,
		nav:     nav,
		frames:  frames,
		remote:  make(chan input.Event, remoteQueueSize),
		log:     log,
	}
}

// Press queues a virtual button press, e.g. from the web API. It never blocks.
func (l *Loop) Press(ev input.Event) error {
	if ev == input.None {
		return input.ErrUnknownButton
	}
	select {
	case l.remote <- ev:
		return nil
	default:
		return ErrPanelBusy
	}
}

// Frame returns the last frame sent to the display.
func (l *Loop) Frame() []display.Row {
	if l.frames == nil {
		return nil
	}
	return l.frames.Frame()
}

// Tick runs one pass: one physical or remote event, then a render attempt.
// Physical buttons win; a remote press waits for a tick without one.
func (l *Loop) Tick() {
	ev := l.buttons.Poll()
	if ev == input.None {
		select {
		case ev = <-l.remote:
			if l.log != nil {
				l.log.Debugw("remote_press", "button", ev)
			}
		default:
		}
	}
	if ev != input.None {
		l.nav.HandleEvent(ev)
	}
	l.nav.Update()
}

// Run ticks at the given interval until ctx is canceled.
func (l *Loop) Run(ctx context.Context, tick time.Duration) {
	if tick <= 0 {
		tick = DefaultPollInterval
	}
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			l.Tick()
		}
	}
}
