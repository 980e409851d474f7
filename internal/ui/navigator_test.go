package ui

import (
	"reflect"
	"testing"
	"time"

	"smoking_chamber/internal/catalog"
	"smoking_chamber/internal/display"
	"smoking_chamber/internal/hardware"
	"smoking_chamber/internal/input"
	"smoking_chamber/internal/models"
	"smoking_chamber/internal/runstate"
)

// ---- Test doubles ----

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

type recordingListener struct {
	started []runstate.Snapshot
	stopped []runstate.Snapshot
}

func (l *recordingListener) ProgramStarted(s runstate.Snapshot)   { l.started = append(l.started, s) }
func (l *recordingListener) EmergencyStopped(s runstate.Snapshot) { l.stopped = append(l.stopped, s) }

type fixture struct {
	nav      *Navigator
	state    *runstate.State
	catalog  *catalog.Catalog
	loader   *sliceLoader
	screen   *display.TextFrame
	gpio     *hardware.SimGPIO
	pins     hardware.Pins
	clock    *fakeClock
	listener *recordingListener
}

type sliceLoader struct{ programs []models.SmokingProgram }

func (l *sliceLoader) LoadPrograms() []models.SmokingProgram { return l.programs }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		state:    runstate.New(runstate.Network{Mode: runstate.NetworkSTA, SSID: "home"}),
		loader:   &sliceLoader{},
		screen:   display.NewTextFrame(),
		gpio:     hardware.NewSimGPIO(),
		pins:     hardware.DefaultPins(),
		clock:    &fakeClock{now: time.Unix(5000, 0)},
		listener: &recordingListener{},
	}
	f.catalog = catalog.New(f.loader)
	_ = f.gpio.ConfigureOutput(f.pins.Heater)
	_ = f.gpio.ConfigureOutput(f.pins.Smoke)
	f.nav = NewNavigator(Deps{
		State:    f.state,
		Catalog:  f.catalog,
		Display:  f.screen,
		GPIO:     f.gpio,
		Pins:     f.pins,
		Clock:    f.clock,
		Listener: f.listener,
	}, RenderInterval)
	if err := f.nav.Begin(); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	return f
}

func (f *fixture) press(evs ...input.Event) {
	for _, ev := range evs {
		f.nav.HandleEvent(ev)
	}
}

func userProgram(name string) models.SmokingProgram {
	return models.SmokingProgram{Name: name, Steps: []models.ProgramStep{models.DefaultStep()}}
}

// ---- Tests ----

func TestNavigator_StartsOnMain(t *testing.T) {
	f := newFixture(t)
	if f.nav.Screen() != ScreenMain {
		t.Fatalf("expected MAIN, got %s", f.nav.Screen())
	}
	if got := f.screen.Lines(); !reflect.DeepEqual(got, []string{"SmartSmoker", "Starting..."}) {
		t.Fatalf("unexpected splash: %q", got)
	}
}

func TestNavigator_MainIgnoresOtherButtons(t *testing.T) {
	f := newFixture(t)
	f.press(input.Up, input.Down, input.Back, input.None)
	if f.nav.Screen() != ScreenMain {
		t.Fatalf("expected MAIN, got %s", f.nav.Screen())
	}
}

func TestNavigator_BrowseAndReturn(t *testing.T) {
	f := newFixture(t)

	f.press(input.OK)
	if f.nav.Screen() != ScreenProgramList || f.nav.SelectedIndex() != 0 {
		t.Fatalf("expected PROGRAM_LIST at 0, got %s at %d", f.nav.Screen(), f.nav.SelectedIndex())
	}

	f.press(input.Down, input.Down, input.Down)
	if f.nav.SelectedIndex() != 3 {
		t.Fatalf("expected selection 3, got %d", f.nav.SelectedIndex())
	}

	f.press(input.Back)
	if f.nav.Screen() != ScreenMain {
		t.Fatalf("expected MAIN, got %s", f.nav.Screen())
	}
	if snap := f.state.Snapshot(); snap.Mode != runstate.Idle || snap.Program != nil {
		t.Fatalf("browsing must not touch run state: %+v", snap)
	}
}

func TestNavigator_SelectionStaysInRange(t *testing.T) {
	f := newFixture(t)
	f.press(input.OK)

	f.press(input.Up, input.Up)
	if f.nav.SelectedIndex() != 0 {
		t.Fatalf("UP at top must stay 0, got %d", f.nav.SelectedIndex())
	}
	for i := 0; i < 10; i++ {
		f.press(input.Down)
	}
	if got, want := f.nav.SelectedIndex(), f.catalog.Len()-1; got != want {
		t.Fatalf("DOWN must stop at %d, got %d", want, got)
	}
}

func TestNavigator_EmptyCatalogIsNoop(t *testing.T) {
	f := newFixture(t)
	empty := catalog.New(nil)
	f.nav.Catalog = empty
	// skip Refresh on entry by moving the navigator to the list directly
	f.nav.screen = ScreenProgramList

	f.press(input.Down, input.Up)
	if f.nav.SelectedIndex() != 0 {
		t.Fatalf("selection moved on empty catalog: %d", f.nav.SelectedIndex())
	}
	f.press(input.OK, input.OK)
	if f.nav.Screen() != ScreenMain || f.state.Mode() != runstate.Idle {
		t.Fatalf("start on empty catalog must no-op to MAIN, got %s/%s", f.nav.Screen(), f.state.Mode())
	}
}

func TestNavigator_ConfirmStartRunsSelectedCopy(t *testing.T) {
	f := newFixture(t)
	f.loader.programs = []models.SmokingProgram{userProgram("Bacon")}

	f.press(input.OK, input.Down, input.Down, input.Down, input.Down)
	f.press(input.OK)
	if f.nav.Screen() != ScreenConfirmStart || f.nav.ConfirmText() != PromptStart {
		t.Fatalf("expected CONFIRM_START/%q, got %s/%q", PromptStart, f.nav.Screen(), f.nav.ConfirmText())
	}
	f.press(input.OK)

	snap := f.state.Snapshot()
	if f.nav.Screen() != ScreenMain {
		t.Fatalf("expected MAIN after start, got %s", f.nav.Screen())
	}
	if snap.Mode != runstate.Running || snap.StepIndex != 0 || snap.EmergencyStop || snap.WaitingForTemp {
		t.Fatalf("unexpected run state: %+v", snap)
	}
	if !snap.ProgramStartTime.Equal(f.clock.now) || !snap.StepStartTime.IsZero() {
		t.Fatalf("unexpected timers: %+v", snap)
	}
	want, _ := f.catalog.At(4)
	if !reflect.DeepEqual(*snap.Program, want) {
		t.Fatalf("running program %+v != catalog entry %+v", snap.Program, want)
	}

	// the catalog can change under the run without affecting it
	f.loader.programs = nil
	f.catalog.Refresh()
	if f.state.Snapshot().Program.Name != "Bacon" {
		t.Fatalf("refresh corrupted the running program")
	}
	if len(f.listener.started) != 1 || f.listener.started[0].Program.Name != "Bacon" {
		t.Fatalf("listener not told about start: %+v", f.listener.started)
	}
}

func TestNavigator_ConfirmStartBackReturnsToList(t *testing.T) {
	f := newFixture(t)
	f.press(input.OK, input.Down, input.OK, input.Back)
	if f.nav.Screen() != ScreenProgramList || f.nav.SelectedIndex() != 1 {
		t.Fatalf("expected PROGRAM_LIST at 1, got %s at %d", f.nav.Screen(), f.nav.SelectedIndex())
	}
	if f.state.Mode() != runstate.Idle {
		t.Fatalf("BACK must discard the start")
	}
}

func TestNavigator_StaleSelectionStartsNothing(t *testing.T) {
	f := newFixture(t)
	f.loader.programs = []models.SmokingProgram{userProgram("Bacon")}
	f.press(input.OK, input.Down, input.Down, input.Down, input.Down, input.OK)

	// catalog shrinks between selection and confirmation
	f.loader.programs = nil
	f.catalog.Refresh()

	f.press(input.OK)
	if f.nav.Screen() != ScreenMain || f.state.Mode() != runstate.Idle {
		t.Fatalf("stale selection must no-op to MAIN, got %s/%s", f.nav.Screen(), f.state.Mode())
	}
	if len(f.listener.started) != 0 {
		t.Fatalf("listener must not see a start")
	}
}

func TestNavigator_StopScenario(t *testing.T) {
	f := newFixture(t)
	f.press(input.OK, input.OK, input.OK)
	if f.state.Mode() != runstate.Running {
		t.Fatalf("expected RUNNING")
	}
	f.gpio.DigitalWrite(f.pins.Heater, hardware.High)
	f.gpio.PWMWrite(f.pins.Smoke, 80)

	f.press(input.Back)
	if f.nav.Screen() != ScreenConfirmStop || f.nav.ConfirmText() != PromptStop {
		t.Fatalf("expected CONFIRM_STOP/%q, got %s/%q", PromptStop, f.nav.Screen(), f.nav.ConfirmText())
	}
	f.press(input.OK)

	snap := f.state.Snapshot()
	if f.nav.Screen() != ScreenMain || snap.Mode != runstate.Idle || !snap.EmergencyStop {
		t.Fatalf("unexpected state after stop: %s %+v", f.nav.Screen(), snap)
	}
	if f.gpio.DigitalRead(f.pins.Heater) != hardware.Low || f.gpio.Duty(f.pins.Smoke) != 0 {
		t.Fatalf("outputs not driven low")
	}
	if len(f.listener.stopped) != 1 || f.listener.stopped[0].Program.Name != "Fish cold smoke" {
		t.Fatalf("listener not told about stop: %+v", f.listener.stopped)
	}
}

func TestNavigator_StopBackDiscards(t *testing.T) {
	f := newFixture(t)
	f.press(input.OK, input.OK, input.OK, input.Back, input.Back)
	if f.nav.Screen() != ScreenMain || f.state.Mode() != runstate.Running {
		t.Fatalf("BACK must keep the run, got %s/%s", f.nav.Screen(), f.state.Mode())
	}
}

func TestNavigator_StopAlwaysForcesIdle(t *testing.T) {
	f := newFixture(t)
	// reach the confirmation, then let the run end underneath it
	f.press(input.OK, input.OK, input.OK, input.Back)
	runID := f.state.Snapshot().RunID
	f.state.Finish(runID)
	f.gpio.DigitalWrite(f.pins.Heater, hardware.High)

	f.press(input.OK)
	snap := f.state.Snapshot()
	if snap.Mode != runstate.Idle || !snap.EmergencyStop || f.gpio.DigitalRead(f.pins.Heater) != hardware.Low {
		t.Fatalf("stop must apply regardless of prior state: %+v", snap)
	}
	if len(f.listener.stopped) != 0 {
		t.Fatalf("no run was stopped, listener must not be told: %+v", f.listener.stopped)
	}
}

func TestNavigator_BackOnIdleMainDoesNotConfirm(t *testing.T) {
	f := newFixture(t)
	f.press(input.Back)
	if f.nav.Screen() != ScreenMain {
		t.Fatalf("BACK while idle must stay on MAIN, got %s", f.nav.Screen())
	}
}
