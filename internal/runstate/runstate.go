// Package runstate holds the authoritative state of the smoking session.
//
// One State is constructed by the entrypoint and handed to the panel and the
// chamber control loop. The navigator starts and stops runs; the control loop
// writes telemetry and walks through steps. Neither writes the other's fields.
package runstate

import (
	"sync"
	"time"

	"smoking_chamber/internal/models"

	"github.com/google/uuid"
)

// Mode is the run mode of the chamber.
type Mode int

const (
	Idle Mode = iota
	Running
)

func (m Mode) String() string {
	if m == Running {
		return "RUNNING"
	}
	return "IDLE"
}

// NetworkMode is the Wi-Fi mode reported by network setup.
type NetworkMode int

const (
	NetworkAP NetworkMode = iota
	NetworkSTA
)

func (m NetworkMode) String() string {
	if m == NetworkSTA {
		return "STA"
	}
	return "AP"
}

// ParseNetworkMode accepts "AP" or "STA"; anything else is AP.
func ParseNetworkMode(s string) NetworkMode {
	if s == "STA" || s == "sta" {
		return NetworkSTA
	}
	return NetworkAP
}

// Network is read-only status written by network setup.
type Network struct {
	Mode NetworkMode
	SSID string
	IP   string
}

// Telemetry is written by the control loop and only displayed by the panel.
type Telemetry struct {
	TempChamber float64
	TempSmoke   float64
	TempProduct float64
	Humidity    float64
	HeaterOn    bool
	SmokePWM    int
	FanPWM      int
}

// Snapshot is a consistent copy of the state. Program is a private copy.
type Snapshot struct {
	Network          Network
	Mode             Mode
	RunID            string
	Program          *models.SmokingProgram
	StepIndex        int
	ProgramStartTime time.Time
	StepStartTime    time.Time
	WaitingForTemp   bool
	EmergencyStop    bool
	Telemetry        Telemetry
}

// CurrentStep returns the executing step, if any.
func (s Snapshot) CurrentStep() (models.ProgramStep, bool) {
	if s.Mode != Running || s.Program == nil || s.StepIndex >= len(s.Program.Steps) {
		return models.ProgramStep{}, false
	}
	return s.Program.Steps[s.StepIndex], true
}

// State is the process-wide session model. Program is non-nil iff mode is Running.
type State struct {
	mu sync.RWMutex

	network Network

	mode             Mode
	runID            string
	program          *models.SmokingProgram
	stepIndex        int
	programStartTime time.Time
	stepStartTime    time.Time
	waitingForTemp   bool
	emergencyStop    bool

	telemetry Telemetry
}

// New returns an idle state.
func New(network Network) *State {
	if network.IP == "" {
		network.IP = "0.0.0.0"
	}
	return &State{network: network}
}

// ---- navigator ----

// Start takes a private copy of p and begins running it from step 0. The
// step clock stays unset until the control loop starts it. A program
// without steps is refused.
func (s *State) Start(p models.SmokingProgram, now time.Time) (string, bool) {
	if len(p.Steps) == 0 {
		return "", false
	}
	prog := p.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = Running
	s.runID = uuid.NewString()
	s.program = &prog
	s.stepIndex = 0
	s.programStartTime = now
	s.stepStartTime = time.Time{}
	s.waitingForTemp = false
	s.emergencyStop = false
	return s.runID, true
}

// EmergencyStop drops the run and raises the emergency flag. The flag is
// cleared by the next Start. cutOff, if non-nil, runs under the state lock,
// so no DriveOutputs call can land between the stop and the cut-off writes.
func (s *State) EmergencyStop(cutOff func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cutOff != nil {
		cutOff()
	}
	s.emergencyStop = true
	s.mode = Idle
	s.program = nil
	s.waitingForTemp = false
}

// ---- control loop ----

// SetTelemetry publishes the latest sensor and actuator readings.
func (s *State) SetTelemetry(t Telemetry) {
	s.mu.Lock()
	s.telemetry = t
	s.mu.Unlock()
}

// DriveOutputs runs write under the state lock while run runID is active.
// It reports false, without calling write, once the run has been stopped
// or finished.
func (s *State) DriveOutputs(runID string, write func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ownsRun(runID) {
		return false
	}
	write()
	return true
}

// SetWaitingForTemp sets the advisory wait flag for run runID.
func (s *State) SetWaitingForTemp(runID string, waiting bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ownsRun(runID) {
		return false
	}
	s.waitingForTemp = waiting
	return true
}

// StartStepClock marks the current step as started at now.
func (s *State) StartStepClock(runID string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ownsRun(runID) {
		return false
	}
	s.stepStartTime = now
	s.waitingForTemp = false
	return true
}

// AdvanceStep moves to the next step with its clock unset. It reports false
// when runID is no longer active or the current step is the last one.
func (s *State) AdvanceStep(runID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ownsRun(runID) || s.stepIndex+1 >= len(s.program.Steps) {
		return false
	}
	s.stepIndex++
	s.stepStartTime = time.Time{}
	s.waitingForTemp = false
	return true
}

// Finish ends run runID after its last step completed.
func (s *State) Finish(runID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ownsRun(runID) {
		return false
	}
	s.mode = Idle
	s.program = nil
	s.waitingForTemp = false
	return true
}

func (s *State) ownsRun(runID string) bool {
	return s.mode == Running && s.program != nil && s.runID == runID
}

// ---- readers ----

// Mode returns the current run mode.
func (s *State) Mode() Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// Snapshot returns a consistent copy of the whole state.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{
		Network:          s.network,
		Mode:             s.mode,
		RunID:            s.runID,
		StepIndex:        s.stepIndex,
		ProgramStartTime: s.programStartTime,
		StepStartTime:    s.stepStartTime,
		WaitingForTemp:   s.waitingForTemp,
		EmergencyStop:    s.emergencyStop,
		Telemetry:        s.telemetry,
	}
	if s.program != nil {
		p := s.program.Clone()
		snap.Program = &p
	}
	return snap
}
