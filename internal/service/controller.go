package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"smoking_chamber/internal/hardware"
	"smoking_chamber/internal/logger"
	"smoking_chamber/internal/models"
	"smoking_chamber/internal/repository"
	"smoking_chamber/internal/runstate"

	"github.com/google/uuid"
)

// ----------- Simulation constants -----------
const (
	HeaterRampCPerSec   = 0.25  // °C per second added by the heater
	ChamberLossPerSec   = 0.004 // share of (chamber - ambient) lost per second
	SmokeTauSec         = 30.0  // smoke sensor time constant
	ProductTauSec       = 900.0 // product core time constant
	HumidityTauSec      = 300.0 // humidity time constant
	HeaterDryingPerSec  = 0.02  // % RH removed per second while heating
	AmbientHumidity     = 60.0  // % RH
	SmokeGeneratorRiseC = 15.0  // smoke sensor rise above chamber at full smoke
	HumidityToleranceRH = 5.0   // % RH band for "at target"
	OverheatReleaseC    = 5.0   // overheat clears this far below max
	maxTickSeconds      = 10.0  // longer gaps are clamped
)

// SmokeDutyRunning is the smoke generator duty while a step is executing.
const SmokeDutyRunning = 100

// ControllerConfig holds the control loop settings from config.yml.
type ControllerConfig struct {
	MaxTempC     float64
	AmbientC     float64
	MinHeaterOff time.Duration
}

// chamberModel is the simulated plant. The dev host has no sensors.
type chamberModel struct {
	chamber  float64
	smoke    float64
	product  float64
	humidity float64
}

// ControllerService is the chamber control loop. It consumes the run state
// written by the panel, drives the outputs and walks through program steps.
type ControllerService struct {
	state     *runstate.State
	gpio      hardware.GPIO
	pins      hardware.Pins
	clock     hardware.Clock
	eventRepo repository.EventRepo
	session   *SessionService
	cfg       ControllerConfig
	log       *logger.Logger

	model          chamberModel
	heaterOn       bool
	heaterOffSince time.Time
	smokeDuty      int
	fanDuty        int
	lastTick       time.Time
	overheat       bool
}

// NewControllerService returns a control loop with the plant at ambient.
func NewControllerService(
	state *runstate.State,
	gpio hardware.GPIO,
	pins hardware.Pins,
	clock hardware.Clock,
	eventRepo repository.EventRepo,
	session *SessionService,
	cfg ControllerConfig,
	log *logger.Logger,
) *ControllerService {
	if clock == nil {
		clock = hardware.SystemClock{}
	}
	return &ControllerService{
		state:     state,
		gpio:      gpio,
		pins:      pins,
		clock:     clock,
		eventRepo: eventRepo,
		session:   session,
		cfg:       cfg,
		log:       log,
		model: chamberModel{
			chamber:  cfg.AmbientC,
			smoke:    cfg.AmbientC,
			product:  cfg.AmbientC,
			humidity: AmbientHumidity,
		},
	}
}

// Begin configures the output pins and drives them low.
func (s *ControllerService) Begin() error {
	for _, pin := range []hardware.Pin{s.pins.Heater, s.pins.Smoke, s.pins.Fan} {
		if err := s.gpio.ConfigureOutput(pin); err != nil {
			return fmt.Errorf("configure output %d: %w", pin, err)
		}
	}
	s.Shutdown()
	return nil
}

// Shutdown drives every output low.
func (s *ControllerService) Shutdown() {
	s.writeOutputs(false, 0, 0)
	s.heaterOn = false
	s.smokeDuty = 0
	s.fanDuty = 0
}

// Run ticks at the given interval until ctx is canceled.
func (s *ControllerService) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Tick(ctx)
		}
	}
}

// Tick runs one control cycle.
func (s *ControllerService) Tick(ctx context.Context) {
	now := s.clock.Now()
	elapsed := 0.0
	if !s.lastTick.IsZero() {
		elapsed = math.Min(now.Sub(s.lastTick).Seconds(), maxTickSeconds)
	}
	s.lastTick = now

	snap := s.state.Snapshot()
	step, running := snap.CurrentStep()

	humidityTarget := AmbientHumidity
	if running {
		humidityTarget = float64(step.TargetHumidity)
	}
	s.model.advance(elapsed, s.heaterOn, s.smokeDuty, s.cfg.AmbientC, humidityTarget)

	s.detectAndLogOverheat(ctx, now, snap)

	runID, wantHeat, smoke, fan := "", false, 0, 0
	if running {
		runID = snap.RunID
		wantHeat = !s.overheat && heaterDemand(s.model.chamber, step, s.heaterOn)
		fan = step.FanPWM
		if !snap.StepStartTime.IsZero() {
			smoke = SmokeDutyRunning
		}
	}
	s.drive(now, runID, wantHeat, smoke, fan)

	s.state.SetTelemetry(runstate.Telemetry{
		TempChamber: s.model.chamber,
		TempSmoke:   s.model.smoke,
		TempProduct: s.model.product,
		Humidity:    s.model.humidity,
		HeaterOn:    s.heaterOn,
		SmokePWM:    s.smokeDuty,
		FanPWM:      s.fanDuty,
	})

	if running {
		s.handleStep(now, snap, step)
	}
}

// heaterDemand is a bang-bang decision inside the hysteresis band below
// target: on at or below target-band, off at or above target, unchanged
// in between.
func heaterDemand(chamber float64, step models.ProgramStep, on bool) bool {
	target := float64(step.TargetTempC)
	band := float64(step.HysteresisC)
	switch {
	case chamber <= target-band:
		return true
	case chamber >= target:
		return false
	default:
		return on
	}
}

// drive writes the outputs for run runID. The heater stays off for at least
// MinHeaterOff after it was switched off. Once runID is no longer active,
// e.g. stopped from the panel since the snapshot was taken, every output is
// driven low instead.
func (s *ControllerService) drive(now time.Time, runID string, wantHeat bool, smoke, fan int) {
	if wantHeat && !s.heaterOn && !s.heaterOffSince.IsZero() && now.Sub(s.heaterOffSince) < s.cfg.MinHeaterOff {
		wantHeat = false
	}
	applied := runID != "" && s.state.DriveOutputs(runID, func() {
		s.writeOutputs(wantHeat, smoke, fan)
	})
	if !applied {
		wantHeat, smoke, fan = false, 0, 0
		s.writeOutputs(false, 0, 0)
	}

	if s.heaterOn && !wantHeat {
		s.heaterOffSince = now
	}
	s.heaterOn = wantHeat
	s.smokeDuty = smoke
	s.fanDuty = fan
}

func (s *ControllerService) writeOutputs(heat bool, smoke, fan int) {
	level := hardware.Low
	if heat {
		level = hardware.High
	}
	s.gpio.DigitalWrite(s.pins.Heater, level)
	s.gpio.PWMWrite(s.pins.Smoke, smoke)
	s.gpio.PWMWrite(s.pins.Fan, fan)
}

// handleStep starts the step clock once the step's wait conditions hold and
// moves on after the step duration. After the last step the run finishes.
func (s *ControllerService) handleStep(now time.Time, snap runstate.Snapshot, step models.ProgramStep) {
	if snap.StepStartTime.IsZero() {
		if !s.targetsReached(step) {
			if !snap.WaitingForTemp {
				s.state.SetWaitingForTemp(snap.RunID, true)
			}
			return
		}
		s.state.StartStepClock(snap.RunID, now)
		return
	}

	if now.Sub(snap.StepStartTime) < time.Duration(step.DurationMinutes)*time.Minute {
		return
	}

	if s.state.AdvanceStep(snap.RunID) {
		next := s.state.Snapshot()
		if s.log != nil {
			s.log.Infow("step_advance", "run_id", snap.RunID, "step", next.StepIndex+1)
		}
		if s.session != nil {
			s.session.StepAdvanced(next)
		}
		return
	}
	if s.state.Finish(snap.RunID) {
		if s.log != nil {
			s.log.Infow("program_finished", "run_id", snap.RunID, "program", programName(snap))
		}
		if s.session != nil {
			s.session.ProgramFinished(snap)
		}
	}
}

func (s *ControllerService) targetsReached(step models.ProgramStep) bool {
	if step.WaitForTemp && s.model.chamber < float64(step.TargetTempC-step.HysteresisC) {
		return false
	}
	if step.WaitForHumidity && math.Abs(s.model.humidity-float64(step.TargetHumidity)) > HumidityToleranceRH {
		return false
	}
	return true
}

// detectAndLogOverheat latches the overheat flag and appends an ERROR
// event on the rising edge.
func (s *ControllerService) detectAndLogOverheat(ctx context.Context, now time.Time, snap runstate.Snapshot) {
	if s.model.chamber <= s.cfg.MaxTempC {
		if s.overheat && s.model.chamber < s.cfg.MaxTempC-OverheatReleaseC {
			s.overheat = false
		}
		return
	}
	if s.overheat {
		return
	}
	s.overheat = true
	if s.log != nil {
		s.log.Errorw("overheat", "temp_c", s.model.chamber, "max_c", s.cfg.MaxTempC)
	}
	err := s.eventRepo.Append(ctx, models.ChamberEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  now.UTC(),
		Type:        models.EventError,
		RunID:       snap.RunID,
		Program:     programName(snap),
		Description: "Overheat detected",
		Metadata: map[string]any{
			"temp_c": s.model.chamber,
			"max_c":  s.cfg.MaxTempC,
		},
	})
	if err != nil && s.log != nil {
		s.log.Errorw("append event failed", "type", models.EventError, "err", err)
	}
}

// advance integrates the plant over dt seconds.
func (m *chamberModel) advance(dt float64, heaterOn bool, smokeDuty int, ambient, humidityTarget float64) {
	if dt <= 0 {
		return
	}
	if heaterOn {
		m.chamber += HeaterRampCPerSec * dt
	}
	m.chamber -= (m.chamber - ambient) * math.Min(1, ChamberLossPerSec*dt)

	smokeTarget := m.chamber + SmokeGeneratorRiseC*float64(smokeDuty)/100
	m.smoke = relax(m.smoke, smokeTarget, dt, SmokeTauSec)
	m.product = relax(m.product, m.chamber, dt, ProductTauSec)

	m.humidity = relax(m.humidity, humidityTarget, dt, HumidityTauSec)
	if heaterOn {
		m.humidity -= HeaterDryingPerSec * dt
	}
	m.humidity = math.Max(0, math.Min(100, m.humidity))
}

// relax moves x toward target with a first-order lag of time constant tau.
func relax(x, target, dt, tau float64) float64 {
	return x + (target-x)*math.Min(1, dt/tau)
}
