package service

import (
	"context"
	"fmt"
	"time"

	"smoking_chamber/internal/hardware"
	"smoking_chamber/internal/models"
	"smoking_chamber/internal/runstate"
)

// Step time labels shown instead of a countdown.
const (
	stepTimeWaiting    = "waiting for target"
	stepTimeNotStarted = "not started"
)

// MonitoringService builds the read model from the live run state.
type MonitoringService struct {
	state    *runstate.State
	programs Programs
	clock    hardware.Clock
}

func NewMonitoringService(state *runstate.State, programs Programs, clock hardware.Clock) *MonitoringService {
	if clock == nil {
		clock = hardware.SystemClock{}
	}
	return &MonitoringService{state: state, programs: programs, clock: clock}
}

// GetState returns the current chamber state with the program summary.
func (s *MonitoringService) GetState(ctx context.Context) (models.ChamberState, error) {
	programs, err := s.programs.ListPrograms(ctx)
	if err != nil {
		return models.ChamberState{}, err
	}

	now := s.clock.Now()
	snap := s.state.Snapshot()
	out := chamberStateFromSnapshot(snap, now)
	out.Programs = make([]models.ProgramSummary, len(programs))
	for i, p := range programs {
		out.Programs[i] = models.ProgramSummary{Name: p.Name, Steps: len(p.Steps), IsBuiltIn: p.IsBuiltIn}
	}
	return out, nil
}

func chamberStateFromSnapshot(snap runstate.Snapshot, now time.Time) models.ChamberState {
	t := snap.Telemetry
	out := models.ChamberState{
		NetworkMode:    snap.Network.Mode.String(),
		SSID:           snap.Network.SSID,
		IP:             snap.Network.IP,
		Mode:           snap.Mode.String(),
		WaitingForTemp: snap.WaitingForTemp,
		EmergencyStop:  snap.EmergencyStop,
		TempChamber:    t.TempChamber,
		TempSmoke:      t.TempSmoke,
		TempProduct:    t.TempProduct,
		Humidity:       t.Humidity,
		HeaterOn:       t.HeaterOn,
		SmokePWM:       t.SmokePWM,
		FanPWM:         t.FanPWM,
		UpdatedAt:      toUTC(now),
	}

	step, running := snap.CurrentStep()
	if !running {
		return out
	}
	out.RunID = snap.RunID
	out.CurrentProgramName = snap.Program.Name
	out.CurrentStepIndex = snap.StepIndex
	out.StepCount = len(snap.Program.Steps)
	out.StepTimeLeft = stepTimeLeft(snap, step, now)
	return out
}

// stepTimeLeft formats the remaining step time as h:mm:ss.
func stepTimeLeft(snap runstate.Snapshot, step models.ProgramStep, now time.Time) string {
	if snap.StepStartTime.IsZero() {
		if snap.WaitingForTemp {
			return stepTimeWaiting
		}
		return stepTimeNotStarted
	}
	left := time.Duration(step.DurationMinutes)*time.Minute - now.Sub(snap.StepStartTime)
	if left < 0 {
		left = 0
	}
	left = left.Truncate(time.Second)
	h := int(left / time.Hour)
	m := int(left % time.Hour / time.Minute)
	sec := int(left % time.Minute / time.Second)
	return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
}

// toUTC normalizes non-zero time to UTC, preserving zero values.
func toUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}
