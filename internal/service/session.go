package service

import (
	"context"
	"fmt"
	"time"

	"smoking_chamber/internal/catalog"
	"smoking_chamber/internal/hardware"
	"smoking_chamber/internal/logger"
	"smoking_chamber/internal/models"
	"smoking_chamber/internal/repository"
	"smoking_chamber/internal/runstate"

	"github.com/google/uuid"
)

// sessionWriteTimeout bounds database writes made for the panel and
// control loops, which have no request context of their own.
const sessionWriteTimeout = 2 * time.Second

// sessionQueueSize is how many records may wait for the writer.
const sessionQueueSize = 32

// sessionRecord is one event plus the snapshot row that goes with it.
type sessionRecord struct {
	event   models.ChamberEvent
	session models.SessionState
}

// SessionService records run transitions: it appends events and keeps the
// single-row session snapshot current. It implements ui.Listener.
//
// Transitions are queued and written by Run, so the panel and control loops
// never wait on the database. When the queue is full the record is dropped
// and logged.
type SessionService struct {
	stateRepo repository.StateRepo
	eventRepo repository.EventRepo
	clock     hardware.Clock
	log       *logger.Logger

	records chan sessionRecord
}

func NewSessionService(stateRepo repository.StateRepo, eventRepo repository.EventRepo, clock hardware.Clock, log *logger.Logger) *SessionService {
	if clock == nil {
		clock = hardware.SystemClock{}
	}
	return &SessionService{
		stateRepo: stateRepo,
		eventRepo: eventRepo,
		clock:     clock,
		log:       log,
		records:   make(chan sessionRecord, sessionQueueSize),
	}
}

// Run writes queued records until ctx is canceled, then writes whatever is
// still queued and returns.
func (s *SessionService) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			s.flush()
			return
		case rec := <-s.records:
			s.write(rec)
		}
	}
}

// ProgramStarted is called by the navigator after a confirmed start.
func (s *SessionService) ProgramStarted(snap runstate.Snapshot) {
	name := programName(snap)
	s.record(snap, models.EventStart, fmt.Sprintf("Program %q started", name), map[string]any{
		"steps": stepCount(snap),
	})
}

// EmergencyStopped is called by the navigator after a confirmed stop. snap
// is the state just before the stop.
func (s *SessionService) EmergencyStopped(snap runstate.Snapshot) {
	meta := map[string]any{"step_index": snap.StepIndex}
	snap.Mode = runstate.Idle
	snap.EmergencyStop = true
	s.record(snap, models.EventEmergencyStop, "Emergency stop from panel", meta)
}

// StepAdvanced is called by the control loop when a step completes and the
// next one begins.
func (s *SessionService) StepAdvanced(snap runstate.Snapshot) {
	s.record(snap, models.EventStepAdvance, fmt.Sprintf("Step %d started", snap.StepIndex+1), map[string]any{
		"step_index": snap.StepIndex,
	})
}

// ProgramFinished is called by the control loop after the last step. snap
// is the state just before the run was finished.
func (s *SessionService) ProgramFinished(snap runstate.Snapshot) {
	name := programName(snap)
	meta := map[string]any{
		"elapsed": s.clock.Now().Sub(snap.ProgramStartTime).Round(time.Second).String(),
	}
	snap.Mode = runstate.Idle
	s.record(snap, models.EventProgramFinished, fmt.Sprintf("Program %q finished", name), meta)
}

// RecoverInterrupted runs once at boot. A snapshot still marked RUNNING
// means power was lost mid-run: the loss is logged as INTERRUPTED and the
// snapshot reset to IDLE. Runs never resume on their own.
func (s *SessionService) RecoverInterrupted(ctx context.Context) (bool, error) {
	prev, err := s.stateRepo.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("load session: %w", err)
	}
	if prev.Mode != runstate.Running.String() {
		return false, nil
	}

	now := s.clock.Now().UTC()
	err = s.eventRepo.Append(ctx, models.ChamberEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  now,
		Type:        models.EventInterrupted,
		RunID:       prev.RunID,
		Program:     prev.ProgramName,
		Description: fmt.Sprintf("Program %q interrupted by restart", prev.ProgramName),
		Metadata:    map[string]any{"step_index": prev.StepIndex},
	})
	if err != nil {
		return false, fmt.Errorf("append interrupted event: %w", err)
	}

	prev.ID = 1
	prev.Mode = runstate.Idle.String()
	prev.UpdatedAt = now
	if err := s.stateRepo.Save(ctx, prev); err != nil {
		return false, fmt.Errorf("reset session: %w", err)
	}
	if s.log != nil {
		s.log.Warnw("session_interrupted", "run_id", prev.RunID, "program", prev.ProgramName, "step", prev.StepIndex)
	}
	return true, nil
}

func (s *SessionService) record(snap runstate.Snapshot, typ, desc string, meta map[string]any) {
	now := s.clock.Now().UTC()
	rec := sessionRecord{
		event: models.ChamberEvent{
			EventID:     uuid.NewString(),
			OccurredAt:  now,
			Type:        typ,
			RunID:       snap.RunID,
			Program:     programName(snap),
			Description: desc,
			Metadata:    meta,
		},
		session: sessionFromSnapshot(snap, now),
	}
	select {
	case s.records <- rec:
	default:
		if s.log != nil {
			s.log.Errorw("session queue full, record dropped", "type", typ, "run_id", snap.RunID)
		}
	}
}

// flush writes every record queued so far.
func (s *SessionService) flush() {
	for {
		select {
		case rec := <-s.records:
			s.write(rec)
		default:
			return
		}
	}
}

func (s *SessionService) write(rec sessionRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), sessionWriteTimeout)
	defer cancel()

	typ := rec.event.Type
	if err := s.eventRepo.Append(ctx, rec.event); err != nil && s.log != nil {
		s.log.Errorw("append event failed", "type", typ, "err", err)
	}
	if err := s.stateRepo.Save(ctx, rec.session); err != nil && s.log != nil {
		s.log.Errorw("save session failed", "type", typ, "err", err)
	}
}

func sessionFromSnapshot(snap runstate.Snapshot, now time.Time) models.SessionState {
	return models.SessionState{
		ID:               1,
		Mode:             snap.Mode.String(),
		RunID:            snap.RunID,
		ProgramName:      programName(snap),
		StepIndex:        snap.StepIndex,
		ProgramStartedAt: snap.ProgramStartTime.UTC(),
		EmergencyStop:    snap.EmergencyStop,
		UpdatedAt:        now,
	}
}

func programName(snap runstate.Snapshot) string {
	if snap.Program == nil {
		return ""
	}
	return snap.Program.Name
}

func stepCount(snap runstate.Snapshot) int {
	if snap.Program == nil {
		return 0
	}
	return len(snap.Program.Steps)
}

// NewProgramLoader adapts the program table to the panel catalog. Failures
// are logged and yield an empty list, so the panel still offers built-ins.
func NewProgramLoader(programRepo repository.ProgramRepo, log *logger.Logger) catalog.Loader {
	return catalog.LoaderFunc(func() []models.SmokingProgram {
		ctx, cancel := context.WithTimeout(context.Background(), sessionWriteTimeout)
		defer cancel()

		programs, err := programRepo.List(ctx)
		if err != nil {
			if log != nil {
				log.Errorw("load programs failed", "err", err)
			}
			return nil
		}
		return programs
	})
}
