package service

import (
	"context"
	"time"

	"smoking_chamber/internal/display"
	"smoking_chamber/internal/hardware"
	"smoking_chamber/internal/input"
	"smoking_chamber/internal/logger"
	"smoking_chamber/internal/models"
	"smoking_chamber/internal/repository"
	"smoking_chamber/internal/runstate"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Programs manages the program table: built-ins are read-only, user programs
// live in the database.
type Programs interface {
	ListPrograms(ctx context.Context) ([]models.SmokingProgram, error)
	GetProgram(ctx context.Context, name string) (models.SmokingProgram, error)
	CreateProgram(ctx context.Context, p models.SmokingProgram) error
	UpdateProgram(ctx context.Context, name string, p models.SmokingProgram) error
	DeleteProgram(ctx context.Context, name string) error
}

// Monitoring exposes the live chamber state.
type Monitoring interface {
	GetState(ctx context.Context) (models.ChamberState, error)
}

// EventLog exposes append-only logs with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.ChamberEvent, error)
}

// ControlLoop drives heater, smoke and fan from the running program.
// Stop via context cancellation in main(), then call Shutdown to drive the
// outputs low.
type ControlLoop interface {
	Begin() error
	Run(ctx context.Context, tick time.Duration)
	Shutdown()
}

// Panel accepts virtual button presses and exposes the last OLED frame.
type Panel interface {
	Press(ev input.Event) error
	Frame() []display.Row
}

type Service struct {
	Programs
	Monitoring
	EventLog
	ControlLoop
	Authorization
	Panel

	Session *SessionService
}

// Deps carries the runtime collaborators shared with the panel.
type Deps struct {
	State      *runstate.State
	Panel      Panel
	GPIO       hardware.GPIO
	Pins       hardware.Pins
	Clock      hardware.Clock
	Controller ControllerConfig
	Auth       AuthConfig
	Log        *logger.Logger
}

// NewService wires the repository layer and the runtime into concrete services.
// d.Panel may be nil and set later, once the panel loop exists.
func NewService(repos *repository.Repository, d Deps) *Service {
	programs := NewProgramService(repos.ProgramRepo, d.Controller.MaxTempC)
	session := NewSessionService(repos.StateRepo, repos.EventRepo, d.Clock, d.Log)
	return &Service{
		Programs:      programs,
		Monitoring:    NewMonitoringService(d.State, programs, d.Clock),
		EventLog:      NewEventLogService(repos.EventRepo),
		ControlLoop:   NewControllerService(d.State, d.GPIO, d.Pins, d.Clock, repos.EventRepo, session, d.Controller, d.Log),
		Authorization: NewAuthService(repos.Auth, d.Auth),
		Panel:         d.Panel,
		Session:       session,
	}
}
