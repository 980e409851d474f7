package repository

import (
	"context"
	"database/sql"
	"time"

	"smoking_chamber/internal/models"
)

// Authorization stores remote operators.
type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*models.User, error)
}

// StateRepo persists the summary of the last run.
type StateRepo interface {
	Save(ctx context.Context, s models.SessionState) error
	Load(ctx context.Context) (models.SessionState, error)
}

// EventQuery selects chamber events. Zero fields do not filter.
type EventQuery struct {
	From    time.Time // inclusive
	To      time.Time // inclusive
	Type    string
	RunID   string
	Program string
}

// EventRepo is the append-only chamber event log.
type EventRepo interface {
	Append(ctx context.Context, e models.ChamberEvent) error
	List(ctx context.Context, q EventQuery) ([]models.ChamberEvent, error)
}

// ProgramRepo stores user-defined smoking programs.
type ProgramRepo interface {
	List(ctx context.Context) ([]models.SmokingProgram, error)
	Get(ctx context.Context, name string) (*models.SmokingProgram, error)
	Upsert(ctx context.Context, p models.SmokingProgram) error
	Delete(ctx context.Context, name string) (bool, error)
}

type Repository struct {
	StateRepo   StateRepo
	EventRepo   EventRepo
	ProgramRepo ProgramRepo
	Auth        Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		StateRepo:   NewStateSQLite(db),
		EventRepo:   NewEventSQLite(db),
		ProgramRepo: NewProgramSQLite(db),
		Auth:        NewUserRepository(db),
	}
}
