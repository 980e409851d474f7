package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"smoking_chamber/internal/models"
)

type StateSQLite struct {
	db *sql.DB
}

func NewStateSQLite(db *sql.DB) *StateSQLite {
	return &StateSQLite{db: db}
}

const (
	sessionStateRowID = 1

	insertOrUpdateStateSQL = `
		INSERT INTO session_state (id, mode, run_id, program_name, step_index, program_started_at, emergency_stop, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			mode=excluded.mode,
			run_id=excluded.run_id,
			program_name=excluded.program_name,
			step_index=excluded.step_index,
			program_started_at=excluded.program_started_at,
			emergency_stop=excluded.emergency_stop,
			updated_at=excluded.updated_at
	`

	selectStateSQL = `
		SELECT id, mode, run_id, program_name, step_index, program_started_at, emergency_stop, updated_at
		FROM session_state WHERE id=?
	`
)

// nullableTime stores zero times as NULL.
func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC()
}

// Save updates or inserts the session_state row (id always 1).
func (r *StateSQLite) Save(ctx context.Context, state models.SessionState) error {
	tsUTC := state.UpdatedAt
	if tsUTC.IsZero() {
		tsUTC = time.Now().UTC()
	} else {
		tsUTC = tsUTC.UTC()
	}

	_, err := r.db.ExecContext(ctx, insertOrUpdateStateSQL,
		sessionStateRowID,
		state.Mode,
		state.RunID,
		state.ProgramName,
		state.StepIndex,
		nullableTime(state.ProgramStartedAt),
		state.EmergencyStop,
		tsUTC,
	)
	return err
}

// Load fetches the single session_state row. A missing row yields a zero state.
func (r *StateSQLite) Load(ctx context.Context) (models.SessionState, error) {
	row := r.db.QueryRowContext(ctx, selectStateSQL, sessionStateRowID)

	var (
		s         models.SessionState
		startedAt sql.NullTime
	)
	if err := row.Scan(
		&s.ID,
		&s.Mode,
		&s.RunID,
		&s.ProgramName,
		&s.StepIndex,
		&startedAt,
		&s.EmergencyStop,
		&s.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.SessionState{}, nil // no state yet
		}
		return models.SessionState{}, err
	}
	if startedAt.Valid {
		s.ProgramStartedAt = startedAt.Time.UTC()
	}
	s.UpdatedAt = s.UpdatedAt.UTC()
	return s, nil
}
