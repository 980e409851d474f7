package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"smoking_chamber/internal/models"
)

type ProgramSQLite struct {
	db *sql.DB
}

func NewProgramSQLite(db *sql.DB) *ProgramSQLite { return &ProgramSQLite{db: db} }

// Ensure implementation of ProgramRepo interface at compile time.
var _ ProgramRepo = (*ProgramSQLite)(nil)

const selectProgramsSQL = `SELECT name, steps FROM programs ORDER BY created_at ASC, name ASC`

const selectProgramByNameSQL = `SELECT name, steps FROM programs WHERE name = ?`

const upsertProgramSQL = `
		INSERT INTO programs (name, steps, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			steps=excluded.steps,
			updated_at=excluded.updated_at
	`

const deleteProgramSQL = `DELETE FROM programs WHERE name = ?`

func scanProgram(name, stepsJSON string) (models.SmokingProgram, error) {
	p := models.SmokingProgram{Name: name}
	if err := json.Unmarshal([]byte(stepsJSON), &p.Steps); err != nil {
		return models.SmokingProgram{}, fmt.Errorf("decode steps of %q: %w", name, err)
	}
	return p, nil
}

// List returns every stored program in creation order.
func (r *ProgramSQLite) List(ctx context.Context) ([]models.SmokingProgram, error) {
	rows, err := r.db.QueryContext(ctx, selectProgramsSQL)
	if err != nil {
		return nil, fmt.Errorf("select programs: %w", err)
	}
	defer rows.Close()

	var out []models.SmokingProgram
	for rows.Next() {
		var name, steps string
		if err := rows.Scan(&name, &steps); err != nil {
			return nil, err
		}
		p, err := scanProgram(name, steps)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches a program by name. Returns (nil, nil) if not found.
func (r *ProgramSQLite) Get(ctx context.Context, name string) (*models.SmokingProgram, error) {
	var pname, steps string
	err := r.db.QueryRowContext(ctx, selectProgramByNameSQL, name).Scan(&pname, &steps)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select program %q: %w", name, err)
	}
	p, err := scanProgram(pname, steps)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Upsert inserts p or replaces the steps of the program with the same name.
func (r *ProgramSQLite) Upsert(ctx context.Context, p models.SmokingProgram) error {
	steps, err := json.Marshal(p.Steps)
	if err != nil {
		return fmt.Errorf("encode steps of %q: %w", p.Name, err)
	}
	now := time.Now().UTC()
	if _, err := r.db.ExecContext(ctx, upsertProgramSQL, p.Name, string(steps), now, now); err != nil {
		return fmt.Errorf("upsert program %q: %w", p.Name, err)
	}
	return nil
}

// Delete removes a program and reports whether it existed.
func (r *ProgramSQLite) Delete(ctx context.Context, name string) (bool, error) {
	res, err := r.db.ExecContext(ctx, deleteProgramSQL, name)
	if err != nil {
		return false, fmt.Errorf("delete program %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected for %q: %w", name, err)
	}
	return n > 0, nil
}
