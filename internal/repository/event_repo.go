package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"smoking_chamber/internal/models"

	"github.com/google/uuid"
)

// EventSQLite is the chamber_events table.
type EventSQLite struct {
	db *sql.DB
}

func NewEventSQLite(db *sql.DB) *EventSQLite { return &EventSQLite{db: db} }

const (
	insertEventSQL = `
		INSERT INTO chamber_events (id, occurred_at, type, run_id, program, message, meta)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	selectEventsSQL = `SELECT id, occurred_at, type, run_id, program, message, meta FROM chamber_events`

	eventTimeLayout = "2006-01-02 15:04:05"
)

// Append inserts a new event. A missing EventID or OccurredAt is filled in.
func (r *EventSQLite) Append(ctx context.Context, e models.ChamberEvent) error {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}

	var meta *string
	if e.Metadata != nil {
		b, err := json.Marshal(e.Metadata)
		if err != nil {
			return fmt.Errorf("encode %s event metadata: %w", e.Type, err)
		}
		m := string(b)
		meta = &m
	}

	_, err := r.db.ExecContext(ctx, insertEventSQL,
		e.EventID,
		e.OccurredAt.UTC().Format(eventTimeLayout),
		strings.ToUpper(strings.TrimSpace(e.Type)),
		e.RunID,
		e.Program,
		e.Description,
		meta,
	)
	return err
}

// where renders the filters of q as a WHERE clause.
func (q EventQuery) where() (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		conds = append(conds, cond)
		args = append(args, arg)
	}
	if !q.From.IsZero() {
		add("occurred_at >= ?", q.From.UTC().Format(eventTimeLayout))
	}
	if !q.To.IsZero() {
		add("occurred_at <= ?", q.To.UTC().Format(eventTimeLayout))
	}
	if typ := strings.ToUpper(strings.TrimSpace(q.Type)); typ != "" {
		add("type = ?", typ)
	}
	if q.RunID != "" {
		add("run_id = ?", q.RunID)
	}
	if q.Program != "" {
		add("program = ?", q.Program)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// List returns the events matching q, oldest first.
func (r *EventSQLite) List(ctx context.Context, q EventQuery) ([]models.ChamberEvent, error) {
	where, args := q.where()
	rows, err := r.db.QueryContext(ctx, selectEventsSQL+where+" ORDER BY occurred_at ASC", args...)
	if err != nil {
		return nil, fmt.Errorf("query chamber events: %w", err)
	}
	defer rows.Close()

	out := make([]models.ChamberEvent, 0, 64)
	for rows.Next() {
		var (
			ev   models.ChamberEvent
			meta sql.NullString
		)
		if err := rows.Scan(&ev.EventID, &ev.OccurredAt, &ev.Type, &ev.RunID, &ev.Program, &ev.Description, &meta); err != nil {
			return nil, fmt.Errorf("scan chamber event: %w", err)
		}
		ev.OccurredAt = ev.OccurredAt.UTC()
		ev.Metadata = decodeMeta(meta)
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chamber events: %w", err)
	}
	return out, nil
}

// decodeMeta returns the JSON metadata, the raw text if it is not valid
// JSON, or nil.
func decodeMeta(meta sql.NullString) any {
	if !meta.Valid || meta.String == "" {
		return nil
	}
	var v any
	if err := json.Unmarshal([]byte(meta.String), &v); err != nil {
		return meta.String
	}
	return v
}
