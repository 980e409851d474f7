package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"smoking_chamber/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

var eventColumns = []string{"id", "occurred_at", "type", "run_id", "program", "message", "meta"}

func TestEventSQLite_Append_FillsDefaults(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta(insertEventSQL)).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "START", "run-1", "Ham", "Program started", `{"steps":2}`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := NewEventSQLite(db).Append(context.Background(), models.ChamberEvent{
		Type:        "  start ",
		RunID:       "run-1",
		Program:     "Ham",
		Description: "Program started",
		Metadata:    map[string]any{"steps": 2},
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
}

func TestEventSQLite_Append_KeepsGivenIDAndTime(t *testing.T) {
	db, mock := newMockDB(t)
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.FixedZone("X", 3600))

	mock.ExpectExec(regexp.QuoteMeta(insertEventSQL)).
		WithArgs("ev-1", "2025-01-02 02:04:05", "INTERRUPTED", "", "", "Power lost", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := NewEventSQLite(db).Append(context.Background(), models.ChamberEvent{
		EventID: "ev-1", OccurredAt: at, Type: models.EventInterrupted, Description: "Power lost",
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
}

func TestEventSQLite_Append_Errors(t *testing.T) {
	t.Run("db error", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(regexp.QuoteMeta(insertEventSQL)).WillReturnError(errors.New("boom"))

		if err := NewEventSQLite(db).Append(context.Background(), models.ChamberEvent{Type: models.EventError}); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("metadata cannot be encoded", func(t *testing.T) {
		db, _ := newMockDB(t)
		err := NewEventSQLite(db).Append(context.Background(), models.ChamberEvent{
			Type:     models.EventError,
			Metadata: map[string]any{"bad": make(chan int)},
		})
		if err == nil {
			t.Fatalf("expected encode error")
		}
	})
}

func TestEventSQLite_List_ByRunDecodesMeta(t *testing.T) {
	db, mock := newMockDB(t)
	start := time.Date(2025, 5, 1, 6, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(eventColumns).
		AddRow("a", start, "START", "run-7", "Ham", "Program \"Ham\" started", `{"steps":2}`).
		AddRow("b", start.Add(time.Hour), "STEP_ADVANCE", "run-7", "Ham", "Step 2 started", `not json`).
		AddRow("c", start.Add(2*time.Hour), "PROGRAM_FINISHED", "run-7", "Ham", "Program \"Ham\" finished", nil)

	mock.ExpectQuery(regexp.QuoteMeta(selectEventsSQL + " WHERE run_id = ? ORDER BY occurred_at ASC")).
		WithArgs("run-7").
		WillReturnRows(rows)

	got, err := NewEventSQLite(db).List(context.Background(), EventQuery{RunID: "run-7"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 3 || got[0].RunID != "run-7" || got[2].Program != "Ham" {
		t.Fatalf("unexpected events: %+v", got)
	}
	if m, ok := got[0].Metadata.(map[string]any); !ok || m["steps"] != float64(2) {
		t.Fatalf("meta not decoded: %#v", got[0].Metadata)
	}
	if got[1].Metadata != "not json" {
		t.Fatalf("malformed meta should be kept raw, got %#v", got[1].Metadata)
	}
	if got[2].Metadata != nil {
		t.Fatalf("null meta should stay nil, got %#v", got[2].Metadata)
	}
}

func TestEventQuery_Where(t *testing.T) {
	from := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name      string
		q         EventQuery
		wantWhere string
		wantArgs  []any
	}{
		{name: "no filters"},
		{
			name:      "time range and type",
			q:         EventQuery{From: from, To: from.Add(24 * time.Hour), Type: " step_advance "},
			wantWhere: " WHERE occurred_at >= ? AND occurred_at <= ? AND type = ?",
			wantArgs:  []any{"2025-05-01 00:00:00", "2025-05-02 00:00:00", "STEP_ADVANCE"},
		},
		{
			name:      "program and type",
			q:         EventQuery{Type: models.EventEmergencyStop, Program: "Fish hot smoke"},
			wantWhere: " WHERE type = ? AND program = ?",
			wantArgs:  []any{"EMERGENCY_STOP", "Fish hot smoke"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.q.where()
			if where != tt.wantWhere {
				t.Fatalf("where = %q, want %q", where, tt.wantWhere)
			}
			if len(args) != len(tt.wantArgs) {
				t.Fatalf("args = %v, want %v", args, tt.wantArgs)
			}
			for i := range args {
				if args[i] != tt.wantArgs[i] {
					t.Fatalf("arg %d = %v, want %v", i, args[i], tt.wantArgs[i])
				}
			}
		})
	}
}

func TestEventSQLite_List_QueryError(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta(selectEventsSQL + " ORDER BY occurred_at ASC")).
		WillReturnError(errors.New("locked"))

	if _, err := NewEventSQLite(db).List(context.Background(), EventQuery{}); err == nil {
		t.Fatalf("expected error")
	}
}
