package models

import "time"

// Event types written to the chamber event log.
const (
	EventStart           = "START"
	EventEmergencyStop   = "EMERGENCY_STOP"
	EventStepAdvance     = "STEP_ADVANCE"
	EventProgramFinished = "PROGRAM_FINISHED"
	EventError           = "ERROR"
	EventInterrupted     = "INTERRUPTED"
)

// EventTypes lists every event type in the order a run produces them.
var EventTypes = []string{
	EventStart,
	EventStepAdvance,
	EventProgramFinished,
	EventEmergencyStop,
	EventError,
	EventInterrupted,
}

// IsEventType reports whether s is a known event type.
func IsEventType(s string) bool {
	for _, t := range EventTypes {
		if s == t {
			return true
		}
	}
	return false
}

// ChamberEvent is a single log entry. RunID and Program are empty for
// events outside a run.
type ChamberEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`
	RunID       string    `json:"run_id,omitempty"`
	Program     string    `json:"program,omitempty"`
	Description string    `json:"description"`
	Metadata    any       `json:"metadata,omitempty"`
}
