package models

import "time"

// SessionState is the persisted summary of the last run, kept so that a
// power loss in the middle of a program can be reported after reboot.
type SessionState struct {
	ID               int       `json:"id"`
	Mode             string    `json:"mode"` // IDLE | RUNNING
	RunID            string    `json:"run_id,omitempty"`
	ProgramName      string    `json:"program_name,omitempty"`
	StepIndex        int       `json:"step_index"`
	ProgramStartedAt time.Time `json:"program_started_at,omitempty"`
	EmergencyStop    bool      `json:"emergency_stop"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ChamberState is the read model served to the web UI and websocket clients.
type ChamberState struct {
	NetworkMode string `json:"networkMode"` // AP | STA
	SSID        string `json:"ssid"`
	IP          string `json:"ip"`

	Mode               string `json:"mode"` // IDLE | RUNNING
	RunID              string `json:"runId,omitempty"`
	CurrentProgramName string `json:"currentProgramName,omitempty"`
	CurrentStepIndex   int    `json:"currentStepIndex"`
	StepCount          int    `json:"stepCount"`
	StepTimeLeft       string `json:"stepTimeLeft,omitempty"`
	WaitingForTemp     bool   `json:"waitingForTemp"`
	EmergencyStop      bool   `json:"emergencyStop"`

	TempChamber float64 `json:"tempChamber"`
	TempSmoke   float64 `json:"tempSmoke"`
	TempProduct float64 `json:"tempProduct"`
	Humidity    float64 `json:"humidity"`
	HeaterOn    bool    `json:"heaterOn"`
	SmokePWM    int     `json:"smokePWM"`
	FanPWM      int     `json:"fanPWM"`

	Programs  []ProgramSummary `json:"programs"`
	UpdatedAt time.Time        `json:"updatedAt"`
}
