package service

import (
	"errors"
	"time"
)

// Domain errors for program management.
var (
	ErrProgramNotFound = errors.New("program not found")
	ErrBuiltInReadOnly = errors.New("built-in programs are read-only")
	ErrInvalidProgram  = errors.New("invalid program")
)

// ErrInvalidLogFilter is returned for a log filter that can match nothing.
var ErrInvalidLogFilter = errors.New("invalid log filter")

// LogFilter selects chamber events. Zero fields do not filter.
type LogFilter struct {
	From    time.Time // inclusive
	To      time.Time // inclusive
	Type    string    // one of models.EventTypes, any case
	RunID   string
	Program string
}
