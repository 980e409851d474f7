package service

import (
	"context"
	"fmt"
	"strings"

	"smoking_chamber/internal/models"
	"smoking_chamber/internal/repository"
)

// EventLogService answers questions about past runs from the event log.
type EventLogService struct {
	eventRepo repository.EventRepo
}

func NewEventLogService(eventRepo repository.EventRepo) *EventLogService {
	return &EventLogService{eventRepo: eventRepo}
}

// List returns the events matching f, oldest first.
func (s *EventLogService) List(ctx context.Context, f LogFilter) ([]models.ChamberEvent, error) {
	q, err := f.query()
	if err != nil {
		return nil, err
	}
	events, err := s.eventRepo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list chamber events: %w", err)
	}
	return events, nil
}

// query validates f and converts it to a repository query in UTC.
func (f LogFilter) query() (repository.EventQuery, error) {
	q := repository.EventQuery{
		From:    toUTC(f.From),
		To:      toUTC(f.To),
		Type:    strings.ToUpper(strings.TrimSpace(f.Type)),
		RunID:   strings.TrimSpace(f.RunID),
		Program: strings.TrimSpace(f.Program),
	}
	if !q.From.IsZero() && !q.To.IsZero() && q.From.After(q.To) {
		return repository.EventQuery{}, fmt.Errorf("%w: from must be <= to", ErrInvalidLogFilter)
	}
	if q.Type != "" && !models.IsEventType(q.Type) {
		return repository.EventQuery{}, fmt.Errorf("%w: unknown event type %q", ErrInvalidLogFilter, q.Type)
	}
	return q, nil
}
