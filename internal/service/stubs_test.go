package service

import (
	"context"
	"sort"
	"time"

	"smoking_chamber/internal/models"
	"smoking_chamber/internal/repository"
)

// ---- Test doubles shared by the service tests ----

// stubClock is a settable hardware.Clock.
type stubClock struct{ now time.Time }

func (c *stubClock) Now() time.Time { return c.now }

func (c *stubClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newStubClock() *stubClock {
	return &stubClock{now: time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)}
}

// stubStateRepo is a minimal stub for repository.StateRepo.
type stubStateRepo struct {
	loadResp models.SessionState
	loadErr  error
	saveErr  error
	saves    []models.SessionState
}

func (s *stubStateRepo) Save(ctx context.Context, st models.SessionState) error {
	s.saves = append(s.saves, st)
	return s.saveErr
}

func (s *stubStateRepo) Load(ctx context.Context) (models.SessionState, error) {
	return s.loadResp, s.loadErr
}

// recordingEventRepo keeps every appended event and every query.
type recordingEventRepo struct {
	appends   []models.ChamberEvent
	appendErr error
	onAppend  func(models.ChamberEvent)

	queries  []repository.EventQuery
	listResp []models.ChamberEvent
	listErr  error
}

func (e *recordingEventRepo) Append(ctx context.Context, ev models.ChamberEvent) error {
	e.appends = append(e.appends, ev)
	if e.onAppend != nil {
		e.onAppend(ev)
	}
	return e.appendErr
}

func (e *recordingEventRepo) List(ctx context.Context, q repository.EventQuery) ([]models.ChamberEvent, error) {
	e.queries = append(e.queries, q)
	return e.listResp, e.listErr
}

func (e *recordingEventRepo) types() []string {
	out := make([]string, len(e.appends))
	for i, ev := range e.appends {
		out[i] = ev.Type
	}
	return out
}

// memProgramRepo is an in-memory repository.ProgramRepo.
type memProgramRepo struct {
	programs map[string]models.SmokingProgram
	err      error
}

func newMemProgramRepo(ps ...models.SmokingProgram) *memProgramRepo {
	r := &memProgramRepo{programs: map[string]models.SmokingProgram{}}
	for _, p := range ps {
		r.programs[p.Name] = p
	}
	return r
}

func (r *memProgramRepo) List(ctx context.Context) ([]models.SmokingProgram, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := make([]models.SmokingProgram, 0, len(r.programs))
	for _, p := range r.programs {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memProgramRepo) Get(ctx context.Context, name string) (*models.SmokingProgram, error) {
	if r.err != nil {
		return nil, r.err
	}
	p, ok := r.programs[name]
	if !ok {
		return nil, nil
	}
	cp := p.Clone()
	return &cp, nil
}

func (r *memProgramRepo) Upsert(ctx context.Context, p models.SmokingProgram) error {
	if r.err != nil {
		return r.err
	}
	r.programs[p.Name] = p.Clone()
	return nil
}

func (r *memProgramRepo) Delete(ctx context.Context, name string) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	_, ok := r.programs[name]
	delete(r.programs, name)
	return ok, nil
}

func userProgram(name string, steps ...models.ProgramStep) models.SmokingProgram {
	if len(steps) == 0 {
		steps = []models.ProgramStep{models.DefaultStep()}
	}
	return models.SmokingProgram{Name: name, Steps: steps}
}
