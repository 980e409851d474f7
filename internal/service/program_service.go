package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"smoking_chamber/internal/catalog"
	"smoking_chamber/internal/models"
	"smoking_chamber/internal/repository"
)

const (
	maxProgramNameLen = 32
	maxProgramSteps   = 16
)

// ProgramService exposes built-in and user programs to the web API.
type ProgramService struct {
	programRepo repository.ProgramRepo
	maxTempC    float64
}

func NewProgramService(programRepo repository.ProgramRepo, maxTempC float64) *ProgramService {
	return &ProgramService{programRepo: programRepo, maxTempC: maxTempC}
}

// ListPrograms returns the built-ins followed by the stored programs, the
// same order the panel shows them in.
func (s *ProgramService) ListPrograms(ctx context.Context) ([]models.SmokingProgram, error) {
	stored, err := s.programRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	out := catalog.BuiltIns()
	for _, p := range stored {
		p.IsBuiltIn = false
		out = append(out, p)
	}
	return out, nil
}

func (s *ProgramService) GetProgram(ctx context.Context, name string) (models.SmokingProgram, error) {
	name = strings.TrimSpace(name)
	for _, p := range catalog.BuiltIns() {
		if p.Name == name {
			return p, nil
		}
	}
	p, err := s.programRepo.Get(ctx, name)
	if err != nil {
		return models.SmokingProgram{}, fmt.Errorf("get program %q: %w", name, err)
	}
	if p == nil {
		return models.SmokingProgram{}, ErrProgramNotFound
	}
	return *p, nil
}

func (s *ProgramService) CreateProgram(ctx context.Context, p models.SmokingProgram) error {
	p.Name = strings.TrimSpace(p.Name)
	if err := s.validate(p); err != nil {
		return err
	}
	existing, err := s.programRepo.Get(ctx, p.Name)
	if err != nil {
		return fmt.Errorf("get program %q: %w", p.Name, err)
	}
	if existing != nil {
		return fmt.Errorf("%w: program %q already exists", ErrInvalidProgram, p.Name)
	}
	p.IsBuiltIn = false
	return s.programRepo.Upsert(ctx, p)
}

// UpdateProgram replaces program name with p. A rename moves the row.
func (s *ProgramService) UpdateProgram(ctx context.Context, name string, p models.SmokingProgram) error {
	name = strings.TrimSpace(name)
	if catalog.IsBuiltInName(name) {
		return ErrBuiltInReadOnly
	}
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		p.Name = name
	}
	if err := s.validate(p); err != nil {
		return err
	}

	existing, err := s.programRepo.Get(ctx, name)
	if err != nil {
		return fmt.Errorf("get program %q: %w", name, err)
	}
	if existing == nil {
		return ErrProgramNotFound
	}
	if p.Name != name {
		clash, err := s.programRepo.Get(ctx, p.Name)
		if err != nil {
			return fmt.Errorf("get program %q: %w", p.Name, err)
		}
		if clash != nil {
			return fmt.Errorf("%w: program %q already exists", ErrInvalidProgram, p.Name)
		}
	}

	p.IsBuiltIn = false
	if err := s.programRepo.Upsert(ctx, p); err != nil {
		return err
	}
	if p.Name != name {
		if _, err := s.programRepo.Delete(ctx, name); err != nil {
			return fmt.Errorf("delete renamed program %q: %w", name, err)
		}
	}
	return nil
}

func (s *ProgramService) DeleteProgram(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if catalog.IsBuiltInName(name) {
		return ErrBuiltInReadOnly
	}
	deleted, err := s.programRepo.Delete(ctx, name)
	if err != nil {
		return fmt.Errorf("delete program %q: %w", name, err)
	}
	if !deleted {
		return ErrProgramNotFound
	}
	return nil
}

// validate checks p against what the chamber can execute.
func (s *ProgramService) validate(p models.SmokingProgram) error {
	switch {
	case p.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidProgram)
	case len(p.Name) > maxProgramNameLen:
		return fmt.Errorf("%w: name longer than %d characters", ErrInvalidProgram, maxProgramNameLen)
	case catalog.IsBuiltInName(p.Name):
		return ErrBuiltInReadOnly
	case len(p.Steps) == 0:
		return fmt.Errorf("%w: at least one step is required", ErrInvalidProgram)
	case len(p.Steps) > maxProgramSteps:
		return fmt.Errorf("%w: more than %d steps", ErrInvalidProgram, maxProgramSteps)
	}

	for i, st := range p.Steps {
		if err := s.validateStep(st); err != nil {
			return fmt.Errorf("%w: step %d: %s", ErrInvalidProgram, i+1, err.Error())
		}
	}
	return nil
}

func (s *ProgramService) validateStep(st models.ProgramStep) error {
	switch {
	case st.TargetTempC < 0 || float64(st.TargetTempC) > s.maxTempC:
		return fmt.Errorf("target_temp_c %d outside 0..%.0f", st.TargetTempC, s.maxTempC)
	case st.TargetHumidity < 0 || st.TargetHumidity > 100:
		return fmt.Errorf("target_humidity %d outside 0..100", st.TargetHumidity)
	case st.DurationMinutes <= 0:
		return errors.New("duration_minutes must be positive")
	case st.HysteresisC < 0:
		return errors.New("hysteresis_c must not be negative")
	case st.CompressorPWM < models.CompressorAuto || st.CompressorPWM > 100:
		return fmt.Errorf("compressor_pwm %d outside -1..100", st.CompressorPWM)
	case st.FanPWM < 0 || st.FanPWM > 100:
		return fmt.Errorf("fan_pwm %d outside 0..100", st.FanPWM)
	}
	return nil
}
