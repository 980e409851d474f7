package service

import (
	"context"
	"errors"
	"testing"

	"smoking_chamber/internal/catalog"
	"smoking_chamber/internal/models"
)

func TestProgramService_ListPrograms_BuiltInsFirst(t *testing.T) {
	repo := newMemProgramRepo(userProgram("Bacon"), userProgram("Cheese"))
	svc := NewProgramService(repo, 100)

	got, err := svc.ListPrograms(context.Background())
	if err != nil {
		t.Fatalf("ListPrograms returned error: %v", err)
	}
	builtIns := catalog.BuiltIns()
	if len(got) != len(builtIns)+2 {
		t.Fatalf("expected %d programs, got %d", len(builtIns)+2, len(got))
	}
	for i, p := range builtIns {
		if got[i].Name != p.Name || !got[i].IsBuiltIn {
			t.Fatalf("entry %d: expected built-in %q, got %+v", i, p.Name, got[i])
		}
	}
	if got[len(builtIns)].Name != "Bacon" || got[len(builtIns)].IsBuiltIn {
		t.Fatalf("expected user program Bacon after built-ins, got %+v", got[len(builtIns)])
	}
}

func TestProgramService_ListPrograms_RepoError(t *testing.T) {
	repo := newMemProgramRepo()
	repo.err = errors.New("db down")
	svc := NewProgramService(repo, 100)

	if _, err := svc.ListPrograms(context.Background()); !errors.Is(err, repo.err) {
		t.Fatalf("expected repo error to propagate, got %v", err)
	}
}

func TestProgramService_GetProgram(t *testing.T) {
	repo := newMemProgramRepo(userProgram("Bacon"))
	svc := NewProgramService(repo, 100)
	ctx := context.Background()

	p, err := svc.GetProgram(ctx, "Fish hot smoke")
	if err != nil || !p.IsBuiltIn {
		t.Fatalf("expected built-in program, got %+v err=%v", p, err)
	}

	p, err = svc.GetProgram(ctx, " Bacon ")
	if err != nil || p.Name != "Bacon" {
		t.Fatalf("expected Bacon, got %+v err=%v", p, err)
	}

	if _, err := svc.GetProgram(ctx, "Nope"); !errors.Is(err, ErrProgramNotFound) {
		t.Fatalf("expected ErrProgramNotFound, got %v", err)
	}
}

func TestProgramService_CreateProgram_Validation(t *testing.T) {
	step := models.DefaultStep()

	tests := []struct {
		name    string
		mutate  func(p *models.SmokingProgram)
		wantErr error
	}{
		{name: "valid", mutate: func(p *models.SmokingProgram) {}},
		{name: "empty name", mutate: func(p *models.SmokingProgram) { p.Name = "  " }, wantErr: ErrInvalidProgram},
		{name: "built-in name", mutate: func(p *models.SmokingProgram) { p.Name = "Meat hot smoke" }, wantErr: ErrBuiltInReadOnly},
		{name: "no steps", mutate: func(p *models.SmokingProgram) { p.Steps = nil }, wantErr: ErrInvalidProgram},
		{name: "temp above max", mutate: func(p *models.SmokingProgram) { p.Steps[0].TargetTempC = 101 }, wantErr: ErrInvalidProgram},
		{name: "negative temp", mutate: func(p *models.SmokingProgram) { p.Steps[0].TargetTempC = -1 }, wantErr: ErrInvalidProgram},
		{name: "humidity above 100", mutate: func(p *models.SmokingProgram) { p.Steps[0].TargetHumidity = 101 }, wantErr: ErrInvalidProgram},
		{name: "zero duration", mutate: func(p *models.SmokingProgram) { p.Steps[0].DurationMinutes = 0 }, wantErr: ErrInvalidProgram},
		{name: "negative hysteresis", mutate: func(p *models.SmokingProgram) { p.Steps[0].HysteresisC = -1 }, wantErr: ErrInvalidProgram},
		{name: "compressor auto ok", mutate: func(p *models.SmokingProgram) { p.Steps[0].CompressorPWM = models.CompressorAuto }},
		{name: "compressor below auto", mutate: func(p *models.SmokingProgram) { p.Steps[0].CompressorPWM = -2 }, wantErr: ErrInvalidProgram},
		{name: "fan above 100", mutate: func(p *models.SmokingProgram) { p.Steps[0].FanPWM = 101 }, wantErr: ErrInvalidProgram},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			repo := newMemProgramRepo()
			svc := NewProgramService(repo, 100)
			p := userProgram("Salmon", step)
			tc.mutate(&p)

			err := svc.CreateProgram(context.Background(), p)
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if _, ok := repo.programs["Salmon"]; !ok {
					t.Fatalf("expected program to be stored")
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if len(repo.programs) != 0 {
				t.Fatalf("nothing should be stored on error, got %v", repo.programs)
			}
		})
	}
}

func TestProgramService_CreateProgram_Duplicate(t *testing.T) {
	repo := newMemProgramRepo(userProgram("Bacon"))
	svc := NewProgramService(repo, 100)

	err := svc.CreateProgram(context.Background(), userProgram("Bacon"))
	if !errors.Is(err, ErrInvalidProgram) {
		t.Fatalf("expected ErrInvalidProgram for duplicate, got %v", err)
	}
}

func TestProgramService_UpdateProgram(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces steps", func(t *testing.T) {
		repo := newMemProgramRepo(userProgram("Bacon"))
		svc := NewProgramService(repo, 100)
		step := models.DefaultStep()
		step.TargetTempC = 60

		if err := svc.UpdateProgram(ctx, "Bacon", models.SmokingProgram{Steps: []models.ProgramStep{step}}); err != nil {
			t.Fatalf("UpdateProgram returned error: %v", err)
		}
		if got := repo.programs["Bacon"].Steps[0].TargetTempC; got != 60 {
			t.Fatalf("expected target 60, got %d", got)
		}
	})

	t.Run("rename moves the row", func(t *testing.T) {
		repo := newMemProgramRepo(userProgram("Bacon"))
		svc := NewProgramService(repo, 100)

		if err := svc.UpdateProgram(ctx, "Bacon", userProgram("Pancetta")); err != nil {
			t.Fatalf("UpdateProgram returned error: %v", err)
		}
		if _, ok := repo.programs["Bacon"]; ok {
			t.Fatalf("old name should be gone")
		}
		if _, ok := repo.programs["Pancetta"]; !ok {
			t.Fatalf("new name should exist")
		}
	})

	t.Run("rename onto existing", func(t *testing.T) {
		repo := newMemProgramRepo(userProgram("Bacon"), userProgram("Ham"))
		svc := NewProgramService(repo, 100)

		if err := svc.UpdateProgram(ctx, "Bacon", userProgram("Ham")); !errors.Is(err, ErrInvalidProgram) {
			t.Fatalf("expected ErrInvalidProgram, got %v", err)
		}
	})

	t.Run("missing", func(t *testing.T) {
		svc := NewProgramService(newMemProgramRepo(), 100)
		if err := svc.UpdateProgram(ctx, "Ghost", userProgram("Ghost")); !errors.Is(err, ErrProgramNotFound) {
			t.Fatalf("expected ErrProgramNotFound, got %v", err)
		}
	})

	t.Run("built-in", func(t *testing.T) {
		svc := NewProgramService(newMemProgramRepo(), 100)
		if err := svc.UpdateProgram(ctx, "Fish cold smoke", userProgram("Mine")); !errors.Is(err, ErrBuiltInReadOnly) {
			t.Fatalf("expected ErrBuiltInReadOnly, got %v", err)
		}
	})
}

func TestProgramService_DeleteProgram(t *testing.T) {
	ctx := context.Background()
	repo := newMemProgramRepo(userProgram("Bacon"))
	svc := NewProgramService(repo, 100)

	if err := svc.DeleteProgram(ctx, "Fish cold smoke"); !errors.Is(err, ErrBuiltInReadOnly) {
		t.Fatalf("expected ErrBuiltInReadOnly, got %v", err)
	}
	if err := svc.DeleteProgram(ctx, "Bacon"); err != nil {
		t.Fatalf("DeleteProgram returned error: %v", err)
	}
	if err := svc.DeleteProgram(ctx, "Bacon"); !errors.Is(err, ErrProgramNotFound) {
		t.Fatalf("expected ErrProgramNotFound on second delete, got %v", err)
	}
}
