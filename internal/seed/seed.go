package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	appModels "github.com/TheDarkness2001/SMS-sub001/internal/app/models"
	appRepos "github.com/TheDarkness2001/SMS-sub001/internal/app/repositories"
	"github.com/TheDarkness2001/SMS-sub001/internal/pkg/apperrors"
)

// Data is the layout of a seed file.
type Data struct {
	Branches []*appModels.Branch  `json:"branches"`
	Students []*appModels.Student `json:"students"`
}

// ReadFile decodes a seed file.
func ReadFile(path string) (*Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}
	return &data, nil
}

// CreateDefaultData makes sure the default branch exists and, when seedFile is set, loads
// its branches and students. Existing branches are kept; students are replaced.
func CreateDefaultData(ctx context.Context, repos *appRepos.Repositories, seedFile string, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (branches, students)...")

	if err := ensureBranch(ctx, repos.BranchRepository, &appModels.Branch{
		ID:   appModels.DefaultBranchID,
		Name: "Main Branch",
	}, lgr); err != nil {
		return err
	}

	if seedFile == "" {
		return nil
	}

	data, err := ReadFile(seedFile)
	if err != nil {
		return err
	}
	return Apply(ctx, repos, data, lgr)
}

// Apply writes the records of data.
func Apply(ctx context.Context, repos *appRepos.Repositories, data *Data, lgr zerolog.Logger) error {
	var finalErr error
	for _, branch := range data.Branches {
		if err := ensureBranch(ctx, repos.BranchRepository, branch, lgr); err != nil {
			finalErr = errors.Join(finalErr, err)
		}
	}

	for _, student := range data.Students {
		if student.BranchID == "" {
			student.BranchID = appModels.DefaultBranchID
		}
		if student.Status == "" {
			student.Status = appModels.StudentActive
		}
		if err := repos.StudentWriter.SaveStudent(ctx, student); err != nil {
			lgr.Error().Err(err).Str("studentId", student.ID).Msg("Error seeding student")
			finalErr = errors.Join(finalErr, fmt.Errorf("seed student %s: %w", student.ID, err))
		}
	}

	lgr.Info().
		Int("branches", len(data.Branches)).
		Int("students", len(data.Students)).
		Msg("Seed data loaded")
	return finalErr
}

func ensureBranch(ctx context.Context, branches appRepos.BranchStore, branch *appModels.Branch, lgr zerolog.Logger) error {
	_, err := branches.GetBranch(ctx, branch.ID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, apperrors.ErrBranchNotFound) {
		return fmt.Errorf("seed branch %s: %w", branch.ID, err)
	}

	if err := branches.CreateBranch(ctx, branch); err != nil && !errors.Is(err, apperrors.ErrConflict) {
		lgr.Error().Err(err).Str("branchId", branch.ID).Msg("Error creating branch")
		return fmt.Errorf("seed branch %s: %w", branch.ID, err)
	}
	lgr.Info().Str("branchId", branch.ID).Msg("Branch created")
	return nil
}
