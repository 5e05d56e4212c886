package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/TheDarkness2001/SMS-sub001/internal/app/models"
	"github.com/TheDarkness2001/SMS-sub001/internal/app/repositories"
	"github.com/TheDarkness2001/SMS-sub001/internal/pkg/apperrors"
)

// StudentService defines the interface for student lookups
type StudentService interface {
	GetStudent(ctx context.Context, branchID, id string) (*models.Student, error)
}

type studentServiceImpl struct {
	students repositories.StudentStore
}

// NewStudentService creates a new student service
func NewStudentService(students repositories.StudentStore) StudentService {
	return &studentServiceImpl{students: students}
}

func (s *studentServiceImpl) GetStudent(ctx context.Context, branchID, id string) (*models.Student, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperrors.NewValidationError("id", apperrors.ErrMissingKeyFields, "student id is required")
	}
	student, err := s.students.GetStudent(ctx, branchID, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, apperrors.NewNotFoundError(err, fmt.Sprintf("student %s not found", id))
		}
		return nil, err
	}
	return student, nil
}

// BranchService defines the interface for branch operations
type BranchService interface {
	ListBranches(ctx context.Context) ([]*models.Branch, error)
	GetBranch(ctx context.Context, id string) (*models.Branch, error)
	EnsureBranch(ctx context.Context, branch *models.Branch) (bool, error)
}

type branchServiceImpl struct {
	branches repositories.BranchStore
}

// NewBranchService creates a new branch service
func NewBranchService(branches repositories.BranchStore) BranchService {
	return &branchServiceImpl{branches: branches}
}

func (s *branchServiceImpl) ListBranches(ctx context.Context) ([]*models.Branch, error) {
	return s.branches.ListBranches(ctx)
}

func (s *branchServiceImpl) GetBranch(ctx context.Context, id string) (*models.Branch, error) {
	branch, err := s.branches.GetBranch(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, apperrors.ErrBranchNotFound) {
			return nil, apperrors.NewNotFoundError(err, fmt.Sprintf("branch %q not found", id))
		}
		return nil, err
	}
	return branch, nil
}

// EnsureBranch creates branch unless a branch with its id exists. It reports whether it
// created one.
func (s *branchServiceImpl) EnsureBranch(ctx context.Context, branch *models.Branch) (bool, error) {
	if _, err := s.branches.GetBranch(ctx, branch.ID); err == nil {
		return false, nil
	} else if !errors.Is(err, apperrors.ErrBranchNotFound) {
		return false, err
	}

	if err := s.branches.CreateBranch(ctx, branch); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
