package inmem

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/TheDarkness2001/SMS-sub001/internal/app/models"
	"github.com/TheDarkness2001/SMS-sub001/internal/pkg/apperrors"
)

// StudentRepository is the memory student table.
type StudentRepository struct {
	table *studentTable
}

func cloneStudent(s *models.Student) *models.Student {
	c := *s
	c.Subjects = append([]string(nil), s.Subjects...)
	c.SubjectPayments = append([]models.SubjectTariff(nil), s.SubjectPayments...)
	c.PaymentSubjects = append([]models.SubjectTariff(nil), s.PaymentSubjects...)
	if s.PerClassPrices != nil {
		c.PerClassPrices = append(models.PriceMap{}, s.PerClassPrices...)
	}
	return &c
}

func (r *StudentRepository) GetStudent(_ context.Context, branchID, id string) (*models.Student, error) {
	r.table.mutex.RLock()
	defer r.table.mutex.RUnlock()

	s, ok := r.table.t[id]
	if !ok || (branchID != "" && s.BranchID != branchID) {
		return nil, apperrors.ErrStudentNotFound
	}
	return cloneStudent(s), nil
}

func (r *StudentRepository) SaveStudent(_ context.Context, student *models.Student) error {
	if student.ID == "" {
		return fmt.Errorf("student id is required")
	}
	r.table.mutex.Lock()
	defer r.table.mutex.Unlock()

	r.table.t[student.ID] = cloneStudent(student)
	return nil
}

// BranchRepository is the memory branch table.
type BranchRepository struct {
	table *branchTable
}

func (r *BranchRepository) GetBranch(_ context.Context, id string) (*models.Branch, error) {
	r.table.mutex.RLock()
	defer r.table.mutex.RUnlock()

	b, ok := r.table.t[id]
	if !ok {
		return nil, apperrors.ErrBranchNotFound
	}
	c := *b
	return &c, nil
}

func (r *BranchRepository) ListBranches(_ context.Context) ([]*models.Branch, error) {
	r.table.mutex.RLock()
	defer r.table.mutex.RUnlock()

	branches := make([]*models.Branch, 0, len(r.table.t))
	for _, b := range r.table.t {
		c := *b
		branches = append(branches, &c)
	}
	sort.Slice(branches, func(i, j int) bool { return branches[i].Name < branches[j].Name })
	return branches, nil
}

func (r *BranchRepository) CreateBranch(_ context.Context, branch *models.Branch) error {
	r.table.mutex.Lock()
	defer r.table.mutex.Unlock()

	if _, ok := r.table.t[branch.ID]; ok {
		return apperrors.NewConflictError(fmt.Sprintf("branch %q already exists", branch.ID))
	}
	if branch.CreatedAt.IsZero() {
		branch.CreatedAt = time.Now().UTC()
	}
	c := *branch
	r.table.t[branch.ID] = &c
	return nil
}
