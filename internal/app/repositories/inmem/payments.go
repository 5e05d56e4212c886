package inmem

import (
	"context"
	"sort"
	"time"

	"github.com/TheDarkness2001/SMS-sub001/internal/app/models"
	"github.com/TheDarkness2001/SMS-sub001/internal/pkg/apperrors"
)

// PaymentRepository keeps the ledger in memory. The table lock makes lookup and write of
// UpsertByKey one step, so a key never gets two rows.
type PaymentRepository struct {
	table *paymentTable
}

func clonePayment(p *models.PaymentTransaction) *models.PaymentTransaction {
	c := *p
	return &c
}

func inBranch(branchID string, p *models.PaymentTransaction) bool {
	return branchID == "" || p.BranchID == branchID
}

func (r *PaymentRepository) UpsertByKey(_ context.Context, payment *models.PaymentTransaction) (*models.PaymentTransaction, bool, error) {
	r.table.mutex.Lock()
	defer r.table.mutex.Unlock()

	key := payment.Key()
	if id, ok := r.table.byKey[key]; ok {
		existing := r.table.t[id]
		existing.BranchID = payment.BranchID
		existing.Amount = payment.Amount
		existing.ExpectedAmount = payment.ExpectedAmount
		existing.Status = payment.Status
		existing.PaymentMethod = payment.PaymentMethod
		existing.Notes = payment.Notes
		existing.DueDate = payment.DueDate
		existing.UpdatedAt = time.Now().UTC()
		return clonePayment(existing), false, nil
	}

	stored := clonePayment(payment)
	r.table.t[stored.ID] = stored
	r.table.byKey[key] = stored.ID
	return clonePayment(stored), true, nil
}

func (r *PaymentRepository) FindByKey(_ context.Context, branchID string, key models.PaymentKey) (*models.PaymentTransaction, error) {
	r.table.mutex.RLock()
	defer r.table.mutex.RUnlock()

	id, ok := r.table.byKey[key]
	if !ok || !inBranch(branchID, r.table.t[id]) {
		return nil, apperrors.ErrPaymentNotFound
	}
	return clonePayment(r.table.t[id]), nil
}

func (r *PaymentRepository) GetByID(_ context.Context, branchID, id string) (*models.PaymentTransaction, error) {
	r.table.mutex.RLock()
	defer r.table.mutex.RUnlock()

	p, ok := r.table.t[id]
	if !ok || !inBranch(branchID, p) {
		return nil, apperrors.ErrPaymentNotFound
	}
	return clonePayment(p), nil
}

func (r *PaymentRepository) ListByStudent(_ context.Context, branchID, studentID string) ([]*models.PaymentTransaction, error) {
	r.table.mutex.RLock()
	defer r.table.mutex.RUnlock()

	payments := []*models.PaymentTransaction{}
	for _, p := range r.table.t {
		if p.StudentID == studentID && inBranch(branchID, p) {
			payments = append(payments, clonePayment(p))
		}
	}
	sort.Slice(payments, func(i, j int) bool {
		a, b := payments[i], payments[j]
		if a.Year != b.Year {
			return a.Year > b.Year
		}
		if a.Month != b.Month {
			return a.Month > b.Month
		}
		return a.Subject < b.Subject
	})
	return payments, nil
}

func (r *PaymentRepository) Delete(_ context.Context, branchID, id string) error {
	r.table.mutex.Lock()
	defer r.table.mutex.Unlock()

	p, ok := r.table.t[id]
	if !ok || !inBranch(branchID, p) {
		return apperrors.ErrPaymentNotFound
	}
	delete(r.table.byKey, p.Key())
	delete(r.table.t, id)
	return nil
}

// ScanRevenue visits matching rows in period order on a snapshot, so fn may call back
// into the repository.
func (r *PaymentRepository) ScanRevenue(_ context.Context, filter models.RevenueFilter, fn func(*models.PaymentTransaction) error) error {
	r.table.mutex.RLock()
	rows := make([]*models.PaymentTransaction, 0, len(r.table.t))
	for _, p := range r.table.t {
		if filter.Matches(p) {
			rows = append(rows, clonePayment(p))
		}
	}
	r.table.mutex.RUnlock()

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].PeriodStart().Before(rows[j].PeriodStart())
	})
	for _, p := range rows {
		if err := fn(p); err != nil {
			return err
		}
	}
	return nil
}
