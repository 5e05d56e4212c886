package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheDarkness2001/SMS-sub001/internal/app/billing"
	"github.com/TheDarkness2001/SMS-sub001/internal/app/models"
	"github.com/TheDarkness2001/SMS-sub001/internal/app/repositories"
	"github.com/TheDarkness2001/SMS-sub001/internal/pkg/apperrors"
	"github.com/TheDarkness2001/SMS-sub001/internal/pkg/cache"
)

// countingPayments counts ledger scans so cache hits can be observed.
type countingPayments struct {
	repositories.PaymentStore
	scans int
}

func (c *countingPayments) ScanRevenue(ctx context.Context, filter models.RevenueFilter, fn func(*models.PaymentTransaction) error) error {
	c.scans++
	return c.PaymentStore.ScanRevenue(ctx, filter, fn)
}

func setupRevenue(t *testing.T, store cache.Store) (*PaymentServiceImpl, *RevenueServiceImpl, *countingPayments) {
	t.Helper()
	_, repos := setup(t)
	payments := &countingPayments{PaymentStore: repos.PaymentRepository}
	revenue := NewRevenueService(payments, store, time.Minute, zerolog.Nop())
	svc := NewPaymentService(payments, repos.StudentRepository, billing.NewTariffResolver(), zerolog.Nop(),
		WithRevenueInvalidator(revenue))
	return svc, revenue, payments
}

func TestRevenueService_Summarize(t *testing.T) {
	ctx := context.Background()
	svc, revenue, _ := setupRevenue(t, nil)

	inputs := []UpsertPaymentInput{
		mathInput(150),
		{StudentID: "stu-math", Subject: "Mathematics", Month: 4, Year: 2024, Amount: mathInput(75).Amount, PaymentMethod: models.MethodCard},
		{StudentID: "stu-custom", Subject: "Physics", Month: 3, Year: 2024, Amount: mathInput(200).Amount},
	}
	for _, in := range inputs {
		_, err := svc.Upsert(ctx, branchMain, in)
		require.NoError(t, err)
	}
	_, err := svc.Upsert(ctx, "north", UpsertPaymentInput{
		StudentID: "stu-north", Subject: "Chemistry", Month: 3, Year: 2024, Amount: mathInput(140).Amount,
	})
	require.NoError(t, err)

	april := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name      string
		filter    models.RevenueFilter
		wantCount int
		wantTotal string
	}{
		{name: "branch", filter: models.RevenueFilter{BranchID: branchMain}, wantCount: 3, wantTotal: "425"},
		{name: "other branch", filter: models.RevenueFilter{BranchID: "north"}, wantCount: 1, wantTotal: "140"},
		{name: "subject", filter: models.RevenueFilter{BranchID: branchMain, Subject: "mathematics"}, wantCount: 2, wantTotal: "225"},
		{name: "method", filter: models.RevenueFilter{BranchID: branchMain, PaymentMethod: models.MethodCard}, wantCount: 1, wantTotal: "75"},
		{name: "from april", filter: models.RevenueFilter{BranchID: branchMain, StartDate: &april}, wantCount: 1, wantTotal: "75"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, err := revenue.Summarize(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCount, summary.TotalTransactions)
			assert.Equal(t, tt.wantTotal, summary.TotalRevenue.String())
		})
	}
}

func TestRevenueService_SummarizeValidation(t *testing.T) {
	_, revenue, _ := setupRevenue(t, nil)
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		filter  models.RevenueFilter
		wantErr error
	}{
		{name: "no branch", filter: models.RevenueFilter{}, wantErr: apperrors.ErrBranchRequired},
		{name: "inverted dates", filter: models.RevenueFilter{BranchID: branchMain, StartDate: &start, EndDate: &end}, wantErr: apperrors.ErrInvalidPeriod},
		{name: "unknown method", filter: models.RevenueFilter{BranchID: branchMain, PaymentMethod: "cheque"}, wantErr: apperrors.ErrInvalidMethod},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := revenue.Summarize(context.Background(), tt.filter)
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRevenueService_CacheAndInvalidation(t *testing.T) {
	ctx := context.Background()
	svc, revenue, payments := setupRevenue(t, cache.NewMemory())
	filter := models.RevenueFilter{BranchID: branchMain}

	_, err := svc.Upsert(ctx, branchMain, mathInput(60))
	require.NoError(t, err)

	first, err := revenue.Summarize(ctx, filter)
	require.NoError(t, err)
	second, err := revenue.Summarize(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, 1, payments.scans)
	assert.Equal(t, first.TotalRevenue.String(), second.TotalRevenue.String())
	assert.Equal(t, "60", second.RevenueBySubject["Mathematics"].String())

	_, err = revenue.Summarize(ctx, models.RevenueFilter{BranchID: branchMain, Subject: "Physics"})
	require.NoError(t, err)
	assert.Equal(t, 2, payments.scans)

	_, err = svc.Upsert(ctx, branchMain, mathInput(150))
	require.NoError(t, err)

	third, err := revenue.Summarize(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, 3, payments.scans)
	assert.Equal(t, "150", third.TotalRevenue.String())
	assert.Equal(t, "150", third.TotalPaid.String())

	row, err := svc.FindByKey(ctx, branchMain, mathInput(0).Key())
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, branchMain, row.ID))

	fourth, err := revenue.Summarize(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, 4, payments.scans)
	assert.Zero(t, fourth.TotalTransactions)
}

func TestRevenueService_NoopCacheAlwaysScans(t *testing.T) {
	ctx := context.Background()
	_, revenue, payments := setupRevenue(t, cache.Noop{})

	for i := 0; i < 3; i++ {
		_, err := revenue.Summarize(ctx, models.RevenueFilter{BranchID: branchMain})
		require.NoError(t, err)
	}
	assert.Equal(t, 3, payments.scans)
}
