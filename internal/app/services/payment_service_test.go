package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheDarkness2001/SMS-sub001/internal/app/billing"
	"github.com/TheDarkness2001/SMS-sub001/internal/app/models"
	"github.com/TheDarkness2001/SMS-sub001/internal/app/repositories"
	"github.com/TheDarkness2001/SMS-sub001/internal/app/repositories/inmem"
	"github.com/TheDarkness2001/SMS-sub001/internal/pkg/apperrors"
)

const branchMain = "main"

func setup(t *testing.T, opts ...PaymentServiceOption) (*PaymentServiceImpl, *repositories.Repositories) {
	t.Helper()
	repos := inmem.NewRepositories()
	ctx := context.Background()

	students := []*models.Student{
		{ID: "stu-math", BranchID: branchMain, Name: "Amina", Subjects: []string{"Mathematics"}},
		{
			ID:              "stu-custom",
			BranchID:        branchMain,
			Name:            "Yusuf",
			Subjects:        []string{"Physics"},
			SubjectPayments: []models.SubjectTariff{{Subject: "Physics", Amount: models.NewLegacyAmount(decimal.NewFromInt(200))}},
		},
		{ID: "stu-north", BranchID: "north", Name: "Leila", Subjects: []string{"Chemistry"}},
	}
	for _, s := range students {
		require.NoError(t, repos.StudentWriter.SaveStudent(ctx, s))
	}

	svc := NewPaymentService(repos.PaymentRepository, repos.StudentRepository, billing.NewTariffResolver(), zerolog.Nop(), opts...)
	return svc, repos
}

func mathInput(amount int64) UpsertPaymentInput {
	return UpsertPaymentInput{
		StudentID: "stu-math",
		Subject:   "Mathematics",
		Month:     3,
		Year:      2024,
		Amount:    decimal.NewFromInt(amount),
	}
}

func TestPaymentService_UpsertCreatesThenOverwrites(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)

	first, err := svc.Upsert(ctx, branchMain, mathInput(60))
	require.NoError(t, err)
	assert.True(t, first.Created)
	assert.Empty(t, first.Warnings)
	assert.Equal(t, models.StatusPartial, first.Transaction.Status)
	assert.Equal(t, "150", first.Transaction.ExpectedAmount.String())
	assert.Equal(t, models.MethodCash, first.Transaction.PaymentMethod)
	assert.Equal(t, 1, first.Transaction.Term)
	assert.Equal(t, "2024-2025", first.Transaction.AcademicYear)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), first.Transaction.DueDate)

	second, err := svc.Upsert(ctx, branchMain, mathInput(150))
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.Transaction.ID, second.Transaction.ID)
	assert.Equal(t, "150", second.Transaction.Amount.String())
	assert.Equal(t, models.StatusPaid, second.Transaction.Status)

	rows, err := svc.ListByStudent(ctx, branchMain, "stu-math")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "150", rows[0].Amount.String())
}

func TestPaymentService_UpsertIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)

	a, err := svc.Upsert(ctx, branchMain, mathInput(75))
	require.NoError(t, err)
	b, err := svc.Upsert(ctx, branchMain, mathInput(75))
	require.NoError(t, err)

	assert.Equal(t, a.Transaction.ID, b.Transaction.ID)
	assert.Equal(t, a.Transaction.Status, b.Transaction.Status)
	assert.True(t, a.Transaction.Amount.Equal(b.Transaction.Amount))

	rows, err := svc.ListByStudent(ctx, branchMain, "stu-math")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestPaymentService_UpsertStatus(t *testing.T) {
	tests := []struct {
		name       string
		input      UpsertPaymentInput
		wantStatus models.PaymentStatus
		wantExpect string
	}{
		{name: "static tariff, nothing paid", input: mathInput(0), wantStatus: models.StatusPending, wantExpect: "150"},
		{name: "static tariff, half paid", input: mathInput(75), wantStatus: models.StatusPartial, wantExpect: "150"},
		{name: "static tariff, paid", input: mathInput(150), wantStatus: models.StatusPaid, wantExpect: "150"},
		{
			name: "student tariff",
			input: UpsertPaymentInput{
				StudentID: "stu-custom", Subject: "physics", Month: 9, Year: 2024,
				Amount: decimal.NewFromInt(150),
			},
			wantStatus: models.StatusPartial,
			wantExpect: "200",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := setup(t)
			res, err := svc.Upsert(context.Background(), branchMain, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, res.Transaction.Status)
			assert.Equal(t, tt.wantExpect, res.Transaction.ExpectedAmount.String())
		})
	}
}

func TestPaymentService_UpsertValidation(t *testing.T) {
	svc, _ := setup(t)

	with := func(mutate func(*UpsertPaymentInput)) UpsertPaymentInput {
		in := mathInput(100)
		mutate(&in)
		return in
	}

	tests := []struct {
		name    string
		branch  string
		input   UpsertPaymentInput
		wantErr error
	}{
		{name: "negative amount", branch: branchMain, input: mathInput(-1), wantErr: apperrors.ErrNegativeAmount},
		{name: "no branch", branch: " ", input: mathInput(10), wantErr: apperrors.ErrBranchRequired},
		{name: "no student", branch: branchMain, input: with(func(in *UpsertPaymentInput) { in.StudentID = "" }), wantErr: apperrors.ErrMissingKeyFields},
		{name: "blank subject", branch: branchMain, input: with(func(in *UpsertPaymentInput) { in.Subject = "  " }), wantErr: apperrors.ErrMissingKeyFields},
		{name: "no month", branch: branchMain, input: with(func(in *UpsertPaymentInput) { in.Month = 0 }), wantErr: apperrors.ErrMissingKeyFields},
		{name: "no year", branch: branchMain, input: with(func(in *UpsertPaymentInput) { in.Year = 0 }), wantErr: apperrors.ErrMissingKeyFields},
		{name: "month 13", branch: branchMain, input: with(func(in *UpsertPaymentInput) { in.Month = 13 }), wantErr: apperrors.ErrInvalidPeriod},
		{name: "year 1800", branch: branchMain, input: with(func(in *UpsertPaymentInput) { in.Year = 1800 }), wantErr: apperrors.ErrInvalidPeriod},
		{name: "unknown method", branch: branchMain, input: with(func(in *UpsertPaymentInput) { in.PaymentMethod = "cheque" }), wantErr: apperrors.ErrInvalidMethod},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Upsert(context.Background(), tt.branch, tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	rows, err := svc.ListByStudent(context.Background(), branchMain, "stu-math")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestPaymentService_UpsertStudentLookup(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)

	in := mathInput(10)
	in.StudentID = "stu-ghost"
	_, err := svc.Upsert(ctx, branchMain, in)
	assert.True(t, apperrors.IsNotFound(err))
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)

	in.StudentID = "stu-north"
	in.Subject = "Chemistry"
	_, err = svc.Upsert(ctx, branchMain, in)
	assert.True(t, apperrors.IsNotFound(err), "student of another branch")

	res, err := svc.Upsert(ctx, "north", in)
	require.NoError(t, err)
	assert.Equal(t, "north", res.Transaction.BranchID)
}

func TestPaymentService_UpsertNotEnrolledWarns(t *testing.T) {
	svc, _ := setup(t)

	in := mathInput(140)
	in.Subject = "Physics"
	res, err := svc.Upsert(context.Background(), branchMain, in)
	require.NoError(t, err)
	assert.True(t, res.Created)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "Physics")
	assert.Equal(t, models.StatusPaid, res.Transaction.Status)
}

func TestPaymentService_UpsertTrimsKeyFields(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)

	in := mathInput(10)
	in.StudentID = " stu-math "
	in.Subject = " Mathematics "
	first, err := svc.Upsert(ctx, branchMain, in)
	require.NoError(t, err)
	assert.Equal(t, "Mathematics", first.Transaction.Subject)

	second, err := svc.Upsert(ctx, branchMain, mathInput(20))
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.Transaction.ID, second.Transaction.ID)
}

func TestPaymentService_UpsertSubjectSpellingsShareRow(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)

	first, err := svc.Upsert(ctx, branchMain, mathInput(60))
	require.NoError(t, err)
	assert.True(t, first.Created)

	in := mathInput(150)
	in.Subject = "mathematics"
	second, err := svc.Upsert(ctx, branchMain, in)
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Empty(t, second.Warnings)
	assert.Equal(t, first.Transaction.ID, second.Transaction.ID)
	assert.Equal(t, "Mathematics", second.Transaction.Subject)
	assert.Equal(t, models.StatusPaid, second.Transaction.Status)

	rows, err := svc.ListByStudent(ctx, branchMain, "stu-math")
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	found, err := svc.FindByKey(ctx, branchMain, in.Key())
	require.NoError(t, err)
	assert.Equal(t, first.Transaction.ID, found.ID)
}

func TestPaymentService_UpsertSubjectSpelling(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)

	in := mathInput(10)
	in.Subject = "MATHEMATICS"
	res, err := svc.Upsert(ctx, branchMain, in)
	require.NoError(t, err)
	assert.Equal(t, "Mathematics", res.Transaction.Subject, "enrolled spelling")

	in.Subject = "pottery"
	first, err := svc.Upsert(ctx, branchMain, in)
	require.NoError(t, err)
	assert.Equal(t, "pottery", first.Transaction.Subject)

	in.Subject = "Pottery"
	second, err := svc.Upsert(ctx, branchMain, in)
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, "pottery", second.Transaction.Subject, "spelling of the recorded row")
}

func TestPaymentService_UpsertAmountPrecision(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		wantErr error
	}{
		{name: "three decimals", amount: "149.999", wantErr: apperrors.ErrInvalidAmount},
		{name: "ten digits", amount: "10000000000", wantErr: apperrors.ErrInvalidAmount},
		{name: "negative", amount: "-0.01", wantErr: apperrors.ErrNegativeAmount},
		{name: "trailing zeros", amount: "149.9900"},
		{name: "largest storable", amount: "9999999999.99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := setup(t)
			in := mathInput(0)
			in.Amount = decimal.RequireFromString(tt.amount)

			res, err := svc.Upsert(context.Background(), branchMain, in)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, in.Amount.Equal(res.Transaction.Amount))
		})
	}
}

func TestPaymentService_UpsertRoundsTariff(t *testing.T) {
	ctx := context.Background()
	svc, repos := setup(t)

	tariff := func(id, amount string) *models.Student {
		return &models.Student{
			ID:       id,
			BranchID: branchMain,
			Subjects: []string{"Art"},
			SubjectPayments: []models.SubjectTariff{
				{Subject: "Art", Amount: models.NewLegacyAmount(decimal.RequireFromString(amount))},
			},
		}
	}
	require.NoError(t, repos.StudentWriter.SaveStudent(ctx, tariff("stu-fine", "149.995")))
	require.NoError(t, repos.StudentWriter.SaveStudent(ctx, tariff("stu-huge", "20000000000")))

	in := UpsertPaymentInput{StudentID: "stu-fine", Subject: "Art", Month: 2, Year: 2024, Amount: decimal.NewFromInt(150)}
	res, err := svc.Upsert(ctx, branchMain, in)
	require.NoError(t, err)
	assert.Equal(t, "150", res.Transaction.ExpectedAmount.String())
	assert.Equal(t, models.StatusPaid, res.Transaction.Status)

	in.StudentID = "stu-huge"
	_, err = svc.Upsert(ctx, branchMain, in)
	assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
	rows, err := svc.ListByStudent(ctx, branchMain, "stu-huge")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestPaymentService_ConcurrentUpsertsKeepOneRow(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)

	const writers = 25
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
		errs    []error
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(amount int64) {
			defer wg.Done()
			res, err := svc.Upsert(ctx, branchMain, mathInput(amount))
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			if res.Created {
				created++
			}
		}(int64(10 + i))
	}
	wg.Wait()

	assert.Empty(t, errs)
	assert.Equal(t, 1, created)
	rows, err := svc.ListByStudent(ctx, branchMain, "stu-math")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestPaymentService_UpdateByIDKeepsKey(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)

	created, err := svc.Upsert(ctx, branchMain, mathInput(50))
	require.NoError(t, err)

	updated, err := svc.UpdateByID(ctx, branchMain, created.Transaction.ID, UpsertPaymentInput{
		Subject:       "Physics",
		Month:         1,
		Amount:        decimal.NewFromInt(150),
		PaymentMethod: models.MethodCard,
		Notes:         "settled",
	})
	require.NoError(t, err)
	assert.False(t, updated.Created)
	assert.Equal(t, created.Transaction.ID, updated.Transaction.ID)
	assert.Equal(t, created.Transaction.Key(), updated.Transaction.Key())
	assert.Equal(t, models.StatusPaid, updated.Transaction.Status)
	assert.Equal(t, models.MethodCard, updated.Transaction.PaymentMethod)
	assert.Equal(t, "settled", updated.Transaction.Notes)

	_, err = svc.UpdateByID(ctx, branchMain, "missing", mathInput(1))
	assert.True(t, apperrors.IsNotFound(err))
}

func TestPaymentService_UpdateByIDDueDate(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)

	created, err := svc.Upsert(ctx, branchMain, mathInput(60))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), created.Transaction.DueDate)

	due := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	updated, err := svc.UpdateByID(ctx, branchMain, created.Transaction.ID, UpsertPaymentInput{
		Amount:  decimal.NewFromInt(60),
		DueDate: &due,
	})
	require.NoError(t, err)
	assert.Equal(t, due, updated.Transaction.DueDate)

	kept, err := svc.UpdateByID(ctx, branchMain, created.Transaction.ID, UpsertPaymentInput{Amount: decimal.NewFromInt(90)})
	require.NoError(t, err)
	assert.Equal(t, due, kept.Transaction.DueDate)

	stored, err := svc.GetByID(ctx, branchMain, created.Transaction.ID)
	require.NoError(t, err)
	assert.Equal(t, due, stored.DueDate)
	assert.Equal(t, "90", stored.Amount.String())
}

func TestPaymentService_FindAndDelete(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)

	res, err := svc.Upsert(ctx, branchMain, mathInput(80))
	require.NoError(t, err)
	key := res.Transaction.Key()

	found, err := svc.FindByKey(ctx, branchMain, key)
	require.NoError(t, err)
	assert.Equal(t, res.Transaction.ID, found.ID)

	_, err = svc.FindByKey(ctx, "north", key)
	assert.True(t, apperrors.IsNotFound(err))

	_, err = svc.GetByID(ctx, "north", res.Transaction.ID)
	assert.True(t, apperrors.IsNotFound(err))

	require.NoError(t, svc.Delete(ctx, branchMain, res.Transaction.ID))
	_, err = svc.GetByID(ctx, branchMain, res.Transaction.ID)
	assert.True(t, apperrors.IsNotFound(err))

	err = svc.Delete(ctx, branchMain, res.Transaction.ID)
	assert.True(t, errors.Is(err, apperrors.ErrPaymentNotFound))

	again, err := svc.Upsert(ctx, branchMain, mathInput(80))
	require.NoError(t, err)
	assert.True(t, again.Created)
}

func TestPaymentService_Options(t *testing.T) {
	fixed := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)
	svc, _ := setup(t, WithDueDay(10), WithClock(func() time.Time { return fixed }))

	res, err := svc.Upsert(context.Background(), branchMain, mathInput(10))
	require.NoError(t, err)
	assert.Equal(t, fixed, res.Transaction.CreatedAt)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), res.Transaction.DueDate)

	due := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	in := mathInput(20)
	in.Subject = "Physics"
	in.DueDate = &due
	res, err = svc.Upsert(context.Background(), branchMain, in)
	require.NoError(t, err)
	assert.Equal(t, due, res.Transaction.DueDate)

	ignored, _ := setup(t, WithDueDay(31))
	assert.Equal(t, 5, ignored.dueDay)
}

func TestPaymentService_ListByStudentOrder(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)

	periods := [][2]int{{1, 2024}, {11, 2023}, {3, 2024}}
	for _, p := range periods {
		in := mathInput(10)
		in.Month, in.Year = p[0], p[1]
		_, err := svc.Upsert(ctx, branchMain, in)
		require.NoError(t, err)
	}

	rows, err := svc.ListByStudent(ctx, branchMain, "stu-math")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, 3, rows[0].Month)
	assert.Equal(t, 1, rows[1].Month)
	assert.Equal(t, 2023, rows[2].Year)

	_, err = svc.ListByStudent(ctx, branchMain, "")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}
