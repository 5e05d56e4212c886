package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/TheDarkness2001/SMS-sub001/internal/app/billing"
	"github.com/TheDarkness2001/SMS-sub001/internal/app/models"
	"github.com/TheDarkness2001/SMS-sub001/internal/app/repositories"
	"github.com/TheDarkness2001/SMS-sub001/internal/pkg/apperrors"
	"github.com/TheDarkness2001/SMS-sub001/internal/pkg/metrics"
)

const (
	minYear = 1900
	maxYear = 9999
)

// UpsertPaymentInput is a payment submission. Amount is the total paid for the period so
// far; it replaces whatever was recorded before.
type UpsertPaymentInput struct {
	StudentID     string
	Subject       string
	Month         int
	Year          int
	Amount        decimal.Decimal
	PaymentMethod models.PaymentMethod
	Notes         string
	DueDate       *time.Time
}

// Key returns the ledger key the input addresses.
func (in UpsertPaymentInput) Key() models.PaymentKey {
	return models.PaymentKey{StudentID: in.StudentID, Subject: in.Subject, Month: in.Month, Year: in.Year}
}

// UpsertResult is the stored row plus what happened to it.
type UpsertResult struct {
	Transaction *models.PaymentTransaction `json:"transaction"`
	Created     bool                       `json:"created"`
	Warnings    []string                   `json:"warnings,omitempty"`
}

// PaymentService defines the interface for ledger operations
type PaymentService interface {
	Upsert(ctx context.Context, branchID string, input UpsertPaymentInput) (*UpsertResult, error)
	UpdateByID(ctx context.Context, branchID, id string, input UpsertPaymentInput) (*UpsertResult, error)
	FindByKey(ctx context.Context, branchID string, key models.PaymentKey) (*models.PaymentTransaction, error)
	GetByID(ctx context.Context, branchID, id string) (*models.PaymentTransaction, error)
	ListByStudent(ctx context.Context, branchID, studentID string) ([]*models.PaymentTransaction, error)
	Delete(ctx context.Context, branchID, id string) error
}

// revenueInvalidator is told about every ledger write.
type revenueInvalidator interface {
	Invalidate(ctx context.Context)
}

// PaymentServiceImpl implements PaymentService
type PaymentServiceImpl struct {
	payments repositories.PaymentStore
	students repositories.StudentStore
	resolver *billing.TariffResolver
	revenue  revenueInvalidator
	dueDay   int
	now      func() time.Time
	logger   zerolog.Logger
}

// PaymentServiceOption customizes a PaymentServiceImpl.
type PaymentServiceOption func(*PaymentServiceImpl)

// WithDueDay sets the day of the billing month new rows fall due.
func WithDueDay(day int) PaymentServiceOption {
	return func(s *PaymentServiceImpl) {
		if day >= 1 && day <= 28 {
			s.dueDay = day
		}
	}
}

// WithRevenueInvalidator wires the revenue cache.
func WithRevenueInvalidator(inv revenueInvalidator) PaymentServiceOption {
	return func(s *PaymentServiceImpl) {
		if inv != nil {
			s.revenue = inv
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) PaymentServiceOption {
	return func(s *PaymentServiceImpl) {
		s.now = now
	}
}

type noopInvalidator struct{}

func (noopInvalidator) Invalidate(context.Context) {}

// NewPaymentService creates a new payment service
func NewPaymentService(
	payments repositories.PaymentStore,
	students repositories.StudentStore,
	resolver *billing.TariffResolver,
	logger zerolog.Logger,
	opts ...PaymentServiceOption,
) *PaymentServiceImpl {
	s := &PaymentServiceImpl{
		payments: payments,
		students: students,
		resolver: resolver,
		revenue:  noopInvalidator{},
		dueDay:   5,
		now:      time.Now,
		logger:   logger.With().Str("service", "payments").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *PaymentServiceImpl) validate(branchID string, in *UpsertPaymentInput) error {
	if strings.TrimSpace(branchID) == "" {
		return apperrors.NewValidationError("branchId", apperrors.ErrBranchRequired, "branch is required")
	}

	in.StudentID = strings.TrimSpace(in.StudentID)
	in.Subject = strings.TrimSpace(in.Subject)
	switch {
	case in.StudentID == "":
		return apperrors.NewValidationError("studentId", apperrors.ErrMissingKeyFields, "studentId is required")
	case in.Subject == "":
		return apperrors.NewValidationError("subject", apperrors.ErrMissingKeyFields, "subject is required")
	case in.Month == 0:
		return apperrors.NewValidationError("month", apperrors.ErrMissingKeyFields, "month is required")
	case in.Year == 0:
		return apperrors.NewValidationError("year", apperrors.ErrMissingKeyFields, "year is required")
	}

	if in.Month < 1 || in.Month > 12 {
		return apperrors.NewValidationError("month", apperrors.ErrInvalidPeriod, "month must be between 1 and 12")
	}
	if in.Year < minYear || in.Year > maxYear {
		return apperrors.NewValidationError("year", apperrors.ErrInvalidPeriod,
			fmt.Sprintf("year must be between %d and %d", minYear, maxYear))
	}
	if err := checkAmount("amount", in.Amount); err != nil {
		return err
	}

	if in.PaymentMethod == "" {
		in.PaymentMethod = models.MethodCash
	}
	if !in.PaymentMethod.Valid() {
		return apperrors.NewValidationError("paymentMethod", apperrors.ErrInvalidMethod,
			fmt.Sprintf("payment method %q is not supported", in.PaymentMethod))
	}
	return nil
}

func checkAmount(field string, amount decimal.Decimal) error {
	switch {
	case amount.IsNegative():
		return apperrors.NewValidationError(field, apperrors.ErrNegativeAmount, field+" cannot be negative")
	case !amount.Equal(amount.Round(models.AmountScale)):
		return apperrors.NewValidationError(field, apperrors.ErrInvalidAmount,
			fmt.Sprintf("%s cannot have more than %d decimal places", field, models.AmountScale))
	case amount.GreaterThanOrEqual(models.MaxAmount):
		return apperrors.NewValidationError(field, apperrors.ErrInvalidAmount,
			fmt.Sprintf("%s must be less than %s", field, models.MaxAmount))
	}
	return nil
}

// findPeriodRow returns the row of key. When no row holds the subject exactly as given,
// it falls back to a case-insensitive subject match. An empty branchID searches every
// branch.
func findPeriodRow(ctx context.Context, payments repositories.PaymentStore, branchID string, key models.PaymentKey) (*models.PaymentTransaction, error) {
	payment, err := payments.FindByKey(ctx, branchID, key)
	if !errors.Is(err, apperrors.ErrPaymentNotFound) {
		return payment, err
	}

	rows, err := payments.ListByStudent(ctx, branchID, key.StudentID)
	if err != nil {
		return nil, err
	}
	want := models.NormalizeSubject(key.Subject)
	for _, row := range rows {
		if row.Month == key.Month && row.Year == key.Year && models.NormalizeSubject(row.Subject) == want {
			return row, nil
		}
	}
	return nil, apperrors.ErrPaymentNotFound
}

// ledgerSubject picks the spelling the ledger keys input's subject under: the spelling of
// a row already recorded for the period, else the student's enrolled spelling, else the
// input as given.
func (s *PaymentServiceImpl) ledgerSubject(ctx context.Context, student *models.Student, input UpsertPaymentInput) (string, error) {
	row, err := findPeriodRow(ctx, s.payments, "", input.Key())
	switch {
	case err == nil:
		return row.Subject, nil
	case !errors.Is(err, apperrors.ErrPaymentNotFound):
		return "", err
	}
	if enrolled, ok := student.EnrolledSubject(input.Subject); ok {
		return enrolled, nil
	}
	return input.Subject, nil
}

// Upsert records the amount paid for a period. The row is created on first payment and
// overwritten afterwards; status is always recomputed against the tariff in force now.
func (s *PaymentServiceImpl) Upsert(ctx context.Context, branchID string, input UpsertPaymentInput) (*UpsertResult, error) {
	if err := s.validate(branchID, &input); err != nil {
		return nil, err
	}

	student, err := s.students.GetStudent(ctx, branchID, input.StudentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, apperrors.NewNotFoundError(err, fmt.Sprintf("student %s not found", input.StudentID))
		}
		return nil, err
	}

	if input.Subject, err = s.ledgerSubject(ctx, student, input); err != nil {
		return nil, err
	}

	log := s.logger.With().
		Str("branchId", branchID).
		Str("studentId", input.StudentID).
		Str("subject", input.Subject).
		Int("month", input.Month).
		Int("year", input.Year).
		Logger()

	var warnings []string
	if !student.IsEnrolledIn(input.Subject) {
		warnings = append(warnings, fmt.Sprintf("student is not enrolled in %s", input.Subject))
		log.Warn().Msg("Payment recorded for a subject the student is not enrolled in")
	}

	expected, source := s.resolver.Resolve(student, input.Subject)
	expected = expected.Round(models.AmountScale)
	if err := checkAmount("expectedAmount", expected); err != nil {
		log.Error().Str("tariffSource", source).Str("expectedAmount", expected.String()).Msg("Tariff cannot be stored")
		return nil, err
	}
	status := billing.Classify(expected, input.Amount)

	now := s.now().UTC()
	dueDate := models.DueDateFor(input.Month, input.Year, s.dueDay)
	if input.DueDate != nil {
		dueDate = input.DueDate.UTC()
	}

	stored, created, err := s.payments.UpsertByKey(ctx, &models.PaymentTransaction{
		ID:             uuid.NewString(),
		BranchID:       branchID,
		StudentID:      input.StudentID,
		Subject:        input.Subject,
		Month:          input.Month,
		Year:           input.Year,
		Amount:         input.Amount,
		ExpectedAmount: expected,
		Status:         status,
		PaymentMethod:  input.PaymentMethod,
		Notes:          input.Notes,
		DueDate:        dueDate,
		AcademicYear:   models.AcademicYearFor(input.Year),
		Term:           models.TermForMonth(input.Month),
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to record payment")
		return nil, err
	}

	s.revenue.Invalidate(ctx)
	metrics.PaymentRecorded(created, string(stored.Status))

	log.Info().
		Str("paymentId", stored.ID).
		Bool("created", created).
		Str("amount", stored.Amount.String()).
		Str("expectedAmount", expected.String()).
		Str("tariffSource", source).
		Str("status", string(stored.Status)).
		Msg("Payment recorded")

	return &UpsertResult{Transaction: stored, Created: created, Warnings: warnings}, nil
}

// UpdateByID upserts against the key of an existing row. Key fields in input are ignored.
func (s *PaymentServiceImpl) UpdateByID(ctx context.Context, branchID, id string, input UpsertPaymentInput) (*UpsertResult, error) {
	existing, err := s.GetByID(ctx, branchID, id)
	if err != nil {
		return nil, err
	}

	input.StudentID = existing.StudentID
	input.Subject = existing.Subject
	input.Month = existing.Month
	input.Year = existing.Year
	if input.DueDate == nil {
		dueDate := existing.DueDate
		input.DueDate = &dueDate
	}
	return s.Upsert(ctx, branchID, input)
}

// FindByKey returns the row of a period. The subject matches case-insensitively.
func (s *PaymentServiceImpl) FindByKey(ctx context.Context, branchID string, key models.PaymentKey) (*models.PaymentTransaction, error) {
	payment, err := findPeriodRow(ctx, s.payments, branchID, key)
	if err != nil {
		if errors.Is(err, apperrors.ErrPaymentNotFound) {
			return nil, apperrors.NewNotFoundError(err, fmt.Sprintf("no payment recorded for %s %s %04d-%02d",
				key.StudentID, key.Subject, key.Year, key.Month))
		}
		return nil, err
	}
	return payment, nil
}

// GetByID returns a row by id
func (s *PaymentServiceImpl) GetByID(ctx context.Context, branchID, id string) (*models.PaymentTransaction, error) {
	payment, err := s.payments.GetByID(ctx, branchID, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrPaymentNotFound) {
			return nil, apperrors.NewNotFoundError(err, fmt.Sprintf("payment %s not found", id))
		}
		return nil, err
	}
	return payment, nil
}

// ListByStudent returns all rows of a student
func (s *PaymentServiceImpl) ListByStudent(ctx context.Context, branchID, studentID string) ([]*models.PaymentTransaction, error) {
	if strings.TrimSpace(studentID) == "" {
		return nil, apperrors.NewValidationError("studentId", apperrors.ErrMissingKeyFields, "studentId is required")
	}
	return s.payments.ListByStudent(ctx, branchID, strings.TrimSpace(studentID))
}

// Delete removes a row. This is an administrative correction, not a refund.
func (s *PaymentServiceImpl) Delete(ctx context.Context, branchID, id string) error {
	if err := s.payments.Delete(ctx, branchID, id); err != nil {
		if errors.Is(err, apperrors.ErrPaymentNotFound) {
			return apperrors.NewNotFoundError(err, fmt.Sprintf("payment %s not found", id))
		}
		return err
	}

	s.revenue.Invalidate(ctx)
	metrics.PaymentDeleted()
	s.logger.Info().Str("branchId", branchID).Str("paymentId", id).Msg("Payment deleted")
	return nil
}
