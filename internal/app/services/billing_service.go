package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/TheDarkness2001/SMS-sub001/internal/app/billing"
	"github.com/TheDarkness2001/SMS-sub001/internal/app/models"
	"github.com/TheDarkness2001/SMS-sub001/internal/app/repositories"
	"github.com/TheDarkness2001/SMS-sub001/internal/pkg/apperrors"
)

// ExpectedAmount is a resolved tariff and where it came from.
type ExpectedAmount struct {
	StudentID string          `json:"studentId"`
	Subject   string          `json:"subject"`
	Amount    decimal.Decimal `json:"amount"`
	Source    string          `json:"source"`
}

// BillingStatus is what a student owes and has paid for one subject in one period.
type BillingStatus struct {
	StudentID      string                     `json:"studentId"`
	Subject        string                     `json:"subject"`
	Month          int                        `json:"month"`
	Year           int                        `json:"year"`
	ExpectedAmount decimal.Decimal            `json:"expectedAmount"`
	PaidSoFar      decimal.Decimal            `json:"paidSoFar"`
	Balance        decimal.Decimal            `json:"balance"`
	Status         models.PaymentStatus       `json:"status"`
	Label          string                     `json:"label"`
	TariffSource   string                     `json:"tariffSource"`
	Payment        *models.PaymentTransaction `json:"payment,omitempty"`
}

// BillingService answers "how much" and "how far along" questions without writing.
type BillingService interface {
	GetExpectedAmount(ctx context.Context, branchID, studentID, subject string) (*ExpectedAmount, error)
	GetPaymentStatus(ctx context.Context, branchID, studentID, subject string, month, year int) (*BillingStatus, error)
	SubjectCatalog() []billing.SubjectPrice
}

// BillingServiceImpl implements BillingService
type BillingServiceImpl struct {
	students repositories.StudentStore
	payments repositories.PaymentStore
	resolver *billing.TariffResolver
}

// NewBillingService creates a new billing service
func NewBillingService(students repositories.StudentStore, payments repositories.PaymentStore, resolver *billing.TariffResolver) *BillingServiceImpl {
	return &BillingServiceImpl{
		students: students,
		payments: payments,
		resolver: resolver,
	}
}

func (s *BillingServiceImpl) loadStudent(ctx context.Context, branchID, studentID, subject string) (*models.Student, error) {
	if strings.TrimSpace(studentID) == "" {
		return nil, apperrors.NewValidationError("studentId", apperrors.ErrMissingKeyFields, "studentId is required")
	}
	if strings.TrimSpace(subject) == "" {
		return nil, apperrors.NewValidationError("subject", apperrors.ErrMissingKeyFields, "subject is required")
	}

	student, err := s.students.GetStudent(ctx, branchID, strings.TrimSpace(studentID))
	if err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, apperrors.NewNotFoundError(err, fmt.Sprintf("student %s not found", studentID))
		}
		return nil, err
	}
	return student, nil
}

// GetExpectedAmount resolves the student's tariff for subject
func (s *BillingServiceImpl) GetExpectedAmount(ctx context.Context, branchID, studentID, subject string) (*ExpectedAmount, error) {
	student, err := s.loadStudent(ctx, branchID, studentID, subject)
	if err != nil {
		return nil, err
	}

	subject = strings.TrimSpace(subject)
	amount, source := s.resolver.Resolve(student, subject)
	return &ExpectedAmount{StudentID: student.ID, Subject: subject, Amount: amount, Source: source}, nil
}

// GetPaymentStatus classifies the period against the tariff in force now. A period with
// no ledger row is unpaid.
func (s *BillingServiceImpl) GetPaymentStatus(ctx context.Context, branchID, studentID, subject string, month, year int) (*BillingStatus, error) {
	if month < 1 || month > 12 {
		return nil, apperrors.NewValidationError("month", apperrors.ErrInvalidPeriod, "month must be between 1 and 12")
	}
	if year < minYear || year > maxYear {
		return nil, apperrors.NewValidationError("year", apperrors.ErrInvalidPeriod,
			fmt.Sprintf("year must be between %d and %d", minYear, maxYear))
	}

	student, err := s.loadStudent(ctx, branchID, studentID, subject)
	if err != nil {
		return nil, err
	}
	subject = strings.TrimSpace(subject)

	expected, source := s.resolver.Resolve(student, subject)
	expected = expected.Round(models.AmountScale)
	paid := decimal.Zero

	payment, err := findPeriodRow(ctx, s.payments, branchID, models.PaymentKey{
		StudentID: student.ID, Subject: subject, Month: month, Year: year,
	})
	switch {
	case err == nil:
		paid = payment.Amount
	case errors.Is(err, apperrors.ErrPaymentNotFound):
		payment = nil
	default:
		return nil, err
	}

	status := billing.Classify(expected, paid)
	return &BillingStatus{
		StudentID:      student.ID,
		Subject:        subject,
		Month:          month,
		Year:           year,
		ExpectedAmount: expected,
		PaidSoFar:      paid,
		Balance:        billing.Balance(expected, paid),
		Status:         status,
		Label:          status.Label(),
		TariffSource:   source,
		Payment:        payment,
	}, nil
}

// SubjectCatalog lists the static tariff table
func (s *BillingServiceImpl) SubjectCatalog() []billing.SubjectPrice {
	return s.resolver.Catalog()
}
