package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is derived from the paid amount against the expected tariff. It is
// persisted so queries can filter on it, but always recomputed on write.
type PaymentStatus string

const (
	StatusPending PaymentStatus = "pending"
	StatusPartial PaymentStatus = "partial"
	StatusPaid    PaymentStatus = "paid"
)

// Label is the user-facing name of the status.
func (s PaymentStatus) Label() string {
	switch s {
	case StatusPaid:
		return "Paid"
	case StatusPartial:
		return "Partial"
	default:
		return "Unpaid"
	}
}

// PaymentMethod is how the money was received
type PaymentMethod string

const (
	MethodCash   PaymentMethod = "cash"
	MethodCard   PaymentMethod = "card"
	MethodBank   PaymentMethod = "bank"
	MethodOnline PaymentMethod = "online"
)

// PaymentMethods lists the accepted methods.
var PaymentMethods = []PaymentMethod{MethodCash, MethodCard, MethodBank, MethodOnline}

// Valid reports whether m is one of PaymentMethods.
func (m PaymentMethod) Valid() bool {
	for _, method := range PaymentMethods {
		if m == method {
			return true
		}
	}
	return false
}

// Ledger amounts are stored as NUMERIC(12, 2).
const AmountScale = 2

// MaxAmount is the first amount the ledger cannot store.
var MaxAmount = decimal.New(1, 10)

// PaymentKey identifies the single ledger row of a student's subject in a period.
type PaymentKey struct {
	StudentID string
	Subject   string
	Month     int
	Year      int
}

func (k PaymentKey) String() string {
	return fmt.Sprintf("%s|%s|%04d-%02d", k.StudentID, k.Subject, k.Year, k.Month)
}

// PaymentTransaction is the ledger row for one (student, subject, month, year). Amount is
// the total paid so far for the period, not an installment.
type PaymentTransaction struct {
	ID             string          `json:"id"`
	BranchID       string          `json:"branchId"`
	StudentID      string          `json:"studentId"`
	Subject        string          `json:"subject"`
	Month          int             `json:"month"`
	Year           int             `json:"year"`
	Amount         decimal.Decimal `json:"amount"`
	ExpectedAmount decimal.Decimal `json:"expectedAmount"`
	Status         PaymentStatus   `json:"status"`
	PaymentMethod  PaymentMethod   `json:"paymentMethod"`
	Notes          string          `json:"notes"`
	DueDate        time.Time       `json:"dueDate"`
	AcademicYear   string          `json:"academicYear"`
	Term           int             `json:"term"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// Key returns the idempotency key of the row.
func (p *PaymentTransaction) Key() PaymentKey {
	return PaymentKey{StudentID: p.StudentID, Subject: p.Subject, Month: p.Month, Year: p.Year}
}

// PeriodStart is midnight UTC on the first day of the billing month.
func (p *PaymentTransaction) PeriodStart() time.Time {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
}

// TermForMonth maps a month onto the three four-month terms.
func TermForMonth(month int) int {
	switch {
	case month >= 1 && month <= 4:
		return 1
	case month >= 5 && month <= 8:
		return 2
	case month >= 9 && month <= 12:
		return 3
	default:
		return 0
	}
}

// AcademicYearFor formats the academic year that starts in year.
func AcademicYearFor(year int) string {
	return fmt.Sprintf("%d-%d", year, year+1)
}

// DueDateFor returns day dueDay of the billing month.
func DueDateFor(month, year, dueDay int) time.Time {
	return time.Date(year, time.Month(month), dueDay, 0, 0, 0, 0, time.UTC)
}
