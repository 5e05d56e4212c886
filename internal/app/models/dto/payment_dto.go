package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/TheDarkness2001/SMS-sub001/internal/app/models"
	"github.com/TheDarkness2001/SMS-sub001/internal/pkg/helpers"
)

// DateLayout is the layout of date-only request fields
const DateLayout = "2006-01-02"

// CreatePaymentRequest records what a student has paid for a subject in a period. Amount
// is the period total, as a JSON number or numeric string. Any client-sent status is
// ignored.
type CreatePaymentRequest struct {
	StudentID     string           `json:"studentId" binding:"required" example:"stu-1001"`
	Subject       string           `json:"subject" binding:"required" example:"Mathematics"`
	Month         int              `json:"month" binding:"required,min=1,max=12" example:"3"`
	Year          int              `json:"year" binding:"required,min=1900,max=9999" example:"2025"`
	Amount        *decimal.Decimal `json:"amount" binding:"required" swaggertype:"string" example:"150.00"`
	PaymentMethod string           `json:"paymentMethod" binding:"omitempty,oneof=cash card bank online" example:"cash"`
	Notes         string           `json:"notes" binding:"max=1000"`
	DueDate       string           `json:"dueDate" binding:"omitempty,datetime=2006-01-02" example:"2025-03-05"`
	Status        string           `json:"status,omitempty" swaggerignore:"true"`
}

// UpdatePaymentRequest replaces the amount of an existing row. Key fields come from the
// stored row.
type UpdatePaymentRequest struct {
	Amount        *decimal.Decimal `json:"amount" binding:"required" swaggertype:"string" example:"150.00"`
	PaymentMethod string           `json:"paymentMethod" binding:"omitempty,oneof=cash card bank online" example:"card"`
	Notes         string           `json:"notes" binding:"max=1000"`
	DueDate       string           `json:"dueDate" binding:"omitempty,datetime=2006-01-02"`
}

// PaymentQuery is the query string of GET /payments
type PaymentQuery struct {
	StudentID string `form:"studentId" binding:"required"`
	Subject   string `form:"subject"`
	Month     int    `form:"month" binding:"omitempty,min=1,max=12"`
	Year      int    `form:"year" binding:"omitempty,min=1900,max=9999"`
}

// HasFullKey reports whether the query addresses a single ledger row
func (q PaymentQuery) HasFullKey() bool {
	return q.Subject != "" && q.Month != 0 && q.Year != 0
}

// Key returns the ledger key of the query
func (q PaymentQuery) Key() models.PaymentKey {
	return models.PaymentKey{StudentID: q.StudentID, Subject: q.Subject, Month: q.Month, Year: q.Year}
}

// PaymentResponse is a ledger row with its display label
type PaymentResponse struct {
	*models.PaymentTransaction
	StatusLabel string `json:"statusLabel" example:"Partial"`
}

// UpsertPaymentResponse is returned by POST and PUT
type UpsertPaymentResponse struct {
	Payment  PaymentResponse `json:"payment"`
	Created  bool            `json:"created"`
	Warnings []string        `json:"warnings,omitempty"`
}

// FromPayment converts a ledger row to its response
func FromPayment(p *models.PaymentTransaction) PaymentResponse {
	return PaymentResponse{PaymentTransaction: p, StatusLabel: p.Status.Label()}
}

// FromPayments converts a list of ledger rows
func FromPayments(payments []*models.PaymentTransaction) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, FromPayment(p))
	}
	return out
}

// ParseDate parses an optional date-only field
func ParseDate(value string) (*time.Time, error) {
	return helpers.ParseOptionalDate(value, DateLayout)
}
