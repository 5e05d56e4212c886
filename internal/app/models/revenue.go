package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RevenueFilter restricts the ledger rows a summary is computed over. Zero values mean
// "no restriction", except BranchID which is always applied.
type RevenueFilter struct {
	BranchID      string        `json:"branchId"`
	StartDate     *time.Time    `json:"startDate,omitempty"`
	EndDate       *time.Time    `json:"endDate,omitempty"`
	Subject       string        `json:"subject,omitempty"`
	PaymentMethod PaymentMethod `json:"paymentMethod,omitempty"`
}

// Matches applies the filter to a single row. Dates compare against the start of the
// billing period, inclusive on both ends.
func (f RevenueFilter) Matches(p *PaymentTransaction) bool {
	if f.BranchID != "" && p.BranchID != f.BranchID {
		return false
	}
	if f.Subject != "" && NormalizeSubject(p.Subject) != NormalizeSubject(f.Subject) {
		return false
	}
	if f.PaymentMethod != "" && p.PaymentMethod != f.PaymentMethod {
		return false
	}
	period := p.PeriodStart()
	if f.StartDate != nil && period.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && period.After(*f.EndDate) {
		return false
	}
	return true
}

// RevenueSummary is computed on demand from the ledger and never stored.
type RevenueSummary struct {
	TotalRevenue         decimal.Decimal                       `json:"totalRevenue"`
	TotalPaid            decimal.Decimal                       `json:"totalPaid"`
	TotalPending         decimal.Decimal                       `json:"totalPending"`
	TotalTransactions    int                                   `json:"totalTransactions"`
	RevenueBySubject     map[string]decimal.Decimal            `json:"revenueBySubject"`
	RevenueByMethod      map[string]decimal.Decimal            `json:"revenueByMethod"`
	RevenueByType        map[string]decimal.Decimal            `json:"revenueByType"`
	RevenueByYear        map[string]decimal.Decimal            `json:"revenueByYear"`
	RevenueByMonth       map[string]decimal.Decimal            `json:"revenueByMonth"`
	RevenueByYearSubject map[string]map[string]decimal.Decimal `json:"revenueByYearSubject"`
}
