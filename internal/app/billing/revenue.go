package billing

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/TheDarkness2001/SMS-sub001/internal/app/models"
)

// RevenueAggregator folds ledger rows into a RevenueSummary in one pass. Every row's
// amount counts toward TotalRevenue whatever its status; pending rows carry zero.
type RevenueAggregator struct {
	summary models.RevenueSummary
}

// NewRevenueAggregator returns an aggregator with all buckets initialized.
func NewRevenueAggregator() *RevenueAggregator {
	return &RevenueAggregator{
		summary: models.RevenueSummary{
			TotalRevenue:         decimal.Zero,
			TotalPaid:            decimal.Zero,
			TotalPending:         decimal.Zero,
			RevenueBySubject:     map[string]decimal.Decimal{},
			RevenueByMethod:      map[string]decimal.Decimal{},
			RevenueByYear:        map[string]decimal.Decimal{},
			RevenueByMonth:       map[string]decimal.Decimal{},
			RevenueByYearSubject: map[string]map[string]decimal.Decimal{},
		},
	}
}

func addTo(bucket map[string]decimal.Decimal, key string, amount decimal.Decimal) {
	bucket[key] = bucket[key].Add(amount)
}

// Add accounts for one row.
func (a *RevenueAggregator) Add(p *models.PaymentTransaction) {
	s := &a.summary
	amount := p.Amount

	s.TotalTransactions++
	s.TotalRevenue = s.TotalRevenue.Add(amount)
	if p.Status == models.StatusPaid {
		s.TotalPaid = s.TotalPaid.Add(amount)
	} else {
		s.TotalPending = s.TotalPending.Add(amount)
	}

	year := strconv.Itoa(p.Year)
	addTo(s.RevenueBySubject, p.Subject, amount)
	addTo(s.RevenueByMethod, string(p.PaymentMethod), amount)
	addTo(s.RevenueByYear, year, amount)
	addTo(s.RevenueByMonth, p.PeriodStart().Format("2006-01"), amount)

	bySubject, ok := s.RevenueByYearSubject[year]
	if !ok {
		bySubject = map[string]decimal.Decimal{}
		s.RevenueByYearSubject[year] = bySubject
	}
	addTo(bySubject, p.Subject, amount)
}

// Summary returns the accumulated figures. The aggregator should not be reused after.
func (a *RevenueAggregator) Summary() *models.RevenueSummary {
	s := a.summary
	s.RevenueByType = s.RevenueByMethod
	return &s
}

// Summarize aggregates rows that pass filter.
func Summarize(rows []*models.PaymentTransaction, filter models.RevenueFilter) *models.RevenueSummary {
	agg := NewRevenueAggregator()
	for _, row := range rows {
		if filter.Matches(row) {
			agg.Add(row)
		}
	}
	return agg.Summary()
}
