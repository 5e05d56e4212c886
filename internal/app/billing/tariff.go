// Package billing holds the pure payment rules: what a student owes for a subject, how a
// paid amount is classified, and how ledger rows add up into revenue figures.
package billing

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/TheDarkness2001/SMS-sub001/internal/app/models"
)

// DefaultAmount is charged when no tariff source knows the subject.
var DefaultAmount = decimal.NewFromInt(100)

// DefaultStaticTariffs is the built-in price list, keyed by normalized subject name.
var DefaultStaticTariffs = map[string]decimal.Decimal{
	"mathematics":      decimal.NewFromInt(150),
	"physics":          decimal.NewFromInt(140),
	"chemistry":        decimal.NewFromInt(140),
	"biology":          decimal.NewFromInt(130),
	"english":          decimal.NewFromInt(120),
	"french":           decimal.NewFromInt(120),
	"arabic":           decimal.NewFromInt(110),
	"history":          decimal.NewFromInt(100),
	"geography":        decimal.NewFromInt(100),
	"computer science": decimal.NewFromInt(160),
}

// TariffSource is one way of finding a price for a subject. Lookup returns ok only for a
// positive amount; anything else lets the next source try.
type TariffSource interface {
	Name() string
	Lookup(student *models.Student, subject string) (decimal.Decimal, bool)
}

// SubjectListSource reads a []SubjectTariff shape off the student.
type SubjectListSource struct {
	name string
	list func(*models.Student) []models.SubjectTariff
}

// SubjectPaymentsSource reads the current subjectPayments list.
func SubjectPaymentsSource() SubjectListSource {
	return SubjectListSource{
		name: "subjectPayments",
		list: func(s *models.Student) []models.SubjectTariff { return s.SubjectPayments },
	}
}

// PaymentSubjectsSource reads the oldest paymentSubjects list.
func PaymentSubjectsSource() SubjectListSource {
	return SubjectListSource{
		name: "paymentSubjects",
		list: func(s *models.Student) []models.SubjectTariff { return s.PaymentSubjects },
	}
}

func (s SubjectListSource) Name() string { return s.name }

// Lookup returns the amount of the first entry whose normalized subject matches. A
// matching entry without a positive amount ends the search in this list.
func (s SubjectListSource) Lookup(student *models.Student, subject string) (decimal.Decimal, bool) {
	if student == nil {
		return decimal.Zero, false
	}
	want := models.NormalizeSubject(subject)
	for _, entry := range s.list(student) {
		if models.NormalizeSubject(entry.Subject) != want {
			continue
		}
		if entry.Amount.Positive() {
			return entry.Amount.Value, true
		}
		return decimal.Zero, false
	}
	return decimal.Zero, false
}

// PerClassPricesSource reads the perClassPrices mapping.
type PerClassPricesSource struct{}

func (PerClassPricesSource) Name() string { return "perClassPrices" }

// Lookup tries the exact key, then every key normalized, in document order.
func (PerClassPricesSource) Lookup(student *models.Student, subject string) (decimal.Decimal, bool) {
	if student == nil || len(student.PerClassPrices) == 0 {
		return decimal.Zero, false
	}
	if amount, ok := student.PerClassPrices.Lookup(subject); ok && amount.Positive() {
		return amount.Value, true
	}
	want := models.NormalizeSubject(subject)
	for _, entry := range student.PerClassPrices {
		if models.NormalizeSubject(entry.Subject) == want && entry.Amount.Positive() {
			return entry.Amount.Value, true
		}
	}
	return decimal.Zero, false
}

// StaticTableSource is the built-in price list.
type StaticTableSource struct {
	prices map[string]decimal.Decimal
}

// NewStaticTableSource normalizes the table keys. An empty table falls back to
// DefaultStaticTariffs.
func NewStaticTableSource(prices map[string]decimal.Decimal) StaticTableSource {
	if len(prices) == 0 {
		prices = DefaultStaticTariffs
	}
	normalized := make(map[string]decimal.Decimal, len(prices))
	for subject, price := range prices {
		normalized[models.NormalizeSubject(subject)] = price
	}
	return StaticTableSource{prices: normalized}
}

func (StaticTableSource) Name() string { return "staticTable" }

func (s StaticTableSource) Lookup(_ *models.Student, subject string) (decimal.Decimal, bool) {
	price, ok := s.prices[models.NormalizeSubject(subject)]
	if !ok || !price.IsPositive() {
		return decimal.Zero, false
	}
	return price, true
}

// SubjectPrice is one row of the static catalog.
type SubjectPrice struct {
	Subject string          `json:"subject"`
	Amount  decimal.Decimal `json:"amount"`
}

// Catalog lists the table sorted by subject.
func (s StaticTableSource) Catalog() []SubjectPrice {
	catalog := make([]SubjectPrice, 0, len(s.prices))
	for subject, price := range s.prices {
		catalog = append(catalog, SubjectPrice{Subject: subject, Amount: price})
	}
	sort.Slice(catalog, func(i, j int) bool { return catalog[i].Subject < catalog[j].Subject })
	return catalog
}

// TariffResolver walks its sources in order and returns the first hit. The order is a
// pricing rule: records carrying several shapes are charged from the earliest source.
type TariffResolver struct {
	sources       []TariffSource
	static        StaticTableSource
	defaultAmount decimal.Decimal
}

// ResolverOption customizes a TariffResolver.
type ResolverOption func(*TariffResolver)

// WithStaticTariffs replaces the built-in price list.
func WithStaticTariffs(prices map[string]decimal.Decimal) ResolverOption {
	return func(r *TariffResolver) {
		r.static = NewStaticTableSource(prices)
	}
}

// WithDefaultAmount replaces the last-resort amount. Negative values are ignored.
func WithDefaultAmount(amount decimal.Decimal) ResolverOption {
	return func(r *TariffResolver) {
		if !amount.IsNegative() {
			r.defaultAmount = amount
		}
	}
}

// NewTariffResolver builds the standard chain:
// subjectPayments > perClassPrices > paymentSubjects > static table > default.
func NewTariffResolver(opts ...ResolverOption) *TariffResolver {
	r := &TariffResolver{
		static:        NewStaticTableSource(nil),
		defaultAmount: DefaultAmount,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.sources = []TariffSource{
		SubjectPaymentsSource(),
		PerClassPricesSource{},
		PaymentSubjectsSource(),
		r.static,
	}
	return r
}

// Sources returns the chain in resolution order.
func (r *TariffResolver) Sources() []TariffSource {
	return append([]TariffSource(nil), r.sources...)
}

// Catalog returns the static price list in use.
func (r *TariffResolver) Catalog() []SubjectPrice {
	return r.static.Catalog()
}

// ResolveExpectedAmount returns what the student owes for subject in one billing period.
// It never fails and never returns a negative amount.
func (r *TariffResolver) ResolveExpectedAmount(student *models.Student, subject string) decimal.Decimal {
	amount, _ := r.Resolve(student, subject)
	return amount
}

// Resolve is ResolveExpectedAmount plus the name of the source that answered ("default"
// when none did).
func (r *TariffResolver) Resolve(student *models.Student, subject string) (decimal.Decimal, string) {
	for _, source := range r.sources {
		if amount, ok := source.Lookup(student, subject); ok {
			return amount, source.Name()
		}
	}
	return r.defaultAmount, "default"
}
