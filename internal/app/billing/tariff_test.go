package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheDarkness2001/SMS-sub001/internal/app/models"
)

func amt(v int64) models.LegacyAmount {
	return models.NewLegacyAmount(decimal.NewFromInt(v))
}

func tariffs(pairs ...interface{}) []models.SubjectTariff {
	list := make([]models.SubjectTariff, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		list = append(list, models.SubjectTariff{
			Subject: pairs[i].(string),
			Amount:  pairs[i+1].(models.LegacyAmount),
		})
	}
	return list
}

func TestTariffResolver_Resolve(t *testing.T) {
	resolver := NewTariffResolver()

	tests := []struct {
		name       string
		student    *models.Student
		subject    string
		wantAmount int64
		wantSource string
	}{
		{
			name: "subjectPayments wins over every other shape",
			student: &models.Student{
				ID:              "s1",
				SubjectPayments: tariffs("Mathematics", amt(200)),
				PerClassPrices:  models.PriceMap{{Subject: "Mathematics", Amount: amt(180)}},
				PaymentSubjects: tariffs("Mathematics", amt(170)),
			},
			subject:    "Mathematics",
			wantAmount: 200,
			wantSource: "subjectPayments",
		},
		{
			name: "perClassPrices before paymentSubjects",
			student: &models.Student{
				ID:              "s2",
				PaymentSubjects: tariffs("Mathematics", amt(170)),
				PerClassPrices:  models.PriceMap{{Subject: "Mathematics", Amount: amt(180)}},
			},
			subject:    "Mathematics",
			wantAmount: 180,
			wantSource: "perClassPrices",
		},
		{
			name:       "paymentSubjects alone",
			student:    &models.Student{ID: "s3", PaymentSubjects: tariffs("english", amt(90))},
			subject:    "English",
			wantAmount: 90,
			wantSource: "paymentSubjects",
		},
		{
			name:       "subject matching ignores case and spaces",
			student:    &models.Student{ID: "s4", SubjectPayments: tariffs("  MATHEMATICS ", amt(210))},
			subject:    "mathematics",
			wantAmount: 210,
			wantSource: "subjectPayments",
		},
		{
			name: "zero amount falls through to the next source",
			student: &models.Student{
				ID:              "s5",
				SubjectPayments: tariffs("Physics", amt(0)),
				PerClassPrices:  models.PriceMap{{Subject: "Physics", Amount: amt(135)}},
			},
			subject:    "Physics",
			wantAmount: 135,
			wantSource: "perClassPrices",
		},
		{
			name: "garbage amount falls through to the static table",
			student: &models.Student{
				ID:              "s6",
				SubjectPayments: tariffs("Mathematics", models.LegacyAmount{}, "Mathematics", amt(300)),
			},
			subject:    "Mathematics",
			wantAmount: 150,
			wantSource: "staticTable",
		},
		{
			name: "perClassPrices exact key before normalized scan",
			student: &models.Student{
				ID: "s7",
				PerClassPrices: models.PriceMap{
					{Subject: "physics ", Amount: amt(99)},
					{Subject: "Physics", Amount: amt(135)},
				},
			},
			subject:    "Physics",
			wantAmount: 135,
			wantSource: "perClassPrices",
		},
		{
			name: "perClassPrices normalized scan keeps document order",
			student: &models.Student{
				ID: "s8",
				PerClassPrices: models.PriceMap{
					{Subject: "physics ", Amount: amt(99)},
					{Subject: "Physics", Amount: amt(135)},
				},
			},
			subject:    "PHYSICS",
			wantAmount: 99,
			wantSource: "perClassPrices",
		},
		{
			name: "perClassPrices skips a non positive exact key",
			student: &models.Student{
				ID: "s9",
				PerClassPrices: models.PriceMap{
					{Subject: "Physics", Amount: amt(0)},
					{Subject: "physics", Amount: amt(120)},
				},
			},
			subject:    "Physics",
			wantAmount: 120,
			wantSource: "perClassPrices",
		},
		{
			name:       "static table",
			student:    &models.Student{ID: "s10"},
			subject:    "Biology",
			wantAmount: 130,
			wantSource: "staticTable",
		},
		{
			name:       "unknown subject gets the default",
			student:    &models.Student{ID: "s11"},
			subject:    "Pottery",
			wantAmount: 100,
			wantSource: "default",
		},
		{
			name:       "nil student still reads the static table",
			subject:    "computer science",
			wantAmount: 160,
			wantSource: "staticTable",
		},
		{
			name:       "nil student and unknown subject",
			subject:    "Pottery",
			wantAmount: 100,
			wantSource: "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, source := resolver.Resolve(tt.student, tt.subject)
			assert.Equal(t, decimal.NewFromInt(tt.wantAmount).String(), amount.String())
			assert.Equal(t, tt.wantSource, source)
			assert.True(t, amount.Equal(resolver.ResolveExpectedAmount(tt.student, tt.subject)))
		})
	}
}

func TestTariffResolver_Options(t *testing.T) {
	resolver := NewTariffResolver(
		WithStaticTariffs(map[string]decimal.Decimal{" Robotics ": decimal.NewFromInt(175)}),
		WithDefaultAmount(decimal.NewFromInt(80)),
	)

	amount, source := resolver.Resolve(nil, "robotics")
	assert.Equal(t, "175", amount.String())
	assert.Equal(t, "staticTable", source)

	amount, source = resolver.Resolve(nil, "Mathematics")
	assert.Equal(t, "80", amount.String())
	assert.Equal(t, "default", source)

	ignored := NewTariffResolver(WithDefaultAmount(decimal.NewFromInt(-5)))
	assert.Equal(t, "100", ignored.ResolveExpectedAmount(nil, "Pottery").String())
}

func TestTariffResolver_SourcesAndCatalog(t *testing.T) {
	resolver := NewTariffResolver()

	var names []string
	for _, source := range resolver.Sources() {
		names = append(names, source.Name())
	}
	assert.Equal(t, []string{"subjectPayments", "perClassPrices", "paymentSubjects", "staticTable"}, names)

	catalog := resolver.Catalog()
	require.Len(t, catalog, len(DefaultStaticTariffs))
	for i := 1; i < len(catalog); i++ {
		assert.Less(t, catalog[i-1].Subject, catalog[i].Subject)
	}
	assert.Equal(t, "arabic", catalog[0].Subject)
}
