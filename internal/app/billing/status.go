package billing

import (
	"github.com/shopspring/decimal"

	"github.com/TheDarkness2001/SMS-sub001/internal/app/models"
)

// Classify derives the status of a period from what is owed and what has been paid.
// Nothing paid is pending; anything paid against a zero or negative tariff is paid.
func Classify(expected, paidSoFar decimal.Decimal) models.PaymentStatus {
	if !paidSoFar.IsPositive() {
		return models.StatusPending
	}
	if !expected.IsPositive() {
		return models.StatusPaid
	}
	if paidSoFar.LessThan(expected) {
		return models.StatusPartial
	}
	return models.StatusPaid
}

// Balance is what is still owed, never below zero.
func Balance(expected, paidSoFar decimal.Decimal) decimal.Decimal {
	remaining := expected.Sub(paidSoFar)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}
