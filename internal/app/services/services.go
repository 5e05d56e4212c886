// Package services holds the application's use cases. Services defined in this package:
// - PaymentService: records payments against the ledger, one row per student, subject and period
// - BillingService: resolves tariffs and reports the payment status of a period
// - RevenueService: aggregates the ledger into revenue figures, optionally cached
// - StudentService: reads student records
// - BranchService: lists and creates branches
package services
