package dto

// RevenueQuery is the query string of GET /revenue. Dates select billing periods whose
// first day falls in the range, inclusive.
type RevenueQuery struct {
	StartDate     string `form:"startDate" binding:"omitempty,datetime=2006-01-02" example:"2025-01-01"`
	EndDate       string `form:"endDate" binding:"omitempty,datetime=2006-01-02" example:"2025-12-31"`
	Subject       string `form:"subject" example:"Mathematics"`
	PaymentMethod string `form:"paymentMethod" binding:"omitempty,oneof=cash card bank online" example:"cash"`
}
