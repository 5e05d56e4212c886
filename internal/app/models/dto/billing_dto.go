package dto

// BillingQuery is the query string of GET /students/{id}/billing
type BillingQuery struct {
	Subject string `form:"subject" binding:"required" example:"Mathematics"`
	Month   int    `form:"month" binding:"required,min=1,max=12" example:"3"`
	Year    int    `form:"year" binding:"required,min=1900,max=9999" example:"2025"`
}

// ExpectedAmountQuery is the query string of GET /students/{id}/tariff
type ExpectedAmountQuery struct {
	Subject string `form:"subject" binding:"required" example:"Physics"`
}

// CreateBranchRequest creates a branch
type CreateBranchRequest struct {
	ID      string `json:"id" binding:"required,max=64" example:"downtown"`
	Name    string `json:"name" binding:"required,max=200" example:"Downtown"`
	Address string `json:"address" binding:"max=500"`
}
