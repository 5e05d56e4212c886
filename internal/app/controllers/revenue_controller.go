package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TheDarkness2001/SMS-sub001/internal/app/models"
	"github.com/TheDarkness2001/SMS-sub001/internal/app/models/dto"
	"github.com/TheDarkness2001/SMS-sub001/internal/app/services"
	"github.com/TheDarkness2001/SMS-sub001/internal/middleware"
)

// RevenueController handles revenue reporting
type RevenueController struct {
	revenueService services.RevenueService
}

// NewRevenueController creates a new RevenueController
func NewRevenueController(revenueService services.RevenueService) *RevenueController {
	return &RevenueController{
		revenueService: revenueService,
	}
}

// GetRevenue summarizes the branch's ledger
// @Summary Revenue summary
// @Description Aggregates the branch's payments. Dates select billing periods whose first day lies in the range, inclusive.
// @Tags revenue
// @Produce json
// @Param X-Branch-ID header string true "Branch ID"
// @Param startDate query string false "First billing period (YYYY-MM-DD)"
// @Param endDate query string false "Last billing period (YYYY-MM-DD)"
// @Param subject query string false "Subject"
// @Param paymentMethod query string false "Payment method" Enums(cash, card, bank, online)
// @Success 200 {object} dto.APIResponse{data=models.RevenueSummary} "Summary"
// @Failure 400 {object} dto.ErrorResponse "Invalid query"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /revenue [get]
func (c *RevenueController) GetRevenue(ctx *gin.Context) {
	var query dto.RevenueQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	// already checked by the datetime binding
	startDate, _ := dto.ParseDate(query.StartDate)
	endDate, _ := dto.ParseDate(query.EndDate)

	summary, err := c.revenueService.Summarize(ctx.Request.Context(), models.RevenueFilter{
		BranchID:      middleware.BranchID(ctx),
		StartDate:     startDate,
		EndDate:       endDate,
		Subject:       query.Subject,
		PaymentMethod: models.PaymentMethod(query.PaymentMethod),
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(summary))
}
