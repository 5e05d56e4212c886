package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TheDarkness2001/SMS-sub001/internal/app/models"
	"github.com/TheDarkness2001/SMS-sub001/internal/app/models/dto"
	"github.com/TheDarkness2001/SMS-sub001/internal/app/services"
	"github.com/TheDarkness2001/SMS-sub001/internal/middleware"
	"github.com/TheDarkness2001/SMS-sub001/internal/pkg/apperrors"
)

// PaymentController handles ledger endpoints
type PaymentController struct {
	paymentService services.PaymentService
}

// NewPaymentController creates a new PaymentController
func NewPaymentController(paymentService services.PaymentService) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
	}
}

func invalidDueDate() error {
	return apperrors.NewValidationError("dueDate", nil, "dueDate must be formatted as "+dto.DateLayout)
}

// CreatePayment records a payment for a period
// @Summary Record a payment
// @Description Records what a student has paid for a subject in a billing period. A second call for the same student, subject, month and year replaces the amount; status is always computed by the server.
// @Tags payments
// @Accept json
// @Produce json
// @Param X-Branch-ID header string true "Branch ID"
// @Param request body dto.CreatePaymentRequest true "Payment"
// @Success 201 {object} dto.APIResponse{data=dto.UpsertPaymentResponse} "Payment created"
// @Success 200 {object} dto.APIResponse{data=dto.UpsertPaymentResponse} "Payment updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /payments [post]
func (c *PaymentController) CreatePayment(ctx *gin.Context) {
	var req dto.CreatePaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	dueDate, err := dto.ParseDate(req.DueDate)
	if err != nil {
		middleware.HandleAPIError(ctx, invalidDueDate())
		return
	}

	result, err := c.paymentService.Upsert(ctx.Request.Context(), middleware.BranchID(ctx), services.UpsertPaymentInput{
		StudentID:     req.StudentID,
		Subject:       req.Subject,
		Month:         req.Month,
		Year:          req.Year,
		Amount:        *req.Amount,
		PaymentMethod: models.PaymentMethod(req.PaymentMethod),
		Notes:         req.Notes,
		DueDate:       dueDate,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	ctx.JSON(status, dto.NewSuccessResponse(toUpsertResponse(result)))
}

// UpdatePayment replaces the amount of an existing row
// @Summary Update a payment
// @Description Replaces the amount, method and notes of a ledger row. Student, subject and period of the stored row are kept.
// @Tags payments
// @Accept json
// @Produce json
// @Param X-Branch-ID header string true "Branch ID"
// @Param id path string true "Payment ID"
// @Param request body dto.UpdatePaymentRequest true "New values"
// @Success 200 {object} dto.APIResponse{data=dto.UpsertPaymentResponse} "Payment updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Payment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /payments/{id} [put]
func (c *PaymentController) UpdatePayment(ctx *gin.Context) {
	var req dto.UpdatePaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	dueDate, err := dto.ParseDate(req.DueDate)
	if err != nil {
		middleware.HandleAPIError(ctx, invalidDueDate())
		return
	}

	result, err := c.paymentService.UpdateByID(ctx.Request.Context(), middleware.BranchID(ctx), ctx.Param("id"), services.UpsertPaymentInput{
		Amount:        *req.Amount,
		PaymentMethod: models.PaymentMethod(req.PaymentMethod),
		Notes:         req.Notes,
		DueDate:       dueDate,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(toUpsertResponse(result)))
}

// GetPayments looks up ledger rows of a student
// @Summary Find payments
// @Description Returns the single row of a period when subject, month and year are all given, otherwise every row of the student.
// @Tags payments
// @Produce json
// @Param X-Branch-ID header string true "Branch ID"
// @Param studentId query string true "Student ID"
// @Param subject query string false "Subject"
// @Param month query int false "Month (1-12)"
// @Param year query int false "Year"
// @Success 200 {object} dto.APIResponse{data=[]dto.PaymentResponse} "Payments"
// @Failure 400 {object} dto.ErrorResponse "Invalid query"
// @Failure 404 {object} dto.ErrorResponse "No payment for the period"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /payments [get]
func (c *PaymentController) GetPayments(ctx *gin.Context) {
	var query dto.PaymentQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	branchID := middleware.BranchID(ctx)
	if query.HasFullKey() {
		payment, err := c.paymentService.FindByKey(ctx.Request.Context(), branchID, query.Key())
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FromPayment(payment)))
		return
	}

	payments, err := c.paymentService.ListByStudent(ctx.Request.Context(), branchID, query.StudentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FromPayments(payments)))
}

// GetPaymentByID retrieves a ledger row
// @Summary Get a payment
// @Tags payments
// @Produce json
// @Param X-Branch-ID header string true "Branch ID"
// @Param id path string true "Payment ID"
// @Success 200 {object} dto.APIResponse{data=dto.PaymentResponse} "Payment"
// @Failure 404 {object} dto.ErrorResponse "Payment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /payments/{id} [get]
func (c *PaymentController) GetPaymentByID(ctx *gin.Context) {
	payment, err := c.paymentService.GetByID(ctx.Request.Context(), middleware.BranchID(ctx), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FromPayment(payment)))
}

// DeletePayment removes a ledger row
// @Summary Delete a payment
// @Description Administrative correction. The row is removed permanently.
// @Tags payments
// @Produce json
// @Param X-Branch-ID header string true "Branch ID"
// @Param id path string true "Payment ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Payment deleted"
// @Failure 404 {object} dto.ErrorResponse "Payment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /payments/{id} [delete]
func (c *PaymentController) DeletePayment(ctx *gin.Context) {
	if err := c.paymentService.Delete(ctx.Request.Context(), middleware.BranchID(ctx), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Payment deleted"}))
}

func toUpsertResponse(result *services.UpsertResult) dto.UpsertPaymentResponse {
	return dto.UpsertPaymentResponse{
		Payment:  dto.FromPayment(result.Transaction),
		Created:  result.Created,
		Warnings: result.Warnings,
	}
}
