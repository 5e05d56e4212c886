package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TheDarkness2001/SMS-sub001/internal/app/models/dto"
	"github.com/TheDarkness2001/SMS-sub001/internal/app/services"
	"github.com/TheDarkness2001/SMS-sub001/internal/middleware"
)

// StudentController serves student records and their billing state
type StudentController struct {
	studentService services.StudentService
	billingService services.BillingService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService, billingService services.BillingService) *StudentController {
	return &StudentController{
		studentService: studentService,
		billingService: billingService,
	}
}

// GetStudent retrieves a student
// @Summary Get a student
// @Tags students
// @Produce json
// @Param X-Branch-ID header string true "Branch ID"
// @Param id path string true "Student ID"
// @Success 200 {object} dto.APIResponse{data=models.Student} "Student"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id} [get]
func (c *StudentController) GetStudent(ctx *gin.Context) {
	student, err := c.studentService.GetStudent(ctx.Request.Context(), middleware.BranchID(ctx), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(student))
}

// GetTariff resolves what the student owes for a subject per period
// @Summary Expected amount
// @Tags students
// @Produce json
// @Param X-Branch-ID header string true "Branch ID"
// @Param id path string true "Student ID"
// @Param subject query string true "Subject"
// @Success 200 {object} dto.APIResponse{data=services.ExpectedAmount} "Tariff"
// @Failure 400 {object} dto.ErrorResponse "Invalid query"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id}/tariff [get]
func (c *StudentController) GetTariff(ctx *gin.Context) {
	var query dto.ExpectedAmountQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	expected, err := c.billingService.GetExpectedAmount(ctx.Request.Context(), middleware.BranchID(ctx), ctx.Param("id"), query.Subject)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(expected))
}

// GetBilling reports the payment status of one period
// @Summary Billing status
// @Description Expected amount, amount paid so far, balance and status of a student's subject in a period.
// @Tags students
// @Produce json
// @Param X-Branch-ID header string true "Branch ID"
// @Param id path string true "Student ID"
// @Param subject query string true "Subject"
// @Param month query int true "Month (1-12)"
// @Param year query int true "Year"
// @Success 200 {object} dto.APIResponse{data=services.BillingStatus} "Billing status"
// @Failure 400 {object} dto.ErrorResponse "Invalid query"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id}/billing [get]
func (c *StudentController) GetBilling(ctx *gin.Context) {
	var query dto.BillingQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	status, err := c.billingService.GetPaymentStatus(ctx.Request.Context(), middleware.BranchID(ctx),
		ctx.Param("id"), query.Subject, query.Month, query.Year)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(status))
}
