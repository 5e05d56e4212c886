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

// CatalogController serves the unscoped reference data: branches and the subject price list
type CatalogController struct {
	branchService  services.BranchService
	billingService services.BillingService
}

// NewCatalogController creates a new CatalogController
func NewCatalogController(branchService services.BranchService, billingService services.BillingService) *CatalogController {
	return &CatalogController{
		branchService:  branchService,
		billingService: billingService,
	}
}

// ListBranches lists the school's branches
// @Summary List branches
// @Tags branches
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Branch} "Branches"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /branches [get]
func (c *CatalogController) ListBranches(ctx *gin.Context) {
	branches, err := c.branchService.ListBranches(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(branches))
}

// CreateBranch adds a branch
// @Summary Create a branch
// @Tags branches
// @Accept json
// @Produce json
// @Param request body dto.CreateBranchRequest true "Branch"
// @Success 201 {object} dto.APIResponse{data=models.Branch} "Branch created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Branch already exists"
// @Router /branches [post]
func (c *CatalogController) CreateBranch(ctx *gin.Context) {
	var req dto.CreateBranchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	branch := &models.Branch{ID: req.ID, Name: req.Name, Address: req.Address}
	created, err := c.branchService.EnsureBranch(ctx.Request.Context(), branch)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if !created {
		middleware.HandleAPIError(ctx, apperrors.NewAlreadyExistsError("branch "+req.ID+" already exists"))
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(branch))
}

// ListSubjects lists the built-in subject price list
// @Summary Subject catalog
// @Description The static tariff table used when a student record carries no price for a subject.
// @Tags subjects
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]billing.SubjectPrice} "Subjects"
// @Router /subjects [get]
func (c *CatalogController) ListSubjects(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(c.billingService.SubjectCatalog()))
}
