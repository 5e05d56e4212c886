package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/TheDarkness2001/SMS-sub001/internal/app/controllers"
	"github.com/TheDarkness2001/SMS-sub001/internal/app/repositories"
	"github.com/TheDarkness2001/SMS-sub001/internal/middleware"
)

// Controllers groups the handlers mounted by SetupRouter
type Controllers struct {
	Payment *controllers.PaymentController
	Revenue *controllers.RevenueController
	Student *controllers.StudentController
	Catalog *controllers.CatalogController
	Health  *controllers.HealthController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, ctrl Controllers, branches repositories.BranchStore) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Unscoped routes ---
	v1.GET("/health", ctrl.Health.Health)

	branchRoutes := v1.Group("/branches")
	{
		branchRoutes.GET("", ctrl.Catalog.ListBranches)
		branchRoutes.POST("", ctrl.Catalog.CreateBranch)
	}
	v1.GET("/subjects", ctrl.Catalog.ListSubjects)

	// --- Branch scoped routes ---
	scoped := v1.Group("")
	scoped.Use(middleware.BranchScope(branches))

	students := scoped.Group("/students")
	{
		students.GET("/:id", ctrl.Student.GetStudent)
		students.GET("/:id/tariff", ctrl.Student.GetTariff)
		students.GET("/:id/billing", ctrl.Student.GetBilling)
	}

	payments := scoped.Group("/payments")
	{
		payments.GET("", ctrl.Payment.GetPayments)
		payments.POST("", ctrl.Payment.CreatePayment)
		payments.GET("/:id", ctrl.Payment.GetPaymentByID)
		payments.PUT("/:id", ctrl.Payment.UpdatePayment)
		payments.DELETE("/:id", ctrl.Payment.DeletePayment)
	}

	scoped.GET("/revenue", ctrl.Revenue.GetRevenue)
}
