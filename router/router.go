// Package router wires the HTTP surface: middleware, public routes and the
// authenticated /v1 API group.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/izzico/izzico-backend/config"
	"github.com/izzico/izzico-backend/handlers"
	"github.com/izzico/izzico-backend/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Dependencies struct holds all dependencies required for setting up routes.
type Dependencies struct {
	Config            *config.Config
	ExpenseHandler    *handlers.ExpenseHandler
	SettlementHandler *handlers.SettlementHandler
	BankInfoHandler   *handlers.BankInfoHandler
	AuthHandler       *handlers.AuthHandler
	HealthHandler     *handlers.HealthHandler
	Logger            *zap.SugaredLogger
}

// SetupRouter configures and returns the main Gin engine with all routes defined.
func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.Default()

	// Global middleware
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(&deps.Config.Server))

	// Health and metrics routes don't require auth.
	r.GET("/health", deps.HealthHandler.HealthCheckHandler)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1")
	{
		// Token refresh takes the refresh token in the body, not a Bearer token.
		v1.POST("/auth/refresh", deps.AuthHandler.RefreshTokenHandler)

		authRoutes := v1.Group("")
		authRoutes.Use(middleware.AuthMiddleware(&deps.Config.Supabase))
		{
			propertyRoutes := authRoutes.Group("/properties/:id")
			{
				propertyRoutes.POST("/expenses", deps.ExpenseHandler.CreateExpenseHandler)
				propertyRoutes.GET("/expenses", deps.ExpenseHandler.ListExpensesHandler)
				propertyRoutes.GET("/expenses/export", deps.ExpenseHandler.ExportExpensesHandler)
				propertyRoutes.GET("/balances", deps.ExpenseHandler.GetBalancesHandler)
				propertyRoutes.POST("/settlements", deps.SettlementHandler.ReportPaymentHandler)
			}

			authRoutes.GET("/expenses/:expenseId", deps.ExpenseHandler.GetExpenseHandler)
			authRoutes.POST("/expenses/:expenseId/splits/:userId/paid", deps.ExpenseHandler.MarkSplitPaidHandler)

			authRoutes.GET("/users/:id/payment-info", deps.SettlementHandler.GetPayeeInfoHandler)
			authRoutes.POST("/users/:id/payment-info/prepare", deps.SettlementHandler.PreparePaymentHandler)

			meRoutes := authRoutes.Group("/me")
			{
				meRoutes.GET("/bank-info", deps.BankInfoHandler.GetBankInfoHandler)
				meRoutes.PUT("/bank-info", deps.BankInfoHandler.UpdateBankInfoHandler)
				meRoutes.POST("/bank-info/verify", deps.BankInfoHandler.VerifyBankInfoHandler)
				meRoutes.GET("/bank-info/modification-allowed", deps.BankInfoHandler.ModificationAllowedHandler)
			}
		}
	}

	return r
}
