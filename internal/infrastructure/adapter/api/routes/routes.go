package routes

import (
	"github.com/gin-gonic/gin"

	coreport "github.com/anchorpay/settlement-processor/internal/domain/port/core"
	"github.com/anchorpay/settlement-processor/internal/infrastructure/adapter/api/handler"
	"github.com/anchorpay/settlement-processor/internal/infrastructure/adapter/api/middleware"
)

// SetupRoutes configures all the routes for the API
func SetupRoutes(
	router *gin.Engine,
	transactionHandler *handler.TransactionHandler,
	dlqHandler *handler.DlqHandler,
	auditHandler *handler.AuditHandler,
	healthHandler *handler.HealthHandler,
) {
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// Transaction routes
	transactionRoutes := router.Group("/transactions")
	{
		transactionRoutes.POST("", transactionHandler.CreateTransaction)
		transactionRoutes.GET("", transactionHandler.ListTransactions)
		transactionRoutes.GET("/:id", transactionHandler.GetTransaction)
		transactionRoutes.POST("/:id/process", transactionHandler.ProcessTransaction)
		transactionRoutes.POST("/:id/settlement", transactionHandler.AssignSettlement)
	}

	// Dead letter queue routes
	dlqRoutes := router.Group("/dlq")
	{
		dlqRoutes.GET("", dlqHandler.ListDlq)
		dlqRoutes.POST("/:id/requeue", dlqHandler.RequeueDlq)
	}

	// Audit trail routes
	router.GET("/audit/:entityId", auditHandler.GetAuditLogs)
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger) {
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS())
}
