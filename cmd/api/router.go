package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	agentmodel "furnishop-backend/internal/domains/agent/model"
	"furnishop-backend/internal/shared/middleware"
	"furnishop-backend/pkg/container"
)

// =====================================================
// ROUTER SETUP
// =====================================================

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS())

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c)
		setupSupportRoutes(v1, c)
		setupRefundRoutes(v1, c)
	}

	return router
}

func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.AgentHandler.Register)
		auth.POST("/login", c.AgentHandler.Login)
		auth.GET("/me", middleware.AuthMiddleware(c.JWTManager), c.AgentHandler.Me)
	}
}

func setupSupportRoutes(v1 *gin.RouterGroup, c *container.Container) {
	cases := v1.Group("/support-cases")
	cases.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		cases.POST("", c.SupportHandler.CreateCase)
		cases.GET("", c.SupportHandler.ListMyCases)
		cases.GET("/:case_id", c.SupportHandler.GetCase)
		cases.POST("/:case_id/close", c.SupportHandler.CloseCase)
		cases.POST("/:case_id/reopen", c.SupportHandler.ReopenCase)
	}
}

func setupRefundRoutes(v1 *gin.RouterGroup, c *container.Container) {
	refunds := v1.Group("/refund-cases")
	refunds.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		refunds.POST("", c.RefundHandler.SubmitRefund)
		refunds.POST("/evidence", c.EvidenceHandler.UploadEvidence)
		refunds.GET("/:case_id", c.RefundHandler.GetRefundCase)
		refunds.POST("/:case_id/cancel", c.RefundHandler.CancelRefund)

		// Decisions and execution are staff-only operations
		staff := refunds.Group("")
		staff.Use(middleware.RequireRole(agentmodel.RoleAgent, agentmodel.RoleSupervisor))
		{
			staff.GET("", c.RefundHandler.ListRefundCases)
			staff.POST("/:case_id/decision", c.RefundHandler.DecideRefund)
			staff.POST("/:case_id/retry", c.RefundHandler.RetryRefund)
			staff.POST("/:case_id/execute", c.RefundHandler.ExecuteRefund)
		}
	}
}

// =====================================================
// HEALTH CHECK
// =====================================================

func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		status := "healthy"
		services := gin.H{}

		dbCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()

		if err := c.DB.HealthCheck(dbCtx); err != nil {
			status = "degraded"
			services["database"] = "unhealthy: " + err.Error()
		} else {
			services["database"] = "healthy"
		}

		if err := c.Cache.Ping(dbCtx); err != nil {
			status = "degraded"
			services["cache"] = "unhealthy: " + err.Error()
		} else {
			services["cache"] = "healthy"
		}

		code := http.StatusOK
		if status != "healthy" {
			code = http.StatusServiceUnavailable
		}

		ctx.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().UTC(),
			"version":   c.Config.App.Version,
			"services":  services,
		})
	}
}
