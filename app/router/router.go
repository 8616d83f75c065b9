package router

import (
	"fitops/app/handler"
	"fitops/app/middleware"
	"fitops/pkg/serviceclient"

	"github.com/gin-gonic/gin"
)

// Router Router
type Router struct {
	auditlogHandler  *handler.AuditLogHandler
	apilogHandler    *handler.APILogHandler
	healthHandler    *handler.HealthHandler
	reportHandler    *handler.ReportHandler
	analyticsHandler *handler.AnalyticsHandler
	settingsHandler  *handler.SettingsHandler
	authClient       *serviceclient.Client
}

// NewRouter creates a new Router
func NewRouter(auditlogHandler *handler.AuditLogHandler, apilogHandler *handler.APILogHandler, healthHandler *handler.HealthHandler, reportHandler *handler.ReportHandler, analyticsHandler *handler.AnalyticsHandler, settingsHandler *handler.SettingsHandler, authClient *serviceclient.Client) *Router {
	return &Router{
		auditlogHandler:  auditlogHandler,
		apilogHandler:    apilogHandler,
		healthHandler:    healthHandler,
		reportHandler:    reportHandler,
		analyticsHandler: analyticsHandler,
		settingsHandler:  settingsHandler,
		authClient:       authClient,
	}
}

// Setup sets up routes
func (r *Router) Setup(engine *gin.Engine) {
	engine.Use(middleware.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Logger())

	ops := engine.Group("/ops")
	ops.Use(middleware.Auth(r.authClient))
	{
		// Audit trail
		ops.POST("/audit-log", r.auditlogHandler.Create)
		ops.GET("/audit-logs/:user_id", r.auditlogHandler.ByUser)
		ops.GET("/audit-logs/service/:service", r.auditlogHandler.ByService)
		ops.GET("/audit-logs/action/:action", r.auditlogHandler.ByAction)

		// API call logs and aggregation
		ops.POST("/api-log", r.apilogHandler.Create)
		ops.GET("/api-performance", r.apilogHandler.Performance)
		ops.GET("/api-errors", r.apilogHandler.Errors)
		ops.GET("/api-stats/:service", r.apilogHandler.ServiceStats)

		// Fleet health
		ops.GET("/system-health", r.healthHandler.SystemHealth)
		ops.GET("/service-status/:service", r.healthHandler.ServiceStatus)
		ops.POST("/health-check", r.healthHandler.TriggerHealthCheck)
		ops.GET("/error-summary", r.healthHandler.ErrorSummary)
		ops.GET("/ml-health", r.healthHandler.MLHealth)

		// Reports
		ops.GET("/reports/:type", r.reportHandler.ListByType)
		ops.POST("/generate-report", r.reportHandler.Generate)
		ops.GET("/report/:report_id", r.reportHandler.Get)
		ops.DELETE("/reports/cleanup", r.reportHandler.Cleanup)

		// Cross-service analytics
		ops.GET("/ml-performance", r.analyticsHandler.MLPerformance)
		ops.GET("/business-metrics", r.analyticsHandler.BusinessMetrics)
		ops.GET("/system-performance-report", r.analyticsHandler.SystemPerformanceReport)
		ops.GET("/service-metrics/:service", r.analyticsHandler.ServiceMetrics)

		// System settings
		ops.GET("/settings", r.settingsHandler.List)
		ops.GET("/settings-public", r.settingsHandler.Public)
		ops.GET("/settings/category/:category", r.settingsHandler.ByCategory)
		ops.POST("/settings/backup", r.settingsHandler.Backup)
		ops.GET("/settings/:key", r.settingsHandler.Get)
		ops.PUT("/settings/:key", r.settingsHandler.Update)
	}

	// Liveness of this service itself, outside the authenticated group
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": "fitneaseops"})
	})
}
