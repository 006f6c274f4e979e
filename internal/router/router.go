package router

import (
	"github.com/gin-gonic/gin"

	"finsight/internal/handler"
	"finsight/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	healthH *handler.HealthHandler,
	reportH *handler.ReportHandler,
	chatH *handler.ChatHandler,
	queryH *handler.QueryHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Reports
	reports := v1.Group("/reports")
	reports.GET("", reportH.List)
	reports.GET("/:id", reportH.GetByID)
	reports.GET("/:id/graph", reportH.GetGraph)
	reports.GET("/:id/export", reportH.Export)

	// Conversations and agent chat
	conversations := v1.Group("/conversations")
	conversations.POST("", chatH.CreateConversation)
	conversations.GET("", chatH.ListConversations)
	conversations.GET("/:id", chatH.GetConversation)
	conversations.GET("/:id/messages", chatH.ListMessages)
	conversations.POST("/:id/ask", chatH.Ask)

	// Direct query tools
	v1.GET("/schema", queryH.GetSchema)
	v1.POST("/query", queryH.Execute)
	v1.GET("/accounts/search", queryH.SearchAccounts)

	return r
}
