package routes

import (
	"net/http"

	"github.com/LocalStoryMap/Oz-Backand/internal/handlers"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the HTTP API under /api/v1. Routes needing a
// logged-in user take the auth middleware built in app.Build.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	authMW gin.HandlerFunc,
) {
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := ginRouter.Group("/api/v1")
	{
		appHandlers.AuthHandler.RegisterRoutes(api)
		appHandlers.SubscriptionHandler.RegisterRoutes(api, authMW)
		appHandlers.PaymentHistoryHandler.RegisterRoutes(api, authMW)
	}
}
