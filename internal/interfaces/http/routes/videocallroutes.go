package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/videocc/videocc/internal/interfaces/http/handlers"
	"github.com/videocc/videocc/internal/interfaces/http/middleware"
)

type VideoCallRouteConfig struct {
	VideoCallHandler *handlers.VideoCallHandler
	AuthMiddleware   *middleware.AuthMiddleware
}

func SetupVideoCallRoutes(api *gin.RouterGroup, config *VideoCallRouteConfig) {
	calls := api.Group("/video-calls")
	calls.Use(config.AuthMiddleware.RequireAuth())
	{
		calls.POST("", config.VideoCallHandler.StartCall)

		// Named paths before /:id
		calls.GET("/billing", config.VideoCallHandler.BillingHistory)

		calls.POST("/:id/end", config.VideoCallHandler.EndCall)
		calls.POST("/:id/pay", config.VideoCallHandler.PayForCall)
	}

	api.GET("/daily-limits",
		config.AuthMiddleware.RequireAuth(),
		config.VideoCallHandler.DailyLimits)
}
