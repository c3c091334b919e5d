package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/videocc/videocc/internal/infrastructure/permission"
	adminHandlers "github.com/videocc/videocc/internal/interfaces/http/handlers/admin"
	"github.com/videocc/videocc/internal/interfaces/http/middleware"
)

type AdminRouteConfig struct {
	ReserveHandler       *adminHandlers.ReserveHandler
	FraudHandler         *adminHandlers.FraudHandler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
}

func SetupAdminRoutes(api *gin.RouterGroup, config *AdminRouteConfig) {
	admin := api.Group("/admin")
	admin.Use(config.AuthMiddleware.RequireAuth())
	{
		admin.POST("/vcc-balance",
			config.PermissionMiddleware.RequirePermission(permission.ObjectReserve, permission.ActionAdjust),
			config.ReserveHandler.AdjustBalance)
		admin.GET("/fraud-analytics",
			config.PermissionMiddleware.RequirePermission(permission.ObjectFraudAnalytics, permission.ActionRead),
			config.FraudHandler.Analytics)
	}
}
