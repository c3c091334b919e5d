package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/videocc/videocc/internal/interfaces/http/handlers"
	"github.com/videocc/videocc/internal/interfaces/http/middleware"
)

type PurchaseRouteConfig struct {
	PurchaseHandler *handlers.PurchaseHandler
	ReserveHandler  *handlers.ReserveHandler
	AuthMiddleware  *middleware.AuthMiddleware
	// RateLimiter is nil when rate limiting is disabled.
	RateLimiter *middleware.RateLimiter
}

func SetupPurchaseRoutes(api *gin.RouterGroup, config *PurchaseRouteConfig) {
	purchases := api.Group("/purchases")
	purchases.Use(config.AuthMiddleware.RequireAuth())
	if config.RateLimiter != nil {
		purchases.Use(config.RateLimiter.Limit())
	}
	{
		purchases.POST("/vip-crypto", config.PurchaseHandler.PurchaseVIP)
		purchases.POST("/coins-crypto", config.PurchaseHandler.PurchaseCoins)
		purchases.POST("/bundle-crypto", config.PurchaseHandler.PurchaseBundle)
	}

	// Public
	api.GET("/vcc-tokens-balance", config.ReserveHandler.GetBalance)
}
