package http

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/videocc/videocc/internal/infrastructure/config"
	"github.com/videocc/videocc/internal/interfaces/http/middleware"
	"github.com/videocc/videocc/internal/interfaces/http/routes"
	"github.com/videocc/videocc/internal/shared/biztime"
	"github.com/videocc/videocc/internal/shared/logger"
)

// Router represents the HTTP router configuration
type Router struct {
	*Container
}

// NewRouter creates a new HTTP router with all dependencies
func NewRouter(db *gorm.DB, cfg *config.Config, clock biztime.Clock, log logger.Interface) (*Router, error) {
	c, err := NewContainer(db, cfg, clock, log)
	if err != nil {
		return nil, err
	}
	return &Router{Container: c}, nil
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.CustomLogger(r.log))
	r.engine.Use(middleware.Recovery(r.log))
	r.engine.Use(middleware.ErrorHandler(r.log))
	r.engine.Use(middleware.CORS(r.cfg.Server.AllowedOrigins))
	r.engine.Use(middleware.SecurityHeaders())

	r.engine.GET("/health", r.hdlrs.healthHandler.HealthCheck)

	api := r.engine.Group("/api")

	routes.SetupMessageRoutes(api, &routes.MessageRouteConfig{
		MessageHandler: r.hdlrs.messageHandler,
		AuthMiddleware: r.authMiddleware,
	})

	routes.SetupVideoCallRoutes(api, &routes.VideoCallRouteConfig{
		VideoCallHandler: r.hdlrs.videoCallHandler,
		AuthMiddleware:   r.authMiddleware,
	})

	routes.SetupPurchaseRoutes(api, &routes.PurchaseRouteConfig{
		PurchaseHandler: r.hdlrs.purchaseHandler,
		ReserveHandler:  r.hdlrs.reserveHandler,
		AuthMiddleware:  r.authMiddleware,
		RateLimiter:     r.rateLimiter,
	})

	routes.SetupAdminRoutes(api, &routes.AdminRouteConfig{
		ReserveHandler:       r.hdlrs.adminReserveHandler,
		FraudHandler:         r.hdlrs.adminFraudHandler,
		AuthMiddleware:       r.authMiddleware,
		PermissionMiddleware: r.permissionMiddleware,
	})
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// Run starts the HTTP server
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}
