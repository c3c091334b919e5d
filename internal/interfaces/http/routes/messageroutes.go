package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/videocc/videocc/internal/interfaces/http/handlers"
	"github.com/videocc/videocc/internal/interfaces/http/middleware"
)

type MessageRouteConfig struct {
	MessageHandler *handlers.MessageHandler
	AuthMiddleware *middleware.AuthMiddleware
}

func SetupMessageRoutes(api *gin.RouterGroup, config *MessageRouteConfig) {
	messages := api.Group("/messages")
	messages.Use(config.AuthMiddleware.RequireAuth())
	{
		messages.POST("", config.MessageHandler.SendMessage)
		messages.GET("/permission/:userId", config.MessageHandler.CanSendMessage)
	}

	api.GET("/message-limits/:userId",
		config.AuthMiddleware.RequireAuth(),
		config.MessageHandler.MessageLimits)
}
