package v1

import (
	"github.com/gin-gonic/gin"

	"hc-lead-agent/chat-api/internal/interfaces/httpserver/handlers"
)

// RegisterChatRoutes registers the chat endpoints on the group.
func RegisterChatRoutes(group *gin.RouterGroup, handler *handlers.ChatHandler) {
	group.POST("/sessions", handler.CreateSession)
	group.POST("/chat", handler.Chat)
}
