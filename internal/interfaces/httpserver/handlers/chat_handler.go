package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"hc-lead-agent/chat-api/internal/domain/chat"
	"hc-lead-agent/chat-api/internal/domain/conversation"
	"hc-lead-agent/chat-api/internal/interfaces/httpserver/requests"
	"hc-lead-agent/chat-api/internal/interfaces/httpserver/responses"
	"hc-lead-agent/chat-api/internal/utils/platformerrors"
)

const sessionExpiredMessage = "Session not found or expired. Please start a new conversation."

// ChatHandler handles session creation and turn submission.
type ChatHandler struct {
	service *chat.Service
	log     zerolog.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(service *chat.Service, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		service: service,
		log:     log.With().Str("component", "chat-handler").Logger(),
	}
}

// CreateSession starts a new conversation and returns its id.
func (h *ChatHandler) CreateSession(c *gin.Context) {
	sessionID, err := h.service.InitConversation(c.Request.Context())
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}

	c.JSON(http.StatusCreated, responses.SessionResponse{SessionID: sessionID})
}

// Chat submits one user message and returns the agent reply.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req requests.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		platformerrors.WriteValidationError(c, "invalid request body: "+err.Error())
		return
	}

	result, err := h.service.SubmitTurn(c.Request.Context(), req.SessionID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrEmptyMessage):
			platformerrors.WriteValidationError(c, err.Error())
		case errors.Is(err, conversation.ErrNotFound):
			platformerrors.WriteNotFound(c, sessionExpiredMessage)
		default:
			platformerrors.WriteError(c, err, h.log)
		}
		return
	}

	resp := responses.ChatResponse{
		SessionID:    req.SessionID,
		Reply:        result.Reply,
		Intent:       result.Intent,
		LeadStatus:   string(result.LeadStatus),
		QuickReplies: result.QuickReplies,
	}
	if result.Progress != nil {
		resp.Progress = &responses.ProgressResponse{
			Current: result.Progress.Current,
			Total:   result.Progress.Total,
		}
	}

	c.JSON(http.StatusOK, resp)
}
