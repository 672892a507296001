package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"hc-lead-agent/chat-api/internal/interfaces/httpserver/responses"
)

// KBCounter reports the number of indexed knowledge-base chunks.
type KBCounter interface {
	Count(ctx context.Context) (int, error)
}

// HealthHandler reports service health including knowledge-base
// reachability.
type HealthHandler struct {
	serviceName string
	kb          KBCounter
	log         zerolog.Logger
}

// NewHealthHandler creates a new health handler. kb may be nil.
func NewHealthHandler(serviceName string, kb KBCounter, log zerolog.Logger) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		kb:          kb,
		log:         log.With().Str("component", "health-handler").Logger(),
	}
}

// Healthz reports liveness plus the indexed chunk count. An
// unreachable vector store degrades the status without failing the
// probe: the chat path can still answer with fallbacks.
func (h *HealthHandler) Healthz(c *gin.Context) {
	resp := responses.HealthResponse{
		Status:  "healthy",
		Service: h.serviceName,
	}

	if h.kb != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		count, err := h.kb.Count(ctx)
		if err != nil {
			h.log.Warn().Err(err).Msg("knowledge base unreachable")
			resp.Status = "degraded"
		} else {
			resp.KBChunks = count
		}
	}

	c.JSON(http.StatusOK, resp)
}
