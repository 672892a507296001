// Package handlers holds the gin HTTP handlers.
package handlers

import (
	"github.com/google/wire"
)

// Provider holds all HTTP handlers.
type Provider struct {
	Chat   *ChatHandler
	Health *HealthHandler
}

// NewProvider creates a new handler provider.
func NewProvider(chat *ChatHandler, health *HealthHandler) *Provider {
	return &Provider{
		Chat:   chat,
		Health: health,
	}
}

// HandlerProvider provides all handlers for wire.
var HandlerProvider = wire.NewSet(
	NewProvider,
)
