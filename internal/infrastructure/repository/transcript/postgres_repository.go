// Package transcript persists conversation turns and session shadows
// into PostgreSQL for audit and analytics.
package transcript

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hc-lead-agent/chat-api/internal/domain/conversation"
	"hc-lead-agent/chat-api/internal/infrastructure/database/entities"
	"hc-lead-agent/chat-api/internal/utils/platformerrors"
)

// Repository persists the durable conversation record. It serves two
// consumers: the orchestrator's turn log and the store's session
// mirror.
type Repository struct {
	db  *gorm.DB
	log zerolog.Logger
}

// NewRepository builds a transcript repository.
func NewRepository(db *gorm.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("component", "transcript-repository").Logger(),
	}
}

// SaveTurn appends one turn to the message log and bumps the session
// turn counter.
func (r *Repository) SaveTurn(ctx context.Context, conversationID string, role conversation.Role, text, tag string) error {
	msg := entities.ChatMessage{
		SessionPublicID: conversationID,
		Role:            string(role),
		Content:         text,
		Intent:          tag,
	}
	if err := r.db.WithContext(ctx).Create(&msg).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to save chat message",
			err,
			"8d41c2aa-1f5e-4d0b-9e3c-6a7b8c9d0e1f",
		)
	}

	err := r.db.WithContext(ctx).Model(&entities.ChatSession{}).
		Where("public_id = ?", conversationID).
		UpdateColumn("turn_count", gorm.Expr("turn_count + 1")).Error
	if err != nil {
		r.log.Warn().Err(err).Str("conversation_id", conversationID).Msg("failed to bump session turn count")
	}
	return nil
}

// ConversationCreated inserts the session shadow row. Idempotent:
// replays on the same public id are ignored.
func (r *Repository) ConversationCreated(ctx context.Context, c *conversation.Conversation) {
	session := entities.ChatSession{
		PublicID:      c.ID,
		Qualification: string(c.Qualification),
		LastActiveAt:  c.LastActive,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "public_id"}},
			DoNothing: true,
		}).
		Create(&session).Error
	if err != nil {
		r.log.Error().Err(err).Str("conversation_id", c.ID).Msg("failed to shadow session create")
	}
}

// ConversationUpdated refreshes the session shadow's qualification
// status and activity timestamp.
func (r *Repository) ConversationUpdated(ctx context.Context, c *conversation.Conversation) {
	err := r.db.WithContext(ctx).Model(&entities.ChatSession{}).
		Where("public_id = ?", c.ID).
		Updates(map[string]any{
			"qualification":  string(c.Qualification),
			"last_active_at": c.LastActive,
		}).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		r.log.Error().Err(err).Str("conversation_id", c.ID).Msg("failed to shadow session update")
	}
}
