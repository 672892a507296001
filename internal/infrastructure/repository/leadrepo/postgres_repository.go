// Package leadrepo persists qualified lead records into PostgreSQL.
package leadrepo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hc-lead-agent/chat-api/internal/domain/lead"
	"hc-lead-agent/chat-api/internal/infrastructure/database/entities"
	"hc-lead-agent/chat-api/internal/utils/platformerrors"
)

// Repository persists completed lead records.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a lead repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// SaveLead inserts the completed record.
func (r *Repository) SaveLead(ctx context.Context, rec lead.Record) error {
	entity := entities.NewSchemaLead("lead_"+uuid.NewString(), rec)

	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to save lead",
			err,
			"f2a9d6b1-3c4e-5f60-8a9b-0c1d2e3f4a5b",
		)
	}
	return nil
}

var _ lead.Repository = (*Repository)(nil)
