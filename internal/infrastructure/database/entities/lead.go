package entities

import (
	"time"

	"hc-lead-agent/chat-api/internal/domain/lead"
)

// Lead represents the database schema for qualified leads.
type Lead struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	PublicID        string `gorm:"type:varchar(64);uniqueIndex;not null"`
	SessionPublicID string `gorm:"type:varchar(64);index;not null"`
	FirstName       string `gorm:"type:varchar(100);not null"`
	LastName        string `gorm:"type:varchar(100);not null"`
	Email           string `gorm:"type:varchar(256);index;not null"`
	Phone           string `gorm:"type:varchar(40);not null"`
	CompanyName     string `gorm:"type:varchar(256)"`
	Address         string `gorm:"type:text;not null"`
}

// TableName specifies the table name for Lead.
func (Lead) TableName() string {
	return "leads"
}

// NewSchemaLead creates a database entity from a domain record.
func NewSchemaLead(publicID string, rec lead.Record) *Lead {
	return &Lead{
		PublicID:        publicID,
		SessionPublicID: rec.ConversationID,
		FirstName:       rec.Get(lead.FieldFirstName),
		LastName:        rec.Get(lead.FieldLastName),
		Email:           rec.Get(lead.FieldEmail),
		Phone:           rec.Get(lead.FieldPhone),
		CompanyName:     rec.Get(lead.FieldCompany),
		Address:         rec.Get(lead.FieldAddress),
	}
}
