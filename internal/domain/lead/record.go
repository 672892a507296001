package lead

import (
	"context"
	"strings"
)

// Record is a completed (or in-progress) lead: validated field values
// plus the owning conversation id. It is copied out of the
// conversation on hand-off; the store keeps no ownership afterwards.
type Record struct {
	ConversationID string
	Fields         map[FieldKey]string
}

// Get returns the value for key, or "" when absent.
func (r Record) Get(key FieldKey) string {
	return r.Fields[key]
}

// Summary renders one line per collected field in schema order; absent
// optional fields are omitted, never shown blank.
func (r Record) Summary() string {
	var lines []string
	for _, f := range Fields {
		if v := r.Fields[f.Key]; v != "" {
			lines = append(lines, "- **"+f.Label+"**: "+v)
		}
	}
	return strings.Join(lines, "\n")
}

// Repository persists completed lead records.
type Repository interface {
	SaveLead(ctx context.Context, rec Record) error
}

// Notifier sends the lead summary to the sales/care mailbox.
// Best-effort: the return value reports delivery, never an error that
// should block the reply path.
type Notifier interface {
	SendLeadNotification(ctx context.Context, rec Record) bool
}

// CRM pushes the lead into the downstream CRM system.
type CRM interface {
	PushLead(ctx context.Context, rec Record) error
}
