// Package conversation defines the live conversation state tracked per
// end user and the store contract that owns it.
package conversation

import "time"

// Role indicates who authored a turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// Turn is one message exchange unit within a conversation's history.
// Ordering is insertion order and is the literal context window sent to
// the generation capability.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// QualificationStatus tracks where a conversation is in the lead
// qualification flow.
type QualificationStatus string

const (
	QualificationNotStarted     QualificationStatus = "NOT_STARTED"
	QualificationConsentPending QualificationStatus = "CONSENT_PENDING"
	QualificationCollecting     QualificationStatus = "COLLECTING"
	QualificationConfirming     QualificationStatus = "CONFIRMING"
	QualificationCompleted      QualificationStatus = "COMPLETED"
)

// Active reports whether the qualification flow currently owns the
// conversation, i.e. incoming turns bypass intent classification.
func (s QualificationStatus) Active() bool {
	switch s {
	case QualificationConsentPending, QualificationCollecting, QualificationConfirming:
		return true
	}
	return false
}

// Conversation is the unit of session state tracked per end user.
// FieldCursor is meaningful only while Qualification is COLLECTING;
// Lead never contains a key outside the fixed field schema.
type Conversation struct {
	ID            string              `json:"id"`
	Turns         []Turn              `json:"turns"`
	Qualification QualificationStatus `json:"qualification"`
	Lead          map[string]string   `json:"lead"`
	FieldCursor   int                 `json:"field_cursor"`
	CreatedAt     time.Time           `json:"created_at"`
	LastActive    time.Time           `json:"last_active"`
}

// Append adds a turn and enforces the sliding retention window: once
// the history exceeds limit, the oldest turns are discarded.
func (c *Conversation) Append(role Role, text string, limit int) {
	c.Turns = append(c.Turns, Turn{Role: role, Text: text})
	if limit > 0 && len(c.Turns) > limit {
		c.Turns = c.Turns[len(c.Turns)-limit:]
	}
}

// Clone returns a deep copy so callers can read and stage mutations
// without holding the store's lock.
func (c *Conversation) Clone() *Conversation {
	cp := *c
	cp.Turns = make([]Turn, len(c.Turns))
	copy(cp.Turns, c.Turns)
	cp.Lead = make(map[string]string, len(c.Lead))
	for k, v := range c.Lead {
		cp.Lead[k] = v
	}
	return &cp
}
