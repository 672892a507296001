package lead

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"hc-lead-agent/chat-api/internal/domain/conversation"
)

// ConsentMessage is the fixed prompt shown before any data collection.
const ConsentMessage = "To connect you with our sales team, I'll need to collect a few details " +
	"about you and your business. This information will be stored securely in " +
	"our CRM and used only to process your enquiry.\n\n" +
	"**Do you agree to proceed?**"

const confirmationPrompt = `Before I submit your details, here's a summary:

%s

Is everything correct? *(Reply **Yes** to confirm or **No** to make changes)*`

// ConsentQuickReplies are the options offered with the consent prompt.
var ConsentQuickReplies = []string{"Yes, I agree", "No, thanks"}

var confirmQuickReplies = []string{"Yes, submit", "No, make changes"}

// Outcome is the result of one qualification turn: the agent reply,
// optional quick replies, and whether the lead was just completed.
type Outcome struct {
	Reply        string
	QuickReplies []string
	Completed    bool
}

// Machine drives the multi-turn data-collection dialogue:
//
//	NOT_STARTED -> CONSENT_PENDING -> COLLECTING -> CONFIRMING -> COMPLETED
//
// Consent refusal returns to NOT_STARTED; confirmation rejection
// restarts collection from the first field with the record cleared.
// There is no edit-in-place path; a rejected summary discards
// everything already collected.
//
// The machine operates on a conversation snapshot and performs no
// store access; the caller commits the mutated snapshot atomically.
type Machine struct {
	notifier Notifier
	repo     Repository
	crm      CRM
	log      zerolog.Logger
}

// NewMachine builds the qualification machine. Collaborators may be
// nil; completion then skips the corresponding hand-off.
func NewMachine(notifier Notifier, repo Repository, crm CRM, log zerolog.Logger) *Machine {
	return &Machine{
		notifier: notifier,
		repo:     repo,
		crm:      crm,
		log:      log.With().Str("component", "lead-machine").Logger(),
	}
}

// Initiate moves a conversation into CONSENT_PENDING and returns the
// consent prompt. Called by the orchestrator when a sales-type intent
// is first detected.
func (m *Machine) Initiate(c *conversation.Conversation) Outcome {
	c.Qualification = conversation.QualificationConsentPending
	return Outcome{Reply: ConsentMessage, QuickReplies: ConsentQuickReplies}
}

// Handle processes one user message while qualification is active.
func (m *Machine) Handle(ctx context.Context, c *conversation.Conversation, message string) Outcome {
	switch c.Qualification {
	case conversation.QualificationConsentPending:
		return m.handleConsent(c, message)
	case conversation.QualificationCollecting:
		return m.handleCollection(c, message)
	case conversation.QualificationConfirming:
		return m.handleConfirmation(ctx, c, message)
	}

	// Defensive fallback: an unexpected status re-enters consent with
	// an explanatory prefix.
	m.log.Warn().Str("conversation_id", c.ID).Str("status", string(c.Qualification)).
		Msg("unexpected qualification status, restarting consent")
	c.Qualification = conversation.QualificationConsentPending
	return Outcome{
		Reply:        "Something went wrong. Let me restart the qualification. " + ConsentMessage,
		QuickReplies: []string{"Yes", "No"},
	}
}

// handleConsent treats any non-affirmative reply as refusal. Neutral
// or off-topic replies therefore read as "no".
func (m *Machine) handleConsent(c *conversation.Conversation, message string) Outcome {
	if !IsAffirmative(message) {
		c.Qualification = conversation.QualificationNotStarted
		return Outcome{
			Reply: "No problem at all! I'll keep our conversation focused on answering " +
				"your questions. Feel free to ask me anything about our products or services.",
		}
	}

	c.Qualification = conversation.QualificationCollecting
	c.FieldCursor = 0
	c.Lead = map[string]string{}
	return Outcome{
		Reply: "Thank you for agreeing! Let's get started — I'll ask a few quick questions.\n\n" +
			Fields[0].Question,
	}
}

func (m *Machine) handleCollection(c *conversation.Conversation, message string) Outcome {
	if c.Lead == nil {
		c.Lead = map[string]string{}
	}
	if c.FieldCursor >= len(Fields) {
		return m.startConfirmation(c)
	}

	field := Fields[c.FieldCursor]

	if !field.Required && IsSkip(message) {
		c.FieldCursor++
		if c.FieldCursor >= len(Fields) {
			return m.startConfirmation(c)
		}
		return Outcome{Reply: Fields[c.FieldCursor].Question}
	}

	if res := ValidateField(field.Key, message); !res.Valid {
		return Outcome{Reply: res.Message}
	}

	value := strings.TrimSpace(message)
	c.Lead[string(field.Key)] = value
	c.FieldCursor++

	if c.FieldCursor < len(Fields) {
		return Outcome{
			Reply: acknowledgement(field.Key, value) + "\n\n" + Fields[c.FieldCursor].Question,
		}
	}
	return m.startConfirmation(c)
}

func (m *Machine) startConfirmation(c *conversation.Conversation) Outcome {
	c.Qualification = conversation.QualificationConfirming
	rec := recordFrom(c)
	return Outcome{
		Reply:        fmt.Sprintf(confirmationPrompt, rec.Summary()),
		QuickReplies: confirmQuickReplies,
	}
}

func (m *Machine) handleConfirmation(ctx context.Context, c *conversation.Conversation, message string) Outcome {
	if !IsAffirmative(message) {
		c.Qualification = conversation.QualificationCollecting
		c.FieldCursor = 0
		c.Lead = map[string]string{}
		return Outcome{
			Reply: "No problem! Let's start over. I'll ask you the questions again.\n\n" +
				Fields[0].Question,
		}
	}

	c.Qualification = conversation.QualificationCompleted
	rec := recordFrom(c)

	m.handOff(ctx, rec)

	name := rec.Get(FieldFirstName)
	if name == "" {
		name = "there"
	}
	return Outcome{
		Completed: true,
		Reply: fmt.Sprintf("✅ **Thank you, %s!** Your details have been submitted successfully.\n\n"+
			"Our sales team will review your information and get in touch with you "+
			"within **1 business day**.\n\n"+
			"In the meantime, feel free to ask me any product questions you may have!", name),
	}
}

// handOff delivers the completed record to the notification, CRM and
// persistence collaborators. All three are best-effort: failures are
// logged and never surface to the user, since the reply is already
// decided.
func (m *Machine) handOff(ctx context.Context, rec Record) {
	if m.notifier != nil {
		if ok := m.notifier.SendLeadNotification(ctx, rec); !ok {
			m.log.Warn().Str("conversation_id", rec.ConversationID).Msg("lead email notification not delivered")
		}
	}
	if m.crm != nil {
		if err := m.crm.PushLead(ctx, rec); err != nil {
			m.log.Error().Err(err).Str("conversation_id", rec.ConversationID).Msg("CRM push failed")
		}
	}
	if m.repo != nil {
		if err := m.repo.SaveLead(ctx, rec); err != nil {
			m.log.Error().Err(err).Str("conversation_id", rec.ConversationID).Msg("failed to save lead")
		}
	}
}

func recordFrom(c *conversation.Conversation) Record {
	fields := make(map[FieldKey]string, len(c.Lead))
	for k, v := range c.Lead {
		key := FieldKey(k)
		if KnownField(key) {
			fields[key] = v
		}
	}
	return Record{ConversationID: c.ID, Fields: fields}
}

// Progress reports how many required fields have been collected. Show
// is false outside the collection/confirmation/completed phases.
func Progress(c *conversation.Conversation) (current, total int, show bool) {
	total = RequiredFieldCount()
	switch c.Qualification {
	case conversation.QualificationCollecting, conversation.QualificationConfirming, conversation.QualificationCompleted:
	default:
		return 0, total, false
	}
	for _, f := range Fields {
		if f.Required && c.Lead[string(f.Key)] != "" {
			current++
		}
	}
	return current, total, true
}
