// Package chat is the turn orchestrator: it sequences the store, the
// qualification machine, the intent router and the answer pipeline for
// each incoming message.
package chat

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"hc-lead-agent/chat-api/internal/domain/conversation"
	"hc-lead-agent/chat-api/internal/domain/intent"
	"hc-lead-agent/chat-api/internal/domain/lead"
	"hc-lead-agent/chat-api/internal/domain/rag"
	"hc-lead-agent/chat-api/internal/infrastructure/metrics"
)

// ErrEmptyMessage rejects empty or whitespace-only input before any
// state mutation.
var ErrEmptyMessage = errors.New("message cannot be empty")

// QualificationTag is the transcript tag used while the qualification
// flow owns the conversation.
const QualificationTag = "lead_qualification"

const outOfScopeMessage = "I'm specialised in healthcare device queries and distribution opportunities " +
	"for PolyMedicure. I'm not able to help with that topic, but I'd love to assist " +
	"with any questions about our medical products or becoming a dealer! 😊"

const qualificationTransition = "\n\n---\n\nIt sounds like you're interested in our products or partnering with us! " +
	"I'd love to connect you with our sales team. "

// Classifier resolves a message to one intent label.
type Classifier interface {
	Classify(ctx context.Context, message string) intent.Intent
}

// Answerer runs the retrieval-grounded answer pipeline.
type Answerer interface {
	Answer(ctx context.Context, question string, history []conversation.Turn) rag.Result
}

// TranscriptRepository mirrors turns into the durable audit log.
// Writes are fire-and-forget relative to the reply.
type TranscriptRepository interface {
	SaveTurn(ctx context.Context, conversationID string, role conversation.Role, text, tag string) error
}

// Progress reports collected vs total required qualification fields.
type Progress struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// TurnResult is the outcome of one submitted turn.
type TurnResult struct {
	Reply        string
	Intent       string
	LeadStatus   conversation.QualificationStatus
	QuickReplies []string
	Progress     *Progress
}

// Service orchestrates one turn at a time per conversation. The caller
// is responsible for serializing turns on the same conversation id;
// distinct ids proceed fully in parallel.
type Service struct {
	store        conversation.Store
	classifier   Classifier
	answerer     Answerer
	machine      *lead.Machine
	transcripts  TranscriptRepository
	historyLimit int
	log          zerolog.Logger
}

// NewService wires the orchestrator.
func NewService(
	store conversation.Store,
	classifier Classifier,
	answerer Answerer,
	machine *lead.Machine,
	transcripts TranscriptRepository,
	historyLimit int,
	log zerolog.Logger,
) *Service {
	if historyLimit <= 0 {
		historyLimit = 20
	}
	return &Service{
		store:        store,
		classifier:   classifier,
		answerer:     answerer,
		machine:      machine,
		transcripts:  transcripts,
		historyLimit: historyLimit,
		log:          log.With().Str("component", "chat-service").Logger(),
	}
}

// InitConversation creates a fresh conversation and returns its id.
func (s *Service) InitConversation(ctx context.Context) (string, error) {
	conv, err := s.store.Create(ctx)
	if err != nil {
		return "", err
	}
	return conv.ID, nil
}

// SubmitTurn processes one incoming message. Caller errors (empty
// text, unknown/expired id) are returned before any mutation; every
// other failure mode resolves to a reply.
func (s *Service) SubmitTurn(ctx context.Context, conversationID, text string) (*TurnResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	conv, err := s.store.Get(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	if err := s.store.Touch(ctx, conversationID); err != nil {
		return nil, err
	}
	if err := s.store.Append(ctx, conversationID, conversation.RoleUser, text); err != nil {
		return nil, err
	}
	// Keep the working snapshot aligned with the committed state; its
	// turn list is the context window for generation.
	conv.Append(conversation.RoleUser, text, s.historyLimit)

	if conv.Qualification.Active() {
		return s.handleQualification(ctx, conv, text)
	}

	detected := s.classifier.Classify(ctx, text)
	s.log.Info().Str("conversation_id", shortID(conversationID)).Str("intent", string(detected)).Msg("intent classified")
	metrics.TurnsTotal.WithLabelValues(string(detected)).Inc()

	if detected == intent.OutOfScope {
		return s.reply(ctx, conv, outOfScopeMessage, string(detected), nil, nil)
	}

	if detected.TriggersQualification() && conv.Qualification == conversation.QualificationNotStarted {
		return s.triggerQualification(ctx, conv, text, detected)
	}

	answer := s.answerer.Answer(ctx, text, conv.Turns)
	return s.reply(ctx, conv, answer.Text, string(detected), nil, nil)
}

// handleQualification delegates the turn to the state machine and
// commits the mutated snapshot in one atomic update.
func (s *Service) handleQualification(ctx context.Context, conv *conversation.Conversation, text string) (*TurnResult, error) {
	outcome := s.machine.Handle(ctx, conv, text)
	metrics.TurnsTotal.WithLabelValues(QualificationTag).Inc()
	if outcome.Completed {
		metrics.LeadsCompletedTotal.Inc()
	}

	committed, err := s.commit(ctx, conv, outcome.Reply)
	if err != nil {
		return nil, err
	}
	s.persistPair(ctx, conv.ID, text, outcome.Reply, QualificationTag)

	result := &TurnResult{
		Reply:        outcome.Reply,
		Intent:       QualificationTag,
		LeadStatus:   committed.Qualification,
		QuickReplies: outcome.QuickReplies,
	}
	if current, total, show := lead.Progress(committed); show {
		result.Progress = &Progress{Current: current, Total: total}
	}
	return result, nil
}

// triggerQualification answers the underlying question first, then
// appends the transition sentence and the consent prompt: the user
// always gets a substantive answer alongside the invitation.
func (s *Service) triggerQualification(ctx context.Context, conv *conversation.Conversation, text string, detected intent.Intent) (*TurnResult, error) {
	answer := s.answerer.Answer(ctx, text, conv.Turns)
	s.machine.Initiate(conv)

	full := answer.Text + qualificationTransition + "\n\n" + lead.ConsentMessage
	return s.reply(ctx, conv, full, string(detected), lead.ConsentQuickReplies, nil)
}

// reply commits the agent turn (plus any staged qualification change)
// and persists both turns tagged with the intent.
func (s *Service) reply(ctx context.Context, conv *conversation.Conversation, replyText, tag string, quickReplies []string, progress *Progress) (*TurnResult, error) {
	committed, err := s.commit(ctx, conv, replyText)
	if err != nil {
		return nil, err
	}
	userText := ""
	if n := len(conv.Turns); n > 0 && conv.Turns[n-1].Role == conversation.RoleUser {
		userText = conv.Turns[n-1].Text
	}
	s.persistPair(ctx, conv.ID, userText, replyText, tag)

	return &TurnResult{
		Reply:        replyText,
		Intent:       tag,
		LeadStatus:   committed.Qualification,
		QuickReplies: quickReplies,
		Progress:     progress,
	}, nil
}

// commit writes the snapshot's qualification state and the agent turn
// back to the store atomically.
func (s *Service) commit(ctx context.Context, conv *conversation.Conversation, replyText string) (*conversation.Conversation, error) {
	return s.store.Update(ctx, conv.ID, func(c *conversation.Conversation) {
		c.Qualification = conv.Qualification
		c.FieldCursor = conv.FieldCursor
		c.Lead = make(map[string]string, len(conv.Lead))
		for k, v := range conv.Lead {
			c.Lead[k] = v
		}
		c.Append(conversation.RoleAgent, replyText, s.historyLimit)
	})
}

// persistPair mirrors the user and agent turns to the audit log.
// Failures are logged only: the reply is already decided.
func (s *Service) persistPair(ctx context.Context, conversationID, userText, agentText, tag string) {
	if s.transcripts == nil {
		return
	}
	bg := context.WithoutCancel(ctx)
	go func() {
		if userText != "" {
			if err := s.transcripts.SaveTurn(bg, conversationID, conversation.RoleUser, userText, tag); err != nil {
				s.log.Error().Err(err).Str("conversation_id", shortID(conversationID)).Msg("failed to persist user turn")
			}
		}
		if err := s.transcripts.SaveTurn(bg, conversationID, conversation.RoleAgent, agentText, tag); err != nil {
			s.log.Error().Err(err).Str("conversation_id", shortID(conversationID)).Msg("failed to persist agent turn")
		}
	}()
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
