// Package store provides the mutex-based in-memory conversation store.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"hc-lead-agent/chat-api/internal/domain/conversation"
	"hc-lead-agent/chat-api/internal/infrastructure/metrics"
	"hc-lead-agent/chat-api/internal/utils/idgen"
)

const idLength = 24

// Mirror receives lifecycle events so conversations can be shadowed
// into durable storage. Calls are made outside the store's lock on a
// copy and are strictly best-effort.
type Mirror interface {
	ConversationCreated(ctx context.Context, c *conversation.Conversation)
	ConversationUpdated(ctx context.Context, c *conversation.Conversation)
}

// MemoryStore is a mutex-based in-memory conversation store.
// Thread-safe via sync.RWMutex. Expiry is enforced lazily on read:
// an id idle longer than expiry is evicted and reported as not found.
type MemoryStore struct {
	mu            sync.RWMutex
	conversations map[string]*conversation.Conversation
	expiry        time.Duration
	historyLimit  int
	mirror        Mirror
	now           func() time.Time
	log           zerolog.Logger
}

// NewMemoryStore creates a new in-memory conversation store. mirror
// may be nil.
func NewMemoryStore(expiry time.Duration, historyLimit int, mirror Mirror, log zerolog.Logger) *MemoryStore {
	if expiry <= 0 {
		expiry = 30 * time.Minute
	}
	if historyLimit <= 0 {
		historyLimit = 20
	}
	return &MemoryStore{
		conversations: make(map[string]*conversation.Conversation),
		expiry:        expiry,
		historyLimit:  historyLimit,
		mirror:        mirror,
		now:           time.Now,
		log:           log.With().Str("component", "conversation-store").Logger(),
	}
}

// Create allocates a new conversation with a fresh id.
func (s *MemoryStore) Create(ctx context.Context) (*conversation.Conversation, error) {
	id, err := idgen.GenerateSecureID("conv", idLength)
	if err != nil {
		return nil, err
	}

	now := s.now()
	conv := &conversation.Conversation{
		ID:            id,
		Turns:         []conversation.Turn{},
		Qualification: conversation.QualificationNotStarted,
		Lead:          map[string]string{},
		CreatedAt:     now,
		LastActive:    now,
	}

	s.mu.Lock()
	s.conversations[id] = conv
	metrics.ActiveConversations.Set(float64(len(s.conversations)))
	s.mu.Unlock()

	s.log.Debug().Str("conversation_id", id).Msg("conversation created")
	s.notifyCreated(ctx, conv.Clone())
	return conv.Clone(), nil
}

// Get returns a deep copy of the conversation, or ErrNotFound for
// unknown and expired ids. Expired entries are evicted on the spot.
func (s *MemoryStore) Get(ctx context.Context, id string) (*conversation.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[id]
	if !ok {
		return nil, conversation.ErrNotFound
	}
	if s.expired(conv) {
		delete(s.conversations, id)
		metrics.ActiveConversations.Set(float64(len(s.conversations)))
		s.log.Debug().Str("conversation_id", id).Msg("conversation expired")
		return nil, conversation.ErrNotFound
	}
	return conv.Clone(), nil
}

// Touch updates the last-activity timestamp.
func (s *MemoryStore) Touch(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[id]
	if !ok {
		return conversation.ErrNotFound
	}
	conv.LastActive = s.now()
	return nil
}

// Append records a turn, enforcing the retention window.
func (s *MemoryStore) Append(ctx context.Context, id string, role conversation.Role, text string) error {
	s.mu.Lock()

	conv, ok := s.conversations[id]
	if !ok {
		s.mu.Unlock()
		return conversation.ErrNotFound
	}
	conv.Append(role, text, s.historyLimit)
	conv.LastActive = s.now()
	snapshot := conv.Clone()
	s.mu.Unlock()

	s.notifyUpdated(ctx, snapshot)
	return nil
}

// Update applies mutate under the lock and returns a copy of the
// resulting state.
func (s *MemoryStore) Update(ctx context.Context, id string, mutate func(*conversation.Conversation)) (*conversation.Conversation, error) {
	s.mu.Lock()

	conv, ok := s.conversations[id]
	if !ok {
		s.mu.Unlock()
		return nil, conversation.ErrNotFound
	}
	mutate(conv)
	conv.LastActive = s.now()
	snapshot := conv.Clone()
	s.mu.Unlock()

	s.notifyUpdated(ctx, snapshot)
	return snapshot.Clone(), nil
}

// Len reports the number of live (possibly expired but not yet
// evicted) conversations.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conversations)
}

func (s *MemoryStore) expired(c *conversation.Conversation) bool {
	return s.now().Sub(c.LastActive) > s.expiry
}

func (s *MemoryStore) notifyCreated(ctx context.Context, c *conversation.Conversation) {
	if s.mirror == nil {
		return
	}
	bg := context.WithoutCancel(ctx)
	go s.mirror.ConversationCreated(bg, c)
}

func (s *MemoryStore) notifyUpdated(ctx context.Context, c *conversation.Conversation) {
	if s.mirror == nil {
		return
	}
	bg := context.WithoutCancel(ctx)
	go s.mirror.ConversationUpdated(bg, c)
}
