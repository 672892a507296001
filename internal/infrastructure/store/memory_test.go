package store

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hc-lead-agent/chat-api/internal/domain/conversation"
)

func newTestStore(t *testing.T) *MemoryStore {
	t.Helper()
	return NewMemoryStore(30*time.Minute, 5, nil, zerolog.Nop())
}

func TestMemoryStore_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	conv, err := s.Create(ctx)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(conv.ID, "conv_"))
	assert.Equal(t, conversation.QualificationNotStarted, conv.Qualification)

	got, err := s.Get(ctx, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, conv.ID, got.ID)

	_, err = s.Get(ctx, "conv_unknown")
	assert.ErrorIs(t, err, conversation.ErrNotFound)
}

func TestMemoryStore_GetReturnsIsolatedCopy(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	conv, err := s.Create(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Append(ctx, conv.ID, conversation.RoleUser, "hello"))

	copy1, err := s.Get(ctx, conv.ID)
	require.NoError(t, err)

	// Mutating the copy must not leak into the store.
	copy1.Turns[0].Text = "tampered"
	copy1.Lead["first_name"] = "Mallory"
	copy1.Qualification = conversation.QualificationCompleted

	copy2, err := s.Get(ctx, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", copy2.Turns[0].Text)
	assert.Empty(t, copy2.Lead)
	assert.Equal(t, conversation.QualificationNotStarted, copy2.Qualification)
}

func TestMemoryStore_AppendEnforcesWindow(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t) // limit 5

	conv, err := s.Create(ctx)
	require.NoError(t, err)

	for _, text := range []string{"one", "two", "three", "four", "five", "six", "seven"} {
		require.NoError(t, s.Append(ctx, conv.ID, conversation.RoleUser, text))
	}

	got, err := s.Get(ctx, conv.ID)
	require.NoError(t, err)
	require.Len(t, got.Turns, 5)
	assert.Equal(t, "three", got.Turns[0].Text)
	assert.Equal(t, "seven", got.Turns[4].Text)
}

func TestMemoryStore_ExpiryEvictsOnRead(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(30*time.Minute, 20, nil, zerolog.Nop())

	now := time.Now()
	s.now = func() time.Time { return now }

	conv, err := s.Create(ctx)
	require.NoError(t, err)

	// Just inside the window.
	now = now.Add(29 * time.Minute)
	_, err = s.Get(ctx, conv.ID)
	require.NoError(t, err)

	// Touch resets the idle clock.
	require.NoError(t, s.Touch(ctx, conv.ID))
	now = now.Add(29 * time.Minute)
	_, err = s.Get(ctx, conv.ID)
	require.NoError(t, err)

	// Past the window: evicted and gone for good.
	now = now.Add(31 * time.Minute)
	_, err = s.Get(ctx, conv.ID)
	assert.ErrorIs(t, err, conversation.ErrNotFound)
	assert.Equal(t, 0, s.Len())

	_, err = s.Update(ctx, conv.ID, func(c *conversation.Conversation) {})
	assert.ErrorIs(t, err, conversation.ErrNotFound)
}

func TestMemoryStore_UpdateIsAtomic(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	conv, err := s.Create(ctx)
	require.NoError(t, err)

	updated, err := s.Update(ctx, conv.ID, func(c *conversation.Conversation) {
		c.Qualification = conversation.QualificationCollecting
		c.FieldCursor = 2
		c.Lead["email"] = "priya@acme.com"
	})
	require.NoError(t, err)
	assert.Equal(t, conversation.QualificationCollecting, updated.Qualification)
	assert.Equal(t, 2, updated.FieldCursor)

	got, err := s.Get(ctx, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, "priya@acme.com", got.Lead["email"])
}

func TestMemoryStore_ConcurrentConversationsDoNotInterfere(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(30*time.Minute, 200, nil, zerolog.Nop())

	const conversations = 8
	const turnsEach = 25

	ids := make([]string, conversations)
	for i := range ids {
		conv, err := s.Create(ctx)
		require.NoError(t, err)
		ids[i] = conv.ID
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			for j := 0; j < turnsEach; j++ {
				_ = s.Append(ctx, id, conversation.RoleUser, "msg")
				_, _ = s.Update(ctx, id, func(c *conversation.Conversation) {
					c.FieldCursor++
				})
			}
		}(id)
	}
	wg.Wait()

	for _, id := range ids {
		got, err := s.Get(ctx, id)
		require.NoError(t, err)
		assert.Len(t, got.Turns, turnsEach)
		assert.Equal(t, turnsEach, got.FieldCursor)
	}
}
