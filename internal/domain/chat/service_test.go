package chat_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hc-lead-agent/chat-api/internal/domain/chat"
	"hc-lead-agent/chat-api/internal/domain/conversation"
	"hc-lead-agent/chat-api/internal/domain/intent"
	"hc-lead-agent/chat-api/internal/domain/lead"
	"hc-lead-agent/chat-api/internal/domain/rag"
	"hc-lead-agent/chat-api/internal/infrastructure/store"
)

type stubClassifier struct {
	result intent.Intent
	called bool
}

func (s *stubClassifier) Classify(ctx context.Context, message string) intent.Intent {
	s.called = true
	return s.result
}

type stubAnswerer struct {
	result      rag.Result
	lastHistory []conversation.Turn
	called      bool
}

func (s *stubAnswerer) Answer(ctx context.Context, question string, history []conversation.Turn) rag.Result {
	s.called = true
	s.lastHistory = history
	return s.result
}

func newService(t *testing.T, classifier *stubClassifier, answerer *stubAnswerer) (*chat.Service, conversation.Store) {
	t.Helper()
	convStore := store.NewMemoryStore(30*time.Minute, 20, nil, zerolog.Nop())
	machine := lead.NewMachine(nil, nil, nil, zerolog.Nop())
	svc := chat.NewService(convStore, classifier, answerer, machine, nil, 20, zerolog.Nop())
	return svc, convStore
}

func TestSubmitTurn_EmptyMessage(t *testing.T) {
	svc, _ := newService(t, &stubClassifier{}, &stubAnswerer{})

	_, err := svc.SubmitTurn(context.Background(), "conv_whatever", "   ")
	assert.ErrorIs(t, err, chat.ErrEmptyMessage)
}

func TestSubmitTurn_UnknownConversation(t *testing.T) {
	svc, _ := newService(t, &stubClassifier{}, &stubAnswerer{})

	_, err := svc.SubmitTurn(context.Background(), "conv_missing", "hello")
	assert.ErrorIs(t, err, conversation.ErrNotFound)
}

func TestSubmitTurn_OutOfScope(t *testing.T) {
	ctx := context.Background()
	classifier := &stubClassifier{result: intent.OutOfScope}
	answerer := &stubAnswerer{}
	svc, convStore := newService(t, classifier, answerer)

	id, err := svc.InitConversation(ctx)
	require.NoError(t, err)

	res, err := svc.SubmitTurn(ctx, id, "tell me a joke")
	require.NoError(t, err)

	assert.Contains(t, res.Reply, "I'm specialised in healthcare device queries")
	assert.Equal(t, "out_of_scope", res.Intent)
	assert.Equal(t, conversation.QualificationNotStarted, res.LeadStatus)
	assert.False(t, answerer.called, "out-of-scope must not hit retrieval")

	conv, err := convStore.Get(ctx, id)
	require.NoError(t, err)
	require.Len(t, conv.Turns, 2)
	assert.Equal(t, conversation.RoleUser, conv.Turns[0].Role)
	assert.Equal(t, conversation.RoleAgent, conv.Turns[1].Role)
}

func TestSubmitTurn_GeneralQueryAnswersFromPipeline(t *testing.T) {
	ctx := context.Background()
	classifier := &stubClassifier{result: intent.ProductQuery}
	answerer := &stubAnswerer{result: rag.Result{Text: "Our cannula range covers 14G-26G.", ContextFound: true}}
	svc, _ := newService(t, classifier, answerer)

	id, err := svc.InitConversation(ctx)
	require.NoError(t, err)

	res, err := svc.SubmitTurn(ctx, id, "What cannula sizes do you make?")
	require.NoError(t, err)

	assert.Equal(t, "Our cannula range covers 14G-26G.", res.Reply)
	assert.Equal(t, "product_query", res.Intent)
	assert.Nil(t, res.QuickReplies)

	// The question must be the final turn of the history handed to the
	// pipeline.
	require.NotEmpty(t, answerer.lastHistory)
	last := answerer.lastHistory[len(answerer.lastHistory)-1]
	assert.Equal(t, conversation.RoleUser, last.Role)
	assert.Equal(t, "What cannula sizes do you make?", last.Text)
}

func TestSubmitTurn_SalesIntentTriggersConsent(t *testing.T) {
	ctx := context.Background()
	classifier := &stubClassifier{result: intent.DistributorQuery}
	answerer := &stubAnswerer{result: rag.Result{Text: "Our distributor program works like this.", ContextFound: true}}
	svc, convStore := newService(t, classifier, answerer)

	id, err := svc.InitConversation(ctx)
	require.NoError(t, err)

	res, err := svc.SubmitTurn(ctx, id, "How do I become a distributor?")
	require.NoError(t, err)

	// The substantive answer comes first, the consent prompt last.
	assert.Contains(t, res.Reply, "Our distributor program works like this.")
	assert.Contains(t, res.Reply, "interested in our products or partnering with us")
	assert.Contains(t, res.Reply, lead.ConsentMessage)
	assert.Equal(t, conversation.QualificationConsentPending, res.LeadStatus)
	assert.Equal(t, lead.ConsentQuickReplies, res.QuickReplies)

	conv, err := convStore.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, conversation.QualificationConsentPending, conv.Qualification)
}

func TestSubmitTurn_ActiveQualificationBypassesClassifier(t *testing.T) {
	ctx := context.Background()
	classifier := &stubClassifier{result: intent.DistributorQuery}
	answerer := &stubAnswerer{result: rag.Result{Text: "answer", ContextFound: true}}
	svc, _ := newService(t, classifier, answerer)

	id, err := svc.InitConversation(ctx)
	require.NoError(t, err)

	_, err = svc.SubmitTurn(ctx, id, "I want to be a distributor")
	require.NoError(t, err)

	classifier.called = false
	answerer.called = false

	res, err := svc.SubmitTurn(ctx, id, "Yes, I agree")
	require.NoError(t, err)

	assert.False(t, classifier.called, "active qualification must skip classification")
	assert.False(t, answerer.called, "active qualification must skip retrieval")
	assert.Equal(t, chat.QualificationTag, res.Intent)
	assert.Equal(t, conversation.QualificationCollecting, res.LeadStatus)
	assert.Contains(t, res.Reply, lead.Fields[0].Question)

	require.NotNil(t, res.Progress)
	assert.Equal(t, 0, res.Progress.Current)
	assert.Equal(t, lead.RequiredFieldCount(), res.Progress.Total)
}

func TestSubmitTurn_NoConsentReTriggerAfterCompletion(t *testing.T) {
	ctx := context.Background()
	classifier := &stubClassifier{result: intent.SalesIntent}
	answerer := &stubAnswerer{result: rag.Result{Text: "happy to help again", ContextFound: true}}
	svc, convStore := newService(t, classifier, answerer)

	id, err := svc.InitConversation(ctx)
	require.NoError(t, err)

	_, err = convStore.Update(ctx, id, func(c *conversation.Conversation) {
		c.Qualification = conversation.QualificationCompleted
	})
	require.NoError(t, err)

	res, err := svc.SubmitTurn(ctx, id, "I want to buy more")
	require.NoError(t, err)

	assert.Equal(t, "happy to help again", res.Reply)
	assert.NotContains(t, res.Reply, lead.ConsentMessage)
	assert.Equal(t, conversation.QualificationCompleted, res.LeadStatus)
	assert.Nil(t, res.QuickReplies)
}
