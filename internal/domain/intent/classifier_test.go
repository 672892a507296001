package intent

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type mockCompleter struct {
	CompleteFunc func(ctx context.Context, prompt string) (string, error)
}

func (m *mockCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	return m.CompleteFunc(ctx, prompt)
}

func TestClassify_NormalizesModelOutput(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Intent
	}{
		{"exact label", "product_query", ProductQuery},
		{"mixed case with whitespace", "  Distributor_Query \n", DistributorQuery},
		{"label embedded in sentence", "The intent is: sales_intent.", SalesIntent},
		{"unrecognized output", "i cannot classify this", GeneralEnquiry},
		{"empty output", "", GeneralEnquiry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &mockCompleter{
				CompleteFunc: func(ctx context.Context, prompt string) (string, error) {
					return tt.raw, nil
				},
			}
			c := NewClassifier(llm, zerolog.Nop())

			got := c.Classify(context.Background(), "some message")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify_PromptCarriesMessage(t *testing.T) {
	var captured string
	llm := &mockCompleter{
		CompleteFunc: func(ctx context.Context, prompt string) (string, error) {
			captured = prompt
			return "pricing_query", nil
		},
	}
	c := NewClassifier(llm, zerolog.Nop())

	got := c.Classify(context.Background(), "  What do IV cannulas cost?  ")

	assert.Equal(t, PricingQuery, got)
	assert.Contains(t, captured, `User message: "What do IV cannulas cost?"`)
}

func TestClassify_FailureDefaultsToGeneralEnquiry(t *testing.T) {
	llm := &mockCompleter{
		CompleteFunc: func(ctx context.Context, prompt string) (string, error) {
			return "", errors.New("upstream timeout")
		},
	}
	c := NewClassifier(llm, zerolog.Nop())

	got := c.Classify(context.Background(), "hello")
	assert.Equal(t, GeneralEnquiry, got)
}

func TestTriggersQualification(t *testing.T) {
	assert.True(t, SalesIntent.TriggersQualification())
	assert.True(t, DistributorQuery.TriggersQualification())
	assert.False(t, ProductQuery.TriggersQualification())
	assert.False(t, OutOfScope.TriggersQualification())
	assert.False(t, GeneralEnquiry.TriggersQualification())
}
