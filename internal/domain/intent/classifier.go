package intent

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Completer is the single-turn generation capability used for the
// few-shot classification call.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

const classificationPrompt = `Classify the user message into EXACTLY ONE of these intents. Reply with only the intent name.

Intents:
- product_query: Asking about a medical product, specification, catalogue, or usage
- distributor_query: Asking about becoming a distributor, dealer, or channel partner
- territory_query: Asking about regions, coverage areas, or geographic availability
- pricing_query: Asking about pricing, discounts, quotes, or payment terms
- sales_intent: Showing intent to buy, partner, or saying they want to proceed with something
- general_enquiry: General greetings, company info, or miscellaneous questions
- out_of_scope: Completely unrelated to healthcare devices or PolyMedicure

Examples:
"Tell me about your cardiology products" → product_query
"How do I become a distributor in Kerala?" → distributor_query
"Do you have dealers in South India?" → territory_query
"What is the price of your IV cannulas?" → pricing_query
"Yes, I'm interested in partnering with you" → sales_intent
"What is your company history?" → general_enquiry
"Tell me a joke" → out_of_scope
"What's the weather today?" → out_of_scope

User message: "%s"

Intent:`

// Classifier routes a free-text message to one label of the closed
// intent set. Classification never fails: a misbehaving external
// classifier degrades to GeneralEnquiry so the turn always continues.
type Classifier struct {
	llm Completer
	log zerolog.Logger
}

// NewClassifier builds the intent classifier.
func NewClassifier(llm Completer, log zerolog.Logger) *Classifier {
	return &Classifier{
		llm: llm,
		log: log.With().Str("component", "intent-classifier").Logger(),
	}
}

// Classify returns the intent for message. The raw model output is
// normalized by case-insensitive substring match against the closed
// set; anything unrecognized, and any capability failure, resolves to
// GeneralEnquiry.
func (c *Classifier) Classify(ctx context.Context, message string) Intent {
	prompt := fmt.Sprintf(classificationPrompt, strings.TrimSpace(message))

	raw, err := c.llm.Complete(ctx, prompt)
	if err != nil {
		c.log.Error().Err(err).Msg("intent classification failed, defaulting to general_enquiry")
		return GeneralEnquiry
	}

	normalized := strings.ToLower(strings.TrimSpace(raw))
	for _, it := range All {
		if strings.Contains(normalized, string(it)) {
			return it
		}
	}

	c.log.Warn().Str("raw", normalized).Msg("unexpected classifier output, defaulting to general_enquiry")
	return GeneralEnquiry
}
