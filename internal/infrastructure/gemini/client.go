// Package gemini is the Resty-backed client for the Gemini REST API.
// It backs all three model-facing capabilities: grounded chat
// generation, single-turn completion for classification, and query
// embeddings.
package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"hc-lead-agent/chat-api/internal/domain/conversation"
)

const systemInstruction = `You are the PolyMedicure virtual assistant, a friendly and professional
chatbot for a healthcare medical-device manufacturer.

Rules:
- Answer ONLY from the retrieved context when it is provided. If the context
  does not contain the answer, say you don't have that information and offer
  to connect the user with the sales team.
- Keep answers concise (2-4 short paragraphs max) and format with Markdown.
- Never invent product specifications, certifications, or prices.
- Stay on topic: healthcare devices, distribution, and PolyMedicure.`

const groundingTemplate = "[RETRIEVED CONTEXT - use this to answer]\n%s\n\n[USER QUESTION]\n%s"

// Client talks to the Gemini generateContent and embedContent
// endpoints. The API key is sent as a query parameter per the REST
// contract.
type Client struct {
	httpClient     *resty.Client
	apiKey         string
	model          string
	embeddingModel string
}

// NewClient creates a Resty-backed Gemini client.
func NewClient(baseURL, apiKey, model, embeddingModel string) *Client {
	return &Client{
		httpClient: resty.New().
			SetBaseURL(baseURL).
			SetHeader("Content-Type", "application/json").
			SetTimeout(60 * time.Second),
		apiKey:         apiKey,
		model:          model,
		embeddingModel: embeddingModel,
	}
}

type generateRequest struct {
	SystemInstruction *content         `json:"system_instruction,omitempty"`
	Contents          []content        `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

type embedRequest struct {
	Model    string  `json:"model"`
	Content  content `json:"content"`
	TaskType string  `json:"taskType"`
}

type embedResponse struct {
	Embedding struct {
		Values []float64 `json:"values"`
	} `json:"embedding"`
}

// Generate produces a grounded chat reply from the conversation
// history. When grounding is non-empty it is folded into the final
// user turn so the model sees context and question as one unit.
func (c *Client) Generate(ctx context.Context, history []conversation.Turn, grounding string) (string, error) {
	contents := make([]content, 0, len(history))
	for i, turn := range history {
		role := "user"
		if turn.Role == conversation.RoleAgent {
			role = "model"
		}
		text := turn.Text
		if grounding != "" && i == len(history)-1 && turn.Role == conversation.RoleUser {
			text = fmt.Sprintf(groundingTemplate, grounding, turn.Text)
		}
		contents = append(contents, content{Role: role, Parts: []part{{Text: text}}})
	}

	return c.generate(ctx, generateRequest{
		SystemInstruction: &content{Parts: []part{{Text: systemInstruction}}},
		Contents:          contents,
		GenerationConfig:  generationConfig{Temperature: 0.5, MaxOutputTokens: 1024},
	})
}

// Complete runs a bare single-turn completion with a low temperature
// and a tight token cap, used for intent classification.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, generateRequest{
		Contents:         []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{Temperature: 0.1, MaxOutputTokens: 50},
	})
}

func (c *Client) generate(ctx context.Context, req generateRequest) (string, error) {
	var out generateResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetBody(req).
		SetResult(&out).
		Post(fmt.Sprintf("/v1beta/models/%s:generateContent", c.model))
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("gemini api error: %s", resp.String())
	}

	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}
	var sb strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return strings.TrimSpace(sb.String()), nil
}

// Embed returns the query embedding for text, using the retrieval
// query task type so vectors match the ingestion-side document space.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	var out embedResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetBody(embedRequest{
			Model:    "models/" + c.embeddingModel,
			Content:  content{Parts: []part{{Text: text}}},
			TaskType: "RETRIEVAL_QUERY",
		}).
		SetResult(&out).
		Post(fmt.Sprintf("/v1beta/models/%s:embedContent", c.embeddingModel))
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("gemini api error: %s", resp.String())
	}
	return out.Embedding.Values, nil
}
