// Package rag implements the retrieval-grounded answer pipeline:
// embed the question, retrieve candidate chunks, filter by similarity
// and generate a grounded reply.
package rag

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"hc-lead-agent/chat-api/internal/domain/conversation"
	"hc-lead-agent/chat-api/internal/infrastructure/metrics"
)

// FallbackMessage is returned whenever no grounding context can be
// obtained at all.
const FallbackMessage = "I don't have specific information about that in my current knowledge base. " +
	"For detailed assistance, please reach out to our sales team at " +
	"**sales@polymedicure.com** or visit [polymedicure.com](https://www.polymedicure.com). " +
	"Is there anything else I can help you with?"

// transientErrorMessage covers generation failures after retrieval has
// already succeeded.
const transientErrorMessage = "I'm having a momentary issue. Please try again in a few seconds."

// lowConfidenceNote is appended to the final user turn when no
// candidate met the similarity threshold. It is passed to generation
// only, never shown to the user.
const lowConfidenceNote = "\n\n[Note: Retrieved context may not perfectly match this query. " +
	"If the context doesn't contain the answer, say so and offer to connect the user with sales.]"

const chunkDelimiter = "\n\n---\n\n"

// Chunk is one retrieved knowledge-base candidate. Distance is a
// unitless similarity score where smaller is more similar.
type Chunk struct {
	Content  string
	Source   string
	Title    string
	Distance float64
}

// Embedder produces a query embedding for free text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Retriever returns the top-k candidate chunks for a query vector.
type Retriever interface {
	Search(ctx context.Context, vector []float64, k int) ([]Chunk, error)
}

// Generator produces a reply from the conversation history with an
// optional grounding context block.
type Generator interface {
	Generate(ctx context.Context, history []conversation.Turn, grounding string) (string, error)
}

// Config tunes retrieval.
type Config struct {
	TopK                int
	SimilarityThreshold float64
}

// Result is the pipeline outcome. Sources lists distinct source
// identifiers in first-seen order.
type Result struct {
	Text         string
	ContextFound bool
	Sources      []string
}

// Pipeline wires the three external capabilities behind a single
// Answer call. Every capability failure degrades to a documented
// fallback; the pipeline never returns an error.
type Pipeline struct {
	embedder  Embedder
	retriever Retriever
	generator Generator
	cfg       Config
	log       zerolog.Logger
}

// NewPipeline builds the answer pipeline.
func NewPipeline(embedder Embedder, retriever Retriever, generator Generator, cfg Config, log zerolog.Logger) *Pipeline {
	if cfg.TopK <= 0 {
		cfg.TopK = 5
	}
	if cfg.SimilarityThreshold <= 0 {
		cfg.SimilarityThreshold = 0.40
	}
	return &Pipeline{
		embedder:  embedder,
		retriever: retriever,
		generator: generator,
		cfg:       cfg,
		log:       log.With().Str("component", "rag-pipeline").Logger(),
	}
}

// Answer runs the full query. history must already end with the user
// turn carrying question; the pipeline never mutates the caller's
// slice.
func (p *Pipeline) Answer(ctx context.Context, question string, history []conversation.Turn) Result {
	vector, err := p.embedder.Embed(ctx, question)
	if err != nil || len(vector) == 0 {
		if err != nil {
			p.log.Error().Err(err).Msg("query embedding failed")
		}
		metrics.RagFallbacksTotal.WithLabelValues("embedding").Inc()
		return Result{Text: FallbackMessage, ContextFound: false, Sources: []string{}}
	}

	chunks, err := p.retriever.Search(ctx, vector, p.cfg.TopK)
	if err != nil {
		p.log.Error().Err(err).Msg("retrieval failed")
		chunks = nil
	}
	if len(chunks) == 0 {
		metrics.RagFallbacksTotal.WithLabelValues("retrieval").Inc()
		return Result{Text: FallbackMessage, ContextFound: false, Sources: []string{}}
	}

	relevant := make([]Chunk, 0, len(chunks))
	for _, c := range chunks {
		if c.Distance < p.cfg.SimilarityThreshold {
			relevant = append(relevant, c)
		}
	}

	// The pipeline always attempts an answer when any candidates
	// exist: below-threshold results fall back to the best two raw
	// candidates, marked low-confidence.
	lowConfidence := false
	if len(relevant) == 0 {
		if len(chunks) > 2 {
			relevant = chunks[:2]
		} else {
			relevant = chunks
		}
		lowConfidence = true
		metrics.RagFallbacksTotal.WithLabelValues("low_confidence").Inc()
	}

	grounding, sources := buildContext(relevant)

	genHistory := history
	if lowConfidence && len(history) > 0 {
		genHistory = make([]conversation.Turn, len(history))
		copy(genHistory, history)
		last := &genHistory[len(genHistory)-1]
		last.Text += lowConfidenceNote
	}

	text, err := p.generator.Generate(ctx, genHistory, grounding)
	if err != nil {
		p.log.Error().Err(err).Msg("grounded generation failed")
		metrics.RagFallbacksTotal.WithLabelValues("generation").Inc()
		return Result{Text: transientErrorMessage, ContextFound: true, Sources: sources}
	}

	return Result{Text: text, ContextFound: true, Sources: sources}
}

// buildContext assembles the grounding block and collects each
// distinct source once, preserving first-seen order.
func buildContext(chunks []Chunk) (string, []string) {
	parts := make([]string, 0, len(chunks))
	sources := make([]string, 0, len(chunks))
	seen := make(map[string]struct{}, len(chunks))
	for _, c := range chunks {
		parts = append(parts, "Source: "+c.Title+" ("+c.Source+")\n"+c.Content)
		// Chunks without a source still ground the answer but add no
		// source entry.
		if _, ok := seen[c.Source]; !ok && c.Source != "" {
			seen[c.Source] = struct{}{}
			sources = append(sources, c.Source)
		}
	}
	return strings.Join(parts, chunkDelimiter), sources
}
