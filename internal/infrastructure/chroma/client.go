// Package chroma is the Resty-backed client for the Chroma vector
// database, used as the knowledge-base retriever.
package chroma

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"hc-lead-agent/chat-api/internal/domain/rag"
)

// Client queries one Chroma collection. The collection id is resolved
// lazily on first use via get_or_create and cached.
type Client struct {
	httpClient *resty.Client
	collection string

	mu           sync.Mutex
	collectionID string
}

// NewClient creates a Resty-backed Chroma client for the named
// collection.
func NewClient(baseURL, collection string) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	return &Client{
		httpClient: resty.New().
			SetBaseURL(baseURL).
			SetHeader("Content-Type", "application/json").
			SetTimeout(15 * time.Second),
		collection: collection,
	}
}

type collectionResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type queryRequest struct {
	QueryEmbeddings [][]float64 `json:"query_embeddings"`
	NResults        int         `json:"n_results"`
	Include         []string    `json:"include"`
}

// queryResponse carries parallel arrays: the outer index is the query,
// the inner index the candidate rank.
type queryResponse struct {
	Documents [][]string         `json:"documents"`
	Metadatas [][]map[string]any `json:"metadatas"`
	Distances [][]float64        `json:"distances"`
}

type countResponse int

// Search implements rag.Retriever against Chroma's query endpoint.
func (c *Client) Search(ctx context.Context, vector []float64, k int) ([]rag.Chunk, error) {
	collectionID, err := c.resolveCollection(ctx)
	if err != nil {
		return nil, err
	}

	var out queryResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(queryRequest{
			QueryEmbeddings: [][]float64{vector},
			NResults:        k,
			Include:         []string{"documents", "metadatas", "distances"},
		}).
		SetResult(&out).
		Post(fmt.Sprintf("/api/v1/collections/%s/query", collectionID))
	if err != nil {
		return nil, fmt.Errorf("chroma query request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("chroma query error (%d): %s", resp.StatusCode(), resp.String())
	}

	if len(out.Documents) == 0 {
		return nil, nil
	}

	docs := out.Documents[0]
	chunks := make([]rag.Chunk, 0, len(docs))
	for i, doc := range docs {
		chunk := rag.Chunk{Content: doc}
		if len(out.Distances) > 0 && i < len(out.Distances[0]) {
			chunk.Distance = out.Distances[0][i]
		}
		if len(out.Metadatas) > 0 && i < len(out.Metadatas[0]) {
			meta := out.Metadatas[0][i]
			if v, ok := meta["source_url"].(string); ok {
				chunk.Source = v
			}
			if v, ok := meta["page_title"].(string); ok {
				chunk.Title = v
			}
		}
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}

// Count reports the number of indexed chunks, used by the health
// endpoint.
func (c *Client) Count(ctx context.Context) (int, error) {
	collectionID, err := c.resolveCollection(ctx)
	if err != nil {
		return 0, err
	}

	var out countResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&out).
		Get(fmt.Sprintf("/api/v1/collections/%s/count", collectionID))
	if err != nil {
		return 0, fmt.Errorf("chroma count request failed: %w", err)
	}
	if resp.IsError() {
		return 0, fmt.Errorf("chroma count error (%d): %s", resp.StatusCode(), resp.String())
	}
	return int(out), nil
}

// resolveCollection resolves and caches the collection id. Chroma
// addresses collections by id, not name, so one round-trip is needed
// before the first query.
func (c *Client) resolveCollection(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.collectionID != "" {
		return c.collectionID, nil
	}

	var out collectionResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(map[string]any{"name": c.collection, "get_or_create": true}).
		SetResult(&out).
		Post("/api/v1/collections")
	if err != nil {
		return "", fmt.Errorf("chroma collection request failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("chroma collection error (%d): %s", resp.StatusCode(), resp.String())
	}
	if out.ID == "" {
		return "", fmt.Errorf("chroma returned empty collection id")
	}

	c.collectionID = out.ID
	return c.collectionID, nil
}

var _ rag.Retriever = (*Client)(nil)
