// Package responses defines the HTTP response payloads.
package responses

// SessionResponse is returned when a new chat session is created.
type SessionResponse struct {
	SessionID string `json:"session_id"`
}

// ProgressResponse reports qualification progress.
type ProgressResponse struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// ChatResponse is the reply to one submitted turn.
type ChatResponse struct {
	SessionID    string            `json:"session_id"`
	Reply        string            `json:"reply"`
	Intent       string            `json:"intent"`
	LeadStatus   string            `json:"lead_status"`
	QuickReplies []string          `json:"quick_replies,omitempty"`
	Progress     *ProgressResponse `json:"progress,omitempty"`
}

// HealthResponse reports service and knowledge-base health.
type HealthResponse struct {
	Status   string `json:"status"`
	Service  string `json:"service"`
	KBChunks int    `json:"kb_chunks"`
}
