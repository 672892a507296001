// Package requests defines the HTTP request payloads.
package requests

// ChatRequest is the payload for submitting one user turn.
type ChatRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Message   string `json:"message"`
}
