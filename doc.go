// Package chatapi implements the chat-api service: a conversation
// orchestration engine for the PolyMedicure lead-generation assistant.
//
// The service provides:
//   - Session management with idle expiry and a sliding history window
//   - Retrieval-grounded answering over a Chroma knowledge base
//   - Few-shot intent classification via Gemini
//   - A consent-first lead qualification dialogue with field validation
//   - Lead hand-off to HubSpot, SMTP notification and PostgreSQL audit
package chatapi
