// Package mailer delivers the new-lead notification email over SMTP
// with STARTTLS.
package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog"

	"hc-lead-agent/chat-api/internal/domain/lead"
)

// Mailer implements lead.Notifier over plain SMTP. Missing host or
// recipient configuration disables delivery rather than erroring.
type Mailer struct {
	host      string
	port      int
	username  string
	password  string
	recipient string
	log       zerolog.Logger
}

// New creates the SMTP mailer.
func New(host string, port int, username, password, recipient string, log zerolog.Logger) *Mailer {
	return &Mailer{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		recipient: recipient,
		log:       log.With().Str("component", "mailer").Logger(),
	}
}

// SendLeadNotification emails the lead summary to the care mailbox.
// Returns false on any failure; the caller treats delivery as
// best-effort.
func (m *Mailer) SendLeadNotification(ctx context.Context, rec lead.Record) bool {
	if m.host == "" || m.recipient == "" {
		m.log.Warn().Msg("smtp not configured, skipping lead notification")
		return false
	}

	subject := m.subject(rec)
	body := m.body(rec)
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		m.username, m.recipient, subject, body)

	if err := m.send(ctx, msg); err != nil {
		m.log.Error().Err(err).Str("conversation_id", rec.ConversationID).Msg("lead notification email failed")
		return false
	}
	m.log.Info().Str("conversation_id", rec.ConversationID).Msg("lead notification email sent")
	return true
}

func (m *Mailer) subject(rec lead.Record) string {
	name := strings.TrimSpace(rec.Get(lead.FieldFirstName) + " " + rec.Get(lead.FieldLastName))
	subject := "New Lead: " + name
	if company := rec.Get(lead.FieldCompany); company != "" {
		subject += " (" + company + ")"
	}
	return subject
}

func (m *Mailer) body(rec lead.Record) string {
	var sb strings.Builder
	sb.WriteString("A new lead was qualified by the chat assistant.\r\n\r\n")
	for _, f := range lead.Fields {
		if v := rec.Get(f.Key); v != "" {
			sb.WriteString(f.Label + ": " + v + "\r\n")
		}
	}
	sb.WriteString("\r\nConversation: " + rec.ConversationID + "\r\n")
	return sb.String()
}

// send dials, upgrades with STARTTLS, authenticates and submits.
// net/smtp has no context support, so the dial honours ctx and the
// rest rides on the connection deadline.
func (m *Mailer) send(ctx context.Context, msg string) error {
	addr := fmt.Sprintf("%s:%d", m.host, m.port)

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("smtp dial: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, m.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: m.host}); err != nil {
			return fmt.Errorf("smtp starttls: %w", err)
		}
	}
	if m.username != "" {
		auth := smtp.PlainAuth("", m.username, m.password, m.host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(m.username); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := client.Rcpt(m.recipient); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write([]byte(msg)); err != nil {
		w.Close()
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close: %w", err)
	}
	return client.Quit()
}

var _ lead.Notifier = (*Mailer)(nil)
