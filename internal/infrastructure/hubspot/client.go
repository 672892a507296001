// Package hubspot pushes completed leads into the HubSpot CRM:
// contact upsert by email, company create, and the association
// between the two.
package hubspot

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"hc-lead-agent/chat-api/internal/domain/lead"
)

// Client implements lead.CRM against the HubSpot v3 CRM API. A client
// built without a token disables itself: pushes are skipped with a
// warning instead of failing the hand-off.
type Client struct {
	httpClient *resty.Client
	enabled    bool
	log        zerolog.Logger
}

// NewClient creates a Resty-backed HubSpot client.
func NewClient(baseURL, token string, log zerolog.Logger) *Client {
	return &Client{
		httpClient: resty.New().
			SetBaseURL(baseURL).
			SetHeader("Content-Type", "application/json").
			SetAuthToken(token).
			SetTimeout(15 * time.Second),
		enabled: token != "",
		log:     log.With().Str("component", "hubspot").Logger(),
	}
}

type objectRequest struct {
	Properties map[string]string `json:"properties"`
}

type objectResponse struct {
	ID string `json:"id"`
}

type searchRequest struct {
	FilterGroups []filterGroup `json:"filterGroups"`
	Limit        int           `json:"limit"`
}

type filterGroup struct {
	Filters []filter `json:"filters"`
}

type filter struct {
	PropertyName string `json:"propertyName"`
	Operator     string `json:"operator"`
	Value        string `json:"value"`
}

type searchResponse struct {
	Results []objectResponse `json:"results"`
}

// PushLead upserts the contact, creates the company when one was
// given, and associates the two. Partial success is success: a failed
// company step still leaves a usable contact behind.
func (c *Client) PushLead(ctx context.Context, rec lead.Record) error {
	if !c.enabled {
		c.log.Warn().Str("conversation_id", rec.ConversationID).Msg("hubspot token not configured, skipping CRM push")
		return nil
	}

	contactID, err := c.upsertContact(ctx, rec)
	if err != nil {
		return fmt.Errorf("hubspot contact upsert: %w", err)
	}

	company := rec.Get(lead.FieldCompany)
	if company == "" {
		return nil
	}

	companyID, err := c.createCompany(ctx, company)
	if err != nil {
		c.log.Error().Err(err).Str("conversation_id", rec.ConversationID).Msg("hubspot company create failed")
		return nil
	}
	if err := c.associate(ctx, contactID, companyID); err != nil {
		c.log.Error().Err(err).Str("conversation_id", rec.ConversationID).Msg("hubspot association failed")
	}
	return nil
}

// upsertContact searches by email first and patches the match; a miss
// falls through to a plain create.
func (c *Client) upsertContact(ctx context.Context, rec lead.Record) (string, error) {
	props := map[string]string{
		"email":     rec.Get(lead.FieldEmail),
		"firstname": rec.Get(lead.FieldFirstName),
		"lastname":  rec.Get(lead.FieldLastName),
		"phone":     rec.Get(lead.FieldPhone),
		"address":   rec.Get(lead.FieldAddress),
	}

	var found searchResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(searchRequest{
			FilterGroups: []filterGroup{{Filters: []filter{{
				PropertyName: "email",
				Operator:     "EQ",
				Value:        props["email"],
			}}}},
			Limit: 1,
		}).
		SetResult(&found).
		Post("/crm/v3/objects/contacts/search")
	if err != nil {
		return "", err
	}
	if resp.IsSuccess() && len(found.Results) > 0 {
		existingID := found.Results[0].ID
		var updated objectResponse
		resp, err := c.httpClient.R().
			SetContext(ctx).
			SetBody(objectRequest{Properties: props}).
			SetResult(&updated).
			Patch("/crm/v3/objects/contacts/" + existingID)
		if err != nil {
			return "", err
		}
		if resp.IsError() {
			return "", fmt.Errorf("contact update error (%d): %s", resp.StatusCode(), resp.String())
		}
		return existingID, nil
	}

	var created objectResponse
	resp, err = c.httpClient.R().
		SetContext(ctx).
		SetBody(objectRequest{Properties: props}).
		SetResult(&created).
		Post("/crm/v3/objects/contacts")
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("contact create error (%d): %s", resp.StatusCode(), resp.String())
	}
	return created.ID, nil
}

func (c *Client) createCompany(ctx context.Context, name string) (string, error) {
	var created objectResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(objectRequest{Properties: map[string]string{"name": name}}).
		SetResult(&created).
		Post("/crm/v3/objects/companies")
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("company create error (%d): %s", resp.StatusCode(), resp.String())
	}
	return created.ID, nil
}

func (c *Client) associate(ctx context.Context, contactID, companyID string) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		Put(fmt.Sprintf("/crm/v3/objects/contacts/%s/associations/companies/%s/contact_to_company", contactID, companyID))
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("association error (%d): %s", resp.StatusCode(), resp.String())
	}
	return nil
}

var _ lead.CRM = (*Client)(nil)
