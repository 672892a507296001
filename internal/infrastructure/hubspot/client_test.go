package hubspot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hc-lead-agent/chat-api/internal/domain/lead"
)

func testRecord(company string) lead.Record {
	fields := map[lead.FieldKey]string{
		lead.FieldFirstName: "Priya",
		lead.FieldLastName:  "Sharma",
		lead.FieldEmail:     "priya@acme.com",
		lead.FieldPhone:     "9876543210",
		lead.FieldAddress:   "12 MG Road, Bengaluru",
	}
	if company != "" {
		fields[lead.FieldCompany] = company
	}
	return lead.Record{ConversationID: "conv_test", Fields: fields}
}

func TestPushLead_DisabledWithoutToken(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", zerolog.Nop())

	err := c.PushLead(context.Background(), testRecord("Acme"))
	require.NoError(t, err)
	assert.Equal(t, 0, hits, "a disabled client must not call the API")
}

func TestPushLead_ExistingContactIsPatched(t *testing.T) {
	var patched objectRequest
	patchCalled := false

	mux := http.NewServeMux()
	mux.HandleFunc("/crm/v3/objects/contacts/search", func(w http.ResponseWriter, r *http.Request) {
		var req searchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.FilterGroups, 1)
		assert.Equal(t, "email", req.FilterGroups[0].Filters[0].PropertyName)
		assert.Equal(t, "EQ", req.FilterGroups[0].Filters[0].Operator)
		assert.Equal(t, "priya@acme.com", req.FilterGroups[0].Filters[0].Value)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(searchResponse{Results: []objectResponse{{ID: "c-42"}}})
	})
	mux.HandleFunc("/crm/v3/objects/contacts/c-42", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		patchCalled = true
		require.NoError(t, json.NewDecoder(r.Body).Decode(&patched))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(objectResponse{ID: "c-42"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(srv.URL, "test-token", zerolog.Nop())

	err := c.PushLead(context.Background(), testRecord(""))
	require.NoError(t, err)
	assert.True(t, patchCalled, "a search hit must update, not create")
	assert.Equal(t, "Priya", patched.Properties["firstname"])
	assert.Equal(t, "Sharma", patched.Properties["lastname"])
	assert.Equal(t, "9876543210", patched.Properties["phone"])
}

func TestPushLead_NewContactWithCompanyIsAssociated(t *testing.T) {
	created := false
	associated := false

	mux := http.NewServeMux()
	mux.HandleFunc("/crm/v3/objects/contacts/search", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(searchResponse{})
	})
	mux.HandleFunc("/crm/v3/objects/contacts", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		created = true

		var req objectRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "priya@acme.com", req.Properties["email"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(objectResponse{ID: "c-7"})
	})
	mux.HandleFunc("/crm/v3/objects/companies", func(w http.ResponseWriter, r *http.Request) {
		var req objectRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Acme", req.Properties["name"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(objectResponse{ID: "co-9"})
	})
	mux.HandleFunc("/crm/v3/objects/contacts/c-7/associations/companies/co-9/contact_to_company", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		associated = true
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(srv.URL, "test-token", zerolog.Nop())

	err := c.PushLead(context.Background(), testRecord("Acme"))
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, associated)
}

func TestPushLead_SkipsCompanyWhenAbsent(t *testing.T) {
	companyCalled := false

	mux := http.NewServeMux()
	mux.HandleFunc("/crm/v3/objects/contacts/search", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(searchResponse{})
	})
	mux.HandleFunc("/crm/v3/objects/contacts", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(objectResponse{ID: "c-7"})
	})
	mux.HandleFunc("/crm/v3/objects/companies", func(w http.ResponseWriter, r *http.Request) {
		companyCalled = true
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(srv.URL, "test-token", zerolog.Nop())

	err := c.PushLead(context.Background(), testRecord(""))
	require.NoError(t, err)
	assert.False(t, companyCalled, "a skipped company field must not create a company")
}

func TestPushLead_CompanyFailureStillSucceeds(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/crm/v3/objects/contacts/search", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(searchResponse{})
	})
	mux.HandleFunc("/crm/v3/objects/contacts", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(objectResponse{ID: "c-7"})
	})
	mux.HandleFunc("/crm/v3/objects/companies", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream error", http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(srv.URL, "test-token", zerolog.Nop())

	// The contact landed; a failed company step must not fail the push.
	err := c.PushLead(context.Background(), testRecord("Acme"))
	assert.NoError(t, err)
}

func TestPushLead_ContactFailureIsAnError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/crm/v3/objects/contacts/search", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(searchResponse{})
	})
	mux.HandleFunc("/crm/v3/objects/contacts", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(srv.URL, "test-token", zerolog.Nop())

	err := c.PushLead(context.Background(), testRecord(""))
	assert.Error(t, err)
}
