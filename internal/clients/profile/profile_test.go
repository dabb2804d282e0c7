package profile

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bpagent/internal/clients/diddoc"
	"bpagent/internal/partner/models"
	dErrors "bpagent/pkg/domain-errors"
)

// stubResolver serves a fixed document or error.
type stubResolver struct {
	doc *diddoc.Document
	err error
}

func (s *stubResolver) Resolve(_ context.Context, _ string) (*diddoc.Document, error) {
	return s.doc, s.err
}

func TestLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"did": "did:sov:pub123",
			"valid": true,
			"verifiablePresentation": {"type": "VerifiablePresentation"},
			"credentials": [
				{"type": "organizational_profile", "credentialData": {"legalName": "Acme GmbH"}},
				{"type": "commercial_register", "credentialData": {"did": "did:sov:pub123"}}
			]
		}`))
	}))
	defer srv.Close()

	resolver := &stubResolver{doc: &diddoc.Document{
		ID:      "did:sov:pub123",
		Service: []diddoc.Service{{Type: "profile", ServiceEndpoint: srv.URL}},
	}}

	client := New(resolver)
	profile, err := client.Lookup(context.Background(), "did:sov:pub123")
	require.NoError(t, err)

	assert.Equal(t, "did:sov:pub123", profile.DID)
	assert.True(t, profile.Valid)
	assert.NotNil(t, profile.VerifiablePresentation)
	require.Len(t, profile.Credentials, 2)

	cred, ok := profile.FirstCredentialOfType(models.CredentialTypeOrganizationalProfile)
	require.True(t, ok)
	name, _ := cred.StringField("legalName")
	assert.Equal(t, "Acme GmbH", name)
}

func TestLookupFillsMissingDID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"valid": false, "verifiablePresentation": {}}`))
	}))
	defer srv.Close()

	resolver := &stubResolver{doc: &diddoc.Document{
		Service: []diddoc.Service{{Type: "profile", ServiceEndpoint: srv.URL}},
	}}

	client := New(resolver)
	profile, err := client.Lookup(context.Background(), "did:sov:queried")
	require.NoError(t, err)
	assert.Equal(t, "did:sov:queried", profile.DID, "missing DID in the response falls back to the queried DID")
}

func TestLookupUnresolvableDID(t *testing.T) {
	resolver := &stubResolver{err: dErrors.New(dErrors.CodeNotFound, "did not publicly resolvable")}

	client := New(resolver)
	_, err := client.Lookup(context.Background(), "did:sov:private")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestLookupNoProfileEndpoint(t *testing.T) {
	resolver := &stubResolver{doc: &diddoc.Document{
		Service: []diddoc.Service{{Type: "DIDComm", ServiceEndpoint: "https://agent.example.com"}},
	}}

	client := New(resolver)
	_, err := client.Lookup(context.Background(), "did:sov:pub123")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestLookupEndpointFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	resolver := &stubResolver{doc: &diddoc.Document{
		Service: []diddoc.Service{{Type: "profile", ServiceEndpoint: srv.URL}},
	}}

	client := New(resolver)
	_, err := client.Lookup(context.Background(), "did:sov:pub123")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
}

func TestLookupEmptyDID(t *testing.T) {
	client := New(&stubResolver{})
	_, err := client.Lookup(context.Background(), "")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}
