package diddoc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "bpagent/pkg/domain-errors"
)

func TestResolve(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/1.0/identifiers/did:sov:pub123", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"didDocument": {
				"id": "did:sov:pub123",
				"service": [
					{"id": "did:sov:pub123#profile", "type": "profile", "serviceEndpoint": "https://acme.example.com/profile.json"}
				]
			}
		}`))
	}))
	defer srv.Close()

	client := New(srv.URL)
	doc, err := client.Resolve(context.Background(), "did:sov:pub123")
	require.NoError(t, err)
	assert.Equal(t, "did:sov:pub123", doc.ID)

	endpoint, ok := doc.ServiceEndpoint("profile")
	require.True(t, ok)
	assert.Equal(t, "https://acme.example.com/profile.json", endpoint)
}

func TestResolveNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := New(srv.URL)
	_, err := client.Resolve(context.Background(), "did:sov:private")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestResolveNilDocumentIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"didDocument": null}`))
	}))
	defer srv.Close()

	client := New(srv.URL)
	_, err := client.Resolve(context.Background(), "did:sov:private")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestResolveServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := New(srv.URL)
	_, err := client.Resolve(context.Background(), "did:sov:pub123")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
}

func TestResolveEmptyDID(t *testing.T) {
	client := New("http://localhost:0")
	_, err := client.Resolve(context.Background(), "")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestServiceEndpointMatchesCaseInsensitive(t *testing.T) {
	doc := &Document{Service: []Service{
		{Type: "DIDComm", ServiceEndpoint: "https://agent.example.com"},
		{Type: "Profile", ServiceEndpoint: "https://acme.example.com/profile.json"},
	}}

	endpoint, ok := doc.ServiceEndpoint("profile")
	require.True(t, ok)
	assert.Equal(t, "https://acme.example.com/profile.json", endpoint)

	_, ok = doc.ServiceEndpoint("messaging")
	assert.False(t, ok)
}
