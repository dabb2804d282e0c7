// Package diddoc resolves DID documents through a universal-resolver style
// HTTP endpoint. A failed resolution is the expected signal that a DID is not
// publicly resolvable; callers treat it as "no document".
package diddoc

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	dErrors "bpagent/pkg/domain-errors"
)

// Service is one service entry of a DID document.
type Service struct {
	ID              string `json:"id"`
	Type            string `json:"type"`
	ServiceEndpoint string `json:"serviceEndpoint"`
}

// Document is the subset of a DID document the resolver needs.
type Document struct {
	ID      string    `json:"id"`
	Service []Service `json:"service"`
}

// ServiceEndpoint returns the endpoint of the first service with the given type.
func (d *Document) ServiceEndpoint(serviceType string) (string, bool) {
	for _, svc := range d.Service {
		if strings.EqualFold(svc.Type, serviceType) {
			return svc.ServiceEndpoint, true
		}
	}
	return "", false
}

// Resolver resolves DID documents. Implementations return a domain error with
// CodeNotFound when the DID is not publicly resolvable.
type Resolver interface {
	Resolve(ctx context.Context, did string) (*Document, error)
}

// Client resolves DID documents via HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger configures a logger for the client.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a DID document client against the given resolver base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// resolutionResponse is the universal-resolver wire format.
type resolutionResponse struct {
	DIDDocument *Document `json:"didDocument"`
}

// Resolve fetches the DID document for a DID.
func (c *Client) Resolve(ctx context.Context, did string) (*Document, error) {
	if did == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "did is required")
	}

	endpoint := fmt.Sprintf("%s/1.0/identifiers/%s", c.baseURL, url.PathEscape(did))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "build resolver request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "call did resolver")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, dErrors.New(dErrors.CodeNotFound, "did not publicly resolvable")
	case resp.StatusCode != http.StatusOK:
		return nil, dErrors.New(dErrors.CodeUnavailable, fmt.Sprintf("did resolver returned status %d", resp.StatusCode))
	}

	var body resolutionResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "decode resolver response")
	}
	if body.DIDDocument == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "did not publicly resolvable")
	}

	if c.logger != nil {
		c.logger.DebugContext(ctx, "resolved did document", "did", did)
	}
	return body.DIDDocument, nil
}
