// Package profile looks up a partner's public profile. The profile endpoint is
// discovered through the partner's DID document and serves a verifiable
// presentation together with the disclosed credentials.
package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"bpagent/internal/clients/diddoc"
	"bpagent/internal/partner/models"
	dErrors "bpagent/pkg/domain-errors"
)

// ServiceTypeProfile is the DID document service type carrying the public
// profile endpoint.
const ServiceTypeProfile = "profile"

// Client resolves public partner profiles.
type Client struct {
	resolver   diddoc.Resolver
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

// New creates a profile client that discovers endpoints via the given DID
// document resolver.
func New(resolver diddoc.Resolver, opts ...Option) *Client {
	c := &Client{
		resolver: resolver,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// profileResponse is the wire format served by a partner's profile endpoint.
type profileResponse struct {
	DID                    string            `json:"did"`
	Valid                  bool              `json:"valid"`
	VerifiablePresentation map[string]any    `json:"verifiablePresentation"`
	Credentials            []credentialEntry `json:"credentials"`
}

type credentialEntry struct {
	Type string         `json:"type"`
	Data map[string]any `json:"credentialData"`
}

// Lookup resolves the public profile for a DID. It fails with a domain error
// when the DID has no document, no profile endpoint, or the endpoint cannot be
// reached; callers treat any failure as "no profile".
func (c *Client) Lookup(ctx context.Context, did string) (models.ResolvedProfile, error) {
	if did == "" {
		return models.ResolvedProfile{}, dErrors.New(dErrors.CodeInvalidInput, "did is required")
	}

	doc, err := c.resolver.Resolve(ctx, did)
	if err != nil {
		return models.ResolvedProfile{}, dErrors.Wrap(err, dErrors.CodeNotFound, "resolve did document")
	}

	endpoint, ok := doc.ServiceEndpoint(ServiceTypeProfile)
	if !ok || endpoint == "" {
		return models.ResolvedProfile{}, dErrors.New(dErrors.CodeNotFound, "did document has no profile endpoint")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return models.ResolvedProfile{}, dErrors.Wrap(err, dErrors.CodeInternal, "build profile request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.ResolvedProfile{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "call profile endpoint")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.ResolvedProfile{}, dErrors.New(dErrors.CodeUnavailable, fmt.Sprintf("profile endpoint returned status %d", resp.StatusCode))
	}

	var body profileResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return models.ResolvedProfile{}, dErrors.Wrap(err, dErrors.CodeInternal, "decode profile response")
	}

	profile := models.ResolvedProfile{
		DID:                    body.DID,
		Valid:                  body.Valid,
		VerifiablePresentation: body.VerifiablePresentation,
		Credentials:            make([]models.PartnerCredential, 0, len(body.Credentials)),
	}
	if profile.DID == "" {
		profile.DID = did
	}
	for _, cred := range body.Credentials {
		profile.Credentials = append(profile.Credentials, models.PartnerCredential{
			Type: models.CredentialType(cred.Type),
			Data: cred.Data,
		})
	}

	if c.logger != nil {
		c.logger.DebugContext(ctx, "resolved partner profile",
			"did", did,
			"credentials", len(profile.Credentials),
		)
	}
	return profile, nil
}
