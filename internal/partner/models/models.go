package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// CredentialType classifies the credentials disclosed in a partner's public profile.
type CredentialType string

const (
	// CredentialTypeOrganizationalProfile carries the partner's public master data,
	// including its legal name.
	CredentialTypeOrganizationalProfile CredentialType = "organizational_profile"

	// CredentialTypeCommercialRegister attests a commercial register entry and may
	// embed the partner's public DID in its proof payload.
	CredentialTypeCommercialRegister CredentialType = "commercial_register"

	// SchemaNameCommercialRegister is the schema name that marks a proof as a
	// commercial register credential.
	SchemaNameCommercialRegister = "commercialregister"
)

// Partner is a counterparty record. A nil VerifiablePresentation marks the
// partner as unresolved; resolution logic leaves resolved partners untouched.
type Partner struct {
	ID                     uuid.UUID
	DID                    string
	Label                  string
	VerifiablePresentation map[string]any
	Valid                  bool
	Incoming               bool
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// Resolved reports whether the partner already carries a verifiable presentation.
func (p Partner) Resolved() bool {
	return p.VerifiablePresentation != nil
}

// ProofRecord is a credential proof received from a partner. It is consumed,
// never mutated.
type ProofRecord struct {
	PartnerID uuid.UUID
	SchemaID  string
	Proof     map[string]any
}

// SchemaName returns the display segment of an indy-style schema identifier
// (did:2:name:version). An identifier without a name segment yields "".
func (r ProofRecord) SchemaName() string {
	parts := strings.Split(r.SchemaID, ":")
	if len(parts) < 3 {
		return ""
	}
	return parts[2]
}

// PartnerCredential is one disclosed credential within a resolved profile.
type PartnerCredential struct {
	Type CredentialType
	Data map[string]any
}

// StringField returns a string-typed field from the credential data.
func (c PartnerCredential) StringField(key string) (string, bool) {
	v, ok := c.Data[key].(string)
	return v, ok
}

// ResolvedProfile is the result of a public profile lookup. It is read-only
// input to the reconciliation logic.
type ResolvedProfile struct {
	DID                    string
	Valid                  bool
	VerifiablePresentation map[string]any
	Credentials            []PartnerCredential
}

// FirstCredentialOfType returns the first disclosed credential with the given
// type, preserving the profile's credential order.
func (p ResolvedProfile) FirstCredentialOfType(t CredentialType) (PartnerCredential, bool) {
	for _, cred := range p.Credentials {
		if cred.Type == t {
			return cred, true
		}
	}
	return PartnerCredential{}, false
}
