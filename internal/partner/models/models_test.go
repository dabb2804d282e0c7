package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchemaName(t *testing.T) {
	cases := []struct {
		name     string
		schemaID string
		want     string
	}{
		{"indy schema id", "F6dB7dMVHUQSC64qemnBi7:2:commercialregister:1.0", "commercialregister"},
		{"three segments", "F6dB7dMVHUQSC64qemnBi7:2:bankaccount", "bankaccount"},
		{"too short", "F6dB7dMVHUQSC64qemnBi7:2", ""},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := ProofRecord{SchemaID: tc.schemaID}
			assert.Equal(t, tc.want, r.SchemaName())
		})
	}
}

func TestPartnerResolved(t *testing.T) {
	assert.False(t, Partner{}.Resolved())
	assert.True(t, Partner{VerifiablePresentation: map[string]any{"type": "VerifiablePresentation"}}.Resolved())
}

func TestFirstCredentialOfType(t *testing.T) {
	profile := ResolvedProfile{
		Credentials: []PartnerCredential{
			{Type: CredentialTypeCommercialRegister, Data: map[string]any{"did": "did:sov:pub"}},
			{Type: CredentialTypeOrganizationalProfile, Data: map[string]any{"legalName": "Acme GmbH"}},
			{Type: CredentialTypeOrganizationalProfile, Data: map[string]any{"legalName": "Later Entry"}},
		},
	}

	cred, ok := profile.FirstCredentialOfType(CredentialTypeOrganizationalProfile)
	assert.True(t, ok)
	name, ok := cred.StringField("legalName")
	assert.True(t, ok)
	assert.Equal(t, "Acme GmbH", name, "order within the profile must be preserved")

	_, ok = ResolvedProfile{}.FirstCredentialOfType(CredentialTypeOrganizationalProfile)
	assert.False(t, ok)
}
