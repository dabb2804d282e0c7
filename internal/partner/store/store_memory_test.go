package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"bpagent/internal/partner/models"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.ctx = context.Background()
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) seed(partner models.Partner) models.Partner {
	require.NoError(s.T(), s.store.Save(s.ctx, partner))
	saved, err := s.store.FindByID(s.ctx, partner.ID)
	require.NoError(s.T(), err)
	return saved
}

func (s *InMemoryStoreSuite) TestFindByIDMissing() {
	_, err := s.store.FindByID(s.ctx, uuid.New())
	s.ErrorIs(err, ErrNotFound)
}

func (s *InMemoryStoreSuite) TestSaveAndFind() {
	partner := models.Partner{
		ID:       uuid.New(),
		DID:      "did:sov:abc",
		Label:    "Acme",
		Incoming: true,
	}
	saved := s.seed(partner)

	s.Equal(partner.DID, saved.DID)
	s.Equal(partner.Label, saved.Label)
	s.True(saved.Incoming)
	s.False(saved.Resolved())
}

func (s *InMemoryStoreSuite) TestUpdateMissing() {
	err := s.store.Update(s.ctx, models.Partner{ID: uuid.New()})
	s.ErrorIs(err, ErrNotFound)
}

func (s *InMemoryStoreSuite) TestUpdateVerifiablePresentation() {
	partner := s.seed(models.Partner{ID: uuid.New(), DID: "did:sov:abc", Label: "Acme"})

	vp := map[string]any{"type": "VerifiablePresentation"}
	s.Require().NoError(s.store.UpdateVerifiablePresentation(s.ctx, partner.ID, vp, true))

	updated, err := s.store.FindByID(s.ctx, partner.ID)
	s.Require().NoError(err)
	s.True(updated.Resolved())
	s.True(updated.Valid)
	s.Equal("did:sov:abc", updated.DID, "presentation update must not touch the DID")
	s.Equal("Acme", updated.Label, "presentation update must not touch the label")
}

func (s *InMemoryStoreSuite) TestUpdateResolved() {
	partner := s.seed(models.Partner{ID: uuid.New(), Label: "did:sov:abc:Acme"})

	vp := map[string]any{"type": "VerifiablePresentation"}
	s.Require().NoError(s.store.UpdateResolved(s.ctx, partner.ID, vp, true, "Acme", "did:sov:abc"))

	updated, err := s.store.FindByID(s.ctx, partner.ID)
	s.Require().NoError(err)
	s.True(updated.Resolved())
	s.True(updated.Valid)
	s.Equal("did:sov:abc", updated.DID)
	s.Equal("Acme", updated.Label)
}

func (s *InMemoryStoreSuite) TestUpdatePreservesCreatedAt() {
	partner := s.seed(models.Partner{ID: uuid.New(), Label: "Acme"})

	partner.Label = "Acme GmbH"
	s.Require().NoError(s.store.Update(s.ctx, partner))

	updated, err := s.store.FindByID(s.ctx, partner.ID)
	s.Require().NoError(err)
	s.Equal("Acme GmbH", updated.Label)
	s.Equal(partner.CreatedAt, updated.CreatedAt)
}
