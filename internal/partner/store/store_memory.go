package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"bpagent/internal/partner/models"
)

// InMemoryStore is an in-memory implementation of Store for tests or local use.
// It is safe for concurrent access but does not persist across process restarts.
type InMemoryStore struct {
	mu       sync.RWMutex
	partners map[uuid.UUID]models.Partner
}

// NewInMemoryStore constructs an empty in-memory partner store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{partners: make(map[uuid.UUID]models.Partner)}
}

// FindByID retrieves a partner by ID or returns ErrNotFound.
func (s *InMemoryStore) FindByID(_ context.Context, id uuid.UUID) (models.Partner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.partners[id]; ok {
		return p, nil
	}
	return models.Partner{}, ErrNotFound
}

// Save stores or overwrites a partner record by ID.
func (s *InMemoryStore) Save(_ context.Context, partner models.Partner) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if partner.CreatedAt.IsZero() {
		partner.CreatedAt = time.Now()
	}
	partner.UpdatedAt = time.Now()
	s.partners[partner.ID] = partner
	return nil
}

// Update overwrites an existing partner record or returns ErrNotFound.
func (s *InMemoryStore) Update(_ context.Context, partner models.Partner) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.partners[partner.ID]
	if !ok {
		return ErrNotFound
	}
	partner.CreatedAt = existing.CreatedAt
	partner.UpdatedAt = time.Now()
	s.partners[partner.ID] = partner
	return nil
}

// UpdateVerifiablePresentation sets the resolution result on an existing partner.
func (s *InMemoryStore) UpdateVerifiablePresentation(_ context.Context, id uuid.UUID, vp map[string]any, valid bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.partners[id]
	if !ok {
		return ErrNotFound
	}
	p.VerifiablePresentation = vp
	p.Valid = valid
	p.UpdatedAt = time.Now()
	s.partners[id] = p
	return nil
}

// UpdateResolved sets the resolution result together with a new label and DID.
func (s *InMemoryStore) UpdateResolved(_ context.Context, id uuid.UUID, vp map[string]any, valid bool, label, did string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.partners[id]
	if !ok {
		return ErrNotFound
	}
	p.VerifiablePresentation = vp
	p.Valid = valid
	p.Label = label
	p.DID = did
	p.UpdatedAt = time.Now()
	s.partners[id] = p
	return nil
}
