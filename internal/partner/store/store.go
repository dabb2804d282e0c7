package store

import (
	"context"

	"github.com/google/uuid"

	"bpagent/internal/partner/models"
	pkgerrors "bpagent/pkg/domain-errors"
)

var (
	// ErrNotFound keeps storage-specific 404s consistent across implementations.
	ErrNotFound = pkgerrors.New(pkgerrors.CodeNotFound, "partner not found")
)

// Store persists partner records. Implementations serialize concurrent updates
// to the same partner; callers accept last-write-wins between concurrent
// resolution attempts.
type Store interface {
	FindByID(ctx context.Context, id uuid.UUID) (models.Partner, error)
	Save(ctx context.Context, partner models.Partner) error
	Update(ctx context.Context, partner models.Partner) error

	// UpdateVerifiablePresentation sets the resolution result without touching
	// the partner's DID or label.
	UpdateVerifiablePresentation(ctx context.Context, id uuid.UUID, vp map[string]any, valid bool) error

	// UpdateResolved sets the resolution result together with the label and DID
	// recovered from the connection label.
	UpdateResolved(ctx context.Context, id uuid.UUID, vp map[string]any, valid bool, label, did string) error
}
