package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"bpagent/internal/partner/models"
)

// PostgresStore persists partners in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed partner store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (models.Partner, error) {
	query := `
		SELECT id, did, label, verifiable_presentation, valid, incoming, created_at, updated_at
		FROM partners
		WHERE id = $1
	`
	partner, err := scanPartner(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Partner{}, ErrNotFound
		}
		return models.Partner{}, fmt.Errorf("find partner by id: %w", err)
	}
	return partner, nil
}

func (s *PostgresStore) Save(ctx context.Context, partner models.Partner) error {
	vpBytes, err := marshalPresentation(partner.VerifiablePresentation)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO partners (id, did, label, verifiable_presentation, valid, incoming, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		ON CONFLICT (id) DO UPDATE SET
			did = EXCLUDED.did,
			label = EXCLUDED.label,
			verifiable_presentation = EXCLUDED.verifiable_presentation,
			valid = EXCLUDED.valid,
			incoming = EXCLUDED.incoming,
			updated_at = now()
	`
	_, err = s.db.ExecContext(ctx, query,
		partner.ID,
		partner.DID,
		partner.Label,
		vpBytes,
		partner.Valid,
		partner.Incoming,
	)
	if err != nil {
		return fmt.Errorf("save partner: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, partner models.Partner) error {
	vpBytes, err := marshalPresentation(partner.VerifiablePresentation)
	if err != nil {
		return err
	}
	query := `
		UPDATE partners
		SET did = $2, label = $3, verifiable_presentation = $4, valid = $5, incoming = $6, updated_at = now()
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query,
		partner.ID,
		partner.DID,
		partner.Label,
		vpBytes,
		partner.Valid,
		partner.Incoming,
	)
	if err != nil {
		return fmt.Errorf("update partner: %w", err)
	}
	return requireRow(result)
}

func (s *PostgresStore) UpdateVerifiablePresentation(ctx context.Context, id uuid.UUID, vp map[string]any, valid bool) error {
	vpBytes, err := marshalPresentation(vp)
	if err != nil {
		return err
	}
	query := `
		UPDATE partners
		SET verifiable_presentation = $2, valid = $3, updated_at = now()
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query, id, vpBytes, valid)
	if err != nil {
		return fmt.Errorf("update partner presentation: %w", err)
	}
	return requireRow(result)
}

func (s *PostgresStore) UpdateResolved(ctx context.Context, id uuid.UUID, vp map[string]any, valid bool, label, did string) error {
	vpBytes, err := marshalPresentation(vp)
	if err != nil {
		return err
	}
	query := `
		UPDATE partners
		SET verifiable_presentation = $2, valid = $3, label = $4, did = $5, updated_at = now()
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query, id, vpBytes, valid, label, did)
	if err != nil {
		return fmt.Errorf("update resolved partner: %w", err)
	}
	return requireRow(result)
}

func marshalPresentation(vp map[string]any) ([]byte, error) {
	if vp == nil {
		return nil, nil
	}
	vpBytes, err := json.Marshal(vp)
	if err != nil {
		return nil, fmt.Errorf("marshal verifiable presentation: %w", err)
	}
	return vpBytes, nil
}

func requireRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type partnerRow interface {
	Scan(dest ...any) error
}

func scanPartner(row partnerRow) (models.Partner, error) {
	var partner models.Partner
	var vpBytes []byte
	if err := row.Scan(
		&partner.ID,
		&partner.DID,
		&partner.Label,
		&vpBytes,
		&partner.Valid,
		&partner.Incoming,
		&partner.CreatedAt,
		&partner.UpdatedAt,
	); err != nil {
		return models.Partner{}, err
	}

	if len(vpBytes) > 0 {
		if err := json.Unmarshal(vpBytes, &partner.VerifiablePresentation); err != nil {
			return models.Partner{}, fmt.Errorf("unmarshal verifiable presentation: %w", err)
		}
	}
	return partner, nil
}
