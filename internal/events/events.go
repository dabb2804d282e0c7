// Package events decodes triggering events from the event topic and dispatches
// resolution tasks. Dispatch is fire-and-forget: the consumer commits without
// waiting for resolution to finish.
package events

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Event types consumed from the event topic.
const (
	TypeProofReceived      = "proof.received"
	TypeConnectionObserved = "connection.observed"
)

// Envelope is the wire format of a triggering event.
type Envelope struct {
	Type    string          `json:"type" validate:"required"`
	Payload json.RawMessage `json:"payload" validate:"required"`
}

// ProofReceived signals that a credential proof arrived for a partner.
type ProofReceived struct {
	PartnerID uuid.UUID      `json:"partnerId" validate:"required"`
	SchemaID  string         `json:"schemaId" validate:"required"`
	Proof     map[string]any `json:"proof"`
}

// ConnectionObserved signals that a partner connection was established.
type ConnectionObserved struct {
	PartnerID uuid.UUID `json:"partnerId" validate:"required"`
}
