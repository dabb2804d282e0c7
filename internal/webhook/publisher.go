// Package webhook publishes partner lifecycle events to registered consumers.
// Delivery is fire-and-forget; the resolver never consumes acknowledgements.
package webhook

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"bpagent/internal/partner/models"
	"bpagent/internal/platform/kafka/producer"
	dErrors "bpagent/pkg/domain-errors"
)

// EventType identifies a webhook event.
type EventType string

// EventTypePartnerAdded is published when a partner's public profile was resolved.
const EventTypePartnerAdded EventType = "partner-added"

// Envelope is the wire format for webhook events.
type Envelope struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// PartnerAddedPayload is the payload of a partner-added event.
type PartnerAddedPayload struct {
	DID                    string                     `json:"did"`
	Valid                  bool                       `json:"valid"`
	VerifiablePresentation map[string]any             `json:"verifiablePresentation"`
	Credentials            []PartnerCredentialPayload `json:"credentials,omitempty"`
}

// PartnerCredentialPayload is one disclosed credential within the payload.
type PartnerCredentialPayload struct {
	Type string         `json:"type"`
	Data map[string]any `json:"credentialData,omitempty"`
}

// kafkaProducer is the producer dependency, satisfied by both the franz-go
// backed producer and the noop producer.
type kafkaProducer interface {
	Produce(ctx context.Context, msg *producer.Message) error
}

// Publisher converts resolved profiles into webhook events on a Kafka topic.
type Publisher struct {
	producer kafkaProducer
	topic    string
	logger   *slog.Logger
}

// NewPublisher creates a webhook publisher on the given topic.
func NewPublisher(p kafkaProducer, topic string, logger *slog.Logger) *Publisher {
	return &Publisher{
		producer: p,
		topic:    topic,
		logger:   logger,
	}
}

// PartnerAdded publishes a partner-added event carrying the resolved profile.
func (p *Publisher) PartnerAdded(ctx context.Context, profile models.ResolvedProfile) error {
	payload := PartnerAddedPayload{
		DID:                    profile.DID,
		Valid:                  profile.Valid,
		VerifiablePresentation: profile.VerifiablePresentation,
	}
	for _, cred := range profile.Credentials {
		payload.Credentials = append(payload.Credentials, PartnerCredentialPayload{
			Type: string(cred.Type),
			Data: cred.Data,
		})
	}

	envelope := Envelope{
		ID:        uuid.NewString(),
		Type:      EventTypePartnerAdded,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}

	value, err := json.Marshal(envelope)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "marshal webhook event")
	}

	msg := &producer.Message{
		Topic: p.topic,
		Key:   []byte(profile.DID),
		Value: value,
		Headers: map[string]string{
			"event-type": string(EventTypePartnerAdded),
		},
	}
	if err := p.producer.Produce(ctx, msg); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "publish webhook event")
	}

	if p.logger != nil {
		p.logger.DebugContext(ctx, "published webhook event",
			"event_type", EventTypePartnerAdded,
			"did", profile.DID,
		)
	}
	return nil
}
