package events

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"bpagent/internal/partner/models"
	"bpagent/internal/partner/store"
	"bpagent/internal/platform/kafka/consumer"
)

// Dispatcher schedules resolution tasks without blocking the caller.
type Dispatcher interface {
	ResolveFromProofAsync(proof models.ProofRecord)
	ReconcileIncomingAsync(partner models.Partner)
}

// Handler consumes triggering events and dispatches them to the resolver.
// Malformed events are logged and committed; they would fail on every
// redelivery and must not block the partition.
type Handler struct {
	dispatcher Dispatcher
	store      store.Store
	logger     *slog.Logger
	validate   *validator.Validate
}

// NewHandler creates an event handler.
func NewHandler(dispatcher Dispatcher, st store.Store, logger *slog.Logger) *Handler {
	return &Handler{
		dispatcher: dispatcher,
		store:      st,
		logger:     logger,
		validate:   validator.New(),
	}
}

// Handle implements consumer.Handler.
func (h *Handler) Handle(ctx context.Context, msg *consumer.Message) error {
	var envelope Envelope
	if err := json.Unmarshal(msg.Value, &envelope); err != nil {
		h.logWarn(ctx, "skipping malformed event", "offset", msg.Offset, "error", err)
		return nil
	}
	if err := h.validate.Struct(envelope); err != nil {
		h.logWarn(ctx, "skipping invalid event envelope", "offset", msg.Offset, "error", err)
		return nil
	}

	switch envelope.Type {
	case TypeProofReceived:
		return h.handleProofReceived(ctx, envelope.Payload)
	case TypeConnectionObserved:
		return h.handleConnectionObserved(ctx, envelope.Payload)
	default:
		h.logWarn(ctx, "skipping event of unknown type", "event_type", envelope.Type)
		return nil
	}
}

func (h *Handler) handleProofReceived(ctx context.Context, payload json.RawMessage) error {
	var event ProofReceived
	if err := json.Unmarshal(payload, &event); err != nil {
		h.logWarn(ctx, "skipping malformed proof event", "error", err)
		return nil
	}
	if err := h.validate.Struct(event); err != nil {
		h.logWarn(ctx, "skipping invalid proof event", "error", err)
		return nil
	}

	h.dispatcher.ResolveFromProofAsync(models.ProofRecord{
		PartnerID: event.PartnerID,
		SchemaID:  event.SchemaID,
		Proof:     event.Proof,
	})
	return nil
}

func (h *Handler) handleConnectionObserved(ctx context.Context, payload json.RawMessage) error {
	var event ConnectionObserved
	if err := json.Unmarshal(payload, &event); err != nil {
		h.logWarn(ctx, "skipping malformed connection event", "error", err)
		return nil
	}
	if err := h.validate.Struct(event); err != nil {
		h.logWarn(ctx, "skipping invalid connection event", "error", err)
		return nil
	}

	partner, err := h.store.FindByID(ctx, event.PartnerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.logWarn(ctx, "connection event for unknown partner", "partner_id", event.PartnerID)
			return nil
		}
		// Transient store failure: skip the commit so the event is redelivered.
		return err
	}
	if !partner.Incoming {
		return nil
	}

	h.dispatcher.ReconcileIncomingAsync(partner)
	return nil
}

func (h *Handler) logWarn(ctx context.Context, msg string, args ...any) {
	if h.logger != nil {
		h.logger.WarnContext(ctx, msg, args...)
	}
}
