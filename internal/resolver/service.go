// Package resolver reconciles the public DID and profile of connection
// partners whose identity is not known at connection time. Resolution runs as
// a fire-and-forget task per triggering event; every failure is contained
// here and the partner simply stays unresolved until a future event retries.
package resolver

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"bpagent/internal/clients/diddoc"
	"bpagent/internal/partner/models"
	"bpagent/internal/partner/store"
	"bpagent/internal/resolver/metrics"
	"bpagent/internal/resolver/tracer"
)

// ProfileLookup resolves a partner's public profile by DID.
type ProfileLookup interface {
	Lookup(ctx context.Context, did string) (models.ResolvedProfile, error)
}

// NotificationSink publishes partner lifecycle events.
type NotificationSink interface {
	PartnerAdded(ctx context.Context, profile models.ResolvedProfile) error
}

// Option configures the resolver service.
type Option func(*Service)

// Service resolves partner identities from commercial register proofs and
// incoming connections. Entry points never return errors to their trigger;
// partners for which no strategy succeeds stay unresolved.
type Service struct {
	store    store.Store
	docs     diddoc.Resolver
	profiles ProfileLookup
	notifier NotificationSink
	logger   *slog.Logger
	tracer   tracer.Tracer
	metrics  *metrics.Metrics

	wg sync.WaitGroup
}

// NewService creates a resolver service with the required dependencies.
func NewService(st store.Store, docs diddoc.Resolver, profiles ProfileLookup, notifier NotificationSink, opts ...Option) *Service {
	svc := &Service{
		store:    st,
		docs:     docs,
		profiles: profiles,
		notifier: notifier,
		tracer:   tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// WithLogger configures a logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer configures a tracer for the service.
func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// WithMetrics configures resolution metrics for the service.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// ResolveFromProofAsync runs ResolveFromProof in its own goroutine. The caller
// does not wait; completion or failure is logged by the task itself.
func (s *Service) ResolveFromProofAsync(proof models.ProofRecord) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.ResolveFromProof(context.Background(), proof)
	}()
}

// ReconcileIncomingAsync runs ReconcileIncoming in its own goroutine.
func (s *Service) ReconcileIncomingAsync(partner models.Partner) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.ReconcileIncoming(context.Background(), partner)
	}()
}

// Wait blocks until all in-flight resolution tasks have finished. Used during
// shutdown so no task is cut off mid-update.
func (s *Service) Wait() {
	s.wg.Wait()
}

// ResolveFromProof tries to resolve the partner's public profile based on the
// DID contained within a commercial register credential proof. All failures
// are absorbed here; the trigger never sees an error.
func (s *Service) ResolveFromProof(ctx context.Context, proof models.ProofRecord) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, tracer.SpanResolveFromProof,
		tracer.String(tracer.AttrPartnerID, proof.PartnerID.String()),
		tracer.String(tracer.AttrSchema, proof.SchemaName()),
	)

	err := s.resolveFromProof(ctx, proof)
	span.End(err)
	if s.metrics != nil {
		s.metrics.ObserveResolutionLatency("proof", time.Since(start).Seconds())
	}
	if err != nil {
		s.logError(ctx, "could not lookup public did", err,
			"partner_id", proof.PartnerID,
			"schema_id", proof.SchemaID,
		)
	}
}

func (s *Service) resolveFromProof(ctx context.Context, proof models.ProofRecord) error {
	if proof.SchemaName() != models.SchemaNameCommercialRegister {
		return nil
	}

	partner, err := s.store.FindByID(ctx, proof.PartnerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}
	if partner.Resolved() || !partner.Incoming {
		return nil
	}

	if s.metrics != nil {
		s.metrics.IncrementAttempted(metrics.StrategyProof)
	}

	// A resolvable DID document means the recorded DID is already public and
	// a future connection reconciliation will pick it up.
	if partner.DID != "" {
		if _, err := s.docs.Resolve(ctx, partner.DID); err == nil {
			return nil
		}
		s.logDebug(ctx, "recorded did not publicly resolvable", "did", partner.DID)
		if s.metrics != nil {
			s.metrics.IncrementLookupFailure("did_document")
		}
	}

	candidate, ok := proof.Proof["did"].(string)
	if !ok || candidate == "" {
		return nil
	}
	s.logDebug(ctx, "resolved candidate did from proof payload", "did", candidate)

	resolved, err := s.profiles.Lookup(ctx, candidate)
	if err != nil {
		if s.metrics != nil {
			s.metrics.IncrementLookupFailure("profile")
		}
		return err
	}

	partner.DID = candidate
	partner.Valid = resolved.Valid
	partner.VerifiablePresentation = resolved.VerifiablePresentation
	partner.Label = ""
	if err := s.store.Update(ctx, partner); err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.IncrementSucceeded(metrics.StrategyProof)
	}
	return nil
}

// ReconcileIncoming tries to resolve an incoming partner's public profile in
// two steps. First the recorded DID is resolved directly; when that yields no
// usable profile, a DID embedded in the connection label is tried instead.
// The label is expected to adhere to the format did:sov:xxx:MyLabel.
func (s *Service) ReconcileIncoming(ctx context.Context, partner models.Partner) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, tracer.SpanReconcileIncoming,
		tracer.String(tracer.AttrPartnerID, partner.ID.String()),
		tracer.String(tracer.AttrDID, partner.DID),
	)

	err := s.reconcileIncoming(ctx, partner)
	span.End(err)
	if s.metrics != nil {
		s.metrics.ObserveResolutionLatency("incoming", time.Since(start).Seconds())
	}
	if err != nil {
		s.logError(ctx, "could not reconcile incoming partner", err,
			"partner_id", partner.ID,
			"did", partner.DID,
		)
	}
}

func (s *Service) reconcileIncoming(ctx context.Context, partner models.Partner) error {
	if resolved, ok := s.lookupPartnerSafe(ctx, partner.DID); ok {
		if err := s.store.UpdateVerifiablePresentation(ctx, partner.ID, resolved.VerifiablePresentation, resolved.Valid); err != nil {
			return err
		}
		if s.metrics != nil {
			s.metrics.IncrementSucceeded(metrics.StrategyDirect)
		}
		s.notifyPartnerAdded(ctx, resolved)
		return nil
	}

	cl := models.SplitLabel(partner.Label)
	if !cl.HasDID() {
		// Neither strategy found a DID. The partner stays unresolved and no
		// notification is sent.
		return nil
	}

	if s.metrics != nil {
		s.metrics.IncrementAttempted(metrics.StrategyLabel)
	}

	resolved, err := s.profiles.Lookup(ctx, cl.DID)
	if err != nil {
		if s.metrics != nil {
			s.metrics.IncrementLookupFailure("profile")
		}
		return err
	}

	if err := s.store.UpdateResolved(ctx, partner.ID, resolved.VerifiablePresentation, resolved.Valid, cl.Label, cl.DID); err != nil {
		return err
	}

	if cred, ok := resolved.FirstCredentialOfType(models.CredentialTypeOrganizationalProfile); ok {
		label := cl.Label
		if legalName, ok := cred.StringField("legalName"); ok && legalName != "" {
			label = legalName
		}
		partner.VerifiablePresentation = resolved.VerifiablePresentation
		partner.Valid = resolved.Valid
		partner.DID = cl.DID
		partner.Label = label
		if err := s.store.Update(ctx, partner); err != nil {
			return err
		}
	}

	if s.metrics != nil {
		s.metrics.IncrementSucceeded(metrics.StrategyLabel)
	}
	s.notifyPartnerAdded(ctx, resolved)
	return nil
}

// lookupPartnerSafe resolves a profile for a DID and swallows lookup failures.
// A profile without a verifiable presentation counts as no result.
func (s *Service) lookupPartnerSafe(ctx context.Context, did string) (models.ResolvedProfile, bool) {
	if did == "" {
		return models.ResolvedProfile{}, false
	}
	if s.metrics != nil {
		s.metrics.IncrementAttempted(metrics.StrategyDirect)
	}
	resolved, err := s.profiles.Lookup(ctx, did)
	if err != nil {
		s.logDebug(ctx, "did could not be resolved", "did", did, "error", err)
		if s.metrics != nil {
			s.metrics.IncrementLookupFailure("profile")
		}
		return models.ResolvedProfile{}, false
	}
	if resolved.VerifiablePresentation == nil {
		return models.ResolvedProfile{}, false
	}
	return resolved, true
}

// notifyPartnerAdded publishes a partner-added event. Delivery failures are
// logged, never propagated; the partner update already happened.
func (s *Service) notifyPartnerAdded(ctx context.Context, resolved models.ResolvedProfile) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.PartnerAdded(ctx, resolved); err != nil {
		s.logError(ctx, "failed to publish partner-added event", err, "did", resolved.DID)
		return
	}
	if s.metrics != nil {
		s.metrics.IncrementNotificationsSent()
	}
}

func (s *Service) logDebug(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.DebugContext(ctx, msg, args...)
	}
}

func (s *Service) logError(ctx context.Context, msg string, err error, args ...any) {
	if s.logger != nil {
		s.logger.ErrorContext(ctx, msg, append([]any{"error", err}, args...)...)
	}
}
