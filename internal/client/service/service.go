package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"vise/internal/audit"
	"vise/internal/card"
	clientmetrics "vise/internal/client/metrics"
	"vise/internal/client/models"
	"vise/internal/observability"
	dErrors "vise/pkg/domain-errors"
	"vise/pkg/platform/sentinel"
	"vise/pkg/requestcontext"
)

// Store persists client records. Implementations live in internal/client/store.
type Store interface {
	Create(ctx context.Context, client *models.Client) error
	FindByID(ctx context.Context, clientID int) (*models.Client, error)
	List(ctx context.Context) ([]models.Client, error)
}

// Service orchestrates client registration: eligibility evaluation first,
// persistence only on acceptance.
type Service struct {
	store     Store
	evaluator *card.EligibilityEvaluator
	logger    *slog.Logger
	metrics   *clientmetrics.Metrics
	audit     *audit.Publisher
	tracer    *observability.TracerProvider
}

// Option configures optional service dependencies.
type Option func(*Service)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics sets the client module metrics.
func WithMetrics(m *clientmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithAudit sets the audit event publisher.
func WithAudit(p *audit.Publisher) Option {
	return func(s *Service) { s.audit = p }
}

// WithTracer sets the tracer provider for registration spans.
func WithTracer(tp *observability.TracerProvider) Option {
	return func(s *Service) { s.tracer = tp }
}

// New creates a client service over the given store and evaluator.
func New(store Store, evaluator *card.EligibilityEvaluator, opts ...Option) *Service {
	s := &Service{store: store, evaluator: evaluator}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register evaluates eligibility for the requested tier and persists the
// client on acceptance. Rejections come back as validation errors carrying
// the evaluator's message; the profile is never stored in that case.
func (s *Service) Register(ctx context.Context, profile card.Profile, tier card.Tier) (*models.Client, error) {
	start := time.Now()
	defer s.metrics.ObserveRegister(start)

	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.StartSpan(ctx, observability.SpanClientRegister,
			observability.ClientAttrs(string(tier), profile.Country)...)
		defer span.End()
	}

	if err := s.evaluator.Evaluate(profile, tier); err != nil {
		var ee *card.EligibilityError
		if errors.As(err, &ee) {
			if span != nil {
				span.SetAttributes(attribute.String(observability.AttrRejection, string(ee.Reason)))
			}
			s.metrics.IncrementRejected(string(ee.Reason))
			s.emitValidationError(ctx, profile, tier, ee)
			if s.logger != nil {
				s.logger.WarnContext(ctx, "client not eligible",
					"request_id", requestcontext.RequestID(ctx),
					"card_type", tier,
					"reason", ee.Reason,
				)
			}
			return nil, dErrors.Wrap(err, dErrors.CodeValidation, ee.Message)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "eligibility evaluation failed")
	}

	client := &models.Client{
		Name:                profile.Name,
		Country:             profile.Country,
		MonthlyIncome:       profile.MonthlyIncome,
		LoyaltySubscription: profile.LoyaltySubscription,
		CardType:            tier,
	}
	if err := s.store.Create(ctx, client); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store client")
	}

	s.metrics.IncrementRegistered(string(tier))
	s.emitRegistration(ctx, client)
	if s.logger != nil {
		s.logger.InfoContext(ctx, "client registered",
			"request_id", requestcontext.RequestID(ctx),
			"client_id", client.ClientID,
			"card_type", client.CardType,
		)
	}
	return client, nil
}

// Get returns a client by ID.
func (s *Service) Get(ctx context.Context, clientID int) (*models.Client, error) {
	client, err := s.store.FindByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "client not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load client")
	}
	return client, nil
}

// List returns all registered clients.
func (s *Service) List(ctx context.Context) ([]models.Client, error) {
	clients, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list clients")
	}
	return clients, nil
}

func (s *Service) emitRegistration(ctx context.Context, client *models.Client) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Emit(ctx, audit.Event{
		Timestamp: requestcontext.Now(ctx),
		Type:      audit.EventClientRegistration,
		Level:     "INFO",
		Message:   "client registered",
		RequestID: requestcontext.RequestID(ctx),
		ClientID:  client.ClientID,
		CardType:  string(client.CardType),
		Country:   client.Country,
	})
}

func (s *Service) emitValidationError(ctx context.Context, profile card.Profile, tier card.Tier, ee *card.EligibilityError) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Emit(ctx, audit.Event{
		Timestamp: requestcontext.Now(ctx),
		Type:      audit.EventValidationError,
		Level:     "WARNING",
		Message:   ee.Message,
		RequestID: requestcontext.RequestID(ctx),
		CardType:  string(tier),
		Country:   profile.Country,
		Reason:    string(ee.Reason),
	})
}
