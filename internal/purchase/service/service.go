package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"vise/internal/audit"
	"vise/internal/card"
	"vise/internal/client/models"
	"vise/internal/observability"
	purchasemetrics "vise/internal/purchase/metrics"
	dErrors "vise/pkg/domain-errors"
	"vise/pkg/platform/sentinel"
	"vise/pkg/requestcontext"
)

// Rejection reasons used for metrics and audit events.
const (
	rejectClientNotFound    = "client_not_found"
	rejectRestrictedCountry = "restricted_country"
	rejectInvalidInput      = "invalid_input"
)

// ClientStore is the read side of client persistence the purchase flow needs.
type ClientStore interface {
	FindByID(ctx context.Context, clientID int) (*models.Client, error)
}

// Result is an approved purchase with its applied benefit.
type Result struct {
	ClientID        int
	OriginalAmount  float64
	DiscountApplied float64
	FinalAmount     float64
	Benefit         string
}

// Service prices purchases for registered clients: restriction gate first,
// then the per-tier discount table.
type Service struct {
	clients    ClientStore
	cfg        *card.Config
	calculator *card.BenefitCalculator
	logger     *slog.Logger
	metrics    *purchasemetrics.Metrics
	audit      *audit.Publisher
	tracer     *observability.TracerProvider
}

// Option configures optional service dependencies.
type Option func(*Service)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics sets the purchase module metrics.
func WithMetrics(m *purchasemetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithAudit sets the audit event publisher.
func WithAudit(p *audit.Publisher) Option {
	return func(s *Service) { s.audit = p }
}

// WithTracer sets the tracer provider for purchase spans.
func WithTracer(tp *observability.TracerProvider) Option {
	return func(s *Service) { s.tracer = tp }
}

// New creates a purchase service over the given client store and rule table.
func New(clients ClientStore, cfg *card.Config, opts ...Option) *Service {
	s := &Service{
		clients:    clients,
		cfg:        cfg,
		calculator: card.NewBenefitCalculator(cfg),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Process looks up the client, applies the restricted-country gate for tiers
// that carry one, and prices the purchase. The stored record is never
// mutated; a purchase is a pure read-plus-compute operation.
func (s *Service) Process(ctx context.Context, clientID int, purchase card.Purchase) (*Result, error) {
	start := time.Now()
	defer s.metrics.ObserveProcess(start)

	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.StartSpan(ctx, observability.SpanPurchaseProcess,
			observability.PurchaseAttrs(clientID, purchase.Amount, purchase.Country)...)
		defer span.End()
	}

	client, err := s.clients.FindByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.metrics.IncrementRejected(rejectClientNotFound)
			s.emitRejection(ctx, clientID, purchase, "", rejectClientNotFound, "client not found")
			return nil, dErrors.New(dErrors.CodeNotFound, "client not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load client")
	}

	if s.cfg.RestrictedPurchase(client.CardType, purchase.Country) {
		msg := fmt.Sprintf("clients with %s card cannot make purchases from %s", client.CardType, purchase.Country)
		if span != nil {
			span.SetAttributes(attribute.String(observability.AttrRejection, rejectRestrictedCountry))
		}
		s.metrics.IncrementRejected(rejectRestrictedCountry)
		s.emitRejection(ctx, clientID, purchase, string(client.CardType), rejectRestrictedCountry, msg)
		if s.logger != nil {
			s.logger.WarnContext(ctx, "purchase blocked by country restriction",
				"request_id", requestcontext.RequestID(ctx),
				"client_id", clientID,
				"card_type", client.CardType,
				"purchase_country", purchase.Country,
			)
		}
		return nil, dErrors.New(dErrors.CodeValidation, msg)
	}

	benefit, err := s.calculator.Calculate(client.CardType, purchase, client.Country)
	if err != nil {
		if errors.Is(err, card.ErrInvalidPurchaseInput) {
			s.metrics.IncrementRejected(rejectInvalidInput)
			return nil, dErrors.Wrap(err, dErrors.CodeValidation, err.Error())
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "benefit calculation failed")
	}

	result := &Result{
		ClientID:        client.ClientID,
		OriginalAmount:  purchase.Amount,
		DiscountApplied: benefit.DiscountApplied,
		FinalAmount:     benefit.FinalAmount,
		Benefit:         benefit.Benefit,
	}

	if span != nil {
		span.SetAttributes(
			attribute.Float64(observability.AttrDiscount, benefit.DiscountApplied),
			attribute.String(observability.AttrBenefit, benefit.Benefit),
		)
	}
	s.metrics.IncrementProcessed(string(client.CardType), benefit.Rate > 0)
	s.metrics.AddDiscount(benefit.DiscountApplied)
	s.emitApproval(ctx, client, result)
	if s.logger != nil {
		s.logger.InfoContext(ctx, "purchase approved",
			"request_id", requestcontext.RequestID(ctx),
			"client_id", client.ClientID,
			"card_type", client.CardType,
			"original_amount", result.OriginalAmount,
			"discount_applied", result.DiscountApplied,
			"final_amount", result.FinalAmount,
			"benefit", result.Benefit,
		)
	}
	return result, nil
}

func (s *Service) emitApproval(ctx context.Context, client *models.Client, result *Result) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Emit(ctx, audit.Event{
		Timestamp:       requestcontext.Now(ctx),
		Type:            audit.EventPurchase,
		Level:           "INFO",
		Message:         "purchase approved",
		RequestID:       requestcontext.RequestID(ctx),
		ClientID:        client.ClientID,
		CardType:        string(client.CardType),
		OriginalAmount:  result.OriginalAmount,
		DiscountApplied: result.DiscountApplied,
		FinalAmount:     result.FinalAmount,
		Benefit:         result.Benefit,
	})
}

func (s *Service) emitRejection(ctx context.Context, clientID int, purchase card.Purchase, cardType, reason, msg string) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Emit(ctx, audit.Event{
		Timestamp:      requestcontext.Now(ctx),
		Type:           audit.EventPurchaseRejected,
		Level:          "WARNING",
		Message:        msg,
		RequestID:      requestcontext.RequestID(ctx),
		ClientID:       clientID,
		CardType:       cardType,
		Country:        purchase.Country,
		OriginalAmount: purchase.Amount,
		Reason:         reason,
	})
}
