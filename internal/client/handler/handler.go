package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"vise/internal/card"
	"vise/internal/client/models"
	"vise/pkg/platform/httputil"
	"vise/pkg/requestcontext"
)

// Service defines the interface for client operations.
type Service interface {
	Register(ctx context.Context, profile card.Profile, tier card.Tier) (*models.Client, error)
	List(ctx context.Context) ([]models.Client, error)
}

// Handler wires client endpoints to the client service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a client handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts client endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/client", h.HandleRegister)
	r.Get("/clients", h.HandleList)
}

// RegisterResponse is the HTTP response body for a successful registration.
type RegisterResponse struct {
	ClientID int    `json:"clientId"`
	Name     string `json:"name"`
	CardType string `json:"cardType"`
	Status   string `json:"status"`
	Message  string `json:"message"`
}

// HandleRegister handles POST /client requests.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[RegisterClientRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	client, err := h.service.Register(ctx, req.Profile(), req.ParsedTier())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "client registration accepted",
		"request_id", requestID,
		"client_id", client.ClientID,
		"card_type", client.CardType,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusCreated, RegisterResponse{
		ClientID: client.ClientID,
		Name:     client.Name,
		CardType: string(client.CardType),
		Status:   "Registered",
		Message:  fmt.Sprintf("client eligible for %s card", client.CardType),
	})
}

// HandleList handles GET /clients requests.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	clients, err := h.service.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list clients",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, clients)
}
