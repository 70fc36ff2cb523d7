package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"vise/internal/card"
	"vise/internal/purchase/service"
	"vise/pkg/platform/httputil"
	"vise/pkg/requestcontext"
)

// Service defines the interface for purchase operations.
type Service interface {
	Process(ctx context.Context, clientID int, purchase card.Purchase) (*service.Result, error)
}

// Handler wires purchase endpoints to the purchase service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a purchase handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts purchase endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/purchase", h.HandleProcess)
}

// ProcessResponse is the HTTP response body for an approved purchase.
type ProcessResponse struct {
	Status   string          `json:"status"`
	Purchase PurchaseDetails `json:"purchase"`
}

// PurchaseDetails echoes the priced purchase back to the caller.
type PurchaseDetails struct {
	ClientID        int     `json:"clientId"`
	OriginalAmount  float64 `json:"originalAmount"`
	DiscountApplied float64 `json:"discountApplied"`
	FinalAmount     float64 `json:"finalAmount"`
	Benefit         string  `json:"benefit"`
}

// HandleProcess handles POST /purchase requests.
func (h *Handler) HandleProcess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[ProcessPurchaseRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Process(ctx, *req.ClientID, req.Purchase())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "purchase processed",
		"request_id", requestID,
		"client_id", result.ClientID,
		"currency", req.Currency,
		"final_amount", result.FinalAmount,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, ProcessResponse{
		Status: "Approved",
		Purchase: PurchaseDetails{
			ClientID:        result.ClientID,
			OriginalAmount:  result.OriginalAmount,
			DiscountApplied: result.DiscountApplied,
			FinalAmount:     result.FinalAmount,
			Benefit:         result.Benefit,
		},
	})
}
