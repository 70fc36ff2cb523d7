package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"vise/internal/card"
	"vise/internal/client/models"
	"vise/internal/client/store"
	"vise/internal/purchase/service"
)

func newPurchaseRouter(t *testing.T) (chi.Router, *store.InMemory) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clients := store.NewInMemory()
	svc := service.New(clients, card.DefaultConfig())
	router := chi.NewRouter()
	New(svc, logger).Register(router)
	return router, clients
}

func seedClient(t *testing.T, s *store.InMemory, tier card.Tier, country string) int {
	t.Helper()
	client := &models.Client{
		Name:                "Test Client",
		Country:             country,
		MonthlyIncome:       3000,
		LoyaltySubscription: true,
		CardType:            tier,
	}
	if err := s.Create(context.Background(), client); err != nil {
		t.Fatalf("failed to seed client: %v", err)
	}
	return client.ClientID
}

func postPurchase(t *testing.T, router chi.Router, payload map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/purchase", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestProcessPurchase(t *testing.T) {
	router, clients := newPurchaseRouter(t)
	clientID := seedClient(t, clients, card.TierPlatinum, "Chile")

	// 2024-01-06 is a Saturday
	rec := postPurchase(t, router, map[string]any{
		"clientId":        clientID,
		"amount":          250,
		"currency":        "USD",
		"purchaseDate":    "2024-01-06T14:00:00Z",
		"purchaseCountry": "Chile",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 processing purchase, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Status   string `json:"status"`
		Purchase struct {
			ClientID        int     `json:"clientId"`
			OriginalAmount  float64 `json:"originalAmount"`
			DiscountApplied float64 `json:"discountApplied"`
			FinalAmount     float64 `json:"finalAmount"`
			Benefit         string  `json:"benefit"`
		} `json:"purchase"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "Approved" {
		t.Fatalf("expected status Approved, got %q", resp.Status)
	}
	if resp.Purchase.DiscountApplied != 75 {
		t.Fatalf("expected discount 75, got %v", resp.Purchase.DiscountApplied)
	}
	if resp.Purchase.FinalAmount != 175 {
		t.Fatalf("expected final amount 175, got %v", resp.Purchase.FinalAmount)
	}
	if resp.Purchase.Benefit != "Saturday discount 30%" {
		t.Fatalf("unexpected benefit label %q", resp.Purchase.Benefit)
	}
}

func TestProcessPurchaseDateOnly(t *testing.T) {
	router, clients := newPurchaseRouter(t)
	clientID := seedClient(t, clients, card.TierGold, "Chile")

	// 2024-01-08 is a Monday
	rec := postPurchase(t, router, map[string]any{
		"clientId":        clientID,
		"amount":          150,
		"currency":        "USD",
		"purchaseDate":    "2024-01-08",
		"purchaseCountry": "Chile",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for date-only purchaseDate, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Mon/Tue/Wed discount 15%") {
		t.Fatalf("expected Gold weekday benefit, got %s", rec.Body.String())
	}
}

func TestProcessPurchaseClientNotFound(t *testing.T) {
	router, _ := newPurchaseRouter(t)

	rec := postPurchase(t, router, map[string]any{
		"clientId":        999,
		"amount":          100,
		"currency":        "USD",
		"purchaseDate":    "2024-01-08",
		"purchaseCountry": "Chile",
	})

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown client, got %d", rec.Code)
	}
}

func TestProcessPurchaseRestrictedCountry(t *testing.T) {
	router, clients := newPurchaseRouter(t)
	clientID := seedClient(t, clients, card.TierBlack, "Chile")

	rec := postPurchase(t, router, map[string]any{
		"clientId":        clientID,
		"amount":          100,
		"currency":        "USD",
		"purchaseDate":    "2024-01-08",
		"purchaseCountry": "China",
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for restricted country, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Black") || !strings.Contains(rec.Body.String(), "China") {
		t.Fatalf("expected error naming card and country, got %s", rec.Body.String())
	}
}

func TestProcessPurchaseMissingFields(t *testing.T) {
	router, clients := newPurchaseRouter(t)
	clientID := seedClient(t, clients, card.TierClassic, "Chile")

	cases := []struct {
		name    string
		payload map[string]any
	}{
		{"no clientId", map[string]any{"amount": 100, "currency": "USD", "purchaseDate": "2024-01-08", "purchaseCountry": "Chile"}},
		{"no amount", map[string]any{"clientId": clientID, "currency": "USD", "purchaseDate": "2024-01-08", "purchaseCountry": "Chile"}},
		{"no currency", map[string]any{"clientId": clientID, "amount": 100, "purchaseDate": "2024-01-08", "purchaseCountry": "Chile"}},
		{"no purchaseDate", map[string]any{"clientId": clientID, "amount": 100, "currency": "USD", "purchaseCountry": "Chile"}},
		{"no purchaseCountry", map[string]any{"clientId": clientID, "amount": 100, "currency": "USD", "purchaseDate": "2024-01-08"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postPurchase(t, router, tc.payload)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400 for %s, got %d", tc.name, rec.Code)
			}
		})
	}
}

func TestProcessPurchaseBadDate(t *testing.T) {
	router, clients := newPurchaseRouter(t)
	clientID := seedClient(t, clients, card.TierClassic, "Chile")

	rec := postPurchase(t, router, map[string]any{
		"clientId":        clientID,
		"amount":          100,
		"currency":        "USD",
		"purchaseDate":    "08/01/2024",
		"purchaseCountry": "Chile",
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed date, got %d", rec.Code)
	}
}

func TestProcessPurchaseNegativeAmount(t *testing.T) {
	router, clients := newPurchaseRouter(t)
	clientID := seedClient(t, clients, card.TierClassic, "Chile")

	rec := postPurchase(t, router, map[string]any{
		"clientId":        clientID,
		"amount":          -10,
		"currency":        "USD",
		"purchaseDate":    "2024-01-08",
		"purchaseCountry": "Chile",
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative amount, got %d", rec.Code)
	}
}
