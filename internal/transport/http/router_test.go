package httptransport

import (
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	clienthandler "vise/internal/client/handler"
	clientservice "vise/internal/client/service"
	clientstore "vise/internal/client/store"

	"vise/internal/card"
	"vise/internal/history"
	historyhandler "vise/internal/history/handler"
	purchasehandler "vise/internal/purchase/handler"
	purchaseservice "vise/internal/purchase/service"
	"vise/pkg/testutil"
)

func newTestRouter(t *testing.T, publicDir string) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := card.DefaultConfig()
	clients := clientstore.NewInMemory()
	recorder := history.NewRecorder(100)

	clientSvc := clientservice.New(clients, card.NewEligibilityEvaluator(cfg))
	purchaseSvc := purchaseservice.New(clients, cfg)

	return NewRouter(Deps{
		Logger:          logger,
		Recorder:        recorder,
		ClientHandler:   clienthandler.New(clientSvc, logger),
		PurchaseHandler: purchasehandler.New(purchaseSvc, logger),
		HistoryHandler:  historyhandler.New(recorder, logger),
		PublicDir:       publicDir,
	})
}

func TestRegistrationThenPurchaseFlow(t *testing.T) {
	router := newTestRouter(t, "")

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/client", map[string]any{
		"name":          "Ana Torres",
		"country":       "Chile",
		"monthlyIncome": 2500,
		"viseClub":      true,
		"cardType":      "Black",
	}))
	testutil.AssertStatus(t, rr, http.StatusCreated)
	created := testutil.UnmarshalResponse[struct {
		ClientID int    `json:"clientId"`
		Status   string `json:"status"`
	}](t, rr)
	if created.Status != "Registered" {
		t.Fatalf("expected status Registered, got %q", created.Status)
	}

	// 2024-01-08 is a Monday, Black gets 25% over 100
	rr = testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/purchase", map[string]any{
		"clientId":        created.ClientID,
		"amount":          200,
		"currency":        "USD",
		"purchaseDate":    "2024-01-08",
		"purchaseCountry": "Chile",
	}))
	testutil.AssertStatus(t, rr, http.StatusOK)
	testutil.AssertJSONContains(t, rr, "status", "Approved")

	approved := testutil.UnmarshalResponse[struct {
		Purchase struct {
			DiscountApplied float64 `json:"discountApplied"`
			FinalAmount     float64 `json:"finalAmount"`
		} `json:"purchase"`
	}](t, rr)
	if approved.Purchase.DiscountApplied != 50 || approved.Purchase.FinalAmount != 150 {
		t.Fatalf("unexpected amounts: %+v", approved.Purchase)
	}
}

func TestRegistrationRejectsInsufficientIncome(t *testing.T) {
	router := newTestRouter(t, "")

	// Black requires a monthly income of at least 2000
	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/client", map[string]any{
		"name":          "Ana Torres",
		"country":       "Chile",
		"monthlyIncome": 1500,
		"viseClub":      true,
		"cardType":      "Black",
	}))
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
	testutil.AssertErrorCode(t, rr, "validation_failed")
}

func TestRouterRecordsHistory(t *testing.T) {
	router := newTestRouter(t, "")

	testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/clients"))
	testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/clients"))

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/api/stats"))
	testutil.AssertStatus(t, rr, http.StatusOK)

	stats := testutil.UnmarshalResponse[struct {
		TotalRequests int            `json:"totalRequests"`
		MethodCounts  map[string]int `json:"methodCounts"`
	}](t, rr)
	if stats.TotalRequests != 2 {
		t.Fatalf("expected 2 recorded requests, got %d", stats.TotalRequests)
	}
	if stats.MethodCounts["GET"] != 2 {
		t.Fatalf("expected 2 GETs recorded, got %d", stats.MethodCounts["GET"])
	}
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t, "")

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/healthz"))
	testutil.AssertStatus(t, rr, http.StatusOK)
	testutil.AssertJSONContains(t, rr, "status", "ok")
	testutil.AssertJSONContains(t, rr, "store", "memory")
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t, "")

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/metrics"))
	testutil.AssertStatus(t, rr, http.StatusOK)
}

func TestMalformedJSONBody(t *testing.T) {
	router := newTestRouter(t, "")

	rr := testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodPost, "/client", `{"name": "Ana"`))
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
	testutil.AssertErrorCode(t, rr, "bad_request")
}

func TestNotFoundReturnsJSON(t *testing.T) {
	router := newTestRouter(t, "")

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/nope"))
	testutil.AssertStatus(t, rr, http.StatusNotFound)
	testutil.AssertErrorCode(t, rr, "not_found")
}

func TestStaticServing(t *testing.T) {
	dir := t.TempDir()
	index := []byte("<html><body>VISE</body></html>")
	if err := os.WriteFile(filepath.Join(dir, "index.html"), index, 0o644); err != nil {
		t.Fatalf("failed to write index: %v", err)
	}
	router := newTestRouter(t, dir)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/"))
	testutil.AssertStatus(t, rr, http.StatusOK)
	if body := rr.Body.String(); body != string(index) {
		t.Fatalf("unexpected index body: %q", body)
	}

	// unknown files under a configured public dir still 404 as JSON
	rr = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/missing.css"))
	testutil.AssertStatus(t, rr, http.StatusNotFound)
}

func TestCORSHeaders(t *testing.T) {
	router := newTestRouter(t, "")

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodOptions, "/client"))
	if rr.Code != http.StatusNoContent && rr.Code != http.StatusOK {
		t.Fatalf("expected preflight to short-circuit, got %d", rr.Code)
	}
	if rr.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Fatalf("expected CORS headers on preflight response")
	}
}
