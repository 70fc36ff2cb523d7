// Package httptransport assembles the HTTP surface: middleware chain, domain
// handlers, operational endpoints, and static file serving.
package httptransport

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	clienthandler "vise/internal/client/handler"
	"vise/internal/history"
	historyhandler "vise/internal/history/handler"
	"vise/internal/platform/metrics"
	"vise/internal/platform/middleware"
	platformredis "vise/internal/platform/redis"
	purchasehandler "vise/internal/purchase/handler"
	dErrors "vise/pkg/domain-errors"
	"vise/pkg/platform/httputil"
)

// Deps carries everything the router needs. Nil optional fields disable the
// corresponding feature rather than failing.
type Deps struct {
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Recorder *history.Recorder
	Redis    *platformredis.Client

	ClientHandler   *clienthandler.Handler
	PurchaseHandler *purchasehandler.Handler
	HistoryHandler  *historyhandler.Handler

	// PublicDir is served for GET requests that match no API route. Empty
	// disables static serving.
	PublicDir string
}

// NewRouter builds the full middleware chain and mounts all endpoints.
func NewRouter(deps Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Metadata)
	r.Use(middleware.CORS)
	r.Use(middleware.Logger(deps.Logger))
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics))
	}
	if deps.Recorder != nil {
		r.Use(deps.Recorder.Middleware)
	}

	deps.ClientHandler.Register(r)
	deps.PurchaseHandler.Register(r)
	if deps.HistoryHandler != nil {
		deps.HistoryHandler.Register(r)
	}

	r.Get("/healthz", healthHandler(deps.Redis))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	if deps.PublicDir != "" {
		r.Get("/", serveIndex(deps.PublicDir))
	}
	r.NotFound(notFoundHandler(deps.PublicDir))

	return r
}

// healthHandler reports liveness, including Redis reachability when a client
// is configured.
func healthHandler(redis *platformredis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		health := map[string]string{"status": "ok", "store": "memory"}
		if redis != nil {
			health["store"] = "redis"
			if err := redis.Health(r.Context()); err != nil {
				health["status"] = "degraded"
				health["store_error"] = "redis unavailable"
				httputil.WriteJSON(w, http.StatusServiceUnavailable, health)
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, health)
	}
}

func serveIndex(publicDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, filepath.Join(publicDir, "index.html"))
	}
}

// notFoundHandler falls back to static files from the public directory for
// GET requests, and returns a JSON 404 otherwise. Path traversal is cut off
// by rejecting anything that escapes the public directory after cleaning.
func notFoundHandler(publicDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if publicDir != "" && r.Method == http.MethodGet {
			clean := filepath.Clean(r.URL.Path)
			if !strings.Contains(clean, "..") {
				candidate := filepath.Join(publicDir, clean)
				if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
					http.ServeFile(w, r, candidate)
					return
				}
			}
		}
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "route not found"))
	}
}
