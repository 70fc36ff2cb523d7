// Package history keeps an in-memory record of recent API requests for the
// stats and history endpoints. The record is a fixed-size ring: once full,
// each new request evicts the oldest entry.
package history

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"vise/pkg/requestcontext"
)

// DefaultCapacity is how many requests the recorder retains.
const DefaultCapacity = 100

// Entry is one recorded API request.
type Entry struct {
	ID            int       `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	Method        string    `json:"method"`
	URL           string    `json:"url"`
	StatusCode    int       `json:"statusCode"`
	ExecutionTime string    `json:"executionTime"`
	IP            string    `json:"ip"`
	UserAgent     string    `json:"userAgent"`
}

// Stats is an aggregate view over the retained entries.
type Stats struct {
	Uptime         string         `json:"uptime"`
	TotalRequests  int            `json:"totalRequests"`
	StatusCounts   map[string]int `json:"statusCounts"`
	MethodCounts   map[string]int `json:"methodCounts"`
	RecentRequests []Entry        `json:"recentRequests"`
}

// Recorder retains the most recent requests and derives stats from them.
// Safe for concurrent use.
type Recorder struct {
	mu       sync.RWMutex
	entries  []Entry
	capacity int
	nextID   int
	started  time.Time
}

// NewRecorder creates a recorder retaining up to capacity entries.
// A non-positive capacity falls back to DefaultCapacity.
func NewRecorder(capacity int) *Recorder {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Recorder{
		capacity: capacity,
		nextID:   1,
		started:  time.Now(),
	}
}

// Record appends an entry, assigning it a monotonically increasing ID and
// evicting the oldest entry when the ring is full.
func (r *Recorder) Record(entry Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry.ID = r.nextID
	r.nextID++

	r.entries = append(r.entries, entry)
	if len(r.entries) > r.capacity {
		r.entries = r.entries[1:]
	}
}

// Recent returns the last limit entries, oldest first. A non-positive limit
// returns all retained entries.
func (r *Recorder) Recent(limit int) []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := len(r.entries)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]Entry, limit)
	copy(out, r.entries[n-limit:])
	return out
}

// Total returns how many entries are currently retained.
func (r *Recorder) Total() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Stats aggregates the retained entries. Status codes are bucketed by
// hundreds, matching how dashboards group 2xx/4xx/5xx.
func (r *Recorder) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	statusCounts := make(map[string]int)
	methodCounts := make(map[string]int)
	for _, e := range r.entries {
		bucket := strconv.Itoa(e.StatusCode / 100 * 100)
		statusCounts[bucket]++
		methodCounts[e.Method]++
	}

	n := len(r.entries)
	recent := n
	if recent > 10 {
		recent = 10
	}
	recentRequests := make([]Entry, recent)
	copy(recentRequests, r.entries[n-recent:])

	return Stats{
		Uptime:         fmt.Sprintf("%ds", int(time.Since(r.started).Seconds())),
		TotalRequests:  n,
		StatusCounts:   statusCounts,
		MethodCounts:   methodCounts,
		RecentRequests: recentRequests,
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Middleware records every request passing through it. Mount it after the
// request metadata middleware so IP and user agent are already resolved.
func (r *Recorder) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		sw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, req)

		ctx := req.Context()
		ip := requestcontext.ClientIP(ctx)
		if ip == "" {
			ip = req.RemoteAddr
		}
		ua := requestcontext.UserAgent(ctx)
		if ua == "" {
			ua = req.UserAgent()
		}
		if len(ua) > 50 {
			ua = ua[:50] + "..."
		}
		r.Record(Entry{
			Timestamp:     start,
			Method:        req.Method,
			URL:           req.URL.Path,
			StatusCode:    sw.status,
			ExecutionTime: fmt.Sprintf("%dms", time.Since(start).Milliseconds()),
			IP:            ip,
			UserAgent:     ua,
		})
	})
}
