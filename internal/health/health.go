// Package health exposes the watch-mode health endpoint: database and RPC
// reachability plus poll staleness.
package health

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
)

// Pinger is anything whose liveness can be verified with one round trip.
// Both the snapshot store and the RPC client satisfy it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Checker performs health checks on watch-mode dependencies
type Checker struct {
	store          Pinger
	chain          Pinger
	interval       time.Duration
	lastRunTime    time.Time
	lastRunSuccess bool
	mu             sync.RWMutex
}

// NewChecker creates a new health checker. interval is the expected poll
// interval, used to decide whether the last run is stale.
func NewChecker(store, chain Pinger, interval time.Duration) *Checker {
	return &Checker{
		store:    store,
		chain:    chain,
		interval: interval,
	}
}

// UpdateLastRun updates the timestamp and status of the last poll
func (c *Checker) UpdateLastRun(success bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastRunTime = time.Now()
	c.lastRunSuccess = success
}

// CheckStatus represents the health status of a component
type CheckStatus string

const (
	StatusOK       CheckStatus = "ok"
	StatusDegraded CheckStatus = "degraded"
	StatusError    CheckStatus = "error"
)

// Response is the JSON response structure
type Response struct {
	Status    CheckStatus            `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckDetail `json:"checks"`
	Uptime    string                 `json:"uptime,omitempty"`
}

// CheckDetail contains details about a specific health check
type CheckDetail struct {
	Status  CheckStatus `json:"status"`
	Message string      `json:"message,omitempty"`
}

var startTime = time.Now()

// Check performs all health checks and returns the aggregated status
func (c *Checker) Check(ctx context.Context) Response {
	checks := make(map[string]CheckDetail)
	overallStatus := StatusOK

	dbCheck := c.checkPinger(ctx, c.store, "database unreachable")
	checks["database"] = dbCheck
	if dbCheck.Status != StatusOK {
		overallStatus = StatusError
	}

	rpcCheck := c.checkPinger(ctx, c.chain, "RPC endpoint unreachable")
	checks["rpc_endpoint"] = rpcCheck
	if rpcCheck.Status != StatusOK {
		overallStatus = StatusError
	}

	pollCheck := c.checkPoll()
	checks["poll"] = pollCheck
	if pollCheck.Status != StatusOK && overallStatus == StatusOK {
		overallStatus = StatusDegraded
	}

	return Response{
		Status:    overallStatus,
		Timestamp: time.Now(),
		Checks:    checks,
		Uptime:    time.Since(startTime).Round(time.Second).String(),
	}
}

func (c *Checker) checkPinger(ctx context.Context, p Pinger, failMessage string) CheckDetail {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := p.Ping(ctx); err != nil {
		slog.Error("Health check ping failed", "error", err)
		return CheckDetail{
			Status:  StatusError,
			Message: failMessage + ": " + err.Error(),
		}
	}
	return CheckDetail{Status: StatusOK}
}

// checkPoll verifies the last poll happened recently enough and succeeded.
// Grace period is twice the poll interval.
func (c *Checker) checkPoll() CheckDetail {
	c.mu.RLock()
	lastRun := c.lastRunTime
	lastSuccess := c.lastRunSuccess
	c.mu.RUnlock()

	if lastRun.IsZero() {
		return CheckDetail{
			Status:  StatusDegraded,
			Message: "no poll completed yet",
		}
	}
	if time.Since(lastRun) > 2*c.interval {
		return CheckDetail{
			Status:  StatusDegraded,
			Message: "last poll is stale: " + time.Since(lastRun).Round(time.Second).String() + " ago",
		}
	}
	if !lastSuccess {
		return CheckDetail{
			Status:  StatusDegraded,
			Message: "last poll failed",
		}
	}
	return CheckDetail{Status: StatusOK}
}

// Router returns the HTTP router serving /health
func (c *Checker) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		resp := c.Check(req.Context())

		w.Header().Set("Content-Type", "application/json")
		if resp.Status == StatusError {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			slog.Error("Failed to encode health response", "error", err)
		}
	})
	return r
}
