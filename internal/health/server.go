// Package health tracks dashboard liveness and serves it as JSON.
//
// This package implements:
//   - Uptime monitoring
//   - Last API load and last digest status
//   - The /health handler
package health

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// Status is returned by the /health endpoint.
//
// Fields:
//   - Status: "healthy", or "degraded" when the last API load failed
//   - Uptime: How long the process has been running
//   - LastFetchTime: When the last API load completed
//   - LastFetchStatus: "success" or the error message
//   - LastDigestStatus: "not started", "disabled", "success" or the error
type Status struct {
	Status           string `json:"status"`
	Uptime           string `json:"uptime"`
	LastFetchTime    string `json:"last_fetch_time"`
	LastFetchStatus  string `json:"last_fetch_status"`
	LastDigestStatus string `json:"last_digest_status"`
}

// Monitor tracks application health.
//
// Thread-safety:
//   - All fields are protected by RWMutex
type Monitor struct {
	startTime        time.Time
	lastFetchTime    time.Time
	lastFetchStatus  string
	lastDigestStatus string
	mu               sync.RWMutex
}

// NewMonitor creates a new health monitor.
func NewMonitor() *Monitor {
	return &Monitor{
		startTime:        time.Now(),
		lastFetchStatus:  "not started",
		lastDigestStatus: "not started",
	}
}

// UpdateFetchStatus records the outcome of an API load.
//
// Parameters:
//   - status: "success" or an error message
func (m *Monitor) UpdateFetchStatus(status string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastFetchTime = time.Now()
	m.lastFetchStatus = status
}

// RecordLoad records a controller load; it matches the controller's
// OnLoad hook signature.
func (m *Monitor) RecordLoad(_ string, err error) {
	if err != nil {
		m.UpdateFetchStatus(err.Error())
		return
	}
	m.UpdateFetchStatus("success")
}

// UpdateDigestStatus records the outcome of a digest run.
func (m *Monitor) UpdateDigestStatus(status string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastDigestStatus = status
}

// GetStatus returns the current health status.
func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	lastFetch := ""
	if !m.lastFetchTime.IsZero() {
		lastFetch = m.lastFetchTime.Format("2006-01-02 15:04:05")
	}

	status := "healthy"
	if m.lastFetchStatus != "success" && m.lastFetchStatus != "not started" {
		status = "degraded"
	}

	return Status{
		Status:           status,
		Uptime:           time.Since(m.startTime).Round(time.Second).String(),
		LastFetchTime:    lastFetch,
		LastFetchStatus:  m.lastFetchStatus,
		LastDigestStatus: m.lastDigestStatus,
	}
}

// Handler serves the status as JSON.
//
// Example response:
//
//	{
//	  "status": "healthy",
//	  "uptime": "1h2m3s",
//	  "last_fetch_time": "2026-01-15 10:30:00",
//	  "last_fetch_status": "success",
//	  "last_digest_status": "disabled"
//	}
func (m *Monitor) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(m.GetStatus())
	}
}
