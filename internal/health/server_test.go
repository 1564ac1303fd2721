package health

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialStatus(t *testing.T) {
	s := NewMonitor().GetStatus()
	assert.Equal(t, "healthy", s.Status)
	assert.Equal(t, "not started", s.LastFetchStatus)
	assert.Equal(t, "not started", s.LastDigestStatus)
	assert.Empty(t, s.LastFetchTime)
}

func TestRecordLoad(t *testing.T) {
	m := NewMonitor()

	m.RecordLoad("complaints", fmt.Errorf("request to /complaints failed with status 502"))
	s := m.GetStatus()
	assert.Equal(t, "degraded", s.Status)
	assert.Equal(t, "request to /complaints failed with status 502", s.LastFetchStatus)
	assert.NotEmpty(t, s.LastFetchTime)

	m.RecordLoad("complaints", nil)
	assert.Equal(t, "healthy", m.GetStatus().Status)
}

func TestNilMonitorUpdatesAreNoops(t *testing.T) {
	var m *Monitor
	m.UpdateFetchStatus("success")
	m.UpdateDigestStatus("success")
	m.RecordLoad("x", nil)
}

func TestHandler(t *testing.T) {
	m := NewMonitor()
	m.UpdateDigestStatus("disabled")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "healthy", got["status"])
	assert.Equal(t, "disabled", got["last_digest_status"])
	assert.Contains(t, got, "uptime")
}
