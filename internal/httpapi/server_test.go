package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hamed0406/tcpmonitor/internal/domain"
	"github.com/hamed0406/tcpmonitor/internal/repo/memory"
)

func newTestServer() (*Server, *memory.Store) {
	targets := []domain.Target{
		{Service: "web", Hostname: "web.example", Port: 443},
		{Service: "db", Hostname: "db.example", Port: 5432},
		{Service: "web", Hostname: "web2.example", Port: 443},
	}
	store := memory.New(domain.Services(targets)...)
	clk := clockwork.NewFakeClockAt(time.Date(2025, 8, 18, 12, 0, 0, 0, time.UTC))
	return NewServer(zap.NewNop(), targets, store, clk), store
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer()
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
}

func TestListTargets(t *testing.T) {
	s, _ := newTestServer()
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/targets", nil))

	var got []domain.Target
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Len(t, got, 3)
	require.Equal(t, 5432, got[1].Port)
}

func TestStats_PeekInConfigOrder(t *testing.T) {
	s, store := newTestServer()
	store.Record("web", domain.ProbeOutcome{DNS: 10 * time.Millisecond, Connect: 20 * time.Millisecond})
	store.Record("web", domain.ProbeOutcome{DNSFailed: true})

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))

	var got StatsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Len(t, got.Services, 2)
	require.Equal(t, "web", got.Services[0].Service)
	require.Equal(t, "db", got.Services[1].Service)
	require.Equal(t, domain.Buckets{ConnFast: 1, DNSFast: 1, DNSFail: 1, ConnFail: 1, Total: 2}, got.Services[0].Counts)

	// peeking must not reset the window
	require.EqualValues(t, 2, store.Peek()["web"].Total)
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer()
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.Contains(rec.Body.String(), "go_goroutines"), "default collectors missing")
}
