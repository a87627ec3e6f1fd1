package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamed0406/tcpmonitor/internal/config"
	"github.com/hamed0406/tcpmonitor/internal/domain"
	"github.com/hamed0406/tcpmonitor/internal/httpapi"
)

func writeTargets(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "targets.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	t.Setenv("TARGETS", "")
	dir := t.TempDir()
	return config.Config{
		LogDir:         filepath.Join(dir, "logs"),
		LogLevel:       "info",
		StatsDir:       filepath.Join(dir, "stats"),
		TargetsFile:    writeTargets(t, "targets:\n  - service: Web\n    hostname: example.com\n    port: 443\n"),
		SocketTimeout:  5 * time.Second,
		ProbeInterval:  2 * time.Second,
		ReportInterval: 5 * time.Minute,
	}
}

func TestPreflight_Passes(t *testing.T) {
	cfg := testConfig(t)
	cfg.Addr = ":8080"

	var out, errOut bytes.Buffer
	require.NoError(t, preflight(&out, &errOut, &cfg))

	assert.Contains(t, out.String(), "✔ 1 targets")
	assert.Contains(t, out.String(), "preflight passed")
	assert.Empty(t, errOut.String())
	assert.DirExists(t, cfg.StatsDir)
}

func TestPreflight_WarnsWithoutAPI(t *testing.T) {
	cfg := testConfig(t)

	var out, errOut bytes.Buffer
	require.NoError(t, preflight(&out, &errOut, &cfg))
	assert.Contains(t, errOut.String(), "⚠ API_ADDR is empty")
}

func TestPreflight_FailsWithoutTargets(t *testing.T) {
	cfg := testConfig(t)
	cfg.TargetsFile = writeTargets(t, "targets: []\n")

	var out, errOut bytes.Buffer
	err := preflight(&out, &errOut, &cfg)
	require.ErrorIs(t, err, errPreflight)
	assert.Contains(t, errOut.String(), "✖")
	assert.NotContains(t, out.String(), "preflight passed")
}

func TestPreflight_InlineTargetsWin(t *testing.T) {
	cfg := testConfig(t)
	t.Setenv("TARGETS", "A=a.example:80,B=b.example:443")

	var out, errOut bytes.Buffer
	require.NoError(t, preflight(&out, &errOut, &cfg))
	assert.Contains(t, out.String(), "✔ 2 targets")
}

func TestRenderTargets(t *testing.T) {
	var buf bytes.Buffer
	renderTargets(&buf, []domain.Target{
		{Service: "Google", Hostname: "google.com", Port: 443},
		{Service: "Local DB", Hostname: "127.0.0.1", Port: 5432},
	})

	s := buf.String()
	assert.Contains(t, s, "Service")
	assert.Contains(t, s, "google.com")
	assert.Contains(t, s, "Local DB")
	assert.Contains(t, s, "5432")
	assert.Less(t, strings.Index(s, "Google"), strings.Index(s, "Local DB"))
}

func TestFetchAndRenderStats(t *testing.T) {
	want := httpapi.StatsResponse{Services: []domain.ReportRecord{
		{Service: "Web", Counts: domain.Buckets{ConnFast: 4, DNSFast: 4, ConnFail: 1, DNSFail: 1, Total: 5}},
		{Service: "Idle"},
	}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/stats" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(want)
	}))
	defer srv.Close()

	got, err := fetchStats(context.Background(), srv.URL+"/")
	require.NoError(t, err)
	require.Len(t, got.Services, 2)
	assert.Equal(t, want.Services[0].Counts, got.Services[0].Counts)

	var buf bytes.Buffer
	renderStats(&buf, got)
	s := buf.String()
	assert.Contains(t, s, "ConnFailed")
	assert.Contains(t, s, "Web")
	assert.Contains(t, s, "Idle")
}

func TestFetchStats_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := fetchStats(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"run", "targets", "preflight", "stats"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
}
