package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMonitor_StartsOffline(t *testing.T) {
	m := NewMonitor(MonitorConfig{ProbeURL: "http://127.0.0.1:1/api/health"})
	require.False(t, m.Online())
}

func TestMonitor_MarkOKFlipsOnline(t *testing.T) {
	m := NewMonitor(MonitorConfig{ProbeURL: "http://127.0.0.1:1/api/health"})

	m.MarkOK()
	require.True(t, m.Online())
}

func TestMonitor_GraceWindowDebouncesOffline(t *testing.T) {
	m := NewMonitor(MonitorConfig{
		ProbeURL:     "http://127.0.0.1:1/api/health",
		OfflineAfter: 80 * time.Millisecond,
	})

	m.MarkOK()
	require.True(t, m.Online())

	// One failed probe inside the grace window must not flip the state.
	m.CheckNow(context.Background())
	require.True(t, m.Online())

	time.Sleep(100 * time.Millisecond)
	m.CheckNow(context.Background())
	require.False(t, m.Online())
}

func TestMonitor_ProbeCountsAnyCompletedExchange(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	m := NewMonitor(MonitorConfig{ProbeURL: server.URL + "/api/health"})

	m.CheckNow(context.Background())
	require.True(t, m.Online())
}

func TestMonitor_SubscribeGetsCurrentStateAndTransitions(t *testing.T) {
	m := NewMonitor(MonitorConfig{
		ProbeURL:     "http://127.0.0.1:1/api/health",
		OfflineAfter: 50 * time.Millisecond,
	})

	var calls []bool
	m.Subscribe(func(online bool) { calls = append(calls, online) })
	require.Equal(t, []bool{false}, calls)

	m.MarkOK()
	require.Equal(t, []bool{false, true}, calls)

	// Same state again: no duplicate notification.
	m.MarkOK()
	require.Equal(t, []bool{false, true}, calls)

	time.Sleep(70 * time.Millisecond)
	m.CheckNow(context.Background())
	require.Equal(t, []bool{false, true, false}, calls)
}

func TestMonitor_PeriodicProbeKeepsStateFresh(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	m := NewMonitor(MonitorConfig{
		ProbeURL:     server.URL + "/api/health",
		PingInterval: 20 * time.Millisecond,
		EvalInterval: 10 * time.Millisecond,
	})
	m.Start()
	defer m.Stop()

	require.Eventually(t, func() bool {
		return m.Online() && hits.Load() >= 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestMonitor_StopIsIdempotent(t *testing.T) {
	m := NewMonitor(MonitorConfig{ProbeURL: "http://127.0.0.1:1/api/health"})
	m.Start()

	m.Stop()
	m.Stop()
}
