package client

import (
	"context"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	defaultOfflineAfter = 30 * time.Second
	defaultPingInterval = 15 * time.Second
	defaultEvalInterval = 5 * time.Second
	probeTimeout        = 4 * time.Second
)

// MonitorConfig tunes the connectivity state machine.
type MonitorConfig struct {
	// ProbeURL is the health endpoint hit by the active probe.
	ProbeURL   string
	HTTPClient *http.Client
	// OfflineAfter is the grace window: the state flips to offline only
	// once this much time has passed since the last known-good exchange,
	// so a single missed probe never flaps the state.
	OfflineAfter time.Duration
	PingInterval time.Duration
	EvalInterval time.Duration
}

// Monitor is an explicit connectivity state container with two inputs —
// passive marks from completed HTTP exchanges and an active periodic
// probe — and one debounced online/offline output, observable through
// Subscribe.
type Monitor struct {
	cfg MonitorConfig

	mu     sync.Mutex
	lastOK time.Time
	online bool
	subs   []func(online bool)

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func NewMonitor(cfg MonitorConfig) *Monitor {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: probeTimeout}
	}
	if cfg.OfflineAfter <= 0 {
		cfg.OfflineAfter = defaultOfflineAfter
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = defaultPingInterval
	}
	if cfg.EvalInterval <= 0 {
		cfg.EvalInterval = defaultEvalInterval
	}

	return &Monitor{
		cfg:  cfg,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// Start launches the probe and evaluation tickers. An initial probe runs
// immediately so a reachable server is recognized without waiting a full
// interval.
func (m *Monitor) Start() {
	go m.run()
}

// Stop halts the tickers. Safe to call more than once.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
	<-m.done
}

// MarkOK is the passive signal: any completed HTTP exchange — error
// responses with a body included — proves the server is reachable.
func (m *Monitor) MarkOK() {
	m.mu.Lock()
	m.lastOK = time.Now()
	m.mu.Unlock()
	m.evaluate()
}

// Online reports the current debounced state.
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// Subscribe registers an observer invoked on every online/offline
// transition, and immediately with the current state.
func (m *Monitor) Subscribe(fn func(online bool)) {
	m.mu.Lock()
	m.subs = append(m.subs, fn)
	online := m.online
	m.mu.Unlock()
	fn(online)
}

// CheckNow fires one active probe. A reachable server refreshes the
// known-good timestamp; failures only surface through the grace window.
func (m *Monitor) CheckNow(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.cfg.ProbeURL, nil)
	if err != nil {
		zap.L().Debug("health probe request failed", zap.Error(err))
		return
	}

	resp, err := m.cfg.HTTPClient.Do(req)
	if err != nil {
		m.evaluate()
		return
	}
	_ = resp.Body.Close()

	// A completed exchange counts regardless of status code.
	m.MarkOK()
}

func (m *Monitor) run() {
	defer close(m.done)

	m.CheckNow(context.Background())

	ping := time.NewTicker(m.cfg.PingInterval)
	defer ping.Stop()
	eval := time.NewTicker(m.cfg.EvalInterval)
	defer eval.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ping.C:
			m.CheckNow(context.Background())
		case <-eval.C:
			m.evaluate()
		}
	}
}

func (m *Monitor) evaluate() {
	m.mu.Lock()
	online := !m.lastOK.IsZero() && time.Since(m.lastOK) < m.cfg.OfflineAfter
	changed := online != m.online
	m.online = online
	subs := m.subs
	m.mu.Unlock()

	if !changed {
		return
	}

	zap.L().Info("connectivity state changed", zap.Bool("online", online))
	for _, fn := range subs {
		fn(online)
	}
}
