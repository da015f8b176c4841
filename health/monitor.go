package health

import (
	"context"
	"log"
	"time"

	"cofoundr_pitch_deck/metrics"
)

// DefaultInterval is how often the monitor probes the generation service.
const DefaultInterval = 15 * time.Second

// Monitor periodically probes the generation service and records the result in a Store.
// Each tick is a single attempt: there is no retry and no smoothing across probes.
type Monitor struct {
	prober   Prober
	store    *Store
	interval time.Duration
	metrics  *metrics.Collector
	logger   *log.Logger
}

// NewMonitor creates a monitor. A non-positive interval falls back to DefaultInterval.
func NewMonitor(prober Prober, store *Store, interval time.Duration, collector *metrics.Collector, logger *log.Logger) *Monitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Monitor{
		prober:   prober,
		store:    store,
		interval: interval,
		metrics:  collector,
		logger:   logger,
	}
}

// Start probes immediately, then on every interval tick until ctx is cancelled.
func (m *Monitor) Start(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	m.Probe(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Probe(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Probe runs one check and writes the resulting status. Failures only change the status.
func (m *Monitor) Probe(ctx context.Context) Status {
	res := m.prober.Probe(ctx)
	status := MapSignal(res.Signal)

	prev := m.store.Set(status)
	if res.Signal == SignalHealthy || res.Signal == SignalDegraded {
		m.store.SetMockMode(res.MockMode)
	}
	m.metrics.RecordProbe(string(res.Signal), res.Latency)
	m.metrics.SetServerStatus(string(status))

	if res.Err != nil {
		m.logger.Printf("[health] probe %s (%v): %v", res.Signal, res.Latency.Round(time.Millisecond), res.Err)
	}
	if prev != status {
		m.logger.Printf("[health] status %s -> %s", prev, status)
	}
	return status
}
