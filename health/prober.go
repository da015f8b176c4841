package health

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"cofoundr_pitch_deck/generator"
)

// Signal is the raw outcome of one probe, before it is mapped to a Status.
type Signal string

const (
	SignalHealthy  Signal = "healthy"
	SignalDegraded Signal = "degraded"
	SignalTimeout  Signal = "timeout"
	SignalFailed   Signal = "failed"
)

// ProbeResult is what a Prober observed.
type ProbeResult struct {
	Signal   Signal
	MockMode bool
	Latency  time.Duration
	Err      error
}

// Prober performs a single liveness check. It must return within a bounded time.
type Prober interface {
	Probe(ctx context.Context) ProbeResult
}

// MapSignal turns a probe signal into the displayed status. A timeout means the service is
// presumed alive but overloaded; only a transport failure means offline.
func MapSignal(sig Signal) Status {
	switch sig {
	case SignalHealthy:
		return StatusOnline
	case SignalDegraded, SignalTimeout:
		return StatusBusy
	default:
		return StatusOffline
	}
}

type healthResp struct {
	Status   string `json:"status"`
	MockMode bool   `json:"mock_mode"`
}

// HTTPProber checks GET <url> on the generation service.
type HTTPProber struct {
	url           string
	client        *http.Client
	slowThreshold time.Duration
}

// NewHTTPProber builds a prober whose requests are bounded by timeout. Healthy responses slower
// than slowThreshold count as degraded; zero disables that check.
func NewHTTPProber(url string, timeout, slowThreshold time.Duration) *HTTPProber {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPProber{
		url:           url,
		client:        &http.Client{Timeout: timeout},
		slowThreshold: slowThreshold,
	}
}

func (p *HTTPProber) Probe(ctx context.Context) ProbeResult {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return ProbeResult{Signal: SignalFailed, Err: err}
	}

	resp, err := p.client.Do(req)
	latency := time.Since(start)
	if err != nil {
		if generator.ClassOf(err) == generator.ClassTimeout {
			return ProbeResult{Signal: SignalTimeout, Latency: latency, Err: err}
		}
		return ProbeResult{Signal: SignalFailed, Latency: latency, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusGatewayTimeout || resp.StatusCode == http.StatusServiceUnavailable {
		return ProbeResult{Signal: SignalTimeout, Latency: latency, Err: fmt.Errorf("health check returned status %d", resp.StatusCode)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ProbeResult{Signal: SignalFailed, Latency: latency, Err: fmt.Errorf("health check returned status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return ProbeResult{Signal: SignalFailed, Latency: latency, Err: err}
	}
	var data healthResp
	if err := json.Unmarshal(body, &data); err != nil {
		return ProbeResult{Signal: SignalFailed, Latency: latency, Err: fmt.Errorf("decode health response: %w", err)}
	}

	switch data.Status {
	case "healthy", "ok":
		if p.slowThreshold > 0 && latency > p.slowThreshold {
			return ProbeResult{Signal: SignalDegraded, MockMode: data.MockMode, Latency: latency}
		}
		return ProbeResult{Signal: SignalHealthy, MockMode: data.MockMode, Latency: latency}
	case "degraded", "slow":
		return ProbeResult{Signal: SignalDegraded, MockMode: data.MockMode, Latency: latency}
	case "timeout":
		return ProbeResult{Signal: SignalTimeout, Latency: latency}
	default:
		return ProbeResult{Signal: SignalFailed, Latency: latency, Err: fmt.Errorf("unexpected health status %q", data.Status)}
	}
}

// StaticProber always reports healthy. Providers without a health endpoint (a direct LLM
// client or the built-in demo deck) use it.
type StaticProber struct {
	MockMode bool
}

func (p StaticProber) Probe(context.Context) ProbeResult {
	return ProbeResult{Signal: SignalHealthy, MockMode: p.MockMode}
}
