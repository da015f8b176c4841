package cli

import (
	"fmt"
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"cofoundr_pitch_deck/config"
	"cofoundr_pitch_deck/generator"
	"cofoundr_pitch_deck/health"
	"cofoundr_pitch_deck/metrics"
	"cofoundr_pitch_deck/orchestrator"
	"cofoundr_pitch_deck/publisher"
)

// app is the wired pipeline shared by every command.
type app struct {
	cfg       config.Config
	store     *health.Store
	monitor   *health.Monitor
	orch      *orchestrator.Orchestrator
	progress  *orchestrator.Progress
	gate      *publisher.Gate
	collector *metrics.Collector
	logger    *log.Logger
}

// newApp wires the pipeline from cfg. onProgress, if set, also receives narration messages.
func newApp(cfg config.Config, logger *log.Logger, onProgress func(string)) (*app, error) {
	if logger == nil {
		logger = log.Default()
	}
	gen, err := buildGenerator(cfg.Generation)
	if err != nil {
		return nil, err
	}

	collector := metrics.NewCollector(prometheus.NewRegistry())
	store := health.NewStore()
	progress := &orchestrator.Progress{}
	report := progress.Set
	if onProgress != nil {
		report = func(msg string) {
			progress.Set(msg)
			onProgress(msg)
		}
	}

	orch, err := orchestrator.New(gen, store,
		orchestrator.WithTimeout(cfg.Generation.Timeout),
		orchestrator.WithProgress(report),
		orchestrator.WithMetrics(collector),
		orchestrator.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	gate, err := publisher.NewGate(buildExporter(cfg.Export), cfg.Export.WarnBelowScore, collector, verbose, logger)
	if err != nil {
		return nil, err
	}

	monitor := health.NewMonitor(buildProber(cfg), store, cfg.Health.Interval, collector, logger)
	return &app{
		cfg:       cfg,
		store:     store,
		monitor:   monitor,
		orch:      orch,
		progress:  progress,
		gate:      gate,
		collector: collector,
		logger:    logger,
	}, nil
}

func buildGenerator(cfg config.GenerationConfig) (generator.Generator, error) {
	switch cfg.Provider {
	case config.ProviderRemote:
		return generator.NewRemoteClient(cfg.BaseURL, &http.Client{Timeout: cfg.Timeout})
	case config.ProviderOpenAI, config.ProviderDeepSeek:
		// DeepSeek exposes an OpenAI-compatible API, so both go through openai-go.
		if cfg.Provider == config.ProviderDeepSeek && cfg.BaseURL == "" {
			return nil, fmt.Errorf("llm provider deepseek requires base_url (OpenAI-compatible endpoint)")
		}
		settings := &generator.LLMSettings{
			Provider: cfg.Provider,
			Model:    cfg.Model,
			APIKey:   cfg.APIKey,
		}
		if cfg.Provider == config.ProviderDeepSeek {
			settings.BaseURL = cfg.BaseURL
		}
		llm, err := generator.NewOpenAILLMFromConfig(settings)
		if err != nil {
			return nil, err
		}
		return generator.NewAgent(llm)
	case config.ProviderMock:
		return generator.NewAgent(generator.MockLLM{})
	default:
		return nil, fmt.Errorf("llm provider %s not supported", cfg.Provider)
	}
}

// buildProber probes the remote service over HTTP. In-process providers have no server to
// watch and always report healthy; the mock provider reports demo mode.
func buildProber(cfg config.Config) health.Prober {
	if cfg.Generation.Provider == config.ProviderRemote {
		return health.NewHTTPProber(cfg.HealthURL(), cfg.Health.ProbeTimeout, cfg.Health.SlowThreshold)
	}
	return health.StaticProber{MockMode: cfg.Generation.Provider == config.ProviderMock}
}

func buildExporter(cfg config.ExportConfig) publisher.Exporter {
	if cfg.Format == config.FormatText {
		return publisher.TextExporter{Dir: cfg.Dir}
	}
	return publisher.HTMLExporter{Dir: cfg.Dir}
}
