// Package cli is the cofoundr command line.
//
//	cofoundr                  root command (--config/-c, -v)
//	├── serve                 local JSON API + health monitor
//	├── generate              one generation, optionally exported
//	├── status                probe the generation service once
//	└── export                gate and export a deck from a file
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"cofoundr_pitch_deck/config"
	"cofoundr_pitch_deck/generator"
	"cofoundr_pitch_deck/health"
	"cofoundr_pitch_deck/orchestrator"
	"cofoundr_pitch_deck/publisher"
	"cofoundr_pitch_deck/server"
)

var (
	configFile string
	verbose    bool
)

func BuildCLI() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "cofoundr",
		Short:         "Generate investor pitch decks from a startup idea",
		Version:       "1.0.0",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config/config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable info logs")

	rootCmd.AddCommand(buildServeCommand())
	rootCmd.AddCommand(buildGenerateCommand())
	rootCmd.AddCommand(buildStatusCommand())
	rootCmd.AddCommand(buildExportCommand())

	return rootCmd
}

func buildServeCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the local API and health monitor",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg, log.Default())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}

// runServe blocks until ctx is cancelled or the listener fails.
func runServe(ctx context.Context, cfg config.Config, logger *log.Logger) error {
	a, err := newApp(cfg, logger, nil)
	if err != nil {
		return err
	}
	srv, err := server.New(server.Deps{
		Orchestrator: a.orch,
		Store:        a.store,
		Progress:     a.progress,
		Gate:         a.gate,
		Metrics:      a.collector.Handler(),
		Logger:       logger,
	})
	if err != nil {
		return err
	}
	httpSrv := &http.Server{Addr: cfg.Server.Addr, Handler: srv.Routes()}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.monitor.Start(ctx)
		return nil
	})
	g.Go(func() error {
		logger.Printf("[cli] serving on %s (provider %s)", cfg.Server.Addr, cfg.Generation.Provider)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Printf("[cli] shutting down")
		return httpSrv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

type generateFlags struct {
	idea        string
	audience    string
	industry    string
	stage       string
	style       string
	model       string
	competitors string
	detailed    bool
	export      bool
	yes         bool
}

func (f generateFlags) options() generator.OptionSet {
	return generator.OptionSet{
		TargetAudience:    generator.Audience(f.audience),
		Industry:          f.industry,
		FundingStage:      generator.FundingStage(f.stage),
		PresentationStyle: generator.Style(f.style),
		BusinessModel:     generator.BusinessModel(f.model),
		CompetitorContext: f.competitors,
		Detailed:          f.detailed,
	}
}

func buildGenerateCommand() *cobra.Command {
	var f generateFlags

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a pitch deck for an idea",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			return runGenerate(cmd, cfg, f)
		},
	}

	d := generator.DefaultOptions()
	cmd.Flags().StringVar(&f.idea, "idea", "", "startup idea (10-2000 characters)")
	cmd.Flags().StringVar(&f.audience, "audience", string(d.TargetAudience), "target audience")
	cmd.Flags().StringVar(&f.industry, "industry", "", "industry")
	cmd.Flags().StringVar(&f.stage, "stage", string(d.FundingStage), "funding stage")
	cmd.Flags().StringVar(&f.style, "style", string(d.PresentationStyle), "presentation style")
	cmd.Flags().StringVar(&f.model, "business-model", "", "business model (empty: suggest one)")
	cmd.Flags().StringVar(&f.competitors, "competitors", "", "known competitors")
	cmd.Flags().BoolVar(&f.detailed, "detailed", false, "generate the detailed deck")
	cmd.Flags().BoolVar(&f.export, "export", false, "export the deck after generating")
	cmd.Flags().BoolVarP(&f.yes, "yes", "y", false, "export without asking on warnings")
	return cmd
}

func runGenerate(cmd *cobra.Command, cfg config.Config, f generateFlags) error {
	stderr := cmd.ErrOrStderr()
	a, err := newApp(cfg, log.Default(), func(msg string) {
		if msg != "" {
			fmt.Fprintln(stderr, msg)
		}
	})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a.monitor.Probe(ctx)

	out := a.orch.Submit(ctx, f.idea, f.options())
	fmt.Fprintln(cmd.OutOrStdout(), orchestrator.Display(out))
	if out.Kind() != orchestrator.KindSuccess {
		return fmt.Errorf("generation failed: %s", orchestrator.Message(out))
	}
	if !f.export {
		return nil
	}
	return exportText(cmd, a, orchestrator.Message(out), f.idea, f.yes)
}

func buildStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show generation service status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			a, err := newApp(cfg, log.New(io.Discard, "", 0), nil)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			a.monitor.Probe(ctx)
			fmt.Fprintln(cmd.OutOrStdout(), renderStatus(a.store.Snapshot()))
			return nil
		},
	}
}

func buildExportCommand() *cobra.Command {
	var (
		file string
		idea string
		yes  bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Validate and export a generated deck",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return fmt.Errorf("deck file is required (use --file or -f)")
			}
			cfg, err := config.Load(configFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read deck: %w", err)
			}
			a, err := newApp(cfg, log.Default(), nil)
			if err != nil {
				return err
			}
			return exportText(cmd, a, string(data), idea, yes)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "deck text file")
	cmd.Flags().StringVar(&idea, "idea", "", "idea the deck is about (used in the filename)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "export without asking on warnings")
	return cmd
}

func exportText(cmd *cobra.Command, a *app, text, idea string, yes bool) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	stdout := cmd.OutOrStdout()
	confirm := func(warning string) bool {
		if yes {
			return true
		}
		return askConfirm(cmd.InOrStdin(), stdout, warning)
	}

	res, err := a.gate.Export(ctx, text, idea, confirm)
	var ee *publisher.ExportError
	switch {
	case err == nil:
		fmt.Fprintf(stdout, "Exported %s (%d slides, ~%d pages)\n", res.Filename, res.Preview.TotalSlides, res.Preview.EstimatedPages)
		return nil
	case errors.Is(err, publisher.ErrExportDeclined):
		fmt.Fprintln(stdout, "Export cancelled.")
		return nil
	case errors.As(err, &ee):
		return errors.New(ee.UserMessage())
	default:
		return err
	}
}

// askConfirm prints warning and reads a y/N answer.
func askConfirm(in io.Reader, out io.Writer, warning string) bool {
	fmt.Fprintf(out, "%s\nDo you want to continue with the export? [y/N] ", warning)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

var statusColors = map[health.Status]lipgloss.Color{
	health.StatusOnline:   lipgloss.Color("42"),
	health.StatusBusy:     lipgloss.Color("214"),
	health.StatusOffline:  lipgloss.Color("196"),
	health.StatusChecking: lipgloss.Color("244"),
}

func renderStatus(snap health.Snapshot) string {
	badge := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("0")).
		Background(statusColors[snap.Status]).
		Padding(0, 1).
		Render(strings.ToUpper(string(snap.Status)))
	line := badge + " " + snap.Status.Label()
	if snap.MockMode {
		line += " " + lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("99")).Render("(Demo Mode)")
	}
	return line
}
