package cli

import (
	"bytes"
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cofoundr_pitch_deck/config"
	"cofoundr_pitch_deck/generator"
	"cofoundr_pitch_deck/health"
	"cofoundr_pitch_deck/publisher"
)

func mockConfig(t *testing.T) (path, exportDir string) {
	t.Helper()
	dir := t.TempDir()
	exportDir = filepath.Join(dir, "exports")
	path = filepath.Join(dir, "config.yaml")
	body := "generation:\n  provider: mock\nexport:\n  dir: " + exportDir + "\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path, exportDir
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := BuildCLI()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestBuildCLI(t *testing.T) {
	cmd := BuildCLI()
	assert.Equal(t, "cofoundr", cmd.Use)

	names := map[string]bool{}
	for _, c := range cmd.Commands() {
		names[c.Use] = true
	}
	for _, want := range []string{"serve", "generate", "status", "export"} {
		assert.True(t, names[want], "missing %s command", want)
	}

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "config/config.yaml", configFlag.DefValue)
	assert.Equal(t, "v", cmd.PersistentFlags().Lookup("verbose").Shorthand)
}

func TestBuildGenerateCommand_Flags(t *testing.T) {
	cmd := buildGenerateCommand()
	for _, name := range []string{"idea", "audience", "industry", "stage", "style", "business-model", "competitors", "detailed", "export", "yes"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing --%s", name)
	}
	assert.Equal(t, "balanced", cmd.Flags().Lookup("style").DefValue)
	assert.NotNil(t, cmd.RunE)
}

func TestGenerate_MockProvider(t *testing.T) {
	path, exportDir := mockConfig(t)

	out, err := execute(t, "", "--config", path, "generate", "--idea", "An app that matches home cooks with hungry neighbours", "--export", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "SLIDE 1")
	assert.Contains(t, out, "Exported cofoundr-an-app-that-matches-home-cooks")

	entries, err := os.ReadDir(exportDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasSuffix(entries[0].Name(), ".html"))
}

func TestGenerate_InvalidIdeaFails(t *testing.T) {
	path, _ := mockConfig(t)
	out, err := execute(t, "", "--config", path, "generate", "--idea", "short")
	require.Error(t, err)
	assert.Contains(t, out, generator.ErrorMarker)
	assert.Contains(t, err.Error(), "at least 10 characters")
}

func TestStatus_MockProvider(t *testing.T) {
	path, _ := mockConfig(t)
	out, err := execute(t, "", "--config", path, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "ONLINE")
	assert.Contains(t, out, "Server online")
	assert.Contains(t, out, "Demo Mode")
}

func TestExport_AsksOnWarnings(t *testing.T) {
	path, exportDir := mockConfig(t)
	deck := filepath.Join(t.TempDir(), "deck.txt")
	text := "**SLIDE 1: PROBLEM**\n" + strings.Repeat("x", 1300) + "\n"
	require.NoError(t, os.WriteFile(deck, []byte(text), 0o644))

	out, err := execute(t, "n\n", "--config", path, "export", "--file", deck, "--idea", "Robots")
	require.NoError(t, err)
	assert.Contains(t, out, "Export warning: ")
	assert.Contains(t, out, "Export cancelled.")
	_, err = os.Stat(exportDir)
	assert.True(t, os.IsNotExist(err))

	out, err = execute(t, "y\n", "--config", path, "export", "--file", deck, "--idea", "Robots")
	require.NoError(t, err)
	assert.Contains(t, out, "Exported cofoundr-robots-")
}

func TestExport_BlockedDeckFails(t *testing.T) {
	path, _ := mockConfig(t)
	deck := filepath.Join(t.TempDir(), "deck.txt")
	require.NoError(t, os.WriteFile(deck, []byte("nothing here"), 0o644))

	_, err := execute(t, "", "--config", path, "export", "--file", deck)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Cannot export: ")
}

func TestExport_RequiresFile(t *testing.T) {
	path, _ := mockConfig(t)
	_, err := execute(t, "", "--config", path, "export")
	assert.Error(t, err)
}

func TestAskConfirm(t *testing.T) {
	var out bytes.Buffer
	assert.True(t, askConfirm(strings.NewReader("Y\n"), &out, "warn"))
	assert.True(t, askConfirm(strings.NewReader("yes"), &out, "warn"))
	assert.False(t, askConfirm(strings.NewReader("\n"), &out, "warn"))
	assert.False(t, askConfirm(strings.NewReader(""), &out, "warn"))
	assert.Contains(t, out.String(), "[y/N]")
}

func TestBuildGenerator(t *testing.T) {
	cfg := config.Default()
	gen, err := buildGenerator(cfg.Generation)
	require.NoError(t, err)
	assert.IsType(t, &generator.RemoteClient{}, gen)

	cfg.Generation.Provider = config.ProviderMock
	gen, err = buildGenerator(cfg.Generation)
	require.NoError(t, err)
	assert.IsType(t, &generator.Agent{}, gen)

	cfg.Generation.Provider = config.ProviderOpenAI
	cfg.Generation.Model = "gpt-4o-mini"
	_, err = buildGenerator(cfg.Generation)
	assert.Error(t, err, "no api key")

	cfg.Generation.APIKey = "sk-test"
	gen, err = buildGenerator(cfg.Generation)
	require.NoError(t, err)
	assert.IsType(t, &generator.Agent{}, gen)

	cfg.Generation.Provider = config.ProviderDeepSeek
	cfg.Generation.BaseURL = ""
	_, err = buildGenerator(cfg.Generation)
	assert.Error(t, err)

	cfg.Generation.Provider = "llama"
	_, err = buildGenerator(cfg.Generation)
	assert.Error(t, err)
}

func TestBuildProberAndExporter(t *testing.T) {
	cfg := config.Default()
	assert.IsType(t, &health.HTTPProber{}, buildProber(cfg))

	cfg.Generation.Provider = config.ProviderMock
	assert.Equal(t, health.StaticProber{MockMode: true}, buildProber(cfg))

	cfg.Generation.Provider = config.ProviderOpenAI
	assert.Equal(t, health.StaticProber{MockMode: false}, buildProber(cfg))

	assert.IsType(t, publisher.HTMLExporter{}, buildExporter(config.ExportConfig{Format: config.FormatHTML}))
	assert.IsType(t, publisher.TextExporter{}, buildExporter(config.ExportConfig{Format: config.FormatText}))
}

func TestRenderStatus(t *testing.T) {
	line := renderStatus(health.Snapshot{Status: health.StatusOffline})
	assert.Contains(t, line, "OFFLINE")
	assert.Contains(t, line, "Server offline")
	assert.NotContains(t, line, "Demo Mode")
}

func TestRunServe_StopsOnCancel(t *testing.T) {
	cfg := config.Default()
	cfg.Generation.Provider = config.ProviderMock
	cfg.Server.Addr = "127.0.0.1:0"
	cfg.Export.Dir = t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runServe(ctx, cfg, log.New(io.Discard, "", 0)) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop")
	}
}
