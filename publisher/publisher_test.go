package publisher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cofoundr_pitch_deck/metrics"
)

func deck(n int) string {
	var sb strings.Builder
	sb.WriteString("ACME ROBOTICS - PITCH DECK\n\n")
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&sb, "**SLIDE %d: SECTION %d**\n\n", i, i)
		sb.WriteString("• Small businesses lose hours every week to manual bookkeeping.\n")
		sb.WriteString("• Our assistant reconciles accounts automatically in minutes.\n")
		sb.WriteString("• Early customers report a clear and measurable return.\n")
		sb.WriteString("\n═══════════════════════════════════════════\n\n")
	}
	return sb.String()
}

// thinHardDeck is valid but scores below the warning threshold.
func thinHardDeck() string {
	return deck(1) + strings.Repeat("x", 1201) + "\n"
}

type stubExporter struct {
	ok    bool
	err   error
	panic bool
	calls int
	last  Document
}

func (s *stubExporter) Extension() string { return "html" }

func (s *stubExporter) Export(_ context.Context, doc Document) (bool, error) {
	s.calls++
	s.last = doc
	if s.panic {
		panic("renderer exploded")
	}
	return s.ok, s.err
}

func newGate(t *testing.T, exp Exporter) *Gate {
	t.Helper()
	g, err := NewGate(exp, 0, nil, true, log.New(io.Discard, "", 0))
	require.NoError(t, err)
	g.now = func() time.Time { return time.Date(2024, 3, 9, 23, 30, 0, 0, time.UTC) }
	return g
}

func TestNewGate_RequiresExporter(t *testing.T) {
	_, err := NewGate(nil, 30, nil, false, nil)
	assert.Error(t, err)
}

func TestPrepareExport_WellFormedDeckProceeds(t *testing.T) {
	text := deck(10)
	text += strings.Repeat("Additional notes about the go-to-market plan.\n", (4000-len(text))/46+1)

	g := newGate(t, &stubExporter{ok: true})
	d := g.PrepareExport(text)
	assert.Equal(t, VerdictProceed, d.Verdict)
	assert.True(t, d.Validation.IsValid)
	assert.Empty(t, d.Blocking)
	assert.Empty(t, d.Warning)
}

func TestPrepareExport_ShortSlidelessTextIsBlocked(t *testing.T) {
	g := newGate(t, &stubExporter{ok: true})
	d := g.PrepareExport("just a few words ok")

	assert.Equal(t, VerdictBlocked, d.Verdict)
	assert.False(t, d.Validation.IsValid)
	assert.True(t, strings.HasPrefix(d.Blocking, "Cannot export: "))
	assert.Contains(t, d.Blocking, "too short")
	assert.Contains(t, d.Blocking, "No slides detected")
}

func TestPrepareExport_LowScoreWithCriticalIssueNeedsConfirmation(t *testing.T) {
	g := newGate(t, &stubExporter{ok: true})
	d := g.PrepareExport(thinHardDeck())

	assert.Equal(t, VerdictConfirm, d.Verdict)
	assert.Less(t, d.Validation.Score, DefaultWarnBelowScore)
	assert.True(t, strings.HasPrefix(d.Warning, "Export warning: "))
	assert.Contains(t, d.Warning, "extremely difficult")
	assert.NotContains(t, d.Warning, "Only 1 slide")
}

func TestPrepareExport_ThinDeckWithoutCriticalIssueProceeds(t *testing.T) {
	g := newGate(t, &stubExporter{ok: true})
	d := g.PrepareExport(deck(1))
	assert.Equal(t, VerdictProceed, d.Verdict)
	assert.Contains(t, d.Validation.Issues, "Only 1 slide detected")
}

func TestExport_BlockedNeverCallsExporter(t *testing.T) {
	exp := &stubExporter{ok: true}
	g := newGate(t, exp)

	_, err := g.Export(context.Background(), "too short", "idea", func(string) bool { return true })
	var cve *ContentValidationError
	require.ErrorAs(t, err, &cve)
	assert.False(t, cve.Validation.IsValid)
	assert.Contains(t, cve.Error(), "Cannot export: ")
	assert.Zero(t, exp.calls)
}

func TestExport_ConfirmDeclined(t *testing.T) {
	exp := &stubExporter{ok: true}
	g := newGate(t, exp)

	var asked string
	_, err := g.Export(context.Background(), thinHardDeck(), "idea", func(w string) bool {
		asked = w
		return false
	})
	assert.ErrorIs(t, err, ErrExportDeclined)
	assert.Contains(t, asked, "Export warning: ")
	assert.Zero(t, exp.calls)

	_, err = g.Export(context.Background(), thinHardDeck(), "idea", nil)
	assert.ErrorIs(t, err, ErrExportDeclined)
	assert.Zero(t, exp.calls)
}

func TestExport_ConfirmAccepted(t *testing.T) {
	exp := &stubExporter{ok: true}
	g := newGate(t, exp)

	res, err := g.Export(context.Background(), thinHardDeck(), "idea", func(string) bool { return true })
	require.NoError(t, err)
	assert.Equal(t, 1, exp.calls)
	assert.Equal(t, VerdictConfirm, res.Decision.Verdict)
}

func TestExport_ProceedCallsExporterWithDeterministicName(t *testing.T) {
	exp := &stubExporter{ok: true}
	g := newGate(t, exp)

	res, err := g.Export(context.Background(), deck(5), "AI-Powered Bookkeeping for Small Businesses!", nil)
	require.NoError(t, err)
	assert.Equal(t, "cofoundr-ai-powered-bookkeeping-for-sma-2024-03-09.html", res.Filename)
	assert.Equal(t, res.Filename, exp.last.Filename)
	assert.Equal(t, 5, exp.last.Preview.TotalSlides)
	assert.Equal(t, deck(5), exp.last.Text)
}

func TestExport_ExporterFailures(t *testing.T) {
	cases := []struct {
		name  string
		exp   *stubExporter
		cause error
	}{
		{"reports false", &stubExporter{ok: false}, ErrExporterRejected},
		{"returns error", &stubExporter{err: errors.New("disk full")}, nil},
		{"panics", &stubExporter{panic: true}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := newGate(t, tc.exp)
			res, err := g.Export(context.Background(), deck(5), "idea", nil)

			var ee *ExportError
			require.ErrorAs(t, err, &ee)
			assert.Equal(t, res.Filename, ee.Filename)
			assert.Contains(t, ee.UserMessage(), "try again")
			if tc.cause != nil {
				assert.ErrorIs(t, err, tc.cause)
			}
		})
	}
}

func TestExport_RecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	g, err := NewGate(&stubExporter{ok: true}, 30, metrics.NewCollector(reg), false, log.New(io.Discard, "", 0))
	require.NoError(t, err)

	_, err = g.Export(context.Background(), deck(5), "idea", nil)
	require.NoError(t, err)
	_, err = g.Export(context.Background(), "", "idea", nil)
	require.Error(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)
	results := map[string]float64{}
	for _, mf := range families {
		if mf.GetName() != "cofoundr_exports_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				results[lp.GetValue()] = m.GetCounter().GetValue()
			}
		}
	}
	assert.Equal(t, 1.0, results["exported"])
	assert.Equal(t, 1.0, results["blocked"])
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "a-marketplace-for-dog-walkers", Slug("  A marketplace for DOG walkers!! "))
	assert.Equal(t, "pitch-deck", Slug("!!!"))
	assert.Equal(t, "pitch-deck", Slug(""))
	assert.LessOrEqual(t, len(Slug(strings.Repeat("word ", 40))), 30)
	assert.False(t, strings.HasSuffix(Slug(strings.Repeat("abcd ", 40)), "-"))
}

func TestFilename_SameIdeaSameDay(t *testing.T) {
	morning := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, Filename("Drone delivery", morning, "pdf"), Filename("Drone delivery", evening, ".pdf"))
	assert.Equal(t, "cofoundr-drone-delivery-2024-05-01.pdf", Filename("Drone delivery", morning, "pdf"))
	assert.NotEqual(t, Filename("Drone delivery", morning, "pdf"), Filename("Drone delivery", morning.AddDate(0, 0, 1), "pdf"))
}

func TestHTMLExporter_WritesDeck(t *testing.T) {
	dir := t.TempDir()
	g := newGate(t, HTMLExporter{Dir: filepath.Join(dir, "out")})

	res, err := g.Export(context.Background(), deck(3), "Robots", nil)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "out", res.Filename))
	require.NoError(t, err)
	page := string(data)
	assert.Contains(t, page, "<title>ACME ROBOTICS - PITCH DECK</title>")
	assert.Contains(t, page, "<h2>1. SECTION 1</h2>")
	assert.Contains(t, page, "<h2>3. SECTION 3</h2>")
	assert.Contains(t, page, "<li>Small businesses lose hours every week to manual bookkeeping.</li>")
	assert.NotContains(t, page, "═")
}

func TestHTMLExporter_DemotesBodyHeadings(t *testing.T) {
	out := styleHeadings("<h1>Big</h1><p>x</p><h3 id=\"a\">Small</h3>")
	assert.NotContains(t, out, "<h1>")
	assert.Contains(t, out, `font-size:20px;font-weight:700;margin:1em 0 0.4em;">Big</p>`)
	assert.Contains(t, out, `font-size:17px;font-weight:700;margin:1em 0 0.4em;">Small</p>`)
}

func TestHTMLExporter_CoverTitleFallback(t *testing.T) {
	assert.Equal(t, "Pitch Deck", coverTitle("**SLIDE 1: PROBLEM**\nbody"))
	assert.Equal(t, "My Deck", coverTitle("\n# My Deck\n**SLIDE 1: PROBLEM**"))
}

func TestTextExporter_WritesRawText(t *testing.T) {
	dir := t.TempDir()
	exp := TextExporter{Dir: dir}
	ok, err := exp.Export(context.Background(), Document{Text: "hello", Filename: "deck.txt"})
	require.NoError(t, err)
	assert.True(t, ok)

	data, err := os.ReadFile(filepath.Join(dir, "deck.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	_, err = exp.Export(context.Background(), Document{Text: "x", Filename: "../escape.txt"})
	assert.Error(t, err)
}

func TestExporters_HonorCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ok, err := TextExporter{Dir: t.TempDir()}.Export(ctx, Document{Text: "x", Filename: "a.txt"})
	assert.False(t, ok)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestShareMailto(t *testing.T) {
	link := ShareMailto("Slide one & two")
	require.True(t, strings.HasPrefix(link, "mailto:?subject="))
	assert.NotContains(t, link, "+")
	assert.Contains(t, link, "My%20Startup%20Pitch%20Deck")

	u, err := url.Parse(link)
	require.NoError(t, err)
	q, err := url.ParseQuery(u.RawQuery)
	require.NoError(t, err)
	assert.Equal(t, "My Startup Pitch Deck", q.Get("subject"))
	assert.Equal(t, "Check out my startup pitch deck:\n\nSlide one & two", q.Get("body"))
}
