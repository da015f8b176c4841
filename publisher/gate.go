package publisher

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"cofoundr_pitch_deck/content"
	"cofoundr_pitch_deck/metrics"
)

// DefaultWarnBelowScore is the score under which critical advisory issues need confirmation.
const DefaultWarnBelowScore = 30

// criticalIssues are the issue fragments worth interrupting the user for.
var criticalIssues = []string{"too short", "No slides", "extremely difficult"}

// Verdict is the Export Gate's decision on a document.
type Verdict string

const (
	VerdictProceed Verdict = "proceed"
	VerdictConfirm Verdict = "confirm"
	VerdictBlocked Verdict = "blocked"
)

type Decision struct {
	Verdict    Verdict                  `json:"verdict"`
	Validation content.ValidationResult `json:"validation"`
	Blocking   string                   `json:"blocking,omitempty"`
	Warning    string                   `json:"warning,omitempty"`
}

// ConfirmFunc asks the user whether to export despite warning. Returning false aborts.
type ConfirmFunc func(warning string) bool

// Result describes a produced artifact.
type Result struct {
	Filename string                   `json:"filename"`
	Preview  content.StructurePreview `json:"preview"`
	Decision Decision                 `json:"decision"`
}

// Gate decides whether generated text may become an exported artifact, and hands it to the
// exporter when it may. It never talks to the network.
type Gate struct {
	exporter  Exporter
	warnBelow int
	metrics   *metrics.Collector
	now       func() time.Time
	verbose   bool
	logger    *log.Logger
}

// NewGate creates a gate in front of exporter. warnBelow <= 0 uses DefaultWarnBelowScore.
func NewGate(exporter Exporter, warnBelow int, collector *metrics.Collector, verbose bool, logger *log.Logger) (*Gate, error) {
	if exporter == nil {
		return nil, errors.New("exporter is required")
	}
	if warnBelow <= 0 {
		warnBelow = DefaultWarnBelowScore
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Gate{
		exporter:  exporter,
		warnBelow: warnBelow,
		metrics:   collector,
		now:       time.Now,
		verbose:   verbose,
		logger:    logger,
	}, nil
}

func (g *Gate) infof(format string, args ...interface{}) {
	if !g.verbose {
		return
	}
	g.logger.Printf("[INFO] "+format, args...)
}

// PrepareExport validates text and decides how to proceed.
func (g *Gate) PrepareExport(text string) Decision {
	res := content.Validate(text)
	if !res.IsValid {
		return Decision{
			Verdict:    VerdictBlocked,
			Validation: res,
			Blocking:   "Cannot export: " + strings.Join(res.Issues, ", "),
		}
	}

	var critical []string
	for _, issue := range res.Issues {
		for _, frag := range criticalIssues {
			if strings.Contains(issue, frag) {
				critical = append(critical, issue)
				break
			}
		}
	}
	if res.Score < g.warnBelow && len(critical) > 0 {
		return Decision{
			Verdict:    VerdictConfirm,
			Validation: res,
			Warning:    "Export warning: " + strings.Join(critical, ", "),
		}
	}
	return Decision{Verdict: VerdictProceed, Validation: res}
}

// Export runs the gate and, when allowed, produces the artifact for the deck about idea.
// A blocked document returns *ContentValidationError; a declined confirmation returns
// ErrExportDeclined; an exporter failure returns *ExportError. Nothing is written unless the
// exporter runs.
func (g *Gate) Export(ctx context.Context, text, idea string, confirm ConfirmFunc) (Result, error) {
	d := g.PrepareExport(text)
	g.metrics.RecordContentScore(d.Validation.Score)

	switch d.Verdict {
	case VerdictBlocked:
		g.metrics.RecordExport("blocked")
		g.logger.Printf("[export] blocked: %s", d.Blocking)
		return Result{Decision: d}, &ContentValidationError{Validation: d.Validation, Message: d.Blocking}
	case VerdictConfirm:
		if confirm == nil || !confirm(d.Warning) {
			g.metrics.RecordExport("declined")
			g.infof("export declined after warning: %s", d.Warning)
			return Result{Decision: d}, ErrExportDeclined
		}
	}

	doc := Document{
		Text:     text,
		Filename: Filename(idea, g.now(), g.exporter.Extension()),
		Preview:  content.Preview(text),
	}
	g.infof("exporting %s: %d slides, ~%d pages, score %d", doc.Filename, doc.Preview.TotalSlides, doc.Preview.EstimatedPages, d.Validation.Score)

	ok, err := g.run(ctx, doc)
	if err == nil && !ok {
		err = ErrExporterRejected
	}
	if err != nil {
		g.metrics.RecordExport("failed")
		g.logger.Printf("[export] %s failed: %v (length %d)", doc.Filename, err, len(text))
		return Result{Filename: doc.Filename, Preview: doc.Preview, Decision: d}, &ExportError{Filename: doc.Filename, Cause: err}
	}

	g.metrics.RecordExport("exported")
	g.logger.Printf("[export] wrote %s", doc.Filename)
	return Result{Filename: doc.Filename, Preview: doc.Preview, Decision: d}, nil
}

// run calls the exporter, turning a panic into an error.
func (g *Gate) run(ctx context.Context, doc Document) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			ok, err = false, fmt.Errorf("exporter panic: %v", r)
		}
	}()
	return g.exporter.Export(ctx, doc)
}
