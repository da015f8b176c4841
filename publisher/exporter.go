package publisher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"

	"cofoundr_pitch_deck/content"
)

// Document is validated deck text ready to be rendered.
type Document struct {
	Text     string
	Filename string
	Preview  content.StructurePreview
}

// Exporter renders a Document into a downloadable artifact. false without an error means the
// exporter declined to produce it.
type Exporter interface {
	Extension() string
	Export(ctx context.Context, doc Document) (bool, error)
}

// HTMLExporter writes a standalone HTML deck, one section per slide, into Dir.
type HTMLExporter struct {
	Dir string
}

func (e HTMLExporter) Extension() string { return "html" }

func (e HTMLExporter) Export(ctx context.Context, doc Document) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	page, err := renderDeck(doc)
	if err != nil {
		return false, err
	}
	return writeFile(e.Dir, doc.Filename, page)
}

// TextExporter writes the raw deck text into Dir.
type TextExporter struct {
	Dir string
}

func (e TextExporter) Extension() string { return "txt" }

func (e TextExporter) Export(ctx context.Context, doc Document) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return writeFile(e.Dir, doc.Filename, []byte(doc.Text))
}

func writeFile(dir, name string, data []byte) (bool, error) {
	if name == "" || filepath.Base(name) != name {
		return false, fmt.Errorf("invalid export filename %q", name)
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, err
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return false, err
	}
	return true, nil
}

var (
	bulletRe  = regexp.MustCompile(`(?m)^[ \t]*[•·▪][ \t]*`)
	headingRe = regexp.MustCompile(`(?s)<h([1-6])[^>]*>(.*?)</h[1-6]>`)
)

const pageStyle = `body{font-family:Helvetica,Arial,sans-serif;max-width:960px;margin:0 auto;color:#1f2937}
.cover{padding:4em 0;text-align:center;page-break-after:always}
.slide{padding:2em 0;border-top:1px solid #e5e7eb;page-break-after:always}
.slide h2{color:#1d4ed8}`

func renderDeck(doc Document) ([]byte, error) {
	sections := content.Sections(doc.Text)
	if len(sections) == 0 {
		return nil, errors.New("deck has no slides to render")
	}

	title := coverTitle(doc.Text)
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\">")
	fmt.Fprintf(&b, "<title>%s</title>", html.EscapeString(title))
	fmt.Fprintf(&b, "<meta name=\"description\" content=\"%s\">", html.EscapeString(defaultDigest(sections[0].Body, 120)))
	fmt.Fprintf(&b, "<style>%s</style></head><body>\n", pageStyle)
	fmt.Fprintf(&b, "<div class=\"cover\"><h1>%s</h1><p>%d slides</p></div>\n", html.EscapeString(title), len(sections))

	for _, s := range sections {
		body, err := mdToHTML(bulletRe.ReplaceAllString(s.Body, "- "))
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&b, "<section class=\"slide\"><h2>%d. %s</h2>\n%s</section>\n", s.Number, html.EscapeString(s.Title), styleHeadings(body))
	}
	b.WriteString("</body></html>\n")
	return []byte(b.String()), nil
}

func mdToHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// styleHeadings demotes headings inside a slide body so they never outrank the slide title.
func styleHeadings(body string) string {
	sizes := map[string]string{
		"1": "20px",
		"2": "18px",
		"3": "17px",
		"4": "16px",
		"5": "15px",
		"6": "14px",
	}
	return headingRe.ReplaceAllStringFunc(body, func(block string) string {
		parts := headingRe.FindStringSubmatch(block)
		if len(parts) != 3 {
			return block
		}
		size := sizes[parts[1]]
		if size == "" {
			size = "16px"
		}
		return fmt.Sprintf(`<p style="font-size:%s;font-weight:700;margin:1em 0 0.4em;">%s</p>`, size, strings.TrimSpace(parts[2]))
	})
}

// coverTitle is the first line before the first slide, or a generic title.
func coverTitle(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.Trim(strings.TrimSpace(line), "*#"))
		if line == "" {
			continue
		}
		if strings.HasPrefix(strings.ToUpper(line), "SLIDE ") {
			break
		}
		return line
	}
	return "Pitch Deck"
}

func defaultDigest(md string, limit int) string {
	joined := strings.Join(strings.Fields(md), " ")
	r := []rune(joined)
	if len(r) <= limit {
		return joined
	}
	return string(r[:limit])
}
