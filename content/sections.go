// Package content inspects generated pitch deck text: it validates structure and readability,
// and splits the text into slides for export previews. Everything here is pure.
package content

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// slideHeaderRe matches "SLIDE 3: MARKET", "**SLIDE 3: MARKET**" and "## Slide 3 - Market".
var slideHeaderRe = regexp.MustCompile(`(?i)^\s*(?:#{1,3}\s*)?(?:\*\*)?\s*slide\s+(\d+)\s*[:.\-–—]\s*(.+?)\s*(?:\*\*)?\s*$`)

// ruleRe matches decorative separator lines such as "═══════" or "-----".
var ruleRe = regexp.MustCompile(`^\s*[═=\-─_*]{3,}\s*$`)

// Section is one slide of the generated document.
type Section struct {
	Number int
	Title  string
	Body   string
}

// Sections splits text on slide headers. Text before the first header is not a section.
func Sections(text string) []Section {
	lines := strings.Split(normalize(text), "\n")

	var (
		out     []Section
		current *Section
		body    []string
	)
	flush := func() {
		if current == nil {
			return
		}
		current.Body = strings.TrimSpace(strings.Join(body, "\n"))
		out = append(out, *current)
		body = body[:0]
	}

	for _, line := range lines {
		if m := slideHeaderRe.FindStringSubmatch(line); m != nil {
			flush()
			n, _ := strconv.Atoi(m[1])
			current = &Section{Number: n, Title: strings.TrimSpace(strings.Trim(m[2], "*"))}
			continue
		}
		if current == nil || ruleRe.MatchString(line) {
			continue
		}
		body = append(body, line)
	}
	flush()
	return out
}

func normalize(text string) string {
	return strings.ReplaceAll(text, "\r\n", "\n")
}

func runeLen(s string) int { return utf8.RuneCountInString(s) }
