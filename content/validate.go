package content

import (
	"fmt"
	"strings"

	"cofoundr_pitch_deck/generator"
)

const (
	// MinLength is the character floor below which text cannot be a pitch deck.
	MinLength = 100
	// MinSlides is the slide count below which a deck is flagged as thin.
	MinSlides = 3

	maxAvgLineLength    = 300
	maxLineLength       = 1200
	maxWordsPerSentence = 30
)

// Issue texts. Callers match on the stable fragments ("too short", "No slides", ...).
const (
	IssueNoSlides           = "No slides detected in content"
	IssueErrorMessage       = "Content contains an error message"
	IssueExtremelyDifficult = "Content is extremely difficult to read"
	IssueDifficult          = "Content may be difficult to read (long sentences)"
)

// ValidationResult is the verdict on one candidate document.
type ValidationResult struct {
	IsValid bool     `json:"is_valid"`
	Score   int      `json:"score"`
	Issues  []string `json:"issues"`
}

// Validate scores the structure and readability of text. Blocking issues (too short, no
// slides, embedded error message) make it invalid; the rest only lower the score.
func Validate(text string) ValidationResult {
	trimmed := strings.TrimSpace(normalize(text))
	n := runeLen(trimmed)
	if n == 0 {
		return ValidationResult{
			IsValid: false,
			Score:   0,
			Issues:  []string{tooShort(0), IssueNoSlides},
		}
	}

	res := ValidationResult{IsValid: true, Score: 100, Issues: []string{}}
	block := func(issue string, penalty int) {
		res.IsValid = false
		res.Issues = append(res.Issues, issue)
		res.Score -= penalty
	}
	warn := func(issue string, penalty int) {
		res.Issues = append(res.Issues, issue)
		res.Score -= penalty
	}

	if n < MinLength {
		block(tooShort(n), 40)
	}

	slides := len(Sections(trimmed))
	switch {
	case slides == 0:
		block(IssueNoSlides, 40)
	case slides < MinSlides:
		warn(fewSlides(slides), 15)
	}

	if generator.HasErrorMarker(trimmed) {
		block(IssueErrorMessage, 30)
	}

	switch readability(trimmed) {
	case readabilitySevere:
		warn(IssueExtremelyDifficult, 60)
	case readabilityPoor:
		warn(IssueDifficult, 15)
	}

	if res.Score < 0 {
		res.Score = 0
	}
	return res
}

func tooShort(n int) string {
	return fmt.Sprintf("Content is too short (%d characters, minimum %d)", n, MinLength)
}

func fewSlides(n int) string {
	if n == 1 {
		return "Only 1 slide detected"
	}
	return fmt.Sprintf("Only %d slides detected", n)
}

type readabilityLevel int

const (
	readabilityOK readabilityLevel = iota
	readabilityPoor
	readabilitySevere
)

// readability flags walls of text: very long lines, or very long sentences.
func readability(text string) readabilityLevel {
	var lines, total int
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		l := runeLen(line)
		if l > maxLineLength {
			return readabilitySevere
		}
		lines++
		total += l
	}
	if lines > 0 && total/lines > maxAvgLineLength {
		return readabilitySevere
	}

	var sentences, words int
	for _, s := range strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?' || r == '\n'
	}) {
		w := len(strings.Fields(s))
		if w == 0 {
			continue
		}
		sentences++
		words += w
	}
	if sentences > 0 && words/sentences > maxWordsPerSentence {
		return readabilityPoor
	}
	return readabilityOK
}
