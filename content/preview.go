package content

import "strings"

// charsPerPage is roughly how much slide text fits on one exported page.
const charsPerPage = 2500

type Slide struct {
	Number     int    `json:"number"`
	Title      string `json:"title"`
	BodyLength int    `json:"body_length"`
}

// StructurePreview describes how a document will be laid out when exported.
type StructurePreview struct {
	Slides         []Slide `json:"slides"`
	TotalSlides    int     `json:"total_slides"`
	TotalChars     int     `json:"total_chars"`
	EstimatedPages int     `json:"estimated_pages"`
}

// Preview splits text into slides with the same header rule Validate uses. The page estimate
// is a cover page, one page per slide, and one more per charsPerPage of text; it never
// decreases when slides or text are added.
func Preview(text string) StructurePreview {
	trimmed := strings.TrimSpace(normalize(text))
	sections := Sections(trimmed)

	p := StructurePreview{
		Slides:      make([]Slide, 0, len(sections)),
		TotalSlides: len(sections),
		TotalChars:  runeLen(trimmed),
	}
	for _, s := range sections {
		p.Slides = append(p.Slides, Slide{Number: s.Number, Title: s.Title, BodyLength: runeLen(s.Body)})
	}
	if p.TotalChars > 0 {
		p.EstimatedPages = 1 + p.TotalSlides + p.TotalChars/charsPerPage
	}
	return p
}
