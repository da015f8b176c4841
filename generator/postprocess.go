package generator

import (
	"regexp"
	"strings"
)

var fenceRe = regexp.MustCompile("(?s)^```[a-zA-Z]*\n(.*)\n```$")

// PostProcess strips code fences and normalizes newlines. An empty result is a service error.
func PostProcess(raw string) (string, error) {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = strings.TrimSpace(text)
	if m := fenceRe.FindStringSubmatch(text); len(m) == 2 {
		text = strings.TrimSpace(m[1])
	}
	if text == "" {
		return "", &ServiceFault{Message: ErrorMarker + " The generator returned an empty pitch deck."}
	}
	return text, nil
}
