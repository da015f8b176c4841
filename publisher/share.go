package publisher

import (
	"net/url"
	"strings"
)

const shareSubject = "My Startup Pitch Deck"

// ShareMailto builds a mailto link that opens a draft email containing the deck.
func ShareMailto(text string) string {
	body := "Check out my startup pitch deck:\n\n" + text
	return "mailto:?subject=" + escapeComponent(shareSubject) + "&body=" + escapeComponent(body)
}

// escapeComponent percent-encodes s for a mailto header; spaces become %20, not "+".
func escapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
