package publisher

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const maxSlugLength = 30

var nonSlugRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slug normalizes idea text for use in a filename.
func Slug(idea string) string {
	s := nonSlugRe.ReplaceAllString(strings.ToLower(idea), "-")
	s = strings.Trim(s, "-")
	if len(s) > maxSlugLength {
		s = strings.TrimRight(s[:maxSlugLength], "-")
	}
	if s == "" {
		return "pitch-deck"
	}
	return s
}

// Filename is cofoundr-<slug>-<YYYY-MM-DD>.<ext>; the same idea on the same day always gives the
// same name.
func Filename(idea string, now time.Time, ext string) string {
	return fmt.Sprintf("cofoundr-%s-%s.%s", Slug(idea), now.UTC().Format("2006-01-02"), strings.TrimPrefix(ext, "."))
}
