// Package extract recovers GitHub identities from free-form resume text.
package extract

import (
	"regexp"
	"strings"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// Resumes exported from layout engines insert soft line breaks and stray
// spaces inside URLs; matching is purely textual, so the normalizer closes
// those gaps before any pattern runs.
var (
	domainSlashRe = regexp.MustCompile(`(?i)github[ \t\r\n]*\.?[ \t\r\n]*com[ \t\r\n]*/[ \t\r\n]*`)
	domainRe      = regexp.MustCompile(`(?i)github[ \t\r\n]*\.?[ \t\r\n]*com`)
	slashAfterRe  = regexp.MustCompile(`/[ \t]+`)
	slashBeforeRe = regexp.MustCompile(`[ \t]+/`)
	dotAfterRe    = regexp.MustCompile(`\.[ \t]+`)
	dotBeforeRe   = regexp.MustCompile(`[ \t]+\.`)
	spaceRunRe    = regexp.MustCompile(`[ \t]+`)
)

// invisible strips zero-width code points that would otherwise split a
// matchable token in two.
var invisible = runes.Remove(runes.Predicate(func(r rune) bool {
	switch r {
	case '\u200b', '\u200c', '\u200d', '\ufeff':
		return true
	}
	return false
}))

// Normalize cleans raw resume text for extraction. It is deterministic and
// side-effect-free; each step is a global substitution over the whole text.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSpace(text)

	cleaned, _, err := transform.String(invisible, text)
	if err == nil {
		text = cleaned
	}

	text = domainSlashRe.ReplaceAllString(text, "github.com/")
	text = domainRe.ReplaceAllString(text, "github.com")

	text = slashAfterRe.ReplaceAllString(text, "/")
	text = slashBeforeRe.ReplaceAllString(text, "/")
	text = dotAfterRe.ReplaceAllString(text, ".")
	text = dotBeforeRe.ReplaceAllString(text, ".")

	text = spaceRunRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
