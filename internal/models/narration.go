package models

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizeNarration returns the case-normalized, whitespace-trimmed form of
// a narration. Override maps are keyed by this value.
func NormalizeNarration(narration string) string {
	// A Caser keeps state between calls, so one is built per call to stay
	// safe under the classifier's worker group.
	return cases.Upper(language.Und).String(strings.TrimSpace(narration))
}
