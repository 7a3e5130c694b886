// ident.go — Display strings and file-safe identifiers derived from a record.
package card

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// Upper upper-cases s with Unicode full case mapping ("ß" becomes "SS").
// A Caser is stateful, so one is built per call.
func Upper(s string) string {
	return cases.Upper(language.Und).String(s)
}

// Sanitize trims s, turns spaces into underscores and strips everything
// outside [A-Za-z0-9_-]. An empty result becomes "unknown".
func Sanitize(s string) string {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "_")
	s = unsafeChars.ReplaceAllString(s, "")
	if s == "" {
		return "unknown"
	}
	return s
}

// DisplayName is the upper-cased full name.
func DisplayName(r Record) string {
	return Upper(strings.TrimSpace(r.FirstName + " " + r.LastName))
}

// GeneratedID is LAST_FIRST, sanitized and upper-cased.
func GeneratedID(r Record) string {
	return strings.ToUpper(Sanitize(r.LastName + "_" + r.FirstName))
}

// FileStem is FIRST_LAST, sanitized and upper-cased, used to name output files.
func FileStem(r Record) string {
	return strings.ToUpper(Sanitize(r.FirstName + "_" + r.LastName))
}

// labeled returns "LABEL: value" upper-cased and trimmed.
func labeled(label, value string) string {
	return strings.TrimSpace(Upper(label + ": " + value))
}
