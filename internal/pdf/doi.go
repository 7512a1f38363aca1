package pdf

import "regexp"

// doiPattern matches 10.<4-9 digit registrant>/<suffix>, case-insensitively.
var doiPattern = regexp.MustCompile(`(?i)\b10\.\d{4,9}/[-._;()/:A-Z0-9]+\b`)

// FindDOI returns the first DOI-shaped token in text, or "" if there is none.
// The DOI is not checked against any registry.
func FindDOI(text string) string {
	return doiPattern.FindString(text)
}
