// Package heuristic guesses a title and an author from the leading lines of
// extracted PDF text. It is a crude, best-effort fallback for documents whose
// DOI is missing or cannot be resolved, and it is expected to fail often.
package heuristic

import (
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/matsen/pdfrename/internal/csl"
)

// ScanLines is how many leading lines are considered.
const ScanLines = 10

// authorLine matches lines made only of letters, whitespace and commas.
var authorLine = regexp.MustCompile(`^[A-Za-z\s,]+$`)

// Extract returns a record with a scalar title and author literal guessed
// from text. Either may be empty; check Record.Sufficient before use.
func Extract(text string) *csl.Record {
	lines := strings.Split(text, "\n")
	title := GuessTitle(lines)
	author := GuessAuthor(lines)

	return &csl.Record{
		Title:   csl.TextValue(title),
		Authors: csl.NameLiteral(author),
	}
}

// GuessTitle returns the longest of the first ScanLines lines. Ties go to the
// earlier line.
func GuessTitle(lines []string) string {
	head := slices.Clone(lines[:min(len(lines), ScanLines)])
	if len(head) == 0 {
		return ""
	}
	slices.SortStableFunc(head, func(a, b string) int {
		return utf8.RuneCountInString(b) - utf8.RuneCountInString(a)
	})
	return head[0]
}

// GuessAuthor returns the first of lines 2 through ScanLines that looks like
// a list of names, or "".
func GuessAuthor(lines []string) string {
	for i := 1; i < len(lines) && i < ScanLines; i++ {
		if authorLine.MatchString(lines[i]) {
			return lines[i]
		}
	}
	return ""
}
