// Package filename builds "{journal}_{author}_{year}_{title}.pdf" names from
// bibliographic records.
package filename

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/matsen/pdfrename/internal/csl"
	"golang.org/x/text/unicode/norm"
)

const (
	// MaxLength is the longest name produced before truncation kicks in.
	MaxLength = 255

	// TruncateAt is where over-long names are cut, before Extension is
	// re-appended.
	TruncateAt = 250

	// Extension is appended to every name.
	Extension = ".pdf"

	// UnknownYear stands in for a missing publication year.
	UnknownYear = "UnknownYear"

	// UnknownJournal stands in for a missing container title.
	UnknownJournal = "UnknownJournal"
)

var (
	// ErrInsufficient is wrapped by every missing-field error.
	ErrInsufficient = errors.New("insufficient metadata")

	// ErrMissingAuthor means no first-author surname could be extracted.
	ErrMissingAuthor = fmt.Errorf("%w: missing author", ErrInsufficient)

	// ErrMissingTitle means the record has no title.
	ErrMissingTitle = fmt.Errorf("%w: missing title", ErrInsufficient)
)

// Components are the sanitized parts of a synthesized name.
type Components struct {
	Journal string
	Author  string
	Year    string
	Title   string
}

// String composes the parts without truncation.
func (c Components) String() string {
	return c.Journal + "_" + c.Author + "_" + c.Year + "_" + c.Title + Extension
}

// Extract pulls the sanitized components out of rec. Every component,
// the author surname included, goes through Sanitize, so punctuation such as
// apostrophes and dots is dropped ("O'Brien" becomes "OBrien").
func Extract(rec *csl.Record) (Components, error) {
	if rec == nil {
		return Components{}, ErrMissingTitle
	}

	author := Sanitize(rec.Authors.First())
	if author == "" {
		return Components{}, ErrMissingAuthor
	}

	title := Sanitize(rec.Title.First())
	if title == "" {
		return Components{}, ErrMissingTitle
	}

	journal := Sanitize(journalName(rec))
	if journal == "" {
		journal = UnknownJournal
	}

	return Components{
		Journal: journal,
		Author:  author,
		Year:    rec.YearString(UnknownYear),
		Title:   title,
	}, nil
}

// Synthesize returns the target filename for rec, truncated to fit.
func Synthesize(rec *csl.Record) (string, error) {
	c, err := Extract(rec)
	if err != nil {
		return "", err
	}
	return Truncate(c.String()), nil
}

// journalName prefers container-title[0], then the journal string, then a
// scalar container-title.
func journalName(rec *csl.Record) string {
	if rec.ContainerTitle.Kind == csl.List {
		if j := rec.ContainerTitle.First(); j != "" {
			return j
		}
	}
	if rec.Journal != "" {
		return rec.Journal
	}
	if rec.ContainerTitle.Kind == csl.Scalar {
		return rec.ContainerTitle.Value
	}
	return ""
}

// Sanitize keeps letters, digits, spaces, underscores and hyphens, trims the
// result and turns spaces into underscores. It is idempotent.
func Sanitize(s string) string {
	s = norm.NFC.String(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == ' ' || r == '_' || r == '-' {
			b.WriteRune(r)
		}
	}
	// Dropping characters can leave newly composable neighbours.
	out := strings.TrimSpace(norm.NFC.String(b.String()))
	return strings.ReplaceAll(out, " ", "_")
}

// Truncate cuts names longer than MaxLength bytes to TruncateAt bytes and
// re-appends Extension. The cut ignores field boundaries, and may drop the
// original extension; it only backs off far enough to avoid splitting a
// UTF-8 sequence.
func Truncate(name string) string {
	if len(name) <= MaxLength {
		return name
	}
	cut := TruncateAt
	for cut > 0 && !utf8.RuneStart(name[cut]) {
		cut--
	}
	return name[:cut] + Extension
}
