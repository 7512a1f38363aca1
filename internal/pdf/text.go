// Package pdf extracts plain text and DOIs from PDF files.
package pdf

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// DefaultMaxPages is how many leading pages are read for DOI and heuristic
// metadata detection.
const DefaultMaxPages = 5

// ErrUnreadable indicates the PDF library could not parse the file.
var ErrUnreadable = errors.New("unreadable PDF")

// Extractor produces plain text from the first pages of a document.
type Extractor interface {
	ExtractText(path string, maxPages int) (string, error)
}

// LedongthucExtractor is the Extractor backed by github.com/ledongthuc/pdf.
type LedongthucExtractor struct{}

// ExtractText implements Extractor.
func (LedongthucExtractor) ExtractText(path string, maxPages int) (string, error) {
	return ExtractText(path, maxPages)
}

// ExtractText extracts all text from the first maxPages pages of a PDF.
// A non-positive maxPages reads every page. The file is closed before
// returning.
func ExtractText(path string, maxPages int) (text string, err error) {
	// The reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%w: %v", ErrUnreadable, r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer f.Close()

	if maxPages <= 0 || maxPages > r.NumPage() {
		maxPages = r.NumPage()
	}

	var builder strings.Builder
	for i := 1; i <= maxPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		builder.WriteString(pageText)
		builder.WriteString("\n")
	}

	return builder.String(), nil
}
