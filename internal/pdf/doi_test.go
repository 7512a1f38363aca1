package pdf

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFindDOI(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "bare DOI",
			text: "10.1038/nature12373",
			want: "10.1038/nature12373",
		},
		{
			name: "DOI with prefix label",
			text: "Published online. doi:10.1016/j.cell.2020.01.001 Received",
			want: "10.1016/j.cell.2020.01.001",
		},
		{
			name: "trailing period is dropped",
			text: "See https://doi.org/10.1093/bioinformatics/btz123.",
			want: "10.1093/bioinformatics/btz123",
		},
		{
			name: "first of several occurrences",
			text: "10.1111/first.1 cites 10.2222/second.2",
			want: "10.1111/first.1",
		},
		{
			name: "case-insensitive suffix",
			text: "DOI 10.1371/JOURNAL.PONE.0123456\n",
			want: "10.1371/JOURNAL.PONE.0123456",
		},
		{
			name: "parentheses and semicolons in suffix",
			text: "10.1002/(SICI)1097-4636(199706);2-Q end",
			want: "10.1002/(SICI)1097-4636(199706);2-Q",
		},
		{
			name: "nine digit registrant",
			text: "10.123456789/abc",
			want: "10.123456789/abc",
		},
		{
			name: "registrant too short",
			text: "10.123/abc",
			want: "",
		},
		{
			name: "no DOI",
			text: "A paper about things\nwithout identifiers",
			want: "",
		},
		{
			name: "empty",
			text: "",
			want: "",
		},
		{
			name: "missing suffix",
			text: "10.1234/ is not a DOI",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FindDOI(tt.text); got != tt.want {
				t.Errorf("FindDOI(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractText_NotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bogus.pdf")
	if err := os.WriteFile(path, []byte("plain text, not a PDF"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := ExtractText(path, DefaultMaxPages)
	if !errors.Is(err, ErrUnreadable) {
		t.Errorf("ExtractText() error = %v, want ErrUnreadable", err)
	}
}

func TestExtractText_Missing(t *testing.T) {
	_, err := LedongthucExtractor{}.ExtractText(filepath.Join(t.TempDir(), "missing.pdf"), 1)
	if !errors.Is(err, ErrUnreadable) {
		t.Errorf("ExtractText() error = %v, want ErrUnreadable", err)
	}
}
