// Package csl models the loosely-typed bibliographic records returned by
// Crossref and by doi.org content negotiation (CSL-JSON).
//
// Field shapes differ between sources: an author list may arrive as an
// array of name objects or as a single delimited string, a title as an
// array or a scalar. Parse resolves those variants once so that callers
// work with explicit types instead of probing shapes.
package csl

import (
	"strconv"
	"strings"
)

// Kind tags which variant a shape-varying field holds.
type Kind int

const (
	// Absent means the field was missing or had an unusable shape.
	Absent Kind = iota
	// List means the field was a JSON array.
	List
	// Scalar means the field was a single string.
	Scalar
)

// Name is a single CSL name.
type Name struct {
	Family string `json:"family,omitempty"`
	Given  string `json:"given,omitempty"`
}

// Names holds an author list in either of its two shapes.
type Names struct {
	Kind    Kind
	List    []Name
	Literal string // Scalar form, e.g. "Doe, Jane"
}

// NameList builds a list-form Names value.
func NameList(names ...Name) Names {
	return Names{Kind: List, List: names}
}

// NameLiteral builds a string-form Names value.
func NameLiteral(s string) Names {
	return Names{Kind: Scalar, Literal: s}
}

// First returns the surname of the first author.
// List form yields the first element's family name; string form yields the
// text before the first comma.
func (n Names) First() string {
	switch n.Kind {
	case List:
		if len(n.List) == 0 {
			return ""
		}
		return strings.TrimSpace(n.List[0].Family)
	case Scalar:
		first, _, _ := strings.Cut(n.Literal, ",")
		return strings.TrimSpace(first)
	}
	return ""
}

// Text holds a field that is either a list of strings or a scalar string.
type Text struct {
	Kind  Kind
	List  []string
	Value string
}

// TextList builds a list-form Text value.
func TextList(values ...string) Text {
	return Text{Kind: List, List: values}
}

// TextValue builds a scalar Text value.
func TextValue(s string) Text {
	return Text{Kind: Scalar, Value: s}
}

// First returns the first list element or the scalar value.
func (t Text) First() string {
	switch t.Kind {
	case List:
		if len(t.List) == 0 {
			return ""
		}
		return t.List[0]
	case Scalar:
		return t.Value
	}
	return ""
}

// DateParts is the CSL date-parts array, e.g. [[2020, 3, 14]].
type DateParts [][]int

// Year returns date-parts[0][0] if present.
func (d DateParts) Year() (int, bool) {
	if len(d) == 0 || len(d[0]) == 0 || d[0][0] <= 0 {
		return 0, false
	}
	return d[0][0], true
}

// Record is a normalized bibliographic record.
type Record struct {
	DOI             string
	Authors         Names
	Title           Text
	ContainerTitle  Text
	Journal         string
	Issued          DateParts
	PublishedOnline DateParts
}

// Year returns the issued year, falling back to the published-online year.
func (r *Record) Year() (int, bool) {
	if y, ok := r.Issued.Year(); ok {
		return y, true
	}
	return r.PublishedOnline.Year()
}

// YearString formats Year, or returns fallback when no year is known.
func (r *Record) YearString(fallback string) string {
	if y, ok := r.Year(); ok {
		return strconv.Itoa(y)
	}
	return fallback
}

// Sufficient reports whether the record carries both a title and an author.
func (r *Record) Sufficient() bool {
	if r == nil {
		return false
	}
	return strings.TrimSpace(r.Title.First()) != "" && r.Authors.First() != ""
}
